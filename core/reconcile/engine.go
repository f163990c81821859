package reconcile

// OpKind tags a relation operation.
type OpKind string

const (
	// OpConnect attaches a member to the relation.
	OpConnect OpKind = "connect"
	// OpDisconnect detaches a member, leaving the row itself intact.
	OpDisconnect OpKind = "disconnect"
	// OpDelete detaches a member and removes its row.
	OpDelete OpKind = "delete"
)

// Op is a single planned relation operation.
type Op[K comparable] struct {
	Kind OpKind `json:"kind"`
	ID   K      `json:"id"`
}

// RemoveMode selects what happens to members leaving the relation.
type RemoveMode int

const (
	// RemoveDisconnect detaches removed members (the default).
	RemoveDisconnect RemoveMode = iota
	// RemoveDelete hard-deletes removed members.
	RemoveDelete
)

// Options controls Plan behavior.
type Options struct {
	// RemoveMode selects disconnect vs delete for departing members.
	RemoveMode RemoveMode
}

// Identity is the key function for lists of bare identifiers.
func Identity[K comparable](v K) K { return v }

// Merge concatenates both lists and removes duplicates by key, preserving
// first-occurrence order. It is the building block Plan uses to enumerate the
// candidate universe, and is exported because workflows also need
// deduplication on its own.
func Merge[T any, K comparable](current, incoming []T, key func(T) K) []T {
	seen := make(map[K]struct{}, len(current)+len(incoming))
	merged := make([]T, 0, len(current)+len(incoming))

	for _, list := range [][]T{current, incoming} {
		for _, member := range list {
			k := key(member)
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			merged = append(merged, member)
		}
	}

	return merged
}

// Plan computes the operations transforming the current member set into the
// incoming member set. Members in both lists (or neither) produce nothing;
// incoming-only members produce a connect; current-only members produce a
// disconnect, or a delete under RemoveDelete.
func Plan[T any, K comparable](current, incoming []T, key func(T) K, opts Options) []Op[K] {
	currentSet := keySet(current, key)
	incomingSet := keySet(incoming, key)

	removeKind := OpDisconnect
	if opts.RemoveMode == RemoveDelete {
		removeKind = OpDelete
	}

	ops := []Op[K]{}
	for _, member := range Merge(current, incoming, key) {
		k := key(member)
		_, inCurrent := currentSet[k]
		_, inIncoming := incomingSet[k]

		switch {
		case inIncoming && !inCurrent:
			ops = append(ops, Op[K]{Kind: OpConnect, ID: k})
		case inCurrent && !inIncoming:
			ops = append(ops, Op[K]{Kind: removeKind, ID: k})
		}
	}

	return ops
}

// LastOf returns the final element of a list, typically the most recently
// appended record. The second return is false for an empty list.
func LastOf[T any](list []T) (T, bool) {
	if len(list) == 0 {
		var zero T
		return zero, false
	}
	return list[len(list)-1], true
}

func keySet[T any, K comparable](list []T, key func(T) K) map[K]struct{} {
	set := make(map[K]struct{}, len(list))
	for _, member := range list {
		set[key(member)] = struct{}{}
	}
	return set
}
