// Package reconcile computes the relation operations needed to move a
// persisted many-to-many member set to a desired member set.
//
// Plan compares the current and incoming member lists by key and emits the
// minimal set of connect/disconnect (or delete) operations; members present
// in both lists are never touched. The emission order is a contract: the
// deduplicated universe order, current members first, then incoming-only
// members in their incoming order.
//
// Members are either bare identifiers (pass Identity as the key function) or
// structured records (pass an accessor). The key function is chosen once at
// the call site, so a member without an extractable identity is not
// representable.
//
// Everything in this package is a pure function: no persistence, no errors,
// no side effects. Callers hand the returned operations to the persistence
// layer as the relation-update instruction set.
package reconcile
