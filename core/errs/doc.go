// Package errs defines the dispatch error taxonomy.
//
// Workflows report precondition failures as one of three kinds: NotFound
// (referenced entity id does not exist), Validation (structurally bad input),
// or Conflict (the operation would violate a state invariant). All are
// detected and raised before any mutation; none is transient, so nothing in
// the application retries them. The JSON helper maps the taxonomy onto HTTP
// statuses for handlers.
package errs
