// Package calls implements the lifecycle of dispatch calls (911, tow, taxi)
// and their unit assignments.
//
// Assignment updates go through the reconciliation engine: the current
// assignment rows and the desired officer set are compared by id, and only
// the planned connect/delete operations reach the database. Every lifecycle
// change broadcasts the updated call.
package calls
