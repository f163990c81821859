// Package jail tracks arrests with minutes-based sentences and computes their
// release times. Releases broadcast a jail-release event so connected clients
// can update their jail views immediately.
package jail
