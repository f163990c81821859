// Package units implements unit status management and the combined-unit
// merge/unmerge workflows.
//
// A combined unit represents two or more officers (or EMS/FD deputies)
// operating as one callsign. Merging clears each member's individual status
// pointer and attaches it to the new unit, which is seeded from the chosen
// entry unit; unmerging restores the combined unit's last status to every
// member and removes any call assignments referencing the unit before
// deleting it. Each workflow runs in a single database transaction, so a
// failed precondition never leaves a partially merged state.
//
// Every state change ends with a broadcast of the complete active roster
// (snapshot semantics, see core/broadcast).
package units
