// Package broadcast provides the real-time event fan-out for the dispatch
// server.
//
// The Hub pushes named events to every connected websocket subscriber.
// Delivery is fire-and-forget: at-most-once, no acknowledgement, no replay,
// and no ordering guarantee across distinct event names. Workflows publish
// full state snapshots rather than deltas, so a dropped message is corrected
// by the next broadcast.
//
// # Publisher
//
// Workflows depend on the Publisher interface rather than the Hub so they can
// be unit tested with a recording stub.
//
// # Sinks
//
// Every published event can additionally be handed to registered sinks. The
// Archive sink writes events to object storage for offline debugging.
package broadcast
