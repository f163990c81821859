package broadcast

// Event names pushed to subscribers. Clients treat every payload as a full
// snapshot of the named list, never a delta.
const (
	// EventUnitStatusChanged carries the full active LEO unit roster.
	EventUnitStatusChanged = "unit-status-changed"
	// EventDeputyStatusChanged carries the full active EMS/FD unit roster.
	EventDeputyStatusChanged = "deputy-status-changed"
	// EventUnitOffDuty signals a single unit going off duty.
	EventUnitOffDuty = "unit-off-duty"
	// EventCallUpdated carries the updated call record.
	EventCallUpdated = "call-updated"
	// EventJailRelease signals an arrest reaching its release time.
	EventJailRelease = "jail-release"
)

// Publisher is the outbound notification interface consumed by workflows.
// Publish never blocks on subscribers and never reports delivery failure.
type Publisher interface {
	Publish(event string, payload any)
}

// Sink receives a copy of every published event after it has been encoded.
type Sink interface {
	Record(event string, data []byte)
}
