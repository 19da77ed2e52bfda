package ports

import "time"

// AuditEvent records a successful domain action for the analytics trail.
type AuditEvent struct {
	Entity    string
	Action    string
	EntityID  string
	Timestamp time.Time
}

// AuditRecorder accepts audit events fire-and-forget. Implementations must
// never block the caller beyond a bounded buffer.
type AuditRecorder interface {
	Record(event AuditEvent)
}
