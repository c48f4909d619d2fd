package events

// Sink receives analytics events. Implementations are fire-and-forget:
// a Track call must never block or fail the authentication decision it
// is reporting on.
type Sink interface {
	Track(distinctID, event string, properties map[string]any)
}

// Noop discards all events. Used in tests and when analytics is not
// configured.
type Noop struct{}

func (Noop) Track(string, string, map[string]any) {}
