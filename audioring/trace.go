package audioring

// Severity classifies a diagnostic trace event.
type Severity int

const (
	// SeverityTerse marks per-operation diagnostics: fill, empty and
	// overrun transitions.
	SeverityTerse Severity = iota
	// SeverityInfo marks lifecycle events such as initialization.
	SeverityInfo
)

// String returns a short label for the severity.
func (s Severity) String() string {
	switch s {
	case SeverityTerse:
		return "terse"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// TraceSink receives fire-and-forget diagnostic events from a RingBuffer.
// Implementations must not block: the sink is invoked with the buffer's
// guard held, on the producer or consumer path.
type TraceSink interface {
	Trace(sev Severity, format string, args ...any)
}

// SinkFunc adapts a function to the TraceSink interface.
type SinkFunc func(sev Severity, format string, args ...any)

func (f SinkFunc) Trace(sev Severity, format string, args ...any) {
	f(sev, format, args...)
}

// NopSink discards all trace events. It is the default sink.
type NopSink struct{}

func (NopSink) Trace(Severity, string, ...any) {}
