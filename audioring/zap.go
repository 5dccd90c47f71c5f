package audioring

import "go.uber.org/zap"

// ZapSink routes trace events to a zap logger. Terse events map to the
// debug level, lifecycle events to info.
type ZapSink struct {
	log *zap.SugaredLogger
}

// NewZapSink wraps logger in a TraceSink.
func NewZapSink(logger *zap.Logger) ZapSink {
	// Skip the trace helper frame so call sites point at the buffer method.
	return ZapSink{log: logger.WithOptions(zap.AddCallerSkip(2)).Sugar()}
}

func (s ZapSink) Trace(sev Severity, format string, args ...any) {
	switch sev {
	case SeverityInfo:
		s.log.Infof(format, args...)
	default:
		s.log.Debugf(format, args...)
	}
}
