package stipple

// Logger receives progress and diagnostic messages from the engine.
// Implementations decide where lines go (console, file, nowhere).
type Logger interface {
	Logf(format string, args ...any)
}

// FrameSink receives named point-set snapshots for visualization. The
// engine consults Enabled before rendering so that disabled sinks cost
// nothing per iteration.
type FrameSink interface {
	Enabled() bool
	WriteFrame(name string, dots []Dot) error
}

// NopLogger discards all messages. It is the default when no logger is
// injected and the one tests use.
type NopLogger struct{}

func (NopLogger) Logf(string, ...any) {}

// NopFrameSink discards all frames.
type NopFrameSink struct{}

func (NopFrameSink) Enabled() bool { return false }

func (NopFrameSink) WriteFrame(string, []Dot) error { return nil }
