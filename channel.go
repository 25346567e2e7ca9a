package pstream

// Channel is the non-blocking, bidirectional byte channel a stream is
// bound to. Read and Write must never block: they transfer whatever the
// channel can take right now, possibly nothing, and return. A stream
// performs at most one Read and one Write per wake-up and relies on the
// ready callback (or its scheduler source) to be invoked again.
//
// A Write error is fatal to the stream. A Read error, or a Read that
// returns 0 bytes while the channel reported readable, is fatal too and
// covers the peer closing its end.
type Channel interface {
	// IsReadable reports whether a Read may transfer bytes right now.
	IsReadable() bool
	// IsWritable reports whether a Write may transfer bytes right now.
	IsWritable() bool
	// Read transfers up to len(p) bytes into p without blocking.
	Read(p []byte) (int, error)
	// Write transfers up to len(p) bytes from p without blocking.
	Write(p []byte) (int, error)
	// SetCallback registers the single ready notification. The channel
	// invokes it whenever readability or writability may have changed.
	SetCallback(fn func())
	// Close releases the channel.
	Close() error
}

// Scheduler is the loop that owns the stream. A stream registers one
// deferred source with it so the write path is retried promptly even
// when no channel readiness signal arrives.
type Scheduler interface {
	// NewSource registers fn to be invoked by the loop whenever the
	// returned source is enabled. The source starts disabled.
	NewSource(fn func()) Source
}

// Source is a deferred invocation handle obtained from a Scheduler.
type Source interface {
	// Enable arms or disarms the source.
	Enable(enabled bool)
	// Free unregisters the source from its scheduler.
	Free()
}
