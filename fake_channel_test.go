package pstream

import (
	"bytes"

	"github.com/googollee/go-pstream/base"
)

// frameBytes builds the wire form of one frame.
func frameBytes(desc base.Descriptor, payload []byte) []byte {
	b := make([]byte, base.DescriptorSize, desc.FrameSize())
	desc.Marshal(b)
	return append(b, payload...)
}

type fakeSource struct {
	fn      func()
	enabled bool
	freed   bool
}

func (s *fakeSource) Enable(enabled bool) {
	s.enabled = enabled
}

func (s *fakeSource) Free() {
	s.enabled = false
	s.freed = true
}

type fakeScheduler struct {
	sources []*fakeSource
}

func (s *fakeScheduler) NewSource(fn func()) Source {
	src := &fakeSource{fn: fn}
	s.sources = append(s.sources, src)
	return src
}

// run sweeps the enabled sources until none is armed, up to limit
// sweeps. It returns the number of sweeps performed.
func (s *fakeScheduler) run(limit int) int {
	for i := 0; i < limit; i++ {
		ran := false
		for _, src := range s.sources {
			if src.enabled && !src.freed {
				ran = true
				src.fn()
			}
		}
		if !ran {
			return i
		}
	}
	return limit
}

// fakeChannel scripts a non-blocking byte channel. Writes land in
// outbound, reads consume inbound; maxRead/maxWrite cap the bytes moved
// per call to force partial transfers.
type fakeChannel struct {
	inbound  []byte
	outbound bytes.Buffer

	maxRead     int // per-call cap, 0 = unlimited
	maxWrite    int
	stallWrites int // number of Write calls accepting 0 bytes

	readErr    error
	writeErr   error
	eof        bool // readable with nothing to read
	unwritable bool

	callback   func()
	closed     bool
	readCalls  int
	writeCalls int
}

func (c *fakeChannel) IsReadable() bool {
	return len(c.inbound) > 0 || c.eof || c.readErr != nil
}

func (c *fakeChannel) IsWritable() bool {
	return !c.closed && !c.unwritable
}

func (c *fakeChannel) Read(p []byte) (int, error) {
	c.readCalls++
	if c.readErr != nil {
		return 0, c.readErr
	}
	n := len(p)
	if n > len(c.inbound) {
		n = len(c.inbound)
	}
	if c.maxRead > 0 && n > c.maxRead {
		n = c.maxRead
	}
	copy(p, c.inbound[:n])
	c.inbound = c.inbound[n:]
	return n, nil
}

func (c *fakeChannel) Write(p []byte) (int, error) {
	c.writeCalls++
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	if c.stallWrites > 0 {
		c.stallWrites--
		return 0, nil
	}
	n := len(p)
	if c.maxWrite > 0 && n > c.maxWrite {
		n = c.maxWrite
	}
	c.outbound.Write(p[:n])
	return n, nil
}

func (c *fakeChannel) SetCallback(fn func()) {
	c.callback = fn
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

// ready fires the channel's readiness notification, like the real
// channel does when the fd becomes readable or writable.
func (c *fakeChannel) ready() {
	if c.callback != nil {
		c.callback()
	}
}

// pump fires readiness until the inbound bytes are consumed or the
// stream stops making progress.
func (c *fakeChannel) pump(s *Stream) {
	for len(c.inbound) > 0 && !s.Dead() && !s.closed {
		c.ready()
	}
}
