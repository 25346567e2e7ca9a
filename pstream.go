// Package pstream turns a non-blocking byte channel into a sequence of
// typed frames: control packets, delivered whole, and channel-addressed
// memblocks, delivered incrementally as chunk views. It handles framing,
// partial reads and writes, FIFO ordering and reference-counted payload
// lifetime, performing at most one bounded I/O attempt per wake-up so it
// can share a single-threaded loop with other work.
package pstream

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/googollee/go-pstream/base"
	"github.com/googollee/go-pstream/buffer"
)

// Stream multiplexes frames over one Channel. It is driven from the loop
// that owns the channel and scheduler and is not safe for concurrent
// use.
//
// A stream never blocks and never retries: any I/O error, protocol
// violation or peer shutdown moves it to a terminal dead state, after
// which sends are rejected and no further callbacks fire. Callers
// observe deadness through Dead or Err and discard the stream.
type Stream struct {
	id      string
	channel Channel
	source  Source
	logger  *zap.Logger
	metrics *metrics

	queue  sendQueue
	dead   bool
	err    error
	closed bool

	write writeState
	read  readState

	sendCallback            func()
	receivePacketCallback   func(packet *buffer.Packet)
	receiveMemblockCallback func(channel uint32, delta int32, chunk buffer.Chunk)
}

// New binds a stream to an existing channel and scheduler. The stream
// registers the channel's ready callback and one scheduler source for
// itself; both are released again by Close.
func New(channel Channel, scheduler Scheduler, opts ...OptionFunc) *Stream {
	options := newDefaultOptions()
	for _, o := range opts {
		o(options)
	}

	s := &Stream{
		id:      uuid.NewString(),
		channel: channel,
	}
	s.logger = options.Logger.With(zap.String("stream", s.id))
	s.metrics = newMetrics(options.Registry, s.id)

	s.source = scheduler.NewSource(s.wakeup)
	s.source.Enable(false)
	channel.SetCallback(s.wakeup)

	return s
}

// ID returns the stream's unique identifier, as used in diagnostics.
func (s *Stream) ID() string {
	return s.id
}

// Dead reports whether the stream hit a fatal error. A dead stream does
// no further I/O and must be discarded.
func (s *Stream) Dead() bool {
	return s.dead
}

// Err returns the error that killed the stream, or nil while it is
// alive.
func (s *Stream) Err() error {
	return s.err
}

// PendingSends returns the number of queued frames not yet fully
// transmitted, counting the frame currently on the wire.
func (s *Stream) PendingSends() int {
	n := s.queue.len()
	if s.write.current != nil {
		n++
	}
	return n
}

// SendPacket enqueues a control frame. It takes ownership of one
// reference to packet, released when the frame has been fully written or
// the stream is destroyed first.
func (s *Stream) SendPacket(packet *buffer.Packet) error {
	if err := s.sendable(); err != nil {
		return err
	}
	if packet.Length() > base.FrameSizeMax {
		return ErrFrameTooLarge
	}

	s.queue.push(&item{typ: itemPacket, packet: packet})
	s.source.Enable(true)
	return nil
}

// SendMemblock enqueues a data frame addressed to a nonzero channel,
// carrying the signed timing adjustment delta. It takes ownership of one
// reference to chunk's memblock, released when the frame has been fully
// written or the stream is destroyed first.
func (s *Stream) SendMemblock(channel uint32, delta int32, chunk buffer.Chunk) error {
	if err := s.sendable(); err != nil {
		return err
	}
	if channel == 0 {
		return ErrInvalidChannel
	}
	if chunk.Length > base.FrameSizeMax {
		return ErrFrameTooLarge
	}

	s.queue.push(&item{typ: itemMemblock, chunk: chunk, channel: channel, delta: delta})
	s.source.Enable(true)
	return nil
}

func (s *Stream) sendable() error {
	if s.closed {
		return ErrStreamClosed
	}
	if s.dead {
		return ErrStreamDead
	}
	return nil
}

// SetSendCallback registers fn to be invoked when the outbound queue
// transitions from non-empty to empty. It fires once per drain, not once
// per frame. A previous registration is replaced; nil unregisters.
func (s *Stream) SetSendCallback(fn func()) {
	s.sendCallback = fn
}

// SetReceivePacketCallback registers fn to be invoked with each fully
// received control packet. The packet is valid for the duration of the
// call; fn keeps it alive beyond that by taking its own reference. A
// previous registration is replaced; nil unregisters.
func (s *Stream) SetReceivePacketCallback(fn func(packet *buffer.Packet)) {
	s.receivePacketCallback = fn
}

// SetReceiveMemblockCallback registers fn to be invoked with the payload
// bytes of data frames as they arrive. One frame may produce several
// calls; the chunk views of one frame concatenate to its payload exactly
// once, against stable offsets into the same memblock. The memblock is
// released when the frame completes; fn keeps it alive beyond that by
// taking its own reference. A previous registration is replaced; nil
// unregisters.
func (s *Stream) SetReceiveMemblockCallback(fn func(channel uint32, delta int32, chunk buffer.Chunk)) {
	s.receiveMemblockCallback = fn
}

// Close destroys the stream: it closes the channel, frees the scheduler
// source and releases every buffer reference the stream still owns,
// queued, partially written or partially read. Close is idempotent.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	err := s.channel.Close()
	s.source.Free()

	s.queue.drain()
	if s.write.current != nil {
		s.write.current.release()
		s.write.current = nil
		s.write.data = nil
	}
	if s.read.packet != nil {
		s.read.packet.Unref()
		s.read.packet = nil
	}
	if s.read.memblock != nil {
		s.read.memblock.Unref()
		s.read.memblock = nil
	}
	s.read.data = nil

	return err
}

// wakeup is the single external trigger: the channel's ready callback
// and the scheduler source both land here. Each engine performs at most
// one I/O attempt, then the source is re-armed if outbound work remains
// so the write path is retried without an external signal.
func (s *Stream) wakeup() {
	if s.closed {
		return
	}
	s.source.Enable(false)
	s.doWrite()
	s.doRead()
	s.armSource()
}

func (s *Stream) armSource() {
	if s.dead || s.closed {
		return
	}
	s.source.Enable(s.write.current != nil || !s.queue.empty())
}

// die moves the stream to its terminal state. Any in-flight frame stays
// incomplete; buffers are released by Close.
func (s *Stream) die(err error) {
	if s.dead {
		return
	}
	s.dead = true
	s.err = err
	s.source.Enable(false)
	s.metrics.died(err)
	s.logger.Error("stream died", zap.Error(err))
}
