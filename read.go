package pstream

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/googollee/go-pstream/base"
	"github.com/googollee/go-pstream/buffer"
)

// readState is the cursor over the incoming frame. index counts bytes of
// the logical frame received so far, header included. Before the header
// completes both buffers are nil; from header completion until frame
// completion exactly one of packet or memblock is set and data aliases
// its storage.
type readState struct {
	descriptor [base.DescriptorSize]byte
	desc       base.Descriptor
	packet     *buffer.Packet
	memblock   *buffer.Memblock
	data       []byte
	index      int
}

// doRead performs at most one read attempt into the remaining header or
// payload span, mirroring the write engine. Header completion allocates
// the frame's buffer; payload bytes of data frames are handed to the
// memblock callback as they arrive; frame completion delivers packets
// whole and resets the cursor for the next back-to-back frame.
func (s *Stream) doRead() {
	if s.dead || s.closed || !s.channel.IsReadable() {
		return
	}

	var span []byte
	if s.read.index < base.DescriptorSize {
		span = s.read.descriptor[s.read.index:]
	} else {
		span = s.read.data[s.read.index-base.DescriptorSize:]
	}

	n, err := s.channel.Read(span)
	if err != nil {
		s.die(fmt.Errorf("pstream: channel read: %w", err))
		return
	}
	if n == 0 {
		s.die(ErrPeerClosed)
		return
	}

	s.read.index += n
	s.metrics.addBytesRead(n)

	if s.read.packet == nil && s.read.memblock == nil {
		if s.read.index < base.DescriptorSize {
			return
		}
		// Descriptor complete. The span above never crosses the
		// header/payload boundary, so this read carried header bytes
		// only.
		if !s.beginFrame() {
			return
		}
	} else {
		s.deliverPayload(n)
	}

	if s.read.index >= s.read.desc.FrameSize() {
		s.finishFrame()
	}
}

// beginFrame validates the decoded descriptor and allocates the payload
// buffer for the new frame: a packet for channel 0, a memblock
// otherwise. It reports whether the stream is still alive.
func (s *Stream) beginFrame() bool {
	desc := base.UnmarshalDescriptor(s.read.descriptor[:])
	if desc.Length > base.FrameSizeMax {
		s.die(ErrFrameTooLarge)
		return false
	}

	s.read.desc = desc
	if desc.IsPacket() {
		s.read.packet = buffer.NewPacket(int(desc.Length))
		s.read.data = s.read.packet.Data()
	} else {
		s.read.memblock = buffer.NewMemblock(int(desc.Length))
		s.read.data = s.read.memblock.Data()
	}
	return true
}

// deliverPayload hands the payload bytes received by the current read,
// and only those, to the memblock callback. The span is derived from the
// cursor and the read's byte count so each payload byte is delivered
// exactly once even if the header/payload boundary fell inside an
// earlier read.
func (s *Stream) deliverPayload(n int) {
	if s.read.memblock == nil || s.receiveMemblockCallback == nil {
		return
	}

	end := s.read.index - base.DescriptorSize
	start := s.read.index - n - base.DescriptorSize
	if start < 0 {
		start = 0
	}
	if end <= start {
		return
	}

	chunk := buffer.Chunk{
		Block:  s.read.memblock,
		Index:  start,
		Length: end - start,
	}
	s.receiveMemblockCallback(s.read.desc.Channel, s.read.desc.Delta, chunk)
}

// finishFrame completes the current frame: packets are delivered whole,
// memblocks were already delivered incrementally and are only released.
// The cursor resets for the next frame on the wire.
func (s *Stream) finishFrame() {
	switch {
	case s.read.memblock != nil:
		s.read.memblock.Unref()
		s.read.memblock = nil
		s.metrics.frameReceived("memblock")
		s.logger.Debug("frame received",
			zap.String("kind", "memblock"),
			zap.Uint32("channel", s.read.desc.Channel))

	case s.read.packet != nil:
		if s.receivePacketCallback != nil {
			s.receivePacketCallback(s.read.packet)
		}
		s.read.packet.Unref()
		s.read.packet = nil
		s.metrics.frameReceived("packet")
		s.logger.Debug("frame received", zap.String("kind", "packet"))
	}

	s.read.data = nil
	s.read.index = 0
}
