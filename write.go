package pstream

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/googollee/go-pstream/base"
)

// writeState is the cursor over the frame currently being transmitted.
// index counts bytes of the logical frame already written, header
// included; data is the payload of the current item.
type writeState struct {
	current    *item
	descriptor [base.DescriptorSize]byte
	data       []byte
	index      int
}

// doWrite performs at most one write attempt: it picks the next queued
// frame if none is on the wire, writes the remaining header or payload
// span once, and completes the frame when the cursor reaches its end. It
// never loops; partial progress is resumed on the next wake-up.
func (s *Stream) doWrite() {
	if s.dead || s.closed || !s.channel.IsWritable() {
		return
	}

	if s.write.current == nil {
		s.prepareNextWriteItem()
	}
	if s.write.current == nil {
		return
	}

	var span []byte
	if s.write.index < base.DescriptorSize {
		span = s.write.descriptor[s.write.index:]
	} else {
		span = s.write.data[s.write.index-base.DescriptorSize:]
	}

	n, err := s.channel.Write(span)
	if err != nil {
		s.die(fmt.Errorf("pstream: channel write: %w", err))
		return
	}

	s.write.index += n
	s.metrics.addBytesWritten(n)

	if s.write.index < base.DescriptorSize+len(s.write.data) {
		return
	}

	// frame fully transmitted
	kind := frameKind(s.write.current.typ)
	s.write.current.release()
	s.write.current = nil
	s.write.data = nil

	s.metrics.frameSent(kind)
	s.logger.Debug("frame sent", zap.String("kind", kind))

	if s.sendCallback != nil && s.queue.empty() {
		s.sendCallback()
	}
}

// prepareNextWriteItem pops the queue and encodes the new frame's
// descriptor. The queue may be empty, leaving the engine idle.
func (s *Stream) prepareNextWriteItem() {
	next := s.queue.pop()
	if next == nil {
		return
	}

	s.write.current = next
	s.write.index = 0

	var desc base.Descriptor
	switch next.typ {
	case itemPacket:
		desc = base.Descriptor{Length: uint32(next.packet.Length())}
		s.write.data = next.packet.Data()
	case itemMemblock:
		desc = base.Descriptor{
			Length:  uint32(next.chunk.Length),
			Channel: next.channel,
			Delta:   next.delta,
		}
		s.write.data = next.chunk.Bytes()
	}
	desc.Marshal(s.write.descriptor[:])
}

func frameKind(typ itemType) string {
	if typ == itemPacket {
		return "packet"
	}
	return "memblock"
}
