// Package base holds the wire-level primitives of the packet stream
// protocol: the frame descriptor layout and its size limits.
package base

import "encoding/binary"

const (
	// DescriptorSize is the wire size of a frame descriptor: three
	// fixed-width fields of four bytes each.
	DescriptorSize = 12

	// FrameSizeMax is the largest payload one frame may carry. A decoded
	// descriptor claiming more is a protocol violation.
	FrameSizeMax = 1024 * 64
)

// Descriptor is the fixed-size frame header. Every frame on the wire is a
// descriptor followed by Length payload bytes, back to back with no
// delimiters.
type Descriptor struct {
	// Length is the payload byte count, at most FrameSizeMax.
	Length uint32
	// Channel identifies the logical data stream. Channel 0 is reserved
	// for control packets.
	Channel uint32
	// Delta is a signed timing adjustment, meaningful only for data
	// frames.
	Delta int32
}

// IsPacket reports whether the frame carries a control packet rather than
// channel data.
func (d Descriptor) IsPacket() bool {
	return d.Channel == 0
}

// FrameSize returns the total wire size of the frame, header included.
func (d Descriptor) FrameSize() int {
	return DescriptorSize + int(d.Length)
}

// Marshal packs the descriptor into the first DescriptorSize bytes of b.
// Fields are transferred in host byte order: the protocol targets
// same-host transport, so no wire-endianness normalization is done and
// both ends must share the native representation.
func (d Descriptor) Marshal(b []byte) {
	binary.NativeEndian.PutUint32(b[0:4], d.Length)
	binary.NativeEndian.PutUint32(b[4:8], d.Channel)
	binary.NativeEndian.PutUint32(b[8:12], uint32(d.Delta))
}

// UnmarshalDescriptor is the inverse of Marshal. It performs no
// validation; the caller checks Length against FrameSizeMax.
func UnmarshalDescriptor(b []byte) Descriptor {
	return Descriptor{
		Length:  binary.NativeEndian.Uint32(b[0:4]),
		Channel: binary.NativeEndian.Uint32(b[4:8]),
		Delta:   int32(binary.NativeEndian.Uint32(b[8:12])),
	}
}
