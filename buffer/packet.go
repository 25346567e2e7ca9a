package buffer

// Packet is the payload of a control frame: a byte buffer sized once at
// allocation and reference counted. A new packet starts with one
// reference owned by the allocator.
//
// Packets are not safe for concurrent use; like the stream itself they
// belong to a single loop.
type Packet struct {
	data []byte
	refs int
}

// NewPacket allocates a packet of the given size holding one reference.
func NewPacket(size int) *Packet {
	return &Packet{
		data: make([]byte, size),
		refs: 1,
	}
}

// Data returns the packet's bytes. It returns nil once the last
// reference has been released.
func (p *Packet) Data() []byte {
	return p.data
}

// Length returns the packet's size in bytes.
func (p *Packet) Length() int {
	return len(p.data)
}

// Ref acquires an additional reference and returns p.
func (p *Packet) Ref() *Packet {
	p.refs++
	return p
}

// Unref releases one reference. Releasing the last reference frees the
// packet's storage; releasing more references than were acquired panics.
func (p *Packet) Unref() {
	p.refs--
	if p.refs < 0 {
		panic("buffer: packet released more times than referenced")
	}
	if p.refs == 0 {
		p.data = nil
	}
}

// RefCount returns the number of live references.
func (p *Packet) RefCount() int {
	return p.refs
}
