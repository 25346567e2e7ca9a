// Package buffer provides the reference-counted payload buffers carried
// by packet stream frames: owned Packets for control frames and
// shareable Memblocks, sliced into Chunk views, for data frames.
package buffer

// Memblock is a shareable byte block. Unlike a Packet its storage may be
// referenced by several in-flight chunks at once; each holder acquires
// its own reference and releases it exactly once.
//
// Memblocks are not safe for concurrent use.
type Memblock struct {
	data []byte
	refs int
}

// NewMemblock allocates a block of the given size holding one reference.
func NewMemblock(size int) *Memblock {
	return &Memblock{
		data: make([]byte, size),
		refs: 1,
	}
}

// Data returns the block's bytes. It returns nil once the last reference
// has been released.
func (b *Memblock) Data() []byte {
	return b.data
}

// Length returns the block's size in bytes.
func (b *Memblock) Length() int {
	return len(b.data)
}

// Ref acquires an additional reference and returns b.
func (b *Memblock) Ref() *Memblock {
	b.refs++
	return b
}

// Unref releases one reference. Releasing the last reference frees the
// block's storage; releasing more references than were acquired panics.
func (b *Memblock) Unref() {
	b.refs--
	if b.refs < 0 {
		panic("buffer: memblock released more times than referenced")
	}
	if b.refs == 0 {
		b.data = nil
	}
}

// RefCount returns the number of live references.
func (b *Memblock) RefCount() int {
	return b.refs
}

// Chunk is a view of Length bytes starting at Index into a shared
// memblock. Chunks do not hold a reference themselves: whoever passes a
// chunk across an ownership boundary transfers or acquires the block
// reference explicitly.
type Chunk struct {
	Block  *Memblock
	Index  int
	Length int
}

// Bytes returns the bytes the chunk covers.
func (c Chunk) Bytes() []byte {
	return c.Block.Data()[c.Index : c.Index+c.Length]
}
