package pstream

import "github.com/googollee/go-pstream/buffer"

type itemType int

const (
	itemPacket itemType = iota
	itemMemblock
)

// item is one queued outbound frame. Exactly one payload variant is
// populated, according to typ; the item owns one reference to that
// payload until release is called.
type item struct {
	typ itemType

	// packet frame
	packet *buffer.Packet

	// memblock frame
	chunk   buffer.Chunk
	channel uint32
	delta   int32
}

// release drops the item's payload reference. Called exactly once, on
// send completion or when an unsent item is destroyed.
func (i *item) release() {
	switch i.typ {
	case itemPacket:
		i.packet.Unref()
	case itemMemblock:
		i.chunk.Block.Unref()
	}
}

// sendQueue is the FIFO of frames awaiting transmission. Insertion order
// is wire order; there is no reordering and no coalescing.
type sendQueue struct {
	items []*item
}

func (q *sendQueue) push(i *item) {
	q.items = append(q.items, i)
}

// pop removes and returns the head of the queue, or nil if it is empty.
func (q *sendQueue) pop() *item {
	if len(q.items) == 0 {
		return nil
	}
	head := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return head
}

func (q *sendQueue) empty() bool {
	return len(q.items) == 0
}

func (q *sendQueue) len() int {
	return len(q.items)
}

// drain destroys all remaining items, releasing each payload reference.
func (q *sendQueue) drain() {
	for _, i := range q.items {
		i.release()
	}
	q.items = nil
}
