package base

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestDescriptorMarshal(t *testing.T) {
	assert := assert.New(t)

	tests := []Descriptor{
		{},
		{Length: 12, Channel: 0, Delta: 0},
		{Length: 8, Channel: 2, Delta: -5},
		{Length: FrameSizeMax, Channel: 0xffffffff, Delta: -1 << 31},
		{Length: 1, Channel: 1, Delta: 1<<31 - 1},
	}

	for _, test := range tests {
		var b [DescriptorSize]byte
		test.Marshal(b[:])
		assert.Equal(test, UnmarshalDescriptor(b[:]))
	}
}

func TestDescriptorMarshalRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := Descriptor{
			Length:  rapid.Uint32().Draw(t, "length"),
			Channel: rapid.Uint32().Draw(t, "channel"),
			Delta:   rapid.Int32().Draw(t, "delta"),
		}
		var b [DescriptorSize]byte
		d.Marshal(b[:])
		if got := UnmarshalDescriptor(b[:]); got != d {
			t.Fatalf("round trip changed descriptor: %+v != %+v", got, d)
		}
	})
}

func TestDescriptorIsPacket(t *testing.T) {
	assert := assert.New(t)

	assert.True(Descriptor{Length: 4}.IsPacket())
	assert.False(Descriptor{Length: 4, Channel: 1}.IsPacket())
}

func TestDescriptorFrameSize(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(DescriptorSize, Descriptor{}.FrameSize())
	assert.Equal(DescriptorSize+100, Descriptor{Length: 100}.FrameSize())
}
