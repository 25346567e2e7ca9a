package pstream

import "errors"

// misuse errors, returned by the send API.
var (
	// ErrStreamClosed is returned when sending on a closed stream.
	ErrStreamClosed = errors.New("pstream: stream is closed")

	// ErrStreamDead is returned when sending on a dead stream.
	ErrStreamDead = errors.New("pstream: stream is dead")

	// ErrInvalidChannel is returned when sending a memblock on channel 0,
	// which is reserved for control packets.
	ErrInvalidChannel = errors.New("pstream: channel 0 is reserved for packets")
)

// fatal stream errors, observable through Err after the stream dies.
var (
	// ErrFrameTooLarge reports a frame exceeding the maximum frame size,
	// either decoded from the wire or handed to the send API.
	ErrFrameTooLarge = errors.New("pstream: frame exceeds maximum size")

	// ErrPeerClosed reports that the peer shut down its end of the
	// channel.
	ErrPeerClosed = errors.New("pstream: peer closed the channel")
)
