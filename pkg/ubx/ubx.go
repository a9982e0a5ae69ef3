// Package ubx implements framing and payload codecs for the u-blox UBX binary
// protocol.
package ubx

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Frame constants.
const (
	Sync1     byte = 0xb5
	Sync2     byte = 0x62
	HeadSize       = 6
	FrameSize      = 8

	// MaxPayloadSize limits accepted payloads. The protocol allows 64k but no
	// receiver output comes close.
	MaxPayloadSize = 4096
)

// The available frame errors.
var (
	ErrShort    = errors.New("ubx: message too short")
	ErrSync     = errors.New("ubx: bad sync characters")
	ErrLength   = errors.New("ubx: length mismatch")
	ErrChecksum = errors.New("ubx: checksum mismatch")
	ErrPayload  = errors.New("ubx: payload too large")
)

// Make will frame the payload as a UBX message.
func Make(cls, id byte, payload []byte) []byte {
	// prepare message
	msg := make([]byte, FrameSize+len(payload))
	msg[0] = Sync1
	msg[1] = Sync2
	msg[2] = cls
	msg[3] = id
	binary.LittleEndian.PutUint16(msg[4:6], uint16(len(payload)))
	copy(msg[HeadSize:], payload)

	// append checksum
	a, b := Checksum(msg[2 : HeadSize+len(payload)])
	msg[len(msg)-2] = a
	msg[len(msg)-1] = b

	return msg
}

// Poll returns an empty message of the given class and id, which u-blox
// receivers answer with the current value.
func Poll(cls, id byte) []byte {
	return Make(cls, id, nil)
}

// Checksum computes the 8-bit Fletcher checksum over the provided bytes.
func Checksum(data []byte) (byte, byte) {
	var a, b byte
	for _, c := range data {
		a += c
		b += a
	}
	return a, b
}

// Check verifies sync, length and checksum of a complete message.
func Check(msg []byte) error {
	// check size
	if len(msg) < FrameSize {
		return ErrShort
	}

	// check sync
	if msg[0] != Sync1 || msg[1] != Sync2 {
		return ErrSync
	}

	// check length
	size := int(binary.LittleEndian.Uint16(msg[4:6]))
	if size > MaxPayloadSize {
		return ErrPayload
	}
	if len(msg) != size+FrameSize {
		return fmt.Errorf("%w: header %d, frame %d", ErrLength, size, len(msg)-FrameSize)
	}

	// check checksum
	a, b := Checksum(msg[2 : len(msg)-2])
	if a != msg[len(msg)-2] || b != msg[len(msg)-1] {
		return ErrChecksum
	}

	return nil
}

// ClassID returns the message class of a framed message.
func ClassID(msg []byte) byte {
	if len(msg) < HeadSize {
		return 0
	}
	return msg[2]
}

// MessageID returns the message id of a framed message.
func MessageID(msg []byte) byte {
	if len(msg) < HeadSize {
		return 0
	}
	return msg[3]
}

// Payload returns the payload of a framed message.
func Payload(msg []byte) []byte {
	if len(msg) < FrameSize {
		return nil
	}
	return msg[HeadSize : len(msg)-2]
}

// Is reports whether the framed message has the given class and id.
func Is(msg []byte, cls, id byte) bool {
	return len(msg) >= FrameSize && msg[2] == cls && msg[3] == id
}
