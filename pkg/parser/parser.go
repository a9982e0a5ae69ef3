// Package parser splits a receiver data stream into UBX, NMEA and RTCM3
// messages.
package parser

import (
	"fmt"

	"github.com/ubloxcfg/ubloxcfg/pkg/ubx"
)

// Type is the message protocol.
type Type int

// The available message types.
const (
	TypeUBX Type = iota + 1
	TypeNMEA
	TypeRTCM3
	TypeGarbage
)

func (t Type) String() string {
	switch t {
	case TypeUBX:
		return "UBX"
	case TypeNMEA:
		return "NMEA"
	case TypeRTCM3:
		return "RTCM3"
	case TypeGarbage:
		return "GARBAGE"
	default:
		return "?"
	}
}

// MaxGarbage is the amount of unrecognized data that is collected before it
// is emitted as a garbage message.
const MaxGarbage = 1024

// Message is a complete message found in the data stream.
type Message struct {
	Type Type
	Seq  uint64
	Data []byte
	Name string
	Info string
}

func (m *Message) String() string {
	return fmt.Sprintf("%06d %-7s %4d %-20s %s", m.Seq, m.Type, len(m.Data), m.Name, m.Info)
}

// Stats counts the processed messages.
type Stats struct {
	Messages uint64
	Bytes    uint64
	UBX      uint64
	NMEA     uint64
	RTCM3    uint64
	Garbage  uint64
}

// Parser finds messages in a stream of bytes. It is not safe for concurrent
// use.
type Parser struct {
	buf   []byte
	offs  int
	seq   uint64
	stats Stats
}

// New creates a new parser.
func New() *Parser {
	return &Parser{}
}

// Add appends data to the parse buffer.
func (p *Parser) Add(data []byte) {
	p.buf = append(p.buf, data...)
}

// Stats returns the message counters.
func (p *Parser) Stats() Stats {
	return p.stats
}

type detector func([]byte) int

// detectors return the message size, zero if more data is needed or -1 if
// the data is not a message of the protocol
var detectors = []struct {
	typ    Type
	detect detector
}{
	{TypeUBX, detectUBX},
	{TypeNMEA, detectNMEA},
	{TypeRTCM3, detectRTCM3},
}

// Process returns the next message. It returns false if more data is needed.
// Unrecognized data preceding a message is returned as a separate garbage
// message first.
func (p *Parser) Process() (*Message, bool) {
	for p.offs < len(p.buf) {
		// try all detectors at the current offset
		found, wait := 0, false
		var typ Type
		for _, d := range detectors {
			n := d.detect(p.buf[p.offs:])
			if n > 0 {
				found, typ = n, d.typ
				break
			} else if n == 0 {
				wait = true
			}
		}

		// emit message or preceding garbage
		if found > 0 {
			if p.offs > 0 {
				return p.emit(TypeGarbage, p.offs), true
			}
			return p.emit(typ, found), true
		}

		// wait for more data, unless garbage is full
		if wait {
			if p.offs >= MaxGarbage {
				return p.emit(TypeGarbage, p.offs), true
			}
			return nil, false
		}

		// treat byte as garbage
		p.offs++
		if p.offs >= MaxGarbage {
			return p.emit(TypeGarbage, p.offs), true
		}
	}

	return nil, false
}

// Flush returns the remaining buffered data as garbage message, if any.
func (p *Parser) Flush() (*Message, bool) {
	if len(p.buf) == 0 {
		return nil, false
	}
	return p.emit(TypeGarbage, len(p.buf)), true
}

func (p *Parser) emit(typ Type, size int) *Message {
	// copy data and advance buffer
	data := make([]byte, size)
	copy(data, p.buf[:size])
	p.buf = append(p.buf[:0], p.buf[size:]...)
	p.offs = 0

	// prepare message
	p.seq++
	msg := &Message{
		Type: typ,
		Seq:  p.seq,
		Data: data,
	}

	// name message
	switch typ {
	case TypeUBX:
		msg.Name = ubx.MessageName(data)
		msg.Info = ubx.MessageInfo(data)
		p.stats.UBX++
	case TypeNMEA:
		msg.Name, msg.Info = nmeaNameInfo(data)
		p.stats.NMEA++
	case TypeRTCM3:
		msg.Name, msg.Info = rtcm3NameInfo(data)
		p.stats.RTCM3++
	default:
		msg.Name = "GARBAGE"
		p.stats.Garbage++
	}

	// update stats
	p.stats.Messages++
	p.stats.Bytes += uint64(size)

	return msg
}

func detectUBX(buf []byte) int {
	if buf[0] != ubx.Sync1 {
		return -1
	}
	if len(buf) < 2 {
		return 0
	}
	if buf[1] != ubx.Sync2 {
		return -1
	}
	if len(buf) < ubx.HeadSize {
		return 0
	}
	size := int(buf[4]) | int(buf[5])<<8
	if size > ubx.MaxPayloadSize {
		return -1
	}
	total := size + ubx.FrameSize
	if len(buf) < total {
		return 0
	}
	a, b := ubx.Checksum(buf[2 : total-2])
	if a != buf[total-2] || b != buf[total-1] {
		return -1
	}
	return total
}
