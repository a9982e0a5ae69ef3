package ubx

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

// Ack is a decoded UBX-ACK-ACK or UBX-ACK-NAK message.
type Ack struct {
	Ack   bool
	Class byte
	ID    byte
}

// ParseAck decodes an acknowledgement message.
func ParseAck(msg []byte) (Ack, bool) {
	if ClassID(msg) != ClassACK || len(Payload(msg)) != 2 {
		return Ack{}, false
	}
	id := MessageID(msg)
	if id != AckAck && id != AckNak {
		return Ack{}, false
	}
	payload := Payload(msg)
	return Ack{
		Ack:   id == AckAck,
		Class: payload[0],
		ID:    payload[1],
	}, true
}

// Version is a decoded UBX-MON-VER message.
type Version struct {
	Software   string
	Hardware   string
	Extensions []string
}

// Extension returns the value of a "KEY=value" extension.
func (v Version) Extension(key string) string {
	for _, ext := range v.Extensions {
		if k, val, ok := strings.Cut(ext, "="); ok && k == key {
			return val
		}
	}
	return ""
}

// String returns a compact version string like "HPG 1.32 (ZED-F9P)".
func (v Version) String() string {
	str := v.Extension("FWVER")
	if str == "" {
		str = v.Software
	}
	if mod := v.Extension("MOD"); mod != "" {
		str += " (" + mod + ")"
	}
	return str
}

// ParseVersion decodes a UBX-MON-VER message.
func ParseVersion(msg []byte) (Version, bool) {
	payload := Payload(msg)
	if !Is(msg, ClassMON, MonVer) || len(payload) < 40 || (len(payload)-40)%30 != 0 {
		return Version{}, false
	}
	ver := Version{
		Software: cString(payload[0:30]),
		Hardware: cString(payload[30:40]),
	}
	for offs := 40; offs < len(payload); offs += 30 {
		ver.Extensions = append(ver.Extensions, cString(payload[offs:offs+30]))
	}
	return ver, true
}

func cString(data []byte) string {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	return strings.TrimSpace(string(data))
}

var fixTypes = []string{"nofix", "dr", "2D", "3D", "3D+DR", "time"}

// MessageInfo returns a short summary of the message contents for the
// messages that have one. It returns an empty string otherwise.
func MessageInfo(msg []byte) string {
	if Check(msg) != nil {
		return ""
	}
	payload := Payload(msg)

	switch ClassID(msg) {
	case ClassACK:
		if ack, ok := ParseAck(msg); ok {
			return Name(ack.Class, ack.ID)
		}
	case ClassINF:
		return strings.TrimRight(string(payload), "\x00\r\n")
	case ClassMON:
		if MessageID(msg) == MonVer {
			if ver, ok := ParseVersion(msg); ok {
				return ver.String()
			}
		}
	case ClassCFG:
		return cfgInfo(MessageID(msg), payload)
	case ClassNAV:
		if MessageID(msg) == NavPVT && len(payload) >= 92 {
			fix := int(payload[20])
			fixStr := "?"
			if fix < len(fixTypes) {
				fixStr = fixTypes[fix]
			}
			return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d %s %d sv %.7f %.7f %.3f",
				binary.LittleEndian.Uint16(payload[4:6]), payload[6], payload[7],
				payload[8], payload[9], payload[10], fixStr, payload[23],
				float64(int32(binary.LittleEndian.Uint32(payload[28:32])))*1e-7,
				float64(int32(binary.LittleEndian.Uint32(payload[24:28])))*1e-7,
				float64(int32(binary.LittleEndian.Uint32(payload[32:36])))*1e-3)
		}
	}

	return ""
}

var transactionNames = []string{"none", "begin", "continue", "end"}

func cfgInfo(id byte, payload []byte) string {
	switch id {
	case CfgValset:
		if len(payload) < 4 {
			return ""
		}
		trans := "?"
		if int(payload[2]) < len(transactionNames) {
			trans = transactionNames[payload[2]]
		}
		return fmt.Sprintf("layers %s, transaction %s, %d bytes", LayersString(payload[1]), trans, len(payload)-4)
	case CfgValget:
		if len(payload) < 4 {
			return ""
		}
		if payload[0] == 0x00 {
			return fmt.Sprintf("poll layer %s, position %d, %d keys", LayerString(payload[1]),
				binary.LittleEndian.Uint16(payload[2:4]), (len(payload)-4)/4)
		}
		return fmt.Sprintf("layer %s, position %d, %d bytes", LayerString(payload[1]),
			binary.LittleEndian.Uint16(payload[2:4]), len(payload)-4)
	case CfgValdel:
		if len(payload) < 4 {
			return ""
		}
		return fmt.Sprintf("layers %s, %d keys", LayersString(payload[1]), (len(payload)-4)/4)
	case CfgRst:
		if len(payload) != 4 {
			return ""
		}
		return fmt.Sprintf("navBbrMask 0x%04x, resetMode 0x%02x", binary.LittleEndian.Uint16(payload[0:2]), payload[2])
	}
	return ""
}

// LayersString formats a VALSET/VALDEL layer mask like "RAM,BBR".
func LayersString(layers byte) string {
	var list []string
	if layers&LayerRAM != 0 {
		list = append(list, "RAM")
	}
	if layers&LayerBBR != 0 {
		list = append(list, "BBR")
	}
	if layers&LayerFlash != 0 {
		list = append(list, "FLASH")
	}
	if len(list) == 0 {
		return "none"
	}
	return strings.Join(list, ",")
}

// LayerString formats a VALGET layer value.
func LayerString(layer byte) string {
	switch layer {
	case ValgetRAM:
		return "RAM"
	case ValgetBBR:
		return "BBR"
	case ValgetFlash:
		return "FLASH"
	case ValgetDefault:
		return "DEFAULT"
	default:
		return fmt.Sprintf("%d", layer)
	}
}
