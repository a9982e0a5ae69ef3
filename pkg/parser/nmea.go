package parser

import (
	"fmt"
	"strings"
)

// MaxNMEA is the maximum accepted sentence length including "$" and CRLF.
// u-blox receivers exceed the standard 82 characters for some sentences.
const MaxNMEA = 400

func hexValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return -1
	}
}

func detectNMEA(buf []byte) int {
	if buf[0] != '$' {
		return -1
	}

	// find checksum delimiter
	var ck byte
	for i := 1; ; i++ {
		if i >= MaxNMEA {
			return -1
		}
		if i >= len(buf) {
			return 0
		}

		c := buf[i]
		if c == '*' {
			if i < 4 {
				return -1
			}

			// need checksum and line end
			if len(buf) < i+5 {
				return 0
			}
			hi, lo := hexValue(buf[i+1]), hexValue(buf[i+2])
			if hi < 0 || lo < 0 || buf[i+3] != '\r' || buf[i+4] != '\n' {
				return -1
			}
			if byte(hi<<4|lo) != ck {
				return -1
			}
			return i + 5
		}

		if c < 32 || c > 126 {
			return -1
		}
		ck ^= c
	}
}

func nmeaNameInfo(data []byte) (string, string) {
	// get sentence body
	body := string(data[1:])
	if i := strings.LastIndexByte(body, '*'); i >= 0 {
		body = body[:i]
	}

	// get address field
	addr, _, _ := strings.Cut(body, ",")

	// handle proprietary u-blox sentences
	if addr == "PUBX" {
		fields := strings.Split(body, ",")
		if len(fields) > 1 {
			return fmt.Sprintf("NMEA-PUBX-%s", fields[1]), body
		}
		return "NMEA-PUBX-?", body
	}

	// handle other proprietary sentences
	if strings.HasPrefix(addr, "P") {
		return fmt.Sprintf("NMEA-P-%s", addr[1:]), body
	}

	// handle standard sentences
	if len(addr) < 3 {
		return "NMEA-?", body
	}
	return fmt.Sprintf("NMEA-%s-%s", addr[:2], addr[2:]), body
}
