package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ubloxcfg/ubloxcfg/pkg/ubloxcfg"
	"github.com/ubloxcfg/ubloxcfg/pkg/ubx"
)

type format int

const (
	formatUBX format = iota
	formatHex
	formatC
)

// formatValset renders the messages as binary UBX, u-center hex dump or C
// code.
func formatValset(msgs []ubloxcfg.ValsetMessage, layers byte, fmtType format, extra bool) []byte {
	buf := new(bytes.Buffer)

	// binary output
	if fmtType == formatUBX {
		for _, msg := range msgs {
			buf.Write(msg.Msg)
		}
		return buf.Bytes()
	}

	// prepare comments
	layersStr := ubx.LayersString(layers)
	comment1, comment2 := "# - ", "#   "
	if fmtType == formatC {
		comment1, comment2 = "// ", "// "
	}

	// write header
	items := 0
	for _, msg := range msgs {
		items += len(msg.Items)
	}
	if fmtType == formatHex {
		buf.WriteString("# cfg2hex")
	} else {
		buf.WriteString("// cfg2c")
	}
	_, _ = fmt.Fprintf(buf, " (%d items in %s)\n", items, layersStr)

	for i, msg := range msgs {
		// write message header
		_, _ = fmt.Fprintf(buf, "%sUBX-CFG-VALSET %d/%d (%d items, %d bytes, %s, %s)\n",
			comment1, i+1, len(msgs), len(msg.Items), len(msg.Msg), msg.Info, layersStr)
		if extra {
			for n, kv := range msg.Items {
				_, _ = fmt.Fprintf(buf, "%s%2d. %s\n", comment2, n+1, ubloxcfg.StringifyKeyVal(kv))
			}
		}

		// write message
		if fmtType == formatHex {
			buf.WriteString(hexLine(msg.Msg))
			buf.WriteString("\n")
		} else {
			_, _ = fmt.Fprintf(buf, "const uint8_t ubxCfgValset%d[%d] =\n{\n", i, len(msg.Msg))
			buf.WriteString(cArray(msg.Msg, "    "))
			buf.WriteString("};\n")
		}
	}

	// write message table
	if fmtType == formatC {
		_, _ = fmt.Fprintf(buf, "const struct { const int size; const uint8_t *data; } ubxCfgValsetMsgs[%d] =\n{\n", len(msgs))
		for i := range msgs {
			sep := ","
			if i == len(msgs)-1 {
				sep = ""
			}
			_, _ = fmt.Fprintf(buf, "    { .size = sizeof(ubxCfgValset%d), .data = ubxCfgValset%d }%s\n", i, i, sep)
		}
		buf.WriteString("};\n")
	}

	return buf.Bytes()
}

// hexLine formats a message like u-center, i.e. the message name followed by
// class, id, length and payload.
func hexLine(msg []byte) string {
	name := strings.TrimPrefix(ubx.MessageName(msg), "UBX-")
	parts := make([]string, 0, len(msg)-4)
	for _, b := range msg[2 : len(msg)-2] {
		parts = append(parts, fmt.Sprintf("%02X", b))
	}
	return name + " - " + strings.Join(parts, " ")
}

func cArray(data []byte, indent string) string {
	buf := new(bytes.Buffer)
	for offs := 0; offs < len(data); offs += 16 {
		end := min(offs+16, len(data))
		parts := make([]string, 0, end-offs)
		for _, b := range data[offs:end] {
			parts = append(parts, fmt.Sprintf("0x%02x", b))
		}
		buf.WriteString(indent)
		buf.WriteString(strings.Join(parts, ", "))
		if end < len(data) {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	return buf.String()
}
