package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ubloxcfg/ubloxcfg/pkg/parser"
	"github.com/ubloxcfg/ubloxcfg/pkg/ubx"
)

func parseAll(data []byte) []*parser.Message {
	p := parser.New()
	p.Add(data)
	var list []*parser.Message
	for {
		msg, ok := p.Process()
		if !ok {
			return list
		}
		list = append(list, msg)
	}
}

func TestStats(t *testing.T) {
	s := newStats()
	for _, msg := range parseAll(append(
		ubx.Make(ubx.ClassNAV, ubx.NavEOE, make([]byte, 4)),
		ubx.Make(ubx.ClassNAV, ubx.NavEOE, make([]byte, 4))...,
	)) {
		s.add(msg)
	}
	s.tick(2)

	list := s.snapshot()
	require.Len(t, list, 1)
	assert.Equal(t, "UBX-NAV-EOE", list[0].Name)
	assert.Equal(t, uint64(2), list[0].Count)
	assert.Equal(t, uint64(24), list[0].Bytes)
	assert.Equal(t, 1.0, list[0].Rate)

	s.tick(1)
	assert.Equal(t, 0.0, s.snapshot()[0].Rate)
}

func TestInfLine(t *testing.T) {
	msgs := parseAll(ubx.Make(ubx.ClassINF, ubx.InfWarning, []byte("antenna [open]")))
	require.Len(t, msgs, 1)
	line, ok := infLine(msgs[0])
	assert.True(t, ok)
	assert.Equal(t, "[yellow]warning[-]: antenna [open[]", line)

	msgs = parseAll([]byte("$GNTXT,01,01,02,ANTSTATUS=OK*25\r\n"))
	require.Len(t, msgs, 1)
	line, ok = infLine(msgs[0])
	assert.True(t, ok)
	assert.Equal(t, "notice: ANTSTATUS=OK", line)

	msgs = parseAll(ubx.Make(ubx.ClassNAV, ubx.NavEOE, make([]byte, 4)))
	_, ok = infLine(msgs[0])
	assert.False(t, ok)
}

func TestLogPane(t *testing.T) {
	pane := newLogPane(2)
	pane.add("UBX-INF-NOTICE", "one")
	pane.add("UBX-INF-NOTICE", "two")
	pane.add("NMEA-GN-TXT", "three")

	lines := pane.lines()
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "UBX-INF-NOTICE")
	assert.True(t, strings.HasSuffix(lines[0], " two"))
	assert.True(t, strings.HasSuffix(lines[1], " three"))
}
