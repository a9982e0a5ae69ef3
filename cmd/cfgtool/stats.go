package main

import (
	"sort"
	"strings"
	"sync"

	"github.com/rivo/tview"

	"github.com/ubloxcfg/ubloxcfg/pkg/parser"
	"github.com/ubloxcfg/ubloxcfg/pkg/ubx"
)

type messageStats struct {
	Name  string
	Count uint64
	Bytes uint64
	Rate  float64
	Info  string

	last uint64
}

type stats struct {
	messages map[string]*messageStats
	mutex    sync.Mutex
}

func newStats() *stats {
	return &stats{
		messages: map[string]*messageStats{},
	}
}

func (s *stats) add(msg *parser.Message) {
	// acquire mutex
	s.mutex.Lock()
	defer s.mutex.Unlock()

	// get entry
	entry, ok := s.messages[msg.Name]
	if !ok {
		entry = &messageStats{Name: msg.Name}
		s.messages[msg.Name] = entry
	}

	// update entry
	entry.Count++
	entry.Bytes += uint64(len(msg.Data))
	entry.Info = msg.Info
}

// tick updates the rates from the counts since the last tick.
func (s *stats) tick(seconds float64) {
	// acquire mutex
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, entry := range s.messages {
		entry.Rate = float64(entry.Count-entry.last) / seconds
		entry.last = entry.Count
	}
}

func (s *stats) snapshot() []messageStats {
	// acquire mutex
	s.mutex.Lock()
	defer s.mutex.Unlock()

	// copy entries
	list := make([]messageStats, 0, len(s.messages))
	for _, entry := range s.messages {
		list = append(list, *entry)
	}

	// sort by name
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})

	return list
}

var infPrefixes = map[byte]string{
	ubx.InfError:   "[red]error[-]",
	ubx.InfWarning: "[yellow]warning[-]",
	ubx.InfNotice:  "notice",
	ubx.InfTest:    "[blue]test[-]",
	ubx.InfDebug:   "[gray]debug[-]",
}

var txtPrefixes = map[string]string{
	"00": "[red]error[-]",
	"01": "[yellow]warning[-]",
	"02": "notice",
	"07": "user",
}

// infLine returns the log line for UBX-INF and NMEA TXT messages. The text is
// escaped for display in a tview text view.
func infLine(msg *parser.Message) (string, bool) {
	switch msg.Type {
	case parser.TypeUBX:
		if ubx.ClassID(msg.Data) != ubx.ClassINF {
			return "", false
		}
		prefix, ok := infPrefixes[ubx.MessageID(msg.Data)]
		if !ok {
			return "", false
		}
		return prefix + ": " + tview.Escape(string(ubx.Payload(msg.Data))), true
	case parser.TypeNMEA:
		if !strings.HasSuffix(msg.Name, "-TXT") {
			return "", false
		}
		fields := strings.SplitN(msg.Info, ",", 5)
		if len(fields) < 5 {
			return "", false
		}
		prefix, ok := txtPrefixes[fields[3]]
		if !ok {
			prefix = fields[3]
		}
		return prefix + ": " + tview.Escape(fields[4]), true
	default:
		return "", false
	}
}
