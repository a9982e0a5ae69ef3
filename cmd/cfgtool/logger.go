package main

import (
	"fmt"
	"sync"
	"time"
)

type logEntry struct {
	time   time.Time
	source string
	text   string
}

// logPane buffers the most recent receiver log messages.
type logPane struct {
	entries []logEntry
	limit   int
	notify  func()
	mutex   sync.Mutex
}

func newLogPane(limit int) *logPane {
	// ensure limit
	if limit <= 0 {
		limit = 200
	}

	return &logPane{
		limit: limit,
	}
}

func (p *logPane) add(source, text string) {
	// acquire mutex
	p.mutex.Lock()
	defer p.mutex.Unlock()

	// append entry and drop oldest
	p.entries = append(p.entries, logEntry{
		time:   time.Now(),
		source: source,
		text:   text,
	})
	if len(p.entries) > p.limit {
		p.entries = p.entries[len(p.entries)-p.limit:]
	}

	// notify
	if p.notify != nil {
		go p.notify()
	}
}

func (p *logPane) lines() []string {
	// acquire mutex
	p.mutex.Lock()
	defer p.mutex.Unlock()

	// format entries
	lines := make([]string, 0, len(p.entries))
	for _, entry := range p.entries {
		lines = append(lines, fmt.Sprintf("%s %-16s %s", entry.time.Format(time.TimeOnly), entry.source, entry.text))
	}

	return lines
}

func (p *logPane) bind(fn func()) {
	// acquire mutex
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.notify = fn
}
