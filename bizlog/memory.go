package bizlog

import (
	"sync"
)

const (
	// DefaultCapacity is the ring size used when none is given.
	DefaultCapacity = 256
	memoryType      = "memory"
)

// MemoryLogger keeps the most recent records in a bounded ring and counts
// outcomes per code. It is safe for concurrent use.
type MemoryLogger struct {
	mu     sync.Mutex
	ring   []Record
	next   int
	full   bool
	total  int64
	counts map[string]int64
}

// NewMemoryLogger creates a logger keeping at most capacity records.
func NewMemoryLogger(capacity int) *MemoryLogger {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryLogger{
		ring:   make([]Record, capacity),
		counts: make(map[string]int64),
	}
}

func (m *MemoryLogger) Log(r Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ring[m.next] = r
	m.next = (m.next + 1) % len(m.ring)
	if m.next == 0 {
		m.full = true
	}
	m.total++
	m.counts[r.Code]++
}

func (m *MemoryLogger) HandlerType() string {
	return memoryType
}

// Recent returns the retained records, oldest first.
func (m *MemoryLogger) Recent() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.full {
		out := make([]Record, m.next)
		copy(out, m.ring[:m.next])
		return out
	}
	out := make([]Record, 0, len(m.ring))
	out = append(out, m.ring[m.next:]...)
	return append(out, m.ring[:m.next]...)
}

// Count returns how many records were logged with code.
func (m *MemoryLogger) Count(code string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[code]
}

func (m *MemoryLogger) Report(sink map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	codes := make(map[string]any, len(m.counts))
	for code, n := range m.counts {
		codes[code] = n
	}
	retained := m.next
	if m.full {
		retained = len(m.ring)
	}
	sink["type"] = memoryType
	sink["capacity"] = len(m.ring)
	sink["retained"] = retained
	sink["total"] = m.total
	sink["codes"] = codes
}
