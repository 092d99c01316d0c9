package sim

import (
	"fmt"
	"strings"
	"sync"
)

// Event categories written by Session.
const (
	CatStatus   = "status"
	CatSpawn    = "spawn"
	CatInteract = "interact"
	CatBoundary = "boundary"
	CatClock    = "clock"
)

// Event is one recorded session event.
type Event struct {
	Tick     int
	Category string  // status, spawn, interact, boundary, clock
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=0042] interact  collected        +8 at (50,50)
func (e Event) String() string {
	return fmt.Sprintf("[T=%04d] %-9s %-16s %s", e.Tick, e.Category, e.Key, e.Value)
}

// EventLog collects structured session events. It is unbounded and safe to read
// from a presentation goroutine while the executor writes to it.
type EventLog struct {
	mu      sync.Mutex
	entries []Event
	verbose bool
}

// NewEventLog creates an EventLog. If verbose is true, per-spawn entries are
// recorded too.
func NewEventLog(verbose bool) *EventLog {
	return &EventLog{verbose: verbose}
}

// Add records a new entry.
func (l *EventLog) Add(tick int, category, key, value string, numVal float64) {
	l.mu.Lock()
	l.entries = append(l.entries, Event{
		Tick:     tick,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
	l.mu.Unlock()
}

// AddVerbose records an entry only when verbose mode is on.
func (l *EventLog) AddVerbose(tick int, category, key, value string, numVal float64) {
	if !l.verbose {
		return
	}
	l.Add(tick, category, key, value, numVal)
}

// Len returns the number of recorded entries.
func (l *EventLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Entries returns a copy of all recorded entries.
func (l *EventLog) Entries() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Event, len(l.entries))
	copy(out, l.entries)
	return out
}

// Since returns entries recorded at or after index from, and the index to pass
// next time. Consumers use it to tail the log.
func (l *EventLog) Since(from int) ([]Event, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if from < 0 {
		from = 0
	}
	if from >= len(l.entries) {
		return nil, len(l.entries)
	}
	out := make([]Event, len(l.entries)-from)
	copy(out, l.entries[from:])
	return out, len(l.entries)
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (l *EventLog) Filter(category, key string) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Event
	for _, e := range l.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (l *EventLog) FilterTickRange(fromTick, toTick int) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Event
	for _, e := range l.entries {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many entries match the given category and key.
func (l *EventLog) Count(category, key string) int {
	return len(l.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (l *EventLog) LastOf(category, key string) (Event, bool) {
	entries := l.Filter(category, key)
	if len(entries) == 0 {
		return Event{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (l *EventLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range l.Filter(category, key) {
		if strings.Contains(e.Value, valueSubstr) {
			return true
		}
	}
	return false
}

// Format renders all entries, one per line.
func (l *EventLog) Format() string {
	var sb strings.Builder
	for _, e := range l.Entries() {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
