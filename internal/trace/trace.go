// Package trace implements the per-request event log and the bounded
// ring buffer of completed traces used for /_xdr/traces and the dashboard.
package trace

import (
	"time"

	"github.com/google/uuid"
)

// Category is the closed set of event kinds a Trace may log.
type Category string

const (
	CategoryInfo     Category = "Info"
	CategoryChaos    Category = "Chaos"
	CategoryPayment  Category = "Payment"
	CategoryUpstream Category = "Upstream"
	CategoryError    Category = "Error"
)

// Event is a single timestamped entry in a Trace's event log.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Category  Category  `json:"category"`
	Message   string    `json:"message"`
}

// Trace records one inbound request end to end. Create with New, append
// events with Log, and seal exactly once with Finish. After Finish a Trace
// must not be mutated again.
type Trace struct {
	ID         string     `json:"id"`
	AgentID    string     `json:"agent_id"`
	Method     string     `json:"method"`
	URL        string     `json:"url"`
	StartTime  time.Time  `json:"start_time"`
	EndTime    *time.Time `json:"end_time,omitempty"`
	DurationMs *int64     `json:"duration_ms,omitempty"`
	StatusCode *int       `json:"status_code,omitempty"`
	Events     []Event    `json:"events"`
}

// New creates a Trace at pipeline entry. agentID is typically "unknown"
// until identity is enforced later in the pipeline.
func New(agentID, method, url string) *Trace {
	return &Trace{
		ID:        uuid.NewString(),
		AgentID:   agentID,
		Method:    method,
		URL:       url,
		StartTime: time.Now().UTC(),
		Events:    make([]Event, 0, 4),
	}
}

// Log appends a timestamped event. Safe to call any number of times before
// Finish; the caller owns the Trace exclusively while it is in flight, so
// no locking is needed here: a Trace has exactly one writer at a time.
func (t *Trace) Log(category Category, message string) {
	t.Events = append(t.Events, Event{
		Timestamp: time.Now().UTC(),
		Category:  category,
		Message:   message,
	})
}

// Finish seals the trace with its final status. Calling Finish more than
// once is a programming error; callers must guarantee exactly-once
// completion, so this does not guard against double-finish beyond
// overwriting the prior terminal fields.
func (t *Trace) Finish(status int) {
	now := time.Now().UTC()
	end := now
	t.EndTime = &end
	d := now.Sub(t.StartTime).Milliseconds()
	t.DurationMs = &d
	t.StatusCode = &status
}

// Clone returns a deep copy suitable for handing to a reader outside the
// owning goroutine (used by Recorder.All; Recorder.Commit stores the
// trace itself, not a copy).
func (t *Trace) Clone() *Trace {
	cp := *t
	if t.EndTime != nil {
		end := *t.EndTime
		cp.EndTime = &end
	}
	if t.DurationMs != nil {
		d := *t.DurationMs
		cp.DurationMs = &d
	}
	if t.StatusCode != nil {
		s := *t.StatusCode
		cp.StatusCode = &s
	}
	cp.Events = make([]Event, len(t.Events))
	copy(cp.Events, t.Events)
	return &cp
}
