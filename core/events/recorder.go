package events

import (
	"sync"

	"github.com/google/uuid"

	"bountychain/core/types"
)

// Record is a retained notification with a stable identifier. Indexers read
// records instead of parsing a log stream, so the payload carries the
// operation's key identifiers directly.
type Record struct {
	ID       string            `json:"id"`
	Sequence uint64            `json:"sequence"`
	Type     string            `json:"type"`
	Attrs    map[string]string `json:"attributes"`
}

type payloadEvent interface {
	Event() *types.Event
}

// Recorder retains the most recent emitted events in memory. It satisfies the
// Emitter interface and can forward to a wrapped emitter.
type Recorder struct {
	mu     sync.RWMutex
	next   Emitter
	buf    []Record
	limit  int
	seq    uint64
	nextID func() string
}

// NewRecorder creates a recorder keeping up to limit records. A limit of zero
// or less falls back to 1024.
func NewRecorder(limit int) *Recorder {
	if limit <= 0 {
		limit = 1024
	}
	return &Recorder{
		next:   NoopEmitter{},
		buf:    make([]Record, 0, limit),
		limit:  limit,
		nextID: func() string { return uuid.NewString() },
	}
}

// SetNext configures a downstream emitter that receives every event after it
// has been recorded. Passing nil resets the downstream to a no-op.
func (r *Recorder) SetNext(next Emitter) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if next == nil {
		r.next = NoopEmitter{}
		return
	}
	r.next = next
}

// Emit implements the Emitter interface.
func (r *Recorder) Emit(evt Event) {
	if r == nil || evt == nil {
		return
	}
	attrs := map[string]string{}
	if pe, ok := evt.(payloadEvent); ok {
		if payload := pe.Event(); payload != nil {
			for k, v := range payload.Attributes {
				attrs[k] = v
			}
		}
	}
	r.mu.Lock()
	r.seq++
	rec := Record{
		ID:       r.nextID(),
		Sequence: r.seq,
		Type:     evt.EventType(),
		Attrs:    attrs,
	}
	if len(r.buf) == r.limit {
		r.buf = append(r.buf[1:], rec)
	} else {
		r.buf = append(r.buf, rec)
	}
	next := r.next
	r.mu.Unlock()
	next.Emit(evt)
}

// Latest returns up to n records, newest last. A non-positive n returns every
// retained record.
func (r *Recorder) Latest(n int) []Record {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if n <= 0 || n > len(r.buf) {
		n = len(r.buf)
	}
	out := make([]Record, n)
	copy(out, r.buf[len(r.buf)-n:])
	return out
}
