package events

import (
	"strconv"
	"testing"

	"bountychain/core/types"
)

type stubEvent struct {
	evt *types.Event
}

func (s stubEvent) EventType() string   { return s.evt.Type }
func (s stubEvent) Event() *types.Event { return s.evt }

func newStubEvent(i int) stubEvent {
	return stubEvent{evt: &types.Event{
		Type:       "test.event",
		Attributes: map[string]string{"n": strconv.Itoa(i)},
	}}
}

func TestRecorderAssignsIdentifiers(t *testing.T) {
	r := NewRecorder(8)
	r.Emit(newStubEvent(1))
	r.Emit(newStubEvent(2))

	records := r.Latest(0)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Sequence != 1 || records[1].Sequence != 2 {
		t.Fatalf("sequences not monotonic: %+v", records)
	}
	if records[0].ID == "" || records[0].ID == records[1].ID {
		t.Fatalf("record ids must be unique and non-empty")
	}
	if records[1].Attrs["n"] != "2" {
		t.Fatalf("payload attributes not captured: %+v", records[1])
	}
}

func TestRecorderEvictsOldest(t *testing.T) {
	r := NewRecorder(3)
	for i := 1; i <= 5; i++ {
		r.Emit(newStubEvent(i))
	}
	records := r.Latest(0)
	if len(records) != 3 {
		t.Fatalf("expected 3 retained records, got %d", len(records))
	}
	if records[0].Sequence != 3 || records[2].Sequence != 5 {
		t.Fatalf("oldest records not evicted: %+v", records)
	}
}

func TestRecorderLatestLimit(t *testing.T) {
	r := NewRecorder(8)
	for i := 1; i <= 4; i++ {
		r.Emit(newStubEvent(i))
	}
	records := r.Latest(2)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[1].Sequence != 4 {
		t.Fatalf("latest must return newest last: %+v", records)
	}
}

type captureEmitter struct {
	seen []string
}

func (c *captureEmitter) Emit(e Event) { c.seen = append(c.seen, e.EventType()) }

func TestRecorderForwardsDownstream(t *testing.T) {
	r := NewRecorder(8)
	capture := &captureEmitter{}
	r.SetNext(capture)
	r.Emit(newStubEvent(1))
	if len(capture.seen) != 1 || capture.seen[0] != "test.event" {
		t.Fatalf("downstream emitter not invoked: %+v", capture.seen)
	}
}
