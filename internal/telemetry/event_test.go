package telemetry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recordingEmitter struct {
	mu     sync.Mutex
	events []*Event
	err    error
}

func (r *recordingEmitter) Emit(ctx context.Context, event *Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, event)
	return nil
}

func (r *recordingEmitter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestNewEvent(t *testing.T) {
	e := NewEvent("alice", "login_success", "auth", "m")
	if e.Username != "alice" || e.EventType != "login_success" || e.Source != "auth" || e.Metadata != "m" {
		t.Errorf("unexpected event: %+v", e)
	}
	if e.CreatedAt.IsZero() {
		t.Error("CreatedAt not stamped")
	}
}

func TestMultiEmitterFanout(t *testing.T) {
	a := &recordingEmitter{}
	b := &recordingEmitter{}
	m := MultiEmitter{a, nil, b}

	if err := m.Emit(context.Background(), NewEvent("alice", "x", "y", "")); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if a.count() != 1 || b.count() != 1 {
		t.Errorf("fanout missed an emitter: %d %d", a.count(), b.count())
	}
}

func TestMultiEmitterContinuesPastFailure(t *testing.T) {
	failing := &recordingEmitter{err: errors.New("down")}
	ok := &recordingEmitter{}
	m := MultiEmitter{failing, ok}

	err := m.Emit(context.Background(), NewEvent("alice", "x", "y", ""))
	if err == nil {
		t.Fatal("expected joined error from failing emitter")
	}
	if ok.count() != 1 {
		t.Error("second emitter was skipped after first failed")
	}
}

func TestEmitAsync(t *testing.T) {
	r := &recordingEmitter{}
	EmitAsync(r, context.Background(), NewEvent("alice", "x", "y", ""))

	deadline := time.Now().Add(2 * time.Second)
	for r.count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("async emit never arrived")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestEmitAsyncNilSafe(t *testing.T) {
	EmitAsync(nil, context.Background(), NewEvent("alice", "x", "y", ""))
	EmitAsync(&recordingEmitter{}, context.Background(), nil)
}
