package scheduler

import (
	"errors"
	"testing"
	"time"
)

func TestEngineEmitsInTriggerOrder(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now().UTC()
	if err := engine.Schedule(Event{ID: "later", Kind: KindLessonStart, At: now.Add(80 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule later: %v", err)
	}
	if err := engine.Schedule(Event{ID: "sooner", Kind: KindDayRollover, At: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule sooner: %v", err)
	}

	first := waitEvent(t, engine.C(), time.Second)
	second := waitEvent(t, engine.C(), time.Second)
	if first.ID != "sooner" || second.ID != "later" {
		t.Fatalf("unexpected order: first=%s second=%s", first.ID, second.ID)
	}
	if first.Kind != KindDayRollover {
		t.Fatalf("kind lost in transit: %q", first.Kind)
	}
}

func TestEngineNonBlockingDropsWhenConsumerIsSlow(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	defer engine.Stop()

	now := time.Now().UTC().Add(20 * time.Millisecond)
	for i := 0; i < 25; i++ {
		if err := engine.Schedule(Event{
			Kind: KindLessonStart,
			At:   now,
		}); err != nil {
			t.Fatalf("schedule event: %v", err)
		}
	}

	time.Sleep(120 * time.Millisecond)
	if engine.Dropped() == 0 {
		t.Fatalf("expected dropped events > 0, got %d", engine.Dropped())
	}
}

func TestScheduleValidatesTriggerTime(t *testing.T) {
	engine := NewEngine(1)
	if err := engine.Schedule(Event{ID: "bad"}); err != ErrInvalidTriggerTime {
		t.Fatalf("expected ErrInvalidTriggerTime, got %v", err)
	}
}

func TestScheduleReplacesSameID(t *testing.T) {
	engine := NewEngine(1)
	at := time.Now().Add(time.Hour)
	_ = engine.Schedule(Event{ID: "rollover", Kind: KindDayRollover, At: at})
	_ = engine.Schedule(Event{ID: "rollover", Kind: KindDayRollover, At: at.Add(time.Minute)})
	_ = engine.Schedule(Event{ID: "lesson-a", Kind: KindLessonStart, At: at.Add(-time.Minute)})

	pending := engine.Pending()
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending events, got %#v", pending)
	}
	if pending[0].ID != "lesson-a" || !pending[1].At.Equal(at.Add(time.Minute)) {
		t.Fatalf("unexpected pending order: %#v", pending)
	}

	if n := engine.Cancel(KindLessonStart); n != 1 {
		t.Fatalf("expected one cancelled lesson, got %d", n)
	}
	if pending = engine.Pending(); len(pending) != 1 || pending[0].Kind != KindDayRollover {
		t.Fatalf("unexpected pending after cancel: %#v", pending)
	}
}

func TestScheduleAfterStop(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	engine.Stop()
	if err := engine.Schedule(Event{ID: "x", At: time.Now()}); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
	if _, ok := <-engine.C(); ok {
		t.Fatalf("output channel must be closed after stop")
	}
}

func TestRolloverFiresBeforeLessonAtSameInstant(t *testing.T) {
	engine := NewEngine(4)
	midnight := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	_ = engine.Schedule(Event{ID: "lesson:b", Kind: KindLessonStart, At: midnight})
	_ = engine.Schedule(Event{ID: "lesson:a", Kind: KindLessonStart, At: midnight})
	_ = engine.Schedule(Event{ID: "rollover", Kind: KindDayRollover, At: midnight})

	got := engine.Pending()
	want := []string{"rollover", "lesson:a", "lesson:b"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("pending[%d] = %s, want %s (all: %#v)", i, got[i].ID, id, got)
		}
	}
}

func TestStopBeforeStartIsNoop(t *testing.T) {
	engine := NewEngine(0)
	engine.Stop()
	if err := engine.Schedule(Event{ID: "x", Kind: KindLessonStart, At: time.Now()}); err != nil {
		t.Fatalf("schedule on an unstarted engine: %v", err)
	}
}

func waitEvent(t *testing.T, ch <-chan Event, timeout time.Duration) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for event")
		return Event{}
	}
}
