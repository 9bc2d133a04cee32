package learning

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestProgressOf(t *testing.T) {
	cases := []struct{ completed, total, want int }{
		{0, 0, 0},
		{0, 3, 0},
		{1, 3, 33},
		{2, 3, 66},
		{3, 3, 100},
		{1, 4, 25},
	}
	for _, tc := range cases {
		if got := ProgressOf(tc.completed, tc.total); got != tc.want {
			t.Fatalf("ProgressOf(%d,%d)=%d, want %d", tc.completed, tc.total, got, tc.want)
		}
	}
}

func TestTopicCompletionStampFollowsFlag(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	tp := &Topic{}
	for i, done := range []bool{true, true, false, true, false, false} {
		tp.SetCompleted(done, now.Add(time.Duration(i)*time.Minute))
		if tp.IsCompleted != done || (tp.CompletedAt != nil) != done {
			t.Fatalf("step %d: is_completed=%v completed_at=%v", i, tp.IsCompleted, tp.CompletedAt)
		}
	}
}

func TestQuizSetCompletedReportsChange(t *testing.T) {
	q := &Quiz{}
	now := time.Now()
	if !q.SetCompleted(true, now) {
		t.Fatalf("first completion should report a change")
	}
	first := *q.CompletedAt
	if q.SetCompleted(true, now.Add(time.Hour)) {
		t.Fatalf("repeat completion should be a no-op")
	}
	if !q.CompletedAt.Equal(first) {
		t.Fatalf("completed_at moved on no-op: %v -> %v", first, *q.CompletedAt)
	}
}

func TestOwnerScanValueJSON(t *testing.T) {
	id := uuid.New()
	var o Owner
	if err := o.Scan(id.String()); err != nil || !o.Is(id) {
		t.Fatalf("Scan(string): err=%v owner=%s", err, o)
	}
	if err := o.Scan(nil); err != nil || o.IsAssigned() {
		t.Fatalf("Scan(nil): err=%v owner=%s", err, o)
	}
	v, err := Unassigned().Value()
	if err != nil || v != nil {
		t.Fatalf("Unassigned().Value()=%v err=%v", v, err)
	}
	b, _ := json.Marshal(AssignedTo(id))
	if string(b) != `"`+id.String()+`"` {
		t.Fatalf("json=%s", b)
	}
	var back Owner
	if err := json.Unmarshal([]byte("null"), &back); err != nil || back.IsAssigned() {
		t.Fatalf("unmarshal null: err=%v owner=%s", err, back)
	}
	if AssignedTo(uuid.Nil).IsAssigned() {
		t.Fatalf("nil uuid must not count as an owner")
	}
}
