package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"trivia-service/internal/domain"
)

func TestScoreStoreCapsList(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewScoreStore(newClient(mr))
	ctx := context.Background()
	at := time.Date(2023, 7, 23, 0, 0, 0, 0, time.UTC)
	for i, score := range []int{1, 2, 3, 4} {
		entry := domain.ScoreEntry{PlayerID: "p1", Score: score, RecordedAt: at.Add(time.Duration(i) * time.Minute)}
		if err := store.Record(ctx, entry); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	items, err := mr.List("trivia:scores:p1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected capped list of 3, got %d", len(items))
	}

	recent, err := store.Recent(ctx, "p1")
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if recent[0].Score != 4 || recent[2].Score != 2 {
		t.Fatalf("expected newest first [4 3 2], got %+v", recent)
	}
	if !recent[0].RecordedAt.Equal(at.Add(3 * time.Minute)) {
		t.Fatalf("timestamp not round-tripped: %v", recent[0].RecordedAt)
	}

	empty, err := store.Recent(ctx, "nobody")
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected no scores, got %+v err=%v", empty, err)
	}
}
