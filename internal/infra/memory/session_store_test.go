package memory

import (
	"context"
	"testing"
	"time"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()
	repo := NewBankRepository(NewStaticBankLoader(map[string]domain.Bank{"hp": sampleBank()}), time.Minute)
	service := app.NewGameService(store, repo, NewScoreStore(), "hp")

	session, err := service.StartGame(context.Background(), "p1", "Hermione", nil)
	if err != nil {
		t.Fatalf("start game: %v", err)
	}
	if _, ok := store.Get(session.ID()); !ok {
		t.Fatalf("expected session present")
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", store.Len())
	}

	store.Delete(session.ID())
	if _, ok := store.Get(session.ID()); ok {
		t.Fatalf("expected session removed")
	}
}
