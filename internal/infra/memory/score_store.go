package memory

import (
	"context"
	"sync"

	"trivia-service/internal/domain"
)

// ScoreStore keeps the last few finished games per player in memory.
type ScoreStore struct {
	mu     sync.Mutex
	limit  int
	scores map[string][]domain.ScoreEntry
}

func NewScoreStore() *ScoreStore {
	return &ScoreStore{limit: domain.RecentScoreLimit, scores: make(map[string][]domain.ScoreEntry)}
}

func (s *ScoreStore) Record(_ context.Context, entry domain.ScoreEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := append([]domain.ScoreEntry{entry}, s.scores[entry.PlayerID]...)
	if len(list) > s.limit {
		list = list[:s.limit]
	}
	s.scores[entry.PlayerID] = list
	return nil
}

func (s *ScoreStore) Recent(_ context.Context, playerID string) ([]domain.ScoreEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ScoreEntry(nil), s.scores[playerID]...), nil
}
