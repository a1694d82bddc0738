package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"trivia-service/internal/domain"
)

// ScoreStore keeps recent scores as a capped list per player:
// LPUSH trivia:scores:{playerID} {json}; LTRIM 0 limit-1
type ScoreStore struct {
	client *redis.Client
	limit  int64
}

func NewScoreStore(client *redis.Client) *ScoreStore {
	return &ScoreStore{client: client, limit: domain.RecentScoreLimit}
}

func (s *ScoreStore) Record(ctx context.Context, entry domain.ScoreEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	key := s.key(entry.PlayerID)
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, s.limit-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record score: %w", err)
	}
	return nil
}

func (s *ScoreStore) Recent(ctx context.Context, playerID string) ([]domain.ScoreEntry, error) {
	raw, err := s.client.LRange(ctx, s.key(playerID), 0, s.limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("recent scores: %w", err)
	}
	entries := make([]domain.ScoreEntry, 0, len(raw))
	for _, item := range raw {
		var entry domain.ScoreEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, fmt.Errorf("decode score: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *ScoreStore) key(playerID string) string {
	return "trivia:scores:" + playerID
}
