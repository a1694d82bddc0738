package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"trivia-service/internal/domain"
)

// GameSession is the cumulative state of one player's game: the filtered deck,
// answered questions and totals. It is the Game collaborator of a round
// controller.
type GameSession struct {
	id          string
	playerID    string
	displayName string
	questions   []domain.Question
	scores      ScoreRepository
	now         func() time.Time

	mu            sync.Mutex
	rnd           *rand.Rand
	current       domain.Question
	answered      map[int]struct{}
	gameScore     int
	questionScore int
	ended         bool
}

// ID returns the session identifier.
func (g *GameSession) ID() string { return g.id }

// PlayerID returns the owning player.
func (g *GameSession) PlayerID() string { return g.playerID }

func (g *GameSession) CurrentQuestion() domain.Question {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

func (g *GameSession) SetQuestionScore(score int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.questionScore = score
}

// Correct folds the current question score into the game total and retires
// the question from the deck.
func (g *GameSession) Correct(_ context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ended {
		return domain.ErrGameEnded
	}
	g.answered[g.current.ID] = struct{}{}
	g.gameScore += g.questionScore
	return nil
}

// NewQuestion deals a random unanswered question. Once every question has been
// answered the deck starts over.
func (g *GameSession) NewQuestion(_ context.Context) (domain.Question, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ended {
		return domain.Question{}, domain.ErrGameEnded
	}
	if len(g.questions) == 0 {
		return domain.Question{}, domain.ErrNoQuestions
	}
	if len(g.answered) >= len(g.questions) {
		g.answered = make(map[int]struct{})
	}

	candidates := make([]domain.Question, 0, len(g.questions)-len(g.answered))
	for _, q := range g.questions {
		if _, done := g.answered[q.ID]; !done {
			candidates = append(candidates, q)
		}
	}
	g.current = candidates[g.rnd.IntN(len(candidates))]
	return g.current, nil
}

// EndGame records the final score once; later calls are no-ops.
func (g *GameSession) EndGame(ctx context.Context) error {
	g.mu.Lock()
	if g.ended {
		g.mu.Unlock()
		return nil
	}
	g.ended = true
	entry := domain.ScoreEntry{PlayerID: g.playerID, Score: g.gameScore, RecordedAt: g.now()}
	g.mu.Unlock()

	if err := g.scores.Record(ctx, entry); err != nil {
		return fmt.Errorf("record score: %w", err)
	}
	return nil
}

// Summary returns the cumulative totals.
func (g *GameSession) Summary() domain.GameSummary {
	g.mu.Lock()
	defer g.mu.Unlock()
	return domain.GameSummary{
		SessionID:     g.id,
		PlayerID:      g.playerID,
		DisplayName:   g.displayName,
		GameScore:     g.gameScore,
		QuestionScore: g.questionScore,
		Answered:      len(g.answered),
		Ended:         g.ended,
	}
}
