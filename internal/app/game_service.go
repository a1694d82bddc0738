package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"trivia-service/internal/domain"
)

// SessionRepository abstracts where live game sessions are kept (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *GameSession)
	Get(sessionID string) (*GameSession, bool)
	Delete(sessionID string)
}

// BankRepository loads question banks (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// ScoreRepository keeps the most recent finished games per player.
type ScoreRepository interface {
	Record(ctx context.Context, entry domain.ScoreEntry) error
	Recent(ctx context.Context, playerID string) ([]domain.ScoreEntry, error)
}

// GameService contains the game-level use cases around a round controller.
type GameService struct {
	sessions SessionRepository
	banks    BankRepository
	scores   ScoreRepository
	bankID   string
	now      func() time.Time
	logger   *log.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

// ServiceOption customises a GameService.
type ServiceOption func(*GameService)

// WithClock is used by tests for deterministic timestamps.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *GameService) { s.now = now }
}

// WithRand fixes the question picker's random source.
func WithRand(rnd *rand.Rand) ServiceOption {
	return func(s *GameService) { s.rnd = rnd }
}

// WithServiceLogger sets the service logger.
func WithServiceLogger(l *log.Logger) ServiceOption {
	return func(s *GameService) { s.logger = l }
}

func NewGameService(sessions SessionRepository, banks BankRepository, scores ScoreRepository, bankID string, opts ...ServiceOption) *GameService {
	s := &GameService{
		sessions: sessions,
		banks:    banks,
		scores:   scores,
		bankID:   bankID,
		now:      time.Now,
		rnd:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x7269)),
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartGame loads the bank, filters it to books (all books when empty) and
// deals the first question.
func (s *GameService) StartGame(ctx context.Context, playerID, displayName string, books []int) (*GameSession, error) {
	bank, err := s.banks.GetBank(ctx, s.bankID)
	if err != nil {
		return nil, err
	}

	session := &GameSession{
		id:          uuid.NewString(),
		playerID:    playerID,
		displayName: displayName,
		questions:   filterBooks(bank.Questions, books),
		answered:    make(map[int]struct{}),
		scores:      s.scores,
		now:         s.now,
		rnd:         s.sessionRand(),
	}
	if _, err := session.NewQuestion(ctx); err != nil {
		return nil, err
	}
	s.sessions.Put(session)
	s.logger.Info("game started", "session", session.id, "player", playerID, "questions", len(session.questions))
	return session, nil
}

// Get returns a live session.
func (s *GameService) Get(sessionID string) (*GameSession, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// Finish drops a session from the store, ending it first if needed.
func (s *GameService) Finish(ctx context.Context, sessionID string) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	defer s.sessions.Delete(sessionID)
	if err := session.EndGame(ctx); err != nil {
		return fmt.Errorf("end game %s: %w", sessionID, err)
	}
	summary := session.Summary()
	s.logger.Info("game finished", "session", sessionID, "player", summary.PlayerID, "score", summary.GameScore)
	return nil
}

// RecentScores returns a player's latest finished games, newest first.
func (s *GameService) RecentScores(ctx context.Context, playerID string) ([]domain.ScoreEntry, error) {
	return s.scores.Recent(ctx, playerID)
}

// sessionRand derives a per-session source; rand.Rand is not safe for
// concurrent use.
func (s *GameService) sessionRand() *rand.Rand {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rand.New(rand.NewPCG(s.rnd.Uint64(), s.rnd.Uint64()))
}

func filterBooks(questions []domain.Question, books []int) []domain.Question {
	if len(books) == 0 {
		return append([]domain.Question(nil), questions...)
	}
	enabled := make(map[int]struct{}, len(books))
	for _, b := range books {
		enabled[b] = struct{}{}
	}
	out := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		if _, ok := enabled[q.Book]; ok {
			out = append(out, q)
		}
	}
	return out
}
