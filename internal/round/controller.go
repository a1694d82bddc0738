// Package round drives a single trivia question from presentation to
// resolution: reveals and wrong answers cost points, the correct answer
// resolves the round and schedules the commit into game totals.
package round

import (
	"context"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"trivia-service/internal/domain"
)

// Game is the collaborator that owns cumulative totals and the question deck.
type Game interface {
	CurrentQuestion() domain.Question
	SetQuestionScore(score int)
	Correct(ctx context.Context) error
	NewQuestion(ctx context.Context) (domain.Question, error)
	EndGame(ctx context.Context) error
}

// Config holds the scoring and pacing knobs of a round.
type Config struct {
	BaseScore    int
	CommitDelay  time.Duration
	AdvanceDelay time.Duration
	MusicDelay   time.Duration
	MusicTracks  []string
}

// DefaultConfig returns the stock scoring and pacing: base 3, commit after
// 3.5s, next question 0.5s after advancing, music 3s into the game.
func DefaultConfig() Config {
	return Config{
		BaseScore:    3,
		CommitDelay:  3500 * time.Millisecond,
		AdvanceDelay: 500 * time.Millisecond,
		MusicDelay:   3 * time.Second,
	}
}

// Option customises a Controller.
type Option func(*Controller)

// WithScheduler replaces the wall-clock scheduler.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.sched = s }
}

// WithLogger sets the logger used for transition and commit diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithShuffle sets how answer order is randomised for each round.
func WithShuffle(shuffle func([]string)) Option {
	return func(c *Controller) { c.shuffle = shuffle }
}

// Controller enforces the legal sequence of player intents for one question at
// a time. All methods are safe for concurrent use; intents and deferred
// callbacks are applied one at a time.
type Controller struct {
	game    Game
	cfg     Config
	sched   Scheduler
	logger  *log.Logger
	shuffle func([]string)

	mu          sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	state       roundState
	started     bool
	commit      *pending
	advance     *pending
	music       *pending
	subscribers map[chan domain.RoundEvent]struct{}
}

type roundState struct {
	question      domain.Question
	answers       []string
	phase         domain.Phase
	score         int
	hintRevealed  bool
	bookRevealed  bool
	wrongTapped   map[int]struct{}
	correctTapped bool
}

// pending is a scheduled callback owned by the controller. A callback only runs
// its effect while it is still the controller's current task for its slot.
type pending struct {
	task Task
}

// New builds a controller bound to game. The controller is idle until Start.
func New(game Game, cfg Config, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		game:        game,
		cfg:         cfg,
		sched:       ClockScheduler{},
		logger:      log.Default(),
		shuffle:     defaultShuffle,
		ctx:         ctx,
		cancel:      cancel,
		subscribers: make(map[chan domain.RoundEvent]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func defaultShuffle(s []string) {
	rand.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}

// Start resets the controller for question. A commit still pending from the
// previous round is applied first. The first Start of a game also schedules
// the background music cue.
func (c *Controller) Start(question domain.Question) domain.RoundSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.phase == domain.PhaseEnded {
		return c.snapshotLocked()
	}

	if c.commit != nil {
		c.stopLocked(&c.commit)
		c.commitLocked()
	}
	c.stopLocked(&c.advance)
	c.startLocked(question)

	if !c.started {
		c.started = true
		c.scheduleMusicLocked()
	}
	c.broadcastLocked(nil)
	return c.snapshotLocked()
}

func (c *Controller) startLocked(question domain.Question) {
	answers := question.AnswerTexts()
	c.shuffle(answers)
	c.state = roundState{
		question:    question,
		answers:     answers,
		phase:       domain.PhasePresenting,
		score:       c.cfg.BaseScore,
		wrongTapped: make(map[int]struct{}),
	}
	c.game.SetQuestionScore(c.state.score)
	c.logger.Debug("round started", "question", question.ID, "score", c.state.score)
}

// RevealHint charges for the hint the first time it is revealed.
func (c *Controller) RevealHint() domain.RoundSnapshot {
	return c.reveal(&c.state.hintRevealed, "hint")
}

// RevealBook charges for the book the first time it is revealed.
func (c *Controller) RevealBook() domain.RoundSnapshot {
	return c.reveal(&c.state.bookRevealed, "book")
}

func (c *Controller) reveal(flag *bool, what string) domain.RoundSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.phase != domain.PhasePresenting || *flag {
		return c.snapshotLocked()
	}

	*flag = true
	c.chargeLocked()
	c.logger.Debug("reveal", "what", what, "question", c.state.question.ID, "score", c.state.score)
	c.broadcastLocked([]domain.Effect{{Kind: domain.EffectSound, Cue: domain.CueFlip}})
	return c.snapshotLocked()
}

// TapAnswer resolves the round when index is the correct answer and charges a
// point for each distinct wrong answer otherwise. Out-of-range and repeated
// wrong taps are ignored.
func (c *Controller) TapAnswer(index int) domain.RoundSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.phase != domain.PhasePresenting || index < 0 || index >= len(c.state.answers) {
		return c.snapshotLocked()
	}
	if _, tapped := c.state.wrongTapped[index]; tapped {
		return c.snapshotLocked()
	}

	if c.state.question.Answers[c.state.answers[index]] {
		c.state.phase = domain.PhaseResolved
		c.state.correctTapped = true
		c.scheduleCommitLocked()
		c.logger.Debug("correct answer", "question", c.state.question.ID, "score", c.state.score)
		c.broadcastLocked([]domain.Effect{{Kind: domain.EffectSound, Cue: domain.CueCorrect}})
		return c.snapshotLocked()
	}

	c.state.wrongTapped[index] = struct{}{}
	c.chargeLocked()
	c.logger.Debug("wrong answer", "question", c.state.question.ID, "index", index, "score", c.state.score)
	c.broadcastLocked([]domain.Effect{
		{Kind: domain.EffectSound, Cue: domain.CueWrong},
		{Kind: domain.EffectHaptic, Cue: domain.CueError},
	})
	return c.snapshotLocked()
}

// Advance requests the next question once the round is resolved and its commit
// has landed. The new round starts after the advance delay. Only errors from the
// game collaborator are returned.
func (c *Controller) Advance(ctx context.Context) (domain.RoundSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.phase != domain.PhaseResolved || c.commit != nil {
		return c.snapshotLocked(), nil
	}

	next, err := c.game.NewQuestion(ctx)
	if err != nil {
		return c.snapshotLocked(), err
	}

	c.state.phase = domain.PhaseAdvancing
	p := &pending{}
	p.task = c.sched.AfterFunc(c.cfg.AdvanceDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.advance != p || c.ctx.Err() != nil {
			return
		}
		c.advance = nil
		c.startLocked(next)
		c.broadcastLocked(nil)
	})
	c.advance = p
	c.broadcastLocked(nil)
	return c.snapshotLocked(), nil
}

// End tears the round down at any point: pending callbacks are cancelled,
// subscribers are closed and the game is told to end.
func (c *Controller) End(ctx context.Context) error {
	c.mu.Lock()
	if c.state.phase == domain.PhaseEnded {
		c.mu.Unlock()
		return nil
	}
	c.stopLocked(&c.commit)
	c.stopLocked(&c.advance)
	c.stopLocked(&c.music)
	c.cancel()
	c.state.phase = domain.PhaseEnded
	c.broadcastLocked(nil)
	for ch := range c.subscribers {
		delete(c.subscribers, ch)
		close(ch)
	}
	c.mu.Unlock()

	return c.game.EndGame(ctx)
}

// Snapshot returns the current round state.
func (c *Controller) Snapshot() domain.RoundSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe returns a channel of round events starting with the current
// snapshot. The caller must invoke cancel to release the channel. The channel
// is closed when the round ends.
func (c *Controller) Subscribe() (<-chan domain.RoundEvent, func()) {
	ch := make(chan domain.RoundEvent, 32)

	c.mu.Lock()
	ch <- domain.RoundEvent{Snapshot: c.snapshotLocked()}
	if c.state.phase == domain.PhaseEnded {
		close(ch)
		c.mu.Unlock()
		return ch, func() {}
	}
	c.subscribers[ch] = struct{}{}
	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		if _, ok := c.subscribers[ch]; ok {
			delete(c.subscribers, ch)
			close(ch)
		}
		c.mu.Unlock()
	}
	return ch, cancel
}

func (c *Controller) chargeLocked() {
	c.state.score--
	c.game.SetQuestionScore(c.state.score)
}

func (c *Controller) scheduleCommitLocked() {
	p := &pending{}
	p.task = c.sched.AfterFunc(c.cfg.CommitDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.commit != p || c.ctx.Err() != nil {
			return
		}
		c.commit = nil
		c.commitLocked()
		c.broadcastLocked(nil)
	})
	c.commit = p
}

func (c *Controller) commitLocked() {
	if err := c.game.Correct(c.ctx); err != nil {
		c.logger.Error("commit round", "question", c.state.question.ID, "err", err)
	}
}

func (c *Controller) scheduleMusicLocked() {
	if len(c.cfg.MusicTracks) == 0 {
		return
	}
	track := c.cfg.MusicTracks[rand.IntN(len(c.cfg.MusicTracks))]
	p := &pending{}
	p.task = c.sched.AfterFunc(c.cfg.MusicDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.music != p || c.ctx.Err() != nil {
			return
		}
		c.music = nil
		c.broadcastLocked([]domain.Effect{{Kind: domain.EffectSound, Cue: domain.CueMusic, Track: track}})
	})
	c.music = p
}

// stopLocked cancels the task in slot. Clearing the slot is what prevents an
// already-fired callback from acting.
func (c *Controller) stopLocked(slot **pending) {
	if *slot == nil {
		return
	}
	if (*slot).task != nil {
		(*slot).task.Stop()
	}
	*slot = nil
}

func (c *Controller) snapshotLocked() domain.RoundSnapshot {
	q := c.state.question
	wrong := make([]int, 0, len(c.state.wrongTapped))
	for i := range c.state.wrongTapped {
		wrong = append(wrong, i)
	}
	sort.Ints(wrong)

	snap := domain.RoundSnapshot{
		QuestionID:    q.ID,
		Question:      q.Question,
		Answers:       append([]string(nil), c.state.answers...),
		Phase:         c.state.phase,
		Score:         c.state.score,
		HintRevealed:  c.state.hintRevealed,
		BookRevealed:  c.state.bookRevealed,
		WrongTapped:   wrong,
		CorrectTapped: c.state.correctTapped,
		CommitPending: c.commit != nil,
	}
	if c.state.hintRevealed {
		snap.Hint = q.Hint
	}
	if c.state.bookRevealed {
		snap.Book = q.Book
	}
	if c.state.correctTapped {
		snap.CorrectAnswer = q.CorrectAnswer()
	}
	return snap
}

func (c *Controller) broadcastLocked(effects []domain.Effect) {
	ev := domain.RoundEvent{Snapshot: c.snapshotLocked(), Effects: effects}
	for ch := range c.subscribers {
		select {
		case ch <- ev:
		default:
			// Lagging subscriber: drop its oldest event to make room.
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}
