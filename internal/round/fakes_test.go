package round

import (
	"context"
	"sync"
	"time"

	"trivia-service/internal/domain"
)

// manualScheduler records tasks and fires them on demand.
type manualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTask
}

type manualTask struct {
	delay   time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTask) Stop() bool {
	was := !t.stopped && !t.fired
	t.stopped = true
	return was
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTask{delay: d, f: f}
	s.tasks = append(s.tasks, t)
	return t
}

// fireAll runs every task that is neither stopped nor fired.
func (s *manualScheduler) fireAll() int {
	s.mu.Lock()
	var due []*manualTask
	for _, t := range s.tasks {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()
	for _, t := range due {
		t.f()
	}
	return len(due)
}

// fireIgnoringStop runs every task even if it was stopped, simulating a timer
// whose Stop lost the race with expiry.
func (s *manualScheduler) fireIgnoringStop() {
	s.mu.Lock()
	all := append([]*manualTask(nil), s.tasks...)
	s.mu.Unlock()
	for _, t := range all {
		t.fired = true
		t.f()
	}
}

func (s *manualScheduler) pendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type fakeGame struct {
	mu            sync.Mutex
	current       domain.Question
	next          []domain.Question
	questionScore int
	gameScore     int
	correctCalls  int
	endCalls      int
	newErr        error
}

func (g *fakeGame) CurrentQuestion() domain.Question {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

func (g *fakeGame) SetQuestionScore(score int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.questionScore = score
}

func (g *fakeGame) Correct(context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.correctCalls++
	g.gameScore += g.questionScore
	return nil
}

func (g *fakeGame) NewQuestion(context.Context) (domain.Question, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.newErr != nil {
		return domain.Question{}, g.newErr
	}
	if len(g.next) == 0 {
		return domain.Question{}, domain.ErrNoQuestions
	}
	g.current = g.next[0]
	g.next = g.next[1:]
	return g.current, nil
}

func (g *fakeGame) EndGame(context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.endCalls++
	return nil
}

func sampleQuestion(id int) domain.Question {
	return domain.Question{
		ID:       id,
		Question: "Which house does the Sorting Hat place Harry in?",
		Hint:     "Not Slytherin, despite the hat's suggestion",
		Book:     1,
		Answers: map[string]bool{
			"Gryffindor": true,
			"Slytherin":  false,
			"Ravenclaw":  false,
			"Hufflepuff": false,
		},
	}
}

func indexOf(snap domain.RoundSnapshot, answer string) int {
	for i, a := range snap.Answers {
		if a == answer {
			return i
		}
	}
	return -1
}

func wrongIndexes(snap domain.RoundSnapshot, q domain.Question) []int {
	var out []int
	for i, a := range snap.Answers {
		if !q.Answers[a] {
			out = append(out, i)
		}
	}
	return out
}
