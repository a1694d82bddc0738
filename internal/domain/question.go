package domain

import (
	"fmt"
	"sort"
)

// Question is a single trivia question. Answers maps answer text to whether it
// is the correct one; exactly one entry must be true.
type Question struct {
	ID       int             `json:"id" yaml:"id"`
	Question string          `json:"question" yaml:"question"`
	Hint     string          `json:"hint" yaml:"hint"`
	Book     int             `json:"book" yaml:"book"`
	Answers  map[string]bool `json:"answers" yaml:"answers"`
}

// Validate checks the one-correct-answer invariant.
func (q Question) Validate() error {
	correct := 0
	for _, ok := range q.Answers {
		if ok {
			correct++
		}
	}
	if correct != 1 || len(q.Answers) < 2 {
		return fmt.Errorf("question %d: %w", q.ID, ErrInvalidQuestion)
	}
	return nil
}

// CorrectAnswer returns the text of the correct answer.
func (q Question) CorrectAnswer() string {
	for text, ok := range q.Answers {
		if ok {
			return text
		}
	}
	return ""
}

// AnswerTexts returns the answers in a stable order; callers shuffle as needed.
func (q Question) AnswerTexts() []string {
	texts := make([]string, 0, len(q.Answers))
	for text := range q.Answers {
		texts = append(texts, text)
	}
	sort.Strings(texts)
	return texts
}

// Bank is a named collection of questions.
type Bank struct {
	ID        string     `json:"id" yaml:"id"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Validate checks every question and rejects duplicate IDs.
func (b Bank) Validate() error {
	seen := make(map[int]struct{}, len(b.Questions))
	for _, q := range b.Questions {
		if err := q.Validate(); err != nil {
			return err
		}
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("bank %s: duplicate question id %d", b.ID, q.ID)
		}
		seen[q.ID] = struct{}{}
	}
	return nil
}
