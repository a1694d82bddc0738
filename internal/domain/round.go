package domain

import "fmt"

// Phase is the top-level state of a round. Reveal flags and wrong taps are
// layered on top of PhasePresenting and are not phases of their own.
type Phase int

const (
	PhasePresenting Phase = iota
	PhaseResolved
	PhaseAdvancing
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhasePresenting:
		return "presenting"
	case PhaseResolved:
		return "resolved"
	case PhaseAdvancing:
		return "advancing"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// MarshalText lets phases travel as strings in JSON snapshots.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for _, candidate := range []Phase{PhasePresenting, PhaseResolved, PhaseAdvancing, PhaseEnded} {
		if candidate.String() == string(text) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// RoundSnapshot is a read-only view of a round for rendering.
type RoundSnapshot struct {
	QuestionID    int      `json:"questionId"`
	Question      string   `json:"question"`
	Hint          string   `json:"hint,omitempty"`
	Book          int      `json:"book,omitempty"`
	Answers       []string `json:"answers"`
	Phase         Phase    `json:"phase"`
	Score         int      `json:"score"`
	HintRevealed  bool     `json:"hintRevealed"`
	BookRevealed  bool     `json:"bookRevealed"`
	WrongTapped   []int    `json:"wrongTapped"`
	CorrectTapped bool     `json:"correctTapped"`
	CommitPending bool     `json:"commitPending"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
}

// Resolved reports whether the round outcome is final.
func (s RoundSnapshot) Resolved() bool {
	return s.Phase == PhaseResolved
}

// EffectKind separates audio cues from haptic cues.
type EffectKind string

const (
	EffectSound  EffectKind = "sound"
	EffectHaptic EffectKind = "haptic"
)

// Cue identifiers understood by the audio and haptics collaborators.
const (
	CueFlip    = "page-flip"
	CueWrong   = "negative-beeps"
	CueCorrect = "magic-wand"
	CueMusic   = "music"
	CueError   = "error"
)

// Effect is a side-effect request emitted by a round transition.
type Effect struct {
	Kind  EffectKind `json:"kind"`
	Cue   string     `json:"cue"`
	Track string     `json:"track,omitempty"`
}

// RoundEvent is published after every state change.
type RoundEvent struct {
	Snapshot RoundSnapshot `json:"snapshot"`
	Effects  []Effect      `json:"effects,omitempty"`
}
