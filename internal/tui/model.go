// Package tui provides a Bubble Tea front end for playing rounds locally.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"trivia-service/internal/domain"
	"trivia-service/internal/round"
)

// Controller is the subset of round.Controller the UI drives.
type Controller interface {
	RevealHint() domain.RoundSnapshot
	RevealBook() domain.RoundSnapshot
	TapAnswer(index int) domain.RoundSnapshot
	Advance(ctx context.Context) (domain.RoundSnapshot, error)
	End(ctx context.Context) error
}

// EffectSink performs side effects carried by round events.
type EffectSink interface {
	Dispatch(effects []domain.Effect)
}

// Scoreboard reports the cumulative game score.
type Scoreboard interface {
	Summary() domain.GameSummary
}

// eventMsg wraps a round event for the Bubble Tea loop.
type eventMsg struct {
	ev domain.RoundEvent
	ok bool
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("219"))
	questionStyle = lipgloss.NewStyle().Bold(true).Padding(1, 0)
	revealStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))
	answerStyle   = lipgloss.NewStyle().Padding(0, 1)
	wrongStyle    = answerStyle.Foreground(lipgloss.Color("203")).Strikethrough(true)
	correctStyle  = answerStyle.Foreground(lipgloss.Color("84")).Bold(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Model is the Bubble Tea model for a local game.
type Model struct {
	ctx     context.Context
	ctrl    Controller
	board   Scoreboard
	events  <-chan domain.RoundEvent
	effects EffectSink
	snap    domain.RoundSnapshot
	err     error
}

// NewModel builds a model around a started controller. events should come from
// the controller's Subscribe.
func NewModel(ctx context.Context, ctrl Controller, board Scoreboard, events <-chan domain.RoundEvent, effects EffectSink) Model {
	return Model{ctx: ctx, ctrl: ctrl, board: board, events: events, effects: effects}
}

// Run plays until the player quits.
func Run(ctx context.Context, ctrl *round.Controller, board Scoreboard, effects EffectSink) error {
	events, cancel := ctrl.Subscribe()
	defer cancel()
	_, err := tea.NewProgram(NewModel(ctx, ctrl, board, events, effects), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func waitForEvent(events <-chan domain.RoundEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		return eventMsg{ev: ev, ok: ok}
	}
}

func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		if !msg.ok {
			return m, tea.Quit
		}
		m.snap = msg.ev.Snapshot
		if m.effects != nil {
			m.effects.Dispatch(msg.ev.Effects)
		}
		return m, waitForEvent(m.events)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c", "q", "esc":
		// The closed event stream quits the program.
		if err := m.ctrl.End(m.ctx); err != nil {
			m.err = err
			return m, tea.Quit
		}
		return m, nil
	case "h":
		m.ctrl.RevealHint()
	case "b":
		m.ctrl.RevealBook()
	case "n", "enter":
		if _, err := m.ctrl.Advance(m.ctx); err != nil {
			m.err = err
		}
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			m.ctrl.TapAnswer(int(key[0] - '1'))
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	summary := m.board.Summary()
	fmt.Fprintf(&b, "%s   score %d   this question %d\n", titleStyle.Render("Trivia"), summary.GameScore, m.snap.Score)

	if m.snap.Phase == domain.PhaseAdvancing {
		b.WriteString(questionStyle.Render("Next question...") + "\n")
		return b.String()
	}
	b.WriteString(questionStyle.Render(m.snap.Question) + "\n")
	if m.snap.HintRevealed {
		b.WriteString(revealStyle.Render("Hint: "+m.snap.Hint) + "\n")
	}
	if m.snap.BookRevealed {
		b.WriteString(revealStyle.Render(fmt.Sprintf("Book: %d", m.snap.Book)) + "\n")
	}
	b.WriteString("\n")

	wrong := make(map[int]bool, len(m.snap.WrongTapped))
	for _, i := range m.snap.WrongTapped {
		wrong[i] = true
	}
	for i, a := range m.snap.Answers {
		line := fmt.Sprintf("%d. %s", i+1, a)
		switch {
		case wrong[i]:
			line = wrongStyle.Render(line)
		case m.snap.CorrectTapped && a == m.snap.CorrectAnswer:
			line = correctStyle.Render(line)
		default:
			line = answerStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	if m.snap.CorrectTapped {
		b.WriteString("\n" + correctStyle.Render(fmt.Sprintf("Brilliant! +%d", m.snap.Score)) + "\n")
	}
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render(m.help()) + "\n")
	return b.String()
}

func (m Model) help() string {
	if m.snap.Resolved() {
		if m.snap.CommitPending {
			return "q quit"
		}
		return "n next question • q quit"
	}
	return "1-9 answer • h hint (-1) • b book (-1) • q quit"
}
