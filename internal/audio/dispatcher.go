package audio

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"trivia-service/internal/domain"
)

// SoundPlayer plays a sound effect.
type SoundPlayer interface {
	Play(effect domain.Effect) error
}

// Haptics delivers haptic cues.
type Haptics interface {
	Notify(cue string)
}

// TerminalBell rings the terminal bell for every haptic cue.
type TerminalBell struct {
	W io.Writer
}

func (b TerminalBell) Notify(string) {
	fmt.Fprint(b.W, "\a")
}

// LogHaptics records haptic cues in the log; used where no device exists.
type LogHaptics struct {
	Logger *log.Logger
}

func (h LogHaptics) Notify(cue string) {
	h.Logger.Debug("haptic", "cue", cue)
}

// Dispatcher forwards round effects to the audio and haptics collaborators.
// Playback failures are logged and skipped.
type Dispatcher struct {
	sounds  SoundPlayer
	haptics Haptics
	logger  *log.Logger
}

func NewDispatcher(sounds SoundPlayer, haptics Haptics, logger *log.Logger) *Dispatcher {
	return &Dispatcher{sounds: sounds, haptics: haptics, logger: logger}
}

// Run dispatches events until the channel closes or ctx is done.
func (d *Dispatcher) Run(ctx context.Context, events <-chan domain.RoundEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			d.Dispatch(ev.Effects)
		}
	}
}

// Dispatch performs effects in order.
func (d *Dispatcher) Dispatch(effects []domain.Effect) {
	for _, e := range effects {
		switch e.Kind {
		case domain.EffectSound:
			if d.sounds == nil {
				continue
			}
			if err := d.sounds.Play(e); err != nil {
				d.logger.Warn("sound playback skipped", "cue", e.Cue, "err", err)
			}
		case domain.EffectHaptic:
			if d.haptics != nil {
				d.haptics.Notify(e.Cue)
			}
		default:
			d.logger.Warn("unknown effect", "kind", e.Kind, "cue", e.Cue)
		}
	}
}
