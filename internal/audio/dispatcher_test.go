package audio

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"trivia-service/internal/domain"
	"trivia-service/internal/logging"
)

type fakeSounds struct {
	cues []string
	err  error
}

func (f *fakeSounds) Play(e domain.Effect) error {
	f.cues = append(f.cues, e.Cue)
	return f.err
}

type fakeHaptics struct {
	cues []string
}

func (f *fakeHaptics) Notify(cue string) { f.cues = append(f.cues, cue) }

func TestDispatcherRoutesEffects(t *testing.T) {
	sounds := &fakeSounds{err: errors.New("device busy")}
	haptics := &fakeHaptics{}
	d := NewDispatcher(sounds, haptics, logging.Discard())

	events := make(chan domain.RoundEvent, 2)
	events <- domain.RoundEvent{Effects: []domain.Effect{
		{Kind: domain.EffectSound, Cue: domain.CueWrong},
		{Kind: domain.EffectHaptic, Cue: domain.CueError},
	}}
	events <- domain.RoundEvent{Effects: []domain.Effect{{Kind: domain.EffectSound, Cue: domain.CueCorrect}}}
	close(events)

	done := make(chan struct{})
	go func() {
		d.Run(context.Background(), events)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("dispatcher did not stop on closed channel")
	}

	if len(sounds.cues) != 2 || sounds.cues[0] != domain.CueWrong || sounds.cues[1] != domain.CueCorrect {
		t.Fatalf("playback errors must not stop later cues, got %v", sounds.cues)
	}
	if len(haptics.cues) != 1 || haptics.cues[0] != domain.CueError {
		t.Fatalf("expected error haptic, got %v", haptics.cues)
	}
}

func TestDispatcherStopsOnContext(t *testing.T) {
	d := NewDispatcher(&fakeSounds{}, nil, logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		d.Run(ctx, make(chan domain.RoundEvent))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("dispatcher ignored cancelled context")
	}
}

func TestTerminalBell(t *testing.T) {
	var buf bytes.Buffer
	TerminalBell{W: &buf}.Notify(domain.CueError)
	if buf.String() != "\a" {
		t.Fatalf("expected bell, got %q", buf.String())
	}
}
