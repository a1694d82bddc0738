package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"trivia-service/internal/domain"
)

func drain(s beep.Streamer) (n int, peak float64) {
	buf := make([][2]float64, 512)
	for {
		got, ok := s.Stream(buf)
		for i := 0; i < got; i++ {
			peak = math.Max(peak, math.Abs(buf[i][0]))
		}
		n += got
		if !ok {
			return n, peak
		}
	}
}

func TestSynthCuesAreFiniteAndAudible(t *testing.T) {
	cases := map[string]time.Duration{
		domain.CueFlip:    180 * time.Millisecond,
		domain.CueWrong:   340 * time.Millisecond,
		domain.CueCorrect: 570 * time.Millisecond,
	}
	for cue, want := range cases {
		t.Run(cue, func(t *testing.T) {
			s := Synth(cue)
			if s == nil {
				t.Fatalf("expected a synthesized stream")
			}
			n, peak := drain(s)
			if n != SampleRate.N(want) {
				t.Fatalf("expected %d samples, got %d", SampleRate.N(want), n)
			}
			if peak <= 0 || peak > 1 {
				t.Fatalf("expected audible, unclipped output, peak=%f", peak)
			}
		})
	}
}

func TestSynthUnknownCue(t *testing.T) {
	if Synth(domain.CueMusic) != nil || Synth("owl-hoot") != nil {
		t.Fatalf("music and unknown cues have no synthesized version")
	}
}

func TestEnvelopeFadesOut(t *testing.T) {
	d := 100 * time.Millisecond
	s := shape(newTone(440, d, waveSine), d, 0, d)
	buf := make([][2]float64, SampleRate.N(d))
	n, _ := s.Stream(buf)
	tail := buf[n-1][0]
	if math.Abs(tail) > 0.01 {
		t.Fatalf("expected near-silent tail, got %f", tail)
	}
}
