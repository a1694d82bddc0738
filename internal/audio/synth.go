package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"trivia-service/internal/domain"
)

// SampleRate is the rate every cue is rendered at.
const SampleRate = beep.SampleRate(44100)

type wave int

const (
	waveSine wave = iota
	waveSaw
	waveNoise
)

// tone is a fixed-length oscillator.
type tone struct {
	freq  float64
	phase float64
	left  int
	wave  wave
}

func newTone(freq float64, d time.Duration, w wave) *tone {
	return &tone{freq: freq, left: SampleRate.N(d), wave: w}
}

func (t *tone) Stream(samples [][2]float64) (int, bool) {
	if t.left <= 0 {
		return 0, false
	}
	n := min(len(samples), t.left)
	for i := 0; i < n; i++ {
		var v float64
		switch t.wave {
		case waveSine:
			v = math.Sin(2 * math.Pi * t.phase)
		case waveSaw:
			v = 2 * (t.phase - 0.5)
		case waveNoise:
			v = rand.Float64()*2 - 1
		}
		samples[i][0], samples[i][1] = v, v
		t.phase += t.freq / float64(SampleRate)
		t.phase -= math.Floor(t.phase)
	}
	t.left -= n
	return n, true
}

func (t *tone) Err() error { return nil }

// envelope ramps a stream in over attack and out over release.
type envelope struct {
	s       beep.Streamer
	pos     int
	total   int
	attack  int
	release int
}

func shape(s beep.Streamer, d, attack, release time.Duration) beep.Streamer {
	return &envelope{s: s, total: SampleRate.N(d), attack: SampleRate.N(attack), release: SampleRate.N(release)}
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.s.Stream(samples)
	for i := 0; i < n; i++ {
		gain := 1.0
		if e.attack > 0 && e.pos < e.attack {
			gain = float64(e.pos) / float64(e.attack)
		}
		if rem := e.total - e.pos; e.release > 0 && rem < e.release {
			gain = math.Max(0, float64(rem)/float64(e.release))
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.s.Err() }

// withVolume scales s linearly; zero or less is silent.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

func note(freq float64, d time.Duration, w wave) beep.Streamer {
	return shape(newTone(freq, d, w), d, 5*time.Millisecond, d/2)
}

// Synth renders a built-in stand-in for a cue. Music has no synthesized
// version and returns nil.
func Synth(cue string) beep.Streamer {
	switch cue {
	case domain.CueFlip:
		d := 180 * time.Millisecond
		return withVolume(shape(newTone(0, d, waveNoise), d, 10*time.Millisecond, 150*time.Millisecond), 0.4)
	case domain.CueWrong:
		return withVolume(beep.Seq(
			note(220, 120*time.Millisecond, waveSaw),
			beep.Silence(SampleRate.N(40*time.Millisecond)),
			note(165, 180*time.Millisecond, waveSaw),
		), 0.5)
	case domain.CueCorrect:
		return withVolume(beep.Seq(
			note(660, 90*time.Millisecond, waveSine),
			note(880, 90*time.Millisecond, waveSine),
			note(1320, 90*time.Millisecond, waveSine),
			note(1760, 300*time.Millisecond, waveSine),
		), 0.6)
	default:
		return nil
	}
}
