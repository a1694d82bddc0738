package audio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"

	"trivia-service/internal/domain"
)

// musicVolume keeps background tracks under the sound effects.
const musicVolume = 0.1

// Output receives ready-to-play streams.
type Output interface {
	Play(s beep.Streamer)
	Clear()
}

// SpeakerOutput plays through the system audio device.
type SpeakerOutput struct{}

var (
	speakerOnce sync.Once
	speakerErr  error
	speakerInit = speaker.Init
)

// NewSpeakerOutput initialises the speaker at SampleRate. Initialisation runs once
// per process; later calls report the first result.
func NewSpeakerOutput() (SpeakerOutput, error) {
	speakerOnce.Do(func() {
		speakerErr = speakerInit(SampleRate, SampleRate.N(100*time.Millisecond))
	})
	return SpeakerOutput{}, speakerErr
}

func (SpeakerOutput) Play(s beep.Streamer) { speaker.Play(s) }

func (SpeakerOutput) Clear() { speaker.Clear() }

// Player turns sound effects into streams. Cues are read from
// <assets>/<cue>.mp3 when an asset directory is set; missing or broken assets
// fall back to the synthesized cue with a warning.
type Player struct {
	out    Output
	assets string
	volume float64
	logger *log.Logger
	open   func(name string) (io.ReadCloser, error)
	decode func(r io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

	mu    sync.Mutex
	music beep.StreamSeekCloser
}

func NewPlayer(out Output, assets string, volume float64, logger *log.Logger) *Player {
	if volume <= 0 {
		volume = 1
	}
	return &Player{
		out:    out,
		assets: assets,
		volume: volume,
		logger: logger,
		open:   func(name string) (io.ReadCloser, error) { return os.Open(name) },
		decode: mp3.Decode,
	}
}

// Play starts the effect's sound without waiting for it to finish.
func (p *Player) Play(effect domain.Effect) error {
	if effect.Cue == domain.CueMusic {
		return p.playMusic(effect.Track)
	}

	if p.assets != "" {
		s, err := p.load(effect.Cue)
		if err == nil {
			p.out.Play(withVolume(s, p.volume))
			return nil
		}
		p.logger.Warn("sound asset unavailable, using synthesized cue", "cue", effect.Cue, "err", err)
	}

	s := Synth(effect.Cue)
	if s == nil {
		return fmt.Errorf("unknown sound cue %q", effect.Cue)
	}
	p.out.Play(withVolume(s, p.volume))
	return nil
}

func (p *Player) playMusic(track string) error {
	if p.assets == "" {
		return fmt.Errorf("music %q: no asset directory configured", track)
	}
	s, format, err := p.openAsset(track)
	if err != nil {
		return fmt.Errorf("music %q: %w", track, err)
	}
	var looped beep.Streamer = beep.Loop(-1, s)
	if format.SampleRate != SampleRate {
		looped = beep.Resample(4, format.SampleRate, SampleRate, looped)
	}

	p.mu.Lock()
	prev := p.music
	p.music = s
	p.mu.Unlock()
	if prev != nil {
		p.logger.Warn("music already playing, replacing track", "track", track)
		p.out.Clear()
		prev.Close()
	}
	p.out.Play(withVolume(looped, musicVolume*p.volume))
	return nil
}

// Close stops everything that is still playing and releases the music track.
func (p *Player) Close() {
	p.out.Clear()
	p.mu.Lock()
	music := p.music
	p.music = nil
	p.mu.Unlock()
	if music != nil {
		if err := music.Close(); err != nil {
			p.logger.Warn("close music", "err", err)
		}
	}
}

// load decodes a one-shot cue. The decoder is closed once the cue has
// played out.
func (p *Player) load(cue string) (beep.Streamer, error) {
	s, format, err := p.openAsset(cue)
	if err != nil {
		return nil, err
	}
	var out beep.Streamer = s
	if format.SampleRate != SampleRate {
		out = beep.Resample(4, format.SampleRate, SampleRate, s)
	}
	return beep.Seq(out, beep.Callback(func() {
		if err := s.Close(); err != nil {
			p.logger.Warn("close sound asset", "cue", cue, "err", err)
		}
	})), nil
}

func (p *Player) openAsset(name string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := p.open(filepath.Join(p.assets, name+".mp3"))
	if err != nil {
		return nil, beep.Format{}, err
	}
	s, format, err := p.decode(f)
	if err != nil {
		f.Close()
		return nil, beep.Format{}, err
	}
	return s, format, nil
}
