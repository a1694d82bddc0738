package audio

import (
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/gopxl/beep"

	"trivia-service/internal/domain"
	"trivia-service/internal/logging"
)

type recordingOutput struct {
	played  []beep.Streamer
	cleared int
}

func (o *recordingOutput) Play(s beep.Streamer) { o.played = append(o.played, s) }
func (o *recordingOutput) Clear()               { o.cleared++ }

func TestPlayerSynthesizesWithoutAssets(t *testing.T) {
	out := &recordingOutput{}
	p := NewPlayer(out, "", 1, logging.Discard())

	if err := p.Play(domain.Effect{Kind: domain.EffectSound, Cue: domain.CueCorrect}); err != nil {
		t.Fatalf("play: %v", err)
	}
	if len(out.played) != 1 {
		t.Fatalf("expected one stream, got %d", len(out.played))
	}
	if n, _ := drain(out.played[0]); n == 0 {
		t.Fatalf("expected samples from synthesized cue")
	}
}

func TestPlayerFallsBackWhenAssetMissing(t *testing.T) {
	out := &recordingOutput{}
	p := NewPlayer(out, "/nonexistent", 1, logging.Discard())
	var opened []string
	p.open = func(name string) (io.ReadCloser, error) {
		opened = append(opened, name)
		return nil, errors.New("no such file")
	}

	if err := p.Play(domain.Effect{Kind: domain.EffectSound, Cue: domain.CueFlip}); err != nil {
		t.Fatalf("missing asset must not fail playback: %v", err)
	}
	if len(opened) != 1 || opened[0] != "/nonexistent/page-flip.mp3" {
		t.Fatalf("expected asset lookup, got %v", opened)
	}
	if len(out.played) != 1 {
		t.Fatalf("expected synthesized fallback to play")
	}
}

// fakeAsset is a decoded asset of n constant samples that counts Close calls.
type fakeAsset struct {
	n, pos int
	closed int
}

func (a *fakeAsset) Stream(samples [][2]float64) (int, bool) {
	if a.pos >= a.n {
		return 0, false
	}
	k := min(len(samples), a.n-a.pos)
	for i := 0; i < k; i++ {
		samples[i] = [2]float64{0.5, 0.5}
	}
	a.pos += k
	return k, true
}

func (a *fakeAsset) Err() error    { return nil }
func (a *fakeAsset) Len() int      { return a.n }
func (a *fakeAsset) Position() int { return a.pos }
func (a *fakeAsset) Close() error  { a.closed++; return nil }

func (a *fakeAsset) Seek(p int) error {
	a.pos = p
	return nil
}

type nopFile struct{ io.Reader }

func (nopFile) Close() error { return nil }

func withAsset(p *Player, asset *fakeAsset, rate beep.SampleRate) *[]string {
	var opened []string
	p.open = func(name string) (io.ReadCloser, error) {
		opened = append(opened, name)
		return nopFile{}, nil
	}
	p.decode = func(io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
		return asset, beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}, nil
	}
	return &opened
}

func TestPlayerClosesCueAssetAfterPlayback(t *testing.T) {
	for _, rate := range []beep.SampleRate{SampleRate, 22050} {
		out := &recordingOutput{}
		p := NewPlayer(out, "assets", 1, logging.Discard())
		asset := &fakeAsset{n: 2048}
		opened := withAsset(p, asset, rate)

		if err := p.Play(domain.Effect{Kind: domain.EffectSound, Cue: domain.CueWrong}); err != nil {
			t.Fatalf("play: %v", err)
		}
		if len(*opened) != 1 || (*opened)[0] != "assets/negative-beeps.mp3" {
			t.Fatalf("expected asset lookup, got %v", *opened)
		}
		if asset.closed != 0 {
			t.Fatalf("asset closed before playback at rate %d", rate)
		}
		if n, _ := drain(out.played[0]); n == 0 {
			t.Fatalf("expected samples from asset at rate %d", rate)
		}
		if asset.closed != 1 {
			t.Fatalf("expected asset closed once after playback at rate %d, got %d", rate, asset.closed)
		}
	}
}

func TestPlayerMusicLoopsUntilClose(t *testing.T) {
	out := &recordingOutput{}
	p := NewPlayer(out, "assets", 1, logging.Discard())
	asset := &fakeAsset{n: 100}
	withAsset(p, asset, 22050)

	if err := p.Play(domain.Effect{Kind: domain.EffectSound, Cue: domain.CueMusic, Track: "spellcraft"}); err != nil {
		t.Fatalf("play music: %v", err)
	}
	if len(out.played) != 1 {
		t.Fatalf("expected music stream, got %d", len(out.played))
	}
	buf := make([][2]float64, 1024)
	if n, ok := out.played[0].Stream(buf); !ok || n != len(buf) {
		t.Fatalf("expected looped music to keep streaming past the track end, got n=%d ok=%v", n, ok)
	}
	if asset.closed != 0 {
		t.Fatalf("music closed while playing")
	}

	p.Close()
	if out.cleared != 1 || asset.closed != 1 {
		t.Fatalf("expected Close to clear output and release music, got cleared=%d closed=%d", out.cleared, asset.closed)
	}
	p.Close()
	if asset.closed != 1 {
		t.Fatalf("music must be closed once, got %d", asset.closed)
	}
}

func TestPlayerMusicNeedsAssets(t *testing.T) {
	out := &recordingOutput{}
	p := NewPlayer(out, "", 1, logging.Discard())
	if err := p.Play(domain.Effect{Kind: domain.EffectSound, Cue: domain.CueMusic, Track: "spellcraft"}); err == nil {
		t.Fatalf("expected music without assets to report an error")
	}
	if len(out.played) != 0 {
		t.Fatalf("nothing should play")
	}
	p.Close()
	if out.cleared != 1 {
		t.Fatalf("expected Close to clear output")
	}
}

func TestPlayerUnknownCue(t *testing.T) {
	p := NewPlayer(&recordingOutput{}, "", 1, logging.Discard())
	if err := p.Play(domain.Effect{Kind: domain.EffectSound, Cue: "owl-hoot"}); err == nil {
		t.Fatalf("expected unknown cue error")
	}
}

func TestSpeakerInitErrorIsSticky(t *testing.T) {
	origInit := speakerInit
	t.Cleanup(func() {
		speakerInit = origInit
		speakerOnce = sync.Once{}
		speakerErr = nil
	})
	speakerOnce = sync.Once{}
	calls := 0
	speakerInit = func(beep.SampleRate, int) error {
		calls++
		return errors.New("no audio device")
	}

	for i := 0; i < 2; i++ {
		if _, err := NewSpeakerOutput(); err == nil {
			t.Fatalf("call %d: expected init error", i+1)
		}
	}
	if calls != 1 {
		t.Fatalf("expected a single init attempt, got %d", calls)
	}
}
