package playback

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/desertthunder/tunecab/internal/shared"
)

// renderRate is the fixed output sample rate; streams at other rates are resampled.
const renderRate = beep.SampleRate(44100)

// speakerBackend renders audio through the beep speaker.
type speakerBackend struct {
	mu sync.Mutex

	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume

	level   float64
	playing bool
}

// newSpeakerBackend initializes the audio device at the fixed render rate.
func newSpeakerBackend() (*speakerBackend, error) {
	if err := speaker.Init(renderRate, renderRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrBackendUnavailable, err)
	}
	return &speakerBackend{level: 1.0}, nil
}

func (b *speakerBackend) Play(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrUnplayableTrack, err)
	}

	streamer, format, err := decode(path, f)
	if err != nil {
		f.Close()
		return err
	}

	b.mu.Lock()
	b.stopLocked()

	resampled := beep.Resample(4, format.SampleRate, renderRate, streamer)
	vol := &effects.Volume{
		Streamer: resampled,
		Base:     2,
		Volume:   gain(b.level),
		Silent:   b.level <= 0,
	}
	ctrl := &beep.Ctrl{Streamer: vol}

	b.file = f
	b.streamer = streamer
	b.format = format
	b.ctrl = ctrl
	b.volume = vol
	b.playing = true
	b.mu.Unlock()

	// The callback fires on the speaker goroutine when the stream drains.
	// The ctrl comparison ignores callbacks from streams already replaced.
	speaker.Play(beep.Seq(ctrl, beep.Callback(func() {
		b.mu.Lock()
		if b.ctrl == ctrl {
			b.playing = false
		}
		b.mu.Unlock()
	})))

	return nil
}

func (b *speakerBackend) Pause() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ctrl != nil {
		speaker.Lock()
		b.ctrl.Paused = true
		speaker.Unlock()
	}
}

func (b *speakerBackend) Resume() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ctrl != nil {
		speaker.Lock()
		b.ctrl.Paused = false
		speaker.Unlock()
	}
}

func (b *speakerBackend) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopLocked()
}

// stopLocked tears down the current stream. Caller holds b.mu.
func (b *speakerBackend) stopLocked() {
	if b.ctrl == nil {
		return
	}
	speaker.Clear()
	if b.streamer != nil {
		b.streamer.Close()
	}
	if b.file != nil {
		b.file.Close()
	}
	b.file = nil
	b.streamer = nil
	b.ctrl = nil
	b.volume = nil
	b.playing = false
}

func (b *speakerBackend) IsBusy() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.playing
}

func (b *speakerBackend) Position() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := b.streamer.Position()
	speaker.Unlock()
	return b.format.SampleRate.D(pos)
}

func (b *speakerBackend) SetVolume(level float64) {
	level = math.Max(0, math.Min(1, level))
	b.mu.Lock()
	defer b.mu.Unlock()
	b.level = level
	if b.volume != nil {
		speaker.Lock()
		b.volume.Volume = gain(level)
		b.volume.Silent = level <= 0
		speaker.Unlock()
	}
}

func (b *speakerBackend) Close() error {
	b.Stop()
	speaker.Close()
	return nil
}

// gain converts a linear [0,1] level to a base-2 volume exponent, so the
// effective multiplier equals the level itself.
func gain(level float64) float64 {
	if level <= 0 {
		return 0
	}
	return math.Log2(level)
}

// decode picks a decoder by file extension.
func decode(path string, f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return wrapDecode(mp3.Decode(f))
	case ".wav":
		return wrapDecode(wav.Decode(f))
	case ".flac":
		return wrapDecode(flac.Decode(f))
	case ".ogg":
		return wrapDecode(vorbis.Decode(f))
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: no decoder for %s", shared.ErrUnplayableTrack, filepath.Ext(path))
	}
}

func wrapDecode(s beep.StreamSeekCloser, format beep.Format, err error) (beep.StreamSeekCloser, beep.Format, error) {
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("%w: %v", shared.ErrUnplayableTrack, err)
	}
	return s, format, nil
}
