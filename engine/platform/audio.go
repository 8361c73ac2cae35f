package platform

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ebitengine/oto/v3"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"

	"github.com/spaghettifunk/aefr/engine/systems"
)

// The decoders produce interleaved stereo signed 16-bit samples.
const audioChannels = 2

type audioBackend struct {
	context    *oto.Context
	sampleRate int
}

// openAudioDevice opens the output device synchronously so a missing device
// is known before the window loop starts.
var openAudioDevice = func(sampleRate int) (*oto.Context, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: audioChannels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready
	return ctx, nil
}

func newAudioBackend(sampleRate int) (*audioBackend, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("open audio device: invalid sample rate %d", sampleRate)
	}
	ctx, err := openAudioDevice(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	return &audioBackend{context: ctx, sampleRate: sampleRate}, nil
}

type stream interface {
	io.ReadSeeker
	Length() int64
}

// Decode picks the codec from the extension, falling back to the magic bytes.
func (a *audioBackend) Decode(path string, data []byte) (systems.AudioTrack, error) {
	var (
		s   stream
		err error
	)
	src := bytes.NewReader(data)
	switch sniffFormat(path, data) {
	case "wav":
		s, err = wav.DecodeWithSampleRate(a.sampleRate, src)
	case "ogg":
		s, err = vorbis.DecodeWithSampleRate(a.sampleRate, src)
	case "mp3":
		s, err = mp3.DecodeWithSampleRate(a.sampleRate, src)
	default:
		return nil, fmt.Errorf("unknown audio format")
	}
	if err != nil {
		return nil, err
	}
	if err := a.context.Err(); err != nil {
		return nil, err
	}
	return &track{player: a.context.NewPlayer(audio.NewInfiniteLoop(s, s.Length()))}, nil
}

func sniffFormat(path string, data []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return "wav"
	case ".ogg", ".oga":
		return "ogg"
	case ".mp3":
		return "mp3"
	}
	switch {
	case bytes.HasPrefix(data, []byte("RIFF")):
		return "wav"
	case bytes.HasPrefix(data, []byte("OggS")):
		return "ogg"
	case bytes.HasPrefix(data, []byte("ID3")), len(data) > 1 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return "mp3"
	}
	return ""
}

type track struct {
	player *oto.Player
}

func (t *track) Play() {
	t.player.Play()
}

func (t *track) Close() error {
	return t.player.Close()
}
