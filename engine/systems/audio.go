package systems

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spaghettifunk/aefr/engine/core"
)

var ErrAudioDecode = errors.New("audio decode failed")

type AudioSystemConfig struct {
	Enabled    bool
	SampleRate int
}

// AudioTrack is a decoded, ready to start background track.
type AudioTrack interface {
	Play()
	Close() error
}

// AudioBackend decodes raw file bytes into a looping track.
type AudioBackend interface {
	Decode(path string, data []byte) (AudioTrack, error)
}

/**
 * @brief Owns the single background music track. Without a backend it runs
 * silent and every call is a no-op.
 */
type AudioSystem struct {
	Config AudioSystemConfig

	mu      sync.Mutex
	backend AudioBackend
	current AudioTrack
	path    string
}

func NewAudioSystem(config AudioSystemConfig, backend AudioBackend) *AudioSystem {
	as := &AudioSystem{Config: config}
	if config.Enabled && backend != nil {
		as.backend = backend
	} else {
		core.LogWarn("audio device unavailable, running silent")
	}
	return as
}

// Silent reports whether audio output is disabled.
func (as *AudioSystem) Silent() bool {
	return as.backend == nil
}

// Play replaces the current track with the one decoded from data.
func (as *AudioSystem) Play(path string, data []byte) error {
	if as.Silent() {
		return nil
	}
	as.mu.Lock()
	defer as.mu.Unlock()

	as.stopLocked()
	track, err := as.backend.Decode(path, data)
	if err != nil {
		return fmt.Errorf("%w: %s: %s", ErrAudioDecode, path, err)
	}
	track.Play()
	as.current = track
	as.path = path
	return nil
}

// Stop ends the current track, if any.
func (as *AudioSystem) Stop() {
	as.mu.Lock()
	defer as.mu.Unlock()
	as.stopLocked()
}

func (as *AudioSystem) stopLocked() {
	if as.current == nil {
		return
	}
	if err := as.current.Close(); err != nil {
		core.LogDebug("closing track %s: %s", as.path, err)
	}
	as.current = nil
	as.path = ""
}

// Playing returns the path of the current track, or "".
func (as *AudioSystem) Playing() string {
	as.mu.Lock()
	defer as.mu.Unlock()
	return as.path
}

func (as *AudioSystem) Shutdown() error {
	as.Stop()
	return nil
}
