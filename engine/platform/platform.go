package platform

import (
	"errors"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/spaghettifunk/aefr/engine/core"
	"github.com/spaghettifunk/aefr/engine/renderer"
	"github.com/spaghettifunk/aefr/engine/resources"
	"github.com/spaghettifunk/aefr/engine/systems"
)

var startTime = time.Now()

var ErrNotStarted = errors.New("platform not started")

// ErrTerminated returned from Loop.Tick closes the window without an error.
var ErrTerminated = ebiten.Termination

type FontConfig struct {
	// Candidate TrueType/OpenType files, first readable one wins.
	Paths []string
	Size  float64
	// Optional AngelCode .fnt used for the dialogue text instead.
	Bitmap string
}

type Config struct {
	Title        string
	Width        int
	Height       int
	TPS          int
	AudioEnabled bool
	SampleRate   int
	Fonts        FontConfig
}

// Loop is what the host drives: Tick once per logic update, Draw once per
// rendered frame, plus the two user gestures the window understands.
type Loop interface {
	Tick(deltaTime float64) error
	Draw(backend renderer.RendererBackend) error
	Submit(line string)
	Skip() bool
}

// TextureSource resolves handles to textures created by TextureBackend.
type TextureSource interface {
	Get(handle resources.TextureHandle) (*resources.Texture, bool)
}

/**
 * @brief Ebitengine window host: owns the window, input, fonts and the
 * audio context.
 */
type Platform struct {
	config   Config
	started  bool
	textures TextureSource
	fonts    *fontSet
	painter  *painter
	input    *consoleInput
	audio    *audioBackend
}

func New() *Platform {
	p := &Platform{input: &consoleInput{}}
	p.painter = &painter{p: p}
	return p
}

func (p *Platform) Startup(config Config) error {
	if config.Width <= 0 || config.Height <= 0 {
		return errors.New("window size must be positive")
	}
	p.config = config

	ebiten.SetWindowTitle(config.Title)
	ebiten.SetWindowSize(config.Width, config.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if config.TPS > 0 {
		ebiten.SetTPS(config.TPS)
	}

	p.fonts = loadFonts(config.Fonts)
	p.started = true
	core.LogInfo("window %q %dx%d", config.Title, config.Width, config.Height)
	return nil
}

// TextureBackend uploads decoded images as Ebitengine images.
func (p *Platform) TextureBackend() systems.TextureBackend {
	return imageBackend{}
}

// AudioBackend opens the audio device. An error means the game runs silent.
func (p *Platform) AudioBackend() (systems.AudioBackend, error) {
	if !p.config.AudioEnabled {
		return nil, errors.New("audio disabled by configuration")
	}
	if p.audio == nil {
		a, err := newAudioBackend(p.config.SampleRate)
		if err != nil {
			return nil, err
		}
		p.audio = a
	}
	return p.audio, nil
}

func (p *Platform) SetTextureSource(src TextureSource) {
	p.textures = src
}

// Run blocks until the window is closed or loop returns an error.
func (p *Platform) Run(loop Loop) error {
	if !p.started {
		return ErrNotStarted
	}
	err := ebiten.RunGame(&host{p: p, loop: loop})
	if errors.Is(err, ErrTerminated) {
		return nil
	}
	return err
}

func (p *Platform) Shutdown() error {
	p.started = false
	return nil
}

// GetAbsoluteTime returns seconds since the process started.
func GetAbsoluteTime() float64 {
	return time.Since(startTime).Seconds()
}

type host struct {
	p    *Platform
	loop Loop
}

func (h *host) Update() error {
	h.p.input.update(h.p, h.loop)
	return h.loop.Tick(1.0 / float64(ebiten.TPS()))
}

func (h *host) Draw(screen *ebiten.Image) {
	h.p.painter.screen = screen
	if err := h.loop.Draw(h.p.painter); err != nil {
		core.LogError("draw failed: %s", err)
	}
	h.p.painter.screen = nil
}

func (h *host) Layout(outsideWidth, outsideHeight int) (int, int) {
	return h.p.config.Width, h.p.config.Height
}
