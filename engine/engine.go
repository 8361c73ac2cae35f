package engine

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/spaghettifunk/aefr/engine/assets"
	"github.com/spaghettifunk/aefr/engine/bus"
	"github.com/spaghettifunk/aefr/engine/core"
	"github.com/spaghettifunk/aefr/engine/platform"
	"github.com/spaghettifunk/aefr/engine/renderer"
	"github.com/spaghettifunk/aefr/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently booting up
	EngineStageBooting
	// Engine completed boot process and is ready to be initialized
	EngineStageBootComplete
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

// Host is the window the engine runs inside.
type Host interface {
	Startup(config platform.Config) error
	TextureBackend() systems.TextureBackend
	AudioBackend() (systems.AudioBackend, error)
	SetTextureSource(src platform.TextureSource)
	Run(loop platform.Loop) error
	Shutdown() error
}

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	host          Host
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	metrics       *core.Metrics
	width         uint32
	height        uint32
	clock         *core.Clock
	lastTime      float64
	quit          atomic.Bool

	backend  renderer.RendererBackend
	frontend *renderer.Renderer
	packet   renderer.RenderPacket
}

func New(g *Game, host Host) (*Engine, error) {
	cfg := g.ApplicationConfig
	core.SetLogLevel(cfg.LogLevel)

	e := &Engine{
		currentStage: EngineStageBooting,
		gameInstance: g,
		host:         host,
		clock:        core.NewClock(),
		width:        cfg.StartWidth,
		height:       cfg.StartHeight,
	}

	if err := host.Startup(platform.Config{
		Title:        cfg.Name,
		Width:        int(cfg.StartWidth),
		Height:       int(cfg.StartHeight),
		TPS:          cfg.TPS,
		AudioEnabled: cfg.Audio.Enabled,
		SampleRate:   cfg.Audio.SampleRate,
		Fonts:        cfg.Fonts,
	}); err != nil {
		core.LogError("%s", err)
		return nil, err
	}

	audio, err := host.AudioBackend()
	if err != nil {
		core.LogWarn("audio unavailable: %s", err)
		audio = nil
	}

	sm, err := systems.NewSystemManager(systems.SystemManagerConfig{
		ReservedCores:   cfg.ReservedCores,
		MaxTextureCount: cfg.MaxTextureCount,
		Audio:           cfg.Audio,
	}, host.TextureBackend(), audio)
	if err != nil {
		core.LogError("%s", err)
		return nil, err
	}
	host.SetTextureSource(sm.TextureSystem)

	e.metrics = core.NewMetrics()
	tx, rx := bus.New()
	e.systemManager = sm
	e.assetManager = assets.NewAssetManager(cfg.Assets, sm.TextureSystem, tx, e.metrics)

	g.SystemManager = sm
	g.AssetManager = e.assetManager
	g.Sender = tx
	g.Receiver = rx
	g.Metrics = e.metrics

	if g.FnBoot != nil {
		if err := g.FnBoot(); err != nil {
			core.LogError("game boot failed: %s", err)
			_ = sm.Shutdown()
			return nil, err
		}
	}
	e.currentStage = EngineStageBootComplete
	return e, nil
}

func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageBootComplete {
		return core.ErrNotReady
	}
	e.currentStage = EngineStageInitializing

	if err := e.assetManager.Initialize(); err != nil {
		return err
	}
	if err := e.gameInstance.FnInitialize(); err != nil {
		return err
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
			return err
		}
	}
	e.currentStage = EngineStageInitialized
	return nil
}

// Run hands control to the host until the window closes or Quit is called.
func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return core.ErrNotReady
	}
	e.currentStage = EngineStageRunning
	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	return e.host.Run(e)
}

// Quit asks the host to close after the current tick. Safe from any goroutine.
func (e *Engine) Quit() {
	e.quit.Store(true)
}

// Tick runs one logic update.
func (e *Engine) Tick(deltaTime float64) error {
	if e.quit.Load() {
		core.LogInfo("quit requested, shutting down.")
		return platform.ErrTerminated
	}

	e.clock.Update()
	currentTime := e.clock.Elapsed()
	e.metrics.Update(currentTime - e.lastTime)
	e.lastTime = currentTime

	if err := e.gameInstance.FnUpdate(deltaTime); err != nil {
		core.LogError("game update failed, shutting down: %s", err)
		return err
	}
	e.packet.DeltaTime = deltaTime
	return nil
}

// Draw builds the frame's packet through the game and submits it.
func (e *Engine) Draw(backend renderer.RendererBackend) error {
	if e.frontend == nil || e.backend != backend {
		e.backend = backend
		e.frontend = renderer.New(backend)
	}
	if err := e.gameInstance.FnRender(&e.packet, e.packet.DeltaTime); err != nil {
		core.LogError("game render failed: %s", err)
		return err
	}
	return e.frontend.DrawFrame(&e.packet)
}

func (e *Engine) Submit(line string) {
	if e.gameInstance.FnSubmit != nil {
		e.gameInstance.FnSubmit(line)
	}
}

func (e *Engine) Skip() bool {
	if e.gameInstance.FnSkip != nil {
		return e.gameInstance.FnSkip()
	}
	return false
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShuttingDown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown

	var errs []error
	if e.gameInstance.FnShutdown != nil {
		errs = append(errs, e.gameInstance.FnShutdown())
	}
	errs = append(errs, e.assetManager.Shutdown())
	// loads still in flight release what they made once they see the closed bus
	e.assetManager.Wait()
	errs = append(errs, e.systemManager.Shutdown(), e.host.Shutdown())
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("engine shutdown: %w", err)
	}
	return nil
}

// GetFramebufferSize returns the width and height (in this order)
// of the application Framebuffer
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) CurrentStage() Stage {
	return e.currentStage
}
