package novel

import (
	"fmt"

	"github.com/spaghettifunk/aefr/engine"
	"github.com/spaghettifunk/aefr/engine/config"
	"github.com/spaghettifunk/aefr/engine/core"
	"github.com/spaghettifunk/aefr/engine/renderer"
)

// Novel plugs the stage into the engine.
type Novel struct {
	*engine.Game
	config Config
}

type gameState struct {
	stage  *Stage
	width  uint32
	height uint32
}

func New(cfg *config.Config) (*Novel, error) {
	appConfig, err := engine.NewApplicationConfig(cfg)
	if err != nil {
		return nil, err
	}

	n := &Novel{
		Game: &engine.Game{
			ApplicationConfig: appConfig,
			State:             &gameState{},
		},
		config: Config{
			DefaultScale:   cfg.Stage.DefaultScale,
			BaseX:          cfg.Stage.BaseX,
			SpacingX:       cfg.Stage.SpacingX,
			BaselineY:      cfg.Stage.BaselineY,
			FadeIn:         cfg.Stage.FadeIn,
			RevealInterval: cfg.Dialogue.RevealInterval,
			Speaker:        cfg.Dialogue.Speaker,
			Affiliation:    cfg.Dialogue.Affiliation,
			Greeting:       cfg.Dialogue.Greeting,
		},
	}

	n.FnBoot = n.Boot
	n.FnInitialize = n.Initialize
	n.FnUpdate = n.Update
	n.FnRender = n.Render
	n.FnOnResize = n.OnResize
	n.FnShutdown = n.Shutdown
	n.FnSubmit = n.Submit
	n.FnSkip = n.Skip

	return n, nil
}

func (n *Novel) Boot() error {
	core.LogInfo("booting %s...", n.ApplicationConfig.Name)
	return nil
}

func (n *Novel) Initialize() error {
	core.LogDebug("novel initialize...")

	if n.SystemManager == nil || n.AssetManager == nil {
		return fmt.Errorf("the engine is not yet initialized with all the system managers")
	}
	state := n.State.(*gameState)
	state.stage = NewStage(n.config, n.SystemManager, n.AssetManager, n.Sender, n.Receiver, n.Metrics)
	return nil
}

func (n *Novel) Update(deltaTime float64) error {
	s := n.Stage()
	if s == nil {
		return core.ErrNotReady
	}
	return s.Update(deltaTime)
}

func (n *Novel) Render(packet *renderer.RenderPacket, deltaTime float64) error {
	s := n.Stage()
	if s == nil {
		return core.ErrNotReady
	}
	s.Render(packet)
	return nil
}

func (n *Novel) OnResize(width uint32, height uint32) error {
	state := n.State.(*gameState)
	state.width = width
	state.height = height
	return nil
}

func (n *Novel) Submit(line string) {
	if s := n.Stage(); s != nil {
		s.Submit(line)
	}
}

func (n *Novel) Skip() bool {
	if s := n.Stage(); s != nil {
		return s.Skip()
	}
	return false
}

func (n *Novel) Shutdown() error {
	core.LogDebug("novel shutdown...")
	state := n.State.(*gameState)
	if state.stage == nil {
		return nil
	}
	return state.stage.Shutdown()
}

// Stage is nil until Initialize has run.
func (n *Novel) Stage() *Stage {
	return n.State.(*gameState).stage
}
