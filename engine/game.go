package engine

import (
	"github.com/spaghettifunk/aefr/engine/assets"
	"github.com/spaghettifunk/aefr/engine/bus"
	"github.com/spaghettifunk/aefr/engine/core"
	"github.com/spaghettifunk/aefr/engine/renderer"
	"github.com/spaghettifunk/aefr/engine/systems"
)

// Game is the application plugged into the engine. The engine fills in the
// shared systems before FnBoot is called.
type Game struct {
	ApplicationConfig *ApplicationConfig
	SystemManager     *systems.SystemManager
	AssetManager      *assets.AssetManager
	Sender            *bus.Sender
	Receiver          *bus.Receiver
	Metrics           *core.Metrics
	State             interface{}
	FnBoot            Boot
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnOnResize        OnResize
	FnShutdown        Shutdown
	FnSubmit          Submit
	FnSkip            Skip
}

type Boot func() error
type Initialize func() error
type Update func(deltaTime float64) error
type Render func(packet *renderer.RenderPacket, deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
type Submit func(line string)
type Skip func() bool
