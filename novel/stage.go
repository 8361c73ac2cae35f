// Package novel is the visual-novel stage: five character slots, a
// background, one music track, the dialogue box and the console.
package novel

import (
	"fmt"
	"strings"

	"github.com/tanema/gween"

	"github.com/spaghettifunk/aefr/engine/bus"
	"github.com/spaghettifunk/aefr/engine/console"
	"github.com/spaghettifunk/aefr/engine/containers"
	"github.com/spaghettifunk/aefr/engine/core"
	"github.com/spaghettifunk/aefr/engine/dialogue"
	"github.com/spaghettifunk/aefr/engine/entity"
	"github.com/spaghettifunk/aefr/engine/resources"
	"github.com/spaghettifunk/aefr/engine/systems"
)

const (
	SlotCount       = 5
	ConsoleHistory  = 256
	ConsoleGreeting = "Type 'HELP' for new commands."
)

type Config struct {
	DefaultScale float32
	BaseX        float32
	SpacingX     float32
	BaselineY    float32
	FadeIn       float32

	RevealInterval float64
	Speaker        string
	Affiliation    string
	Greeting       string
}

func DefaultConfig() Config {
	return Config{
		DefaultScale:   entity.DefaultScale,
		BaseX:          200,
		SpacingX:       220,
		BaselineY:      720,
		RevealInterval: dialogue.DefaultInterval,
	}
}

// Loader starts background work whose results come back on the bus.
type Loader interface {
	RequestEntity(slot int, token uint64, path string)
	RequestAudio(token uint64, path string)
	RequestBackground(token uint64, path string)
	Track(slot int, path string, files []string)
	Untrack(slot int)
}

/**
 * @brief Owns everything on screen. All methods run on the render goroutine;
 * background work only talks to it through the command bus.
 */
type Stage struct {
	config Config

	sender   *bus.Sender
	receiver *bus.Receiver
	loader   Loader
	jobs     *systems.JobSystem
	textures *systems.TextureSystem
	audio    *systems.AudioSystem
	metrics  *core.Metrics

	slots  [SlotCount]*entity.Entity
	paths  [SlotCount]string
	tokens [SlotCount]uint64
	fades  [SlotCount]*gween.Tween

	background      resources.TextureHandle
	backgroundToken uint64
	audioToken      uint64

	typewriter  *dialogue.Typewriter
	speaker     string
	affiliation string

	console *containers.RingQueue[string]
	frame   uint64
}

func NewStage(config Config, sm *systems.SystemManager, loader Loader, sender *bus.Sender, receiver *bus.Receiver, metrics *core.Metrics) *Stage {
	if metrics == nil {
		metrics = core.NewMetrics()
	}
	s := &Stage{
		config:     config,
		sender:     sender,
		receiver:   receiver,
		loader:     loader,
		jobs:       sm.JobSystem,
		textures:   sm.TextureSystem,
		audio:      sm.AudioSystem,
		metrics:    metrics,
		background: resources.InvalidTexture,
		typewriter: dialogue.NewTypewriter(config.RevealInterval),
		console:    containers.NewRingQueue[string](ConsoleHistory),
	}
	s.metrics.PoolWorkers.Set(float64(s.jobs.Workers()))
	s.Log(ConsoleGreeting)
	if config.Greeting != "" {
		s.showDialogue(config.Speaker, config.Affiliation, config.Greeting)
	}
	return s
}

// Log appends a line to the console window.
func (s *Stage) Log(line string) {
	if s.console.IsFull() {
		_, _ = s.console.Dequeue()
	}
	_ = s.console.Enqueue(line)
	core.LogInfo("console: %s", line)
}

func (s *Stage) logf(format string, args ...interface{}) {
	s.Log(fmt.Sprintf(format, args...))
}

// Lines returns the console log, oldest first.
func (s *Stage) Lines() []string {
	return s.console.Items()
}

// Submit runs one line typed into the console. The line is echoed, then
// either answered locally or turned into a command on the bus.
func (s *Stage) Submit(line string) {
	input := strings.TrimSpace(line)
	if input == "" {
		return
	}
	s.logf("> %s", input)
	res := console.Parse(input)
	for _, l := range res.Local {
		s.Log(l)
	}
	if res.Command != nil && !s.sender.Send(res.Command) {
		core.LogWarn("command bus closed, dropping %s", res.Command.Kind())
	}
}

// Skip reveals the rest of the current dialogue line.
func (s *Stage) Skip() bool {
	return s.typewriter.Skip()
}

// Slot returns the entity in slot i, or nil.
func (s *Stage) Slot(i int) *entity.Entity {
	if !validSlot(i) {
		return nil
	}
	return s.slots[i]
}

// Token returns the current load token of slot i.
func (s *Stage) Token(i int) uint64 {
	if !validSlot(i) {
		return 0
	}
	return s.tokens[i]
}

func (s *Stage) Background() resources.TextureHandle {
	return s.background
}

func (s *Stage) Occupied() int {
	n := 0
	for _, e := range s.slots {
		if e != nil {
			n++
		}
	}
	return n
}

// Shutdown gives every texture back and closes the receiving end of the bus.
// Late results from background loads are released by their senders.
func (s *Stage) Shutdown() error {
	s.receiver.Close()
	for i, e := range s.slots {
		if e != nil {
			e.Release(s.textures)
			s.slots[i] = nil
			s.loader.Untrack(i)
		}
	}
	if s.background.Valid() {
		s.textures.Release(s.background)
		s.background = resources.InvalidTexture
	}
	s.audio.Stop()
	return nil
}

func validSlot(i int) bool {
	return i >= 0 && i < SlotCount
}
