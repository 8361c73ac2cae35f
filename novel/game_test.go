package novel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/aefr/engine"
	"github.com/spaghettifunk/aefr/engine/config"
	"github.com/spaghettifunk/aefr/engine/core"
	"github.com/spaghettifunk/aefr/engine/entity"
	"github.com/spaghettifunk/aefr/engine/platform"
	"github.com/spaghettifunk/aefr/engine/renderer"
	"github.com/spaghettifunk/aefr/engine/resources"
	"github.com/spaghettifunk/aefr/engine/systems"
	"github.com/spaghettifunk/aefr/internal/fixture"
)

type recordingBackend struct {
	meshes      int
	backgrounds int
	dialogue    renderer.DialoguePacket
	console     []string
}

func (b *recordingBackend) BeginFrame(float64) error {
	b.meshes = 0
	return nil
}
func (b *recordingBackend) DrawBackground(resources.TextureHandle) {
	b.backgrounds++
}
func (b *recordingBackend) DrawMesh(*entity.MeshData)               { b.meshes++ }
func (b *recordingBackend) DrawDialogue(d *renderer.DialoguePacket) { b.dialogue = *d }
func (b *recordingBackend) DrawConsole(lines []string)              { b.console = lines }
func (b *recordingBackend) EndFrame(float64) error                  { return nil }

// headlessHost drives the loop without a window. Between frames it waits for
// background loads so results land on the next tick.
type headlessHost struct {
	frames  int
	novel   *Novel
	script  map[int]string
	backend recordingBackend
}

func (h *headlessHost) Startup(platform.Config) error           { return nil }
func (h *headlessHost) TextureBackend() systems.TextureBackend  { return systems.MemoryTextureBackend{} }
func (h *headlessHost) SetTextureSource(platform.TextureSource) {}
func (h *headlessHost) Shutdown() error                         { return nil }
func (h *headlessHost) AudioBackend() (systems.AudioBackend, error) {
	return nil, errors.New("headless")
}

func (h *headlessHost) Run(loop platform.Loop) error {
	for i := 0; i < h.frames; i++ {
		if line, ok := h.script[i]; ok {
			loop.Submit(line)
		}
		if err := loop.Tick(frame); err != nil {
			return err
		}
		if err := loop.Draw(&h.backend); err != nil {
			return err
		}
		h.novel.AssetManager.Wait()
	}
	return nil
}

func TestNovelRunsHeadless(t *testing.T) {
	dir := t.TempDir()
	fixture.Character(t, dir, "hina")

	cfg := config.Default()
	cfg.Assets.Root = dir
	cfg.Dialogue.Greeting = "Welcome."
	cfg.Dialogue.RevealInterval = 0

	n, err := New(&cfg)
	require.NoError(t, err)
	assert.Nil(t, n.Stage())
	assert.ErrorIs(t, n.Update(frame), core.ErrNotReady)
	assert.False(t, n.Skip())

	host := &headlessHost{
		frames: 6,
		novel:  n,
		script: map[int]string{0: "LOAD 0 hina", 3: "ANIM 0 Walk"},
	}
	e, err := engine.New(n.Game, host)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	require.NotNil(t, n.Stage())

	require.NoError(t, e.Run())

	ent := n.Stage().Slot(0)
	require.NotNil(t, ent)
	assert.Equal(t, "Walk", ent.State.Current())
	assert.Equal(t, 1, host.backend.meshes, "the character is drawn every frame once it lands")
	assert.Zero(t, host.backend.backgrounds)
	assert.Equal(t, "System", host.backend.dialogue.Name)
	assert.Equal(t, "Welcome.", host.backend.dialogue.Text)
	assert.Contains(t, host.backend.console, "Slot 0 Loaded.")
	assert.Contains(t, host.backend.console, "Slot 0 anim set to 'Walk'")

	state := n.State.(*gameState)
	assert.Equal(t, uint32(1280), state.width)

	require.NoError(t, e.Shutdown())
	assert.Nil(t, n.Stage().Slot(0))
	assert.Zero(t, n.SystemManager.TextureSystem.Count())
}

func TestNewRejectsBadLogLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "loud"
	_, err := New(&cfg)
	assert.Error(t, err)
}
