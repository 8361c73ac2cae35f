package novel

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/aefr/engine/assets"
	"github.com/spaghettifunk/aefr/engine/bus"
	"github.com/spaghettifunk/aefr/engine/core"
	"github.com/spaghettifunk/aefr/engine/math"
	"github.com/spaghettifunk/aefr/engine/renderer"
	"github.com/spaghettifunk/aefr/engine/systems"
	"github.com/spaghettifunk/aefr/internal/fixture"
)

const frame = 1.0 / 60.0

type fakeTrack struct {
	audio *fakeAudio
	path  string
}

func (t *fakeTrack) Play() {
	t.audio.mu.Lock()
	defer t.audio.mu.Unlock()
	t.audio.played = append(t.audio.played, t.path)
}

func (t *fakeTrack) Close() error { return nil }

type fakeAudio struct {
	mu     sync.Mutex
	played []string
}

func (a *fakeAudio) Decode(path string, data []byte) (systems.AudioTrack, error) {
	if len(data) == 0 {
		return nil, errors.New("empty stream")
	}
	return &fakeTrack{audio: a, path: path}, nil
}

func (a *fakeAudio) Played() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.played...)
}

type harness struct {
	stage  *Stage
	assets *assets.AssetManager
	sm     *systems.SystemManager
	audio  *fakeAudio
	dir    string
}

func newHarness(t *testing.T, config Config) *harness {
	t.Helper()
	dir := t.TempDir()
	fixture.Character(t, dir, "hina")
	fixture.Image(t, filepath.Join(dir, "room.png"), 8, 4)
	fixture.File(t, filepath.Join(dir, "theme.ogg"), []byte{1, 2, 3})

	audio := &fakeAudio{}
	sm, err := systems.NewSystemManager(systems.SystemManagerConfig{
		ReservedCores:   systems.MinReservedCores,
		MaxTextureCount: 32,
		Audio:           systems.AudioSystemConfig{Enabled: true, SampleRate: 44100},
	}, nil, audio)
	require.NoError(t, err)

	metrics := core.NewMetrics()
	tx, rx := bus.New()
	am := assets.NewAssetManager(assets.AssetManagerConfig{Root: dir}, sm.TextureSystem, tx, metrics)
	require.NoError(t, am.Initialize())

	h := &harness{
		stage:  NewStage(config, sm, am, tx, rx, metrics),
		assets: am,
		sm:     sm,
		audio:  audio,
		dir:    dir,
	}
	t.Cleanup(func() {
		_ = h.stage.Shutdown()
		am.Wait()
		_ = am.Shutdown()
		_ = sm.Shutdown()
	})
	return h
}

// settle runs frames until every background request has reported back and
// its result has been applied.
func (h *harness) settle(t *testing.T) {
	t.Helper()
	for i := 0; i < 4; i++ {
		require.NoError(t, h.stage.Update(frame))
		h.assets.Wait()
	}
}

func (h *harness) run(t *testing.T, lines ...string) {
	t.Helper()
	for _, l := range lines {
		h.stage.Submit(l)
	}
	h.settle(t)
}

func TestStartupState(t *testing.T) {
	config := DefaultConfig()
	config.Speaker = "System"
	config.Affiliation = "AEFR"
	config.Greeting = "Ready."
	h := newHarness(t, config)

	assert.Equal(t, []string{ConsoleGreeting}, h.stage.Lines())

	require.NoError(t, h.stage.Update(1))
	var packet renderer.RenderPacket
	h.stage.Render(&packet)
	assert.Equal(t, "System", packet.Dialogue.Name)
	assert.Equal(t, "AEFR", packet.Dialogue.Affiliation)
	assert.Equal(t, "Ready.", packet.Dialogue.Text)
	assert.False(t, packet.Background.Valid())
	assert.Empty(t, packet.Meshes)
}

func TestLoadThenAnimate(t *testing.T) {
	h := newHarness(t, DefaultConfig())

	h.run(t, "LOAD 0 hina")
	ent := h.stage.Slot(0)
	require.NotNil(t, ent)
	assert.Equal(t, math.NewVec2(200, 720), ent.Position)
	assert.Equal(t, float32(0.5), ent.Scale)
	assert.Equal(t, "Idle", ent.State.Current())
	assert.Subset(t, h.stage.Lines(), []string{
		"> LOAD 0 hina",
		"Loading slot 0...",
		"Slot 0 Loaded.",
		`Avail Anims: ["Idle", "Walk"]`,
	})

	h.run(t, "ANIM 0 Walk false")
	assert.Equal(t, "Walk", ent.State.Current())
	assert.Contains(t, h.stage.Lines(), "Slot 0 anim set to 'Walk'")

	h.run(t, "ANIM 0 Dance")
	assert.Equal(t, "Walk", ent.State.Current())
	assert.Contains(t, h.stage.Lines(), "Anim 'Dance' not found in slot 0")

	var packet renderer.RenderPacket
	h.stage.Render(&packet)
	require.Len(t, packet.Meshes, 1)
	assert.Equal(t, ent.Texture, packet.Meshes[0].Texture)
	assert.NotEmpty(t, packet.Meshes[0].Indices)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.stage.metrics.ActiveEntities))
}

func TestSlotPlacement(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.run(t, "LOAD 3 hina")
	ent := h.stage.Slot(3)
	require.NotNil(t, ent)
	assert.Equal(t, math.NewVec2(200+3*220, 720), ent.Position)
}

func TestLatestLoadWins(t *testing.T) {
	h := newHarness(t, DefaultConfig())

	h.stage.Submit("LOAD 1 hina")
	h.stage.Submit("LOAD 1 hina")
	h.settle(t)

	require.NotNil(t, h.stage.Slot(1))
	assert.Equal(t, uint64(2), h.stage.Token(1))
	assert.Equal(t, 1, h.sm.TextureSystem.Count(), "the superseded load gives its texture back")
}

func TestStaleLoadSuccessIsDiscarded(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.run(t, "LOAD 0 hina")
	current := h.stage.Slot(0)

	ent, _, err := h.assets.LoadEntity(t.Context(), "hina")
	require.NoError(t, err)
	require.Equal(t, 2, h.sm.TextureSystem.Count())

	h.stage.handle(bus.LoadSuccess{Slot: 0, Token: 0, Entity: ent})
	assert.Same(t, current, h.stage.Slot(0))
	assert.Equal(t, 1, h.sm.TextureSystem.Count())
}

func TestLoadFailureLeavesSlotEmpty(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.run(t, `LOAD 2 "nobody"`)
	assert.Nil(t, h.stage.Slot(2))

	assert.Condition(t, func() bool {
		for _, l := range h.stage.Lines() {
			if strings.HasPrefix(l, "Load failed: nobody: ") {
				return true
			}
		}
		return false
	}, "expected a load failure line in %v", h.stage.Lines())
}

func TestInvalidAndEmptySlots(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.run(t, "LOAD 7 hina", "ANIM 2 Walk", "ANIM 9 Walk", "UNLOAD 4")

	lines := h.stage.Lines()
	assert.Contains(t, lines, "LOAD 7: slot index out of range")
	assert.Contains(t, lines, "ANIM 2: slot is empty")
	assert.Contains(t, lines, "ANIM 9: slot index out of range")
	assert.Contains(t, lines, "UNLOAD 4: slot is empty")
	for i := 0; i < SlotCount; i++ {
		assert.Nil(t, h.stage.Slot(i))
	}
}

func TestUnloadReleasesTexture(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.run(t, "LOAD 0 hina")
	require.Equal(t, 1, h.sm.TextureSystem.Count())

	h.run(t, "UNLOAD 0")
	assert.Nil(t, h.stage.Slot(0))
	assert.Zero(t, h.sm.TextureSystem.Count())
	assert.Contains(t, h.stage.Lines(), "Slot 0 Unloaded.")
}

func TestFadeIn(t *testing.T) {
	config := DefaultConfig()
	config.FadeIn = 0.1
	h := newHarness(t, config)

	h.stage.Submit("LOAD 0 hina")
	require.NoError(t, h.stage.Update(frame))
	h.assets.Wait()
	require.NoError(t, h.stage.Update(0))
	ent := h.stage.Slot(0)
	require.NotNil(t, ent)
	assert.Zero(t, ent.Opacity)

	require.NoError(t, h.stage.Update(0.05))
	assert.Greater(t, ent.Opacity, float32(0))
	assert.Less(t, ent.Opacity, float32(1))

	require.NoError(t, h.stage.Update(0.2))
	assert.Equal(t, float32(1), ent.Opacity)
}

func TestBackground(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.run(t, "BG room.png")
	first := h.stage.Background()
	require.True(t, first.Valid())
	assert.Contains(t, h.stage.Lines(), "BG Loaded.")

	h.run(t, "BG room.png")
	assert.True(t, h.stage.Background().Valid())
	assert.Equal(t, 1, h.sm.TextureSystem.Count(), "the old background is released")

	h.run(t, "BG missing.png")
	assert.True(t, h.stage.Background().Valid(), "a failed load keeps the current background")
}

func TestMusic(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.run(t, "BGM theme.ogg")
	assert.Equal(t, []string{"theme.ogg"}, h.audio.Played())
	assert.Contains(t, h.stage.Lines(), "BGM Playing.")

	h.run(t, "STOP")
	assert.Empty(t, h.sm.AudioSystem.Playing())
	assert.Contains(t, h.stage.Lines(), "BGM Stopped.")
}

func TestStopBeforeAudioReadyDropsTrack(t *testing.T) {
	h := newHarness(t, DefaultConfig())

	h.stage.handle(bus.PlayAudio{Path: "theme.ogg"})
	h.stage.handle(bus.StopAudio{})
	h.settle(t)

	assert.Empty(t, h.audio.Played())
	assert.Empty(t, h.sm.AudioSystem.Playing())
}

func TestTalkAndSkip(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.run(t, "TALK Alice|Factionless|Hello there")

	var packet renderer.RenderPacket
	h.stage.Render(&packet)
	assert.Equal(t, "Alice", packet.Dialogue.Name)
	assert.Equal(t, "Factionless", packet.Dialogue.Affiliation)
	assert.True(t, packet.Dialogue.Revealing)

	assert.True(t, h.stage.Skip())
	h.stage.Render(&packet)
	assert.Equal(t, "Hello there", packet.Dialogue.Text)
	assert.False(t, h.stage.Skip())
}

func TestHelpAndStats(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.run(t, "help", "STATS")

	lines := h.stage.Lines()
	assert.Contains(t, lines, "Commands:")
	assert.Contains(t, lines, fmt.Sprintf("Slots: 0/5, textures: 0, workers: %d", h.sm.JobSystem.Workers()))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.stage.metrics.Commands.WithLabelValues("ShowStats")))
}

func TestMalformedInputIsOnlyEchoed(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.run(t, "DANCE now", "   ")
	assert.Equal(t, []string{ConsoleGreeting, "> DANCE now"}, h.stage.Lines())
}

func TestConsoleHistoryIsBounded(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	for i := 0; i < ConsoleHistory+10; i++ {
		h.stage.Log("line")
	}
	assert.Len(t, h.stage.Lines(), ConsoleHistory)
}

func TestShutdownReleasesEverything(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.run(t, "LOAD 0 hina", "LOAD 1 hina", "BG room.png")
	require.Equal(t, 3, h.sm.TextureSystem.Count())

	require.NoError(t, h.stage.Shutdown())
	assert.Zero(t, h.sm.TextureSystem.Count())
	assert.Zero(t, h.stage.Occupied())
}

type trackingLoader struct {
	Loader
	tracked map[int][]string
}

func (l *trackingLoader) Track(slot int, path string, files []string) {
	l.tracked[slot] = files
	l.Loader.Track(slot, path, files)
}

func TestLoadSuccessHandsResolvedFilesToWatcher(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	loader := &trackingLoader{Loader: h.stage.loader, tracked: map[int][]string{}}
	h.stage.loader = loader

	h.run(t, "LOAD 2 hina")
	require.NotNil(t, h.stage.Slot(2))
	assert.Equal(t, []string{
		filepath.Join(h.dir, "hina.atlas"),
		filepath.Join(h.dir, "hina.json"),
		filepath.Join(h.dir, "hina.png"),
	}, loader.tracked[2])
}
