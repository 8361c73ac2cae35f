package novel

import (
	"fmt"
	"strings"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/spaghettifunk/aefr/engine/bus"
	"github.com/spaghettifunk/aefr/engine/core"
	"github.com/spaghettifunk/aefr/engine/math"
)

// handle applies one command from the bus.
func (s *Stage) handle(cmd bus.Command) {
	s.metrics.Commands.WithLabelValues(cmd.Kind()).Inc()

	switch c := cmd.(type) {
	case bus.Dialogue:
		s.showDialogue(c.Name, c.Affiliation, c.Text)
	case bus.Log:
		s.Log(c.Message)
	case bus.RequestLoad:
		s.onRequestLoad(c)
	case bus.LoadSuccess:
		s.onLoadSuccess(c)
	case bus.SetAnimation:
		s.onSetAnimation(c)
	case bus.Unload:
		s.onUnload(c)
	case bus.LoadBackground:
		s.backgroundToken++
		s.loader.RequestBackground(s.backgroundToken, c.Path)
	case bus.BackgroundReady:
		s.onBackgroundReady(c)
	case bus.PlayAudio:
		s.audioToken++
		s.logf("Loading BGM: %s", c.Path)
		s.loader.RequestAudio(s.audioToken, c.Path)
	case bus.AudioReady:
		s.onAudioReady(c)
	case bus.StopAudio:
		s.audioToken++
		if !s.audio.Silent() {
			s.audio.Stop()
			s.Log("BGM Stopped.")
		}
	case bus.ShowStats:
		s.onShowStats()
	default:
		core.LogWarn("unhandled command %s", cmd.Kind())
	}
}

func (s *Stage) showDialogue(name, affiliation, text string) {
	s.speaker = name
	s.affiliation = affiliation
	s.typewriter.Set(text)
	core.LogDebug("dialogue %s [%s]: %s", name, affiliation, text)
}

func (s *Stage) onRequestLoad(c bus.RequestLoad) {
	if !validSlot(c.Slot) {
		s.logf("LOAD %d: %s", c.Slot, core.ErrInvalidSlot)
		return
	}
	s.tokens[c.Slot]++
	s.paths[c.Slot] = c.Path
	s.logf("Loading slot %d...", c.Slot)
	s.loader.RequestEntity(c.Slot, s.tokens[c.Slot], c.Path)
}

func (s *Stage) onLoadSuccess(c bus.LoadSuccess) {
	if !validSlot(c.Slot) || c.Token != s.tokens[c.Slot] {
		core.LogDebug("discarding stale load for slot %d (token %d)", c.Slot, c.Token)
		if c.Entity != nil {
			c.Entity.Release(s.textures)
		}
		return
	}
	if old := s.slots[c.Slot]; old != nil {
		old.Release(s.textures)
	}

	ent := c.Entity
	ent.Position = math.NewVec2(s.config.BaseX+float32(c.Slot)*s.config.SpacingX, s.config.BaselineY)
	ent.Scale = s.config.DefaultScale
	s.fades[c.Slot] = nil
	if s.config.FadeIn > 0 {
		ent.Opacity = 0
		s.fades[c.Slot] = gween.New(0, 1, s.config.FadeIn, ease.OutCubic)
	}
	s.slots[c.Slot] = ent
	s.loader.Track(c.Slot, s.paths[c.Slot], c.Files)
	s.metrics.ActiveEntities.Set(float64(s.Occupied()))

	s.logf("Slot %d Loaded.", c.Slot)
	s.logf("Avail Anims: %s", formatNames(c.Animations))
}

func (s *Stage) onSetAnimation(c bus.SetAnimation) {
	if !validSlot(c.Slot) {
		s.logf("ANIM %d: %s", c.Slot, core.ErrInvalidSlot)
		return
	}
	ent := s.slots[c.Slot]
	if ent == nil {
		s.logf("ANIM %d: %s", c.Slot, core.ErrEmptySlot)
		return
	}
	if ent.SetAnimation(c.Name, c.Loop) {
		s.logf("Slot %d anim set to '%s'", c.Slot, c.Name)
	} else {
		s.logf("Anim '%s' not found in slot %d", c.Name, c.Slot)
	}
}

func (s *Stage) onUnload(c bus.Unload) {
	if !validSlot(c.Slot) {
		s.logf("UNLOAD %d: %s", c.Slot, core.ErrInvalidSlot)
		return
	}
	// in-flight loads for this slot become stale
	s.tokens[c.Slot]++
	ent := s.slots[c.Slot]
	if ent == nil {
		s.logf("UNLOAD %d: %s", c.Slot, core.ErrEmptySlot)
		return
	}
	ent.Release(s.textures)
	s.slots[c.Slot] = nil
	s.fades[c.Slot] = nil
	s.paths[c.Slot] = ""
	s.loader.Untrack(c.Slot)
	s.metrics.ActiveEntities.Set(float64(s.Occupied()))
	s.logf("Slot %d Unloaded.", c.Slot)
}

func (s *Stage) onBackgroundReady(c bus.BackgroundReady) {
	if c.Token != s.backgroundToken {
		core.LogDebug("discarding stale background %s", c.Path)
		s.textures.Release(c.Texture)
		return
	}
	if s.background.Valid() {
		s.textures.Release(s.background)
	}
	s.background = c.Texture
	s.Log("BG Loaded.")
}

func (s *Stage) onAudioReady(c bus.AudioReady) {
	if c.Token != s.audioToken {
		core.LogDebug("dropping stale audio %s", c.Path)
		return
	}
	if s.audio.Silent() {
		return
	}
	if err := s.audio.Play(c.Path, c.Data); err != nil {
		core.LogDebug("%s", err)
		return
	}
	s.Log("BGM Playing.")
}

func (s *Stage) onShowStats() {
	lines, err := s.metrics.Summary()
	if err != nil {
		s.logf("STATS: %s", err)
		return
	}
	s.logf("Slots: %d/%d, textures: %d, workers: %d", s.Occupied(), SlotCount, s.textures.Count(), s.jobs.Workers())
	for _, l := range lines {
		s.Log(l)
	}
}

func formatNames(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
