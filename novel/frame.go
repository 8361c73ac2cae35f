package novel

import (
	"time"

	"github.com/spaghettifunk/aefr/engine/entity"
	"github.com/spaghettifunk/aefr/engine/renderer"
	"github.com/spaghettifunk/aefr/engine/systems"
)

// Update runs one frame of stage logic: drain the bus, advance the
// typewriter and fades, then advance every occupied slot in parallel on the
// compute pool. It returns once all entities are done.
func (s *Stage) Update(deltaTime float64) error {
	s.receiver.Drain(s.handle)
	s.typewriter.Update(deltaTime)

	dt := float32(deltaTime)
	active := make([]*entity.Entity, 0, SlotCount)
	for i, e := range s.slots {
		if e == nil {
			continue
		}
		if fade := s.fades[i]; fade != nil {
			v, done := fade.Update(dt)
			e.Opacity = v
			if done {
				e.Opacity = 1
				s.fades[i] = nil
			}
		}
		active = append(active, e)
	}
	if len(active) == 0 {
		return nil
	}

	start := time.Now()
	err := s.jobs.RunIsolated(func(scope *systems.Scope) {
		scope.ParallelFor(len(active), func(i int) {
			active[i].Advance(dt)
		})
	})
	s.metrics.AdvanceSeconds.Observe(time.Since(start).Seconds())
	return err
}

// Render fills packet with this frame's drawables. Meshes are built here,
// after Update has finished advancing.
func (s *Stage) Render(packet *renderer.RenderPacket) {
	s.frame++
	packet.FrameNumber = s.frame
	packet.Background = s.background
	packet.Meshes = packet.Meshes[:0]
	for _, e := range s.slots {
		if e != nil {
			packet.Meshes = append(packet.Meshes, e.GenerateMesh())
		}
	}
	packet.Dialogue = renderer.DialoguePacket{
		Name:        s.speaker,
		Affiliation: s.affiliation,
		Text:        s.typewriter.Visible(),
		Revealing:   s.typewriter.Revealing(),
	}
	packet.Console = s.Lines()
}
