package renderer

import (
	"github.com/spaghettifunk/aefr/engine/core"
	"github.com/spaghettifunk/aefr/engine/entity"
	"github.com/spaghettifunk/aefr/engine/resources"
)

// RendererBackend paints into whatever surface the host provides.
type RendererBackend interface {
	BeginFrame(deltaTime float64) error
	DrawBackground(texture resources.TextureHandle)
	DrawMesh(mesh *entity.MeshData)
	DrawDialogue(dialogue *DialoguePacket)
	DrawConsole(lines []string)
	EndFrame(deltaTime float64) error
}

type Renderer struct {
	backend RendererBackend
}

func New(backend RendererBackend) *Renderer {
	return &Renderer{backend: backend}
}

// DrawFrame submits a packet to the backend: background, characters in slot
// order, then the dialogue box and console on top.
func (r *Renderer) DrawFrame(packet *RenderPacket) error {
	if err := r.backend.BeginFrame(packet.DeltaTime); err != nil {
		core.LogError("%s", err)
		return err
	}
	if packet.Background.Valid() {
		r.backend.DrawBackground(packet.Background)
	}
	for i := range packet.Meshes {
		if len(packet.Meshes[i].Indices) == 0 {
			continue
		}
		r.backend.DrawMesh(&packet.Meshes[i])
	}
	r.backend.DrawDialogue(&packet.Dialogue)
	r.backend.DrawConsole(packet.Console)
	if err := r.backend.EndFrame(packet.DeltaTime); err != nil {
		core.LogError("renderer end frame failed: %s", err)
		return err
	}
	return nil
}
