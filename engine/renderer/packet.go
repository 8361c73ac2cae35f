package renderer

import (
	"github.com/spaghettifunk/aefr/engine/entity"
	"github.com/spaghettifunk/aefr/engine/resources"
)

/** @brief What the dialogue box shows this frame. */
type DialoguePacket struct {
	Name        string
	Affiliation string
	// The revealed prefix of the current line.
	Text      string
	Revealing bool
}

/** @brief Everything the backend needs to draw one frame, back to front. */
type RenderPacket struct {
	FrameNumber uint64
	DeltaTime   float64
	// InvalidTexture when no background is set.
	Background resources.TextureHandle
	// One entry per occupied slot, in slot order.
	Meshes   []entity.MeshData
	Dialogue DialoguePacket
	Console  []string
}
