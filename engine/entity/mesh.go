package entity

import (
	m "math"

	"github.com/spaghettifunk/aefr/engine/math"
	"github.com/spaghettifunk/aefr/engine/resources"
	"github.com/spaghettifunk/aefr/engine/skeleton"
)

// MaxVertices is the largest batch addressable with uint16 indices.
const MaxVertices = m.MaxUint16

/**
 * @brief A single painted vertex.
 */
type Vertex struct {
	Position math.Vec2
	UV       math.Vec2
	Color    math.Color32
}

/**
 * @brief Triangles for one entity, ready for the painter.
 */
type MeshData struct {
	Texture  resources.TextureHandle
	Vertices []Vertex
	Indices  []uint16
	// Set when attachments were dropped to stay within MaxVertices.
	Truncated bool
}

func (e *Entity) buffer(n int) []float32 {
	if cap(e.scratch) < n {
		e.scratch = make([]float32, n)
	}
	return e.scratch[:n]
}

// GenerateMesh walks the draw order and emits one vertex run per visible
// attachment. Must not run concurrently with Advance on the same entity.
func (e *Entity) GenerateMesh() MeshData {
	mesh := MeshData{Texture: e.Texture}
	sk := e.Skeleton
	for _, slot := range sk.DrawOrder() {
		if mesh.Truncated {
			break
		}
		switch a := slot.Attachment.(type) {
		case *skeleton.RegionAttachment:
			world := e.buffer(8)
			a.ComputeWorldVertices(sk.Bones[slot.Data.Bone], world)
			e.push(&mesh, world, a.UVs[:], skeleton.RegionTriangles, slot.Color.Mul(a.Color))
		case *skeleton.MeshAttachment:
			world := e.buffer(a.VertexCount() * 2)
			a.ComputeWorldVertices(sk, slot, world)
			e.push(&mesh, world, a.UVs, a.Triangles, slot.Color.Mul(a.Color))
		}
	}
	return mesh
}

func (e *Entity) push(mesh *MeshData, world, uvs []float32, triangles []uint16, c math.Color) {
	count := len(uvs) / 2
	if n := len(world) / 2; n < count {
		count = n
	}
	base := len(mesh.Vertices)
	if base+count > MaxVertices {
		mesh.Truncated = true
		return
	}

	c.A *= e.Opacity
	color := c.Premultiplied32()
	for i := 0; i < count; i++ {
		mesh.Vertices = append(mesh.Vertices, Vertex{
			Position: math.Vec2{
				X: world[i*2]*e.Scale + e.Position.X,
				Y: -world[i*2+1]*e.Scale + e.Position.Y,
			},
			UV:    math.Vec2{X: uvs[i*2], Y: uvs[i*2+1]},
			Color: color,
		})
	}
	for _, t := range triangles {
		mesh.Indices = append(mesh.Indices, uint16(base)+t)
	}
}
