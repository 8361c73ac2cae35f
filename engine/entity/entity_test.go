package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/aefr/engine/math"
	"github.com/spaghettifunk/aefr/engine/resources"
	"github.com/spaghettifunk/aefr/engine/skeleton"
	"github.com/spaghettifunk/aefr/internal/fixture"
)

func newEntity(t *testing.T) *Entity {
	t.Helper()
	data, err := skeleton.ParseJSON([]byte(fixture.Skeleton), nil)
	require.NoError(t, err)
	e := New(data, resources.TextureHandle(3))
	e.Position = math.NewVec2(200, 720)
	return e
}

func TestNewPlaysFirstAnimation(t *testing.T) {
	e := newEntity(t)
	assert.Equal(t, "Idle", e.State.Current())
	assert.Equal(t, DefaultScale, e.Scale)
	assert.Equal(t, fixture.AnimationNames, e.AnimationNames())
}

func TestSetAnimationHitAndMiss(t *testing.T) {
	e := newEntity(t)
	require.True(t, e.SetAnimation("Walk", true))
	assert.Equal(t, "Walk", e.State.Current())

	assert.False(t, e.SetAnimation("walk", true), "names are case-sensitive")
	assert.False(t, e.SetAnimation("Run", false))
	assert.Equal(t, "Walk", e.State.Current(), "a miss keeps the current animation")
}

func TestGenerateMeshOffsetsIndices(t *testing.T) {
	e := newEntity(t)
	mesh := e.GenerateMesh()

	assert.Equal(t, resources.TextureHandle(3), mesh.Texture)
	require.Len(t, mesh.Vertices, 7)
	assert.Equal(t, []uint16{0, 1, 2, 2, 3, 0, 4, 5, 6}, mesh.Indices)
	assert.False(t, mesh.Truncated)
	for _, idx := range mesh.Indices {
		assert.Less(t, int(idx), len(mesh.Vertices))
	}

	// region corners BL, UL, UR, BR with y flipped around the stage position
	assert.True(t, mesh.Vertices[0].Position.Compare(math.NewVec2(192, 720), 1e-3))
	assert.True(t, mesh.Vertices[1].Position.Compare(math.NewVec2(192, 704), 1e-3))
	assert.True(t, mesh.Vertices[2].Position.Compare(math.NewVec2(208, 704), 1e-3))
	assert.True(t, mesh.Vertices[4].Position.Compare(math.NewVec2(196, 704), 1e-3))

	assert.Equal(t, math.NewVec2(0, 1), mesh.Vertices[0].UV, "unit square without an atlas")
	assert.Equal(t, math.NewVec2(1, 0), mesh.Vertices[2].UV)
}

func TestGenerateMeshColours(t *testing.T) {
	e := newEntity(t)
	mesh := e.GenerateMesh()

	assert.Equal(t, math.Color32{R: 255, G: 255, B: 255, A: 255}, mesh.Vertices[0].Color)
	// the face slot has alpha 0x80, so RGB is premultiplied down to match it
	face := mesh.Vertices[4].Color
	assert.Equal(t, uint8(128), face.A)
	assert.Equal(t, face.A, face.R)
	for _, v := range mesh.Vertices {
		assert.LessOrEqual(t, v.Color.R, v.Color.A)
		assert.LessOrEqual(t, v.Color.G, v.Color.A)
		assert.LessOrEqual(t, v.Color.B, v.Color.A)
	}

	e.Opacity = 0
	for _, v := range e.GenerateMesh().Vertices {
		assert.Equal(t, math.Color32{}, v.Color)
	}
}

func TestAdvanceMovesPose(t *testing.T) {
	e := newEntity(t)
	require.True(t, e.SetAnimation("Walk", false))
	e.Advance(0.25)

	mesh := e.GenerateMesh()
	// root moved 2 units right, halved by the entity scale
	assert.InDelta(t, 193, mesh.Vertices[0].Position.X, 1e-3)
}

func TestPushTruncatesAtIndexLimit(t *testing.T) {
	e := newEntity(t)
	mesh := MeshData{Vertices: make([]Vertex, MaxVertices-2)}
	world := make([]float32, 8)
	uvs := make([]float32, 8)

	e.push(&mesh, world, uvs, skeleton.RegionTriangles, math.NewColorWhite())
	assert.True(t, mesh.Truncated)
	assert.Len(t, mesh.Vertices, MaxVertices-2)
	assert.Empty(t, mesh.Indices)
}

type releaser struct{ released []resources.TextureHandle }

func (r *releaser) Release(h resources.TextureHandle) { r.released = append(r.released, h) }

func TestReleaseOnce(t *testing.T) {
	e := newEntity(t)
	r := &releaser{}
	e.Release(r)
	e.Release(r)
	assert.Equal(t, []resources.TextureHandle{3}, r.released)
	assert.False(t, e.Texture.Valid())
}
