package entity

import (
	"github.com/spaghettifunk/aefr/engine/math"
	"github.com/spaghettifunk/aefr/engine/resources"
	"github.com/spaghettifunk/aefr/engine/skeleton"
)

const DefaultScale float32 = 0.5

// PoseEvaluator advances animation time and writes the pose onto a skeleton.
type PoseEvaluator interface {
	Update(dt float32)
	Apply(sk *skeleton.Skeleton)
	SetAnimation(name string, loop bool) bool
	Current() string
}

// TextureReleaser takes back a texture the entity no longer needs.
type TextureReleaser interface {
	Release(handle resources.TextureHandle)
}

/**
 * @brief An animated character placed on the stage.
 */
type Entity struct {
	Data     *skeleton.Data
	Skeleton *skeleton.Skeleton
	State    PoseEvaluator
	Texture  resources.TextureHandle
	Position math.Vec2
	Scale    float32
	// Multiplies every vertex alpha.
	Opacity float32

	scratch []float32
}

// New builds a skeleton instance and pose evaluator for data. The first
// declared animation starts looping.
func New(data *skeleton.Data, texture resources.TextureHandle) *Entity {
	e := &Entity{
		Data:     data,
		Skeleton: skeleton.NewSkeleton(data),
		State:    skeleton.NewAnimationState(data),
		Texture:  texture,
		Scale:    DefaultScale,
		Opacity:  1,
	}
	if len(data.Animations) > 0 {
		e.State.SetAnimation(data.Animations[0].Name, true)
	}
	e.Advance(0)
	return e
}

// Advance moves the animation forward by dt seconds and recomputes the pose.
// Distinct entities may advance concurrently.
func (e *Entity) Advance(dt float32) {
	e.State.Update(dt)
	e.State.Apply(e.Skeleton)
	e.Skeleton.UpdateWorldTransform()
}

// SetAnimation cuts to name on the only track. Unknown names report false and
// leave the current animation playing.
func (e *Entity) SetAnimation(name string, loop bool) bool {
	return e.State.SetAnimation(name, loop)
}

// AnimationNames lists the available animations in declaration order.
func (e *Entity) AnimationNames() []string {
	return e.Data.AnimationNames()
}

// Release hands the texture back. Safe to call more than once.
func (e *Entity) Release(r TextureReleaser) {
	if e.Texture.Valid() && r != nil {
		r.Release(e.Texture)
	}
	e.Texture = resources.InvalidTexture
}
