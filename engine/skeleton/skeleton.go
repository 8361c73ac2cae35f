package skeleton

import (
	"github.com/spaghettifunk/aefr/engine/math"
)

/**
 * @brief A posed bone. Local values are written by animations, World is
 * recomputed by UpdateWorldTransform.
 */
type Bone struct {
	Data     *BoneData
	X, Y     float32
	Rotation float32
	ScaleX   float32
	ScaleY   float32
	World    math.Affine
}

func (b *Bone) setToSetupPose() {
	b.X = b.Data.X
	b.Y = b.Data.Y
	b.Rotation = b.Data.Rotation
	b.ScaleX = b.Data.ScaleX
	b.ScaleY = b.Data.ScaleY
}

/**
 * @brief A posed slot: current colour and attachment.
 */
type Slot struct {
	Data       *SlotData
	Color      math.Color
	Attachment Attachment
}

// Skeleton is the mutable pose of one entity.
type Skeleton struct {
	Data  *Data
	Bones []*Bone
	Slots []*Slot
	Skin  *Skin
}

func NewSkeleton(data *Data) *Skeleton {
	sk := &Skeleton{
		Data:  data,
		Bones: make([]*Bone, len(data.Bones)),
		Slots: make([]*Slot, len(data.Slots)),
		Skin:  data.DefaultSkin(),
	}
	for i, bd := range data.Bones {
		sk.Bones[i] = &Bone{Data: bd}
	}
	for i, sd := range data.Slots {
		sk.Slots[i] = &Slot{Data: sd}
	}
	sk.SetToSetupPose()
	sk.UpdateWorldTransform()
	return sk
}

// SetToSetupPose resets bones, slot colours and attachments.
func (sk *Skeleton) SetToSetupPose() {
	for _, b := range sk.Bones {
		b.setToSetupPose()
	}
	for _, s := range sk.Slots {
		s.Color = s.Data.Color
		sk.setAttachment(s, s.Data.Attachment)
	}
}

func (sk *Skeleton) setAttachment(s *Slot, name string) {
	s.Attachment = nil
	if name == "" || sk.Skin == nil {
		return
	}
	if a, ok := sk.Skin.Attachment(s.Data.Index, name); ok {
		s.Attachment = a
	}
}

// UpdateWorldTransform composes every bone with its parent. Bones are stored
// parent-first so a single pass is enough.
func (sk *Skeleton) UpdateWorldTransform() {
	for _, b := range sk.Bones {
		local := math.NewAffineTRS(b.X, b.Y, b.Rotation, b.ScaleX, b.ScaleY)
		if b.Data.Parent < 0 {
			b.World = local
			continue
		}
		b.World = sk.Bones[b.Data.Parent].World.Mul(local)
	}
}

// DrawOrder returns slots in the order they are painted.
func (sk *Skeleton) DrawOrder() []*Slot {
	return sk.Slots
}
