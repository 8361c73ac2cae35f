package skeleton

import (
	"github.com/spaghettifunk/aefr/engine/math"
)

/**
 * @brief Setup pose of a single bone.
 */
type BoneData struct {
	Index    int
	Name     string
	Parent   int // -1 for the root
	X, Y     float32
	Rotation float32
	ScaleX   float32
	ScaleY   float32
}

/**
 * @brief Setup pose of a draw slot.
 */
type SlotData struct {
	Index      int
	Name       string
	Bone       int
	Color      math.Color
	Attachment string
}

// Skin maps slot index and attachment name to an attachment.
type Skin struct {
	Name        string
	attachments map[int]map[string]Attachment
}

func newSkin(name string) *Skin {
	return &Skin{Name: name, attachments: make(map[int]map[string]Attachment)}
}

func (s *Skin) set(slot int, name string, a Attachment) {
	m, ok := s.attachments[slot]
	if !ok {
		m = make(map[string]Attachment)
		s.attachments[slot] = m
	}
	m[name] = a
}

// Attachment returns the attachment registered for slot under name.
func (s *Skin) Attachment(slot int, name string) (Attachment, bool) {
	a, ok := s.attachments[slot][name]
	return a, ok
}

/**
 * @brief The read-only skeleton definition. One Data is shared by every
 * entity created from the same file and is never mutated after parsing.
 */
type Data struct {
	Version    string
	Bones      []*BoneData
	Slots      []*SlotData
	Skins      []*Skin
	Animations []*Animation

	animations map[string]*Animation
}

// DefaultSkin returns the skin named "default" or the first declared one.
func (d *Data) DefaultSkin() *Skin {
	for _, s := range d.Skins {
		if s.Name == "default" {
			return s
		}
	}
	if len(d.Skins) > 0 {
		return d.Skins[0]
	}
	return nil
}

// FindAnimation is an exact, case-sensitive lookup.
func (d *Data) FindAnimation(name string) (*Animation, bool) {
	a, ok := d.animations[name]
	return a, ok
}

// AnimationNames lists animations in declaration order.
func (d *Data) AnimationNames() []string {
	names := make([]string, 0, len(d.Animations))
	for _, a := range d.Animations {
		names = append(names, a.Name)
	}
	return names
}

func (d *Data) findBone(name string) int {
	for _, b := range d.Bones {
		if b.Name == name {
			return b.Index
		}
	}
	return -1
}

func (d *Data) findSlot(name string) int {
	for _, s := range d.Slots {
		if s.Name == name {
			return s.Index
		}
	}
	return -1
}
