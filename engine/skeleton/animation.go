package skeleton

import (
	"github.com/spaghettifunk/aefr/engine/math"
)

type curveType int

const (
	curveLinear curveType = iota
	curveStepped
)

type keyframe struct {
	time   float32
	values [4]float32
	curve  curveType
}

type timelineKind int

const (
	timelineRotate timelineKind = iota
	timelineTranslate
	timelineScale
	timelineColor
)

// valueTimeline interpolates up to four floats for a bone or slot.
type valueTimeline struct {
	kind   timelineKind
	target int
	frames []keyframe
}

func (t *valueTimeline) sample(time float32) ([4]float32, bool) {
	if len(t.frames) == 0 || time < t.frames[0].time {
		return [4]float32{}, false
	}
	last := len(t.frames) - 1
	if time >= t.frames[last].time {
		return t.frames[last].values, true
	}
	i := 0
	for i < last && t.frames[i+1].time <= time {
		i++
	}
	a, b := t.frames[i], t.frames[i+1]
	if a.curve == curveStepped || b.time <= a.time {
		return a.values, true
	}
	p := (time - a.time) / (b.time - a.time)
	var out [4]float32
	for k := range out {
		out[k] = math.Lerp(a.values[k], b.values[k], p)
	}
	return out, true
}

func (t *valueTimeline) apply(sk *Skeleton, time float32) {
	v, ok := t.sample(time)
	if !ok {
		return
	}
	switch t.kind {
	case timelineRotate:
		b := sk.Bones[t.target]
		b.Rotation = b.Data.Rotation + v[0]
	case timelineTranslate:
		b := sk.Bones[t.target]
		b.X = b.Data.X + v[0]
		b.Y = b.Data.Y + v[1]
	case timelineScale:
		b := sk.Bones[t.target]
		b.ScaleX = b.Data.ScaleX * v[0]
		b.ScaleY = b.Data.ScaleY * v[1]
	case timelineColor:
		sk.Slots[t.target].Color = math.Color{R: v[0], G: v[1], B: v[2], A: v[3]}
	}
}

type attachmentKey struct {
	time float32
	name string
}

type attachmentTimeline struct {
	slot   int
	frames []attachmentKey
}

func (t *attachmentTimeline) apply(sk *Skeleton, time float32) {
	if len(t.frames) == 0 || time < t.frames[0].time {
		return
	}
	i := 0
	for i < len(t.frames)-1 && t.frames[i+1].time <= time {
		i++
	}
	sk.setAttachment(sk.Slots[t.slot], t.frames[i].name)
}

/**
 * @brief A named set of timelines. Duration is the time of the last key.
 */
type Animation struct {
	Name        string
	Duration    float32
	timelines   []*valueTimeline
	attachments []*attachmentTimeline
}

// Apply poses sk at time. Looping animations wrap around Duration.
func (a *Animation) Apply(sk *Skeleton, time float32, loop bool) {
	if loop && a.Duration > 0 {
		time = math.Mod(time, a.Duration)
	} else if time > a.Duration {
		time = a.Duration
	}
	for _, t := range a.timelines {
		t.apply(sk, time)
	}
	for _, t := range a.attachments {
		t.apply(sk, time)
	}
}
