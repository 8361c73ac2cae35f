package skeleton

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/spaghettifunk/aefr/engine/math"
)

var ErrInvalidSkeleton = errors.New("invalid skeleton json")

// ParseJSON reads a Spine JSON skeleton (3.8 and 4.x spellings). Attachment
// UVs are resolved through regions; a nil resolver maps every attachment onto
// the whole texture.
func ParseJSON(raw []byte, regions RegionResolver) (*Data, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: malformed document", ErrInvalidSkeleton)
	}
	root := gjson.ParseBytes(raw)
	data := &Data{
		Version:    root.Get("skeleton.spine").String(),
		animations: make(map[string]*Animation),
	}

	if err := parseBones(data, root.Get("bones")); err != nil {
		return nil, err
	}
	if err := parseSlots(data, root.Get("slots")); err != nil {
		return nil, err
	}
	if err := parseSkins(data, root.Get("skins"), regions); err != nil {
		return nil, err
	}
	if err := parseAnimations(data, root.Get("animations")); err != nil {
		return nil, err
	}
	return data, nil
}

func float(r gjson.Result, key string, def float32) float32 {
	v := r.Get(key)
	if !v.Exists() {
		return def
	}
	return float32(v.Float())
}

func parseColor(hex string) (math.Color, error) {
	if hex == "" {
		return math.NewColorWhite(), nil
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return math.Color{}, fmt.Errorf("%w: bad colour %q", ErrInvalidSkeleton, hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return math.Color{}, fmt.Errorf("%w: bad colour %q", ErrInvalidSkeleton, hex)
	}
	return math.Color{
		R: float32((v>>24)&0xff) / 255,
		G: float32((v>>16)&0xff) / 255,
		B: float32((v>>8)&0xff) / 255,
		A: float32(v&0xff) / 255,
	}, nil
}

func parseBones(data *Data, bones gjson.Result) error {
	var err error
	bones.ForEach(func(_, b gjson.Result) bool {
		bd := &BoneData{
			Index:    len(data.Bones),
			Name:     b.Get("name").String(),
			Parent:   -1,
			X:        float(b, "x", 0),
			Y:        float(b, "y", 0),
			Rotation: float(b, "rotation", 0),
			ScaleX:   float(b, "scaleX", 1),
			ScaleY:   float(b, "scaleY", 1),
		}
		if parent := b.Get("parent"); parent.Exists() {
			bd.Parent = data.findBone(parent.String())
			if bd.Parent < 0 {
				err = fmt.Errorf("%w: bone %q has unknown parent %q", ErrInvalidSkeleton, bd.Name, parent.String())
				return false
			}
		}
		data.Bones = append(data.Bones, bd)
		return true
	})
	if err == nil && len(data.Bones) == 0 {
		err = fmt.Errorf("%w: no bones", ErrInvalidSkeleton)
	}
	return err
}

func parseSlots(data *Data, slots gjson.Result) error {
	var err error
	slots.ForEach(func(_, s gjson.Result) bool {
		sd := &SlotData{
			Index:      len(data.Slots),
			Name:       s.Get("name").String(),
			Bone:       data.findBone(s.Get("bone").String()),
			Attachment: s.Get("attachment").String(),
		}
		if sd.Bone < 0 {
			err = fmt.Errorf("%w: slot %q has unknown bone %q", ErrInvalidSkeleton, sd.Name, s.Get("bone").String())
			return false
		}
		if sd.Color, err = parseColor(s.Get("color").String()); err != nil {
			return false
		}
		data.Slots = append(data.Slots, sd)
		return true
	})
	return err
}

func parseSkins(data *Data, skins gjson.Result, regions RegionResolver) error {
	var err error
	parseOne := func(name string, slots gjson.Result) bool {
		skin := newSkin(name)
		slots.ForEach(func(slotName, atts gjson.Result) bool {
			slot := data.findSlot(slotName.String())
			if slot < 0 {
				err = fmt.Errorf("%w: skin %q references unknown slot %q", ErrInvalidSkeleton, name, slotName.String())
				return false
			}
			atts.ForEach(func(key, value gjson.Result) bool {
				var a Attachment
				if a, err = parseAttachment(data, key.String(), value, regions); err != nil {
					return false
				}
				skin.set(slot, key.String(), a)
				return true
			})
			return err == nil
		})
		data.Skins = append(data.Skins, skin)
		return err == nil
	}

	if skins.IsArray() {
		// 3.8 and later
		skins.ForEach(func(_, s gjson.Result) bool {
			return parseOne(s.Get("name").String(), s.Get("attachments"))
		})
	} else {
		skins.ForEach(func(name, slots gjson.Result) bool {
			return parseOne(name.String(), slots)
		})
	}
	return err
}

func parseAttachment(data *Data, key string, v gjson.Result, regions RegionResolver) (Attachment, error) {
	name := key
	if n := v.Get("name"); n.Exists() {
		name = n.String()
	}
	path := name
	if p := v.Get("path"); p.Exists() {
		path = p.String()
	}
	kind := "region"
	if t := v.Get("type"); t.Exists() {
		kind = t.String()
	}
	if kind != "region" && kind != "mesh" {
		return &UnknownAttachment{name: name, Kind: kind}, nil
	}

	color, err := parseColor(v.Get("color").String())
	if err != nil {
		return nil, err
	}
	region := unitRegion
	if regions != nil {
		r, ok := regions.FindRegion(path)
		if !ok {
			return nil, fmt.Errorf("%w: region %q not found in atlas", ErrInvalidSkeleton, path)
		}
		region = r
	}

	if kind == "region" {
		return newRegionAttachment(name, path, color, regionSetup{
			x:        float(v, "x", 0),
			y:        float(v, "y", 0),
			rotation: float(v, "rotation", 0),
			scaleX:   float(v, "scaleX", 1),
			scaleY:   float(v, "scaleY", 1),
			width:    float(v, "width", 32),
			height:   float(v, "height", 32),
		}, region), nil
	}
	return parseMesh(data, name, path, color, v, region)
}

func floats(r gjson.Result) []float32 {
	arr := r.Array()
	out := make([]float32, len(arr))
	for i, f := range arr {
		out[i] = float32(f.Float())
	}
	return out
}

func parseMesh(data *Data, name, path string, color math.Color, v gjson.Result, region *TextureRegion) (*MeshAttachment, error) {
	regionUVs := floats(v.Get("uvs"))
	vertices := floats(v.Get("vertices"))
	if len(regionUVs)%2 != 0 {
		return nil, fmt.Errorf("%w: mesh %q has an odd uv count", ErrInvalidSkeleton, name)
	}
	count := len(regionUVs) / 2

	m := &MeshAttachment{
		name:       name,
		Path:       path,
		Color:      color,
		UVs:        make([]float32, len(regionUVs)),
		Vertices:   vertices,
		Weighted:   len(vertices) > len(regionUVs),
		HullLength: int(v.Get("hull").Int()),
	}
	for i := 0; i < len(regionUVs); i += 2 {
		m.UVs[i], m.UVs[i+1] = region.mapUV(regionUVs[i], regionUVs[i+1])
	}

	if m.Weighted {
		if err := validateWeights(data, name, vertices, count); err != nil {
			return nil, err
		}
	} else if len(vertices) != len(regionUVs) {
		return nil, fmt.Errorf("%w: mesh %q has %d vertex values for %d uvs", ErrInvalidSkeleton, name, len(vertices), len(regionUVs))
	}

	tris := v.Get("triangles").Array()
	if len(tris)%3 != 0 {
		return nil, fmt.Errorf("%w: mesh %q triangle list is not a multiple of 3", ErrInvalidSkeleton, name)
	}
	m.Triangles = make([]uint16, len(tris))
	for i, t := range tris {
		idx := t.Int()
		if idx < 0 || idx >= int64(count) {
			return nil, fmt.Errorf("%w: mesh %q triangle index %d out of range (%d vertices)", ErrInvalidSkeleton, name, idx, count)
		}
		m.Triangles[i] = uint16(idx)
	}
	return m, nil
}

func validateWeights(data *Data, name string, vertices []float32, count int) error {
	v := 0
	for i := 0; i < count; i++ {
		if v >= len(vertices) {
			return fmt.Errorf("%w: mesh %q weights end early", ErrInvalidSkeleton, name)
		}
		n := int(vertices[v])
		v++
		if n < 0 || v+n*4 > len(vertices) {
			return fmt.Errorf("%w: mesh %q weights end early", ErrInvalidSkeleton, name)
		}
		for j := 0; j < n; j++ {
			bone := int(vertices[v])
			if bone < 0 || bone >= len(data.Bones) {
				return fmt.Errorf("%w: mesh %q weighted to unknown bone %d", ErrInvalidSkeleton, name, bone)
			}
			v += 4
		}
	}
	if v != len(vertices) {
		return fmt.Errorf("%w: mesh %q has trailing weight data", ErrInvalidSkeleton, name)
	}
	return nil
}

func parseCurve(k gjson.Result) curveType {
	if k.Get("curve").String() == "stepped" {
		return curveStepped
	}
	return curveLinear
}

func parseAnimations(data *Data, animations gjson.Result) error {
	var err error
	animations.ForEach(func(name, body gjson.Result) bool {
		a := &Animation{Name: name.String()}
		if err = parseBoneTimelines(data, a, body.Get("bones")); err != nil {
			return false
		}
		if err = parseSlotTimelines(data, a, body.Get("slots")); err != nil {
			return false
		}
		data.Animations = append(data.Animations, a)
		data.animations[a.Name] = a
		return true
	})
	return err
}

func (a *Animation) extend(t float32) {
	if t > a.Duration {
		a.Duration = t
	}
}

func parseBoneTimelines(data *Data, a *Animation, bones gjson.Result) error {
	var err error
	bones.ForEach(func(boneName, timelines gjson.Result) bool {
		bone := data.findBone(boneName.String())
		if bone < 0 {
			err = fmt.Errorf("%w: animation %q targets unknown bone %q", ErrInvalidSkeleton, a.Name, boneName.String())
			return false
		}
		timelines.ForEach(func(kind, keys gjson.Result) bool {
			tl := &valueTimeline{target: bone}
			var read func(k gjson.Result) [4]float32
			switch kind.String() {
			case "rotate":
				tl.kind = timelineRotate
				read = func(k gjson.Result) [4]float32 {
					if k.Get("angle").Exists() {
						return [4]float32{float(k, "angle", 0)}
					}
					return [4]float32{float(k, "value", 0)}
				}
			case "translate":
				tl.kind = timelineTranslate
				read = func(k gjson.Result) [4]float32 {
					return [4]float32{float(k, "x", 0), float(k, "y", 0)}
				}
			case "scale":
				tl.kind = timelineScale
				read = func(k gjson.Result) [4]float32 {
					return [4]float32{float(k, "x", 1), float(k, "y", 1)}
				}
			default:
				// shear and the split x/y timelines are not posed
				return true
			}
			keys.ForEach(func(_, k gjson.Result) bool {
				f := keyframe{time: float(k, "time", 0), values: read(k), curve: parseCurve(k)}
				tl.frames = append(tl.frames, f)
				a.extend(f.time)
				return true
			})
			a.timelines = append(a.timelines, tl)
			return true
		})
		return true
	})
	return err
}

func parseSlotTimelines(data *Data, a *Animation, slots gjson.Result) error {
	var err error
	slots.ForEach(func(slotName, timelines gjson.Result) bool {
		slot := data.findSlot(slotName.String())
		if slot < 0 {
			err = fmt.Errorf("%w: animation %q targets unknown slot %q", ErrInvalidSkeleton, a.Name, slotName.String())
			return false
		}
		timelines.ForEach(func(kind, keys gjson.Result) bool {
			switch kind.String() {
			case "color", "rgba":
				tl := &valueTimeline{kind: timelineColor, target: slot}
				keys.ForEach(func(_, k gjson.Result) bool {
					var c math.Color
					if c, err = parseColor(k.Get("color").String()); err != nil {
						return false
					}
					f := keyframe{time: float(k, "time", 0), values: [4]float32{c.R, c.G, c.B, c.A}, curve: parseCurve(k)}
					tl.frames = append(tl.frames, f)
					a.extend(f.time)
					return true
				})
				a.timelines = append(a.timelines, tl)
			case "attachment":
				tl := &attachmentTimeline{slot: slot}
				keys.ForEach(func(_, k gjson.Result) bool {
					f := attachmentKey{time: float(k, "time", 0), name: k.Get("name").String()}
					tl.frames = append(tl.frames, f)
					a.extend(f.time)
					return true
				})
				a.attachments = append(a.attachments, tl)
			}
			return err == nil
		})
		return err == nil
	})
	return err
}
