package skeleton

import (
	"github.com/spaghettifunk/aefr/engine/math"
)

type AttachmentType int

const (
	ATTACHMENT_TYPE_REGION AttachmentType = iota
	ATTACHMENT_TYPE_MESH
	ATTACHMENT_TYPE_UNKNOWN
)

// Attachment is something a slot can display.
type Attachment interface {
	Name() string
	Type() AttachmentType
}

/**
 * @brief A textured quad attached to a bone.
 */
type RegionAttachment struct {
	name  string
	Path  string
	Color math.Color
	// Local corners in bone space, ordered BL, UL, UR, BR.
	Offset [8]float32
	// Page UVs in the same corner order.
	UVs [8]float32
}

func (r *RegionAttachment) Name() string         { return r.name }
func (r *RegionAttachment) Type() AttachmentType { return ATTACHMENT_TYPE_REGION }

type regionSetup struct {
	x, y, rotation float32
	scaleX, scaleY float32
	width, height  float32
}

func newRegionAttachment(name, path string, color math.Color, s regionSetup, region *TextureRegion) *RegionAttachment {
	r := &RegionAttachment{name: name, Path: path, Color: color}

	regionWidth, regionHeight := s.width, s.height
	originalWidth, originalHeight := s.width, s.height
	var offsetX, offsetY float32
	if region != unitRegion && region.OriginalWidth > 0 && region.OriginalHeight > 0 {
		regionWidth, regionHeight = float32(region.Width), float32(region.Height)
		originalWidth, originalHeight = float32(region.OriginalWidth), float32(region.OriginalHeight)
		offsetX, offsetY = float32(region.OffsetX), float32(region.OffsetY)
	}

	var regionScaleX, regionScaleY float32
	if originalWidth != 0 {
		regionScaleX = s.width / originalWidth * s.scaleX
	}
	if originalHeight != 0 {
		regionScaleY = s.height / originalHeight * s.scaleY
	}
	localX := -s.width/2*s.scaleX + offsetX*regionScaleX
	localY := -s.height/2*s.scaleY + offsetY*regionScaleY
	localX2 := localX + regionWidth*regionScaleX
	localY2 := localY + regionHeight*regionScaleY

	cos := math.CosDeg(s.rotation)
	sin := math.SinDeg(s.rotation)
	corner := func(i int, lx, ly float32) {
		r.Offset[i*2] = lx*cos - ly*sin + s.x
		r.Offset[i*2+1] = lx*sin + ly*cos + s.y
	}
	corner(0, localX, localY)
	corner(1, localX, localY2)
	corner(2, localX2, localY2)
	corner(3, localX2, localY)

	units := [8]float32{0, 1, 0, 0, 1, 0, 1, 1}
	for i := 0; i < 8; i += 2 {
		r.UVs[i], r.UVs[i+1] = region.mapUV(units[i], units[i+1])
	}
	return r
}

// RegionTriangles is the index pattern of every region quad.
var RegionTriangles = []uint16{0, 1, 2, 2, 3, 0}

// ComputeWorldVertices writes the 4 transformed corners into out.
func (r *RegionAttachment) ComputeWorldVertices(bone *Bone, out []float32) {
	for i := 0; i < 8; i += 2 {
		out[i], out[i+1] = bone.World.Apply(r.Offset[i], r.Offset[i+1])
	}
}

/**
 * @brief An arbitrary triangle mesh, optionally weighted to several bones.
 */
type MeshAttachment struct {
	name      string
	Path      string
	Color     math.Color
	UVs       []float32
	Triangles []uint16
	// Unweighted meshes store x,y pairs. Weighted meshes store, per vertex,
	// a bone count followed by (bone, x, y, weight) groups.
	Vertices   []float32
	Weighted   bool
	HullLength int
}

func (m *MeshAttachment) Name() string         { return m.name }
func (m *MeshAttachment) Type() AttachmentType { return ATTACHMENT_TYPE_MESH }

// VertexCount is the number of UV pairs.
func (m *MeshAttachment) VertexCount() int {
	return len(m.UVs) / 2
}

// ComputeWorldVertices writes VertexCount() x,y pairs into out.
func (m *MeshAttachment) ComputeWorldVertices(sk *Skeleton, slot *Slot, out []float32) {
	count := m.VertexCount()
	if !m.Weighted {
		bone := sk.Bones[slot.Data.Bone]
		for i := 0; i < count; i++ {
			out[i*2], out[i*2+1] = bone.World.Apply(m.Vertices[i*2], m.Vertices[i*2+1])
		}
		return
	}
	v := 0
	for i := 0; i < count; i++ {
		n := int(m.Vertices[v])
		v++
		var wx, wy float32
		for j := 0; j < n; j++ {
			bone := sk.Bones[int(m.Vertices[v])]
			x, y := bone.World.Apply(m.Vertices[v+1], m.Vertices[v+2])
			weight := m.Vertices[v+3]
			wx += x * weight
			wy += y * weight
			v += 4
		}
		out[i*2], out[i*2+1] = wx, wy
	}
}

// UnknownAttachment stands in for kinds that produce no geometry
// (bounding boxes, clipping, paths, points).
type UnknownAttachment struct {
	name string
	Kind string
}

func (u *UnknownAttachment) Name() string         { return u.name }
func (u *UnknownAttachment) Type() AttachmentType { return ATTACHMENT_TYPE_UNKNOWN }
