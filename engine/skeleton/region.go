package skeleton

/**
 * @brief A sub-rectangle of an atlas page, in normalised texture space.
 */
type TextureRegion struct {
	Name string
	// U, V is the top-left corner, U2, V2 the bottom-right corner of the
	// packed rectangle.
	U, V, U2, V2 float32
	// Rotated regions are stored turned 90 degrees in the page.
	Rotate bool
	// Unrotated size of the packed pixels.
	Width, Height int
	// Size before whitespace stripping and the offset of the packed pixels
	// inside it, measured from the bottom-left.
	OriginalWidth, OriginalHeight int
	OffsetX, OffsetY              int
}

// RegionResolver finds atlas regions by attachment path.
type RegionResolver interface {
	FindRegion(name string) (*TextureRegion, bool)
}

// mapUV maps a coordinate of the unrotated image (0..1, v pointing down) into
// page space.
func (r *TextureRegion) mapUV(ru, rv float32) (float32, float32) {
	w := r.U2 - r.U
	h := r.V2 - r.V
	if r.Rotate {
		return r.U + rv*w, r.V + h - ru*h
	}
	return r.U + ru*w, r.V + rv*h
}

var unitRegion = &TextureRegion{U: 0, V: 0, U2: 1, V2: 1}
