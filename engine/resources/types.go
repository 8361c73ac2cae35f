package resources

import (
	"image"
	"math"
)

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Text resource type. */
	ResourceTypeText ResourceType = iota
	/** @brief Binary resource type (audio tracks). */
	ResourceTypeBinary
	/** @brief Image resource type. */
	ResourceTypeImage
	/** @brief Texture atlas manifest. */
	ResourceTypeAtlas
	/** @brief Skeleton definition. */
	ResourceTypeSkeleton
	/** @brief Bitmap font resource type. */
	ResourceTypeBitmapFont
	/** @brief System font resource type. */
	ResourceTypeSystemFont
	/** @brief No known type. */
	ResourceTypeNone
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeText:
		return "text"
	case ResourceTypeBinary:
		return "binary"
	case ResourceTypeImage:
		return "image"
	case ResourceTypeAtlas:
		return "atlas"
	case ResourceTypeSkeleton:
		return "skeleton"
	case ResourceTypeBitmapFont:
		return "bitmap_font"
	case ResourceTypeSystemFont:
		return "system_font"
	default:
		return "none"
	}
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The name of the resource. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	/** @brief The size of the resource data in bytes. */
	DataSize uint64
	/** @brief The resource data. */
	Data interface{}
}

/**
 * @brief A structure to hold image resource data, always RGBA8.
 */
type ImageResourceData struct {
	/** @brief The width of the image. */
	Width uint32
	/** @brief The height of the image. */
	Height uint32
	/** @brief RGBA pixels, row-major. */
	Pixels []uint8
	/** @brief Pixels already carry RGB multiplied by alpha (atlas "pma: true"). */
	Premultiplied bool
}

// Image wraps the pixels without copying: *image.RGBA when they are already
// premultiplied, *image.NRGBA otherwise.
func (d *ImageResourceData) Image() image.Image {
	rect := image.Rect(0, 0, int(d.Width), int(d.Height))
	if d.Premultiplied {
		return &image.RGBA{Pix: d.Pixels, Stride: int(d.Width) * 4, Rect: rect}
	}
	return &image.NRGBA{Pix: d.Pixels, Stride: int(d.Width) * 4, Rect: rect}
}

/** @brief Parsed font collection and the face names it offers. */
type SystemFontResourceData struct {
	Faces  []string
	Binary []byte
}

/** @brief A single glyph of a bitmap font page. */
type FontGlyph struct {
	X, Y          int
	Width, Height int
	XOffset       int
	YOffset       int
	XAdvance      int
	Page          int
}

/** @brief A bitmap font page image. */
type BitmapFontPage struct {
	ID   int
	File string
}

/** @brief Bitmap font descriptor converted from an AngelCode .fnt file. */
type BitmapFontResourceData struct {
	Face       string
	Size       int
	LineHeight int
	Baseline   int
	Pages      []BitmapFontPage
	Glyphs     map[rune]FontGlyph
	Kernings   map[[2]rune]int
}

// TextureHandle identifies a texture in the registry.
type TextureHandle uint32

/** @brief Marks a handle that refers to no texture. */
const InvalidTexture TextureHandle = math.MaxUint32

func (h TextureHandle) Valid() bool {
	return h != InvalidTexture
}

/**
 * @brief Registry entry for an uploaded texture.
 */
type Texture struct {
	Handle TextureHandle
	/** @brief Unique name, also used as the key in the backend. */
	Name   string
	Source string
	Width  uint32
	Height uint32
	/** @brief Backend-specific object (an *ebiten.Image for the game host). */
	InternalData interface{}
}
