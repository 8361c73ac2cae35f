package resources

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageKeepsPremultipliedPixels(t *testing.T) {
	pixels := []uint8{100, 50, 0, 128}

	straight := &ImageResourceData{Width: 1, Height: 1, Pixels: pixels}
	nrgba, ok := straight.Image().(*image.NRGBA)
	require.True(t, ok)
	assert.Equal(t, color.NRGBA{R: 100, G: 50, B: 0, A: 128}, nrgba.At(0, 0))

	pma := &ImageResourceData{Width: 1, Height: 1, Pixels: pixels, Premultiplied: true}
	rgba, ok := pma.Image().(*image.RGBA)
	require.True(t, ok, "premultiplied pages are not converted a second time")
	r, g, b, a := rgba.At(0, 0).RGBA()
	assert.Equal(t, []uint32{100 * 0x101, 50 * 0x101, 0, 128 * 0x101}, []uint32{r, g, b, a})
	assert.Equal(t, &pixels[0], &rgba.Pix[0], "pixels are wrapped, not copied")
}

func TestTextureHandleValid(t *testing.T) {
	assert.True(t, TextureHandle(0).Valid())
	assert.False(t, InvalidTexture.Valid())
}
