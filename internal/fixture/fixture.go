// Package fixture writes small on-disk characters for tests.
package fixture

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const Atlas = `
%s.png
size: 64, 32
format: RGBA8888
filter: Linear,Linear
repeat: none
body
  rotate: false
  xy: 0, 0
  size: 32, 32
  orig: 32, 32
  offset: 0, 0
  index: -1
face
  rotate: true
  xy: 32, 0
  size: 16, 32
  orig: 16, 32
  offset: 0, 0
  index: -1
`

const Skeleton = `{
  "skeleton": {"spine": "3.8.99", "width": 32, "height": 64},
  "bones": [
    {"name": "root"},
    {"name": "head", "parent": "root", "y": 32}
  ],
  "slots": [
    {"name": "body", "bone": "root", "attachment": "body"},
    {"name": "face", "bone": "head", "color": "ffffff80", "attachment": "face"}
  ],
  "skins": [{
    "name": "default",
    "attachments": {
      "body": {"body": {"x": 0, "y": 16, "width": 32, "height": 32}},
      "face": {"face": {"type": "mesh", "uvs": [0,1, 0,0, 1,0], "triangles": [0,1,2], "vertices": [-8,0, -8,16, 8,16], "hull": 3}}
    }
  }],
  "animations": {
    "Idle": {"bones": {"head": {"rotate": [{"time": 0, "angle": 0}, {"time": 1, "angle": 10}]}}},
    "Walk": {"bones": {"root": {"translate": [{"time": 0, "x": 0}, {"time": 0.5, "x": 4}]}}}
  }
}`

// AnimationNames matches the declaration order in Skeleton.
var AnimationNames = []string{"Idle", "Walk"}

// Character writes <dir>/<name>.atlas, .png and .json and returns the path
// without extension.
func Character(t testing.TB, dir, name string) string {
	t.Helper()
	base := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(base+".atlas", []byte(fmt.Sprintf(Atlas, name)), 0o644))
	require.NoError(t, os.WriteFile(base+".json", []byte(Skeleton), 0o644))
	Image(t, base+".png", 64, 32)
	return base
}

// Image writes a solid PNG of the given size.
func Image(t testing.TB, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

// File writes raw bytes.
func File(t testing.TB, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, data, 0o644))
}
