package platform

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/spaghettifunk/aefr/engine/assets/loaders"
	"github.com/spaghettifunk/aefr/engine/core"
	"github.com/spaghettifunk/aefr/engine/resources"
)

const nameFontSize = 22

// textDrawer draws single lines of text at a top-left position.
type textDrawer interface {
	Draw(dst *ebiten.Image, s string, x, y float64, clr color.Color)
	Measure(s string) float64
	LineHeight() float64
}

type fontSet struct {
	name textDrawer
	body textDrawer
	mono textDrawer
}

func loadFonts(config FontConfig) *fontSet {
	fallback := &faceDrawer{face: text.NewGoXFace(basicfont.Face7x13)}
	fs := &fontSet{name: fallback, body: fallback, mono: fallback}

	size := config.Size
	if size <= 0 {
		size = 20
	}
	if src := loadSystemFont(config.Paths); src != nil {
		fs.name = &faceDrawer{face: &text.GoTextFace{Source: src, Size: nameFontSize}}
		fs.body = &faceDrawer{face: &text.GoTextFace{Source: src, Size: size}}
		fs.mono = &faceDrawer{face: &text.GoTextFace{Source: src, Size: size * 0.8}}
	} else {
		core.LogWarn("no system font found, CJK text will not render")
	}
	if config.Bitmap != "" {
		bf, err := loadBitmapFont(config.Bitmap)
		if err != nil {
			core.LogWarn("bitmap font %s: %s", config.Bitmap, err)
		} else {
			fs.body = bf
		}
	}
	return fs
}

func loadSystemFont(paths []string) *text.GoTextFaceSource {
	loader := &loaders.SystemFontLoader{}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		res, err := loader.Load(path, nil)
		if err != nil {
			core.LogWarn("font %s: %s", path, err)
			continue
		}
		data := res.Data.(*resources.SystemFontResourceData)
		sources, err := text.NewGoTextFaceSourcesFromCollection(bytes.NewReader(data.Binary))
		if err != nil || len(sources) == 0 {
			src, err := text.NewGoTextFaceSource(bytes.NewReader(data.Binary))
			if err != nil {
				core.LogWarn("font %s: %s", path, err)
				continue
			}
			sources = []*text.GoTextFaceSource{src}
		}
		face := ""
		if len(data.Faces) > 0 {
			face = data.Faces[0]
		}
		core.LogInfo("using font %s (%s)", path, face)
		return sources[0]
	}
	return nil
}

type faceDrawer struct {
	face text.Face
}

func (d *faceDrawer) Draw(dst *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, d.face, op)
}

func (d *faceDrawer) Measure(s string) float64 {
	w, _ := text.Measure(s, d.face, 0)
	return w
}

func (d *faceDrawer) LineHeight() float64 {
	m := d.face.Metrics()
	return m.HAscent + m.HDescent + m.HLineGap
}

type bitmapDrawer struct {
	data  *resources.BitmapFontResourceData
	pages map[int]*ebiten.Image
}

func loadBitmapFont(path string) (*bitmapDrawer, error) {
	res, err := (&loaders.BitmapFontLoader{}).Load(path, nil)
	if err != nil {
		return nil, err
	}
	data := res.Data.(*resources.BitmapFontResourceData)
	bd := &bitmapDrawer{data: data, pages: make(map[int]*ebiten.Image, len(data.Pages))}
	images := &loaders.ImageLoader{}
	for _, page := range data.Pages {
		img, err := images.Load(filepath.Join(filepath.Dir(path), page.File), nil)
		if err != nil {
			return nil, err
		}
		bd.pages[page.ID] = ebiten.NewImageFromImage(img.Data.(*resources.ImageResourceData).Image())
	}
	return bd, nil
}

func (d *bitmapDrawer) Draw(dst *ebiten.Image, s string, x, y float64, clr color.Color) {
	var prev rune
	for i, r := range []rune(s) {
		g, ok := d.data.Glyphs[r]
		if !ok {
			continue
		}
		if i > 0 {
			x += float64(d.data.Kernings[[2]rune{prev, r}])
		}
		prev = r
		page := d.pages[g.Page]
		if page == nil || g.Width == 0 || g.Height == 0 {
			x += float64(g.XAdvance)
			continue
		}
		sub := page.SubImage(image.Rect(g.X, g.Y, g.X+g.Width, g.Y+g.Height)).(*ebiten.Image)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(x+float64(g.XOffset), y+float64(g.YOffset))
		op.ColorScale.ScaleWithColor(clr)
		dst.DrawImage(sub, op)
		x += float64(g.XAdvance)
	}
}

func (d *bitmapDrawer) Measure(s string) float64 {
	w := 0.0
	var prev rune
	for i, r := range []rune(s) {
		if i > 0 {
			w += float64(d.data.Kernings[[2]rune{prev, r}])
		}
		prev = r
		w += float64(d.data.Glyphs[r].XAdvance)
	}
	return w
}

func (d *bitmapDrawer) LineHeight() float64 {
	return float64(d.data.LineHeight)
}

// wrap breaks s into lines no wider than width. Words are kept together where
// possible; text without spaces breaks between runes.
func wrap(d textDrawer, s string, width float64) []string {
	var lines []string
	line := []rune{}
	for _, r := range s {
		if r == '\n' {
			lines = append(lines, string(line))
			line = line[:0]
			continue
		}
		candidate := append(line, r)
		if len(line) > 0 && d.Measure(string(candidate)) > width {
			cut := len(line)
			for i := len(line) - 1; i > 0; i-- {
				if line[i] == ' ' {
					cut = i
					break
				}
			}
			lines = append(lines, string(line[:cut]))
			rest := append([]rune{}, line[cut:]...)
			if len(rest) > 0 && rest[0] == ' ' {
				rest = rest[1:]
			}
			line = append(rest, r)
			continue
		}
		line = candidate
	}
	return append(lines, string(line))
}
