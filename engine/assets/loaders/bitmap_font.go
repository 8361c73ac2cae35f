package loaders

import (
	"github.com/fzipp/bmfont"

	"github.com/spaghettifunk/aefr/engine/resources"
)

// BitmapFontLoader imports AngelCode .fnt descriptors.
type BitmapFontLoader struct{}

func (fl *BitmapFontLoader) Load(path string, params interface{}) (*resources.Resource, error) {
	rd, err := fl.importFNTFile(path)
	if err != nil {
		return nil, err
	}
	return &resources.Resource{
		Name:     rd.Face,
		FullPath: path,
		Data:     rd,
	}, nil
}

func (fl *BitmapFontLoader) Unload(res *resources.Resource) error {
	if res.Data != nil {
		data := res.Data.(*resources.BitmapFontResourceData)
		data.Glyphs = nil
		data.Kernings = nil
		data.Pages = nil
		res.Data = nil
		res.FullPath = ""
	}
	return nil
}

func (fl *BitmapFontLoader) importFNTFile(path string) (*resources.BitmapFontResourceData, error) {
	font, err := bmfont.Load(path)
	if err != nil {
		return nil, err
	}

	out := &resources.BitmapFontResourceData{
		Face:       font.Descriptor.Info.Face,
		Size:       int(font.Descriptor.Info.Size),
		LineHeight: int(font.Descriptor.Common.LineHeight),
		Baseline:   int(font.Descriptor.Common.Base),
		Glyphs:     make(map[rune]resources.FontGlyph, len(font.Descriptor.Chars)),
		Kernings:   make(map[[2]rune]int, len(font.Descriptor.Kerning)),
	}

	for _, p := range font.Descriptor.Pages {
		out.Pages = append(out.Pages, resources.BitmapFontPage{ID: int(p.ID), File: p.File})
	}

	for _, g := range font.Descriptor.Chars {
		out.Glyphs[rune(g.ID)] = resources.FontGlyph{
			X:        int(g.X),
			Y:        int(g.Y),
			Width:    int(g.Width),
			Height:   int(g.Height),
			XOffset:  int(g.XOffset),
			YOffset:  int(g.YOffset),
			XAdvance: int(g.XAdvance),
			Page:     int(g.Page),
		}
	}

	for p, k := range font.Descriptor.Kerning {
		out.Kernings[[2]rune{rune(p.First), rune(p.Second)}] = int(k.Amount)
	}

	return out, nil
}
