package loaders

import (
	"os"

	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"github.com/spaghettifunk/aefr/engine/resources"
)

// SystemFontLoader reads a TrueType/OpenType font or collection (.ttc) and
// lists the faces it contains.
type SystemFontLoader struct{}

func (fl *SystemFontLoader) Load(path string, params interface{}) (*resources.Resource, error) {
	fontBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	collection, err := opentype.ParseCollection(fontBytes)
	if err != nil {
		return nil, err
	}

	rd := &resources.SystemFontResourceData{Binary: fontBytes}
	var buf sfnt.Buffer
	for i := 0; i < collection.NumFonts(); i++ {
		f, err := collection.Font(i)
		if err != nil {
			return nil, err
		}
		name, err := f.Name(&buf, sfnt.NameIDFull)
		if err != nil {
			name = ""
		}
		rd.Faces = append(rd.Faces, name)
	}

	return &resources.Resource{
		Name:     path,
		FullPath: path,
		DataSize: uint64(len(fontBytes)),
		Data:     rd,
	}, nil
}

func (fl *SystemFontLoader) Unload(res *resources.Resource) error {
	res.Data = nil
	return nil
}
