package platform

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/spaghettifunk/aefr/engine/resources"
)

type imageBackend struct{}

func (imageBackend) Create(name string, img *resources.ImageResourceData) (interface{}, error) {
	if img.Width == 0 || img.Height == 0 {
		return nil, fmt.Errorf("texture %s has no pixels", name)
	}
	return ebiten.NewImageFromImage(img.Image()), nil
}

func (imageBackend) Destroy(internal interface{}) {
	if img, ok := internal.(*ebiten.Image); ok {
		img.Deallocate()
	}
}

func (p *Platform) image(handle resources.TextureHandle) *ebiten.Image {
	if p.textures == nil || !handle.Valid() {
		return nil
	}
	tex, ok := p.textures.Get(handle)
	if !ok {
		return nil
	}
	img, _ := tex.InternalData.(*ebiten.Image)
	return img
}
