package platform

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/spaghettifunk/aefr/engine/entity"
	"github.com/spaghettifunk/aefr/engine/renderer"
	"github.com/spaghettifunk/aefr/engine/resources"
)

const (
	dialogueHeight = 160
	dialogueMargin = 20
	textPadding    = 20
)

var (
	dialogueFill = color.RGBA{0, 0, 0, 190}
	panelBorder  = color.RGBA{200, 200, 200, 255}
	consoleFill  = color.RGBA{20, 20, 28, 230}
	buttonFill   = color.RGBA{60, 60, 70, 255}
	nameColor    = color.RGBA{255, 215, 120, 255}
)

// cmdButton is the screen rectangle toggling the console.
var cmdButton = rect{x: 10, y: 10, w: 60, h: 40}

type rect struct {
	x, y, w, h float32
}

func (r rect) contains(x, y int) bool {
	fx, fy := float32(x), float32(y)
	return fx >= r.x && fx < r.x+r.w && fy >= r.y && fy < r.y+r.h
}

func (p *Platform) dialogueRect() rect {
	w, h := float32(p.config.Width), float32(p.config.Height)
	return rect{x: dialogueMargin, y: h - dialogueHeight - dialogueMargin, w: w - 2*dialogueMargin, h: dialogueHeight}
}

func (p *Platform) consoleRect() rect {
	w, h := float32(p.config.Width), float32(p.config.Height)
	return rect{x: cmdButton.x, y: cmdButton.y + cmdButton.h + 10, w: w * 0.5, h: h * 0.5}
}

// painter draws render packets onto the Ebitengine screen.
type painter struct {
	p        *Platform
	screen   *ebiten.Image
	vertices []ebiten.Vertex
}

func (pt *painter) BeginFrame(deltaTime float64) error {
	if pt.screen == nil {
		return fmt.Errorf("no screen to draw on")
	}
	return nil
}

func (pt *painter) EndFrame(deltaTime float64) error {
	return nil
}

// DrawBackground stretches the texture over the whole screen.
func (pt *painter) DrawBackground(texture resources.TextureHandle) {
	img := pt.p.image(texture)
	if img == nil {
		return
	}
	b := img.Bounds()
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.GeoM.Scale(float64(pt.p.config.Width)/float64(b.Dx()), float64(pt.p.config.Height)/float64(b.Dy()))
	pt.screen.DrawImage(img, op)
}

// DrawMesh forwards one entity's triangles. Vertex colours are already
// premultiplied.
func (pt *painter) DrawMesh(mesh *entity.MeshData) {
	img := pt.p.image(mesh.Texture)
	if img == nil {
		return
	}
	b := img.Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())

	if cap(pt.vertices) < len(mesh.Vertices) {
		pt.vertices = make([]ebiten.Vertex, len(mesh.Vertices))
	}
	vs := pt.vertices[:len(mesh.Vertices)]
	for i, v := range mesh.Vertices {
		vs[i] = ebiten.Vertex{
			DstX:   v.Position.X,
			DstY:   v.Position.Y,
			SrcX:   v.UV.X * w,
			SrcY:   v.UV.Y * h,
			ColorR: float32(v.Color.R) / 255,
			ColorG: float32(v.Color.G) / 255,
			ColorB: float32(v.Color.B) / 255,
			ColorA: float32(v.Color.A) / 255,
		}
	}
	op := &ebiten.DrawTrianglesOptions{
		ColorScaleMode: ebiten.ColorScaleModePremultipliedAlpha,
		Filter:         ebiten.FilterLinear,
	}
	pt.screen.DrawTriangles(vs, mesh.Indices, img, op)
}

// DrawDialogue paints the box along the bottom edge with a
// "Name [Affiliation]" header.
func (pt *painter) DrawDialogue(d *renderer.DialoguePacket) {
	fonts := pt.p.fonts
	r := pt.p.dialogueRect()
	vector.DrawFilledRect(pt.screen, r.x, r.y, r.w, r.h, dialogueFill, false)
	vector.StrokeRect(pt.screen, r.x, r.y, r.w, r.h, 2, panelBorder, false)

	x := float64(r.x + textPadding)
	y := float64(r.y + 12)
	if d.Name != "" {
		fonts.name.Draw(pt.screen, fmt.Sprintf("%s [%s]", d.Name, d.Affiliation), x, y, nameColor)
		y += fonts.name.LineHeight() + 6
	}
	for _, line := range wrap(fonts.body, d.Text, float64(r.w-2*textPadding)) {
		if y+fonts.body.LineHeight() > float64(r.y+r.h) {
			break
		}
		fonts.body.Draw(pt.screen, line, x, y, color.White)
		y += fonts.body.LineHeight()
	}
}

// DrawConsole paints the CMD button and, when open, the console window with
// as many trailing log lines as fit above the input line.
func (pt *painter) DrawConsole(lines []string) {
	fonts := pt.p.fonts
	vector.DrawFilledRect(pt.screen, cmdButton.x, cmdButton.y, cmdButton.w, cmdButton.h, buttonFill, false)
	vector.StrokeRect(pt.screen, cmdButton.x, cmdButton.y, cmdButton.w, cmdButton.h, 1, panelBorder, false)
	fonts.mono.Draw(pt.screen, "CMD", float64(cmdButton.x+12), float64(cmdButton.y+10), color.White)

	if !pt.p.input.open {
		return
	}
	r := pt.p.consoleRect()
	vector.DrawFilledRect(pt.screen, r.x, r.y, r.w, r.h, consoleFill, false)
	vector.StrokeRect(pt.screen, r.x, r.y, r.w, r.h, 1, panelBorder, false)

	lh := fonts.mono.LineHeight()
	x := float64(r.x + 8)
	inputY := float64(r.y+r.h) - lh - 8
	fonts.mono.Draw(pt.screen, "> "+pt.p.input.text()+"_", x, inputY, color.White)

	visible := int((inputY - float64(r.y) - 8) / lh)
	if visible > len(lines) {
		visible = len(lines)
	}
	y := inputY - float64(visible)*lh
	for _, line := range lines[len(lines)-visible:] {
		fonts.mono.Draw(pt.screen, line, x, y, color.RGBA{190, 230, 190, 255})
		y += lh
	}
}
