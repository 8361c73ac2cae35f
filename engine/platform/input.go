package platform

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// consoleInput is the line editor behind the CMD window.
type consoleInput struct {
	open  bool
	line  []rune
	chars []rune
}

func (c *consoleInput) text() string {
	return string(c.line)
}

func repeating(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	return d == 1 || (d >= 30 && d%3 == 0)
}

func (c *consoleInput) update(p *Platform, loop Loop) {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		switch {
		case cmdButton.contains(x, y):
			c.open = !c.open
		case p.dialogueRect().contains(x, y):
			loop.Skip()
		}
	}
	if !c.open {
		return
	}

	c.chars = ebiten.AppendInputChars(c.chars[:0])
	c.line = append(c.line, c.chars...)

	if repeating(ebiten.KeyBackspace) && len(c.line) > 0 {
		c.line = c.line[:len(c.line)-1]
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		loop.Submit(string(c.line))
		c.line = c.line[:0]
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		c.open = false
	}
}
