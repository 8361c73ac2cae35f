package dialogue

import (
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// DefaultInterval is the reveal delay per character, in seconds.
const DefaultInterval = 0.03

const epsilon = 1e-9

// Typewriter reveals a line of dialogue one grapheme cluster at a time.
type Typewriter struct {
	Interval float64

	target  []string
	visible int
	timer   float64
}

func NewTypewriter(interval float64) *Typewriter {
	return &Typewriter{Interval: interval}
}

// Set replaces the line and restarts the reveal from zero.
func (t *Typewriter) Set(text string) {
	text = norm.NFC.String(text)
	t.target = t.target[:0]
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		t.target = append(t.target, g.Str())
	}
	t.visible = 0
	t.timer = 0
}

// Update accumulates dt and reveals one character per elapsed interval,
// catching up after long frames. It reports whether anything was revealed.
func (t *Typewriter) Update(dt float64) bool {
	if !t.Revealing() {
		return false
	}
	if t.Interval <= 0 {
		t.visible = len(t.target)
		return true
	}
	before := t.visible
	t.timer += dt
	for t.visible < len(t.target) && t.timer >= t.Interval-epsilon {
		t.visible++
		t.timer -= t.Interval
	}
	if !t.Revealing() {
		t.timer = 0
	}
	return t.visible != before
}

// Skip reveals the rest of the line. It reports false when nothing was left.
func (t *Typewriter) Skip() bool {
	if !t.Revealing() {
		return false
	}
	t.visible = len(t.target)
	t.timer = 0
	return true
}

// Revealing is true while part of the line is still hidden.
func (t *Typewriter) Revealing() bool {
	return t.visible < len(t.target)
}

// Visible returns the revealed prefix.
func (t *Typewriter) Visible() string {
	return strings.Join(t.target[:t.visible], "")
}

// Text returns the whole normalised line.
func (t *Typewriter) Text() string {
	return strings.Join(t.target, "")
}

// VisibleCount and Len count grapheme clusters.
func (t *Typewriter) VisibleCount() int { return t.visible }
func (t *Typewriter) Len() int          { return len(t.target) }
