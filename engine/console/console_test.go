package console

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spaghettifunk/aefr/engine/bus"
)

func TestParseCommands(t *testing.T) {
	tests := []struct {
		line string
		want bus.Command
	}{
		{`LOAD 0 "assets/hina"`, bus.RequestLoad{Slot: 0, Path: "assets/hina"}},
		{`load 3 chars/my hero`, bus.RequestLoad{Slot: 3, Path: "chars/my hero"}},
		{"ANIM 1 Walk", bus.SetAnimation{Slot: 1, Name: "Walk", Loop: true}},
		{"ANIM 1 Walk false", bus.SetAnimation{Slot: 1, Name: "Walk", Loop: false}},
		{"ANIM 1 Walk TRUE", bus.SetAnimation{Slot: 1, Name: "Walk", Loop: false}},
		{`BGM "music/theme.ogg"`, bus.PlayAudio{Path: "music/theme.ogg"}},
		{"stop", bus.StopAudio{}},
		{"TALK Alice|Factionless|Hello", bus.Dialogue{Name: "Alice", Affiliation: "Factionless", Text: "Hello"}},
		{"TALK Bob||Hi there, friend", bus.Dialogue{Name: "Bob", Affiliation: "", Text: "Hi there, friend"}},
		{"BG rooms/class.png", bus.LoadBackground{Path: "rooms/class.png"}},
		{"UNLOAD 2", bus.Unload{Slot: 2}},
		{"Stats", bus.ShowStats{}},
		{"  LOAD 4 x  ", bus.RequestLoad{Slot: 4, Path: "x"}},
		{"LOAD 7 hina", bus.RequestLoad{Slot: 7, Path: "hina"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			res := Parse(tt.line)
			assert.Equal(t, tt.want, res.Command)
			assert.Empty(t, res.Local)
		})
	}
}

func TestParseDropsMalformed(t *testing.T) {
	for _, line := range []string{
		"",
		"   ",
		"LOAD",
		"LOAD 0",
		"LOAD x path",
		"ANIM x Walk",
		"TALK Alice|Hello",
		"TALK a|b|c|d",
		"BGM",
		"BG \"\"",
		"STOP now",
		"UNLOAD",
		"DANCE 1",
		"LOAD -1 hina",
		"LOAD +1 hina",
		"ANIM -2 Walk",
		"UNLOAD -3",
		"UNLOAD 99999999999999999999",
	} {
		res := Parse(line)
		assert.Nil(t, res.Command, line)
		assert.Empty(t, res.Local, line)
	}
}

func TestParseLocalOutput(t *testing.T) {
	res := Parse("ANIM 1")
	assert.Nil(t, res.Command)
	assert.Equal(t, []string{AnimUsage}, res.Local)

	res = Parse("help")
	assert.Nil(t, res.Command)
	assert.Equal(t, HelpLines, res.Local)
}
