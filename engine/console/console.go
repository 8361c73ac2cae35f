// Package console turns lines typed into the in-app console into commands.
package console

import (
	"strconv"
	"strings"

	"github.com/spaghettifunk/aefr/engine/bus"
)

// HelpLines is printed for HELP.
var HelpLines = []string{
	"Commands:",
	"  ANIM <0-4> <anim_name> [true/false]",
	"  BGM <path_to_audio> | STOP",
	"  LOAD <0-4> <path> | BG <path>",
	"  UNLOAD <0-4> | STATS",
	"  TALK <name>|<aff>|<msg>",
}

const AnimUsage = "Usage: ANIM <slot> <anim_name> [true/false]"

// Result is what a submitted line produced: at most one command for the bus
// and any lines to append to the console log directly.
type Result struct {
	Command bus.Command
	Local   []string
}

func stripQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, "")
}

// Parse interprets one console line. Keywords are case-insensitive; anything
// malformed yields an empty Result.
func Parse(line string) Result {
	input := strings.TrimSpace(line)
	if input == "" {
		return Result{}
	}
	keyword, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimLeft(rest, " ")

	switch strings.ToUpper(keyword) {
	case "LOAD":
		slotStr, path, ok := strings.Cut(rest, " ")
		if !ok {
			return Result{}
		}
		slot, ok := parseSlot(slotStr)
		path = strings.TrimSpace(stripQuotes(path))
		if !ok || path == "" {
			return Result{}
		}
		return Result{Command: bus.RequestLoad{Slot: slot, Path: path}}

	case "ANIM":
		args := strings.Fields(rest)
		if len(args) < 2 {
			return Result{Local: []string{AnimUsage}}
		}
		slot, ok := parseSlot(args[0])
		if !ok {
			return Result{}
		}
		loop := len(args) < 3 || args[2] == "true"
		return Result{Command: bus.SetAnimation{Slot: slot, Name: args[1], Loop: loop}}

	case "BGM":
		path := strings.TrimSpace(stripQuotes(rest))
		if path == "" {
			return Result{}
		}
		return Result{Command: bus.PlayAudio{Path: path}}

	case "STOP":
		if rest != "" {
			return Result{}
		}
		return Result{Command: bus.StopAudio{}}

	case "TALK":
		fields := strings.Split(rest, "|")
		if len(fields) != 3 {
			return Result{}
		}
		return Result{Command: bus.Dialogue{Name: fields[0], Affiliation: fields[1], Text: fields[2]}}

	case "BG":
		path := strings.TrimSpace(stripQuotes(rest))
		if path == "" {
			return Result{}
		}
		return Result{Command: bus.LoadBackground{Path: path}}

	case "UNLOAD":
		slot, ok := parseSlot(strings.TrimSpace(rest))
		if !ok {
			return Result{}
		}
		return Result{Command: bus.Unload{Slot: slot}}

	case "STATS":
		return Result{Command: bus.ShowStats{}}

	case "HELP":
		return Result{Local: append([]string(nil), HelpLines...)}
	}
	return Result{}
}

// parseSlot accepts unsigned decimal indices only. Range checks against the
// slot count happen on the stage.
func parseSlot(s string) (int, bool) {
	v, err := strconv.ParseUint(s, 10, 31)
	if err != nil {
		return 0, false
	}
	return int(v), true
}
