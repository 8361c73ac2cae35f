package bus

import (
	"github.com/spaghettifunk/aefr/engine/entity"
	"github.com/spaghettifunk/aefr/engine/resources"
)

// Command is anything the stage knows how to handle. Commands are told apart
// by their concrete type.
type Command interface {
	Kind() string
}

// Dialogue replaces the speaker and restarts the typewriter.
type Dialogue struct {
	Name        string
	Affiliation string
	Text        string
}

// RequestLoad asks for an entity to be loaded into a slot.
type RequestLoad struct {
	Slot int
	Path string
}

// LoadSuccess carries a fully built entity back to the stage. Token is the
// slot token that was current when the load was requested. Files lists the
// resolved atlas, skeleton and page paths the entity was built from.
type LoadSuccess struct {
	Slot       int
	Token      uint64
	Entity     *entity.Entity
	Animations []string
	Files      []string
}

// LoadBackground asks for a full-screen background image.
type LoadBackground struct {
	Path string
}

// BackgroundReady carries a registered background texture.
type BackgroundReady struct {
	Token   uint64
	Path    string
	Texture resources.TextureHandle
}

// PlayAudio asks for a looping background track.
type PlayAudio struct {
	Path string
}

// AudioReady carries the raw bytes of an audio file.
type AudioReady struct {
	Token uint64
	Path  string
	Data  []byte
}

// StopAudio stops the current track.
type StopAudio struct{}

// SetAnimation switches the animation of a loaded slot.
type SetAnimation struct {
	Slot int
	Name string
	Loop bool
}

// Log appends a line to the console log.
type Log struct {
	Message string
}

// Unload clears a slot.
type Unload struct {
	Slot int
}

// ShowStats prints the metrics summary to the console log.
type ShowStats struct{}

func (Dialogue) Kind() string        { return "Dialogue" }
func (RequestLoad) Kind() string     { return "RequestLoad" }
func (LoadSuccess) Kind() string     { return "LoadSuccess" }
func (LoadBackground) Kind() string  { return "LoadBackground" }
func (BackgroundReady) Kind() string { return "BackgroundReady" }
func (PlayAudio) Kind() string       { return "PlayAudio" }
func (AudioReady) Kind() string      { return "AudioReady" }
func (StopAudio) Kind() string       { return "StopAudio" }
func (SetAnimation) Kind() string    { return "SetAnimation" }
func (Log) Kind() string             { return "Log" }
func (Unload) Kind() string          { return "Unload" }
func (ShowStats) Kind() string       { return "ShowStats" }
