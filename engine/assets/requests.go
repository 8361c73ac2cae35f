package assets

import (
	"context"
	"fmt"

	"github.com/spaghettifunk/aefr/engine/bus"
	"github.com/spaghettifunk/aefr/engine/core"
)

// RequestEntity loads a character on its own goroutine and reports
// LoadSuccess, or a Log line on failure. Token travels back untouched.
func (am *AssetManager) RequestEntity(slot int, token uint64, path string) {
	am.pending.Add(1)
	go func() {
		defer am.pending.Done()

		ent, anims, files, err := am.loadEntity(context.Background(), path)
		if err != nil {
			am.countLoad("entity", "error")
			core.LogWarn("slot %d load failed: %s: %s", slot, path, err)
			am.sender.Send(bus.Log{Message: fmt.Sprintf("Load failed: %s: %s", path, err)})
			return
		}
		am.countLoad("entity", "ok")
		if !am.sender.Send(bus.LoadSuccess{Slot: slot, Token: token, Entity: ent, Animations: anims, Files: files}) {
			ent.Release(am.textures)
		}
	}()
}

// RequestAudio reads an audio file on its own goroutine and reports
// AudioReady. Decoding happens on the consumer.
func (am *AssetManager) RequestAudio(token uint64, path string) {
	am.pending.Add(1)
	go func() {
		defer am.pending.Done()

		data, err := am.ReadAudio(path)
		if err != nil {
			am.countLoad("audio", "error")
			am.sender.Send(bus.Log{Message: fmt.Sprintf("Failed to read audio file: %s: %s", path, err)})
			return
		}
		am.countLoad("audio", "ok")
		am.sender.Send(bus.AudioReady{Token: token, Path: path, Data: data})
	}()
}

// RequestBackground decodes and registers a background image on its own
// goroutine and reports BackgroundReady.
func (am *AssetManager) RequestBackground(token uint64, path string) {
	am.pending.Add(1)
	go func() {
		defer am.pending.Done()

		handle, err := am.LoadBackground(path)
		if err != nil {
			am.countLoad("background", "error")
			am.sender.Send(bus.Log{Message: fmt.Sprintf("BG load failed: %s: %s", path, err)})
			return
		}
		am.countLoad("background", "ok")
		if !am.sender.Send(bus.BackgroundReady{Token: token, Path: path, Texture: handle}) {
			am.textures.Release(handle)
		}
	}()
}
