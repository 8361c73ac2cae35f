/*
aefr opens the stage window: five character slots, a background, one music
track, a dialogue box and the command console.
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/aefr/engine"
	"github.com/spaghettifunk/aefr/engine/config"
	"github.com/spaghettifunk/aefr/engine/core"
	"github.com/spaghettifunk/aefr/engine/platform"
	"github.com/spaghettifunk/aefr/novel"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML settings file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		core.LogFatal("%s", err)
	}

	game, err := novel.New(cfg)
	if err != nil {
		core.LogFatal("%s", err)
	}

	e, err := engine.New(game.Game, platform.New())
	if err != nil {
		core.LogFatal("%s", err)
	}

	if err := e.Initialize(); err != nil {
		core.LogFatal("%s", err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// the window closes on the next tick
	go func() {
		<-sigCh
		e.Quit()
	}()

	runErr := e.Run()
	if err := e.Shutdown(); err != nil {
		core.LogError("%s", err)
	}
	if runErr != nil {
		core.LogFatal("%s", runErr)
	}
}
