package engine

import (
	"github.com/spaghettifunk/aefr/engine/assets"
	"github.com/spaghettifunk/aefr/engine/config"
	"github.com/spaghettifunk/aefr/engine/core"
	"github.com/spaghettifunk/aefr/engine/platform"
	"github.com/spaghettifunk/aefr/engine/systems"
)

type ApplicationConfig struct {
	// Window starting width, if applicable.
	StartWidth uint32
	// Window starting height, if applicable.
	StartHeight uint32
	// The application name used in windowing, if applicable.
	Name string
	// Logic updates per second.
	TPS      int
	LogLevel core.LogLevel
	// Logical cores kept free of compute work.
	ReservedCores   int
	MaxTextureCount uint32
	Assets          assets.AssetManagerConfig
	Audio           systems.AudioSystemConfig
	Fonts           platform.FontConfig
}

// NewApplicationConfig maps the loaded settings onto the engine.
func NewApplicationConfig(cfg *config.Config) (*ApplicationConfig, error) {
	level, err := core.ParseLogLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return &ApplicationConfig{
		StartWidth:    uint32(cfg.Window.Width),
		StartHeight:   uint32(cfg.Window.Height),
		Name:          cfg.Window.Title,
		TPS:           cfg.Window.TPS,
		LogLevel:      level,
		ReservedCores: cfg.Scheduler.ReservedCores,
		Assets: assets.AssetManagerConfig{
			Root:      cfg.Assets.Root,
			HotReload: cfg.Assets.HotReload,
		},
		Audio: systems.AudioSystemConfig{
			Enabled:    cfg.Audio.Enabled,
			SampleRate: cfg.Audio.SampleRate,
		},
		Fonts: platform.FontConfig{
			Paths:  cfg.Fonts.Paths,
			Size:   cfg.Fonts.Size,
			Bitmap: cfg.Fonts.Bitmap,
		},
	}, nil
}
