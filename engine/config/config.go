// Package config loads the runtime settings: defaults, then an optional TOML
// file, then AEFR_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

const EnvPrefix = "AEFR_"

var ErrInvalidConfig = errors.New("invalid configuration")

type Window struct {
	Width  int    `toml:"width" env:"WIDTH"`
	Height int    `toml:"height" env:"HEIGHT"`
	Title  string `toml:"title" env:"TITLE"`
	TPS    int    `toml:"tps" env:"TPS"`
}

type Log struct {
	Level string `toml:"level" env:"LEVEL"`
}

type Dialogue struct {
	RevealInterval float64 `toml:"reveal_interval" env:"REVEAL_INTERVAL"`
	Speaker        string  `toml:"speaker" env:"SPEAKER"`
	Affiliation    string  `toml:"affiliation" env:"AFFILIATION"`
	Greeting       string  `toml:"greeting" env:"GREETING"`
}

type Scheduler struct {
	ReservedCores int `toml:"reserved_cores" env:"RESERVED_CORES"`
}

type Stage struct {
	DefaultScale float32 `toml:"default_scale" env:"DEFAULT_SCALE"`
	BaseX        float32 `toml:"base_x" env:"BASE_X"`
	SpacingX     float32 `toml:"spacing_x" env:"SPACING_X"`
	BaselineY    float32 `toml:"baseline_y" env:"BASELINE_Y"`
	// Seconds a freshly loaded character takes to fade in. Zero disables it.
	FadeIn float32 `toml:"fade_in" env:"FADE_IN"`
}

type Assets struct {
	Root      string `toml:"root" env:"ROOT"`
	HotReload bool   `toml:"hot_reload" env:"HOT_RELOAD"`
}

type Audio struct {
	Enabled    bool `toml:"enabled" env:"ENABLED"`
	SampleRate int  `toml:"sample_rate" env:"SAMPLE_RATE"`
}

type Fonts struct {
	Paths  []string `toml:"paths" env:"PATHS" envSeparator:","`
	Size   float64  `toml:"size" env:"SIZE"`
	Bitmap string   `toml:"bitmap" env:"BITMAP"`
}

type Config struct {
	Window    Window    `toml:"window" envPrefix:"WINDOW_"`
	Log       Log       `toml:"log" envPrefix:"LOG_"`
	Dialogue  Dialogue  `toml:"dialogue" envPrefix:"DIALOGUE_"`
	Scheduler Scheduler `toml:"scheduler" envPrefix:"SCHEDULER_"`
	Stage     Stage     `toml:"stage" envPrefix:"STAGE_"`
	Assets    Assets    `toml:"assets" envPrefix:"ASSETS_"`
	Audio     Audio     `toml:"audio" envPrefix:"AUDIO_"`
	Fonts     Fonts     `toml:"fonts" envPrefix:"FONTS_"`
}

func Default() Config {
	return Config{
		Window: Window{Width: 1280, Height: 720, Title: "AEFR", TPS: 60},
		Log:    Log{Level: "info"},
		Dialogue: Dialogue{
			RevealInterval: 0.03,
			Speaker:        "System",
			Affiliation:    "AEFR",
			Greeting:       "AEFR v0.7 Ultimate Ready.\nAudio & Animation systems online.",
		},
		Scheduler: Scheduler{ReservedCores: 2},
		Stage: Stage{
			DefaultScale: 0.5,
			BaseX:        200,
			SpacingX:     220,
			BaselineY:    720,
			FadeIn:       0,
		},
		Assets: Assets{Root: "assets"},
		Audio:  Audio{Enabled: true, SampleRate: 44100},
		Fonts: Fonts{
			Paths: []string{
				"/system/fonts/NotoSansCJK-Regular.ttc",
				`C:\Windows\Fonts\msyh.ttc`,
				"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
			},
			Size: 20,
		},
	}
}

// Load builds the configuration. An empty path skips the file layer.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := Decode(raw, &cfg); err != nil {
			return nil, err
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Decode overlays TOML onto cfg. Unknown keys are rejected.
func Decode(raw []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return fmt.Errorf("decode config at %d:%d: %w", row, col, err)
		}
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	var problems []string
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		problems = append(problems, "window size must be positive")
	}
	if c.Window.TPS <= 0 {
		problems = append(problems, "window.tps must be positive")
	}
	if c.Dialogue.RevealInterval < 0 {
		problems = append(problems, "dialogue.reveal_interval must not be negative")
	}
	if c.Scheduler.ReservedCores < 0 {
		problems = append(problems, "scheduler.reserved_cores must not be negative")
	}
	if c.Stage.DefaultScale <= 0 {
		problems = append(problems, "stage.default_scale must be positive")
	}
	if c.Stage.FadeIn < 0 {
		problems = append(problems, "stage.fade_in must not be negative")
	}
	if c.Audio.Enabled && c.Audio.SampleRate <= 0 {
		problems = append(problems, "audio.sample_rate must be positive")
	}
	if c.Fonts.Size <= 0 {
		problems = append(problems, "fonts.size must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
