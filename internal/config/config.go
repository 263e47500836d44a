package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/invitely/invitely/editor-go/internal/engine"
)

// Config is read from the environment.
type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	AssetDir       string `envconfig:"ASSET_DIR" default:"./data/assets"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`

	CanvasWidth   float64       `envconfig:"CANVAS_WIDTH" default:"1080"`
	CanvasHeight  float64       `envconfig:"CANVAS_HEIGHT" default:"1800"`
	ZoomMin       float64       `envconfig:"ZOOM_MIN" default:"0.1"`
	ZoomMax       float64       `envconfig:"ZOOM_MAX" default:"5"`
	HistoryLimit  int           `envconfig:"HISTORY_LIMIT" default:"50"`
	SaveDelay     time.Duration `envconfig:"SAVE_DELAY" default:"1s"`
	HistoryDelay  time.Duration `envconfig:"HISTORY_DELAY" default:"500ms"`
	MinBoxSize    float64       `envconfig:"MIN_BOX_SIZE" default:"5"`
	PasteOffset   float64       `envconfig:"PASTE_OFFSET" default:"20"`
	ImageFetchMax int64         `envconfig:"IMAGE_FETCH_MAX_BYTES" default:"20971520"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.ZoomMin <= 0 || cfg.ZoomMax < cfg.ZoomMin {
		return nil, fmt.Errorf("invalid zoom range [%v, %v]", cfg.ZoomMin, cfg.ZoomMax)
	}
	return &cfg, nil
}

// Origins splits AllowedOrigins into trimmed, non-empty entries.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Level maps LogLevel onto a slog level, defaulting to info.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// EditorOptions maps the editing settings onto engine options.
func (c *Config) EditorOptions() engine.Options {
	opts := engine.DefaultOptions()
	opts.Width = c.CanvasWidth
	opts.Height = c.CanvasHeight
	opts.ZoomMin = c.ZoomMin
	opts.ZoomMax = c.ZoomMax
	opts.HistoryLimit = c.HistoryLimit
	opts.MinBoxSize = c.MinBoxSize
	opts.PasteOffset = c.PasteOffset
	return opts
}

// SessionOptions returns session settings with the configured debounce
// delays. Callers add the save callback and image resolver.
func (c *Config) SessionOptions() engine.SessionOptions {
	return engine.SessionOptions{
		Editor:       c.EditorOptions(),
		SaveDelay:    c.SaveDelay,
		HistoryDelay: c.HistoryDelay,
	}
}
