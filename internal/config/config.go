package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/b-hayes/room-planner-sub000/internal/engine"
)

type Config struct {
	Port           int           `envconfig:"PORT" default:"8080"`
	JWTSecret      string        `envconfig:"JWT_SECRET" default:"dev-secret-change-in-production"`
	StaticDir      string        `envconfig:"STATIC_DIR" default:"./web"`
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	AllowedOrigins string        `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`

	Editor Editor `envconfig:"EDITOR"`
}

// Editor configures every Grid a host creates.
type Editor struct {
	Snap            float64       `envconfig:"SNAP" default:"1"`
	MinScale        float64       `envconfig:"MIN_SCALE" default:"0.25"`
	MaxScale        float64       `envconfig:"MAX_SCALE" default:"5"`
	Debounce        time.Duration `envconfig:"DEBOUNCE" default:"100ms"`
	ZoomSensitivity float64       `envconfig:"ZOOM_SENSITIVITY" default:"0.001"`
	EdgeThreshold   float64       `envconfig:"EDGE_THRESHOLD" default:"15"`
	WorldWidth      float64       `envconfig:"WORLD_WIDTH" default:"10000"`
	WorldHeight     float64       `envconfig:"WORLD_HEIGHT" default:"10000"`
}

// DefaultEditor returns the editor settings used when no environment is
// available.
func DefaultEditor() Editor {
	return Editor{
		Snap:            1,
		MinScale:        engine.DefaultMinScale,
		MaxScale:        engine.DefaultMaxScale,
		Debounce:        100 * time.Millisecond,
		ZoomSensitivity: engine.DefaultZoomSensitivity,
		EdgeThreshold:   15,
		WorldWidth:      10000,
		WorldHeight:     10000,
	}
}

// Options converts the section into Grid options.
func (e Editor) Options() []engine.Option {
	return []engine.Option{
		engine.WithSnap(e.Snap),
		engine.WithScaleLimits(e.MinScale, e.MaxScale),
		engine.WithDebounce(e.Debounce),
		engine.WithZoomSensitivity(e.ZoomSensitivity),
		engine.WithEdgeThreshold(e.EdgeThreshold),
		engine.WithWorldSize(e.WorldWidth, e.WorldHeight),
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
