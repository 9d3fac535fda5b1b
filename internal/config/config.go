package config

import (
	"github.com/caarlos0/env/v11"
)

// Config carries the environment-tunable settings. Everything the user
// changes per run comes from flags instead; this is the machine-level layer
// (tool locations, deadline, log level) that a .env file can pin.
type Config struct {
	FFmpegPath  string `env:"VTHUMB_FFMPEG"           envDefault:"ffmpeg"`
	FFprobePath string `env:"VTHUMB_FFPROBE"          envDefault:"ffprobe"`
	DeadlineSec int    `env:"VTHUMB_DEADLINE_SECONDS" envDefault:"120"`
	LogLevel    string `env:"LOG_LEVEL"               envDefault:"info"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
