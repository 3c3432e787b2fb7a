package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
)

// Env holds process-level settings read from the environment. They seed
// the CLI flag defaults.
type Env struct {
	ConfigPath string `env:"BUBBLEMATH_CONFIG"`
	DBPath     string `env:"BUBBLEMATH_DB"`
	SSHAddr    string `env:"BUBBLEMATH_SSH_ADDR" envDefault:":2222"`
	HTTPAddr   string `env:"BUBBLEMATH_HTTP_ADDR" envDefault:":8080"`
	LogLevel   string `env:"BUBBLEMATH_LOG_LEVEL" envDefault:"info"`
	AppName    string `env:"BUBBLEMATH_APP_NAME" envDefault:"bubblemath"`
	Player     string `env:"BUBBLEMATH_PLAYER"`
}

// LoadEnv parses the environment.
func LoadEnv() (Env, error) {
	e, err := env.ParseAs[Env]()
	if err != nil {
		return Env{}, fmt.Errorf("config: parsing environment: %w", err)
	}
	return e, nil
}

// Level returns the configured log level, or info if it does not parse.
func (e Env) Level() log.Level {
	lvl, err := log.ParseLevel(e.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
