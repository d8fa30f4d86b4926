package config

import (
	"fmt"

	"github.com/joeshaw/envdecode"
)

// Env holds the settings that only ever come from the environment.
// Credentials never appear in config files.
type Env struct {
	// GeminiAPIKey authenticates against the Gemini API. The service
	// refuses to start without it.
	GeminiAPIKey string `env:"GEMINI_API_KEY,required"`

	// OpenAIAPIKey is only needed when the routing table maps a model
	// to the openai provider.
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`

	// Addr overrides server.addr from the config file.
	Addr string `env:"ARCHGEN_ADDR"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"ARCHGEN_LOG_LEVEL,default=info"`
}

// LoadEnv reads the environment. A missing GEMINI_API_KEY is a startup
// error, not a per-request one.
func LoadEnv() (*Env, error) {
	var env Env
	if err := envdecode.Decode(&env); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	return &env, nil
}
