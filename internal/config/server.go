// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/envlog/internal/validation"
)

// ServerEnvPrefix prefixes the environment variables of the demo server,
// e.g. SERVER_ADDR or SERVER_CORS_ORIGINS.
const ServerEnvPrefix = "SERVER_"

// ServerConfig configures the demo HTTP server.
type ServerConfig struct {
	Addr string `koanf:"addr" validate:"required,hostname_port"`

	// CORSOrigins lists allowed origins. Empty disables cross-origin access.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimit is the number of API requests allowed per client per
	// RateWindow. Zero disables rate limiting.
	RateLimit  int           `koanf:"rate_limit" validate:"gte=0"`
	RateWindow time.Duration `koanf:"rate_window" validate:"gte=0"`

	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gte=0"`
}

func defaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Addr:            ":8080",
		RateLimit:       100,
		RateWindow:      time.Minute,
		ShutdownTimeout: 10 * time.Second,
	}
}

// LoadServer reads the server configuration from defaults and SERVER_*
// environment variables. Comma-separated values fill list fields.
func LoadServer() (*ServerConfig, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultServerConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load server defaults: %w", err)
	}

	if err := k.Load(env.ProviderWithValue(ServerEnvPrefix, ".", serverEnvTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load server environment: %w", err)
	}

	cfg := &ServerConfig{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal server configuration: %w", err)
	}

	if verr := validation.ValidateStruct(cfg); verr != nil {
		return nil, fmt.Errorf("invalid server configuration: %w", verr)
	}
	return cfg, nil
}

// serverEnvTransform maps SERVER_RATE_LIMIT to rate_limit. Empty values
// are skipped and list fields are split on commas.
func serverEnvTransform(key, value string) (string, any) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	key = strings.ToLower(strings.TrimPrefix(key, ServerEnvPrefix))
	if key == "cors_origins" {
		origins := strings.Split(value, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		return key, origins
	}
	return key, value
}
