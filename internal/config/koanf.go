// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/envlog/internal/logging"
)

// ConfigPathEnvVar names an optional YAML file layered under the environment.
const ConfigPathEnvVar = "LOG_CONFIG_PATH"

// Defaults applied when nothing else sets a value.
const (
	DefaultFilePath       = "logs.log"
	DefaultFileMaxSize    = 5 << 20 // 5 MiB
	DefaultFileMaxFiles   = 5
	DefaultPapertrailPort = 514
	DefaultNetwork        = "udp"
)

// defaultConfig returns a Config with all built-in defaults.
func defaultConfig() *Config {
	return &Config{
		ID: DefaultID,
		File: FileConfig{
			Path:     DefaultFilePath,
			MaxSize:  DefaultFileMaxSize,
			MaxFiles: DefaultFileMaxFiles,
		},
		Papertrail: PapertrailConfig{
			Port:    DefaultPapertrailPort,
			Network: DefaultNetwork,
		},
	}
}

// Defaults returns a Config holding only the built-in defaults.
func Defaults() *Config {
	return defaultConfig()
}

// EnvVars returns the environment variables Load reads, sorted.
func EnvVars() []string {
	names := make([]string, 0, len(envMappings)+1)
	for key := range envMappings {
		names = append(names, strings.ToUpper(key))
	}
	names = append(names, ConfigPathEnvVar)
	sort.Strings(names)
	return names
}

// Load resolves the configuration from four layers, lowest priority first:
//  1. Defaults: built-in values
//  2. Config file: optional YAML file named by LOG_CONFIG_PATH
//  3. Environment variables
//  4. Explicit: non-zero fields of explicit (may be nil)
//
// A field therefore takes the first value present in explicit, then the
// environment, then the file, then the defaults. Invalid fields are reset
// by Sanitize and reported to the diagnostics logger; only file and
// provider failures are returned as errors.
func Load(explicit *Config) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// Layer 3: environment
	if err := k.Load(env.ProviderWithValue("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Layer 4: explicit values
	if explicit != nil {
		if err := k.Load(structs.Provider(explicit, "koanf"), nil); err != nil {
			return nil, fmt.Errorf("failed to load explicit config: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	cfg.normalize()
	cfg.Sanitize()

	return cfg, nil
}

// findConfigFile returns the path named by LOG_CONFIG_PATH if it exists.
func findConfigFile() string {
	path := os.Getenv(ConfigPathEnvVar)
	if path == "" {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// envMappings maps environment variable names to koanf config paths.
var envMappings = map[string]string{
	"node_env":          "profile",
	"log_id":            "id",
	"log_access_format": "access_format",

	// File sink
	"log_file":     "file.path",
	"log_size":     "file.max_size",
	"log_count":    "file.max_files",
	"log_compress": "file.compress",

	// Slack sink
	"slack_hook":         "slack.hook_url",
	"slack_team":         "slack.team",
	"slack_channel":      "slack.channel",
	"slack_crit_channel": "slack.crit_channel",
	"slack_username":     "slack.username",
	"slack_icon_emoji":   "slack.icon_emoji",
	"slack_level":        "slack.level",

	// Papertrail sink
	"papertrail_host":     "papertrail.host",
	"papertrail_port":     "papertrail.port",
	"papertrail_program":  "papertrail.program",
	"papertrail_hostname": "papertrail.hostname",
	"papertrail_network":  "papertrail.network",
	"papertrail_level":    "papertrail.level",

	// Enrichment
	"container_name": "deployment.container",
	"service_name":   "deployment.service",
	"stack_name":     "deployment.stack",
}

// envTransformFunc maps an environment variable to its config path.
// Unmapped and empty variables return an empty key and are skipped.
//
// Examples:
//   - NODE_ENV -> profile
//   - LOG_SIZE -> file.max_size
//   - SLACK_HOOK -> slack.hook_url
//   - CONTAINER_NAME -> deployment.container
//
// Numeric and boolean variables that do not parse are skipped with a
// diagnostic, so a typo falls back to the lower layers instead of failing.
func envTransformFunc(key, value string) (string, any) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	mapped, ok := envMappings[strings.ToLower(key)]
	if !ok {
		return "", nil
	}

	var err error
	switch mapped {
	case "file.max_size", "file.max_files", "papertrail.port":
		_, err = strconv.ParseInt(value, 10, 64)
	case "file.compress":
		_, err = strconv.ParseBool(value)
	}
	if err != nil {
		diag := logging.Diag()
		diag.Warn().Str("env", key).Str("value", value).Err(err).Msg("ignoring unparsable environment variable")
		return "", nil
	}

	return mapped, value
}

// normalize canonicalizes case-insensitive fields.
func (c *Config) normalize() {
	c.Profile = strings.ToLower(strings.TrimSpace(c.Profile))
	c.AccessFormat = strings.ToLower(strings.TrimSpace(c.AccessFormat))
	c.Papertrail.Network = strings.ToLower(strings.TrimSpace(c.Papertrail.Network))
	c.Slack.HookURL = strings.TrimSpace(c.Slack.HookURL)
	c.Papertrail.Host = strings.TrimSpace(c.Papertrail.Host)
}
