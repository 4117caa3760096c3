// Envlog - Environment-Profiled Structured Logging
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/envlog

package config

// DefaultID is the registry key used when no id is configured.
const DefaultID = "brinkbit"

// Config holds everything needed to assemble a logger.
//
// The koanf tags double as YAML keys. Every leaf carries omitempty so a
// caller-supplied Config only overrides the fields it actually sets.
type Config struct {
	// ID is the registry key. Default: brinkbit
	ID string `koanf:"id,omitempty" validate:"required"`

	// Profile names the deployment profile. Env: NODE_ENV
	Profile string `koanf:"profile,omitempty"`

	// Filename is the origin marker the enrich hook adds to application records.
	Filename string `koanf:"filename,omitempty"`

	// AccessFormat overrides the profile's access-log format.
	AccessFormat string `koanf:"access_format,omitempty" validate:"omitempty,oneof=dev combined common short tiny"`

	File       FileConfig       `koanf:"file,omitempty"`
	Slack      SlackConfig      `koanf:"slack,omitempty"`
	Papertrail PapertrailConfig `koanf:"papertrail,omitempty"`
	Deployment DeploymentConfig `koanf:"deployment,omitempty"`
}

// FileConfig configures the rotating file sink.
type FileConfig struct {
	// Path of the active log file. Env: LOG_FILE
	Path string `koanf:"path,omitempty" validate:"required"`

	// MaxSize in bytes before rotation. Env: LOG_SIZE
	MaxSize int64 `koanf:"max_size,omitempty" validate:"gte=0"`

	// MaxFiles is the number of rotated files kept. Env: LOG_COUNT
	MaxFiles int `koanf:"max_files,omitempty" validate:"gte=0"`

	// Compress gzips rotated files. Env: LOG_COMPRESS
	Compress bool `koanf:"compress,omitempty"`
}

// SlackConfig configures the Slack webhook sink. The sink is omitted when
// HookURL is empty or invalid.
type SlackConfig struct {
	HookURL     string `koanf:"hook_url,omitempty" validate:"omitempty,http_url"`
	Team        string `koanf:"team,omitempty"`
	Channel     string `koanf:"channel,omitempty"`
	CritChannel string `koanf:"crit_channel,omitempty"`
	Username    string `koanf:"username,omitempty"`
	IconEmoji   string `koanf:"icon_emoji,omitempty"`

	// Level overrides the sink threshold. Default: warning
	Level string `koanf:"level,omitempty" validate:"omitempty,loglevel"`
}

// PapertrailConfig configures the remote syslog sink. The sink is omitted
// when Host is empty or invalid.
type PapertrailConfig struct {
	Host     string `koanf:"host,omitempty" validate:"omitempty,hostname_rfc1123|ip"`
	Port     int    `koanf:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	Program  string `koanf:"program,omitempty"`
	Hostname string `koanf:"hostname,omitempty"`
	Network  string `koanf:"network,omitempty" validate:"omitempty,oneof=udp tcp tls"`
	Level    string `koanf:"level,omitempty" validate:"omitempty,loglevel"`
}

// DeploymentConfig holds the identifiers the enrich hook attaches.
type DeploymentConfig struct {
	Container string `koanf:"container,omitempty"`
	Service   string `koanf:"service,omitempty"`
	Stack     string `koanf:"stack,omitempty"`
}

// SlackEnabled reports whether a Slack sink can be built.
func (c *Config) SlackEnabled() bool {
	return c.Slack.HookURL != ""
}

// PapertrailEnabled reports whether a Papertrail sink can be built.
func (c *Config) PapertrailEnabled() bool {
	return c.Papertrail.Host != ""
}
