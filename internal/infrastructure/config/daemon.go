package config

import "time"

// DaemonConfig holds headless host configuration
type DaemonConfig struct {
	// PID file location
	PIDFile string `mapstructure:"pid_file" validate:"required"`

	// How often a weekly report and status line are persisted
	CheckpointInterval time.Duration `mapstructure:"checkpoint_interval" validate:"required,positive"`

	// Run the autopilot strategy between ticks
	Autopilot bool `mapstructure:"autopilot"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,positive"`
}
