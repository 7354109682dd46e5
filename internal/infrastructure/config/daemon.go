package config

import "time"

// DaemonConfig controls the long-running simulation process
type DaemonConfig struct {
	// PIDFile guards against two daemons journaling at once
	PIDFile string `mapstructure:"pid_file" validate:"required"`

	// ShutdownTimeout bounds how long the final journal write may take after a signal
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`
}
