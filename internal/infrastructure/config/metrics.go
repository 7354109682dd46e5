package config

import (
	"net"
	"strconv"
)

// MetricsConfig controls the Prometheus endpoint of the daemon
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Host defaults to localhost so the endpoint is not exposed by accident
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port" validate:"omitempty,min=1024,max=65535"`
	Path string `mapstructure:"path" validate:"omitempty,httppath"`
}

// Address is the host:port the metrics server listens on
func (c MetricsConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
