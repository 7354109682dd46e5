package config

import (
	"fmt"
	"io"
	"os"
)

// LoggingConfig selects level, encoding and destination of the run log
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
	Output string `mapstructure:"output" validate:"required,oneof=stdout stderr file"`

	FilePath string `mapstructure:"file_path" validate:"required_if=Output file"`
}

// Open resolves the destination. stdout is the writer used for "stdout", so
// commands that print to stdout can divert logs elsewhere. The closer is nil
// unless a file was opened.
func (c LoggingConfig) Open(stdout io.Writer) (io.Writer, io.Closer, error) {
	switch c.Output {
	case "stderr":
		return os.Stderr, nil, nil
	case "file":
		f, err := os.OpenFile(c.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		return f, f, nil
	default:
		return stdout, nil, nil
	}
}
