// Package definitions loads scenario definition files into a validated
// catalog and transport network.
package definitions

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/supplychain-go/internal/domain/catalog"
	"github.com/andrescamacho/supplychain-go/internal/domain/routing"
)

// Definitions is a loaded, validated scenario ready to build an engine from
type Definitions struct {
	Config  *catalog.Config
	Network *routing.Network
}

// LoadFile reads and validates a definitions file
func LoadFile(path string) (*Definitions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definitions: %w", err)
	}
	defs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return defs, nil
}

// Parse decodes YAML definitions and runs every validation stage: field
// shapes, cross references, then network connectivity. Unknown keys are
// rejected so typos surface at load time.
func Parse(data []byte) (*Definitions, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg catalog.Config
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("definitions are empty")
		}
		return nil, fmt.Errorf("failed to decode definitions: %w", err)
	}

	if err := validateShape(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid definitions: %w", err)
	}

	network, err := routing.NewNetwork(cfg.Locations, cfg.Corridors)
	if err != nil {
		return nil, fmt.Errorf("invalid transport network: %w", err)
	}

	return &Definitions{Config: &cfg, Network: network}, nil
}

func validateShape(cfg *catalog.Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		messages := make([]string, 0, len(verrs))
		for _, e := range verrs {
			messages = append(messages, fmt.Sprintf(
				"field '%s' failed validation: %s (value: '%v')",
				e.Namespace(),
				e.Tag(),
				e.Value(),
			))
		}
		return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
	}
	return nil
}
