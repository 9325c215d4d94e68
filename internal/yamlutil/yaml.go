// Package yamlutil wraps YAML parsing to isolate the external dependency.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// maxInputSize limits YAML input to prevent memory exhaustion.
const maxInputSize = 1 << 20

var (
	ErrEmptyData      = errors.New("yamlutil: empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

// UnmarshalStrict parses YAML into v, rejecting unknown fields.
func UnmarshalStrict(data []byte, v any) error {
	if len(data) == 0 {
		return ErrEmptyData
	}
	if len(data) > maxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), maxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// Marshal serializes v to YAML.
func Marshal(v any) ([]byte, error) {
	result, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return result, nil
}
