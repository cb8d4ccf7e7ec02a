// Package loader parses the orchestration configuration document into the
// typed model and validates its cross-field invariants. Parsing failures
// surface as *domain.ParseError; semantic problems are collected into
// domain.ValidationErrors so a single run reports everything at once.
package loader

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/routewise/pmconfig/internal/domain"
)

// LoadFile reads and loads the configuration document at path.
func LoadFile(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Load(data)
}

// Load parses, converts and validates a configuration document. The returned
// model is complete and safe for concurrent reads; on any error the model is
// nil and must not be used.
func Load(data []byte) (*domain.Config, error) {
	var raw rawDocument
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, asParseError(err)
	}
	raw.applyDefaults()

	var errs domain.ValidationErrors
	cfg := raw.build(&errs)
	validate(cfg, &errs)
	if len(errs) > 0 {
		return nil, errs
	}
	return cfg, nil
}

// asParseError maps a toml decode failure to *domain.ParseError, carrying the
// document position when the decoder knows it.
func asParseError(err error) error {
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		line, col := derr.Position()
		return &domain.ParseError{Line: line, Column: col, Msg: derr.Error()}
	}
	return &domain.ParseError{Msg: err.Error()}
}
