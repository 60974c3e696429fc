// Package uuid provides ID generation helpers.
package uuid

import (
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// Generator creates UUID v7 strings.
type Generator struct{}

// New creates a Generator.
func New() *Generator {
	return &Generator{}
}

// NewID returns a UUIDv7 string.
func (Generator) NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", eris.Wrap(err, "generate uuid7")
	}
	return id.String(), nil
}
