// Package uuid issues the ids of games and setup drafts.
package uuid

//go:generate mockgen -destination=mocks/mock_generator.go -package=mockuuid -source=uuid.go

import (
	"github.com/google/uuid"
)

type Generator interface {
	New() string
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func() string

func (f GeneratorFunc) New() string {
	return f()
}

// Random issues v4 UUIDs.
var Random Generator = GeneratorFunc(uuid.NewString)
