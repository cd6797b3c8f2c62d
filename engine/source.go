package engine

import (
	"context"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/entity"
)

// RequestSource is an interface that defines the contract for translation request sources.
type RequestSource interface {
	Name() string
	Provide(ctx context.Context, requests chan<- entity.TranslationRequest) error
	ProcessorNames() []string
}
