// Package processor post-processes rendered translation results.
package processor

import "github.com/jkaufman-LogRhythm/Uncoder-IO/entity"

// ResultProcessor is an interface that defines the contract for result processors.
type ResultProcessor interface {
	Name() string
	Process(result entity.TranslationResult) (entity.TranslationResult, error)
}
