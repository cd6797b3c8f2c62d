package processor

import (
	"encoding/json"
	"fmt"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/entity"
)

type JsonPatchProcessorConfig struct {
	Name string `yaml:"-"`

	// Platforms limits the processor. Empty means every platform.
	Platforms []string `yaml:"platforms"`

	// Set overrides top-level keys of the rule document.
	Set map[string]any `yaml:"set"`
}

// JsonPatchProcessor overrides top-level keys of JSON rule documents, e.g. to
// disable every generated rule or to pin a query frequency.
type JsonPatchProcessor struct {
	cfg JsonPatchProcessorConfig
}

// NewJsonPatchProcessor creates a new instance of JsonPatchProcessor.
func NewJsonPatchProcessor(cfg JsonPatchProcessorConfig) (*JsonPatchProcessor, error) {
	if len(cfg.Set) == 0 {
		return nil, fmt.Errorf("json patch processor `%s` sets no keys", cfg.Name)
	}
	return &JsonPatchProcessor{cfg: cfg}, nil
}

func (p *JsonPatchProcessor) Name() string {
	return p.cfg.Name
}

// Process patches the document and keeps any comment block after it.
func (p *JsonPatchProcessor) Process(result entity.TranslationResult) (entity.TranslationResult, error) {
	if !appliesTo(p.cfg.Platforms, result.Platform) {
		return result, nil
	}

	doc, trailer := splitDocument(result.Output)

	data := make(map[string]any)
	if err := json.Unmarshal([]byte(doc), &data); err != nil {
		return entity.TranslationResult{}, fmt.Errorf("output of `%s` is not a JSON document: %w", result.Platform, err)
	}

	for k, v := range p.cfg.Set {
		data[k] = v
	}

	patched, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return entity.TranslationResult{}, fmt.Errorf("cannot serialize patched document: %w", err)
	}

	result.Output = string(patched) + trailer
	return result, nil
}
