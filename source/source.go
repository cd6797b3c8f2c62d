// Package source provides translation request sources for the engine.
package source

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/entity"
)

// ParseRequest decodes one JSON translation request. A missing id is
// generated. Source and ReceivedAt are always set by the caller's values.
func ParseRequest(line []byte, sourceName string, receivedAt time.Time) (entity.TranslationRequest, error) {
	var req entity.TranslationRequest
	if err := json.Unmarshal(line, &req); err != nil {
		return entity.TranslationRequest{}, fmt.Errorf("cannot decode translation request: %w", err)
	}

	if err := req.Query.Validate(); err != nil {
		return entity.TranslationRequest{}, err
	}

	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	req.Source = sourceName
	req.ReceivedAt = receivedAt

	return req, nil
}
