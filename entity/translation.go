package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/ast"
)

type ResultStatus uint8

const (
	ResultStatusUnknown ResultStatus = iota
	ResultStatusOK
	// ResultStatusPartial means the output was produced with soft diagnostics.
	ResultStatusPartial
	ResultStatusFailed
)

func (s ResultStatus) String() string {
	names := [...]string{"UNKNOWN", "OK", "PARTIAL", "FAILED"}
	if int(s) >= len(names) {
		return names[0]
	}
	return names[s]
}

// TranslationRequest asks for one query tree to be rendered for some platforms.
type TranslationRequest struct {
	ID     uuid.UUID `json:"id"`
	Source string    `json:"source"`

	// Platforms lists platform ids. Empty means the engine defaults.
	Platforms  []string  `json:"platforms"`
	Query      ast.Query `json:"query"`
	ReceivedAt time.Time `json:"received_at"`
}

// TranslationResult is the outcome of rendering a request for one platform.
type TranslationResult struct {
	ID          uuid.UUID    `json:"id"`
	RequestID   uuid.UUID    `json:"request_id"`
	Source      string       `json:"source"`
	Platform    string       `json:"platform"`
	Status      ResultStatus `json:"status"`
	Output      string       `json:"output"`
	Diagnostics []string     `json:"diagnostics"`
	Error       string       `json:"error,omitempty"`
	RenderedAt  time.Time    `json:"rendered_at"`
}
