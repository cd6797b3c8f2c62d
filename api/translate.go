package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/ast"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/entity"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/fault"
)

type translateRequest struct {
	Platform string    `json:"platform"`
	Query    ast.Query `json:"query"`
}

// translateHandler renders one query for one platform. Soft diagnostics are
// returned next to the output; hard failures map to error statuses.
func (s *server) translateHandler(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if s.returnOnError(w, r, s.readJson(w, r, &req)) {
		return
	}

	if req.Platform == "" {
		s.handleError(w, r, fault.New(fault.BadInputCode, "").WithMetadata(fault.FieldErrorsMetadata{
			"platform": []string{"Platform is required."},
		}))
		return
	}

	renderer, err := s.renderers.Get(req.Platform)
	if s.returnOnError(w, r, err) {
		return
	}

	out, err := renderer.Render(req.Query)
	if s.returnOnError(w, r, err) {
		return
	}

	result := entity.TranslationResult{
		ID:          uuid.New(),
		Source:      "api",
		Platform:    req.Platform,
		Status:      entity.ResultStatusOK,
		Output:      out.Output,
		Diagnostics: make([]string, 0, len(out.Diagnostics)),
		RenderedAt:  time.Now().UTC(),
	}
	for _, d := range out.Diagnostics {
		result.Diagnostics = append(result.Diagnostics, d.Error())
		s.logger.Debug("soft translation diagnostic", "platform", req.Platform, "diagnostic", d)
	}
	if len(result.Diagnostics) > 0 {
		result.Status = entity.ResultStatusPartial
	}

	s.writeJson( // nolint:errcheck
		w,
		http.StatusOK,
		apiResponse{
			Success: true,
			Data: map[string]any{
				"id":                      result.ID,
				"platform":                result.Platform,
				"status":                  result.Status.String(),
				"output":                  result.Output,
				"diagnostics":             result.Diagnostics,
				"not_supported_functions": out.NotSupportedFunctions,
			},
		},
		nil,
	)
}
