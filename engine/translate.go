package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/entity"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/platform"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/render"
)

// Renderers looks renderers up by platform id. *registry.Registry satisfies it.
type Renderers interface {
	Get(id string) (render.Renderer, error)
	IDs() []string
	Details() []platform.Details
}

// Translate renders req for one platform. Failures are reported in the
// result, never returned.
func Translate(renderers Renderers, req entity.TranslationRequest, platformID string, now time.Time) entity.TranslationResult {
	res := entity.TranslationResult{
		ID:          uuid.New(),
		RequestID:   req.ID,
		Source:      req.Source,
		Platform:    platformID,
		Diagnostics: []string{},
		RenderedAt:  now,
	}

	r, err := renderers.Get(platformID)
	if err != nil {
		res.Status = entity.ResultStatusFailed
		res.Error = err.Error()
		return res
	}

	out, err := r.Render(req.Query)
	if err != nil {
		res.Status = entity.ResultStatusFailed
		res.Error = err.Error()
		return res
	}

	res.Output = out.Output
	res.Status = entity.ResultStatusOK
	for _, d := range out.Diagnostics {
		res.Diagnostics = append(res.Diagnostics, d.Error())
	}
	if len(res.Diagnostics) > 0 {
		res.Status = entity.ResultStatusPartial
	}

	return res
}
