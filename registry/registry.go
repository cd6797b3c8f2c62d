// Package registry looks renderers up by platform id.
package registry

import (
	"fmt"
	"slices"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/fault"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/platform"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/render"
)

// Registry is built once and only read afterwards, so lookups need no locking.
type Registry struct {
	renderers map[string]render.Renderer
	ids       []string
}

// New registers renderers. Two renderers sharing an id is an error.
func New(renderers ...render.Renderer) (*Registry, error) {
	r := &Registry{renderers: make(map[string]render.Renderer, len(renderers))}

	for _, rr := range renderers {
		id := rr.Details().ID
		if id == "" {
			return nil, fmt.Errorf("renderer %T has no platform id", rr)
		}
		if _, ok := r.renderers[id]; ok {
			return nil, fmt.Errorf("platform `%s` is registered twice", id)
		}
		r.renderers[id] = rr
		r.ids = append(r.ids, id)
	}

	slices.Sort(r.ids)

	return r, nil
}

// Get returns the renderer of a platform or a not found fault.
func (r *Registry) Get(id string) (render.Renderer, error) {
	rr, ok := r.renderers[id]
	if !ok {
		return nil, fault.New(fault.NotFoundCode, fmt.Sprintf("platform `%s` is not registered", id)).WithMetadata(map[string]any{
			"platform":  id,
			"available": r.IDs(),
		})
	}
	return rr, nil
}

// IDs returns the registered platform ids in sorted order.
func (r *Registry) IDs() []string {
	return slices.Clone(r.ids)
}

// Details returns the details of every platform sorted by id.
func (r *Registry) Details() []platform.Details {
	out := make([]platform.Details, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.renderers[id].Details())
	}
	return out
}

// Subset returns a registry with only the given ids. An empty list keeps all.
func (r *Registry) Subset(ids ...string) (*Registry, error) {
	if len(ids) == 0 {
		return r, nil
	}

	renderers := make([]render.Renderer, 0, len(ids))
	for _, id := range ids {
		rr, err := r.Get(id)
		if err != nil {
			return nil, err
		}
		renderers = append(renderers, rr)
	}

	return New(renderers...)
}
