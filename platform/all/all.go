// Package all registers every platform of the repository.
package all

import (
	"fmt"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/platform/clickhouse"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/platform/logrhythm"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/platform/logscale"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/platform/qradar"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/platform/sentinel"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/registry"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/render"
)

type options struct {
	logrhythm []logrhythm.Option
}

type Option func(*options)

// WithLogRhythmRule passes options to the LogRhythm rule renderer.
func WithLogRhythmRule(opts ...logrhythm.Option) Option {
	return func(o *options) {
		o.logrhythm = append(o.logrhythm, opts...)
	}
}

// Registry builds every renderer and registers them.
func Registry(opts ...Option) (*registry.Registry, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	constructors := []func() (*render.QueryRender, error){
		qradar.NewQuery,
		logscale.NewQuery,
		sentinel.NewQuery,
		sentinel.NewRule,
		logrhythm.NewQuery,
		func() (*render.QueryRender, error) { return logrhythm.NewRule(o.logrhythm...) },
		clickhouse.NewQuery,
	}

	renderers := make([]render.Renderer, 0, len(constructors))
	for _, c := range constructors {
		r, err := c()
		if err != nil {
			return nil, fmt.Errorf("failed to build renderer: %w", err)
		}
		renderers = append(renderers, r)
	}

	return registry.New(renderers...)
}
