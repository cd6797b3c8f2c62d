package registry

import (
	"testing"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/ast"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/fault"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/platform"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRenderer struct {
	id string
}

func (s stubRenderer) Details() platform.Details {
	return platform.Details{ID: s.id}
}

func (s stubRenderer) Render(ast.Query) (render.Result, error) {
	return render.Result{Output: s.id}, nil
}

func TestRegistry(t *testing.T) {
	r, err := New(stubRenderer{"b-query"}, stubRenderer{"a-query"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a-query", "b-query"}, r.IDs())
	assert.Len(t, r.Details(), 2)

	rr, err := r.Get("b-query")
	require.NoError(t, err)
	res, err := rr.Render(ast.Query{})
	require.NoError(t, err)
	assert.Equal(t, "b-query", res.Output)

	_, err = r.Get("missing")
	require.Error(t, err)
	assert.True(t, fault.HasCode(err, fault.NotFoundCode))
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	_, err := New(stubRenderer{"a"}, stubRenderer{"a"})
	assert.ErrorContains(t, err, "registered twice")

	_, err = New(stubRenderer{""})
	assert.Error(t, err)
}

func TestRegistrySubset(t *testing.T) {
	r, err := New(stubRenderer{"a"}, stubRenderer{"b"}, stubRenderer{"c"})
	require.NoError(t, err)

	all, err := r.Subset()
	require.NoError(t, err)
	assert.Same(t, r, all)

	sub, err := r.Subset("c", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, sub.IDs())

	_, err = r.Subset("z")
	assert.True(t, fault.HasCode(err, fault.NotFoundCode))
}
