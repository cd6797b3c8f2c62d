package mapping

import (
	"testing"
	"testing/fstest"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/ast"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/fault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMappings = `
platform: test-query
require_table: true
default_fields:
  CommandLine: command
  User: username
sources:
  - id: default
    table: events
  - id: windows
    log_source:
      product: windows
    table: winlog
    fields:
      User: win_user
  - id: windows_process_creation
    log_source:
      product: windows
      category: process_creation
    table: winlog
    extra_condition: "event_id=1"
    fields:
      Image: process_path
`

func TestResolveSource(t *testing.T) {
	m, err := Load([]byte(testMappings))
	require.NoError(t, err)

	tests := map[ast.LogSource]string{
		{Product: "windows", Category: "process_creation"}: "windows_process_creation",
		{Product: "Windows", Category: "PROCESS_CREATION"}: "windows_process_creation",
		{Product: "windows", Category: "registry_set"}:     "windows",
		{Product: "linux"}:                                 "default",
		{}:                                                 "default",
	}

	for ls, want := range tests {
		sm, err := m.ResolveSource(ls)
		require.NoError(t, err, ls.String())
		assert.Equal(t, want, sm.ID, ls.String())
	}
}

func TestResolveSourceRequiresTable(t *testing.T) {
	m := &Mappings{PlatformID: "strict", RequireTable: true}

	_, err := m.ResolveSource(ast.LogSource{Product: "linux"})
	require.Error(t, err)
	assert.True(t, fault.HasCode(err, fault.MappingCode))
	assert.Contains(t, err.(fault.Fault).Metadata().(map[string]any)["log_source"], "linux")

	m.RequireTable = false
	sm, err := m.ResolveSource(ast.LogSource{Product: "linux"})
	require.NoError(t, err)
	assert.Equal(t, DefaultSourceID, sm.ID)
}

func TestResolveField(t *testing.T) {
	m, err := Load([]byte(testMappings))
	require.NoError(t, err)

	sm, err := m.ResolveSource(ast.LogSource{Product: "windows"})
	require.NoError(t, err)

	tests := map[string]string{
		"User":        "win_user",
		"CommandLine": "command",
		"Unknown":     "Unknown",
	}

	for generic, want := range tests {
		assert.Equal(t, want, m.ResolveField(ast.Field(generic), sm), generic)
	}

	overridden := ast.FieldRef{Name: "User", Overrides: map[string]string{"test-query": "actor"}}
	assert.Equal(t, "actor", m.ResolveField(overridden, sm))

	other := ast.FieldRef{Name: "User", Overrides: map[string]string{"other-query": "actor"}}
	assert.Equal(t, "win_user", m.ResolveField(other, sm))
}

func TestLoadErrors(t *testing.T) {
	inputs := map[string]string{
		"missing platform": `sources: []`,
		"missing id":       "platform: p\nsources:\n  - table: t\n",
		"duplicate id":     "platform: p\nsources:\n  - id: a\n  - id: a\n",
		"bad yaml":         "platform: [",
	}

	for name, input := range inputs {
		_, err := Load([]byte(input))
		assert.Error(t, err, name)
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{"mappings.yaml": {Data: []byte(testMappings)}}

	m, err := LoadFS(fsys, "mappings.yaml")
	require.NoError(t, err)
	assert.Equal(t, "test-query", m.PlatformID)
	assert.Len(t, m.Sources, 3)

	_, err = LoadFS(fsys, "missing.yaml")
	assert.Error(t, err)
}
