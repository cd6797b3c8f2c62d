package processor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ruleOutput = `{
    "displayName": "Suspicious user",
    "enabled": true
}

// Functions that are not supported by the target platform:
// count()`

func TestJsonPatchProcessor(t *testing.T) {
	p, err := NewJsonPatchProcessor(JsonPatchProcessorConfig{
		Name:      "disable",
		Platforms: []string{"sentinel-kql-rule"},
		Set:       map[string]any{"enabled": false, "queryFrequency": "PT1H"},
	})
	require.NoError(t, err)
	assert.Equal(t, "disable", p.Name())

	res, err := p.Process(entity.TranslationResult{Platform: "sentinel-kql-rule", Output: ruleOutput})
	require.NoError(t, err)

	doc, trailer := splitDocument(res.Output)
	assert.Equal(t, "\n\n// Functions that are not supported by the target platform:\n// count()", trailer)

	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(doc), &data))
	assert.Equal(t, map[string]any{"displayName": "Suspicious user", "enabled": false, "queryFrequency": "PT1H"}, data)

	// Other platforms pass through untouched.
	query := entity.TranslationResult{Platform: "sentinel-kql-query", Output: "SecurityEvent"}
	res, err = p.Process(query)
	require.NoError(t, err)
	assert.Equal(t, query, res)

	_, err = p.Process(entity.TranslationResult{Platform: "sentinel-kql-rule", Output: "SecurityEvent"})
	assert.Error(t, err)
}

func TestNewJsonPatchProcessorRequiresKeys(t *testing.T) {
	_, err := NewJsonPatchProcessor(JsonPatchProcessorConfig{Name: "empty"})
	assert.Error(t, err)
}

const luaScript = `
local json = require("json")

function post_process(platform, output)
	if platform == "sentinel-kql-rule" then
		local doc = json.decode(output)
		doc.displayName = "[generated] " .. doc.displayName
		return json.encode(doc)
	end
	return "// " .. platform .. "\n" .. output
end
`

func TestLuaResultProcessor(t *testing.T) {
	p, err := NewLuaResultProcessor(LuaResultProcessorConfig{Name: "annotate", Script: luaScript})
	require.NoError(t, err)
	assert.Equal(t, "annotate", p.Name())

	res, err := p.Process(entity.TranslationResult{Platform: "sentinel-kql-query", Output: "SecurityEvent"})
	require.NoError(t, err)
	assert.Equal(t, "// sentinel-kql-query\nSecurityEvent", res.Output)

	res, err = p.Process(entity.TranslationResult{Platform: "sentinel-kql-rule", Output: `{"displayName": "x", "enabled": true}`})
	require.NoError(t, err)
	assert.JSONEq(t, `{"displayName": "[generated] x", "enabled": true}`, res.Output)
}

func TestLuaResultProcessorConcurrent(t *testing.T) {
	p, err := NewLuaResultProcessor(LuaResultProcessorConfig{Script: `function post_process(p, o) return string.upper(o) end`})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 16 {
		wg.Go(func() {
			res, err := p.Process(entity.TranslationResult{Platform: "logscale-lql-query", Output: "username=\"root\""})
			assert.NoError(t, err)
			assert.Equal(t, "USERNAME=\"ROOT\"", res.Output)
		})
	}
	wg.Wait()
}

func TestLuaResultProcessorFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post.lua")
	require.NoError(t, os.WriteFile(path, []byte(`function post_process(p, o) return o .. " | head(5)" end`), 0o644))

	p, err := NewLuaResultProcessor(LuaResultProcessorConfig{ScriptPath: path, Platforms: []string{"logscale-lql-query"}})
	require.NoError(t, err)

	res, err := p.Process(entity.TranslationResult{Platform: "logscale-lql-query", Output: "x=1"})
	require.NoError(t, err)
	assert.Equal(t, "x=1 | head(5)", res.Output)

	res, err = p.Process(entity.TranslationResult{Platform: "qradar-aql-query", Output: "x=1"})
	require.NoError(t, err)
	assert.Equal(t, "x=1", res.Output)
}

func TestLuaResultProcessorErrors(t *testing.T) {
	tests := map[string]LuaResultProcessorConfig{
		"no script":        {},
		"syntax error":     {Script: `function post_process(`},
		"missing function": {Script: `local x = 1`},
		"missing file":     {ScriptPath: "/does/not/exist.lua"},
	}

	for name, cfg := range tests {
		_, err := NewLuaResultProcessor(cfg)
		assert.Error(t, err, name)
	}

	p, err := NewLuaResultProcessor(LuaResultProcessorConfig{Script: `function post_process(p, o) return 42 end`})
	require.NoError(t, err)
	_, err = p.Process(entity.TranslationResult{Output: "x"})
	assert.Error(t, err)

	p, err = NewLuaResultProcessor(LuaResultProcessorConfig{Script: `function post_process(p, o) error("boom") end`})
	require.NoError(t, err)
	_, err = p.Process(entity.TranslationResult{Output: "x"})
	assert.ErrorContains(t, err, "boom")
}
