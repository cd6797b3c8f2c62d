package source

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var receivedAt = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func TestParseRequest(t *testing.T) {
	line := []byte(`{"platforms": ["logscale-lql-query"], "query": {"detection": {"keyword": "mimikatz"}}}`)

	req, err := ParseRequest(line, "tail", receivedAt)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, req.ID)
	assert.Equal(t, "tail", req.Source)
	assert.Equal(t, receivedAt, req.ReceivedAt)
	assert.Equal(t, []string{"logscale-lql-query"}, req.Platforms)
	assert.NotNil(t, req.Query.Node)

	tests := map[string]string{
		"not json":         `platform=qradar`,
		"bad node":         `{"query": {"detection": {"and": [], "or": []}}}`,
		"unknown modifier": `{"query": {"detection": {"field": "User", "modifier": "almost", "value": "x"}}}`,
	}

	for name, line := range tests {
		_, err := ParseRequest([]byte(line), "tail", receivedAt)
		assert.Error(t, err, name)
	}
}

func TestFileRequestSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requests.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("not json\n"+`{"query": {"detection": {"keyword": "first"}}}`+"\n"), 0o644))

	src, err := NewFileRequestSource(slog.New(slog.NewTextHandler(io.Discard, nil)), FileRequestSourceConfig{
		Name:           "tail",
		ProcessorNames: []string{"lua"},
		FilePath:       path,
		FromStart:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, "tail", src.Name())
	assert.Equal(t, []string{"lua"}, src.ProcessorNames())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	requests := make(chan entity.TranslationRequest, 4)
	done := make(chan error, 1)
	go func() { done <- src.Provide(ctx, requests) }()

	receive := func() entity.TranslationRequest {
		select {
		case req := <-requests:
			return req
		case <-time.After(5 * time.Second):
			t.Fatal("no request received")
			return entity.TranslationRequest{}
		}
	}

	first := receive()
	assert.Equal(t, "tail", first.Source)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"platforms": ["qradar-aql-query"], "query": {"detection": {"keyword": "second"}}}` + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	second := receive()
	assert.Equal(t, []string{"qradar-aql-query"}, second.Platforms)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("source did not stop")
	}
}

func TestNewFileRequestSourceRequiresPath(t *testing.T) {
	_, err := NewFileRequestSource(slog.Default(), FileRequestSourceConfig{Name: "tail"})
	assert.Error(t, err)
}
