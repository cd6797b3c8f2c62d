package storage

import (
	"context"
	"testing"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClickHouseStorage(t *testing.T) {
	_, err := NewClickHouseStorage(ClickHouseStorageConfig{})
	assert.Error(t, err)

	s, err := NewClickHouseStorage(ClickHouseStorageConfig{Addr: []string{"localhost:9000"}})
	require.NoError(t, err)

	// Nothing to write never touches the connection.
	assert.NoError(t, s.StoreResults(context.Background()))
	assert.Error(t, s.StoreResults(context.Background(), entity.TranslationResult{}))
	assert.NoError(t, s.Close())
}

func TestTranslationsTableMatchesStatuses(t *testing.T) {
	for _, st := range []entity.ResultStatus{entity.ResultStatusUnknown, entity.ResultStatusOK, entity.ResultStatusPartial, entity.ResultStatusFailed} {
		assert.Contains(t, createTranslationsTable, "'"+st.String()+"'")
	}
}
