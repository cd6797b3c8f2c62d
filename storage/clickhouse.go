// Package storage archives translation results.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/entity"
)

type ClickHouseStorageConfig struct {
	Addr     []string `yaml:"addr"`
	Database string   `yaml:"database"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
}

func (c ClickHouseStorageConfig) validate() error {
	if len(c.Addr) == 0 {
		return errors.New("clickhouse address is required")
	}
	return nil
}

type ClickHouseStorage struct {
	conn clickhouse.Conn
	cfg  ClickHouseStorageConfig
}

func NewClickHouseStorage(cfg ClickHouseStorageConfig) (*ClickHouseStorage, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &ClickHouseStorage{cfg: cfg}, nil
}

const createTranslationsTable = `
	CREATE TABLE IF NOT EXISTS translations (
		id UUID,
		request_id UUID,
		source LowCardinality(String),
		platform LowCardinality(String),
		status Enum8('UNKNOWN' = 0, 'OK' = 1, 'PARTIAL' = 2, 'FAILED' = 3),
		output String,
		diagnostics Array(String),
		error String,
		rendered_at DateTime64(3)
	)
	ENGINE = MergeTree
	ORDER BY (platform, rendered_at, id)
	PARTITION BY toYYYYMM(rendered_at)
`

func setupClickHouseTables(ctx context.Context, conn driver.Conn) error {
	return conn.Exec(ctx, createTranslationsTable)
}

func (s *ClickHouseStorage) Connect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: s.cfg.Addr,
		Auth: clickhouse.Auth{
			Database: s.cfg.Database,
			Username: s.cfg.Username,
			Password: s.cfg.Password,
		},
		DialTimeout: 5 * time.Second,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})

	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping the database: %w", err)
	}

	s.conn = conn

	if err := setupClickHouseTables(ctx, conn); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	return nil
}

func (s *ClickHouseStorage) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *ClickHouseStorage) StoreResults(ctx context.Context, results ...entity.TranslationResult) error {
	if len(results) == 0 {
		return nil
	}

	if s.conn == nil {
		return errors.New("storage is not connected")
	}

	ctx, cancel := context.WithTimeout(ctx, 1*time.Minute)
	defer cancel()

	batch, err := s.conn.PrepareBatch(ctx, "INSERT INTO translations (id, request_id, source, platform, status, output, diagnostics, error, rendered_at)")
	if err != nil {
		return fmt.Errorf("couldn't prepare batch: %w", err)
	}

	for _, r := range results {
		diagnostics := r.Diagnostics
		if diagnostics == nil {
			diagnostics = []string{}
		}

		err = batch.Append(r.ID, r.RequestID, r.Source, r.Platform, r.Status.String(), r.Output, diagnostics, r.Error, r.RenderedAt)
		if err != nil {
			return fmt.Errorf("couldn't append result to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("couldn't send batch: %w", err)
	}

	return nil
}
