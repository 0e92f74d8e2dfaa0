package vector

import (
	"context"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/xxxsen/ernexus/internal/model"
)

type pgvectorConfig struct {
	DSN   string `json:"dsn"`
	Table string `json:"table"`
}

type pgvectorDriver struct {
	db    *sqlx.DB
	table string

	mu   sync.Mutex
	dims int
}

func init() {
	Register("pgvector", createPgvectorDriver)
}

func createPgvectorDriver(args interface{}) (Driver, error) {
	config := &pgvectorConfig{}
	if err := decodeConfig(args, config); err != nil {
		return nil, err
	}
	if config.DSN == "" {
		return nil, fmt.Errorf("pgvector dsn is required")
	}
	if config.Table == "" {
		config.Table = "summary_entries"
	}
	db, err := sqlx.Open("postgres", config.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if _, err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure pgvector extension: %w", err)
	}
	return &pgvectorDriver{db: db, table: config.Table}, nil
}

// ensureTable creates the entries table on first use; the embedding column
// dimension is only known once the first batch arrives.
func (d *pgvectorDriver) ensureTable(ctx context.Context, dims int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dims == dims {
		return nil
	}
	ddl := fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			modality TEXT NOT NULL,
			summary TEXT NOT NULL,
			embedding vector(%d) NOT NULL
		)`, d.table, dims)
	if _, err := d.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", d.table, err)
	}
	d.dims = dims
	return nil
}

func (d *pgvectorDriver) Add(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := d.ensureTable(ctx, len(entries[0].Embedding)); err != nil {
		return err
	}
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()
	stmt := fmt.Sprintf(
		`INSERT INTO %s (id, modality, summary, embedding) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET modality = $2, summary = $3, embedding = $4`, d.table)
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, stmt, e.ID, string(e.Modality), e.Summary, pgvector.NewVector(e.Embedding)); err != nil {
			return fmt.Errorf("insert entry %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

func (d *pgvectorDriver) Query(ctx context.Context, embedding []float32, topK int) ([]Hit, error) {
	d.mu.Lock()
	ready := d.dims > 0
	d.mu.Unlock()
	if !ready {
		return nil, ErrNotReady
	}
	query := fmt.Sprintf(
		`SELECT id, modality, 1 - (embedding <=> $1) AS score
		 FROM %s ORDER BY embedding <=> $1 LIMIT $2`, d.table)
	rows, err := d.db.QueryxContext(ctx, query, pgvector.NewVector(embedding), topK)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", d.table, err)
	}
	defer rows.Close()
	var hits []Hit
	for rows.Next() {
		var id, modality string
		var score float32
		if err := rows.Scan(&id, &modality, &score); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		hits = append(hits, Hit{ID: id, Modality: model.Modality(modality), Score: score})
	}
	return hits, rows.Err()
}

func (d *pgvectorDriver) Reset(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", d.table)); err != nil {
		return fmt.Errorf("drop table %s: %w", d.table, err)
	}
	d.dims = 0
	return nil
}

func (d *pgvectorDriver) Close() error {
	return d.db.Close()
}
