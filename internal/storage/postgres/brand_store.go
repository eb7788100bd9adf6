// Package postgres persists brand contexts in Postgres.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JakeFAU/storefront-insights/internal/brand"
)

// DefaultTable holds one row per website URL.
const DefaultTable = "brand_contexts"

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Config controls the Postgres connection pool.
type Config struct {
	DSN             string
	Table           string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type pool interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	QueryRow(context.Context, string, ...any) pgx.Row
	Close()
}

// BrandStore upserts brand contexts keyed by website URL.
type BrandStore struct {
	pool  pool
	table string
}

// NewBrandStore connects a pgxpool using cfg.
func NewBrandStore(ctx context.Context, cfg Config) (*BrandStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database.dsn is required")
	}
	table, err := tableName(cfg.Table)
	if err != nil {
		return nil, err
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	p, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &BrandStore{pool: p, table: table}, nil
}

// NewBrandStoreWithPool constructs a store from an existing pool (primarily for testing).
func NewBrandStoreWithPool(p pool, table string) (*BrandStore, error) {
	if p == nil {
		return nil, fmt.Errorf("pool is required")
	}
	name, err := tableName(table)
	if err != nil {
		return nil, err
	}
	return &BrandStore{pool: p, table: name}, nil
}

func tableName(table string) (string, error) {
	if table == "" {
		table = DefaultTable
	}
	if !validTableName.MatchString(table) {
		return "", fmt.Errorf("invalid table name %q", table)
	}
	return table, nil
}

// Close releases the underlying pool resources.
func (s *BrandStore) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// EnsureSchema creates the table when it does not exist.
func (s *BrandStore) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	id                 BIGSERIAL PRIMARY KEY,
	website_url        TEXT NOT NULL UNIQUE,
	brand_name         TEXT,
	extraction_success BOOLEAN NOT NULL,
	total_products     INTEGER NOT NULL,
	analysis_timestamp TIMESTAMPTZ NOT NULL,
	context            JSONB NOT NULL,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
)`, s.table)
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("create %s table: %w", s.table, err)
	}
	return nil
}

// Save upserts bc by website URL and returns the row ID.
func (s *BrandStore) Save(ctx context.Context, bc *brand.Context) (int64, error) {
	if bc == nil || bc.WebsiteURL == "" {
		return 0, fmt.Errorf("website url is required")
	}
	doc, err := json.Marshal(bc)
	if err != nil {
		return 0, fmt.Errorf("marshal brand context: %w", err)
	}
	query := fmt.Sprintf(`
INSERT INTO %s (
	website_url,
	brand_name,
	extraction_success,
	total_products,
	analysis_timestamp,
	context
) VALUES (
	$1,$2,$3,$4,$5,$6
)
ON CONFLICT (website_url) DO UPDATE SET
	brand_name = EXCLUDED.brand_name,
	extraction_success = EXCLUDED.extraction_success,
	total_products = EXCLUDED.total_products,
	analysis_timestamp = EXCLUDED.analysis_timestamp,
	context = EXCLUDED.context,
	updated_at = now()
RETURNING id`, s.table)

	var id int64
	err = s.pool.QueryRow(ctx, query,
		bc.WebsiteURL,
		bc.BrandName,
		bc.ExtractionSuccess,
		bc.TotalProducts,
		bc.AnalysisTimestamp,
		doc,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert brand context: %w", err)
	}
	return id, nil
}

// Get loads the stored context for websiteURL or brand.ErrNotFound.
func (s *BrandStore) Get(ctx context.Context, websiteURL string) (*brand.Context, error) {
	query := fmt.Sprintf(`SELECT context FROM %s WHERE website_url = $1`, s.table)
	var doc []byte
	if err := s.pool.QueryRow(ctx, query, websiteURL).Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, brand.ErrNotFound
		}
		return nil, fmt.Errorf("select brand context: %w", err)
	}
	var bc brand.Context
	if err := json.Unmarshal(doc, &bc); err != nil {
		return nil, fmt.Errorf("unmarshal brand context: %w", err)
	}
	return &bc, nil
}
