// Package storage persists crawled products in Postgres, one table per
// vendor site, keyed by product URL.
package storage

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AlexV384/PD-UVP211/internal/catalog"
)

// Table names are interpolated into DDL/DML, so they are restricted to a
// safe identifier shape.
var tableNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Store writes one site's products. Batch writes from concurrent crawl
// workers are serialized through an explicit lock with an acquisition
// timeout, so a stuck transaction stalls batches instead of piling up
// connections.
type Store struct {
	pool        *pgxpool.Pool
	table       string
	writeLock   chan struct{}
	lockTimeout time.Duration
}

// Options for opening a store. LockTimeout defaults to 30s.
type Options struct {
	LockTimeout time.Duration
}

// New opens a pooled connection for the given site table and verifies
// connectivity.
func New(ctx context.Context, databaseURL, table string, opts Options) (*Store, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	lockTimeout := opts.LockTimeout
	if lockTimeout <= 0 {
		lockTimeout = 30 * time.Second
	}
	s := &Store{
		pool:        pool,
		table:       table,
		writeLock:   make(chan struct{}, 1),
		lockTimeout: lockTimeout,
	}
	return s, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// Table returns the site table this store writes to.
func (s *Store) Table() string {
	return s.table
}

// EnsureSchema creates the site table if it does not exist. product_url
// carries the uniqueness that makes re-crawls idempotent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id SERIAL PRIMARY KEY,
		category TEXT,
		name TEXT,
		description TEXT,
		price TEXT,
		amount TEXT,
		image_url TEXT,
		product_url TEXT UNIQUE
	)`, s.table)
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensuring table %s: %w", s.table, err)
	}
	return nil
}

func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.writeLock <- struct{}{}:
		return nil
	case <-time.After(s.lockTimeout):
		return fmt.Errorf("write lock not acquired within %s", s.lockTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release() {
	<-s.writeLock
}

// SaveBatch inserts one page of records under a section name in a single
// transaction, skipping rows whose product URL is already present and
// dropping out-of-stock records up front. It returns the number of rows
// actually inserted. A lock acquisition timeout fails this batch only.
func (s *Store) SaveBatch(ctx context.Context, section string, records map[string]catalog.ProductRecord) (int, error) {
	inStock := FilterInStock(records)
	if len(inStock) == 0 {
		return 0, nil
	}

	if err := s.acquire(ctx); err != nil {
		return 0, err
	}
	defer s.release()

	if err := s.EnsureSchema(ctx); err != nil {
		return 0, err
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	stmt := fmt.Sprintf(`INSERT INTO %s (category, name, description, price, amount, image_url, product_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (product_url) DO NOTHING`, s.table)

	// Stable insert order keeps runs comparable in the logs.
	keys := make([]string, 0, len(inStock))
	for key := range inStock {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	inserted := 0
	for _, key := range keys {
		rec := inStock[key]
		tag, err := tx.Exec(ctx, stmt,
			section, rec.Name, rec.Description, rec.Price, rec.Amount, rec.ImageURL, rec.ProductURL)
		if err != nil {
			return 0, fmt.Errorf("inserting %s: %w", rec.ProductURL, err)
		}
		inserted += int(tag.RowsAffected())
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing batch: %w", err)
	}
	return inserted, nil
}

// FilterInStock drops records marked out of stock. Exported for the
// sink's callers and tests; the marker match is case-insensitive.
func FilterInStock(records map[string]catalog.ProductRecord) map[string]catalog.ProductRecord {
	out := make(map[string]catalog.ProductRecord, len(records))
	for key, rec := range records {
		if rec.OutOfStock() {
			continue
		}
		out[key] = rec
	}
	return out
}

// LoadAll reads every persisted product of the site in insertion order.
func (s *Store) LoadAll(ctx context.Context) ([]catalog.PersistedProduct, error) {
	query := fmt.Sprintf(`SELECT category, name, description, price, amount, image_url, product_url
		FROM %s ORDER BY id`, s.table)
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", s.table, err)
	}
	defer rows.Close()

	var products []catalog.PersistedProduct
	for rows.Next() {
		var p catalog.PersistedProduct
		if err := rows.Scan(&p.Category, &p.Name, &p.Description, &p.Price, &p.Amount, &p.ImageURL, &p.ProductURL); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", s.table, err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading %s rows: %w", s.table, err)
	}
	return products, nil
}
