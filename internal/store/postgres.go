// Package store reads the four legislative tables out of PostgreSQL.
// It is the only part of the backend that touches I/O; everything
// downstream works on the materialized rows it returns.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"legisboard/internal/config"
)

const (
	TableMociones  = "mociones"
	TableCoautores = "coautores"
	TableDiputados = "dim_diputados"
	TableAnalisis  = "analisis_ia"
)

// RawTables holds one full read of the corpus, rows as open maps with
// whatever column names the store uses. Column-name drift is expected
// here; the normalize package deals with it.
type RawTables struct {
	Mociones   []map[string]any
	Coautores  []map[string]any
	Diputados  []map[string]any
	AnalisisIA []map[string]any
}

// Postgres is the dashboard's datasource.
type Postgres struct {
	db *sql.DB
}

// Open connects and pings the database.
func Open(cfg config.Database) (*Postgres, error) {
	db, err := sql.Open("postgres", cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// FetchAll reads the four tables concurrently. Either all four come
// back or the whole fetch fails; there is no partial result.
func (p *Postgres) FetchAll(ctx context.Context) (RawTables, error) {
	var tables RawTables

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		tables.Mociones, err = p.queryAll(ctx, TableMociones)
		return err
	})
	g.Go(func() (err error) {
		tables.Coautores, err = p.queryAll(ctx, TableCoautores)
		return err
	})
	g.Go(func() (err error) {
		tables.Diputados, err = p.queryAll(ctx, TableDiputados)
		return err
	})
	g.Go(func() (err error) {
		tables.AnalisisIA, err = p.queryAll(ctx, TableAnalisis)
		return err
	})

	if err := g.Wait(); err != nil {
		return RawTables{}, err
	}
	return tables, nil
}

// Counts returns the row count of each table; used by the check
// command.
func (p *Postgres) Counts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, 4)
	for _, table := range []string{TableMociones, TableCoautores, TableDiputados, TableAnalisis} {
		var n int
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
		if err := p.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
			return nil, fmt.Errorf("counting %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// queryAll reads an entire table into generic row maps. Byte slices
// are converted to strings so downstream code only ever sees strings,
// numbers, times and nils.
func (p *Postgres) queryAll(ctx context.Context, table string) ([]map[string]any, error) {
	query := fmt.Sprintf("SELECT * FROM %s", table)
	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns of %s: %w", table, err)
	}

	var result []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", table, err)
		}

		rowMap := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				rowMap[col] = string(b)
			} else {
				rowMap[col] = values[i]
			}
		}
		result = append(result, rowMap)
	}
	return result, rows.Err()
}
