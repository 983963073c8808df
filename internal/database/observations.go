// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/logging"
	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/series"
)

// ErrUnsupportedFormat is returned for dataset files DuckDB is not asked to read.
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// sourceExpr returns the DuckDB table function reading path.
func sourceExpr(path string) (string, error) {
	quoted := "'" + strings.ReplaceAll(path, "'", "''") + "'"

	name := strings.ToLower(path)
	name = strings.TrimSuffix(name, ".gz")
	name = strings.TrimSuffix(name, ".zst")

	switch filepath.Ext(name) {
	case ".csv", ".tsv", ".txt":
		return fmt.Sprintf("read_csv_auto(%s, header = true)", quoted), nil
	case ".parquet", ".pq":
		return fmt.Sprintf("read_parquet(%s)", quoted), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// quoteIdent quotes a column identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Columns returns the column names DuckDB infers for the dataset at path.
func (db *DB) Columns(ctx context.Context, path string) ([]string, error) {
	src, err := sourceExpr(path)
	if err != nil {
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx, "DESCRIBE SELECT * FROM "+src)
	if err != nil {
		return nil, fmt.Errorf("failed to describe dataset: %w", err)
	}
	defer closeQuietly(rows)

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read describe columns: %w", err)
	}

	var names []string
	for rows.Next() {
		// DESCRIBE yields column_name first; the remaining fields are ignored.
		dest := make([]any, len(cols))
		var name string
		dest[0] = &name
		for i := 1; i < len(dest); i++ {
			dest[i] = new(any)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan dataset column: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate dataset columns: %w", err)
	}
	return names, nil
}

// LoadObservations reads every (affiliation, year) row of the dataset at path.
// A dataset missing a required column fails with series.ErrMissingColumn and
// a fractional count fails with series.ErrNonIntegralCount. Rows are not
// aggregated; duplicate (affiliation, year) pairs are rejected by series.NewStore.
func (db *DB) LoadObservations(ctx context.Context, path string) ([]series.Observation, error) {
	src, err := sourceExpr(path)
	if err != nil {
		return nil, err
	}

	cols, err := db.Columns(ctx, path)
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(cols))
	for _, c := range cols {
		present[c] = true
	}
	for _, req := range series.RequiredColumns {
		if !present[req] {
			return nil, fmt.Errorf("%w: %s", series.ErrMissingColumn, req)
		}
	}

	query := fmt.Sprintf(`SELECT
		CAST(%s AS VARCHAR),
		CAST(%s AS DOUBLE),
		CAST(%s AS DOUBLE),
		CAST(%s AS DOUBLE)
	FROM %s`,
		quoteIdent(series.ColumnAffiliation),
		quoteIdent(series.ColumnYear),
		quoteIdent(series.ColumnPublications),
		quoteIdent(series.ColumnAuthors),
		src)

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query dataset: %w", err)
	}
	defer closeQuietly(rows)

	var out []series.Observation
	for rows.Next() {
		var (
			name                sql.NullString
			year, pubs, authors sql.NullFloat64
		)
		if err := rows.Scan(&name, &year, &pubs, &authors); err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		row := len(out) + 1
		if !name.Valid || !year.Valid || !pubs.Valid || !authors.Valid {
			return nil, fmt.Errorf("%w: row %d contains NULL values", series.ErrInvalidObservation, row)
		}

		// Names are kept verbatim; counts follow the CSV loader's integral rule.
		obs := series.Observation{Affiliation: name.String}
		fields := []struct {
			col string
			src float64
			dst *int
		}{
			{series.ColumnYear, year.Float64, &obs.Year},
			{series.ColumnPublications, pubs.Float64, &obs.Publications},
			{series.ColumnAuthors, authors.Float64, &obs.Authors},
		}
		for _, f := range fields {
			v, err := series.IntegralCount(f.src)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %s: %w", row, f.col, err)
			}
			*f.dst = v
		}
		out = append(out, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate observations: %w", err)
	}

	logging.Debug().
		Str("path", path).
		Int("rows", len(out)).
		Msg("Historical dataset read through DuckDB")

	return out, nil
}
