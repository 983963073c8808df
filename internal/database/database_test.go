// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/config"
	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/series"
)

// testDBSemaphore serializes DuckDB usage across parallel tests; concurrent
// CGO connections are prone to contention under CI resource pressure.
var testDBSemaphore = make(chan struct{}, 1)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	db, err := New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "256MB", Threads: 1})
	require.NoError(t, err)
	t.Cleanup(func() { closeQuietly(db) })
	return db
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSourceExpr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"data.csv", "read_csv_auto('data.csv', header = true)", false},
		{"data.CSV.gz", "read_csv_auto('data.CSV.gz', header = true)", false},
		{"data.parquet", "read_parquet('data.parquet')", false},
		{"it's.csv", "read_csv_auto('it''s.csv', header = true)", false},
		{"data.xlsx", "", true},
	}

	for _, tt := range tests {
		got, err := sourceExpr(tt.path)
		if tt.wantErr {
			require.ErrorIs(t, err, ErrUnsupportedFormat)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}
}

func TestLoadObservations_CSV(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)

	path := writeFile(t, "history.csv",
		"affiliation_name,year,publication_count,distinct_authors,region\n"+
			"Org A,2020,15,5,north\n"+
			"Org A,2019,10,5,north\n"+
			"Org B,2020,0,0,south\n")

	obs, err := db.LoadObservations(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, obs, 3)

	store, err := series.NewStore(obs)
	require.NoError(t, err)
	rows := store.Series("Org A")
	require.Equal(t, 2019, rows[0].Year)
	require.Equal(t, 15, rows[1].Publications)
}

func TestLoadObservations_MissingColumn(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)

	path := writeFile(t, "history.csv",
		"affiliation_name,year,publication_count\n"+
			"Org A,2020,15\n")

	_, err := db.LoadObservations(context.Background(), path)
	require.ErrorIs(t, err, series.ErrMissingColumn)
}

func TestLoadObservations_NullValue(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)

	path := writeFile(t, "history.csv",
		"affiliation_name,year,publication_count,distinct_authors\n"+
			"Org A,2020,15,\n")

	_, err := db.LoadObservations(context.Background(), path)
	require.ErrorIs(t, err, series.ErrInvalidObservation)
}

func TestLoadObservationsFile(t *testing.T) {
	t.Parallel()

	testDBSemaphore <- struct{}{}
	defer func() { <-testDBSemaphore }()

	path := writeFile(t, "history.csv",
		"affiliation_name,year,publication_count,distinct_authors\n"+
			"Org A,2020,15,5\n")

	obs, err := LoadObservationsFile(context.Background(),
		&config.DatabaseConfig{Path: ":memory:", MaxMemory: "256MB", Threads: 1}, path)
	require.NoError(t, err)
	require.Equal(t, []series.Observation{{Affiliation: "Org A", Year: 2020, Publications: 15, Authors: 5}}, obs)
}

func TestLoadObservations_Parquet(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)

	path := filepath.Join(t.TempDir(), "history.parquet")
	_, err := db.Conn().ExecContext(context.Background(), `COPY (
		SELECT 'Org A' AS affiliation_name, 2021 AS year, 7 AS publication_count, 3 AS distinct_authors
	) TO '`+path+`' (FORMAT PARQUET)`)
	require.NoError(t, err)

	obs, err := db.LoadObservations(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, []series.Observation{{Affiliation: "Org A", Year: 2021, Publications: 7, Authors: 3}}, obs)
}

func TestLoadObservations_FractionalCount(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)

	path := writeFile(t, "history.csv",
		"affiliation_name,year,publication_count,distinct_authors\n"+
			"Org A,2019,10,5\n"+
			"Org A,2020,15.5,5\n")

	_, err := db.LoadObservations(context.Background(), path)
	require.ErrorIs(t, err, series.ErrNonIntegralCount)
	require.Contains(t, err.Error(), series.ColumnPublications)
}

func TestLoadObservations_KeepsNameWhitespace(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)

	path := filepath.Join(t.TempDir(), "history.parquet")
	_, err := db.Conn().ExecContext(context.Background(), `COPY (
		SELECT 'Org A ' AS affiliation_name, 2020 AS year, 15 AS publication_count, 5 AS distinct_authors
	) TO '`+path+`' (FORMAT PARQUET)`)
	require.NoError(t, err)

	obs, err := db.LoadObservations(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, []series.Observation{{Affiliation: "Org A ", Year: 2020, Publications: 15, Authors: 5}}, obs)
}
