// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

// Package database loads the aggregated historical dataset through DuckDB.
//
// DuckDB reads CSV and Parquet exports directly (read_csv_auto, read_parquet),
// which lets operators ship the dataset in whichever format the aggregation
// pipeline produced. The connection is in-memory by default and is only used
// during startup; the resulting observations are handed to series.NewStore.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/config"
	"github.com/PlataformaIntegradaInvestigadores/predictive-model-backend/internal/series"
)

// DB wraps a DuckDB connection used for dataset ingestion.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig
}

// New opens a DuckDB connection using cfg. An empty or ":memory:" path opens
// an in-memory database.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	path := cfg.Path
	if path == ":memory:" {
		path = ""
	}

	// Extensions are never fetched at runtime; CSV and Parquet readers are built in.
	connStr := fmt.Sprintf("%s?threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		path, numThreads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps in-memory state visible to every query.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, cfg: cfg}
	if err := db.Ping(context.Background()); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Conn returns the underlying SQL database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// Ping checks if the database connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// LoadObservationsFile opens a short-lived connection, reads the dataset at
// path and closes the connection again.
func LoadObservationsFile(ctx context.Context, cfg *config.DatabaseConfig, path string) ([]series.Observation, error) {
	db, err := New(cfg)
	if err != nil {
		return nil, err
	}
	defer closeWithLog(db, "duckdb connection")

	return db.LoadObservations(ctx, path)
}
