// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

// Package config loads Centinela's configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values for every setting
//  2. Config File: optional YAML file (config.yaml or CONFIG_PATH)
//  3. Environment Variables: override any mapped setting
//
// Config is immutable after Load() and safe for concurrent read access.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Assets   AssetsConfig   `koanf:"assets"`
	Model    ModelConfig    `koanf:"model"`
	Forecast ForecastConfig `koanf:"forecast"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// AssetsConfig locates the artifacts loaded at startup.
type AssetsConfig struct {
	ModelPath   string `koanf:"model_path"`   // LightGBM dump_model() JSON
	EncoderPath string `koanf:"encoder_path"` // label encoder class list JSON
	DataPath    string `koanf:"data_path"`    // aggregated historical dataset
	DataLoader  string `koanf:"data_loader"`  // csv or duckdb
}

// ModelConfig selects the prediction backend and holds the static model description.
type ModelConfig struct {
	// Backend is "lightgbm" (in-process tree evaluation) or "remote" (HTTP inference service).
	Backend       string        `koanf:"backend"`
	RemoteURL     string        `koanf:"remote_url"`
	RemoteTimeout time.Duration `koanf:"remote_timeout"`

	ModelType         string  `koanf:"model_type"`
	TrainingDataRange string  `koanf:"training_data_range"`
	TargetVariable    string  `koanf:"target_variable"`
	MAE               float64 `koanf:"mae"`
	RMSE              float64 `koanf:"rmse"`
}

// ForecastConfig bounds projection requests.
type ForecastConfig struct {
	DefaultHorizon int `koanf:"default_horizon"`
	MaxHorizon     int `koanf:"max_horizon"`
	MaxCompare     int `koanf:"max_compare"`

	// AuthorRatioThreshold is the publications-per-author ratio below which
	// the projected author count stops being updated.
	AuthorRatioThreshold float64 `koanf:"author_ratio_threshold"`
}

// DatabaseConfig holds DuckDB settings for dataset ingestion.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = use NumCPU
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load loads configuration from defaults, an optional config file and the environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
