// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the locations searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/centinela/config.yaml",
	"/etc/centinela/config.yml",
}

// ConfigPathEnvVar names the environment variable that points at an explicit config file.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8000,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Assets: AssetsConfig{
			ModelPath:   "models/lgbm_model.json",
			EncoderPath: "models/affiliation_encoder.json",
			DataPath:    "data/processed_data.csv",
			DataLoader:  "csv",
		},
		Model: ModelConfig{
			Backend:           "lightgbm",
			RemoteURL:         "",
			RemoteTimeout:     5 * time.Second,
			ModelType:         "LightGBM Regressor",
			TrainingDataRange: "historical data up to 2021",
			TargetVariable:    "publications next year",
			MAE:               2.20,
			RMSE:              4.67,
		},
		Forecast: ForecastConfig{
			DefaultHorizon:       5,
			MaxHorizon:           20,
			MaxCompare:           25,
			AuthorRatioThreshold: 1e-3,
		},
		Database: DatabaseConfig{
			Path:      ":memory:",
			MaxMemory: "512MB",
			Threads:   0,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"https://centinela.epn.edu.ec", "http://localhost:4200"},
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads defaults, then the config file, then environment
// overrides, and validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are settings that accept comma-separated environment values.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to config paths.
var envMappings = map[string]string{
	"http_port":        "server.port",
	"http_host":        "server.host",
	"read_timeout":     "server.read_timeout",
	"write_timeout":    "server.write_timeout",
	"idle_timeout":     "server.idle_timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	"model_path":   "assets.model_path",
	"encoder_path": "assets.encoder_path",
	"data_path":    "assets.data_path",
	"data_loader":  "assets.data_loader",

	"model_backend":        "model.backend",
	"model_remote_url":     "model.remote_url",
	"model_remote_timeout": "model.remote_timeout",
	"model_type":           "model.model_type",
	"model_training_range": "model.training_data_range",
	"model_target":         "model.target_variable",
	"model_mae":            "model.mae",
	"model_rmse":           "model.rmse",

	"forecast_default_horizon":        "forecast.default_horizon",
	"forecast_max_horizon":            "forecast.max_horizon",
	"forecast_max_compare":            "forecast.max_compare",
	"forecast_author_ratio_threshold": "forecast.author_ratio_threshold",

	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable to its config path.
// Unmapped variables return "" so unrelated environment entries never leak into config.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
