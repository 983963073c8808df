// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

package config

import (
	"fmt"
	"net/url"
	"time"
)

// HorizonLimit is the largest projection horizon the service accepts.
const HorizonLimit = 20

// Validate checks that configuration values are present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateAssets(); err != nil {
		return err
	}
	if err := c.validateModel(); err != nil {
		return err
	}
	if err := c.validateForecast(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

var validDataLoaders = map[string]bool{
	"csv":    true,
	"duckdb": true,
}

// validateAssets only checks that paths are set. Missing or unreadable files
// are reported through readiness, not as configuration errors.
func (c *Config) validateAssets() error {
	if c.Assets.EncoderPath == "" {
		return fmt.Errorf("ENCODER_PATH is required")
	}
	if c.Assets.DataPath == "" {
		return fmt.Errorf("DATA_PATH is required")
	}
	if !validDataLoaders[c.Assets.DataLoader] {
		return fmt.Errorf("DATA_LOADER must be one of: csv, duckdb")
	}
	return nil
}

func (c *Config) validateModel() error {
	switch c.Model.Backend {
	case "lightgbm":
		if c.Assets.ModelPath == "" {
			return fmt.Errorf("MODEL_PATH is required when MODEL_BACKEND=lightgbm")
		}
	case "remote":
		if c.Model.RemoteURL == "" {
			return fmt.Errorf("MODEL_REMOTE_URL is required when MODEL_BACKEND=remote")
		}
		if err := validateHTTPURL(c.Model.RemoteURL, "MODEL_REMOTE_URL"); err != nil {
			return err
		}
		if c.Model.RemoteTimeout <= 0 {
			return fmt.Errorf("MODEL_REMOTE_TIMEOUT must be positive")
		}
	default:
		return fmt.Errorf("MODEL_BACKEND must be one of: lightgbm, remote")
	}
	if c.Model.MAE < 0 || c.Model.RMSE < 0 {
		return fmt.Errorf("MODEL_MAE and MODEL_RMSE must not be negative")
	}
	return nil
}

func (c *Config) validateForecast() error {
	f := c.Forecast
	if f.MaxHorizon < 1 || f.MaxHorizon > HorizonLimit {
		return fmt.Errorf("FORECAST_MAX_HORIZON must be between 1 and %d", HorizonLimit)
	}
	if f.DefaultHorizon < 1 || f.DefaultHorizon > f.MaxHorizon {
		return fmt.Errorf("FORECAST_DEFAULT_HORIZON must be between 1 and FORECAST_MAX_HORIZON (%d)", f.MaxHorizon)
	}
	if f.MaxCompare < 1 {
		return fmt.Errorf("FORECAST_MAX_COMPARE must be at least 1")
	}
	if f.AuthorRatioThreshold < 0 {
		return fmt.Errorf("FORECAST_AUTHOR_RATIO_THRESHOLD must not be negative")
	}
	return nil
}

// Rate limit bounds.
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateSecurity() error {
	if c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production; " +
			"set specific origins, e.g. CORS_ORIGINS=https://centinela.epn.edu.ec")
	}
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// validateHTTPURL checks that rawURL is an absolute http(s) URL.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	return nil
}
