// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

/*
Package main is the entry point for the Centinela forecasting server.

Centinela serves multi-year projections and growth rankings of the scientific
output of research affiliations. Predictions come from a gradient-boosted
regression model applied iteratively, one year at a time.

# Application Architecture

	RootSupervisor ("centinela")
	└── APISupervisor ("api-layer")
	    └── HTTP Server (Chi router)

Startup order:

 1. Configuration: Koanf v2 with defaults, an optional config file and environment variables
 2. Logging: zerolog with JSON/console output modes
 3. Assets: label encoder, historical dataset (CSV or DuckDB) and model (LightGBM dump or remote)
 4. Engine: forecast.Engine over the loaded assets
 5. HTTP Server: Chi router with CORS, rate limiting and Prometheus metrics
 6. Supervisor Tree: Suture v4 process supervision

A failure in step 3 does not stop the server. It starts in degraded mode:
/api/v1/health/ready answers 503 and forecast endpoints answer
SERVICE_UNAVAILABLE until the process is restarted with valid assets.

# Configuration

Common environment variables:

	HTTP_PORT         listen port (default 8000)
	MODEL_PATH        LightGBM dump_model() JSON
	ENCODER_PATH      label encoder class list JSON
	DATA_PATH         aggregated historical dataset
	DATA_LOADER       csv or duckdb
	MODEL_BACKEND     lightgbm or remote
	MODEL_REMOTE_URL  inference service URL for the remote backend
	CORS_ORIGINS      comma-separated allowed origins (default *)
	LOG_LEVEL         trace, debug, info, warn, error
	CONFIG_PATH       explicit config file path

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server stops accepting
connections and drains in-flight requests within SHUTDOWN_TIMEOUT.
*/
package main
