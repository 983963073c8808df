// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

package series

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// LoadCSV reads observations from a CSV file with a header row.
func LoadCSV(filename string) ([]Observation, error) {
	file, err := os.Open(filename) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open historical dataset: %w", err)
	}
	defer file.Close()

	return LoadCSVFromReader(file)
}

// LoadCSVFromReader reads observations from r. Columns are located by header
// name; extra columns are ignored and a missing required column is an error
// wrapping ErrMissingColumn. Affiliation names are kept byte for byte so they
// match the encoder classes.
func LoadCSVFromReader(r io.Reader) ([]Observation, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("historical dataset is empty")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	idx := make(map[string]int, len(RequiredColumns))
	for i, h := range header {
		h = strings.TrimSpace(strings.Trim(h, "\""))
		// Tolerate a UTF-8 BOM on the first column.
		h = strings.TrimPrefix(h, "\ufeff")
		idx[h] = i
	}
	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	var out []Observation
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		obs := Observation{Affiliation: record[idx[ColumnAffiliation]]}
		fields := []struct {
			col string
			dst *int
		}{
			{ColumnYear, &obs.Year},
			{ColumnPublications, &obs.Publications},
			{ColumnAuthors, &obs.Authors},
		}
		for _, f := range fields {
			v, err := parseCount(record[idx[f.col]])
			if err != nil {
				return nil, fmt.Errorf("line %d, column %s: %w", line, f.col, err)
			}
			*f.dst = v
		}
		out = append(out, obs)
	}

	return out, nil
}

// parseCount accepts integers and integral floats ("12" or "12.0"), the two
// forms aggregated exports produce.
func parseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return IntegralCount(f)
}

// IntegralCount converts a numeric cell to an int. Fractional, non-finite
// and out-of-range values are rejected with ErrNonIntegralCount.
func IntegralCount(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %v", ErrNonIntegralCount, f)
	}
	return int(f), nil
}
