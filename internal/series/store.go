// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

// Package series holds the historical yearly publication series of every
// affiliation.
//
// A Store is built once from loaded observations and is read-only afterwards.
// Series are always returned in ascending year order regardless of the order
// the observations were loaded in, with one point per year between the first
// and last observed year. The aggregated export has no row for a year without
// publications, so such years are filled with zero counts.
package series

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// Required dataset columns.
const (
	ColumnAffiliation  = "affiliation_name"
	ColumnYear         = "year"
	ColumnPublications = "publication_count"
	ColumnAuthors      = "distinct_authors"
)

// RequiredColumns lists every column a historical dataset must provide.
var RequiredColumns = []string{ColumnAffiliation, ColumnYear, ColumnPublications, ColumnAuthors}

var (
	// ErrMissingColumn is returned when the dataset lacks a required column.
	ErrMissingColumn = errors.New("historical dataset is missing a required column")

	// ErrDuplicateObservation is returned when an (affiliation, year) pair appears twice.
	ErrDuplicateObservation = errors.New("duplicate observation")

	// ErrNonIntegralCount is returned for count or year cells that are not whole numbers.
	ErrNonIntegralCount = errors.New("non-integral count")

	// ErrInvalidObservation is returned for rows with negative counts or an empty affiliation.
	ErrInvalidObservation = errors.New("invalid observation")
)

// Observation is one aggregated (affiliation, year) row.
type Observation struct {
	Affiliation  string `json:"affiliation_name"`
	Year         int    `json:"year"`
	Publications int    `json:"publication_count"`
	Authors      int    `json:"distinct_authors"`
}

// Validate checks the per-row invariants.
func (o Observation) Validate() error {
	if o.Affiliation == "" {
		return fmt.Errorf("%w: empty affiliation at year %d", ErrInvalidObservation, o.Year)
	}
	if o.Publications < 0 || o.Authors < 0 {
		return fmt.Errorf("%w: %q %d has negative counts (publications=%d, authors=%d)",
			ErrInvalidObservation, o.Affiliation, o.Year, o.Publications, o.Authors)
	}
	return nil
}

// Store is an immutable per-affiliation index of observations.
// It is safe for concurrent use.
type Store struct {
	byAffiliation map[string][]Observation
	total         int
}

// NewStore validates and indexes observations. Each affiliation's rows are
// sorted by ascending year and missing years inside the observed range are
// filled with zero publications and zero authors.
func NewStore(observations []Observation) (*Store, error) {
	s := &Store{byAffiliation: make(map[string][]Observation), total: len(observations)}

	for _, obs := range observations {
		if err := obs.Validate(); err != nil {
			return nil, err
		}
		s.byAffiliation[obs.Affiliation] = append(s.byAffiliation[obs.Affiliation], obs)
	}

	for name, rows := range s.byAffiliation {
		slices.SortFunc(rows, func(a, b Observation) int { return cmp.Compare(a.Year, b.Year) })
		for i := 1; i < len(rows); i++ {
			if rows[i].Year == rows[i-1].Year {
				return nil, fmt.Errorf("%w: %q year %d", ErrDuplicateObservation, name, rows[i].Year)
			}
		}
		s.byAffiliation[name] = fillGaps(rows)
	}

	return s, nil
}

// Series returns the observations of an affiliation in ascending year order.
// The result is empty (never nil) when the affiliation has no rows.
func (s *Store) Series(affiliation string) []Observation {
	rows := s.byAffiliation[affiliation]
	out := make([]Observation, len(rows))
	copy(out, rows)
	return out
}

// Last returns the most recent observation of an affiliation.
func (s *Store) Last(affiliation string) (Observation, bool) {
	rows := s.byAffiliation[affiliation]
	if len(rows) == 0 {
		return Observation{}, false
	}
	return rows[len(rows)-1], true
}

// Affiliations returns the number of affiliations with at least one row.
func (s *Store) Affiliations() int {
	return len(s.byAffiliation)
}

// Len returns the number of loaded observations. Filled years are not counted.
func (s *Store) Len() int {
	return s.total
}

// fillGaps returns sorted rows with a zero observation for every missing year.
func fillGaps(rows []Observation) []Observation {
	first, last := rows[0].Year, rows[len(rows)-1].Year
	if last-first+1 == len(rows) {
		return rows
	}

	out := make([]Observation, 0, last-first+1)
	for _, obs := range rows {
		if len(out) > 0 {
			for year := out[len(out)-1].Year + 1; year < obs.Year; year++ {
				out = append(out, Observation{Affiliation: obs.Affiliation, Year: year})
			}
		}
		out = append(out, obs)
	}
	return out
}
