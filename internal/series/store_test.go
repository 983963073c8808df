// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

package series

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewStore_SortsByYear(t *testing.T) {
	t.Parallel()

	store, err := NewStore([]Observation{
		{"Org A", 2021, 20, 6},
		{"Org B", 2020, 3, 1},
		{"Org A", 2019, 10, 5},
		{"Org A", 2020, 15, 5},
	})
	require.NoError(t, err)

	rows := store.Series("Org A")
	require.Len(t, rows, 3)
	for i, want := range []int{2019, 2020, 2021} {
		require.Equal(t, want, rows[i].Year)
	}

	last, ok := store.Last("Org A")
	require.True(t, ok)
	require.Equal(t, 20, last.Publications)

	require.Equal(t, 2, store.Affiliations())
	require.Equal(t, 4, store.Len())
}

func TestStore_SeriesEmptyAndCopy(t *testing.T) {
	t.Parallel()

	store, err := NewStore([]Observation{{"Org A", 2020, 1, 1}})
	require.NoError(t, err)

	empty := store.Series("Org Z")
	require.NotNil(t, empty)
	require.Empty(t, empty)

	_, ok := store.Last("Org Z")
	require.False(t, ok)

	rows := store.Series("Org A")
	rows[0].Publications = 999
	require.Equal(t, 1, store.Series("Org A")[0].Publications)
}

func TestNewStore_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		obs  []Observation
		want error
	}{
		{"duplicate year", []Observation{{"A", 2020, 1, 1}, {"A", 2020, 2, 2}}, ErrDuplicateObservation},
		{"negative publications", []Observation{{"A", 2020, -1, 1}}, ErrInvalidObservation},
		{"negative authors", []Observation{{"A", 2020, 1, -1}}, ErrInvalidObservation},
		{"empty affiliation", []Observation{{"", 2020, 1, 1}}, ErrInvalidObservation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewStore(tt.obs)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadCSVFromReader(t *testing.T) {
	t.Parallel()

	data := "\ufeffyear,affiliation_name,publication_count,distinct_authors,extra\n" +
		"2019,Org A,10,5,x\n" +
		"2020,\"Org A\",15.0,5,y\n" +
		"2020,Org B,0,0,z\n"

	obs, err := LoadCSVFromReader(strings.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, []Observation{
		{"Org A", 2019, 10, 5},
		{"Org A", 2020, 15, 5},
		{"Org B", 2020, 0, 0},
	}, obs)
}

func TestLoadCSVFromReader_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		missing bool
	}{
		{"missing authors column", "affiliation_name,year,publication_count\nA,2020,1\n", true},
		{"empty", "", false},
		{"bad number", "affiliation_name,year,publication_count,distinct_authors\nA,2020,abc,1\n", false},
		{"fractional count", "affiliation_name,year,publication_count,distinct_authors\nA,2020,1.5,1\n", false},
		{"fractional year", "affiliation_name,year,publication_count,distinct_authors\nA,2020.5,1,1\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadCSVFromReader(strings.NewReader(tt.data))
			require.Error(t, err)
			if tt.missing {
				require.ErrorIs(t, err, ErrMissingColumn)
			}
		})
	}
}

func TestNewStore_FillsMissingYears(t *testing.T) {
	t.Parallel()

	store, err := NewStore([]Observation{
		{"Org A", 2021, 20, 6},
		{"Org A", 2018, 10, 5},
		{"Org B", 2020, 3, 1},
	})
	require.NoError(t, err)

	require.Equal(t, []Observation{
		{"Org A", 2018, 10, 5},
		{"Org A", 2019, 0, 0},
		{"Org A", 2020, 0, 0},
		{"Org A", 2021, 20, 6},
	}, store.Series("Org A"))

	last, ok := store.Last("Org A")
	require.True(t, ok)
	require.Equal(t, 2021, last.Year)

	// Filled years are not loaded observations.
	require.Equal(t, 3, store.Len())
}

func TestLoadCSVFromReader_KeepsNameWhitespace(t *testing.T) {
	t.Parallel()

	data := "affiliation_name,year,publication_count,distinct_authors\n" +
		"Org A ,2020,15,5\n" +
		"\" Org B\",2020,3,1\n"

	obs, err := LoadCSVFromReader(strings.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, []Observation{
		{"Org A ", 2020, 15, 5},
		{" Org B", 2020, 3, 1},
	}, obs)

	store, err := NewStore(obs)
	require.NoError(t, err)
	require.Len(t, store.Series("Org A "), 1)
	require.Empty(t, store.Series("Org A"))
}

func TestIntegralCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      float64
		want    int
		wantErr bool
	}{
		{12, 12, false},
		{0, 0, false},
		{-3, -3, false},
		{12.5, 0, true},
		{math.NaN(), 0, true},
		{math.Inf(1), 0, true},
		{1e12, 0, true},
	}

	for _, tt := range tests {
		got, err := IntegralCount(tt.in)
		if tt.wantErr {
			require.ErrorIs(t, err, ErrNonIntegralCount, "IntegralCount(%v)", tt.in)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}
}
