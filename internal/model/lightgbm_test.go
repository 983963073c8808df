// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

package model

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// twoTreeDump is a minimal dump_model() document: the first tree splits on
// publication_count, the second on distinct_authors.
const twoTreeDump = `{
  "name": "tree",
  "version": "v4",
  "num_class": 1,
  "objective": "regression",
  "average_output": false,
  "feature_names": ["year", "affiliation_encoded", "publication_count", "distinct_authors"],
  "tree_info": [
    {
      "tree_index": 0,
      "shrinkage": 1,
      "tree_structure": {
        "split_index": 0,
        "split_feature": 2,
        "threshold": 12.5,
        "decision_type": "<=",
        "default_left": true,
        "missing_type": "None",
        "left_child": {"leaf_index": 0, "leaf_value": 10},
        "right_child": {"leaf_index": 1, "leaf_value": 20}
      }
    },
    {
      "tree_index": 1,
      "shrinkage": 0.1,
      "tree_structure": {
        "split_index": 0,
        "split_feature": 3,
        "threshold": 4.5,
        "decision_type": "<=",
        "default_left": true,
        "missing_type": "Zero",
        "left_child": {"leaf_index": 0, "leaf_value": -1.5},
        "right_child": {"leaf_index": 1, "leaf_value": 1.5}
      }
    }
  ],
  "feature_importances": {"publication_count": 7, "distinct_authors": 3}
}`

func TestDecodeLightGBM_Predict(t *testing.T) {
	t.Parallel()

	e, err := DecodeLightGBM(strings.NewReader(twoTreeDump))
	require.NoError(t, err)
	require.Equal(t, 2, e.NumTrees())

	tests := []struct {
		name string
		f    Features
		want float64
	}{
		{"low pubs few authors", Features{Year: 2022, PriorPublications: 10, PriorAuthors: 3}, 8.5},
		{"high pubs many authors", Features{Year: 2022, PriorPublications: 15, PriorAuthors: 5}, 21.5},
		{"threshold is inclusive", Features{Year: 2022, PriorPublications: 12, PriorAuthors: 9}, 11.5},
		// Zero is treated as missing and follows default_left.
		{"zero authors take default branch", Features{Year: 2022, PriorPublications: 15, PriorAuthors: 0}, 18.5},
	}

	for _, tt := range tests {
		got, err := e.Predict(context.Background(), tt.f)
		require.NoError(t, err, tt.name)
		require.InDelta(t, tt.want, got, 1e-9, tt.name)
	}

	imp := e.FeatureImportances()
	require.Equal(t, 7.0, imp["publication_count"])
	require.Equal(t, 3.0, imp["distinct_authors"])
	require.Equal(t, 0.0, imp["year"])
	require.Len(t, imp, 4)
}

func TestDecodeLightGBM_CategoricalAndAverage(t *testing.T) {
	t.Parallel()

	doc := `{
	  "objective": "regression",
	  "average_output": true,
	  "feature_names": ["Column_0", "Column_1", "Column_2", "Column_3"],
	  "tree_info": [
	    {"tree_index": 0, "tree_structure": {
	      "split_feature": 1, "threshold": "2||5", "decision_type": "==",
	      "default_left": false, "missing_type": "None",
	      "left_child": {"leaf_value": 100},
	      "right_child": {"leaf_value": 0}
	    }},
	    {"tree_index": 1, "tree_structure": {"leaf_value": 50}}
	  ]
	}`

	e, err := DecodeLightGBM(strings.NewReader(doc))
	require.NoError(t, err)

	in, err := e.Predict(context.Background(), Features{AffiliationCode: 5})
	require.NoError(t, err)
	require.InDelta(t, 75.0, in, 1e-9)

	out, err := e.Predict(context.Background(), Features{AffiliationCode: 3})
	require.NoError(t, err)
	require.InDelta(t, 25.0, out, 1e-9)

	// Split counts stand in for importances when the dump has none.
	require.Equal(t, 1.0, e.FeatureImportances()[FeatureAffiliation])
}

func TestDecodeLightGBM_PoissonObjective(t *testing.T) {
	t.Parallel()

	doc := `{
	  "objective": "poisson max_delta_step:0.7",
	  "feature_names": ["year", "affiliation_encoded", "publication_count", "distinct_authors"],
	  "tree_info": [{"tree_index": 0, "tree_structure": {"leaf_value": 2}}]
	}`
	e, err := DecodeLightGBM(strings.NewReader(doc))
	require.NoError(t, err)

	got, err := e.Predict(context.Background(), Features{})
	require.NoError(t, err)
	require.InDelta(t, math.Exp(2), got, 1e-9)
}

func TestDecodeLightGBM_ReorderedFeatures(t *testing.T) {
	t.Parallel()

	doc := `{
	  "feature_names": ["distinct_authors", "publication_count", "affiliation_encoded", "year"],
	  "tree_info": [{"tree_index": 0, "tree_structure": {
	    "split_feature": 0, "threshold": 4.5, "decision_type": "<=",
	    "left_child": {"leaf_value": 1}, "right_child": {"leaf_value": 2}
	  }}]
	}`
	e, err := DecodeLightGBM(strings.NewReader(doc))
	require.NoError(t, err)

	got, err := e.Predict(context.Background(), Features{Year: 2000, PriorAuthors: 10})
	require.NoError(t, err)
	require.Equal(t, 2.0, got)
}

func TestDecodeLightGBM_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"malformed", `{`},
		{"no trees", `{"feature_names": ["year","affiliation_encoded","publication_count","distinct_authors"], "tree_info": []}`},
		{"multiclass", `{"num_class": 3, "tree_info": [{"tree_structure": {"leaf_value": 1}}]}`},
		{"wrong feature count", `{"feature_names": ["year"], "tree_info": [{"tree_structure": {"leaf_value": 1}}]}`},
		{"unknown feature", `{"feature_names": ["year","affiliation_encoded","publication_count","budget"], "tree_info": [{"tree_structure": {"leaf_value": 1}}]}`},
		{"split out of range", `{"feature_names": ["year","affiliation_encoded","publication_count","distinct_authors"], "tree_info": [{"tree_structure": {
			"split_feature": 9, "threshold": 1, "decision_type": "<=", "left_child": {"leaf_value": 1}, "right_child": {"leaf_value": 2}}}]}`},
		{"missing child", `{"feature_names": ["year","affiliation_encoded","publication_count","distinct_authors"], "tree_info": [{"tree_structure": {
			"split_feature": 0, "threshold": 1, "decision_type": "<=", "left_child": {"leaf_value": 1}}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeLightGBM(strings.NewReader(tt.doc))
			require.Error(t, err)
		})
	}
}

func TestLoadLightGBM(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(twoTreeDump), 0o600))

	e, err := LoadLightGBM(path)
	require.NoError(t, err)

	adapter := NewAdapter(e, "lightgbm")
	v, err := adapter.Predict(context.Background(), 2021, 0, 15, 5)
	require.NoError(t, err)
	require.Equal(t, 22, v) // 21.5 rounds half away from zero

	_, err = LoadLightGBM(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
