// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

package model

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// zeroThreshold matches LightGBM's kZeroThreshold for "Zero" missing handling.
const zeroThreshold = 1e-35

// Missing-value handling modes from the dump.
const (
	missingNone = iota
	missingZero
	missingNaN
)

// dumpedModel mirrors the subset of LightGBM's dump_model() JSON that
// prediction needs.
type dumpedModel struct {
	Objective          string             `json:"objective"`
	AverageOutput      bool               `json:"average_output"`
	NumClass           int                `json:"num_class"`
	FeatureNames       []string           `json:"feature_names"`
	TreeInfo           []dumpedTree       `json:"tree_info"`
	FeatureImportances map[string]float64 `json:"feature_importances"`
}

type dumpedTree struct {
	TreeIndex     int        `json:"tree_index"`
	Shrinkage     float64    `json:"shrinkage"`
	TreeStructure dumpedNode `json:"tree_structure"`
}

type dumpedNode struct {
	SplitFeature *int            `json:"split_feature"`
	Threshold    json.RawMessage `json:"threshold"`
	DecisionType string          `json:"decision_type"`
	DefaultLeft  bool            `json:"default_left"`
	MissingType  string          `json:"missing_type"`
	LeftChild    *dumpedNode     `json:"left_child"`
	RightChild   *dumpedNode     `json:"right_child"`
	LeafValue    float64         `json:"leaf_value"`
}

// node is a flattened tree node. Leaves have feature == -1.
type node struct {
	feature     int
	threshold   float64
	categories  map[int]struct{}
	categorical bool
	defaultLeft bool
	missing     int
	left, right int
	value       float64
}

// Ensemble evaluates a LightGBM regression tree dump. It is immutable and
// safe for concurrent use.
type Ensemble struct {
	trees       [][]node
	inputs      []string // model feature position -> Features name
	average     bool
	transform   func(float64) float64
	importances map[string]float64
}

// LoadLightGBM reads a dump_model() JSON file.
func LoadLightGBM(path string) (*Ensemble, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open model artifact: %w", err)
	}
	defer f.Close()

	return DecodeLightGBM(f)
}

// DecodeLightGBM parses a dump_model() JSON document.
func DecodeLightGBM(r io.Reader) (*Ensemble, error) {
	var dm dumpedModel
	if err := json.NewDecoder(r).Decode(&dm); err != nil {
		return nil, fmt.Errorf("failed to decode model artifact: %w", err)
	}
	if dm.NumClass > 1 {
		return nil, fmt.Errorf("model has %d classes, want a regressor", dm.NumClass)
	}
	if len(dm.TreeInfo) == 0 {
		return nil, errors.New("model artifact contains no trees")
	}

	inputs, err := resolveInputs(dm.FeatureNames)
	if err != nil {
		return nil, err
	}

	e := &Ensemble{
		trees:     make([][]node, 0, len(dm.TreeInfo)),
		inputs:    inputs,
		average:   dm.AverageOutput,
		transform: outputTransform(dm.Objective),
	}

	splits := make([]float64, len(inputs))
	for _, t := range dm.TreeInfo {
		var flat []node
		if _, err := flatten(&t.TreeStructure, len(inputs), &flat, splits); err != nil {
			return nil, fmt.Errorf("tree %d: %w", t.TreeIndex, err)
		}
		e.trees = append(e.trees, flat)
	}

	e.importances = make(map[string]float64, len(inputs))
	for i, name := range inputs {
		e.importances[name] = splits[i]
	}
	// Prefer the importances LightGBM recorded itself when present.
	if len(dm.FeatureImportances) > 0 {
		for i, name := range inputs {
			e.importances[name] = dm.FeatureImportances[dm.FeatureNames[i]]
		}
	}

	return e, nil
}

// resolveInputs maps the model's feature names onto Features fields. Models
// trained on bare arrays carry generic names (Column_0...) and are assumed to
// use the canonical order.
func resolveInputs(names []string) ([]string, error) {
	if len(names) != len(FeatureNames) {
		return nil, fmt.Errorf("model expects %d features, want %d (%s)",
			len(names), len(FeatureNames), strings.Join(FeatureNames, ", "))
	}

	known := make(map[string]bool, len(FeatureNames))
	for _, n := range FeatureNames {
		known[n] = true
	}

	inputs := make([]string, len(names))
	seen := make(map[string]bool, len(names))
	generic := true
	for i, n := range names {
		if known[n] {
			generic = false
		}
		if seen[n] {
			return nil, fmt.Errorf("duplicate model feature %q", n)
		}
		seen[n] = true
		inputs[i] = n
	}

	if generic {
		return append([]string(nil), FeatureNames...), nil
	}
	for _, n := range names {
		if !known[n] {
			return nil, fmt.Errorf("unknown model feature %q", n)
		}
	}
	return inputs, nil
}

// outputTransform returns the link inverse for the training objective.
func outputTransform(objective string) func(float64) float64 {
	obj := strings.Fields(objective)
	if len(obj) == 0 {
		return nil
	}
	switch obj[0] {
	case "poisson", "gamma", "tweedie":
		return math.Exp
	default:
		return nil
	}
}

// flatten appends n and its subtree to out and returns n's index. Split
// counts per feature are accumulated into splits.
func flatten(n *dumpedNode, numFeatures int, out *[]node, splits []float64) (int, error) {
	idx := len(*out)
	*out = append(*out, node{feature: -1})

	if n.SplitFeature == nil {
		(*out)[idx].value = n.LeafValue
		return idx, nil
	}

	feature := *n.SplitFeature
	if feature < 0 || feature >= numFeatures {
		return 0, fmt.Errorf("split feature %d out of range", feature)
	}
	if n.LeftChild == nil || n.RightChild == nil {
		return 0, errors.New("split node missing a child")
	}
	splits[feature]++

	nd := node{feature: feature, defaultLeft: n.DefaultLeft}
	switch n.MissingType {
	case "Zero":
		nd.missing = missingZero
	case "NaN":
		nd.missing = missingNaN
	default:
		nd.missing = missingNone
	}

	switch n.DecisionType {
	case "<=", "":
		t, err := parseThreshold(n.Threshold)
		if err != nil {
			return 0, err
		}
		nd.threshold = t
	case "==":
		cats, err := parseCategories(n.Threshold)
		if err != nil {
			return 0, err
		}
		nd.categorical = true
		nd.categories = cats
	default:
		return 0, fmt.Errorf("unsupported decision type %q", n.DecisionType)
	}

	left, err := flatten(n.LeftChild, numFeatures, out, splits)
	if err != nil {
		return 0, err
	}
	right, err := flatten(n.RightChild, numFeatures, out, splits)
	if err != nil {
		return 0, err
	}
	nd.left, nd.right = left, right
	(*out)[idx] = nd
	return idx, nil
}

func parseThreshold(raw json.RawMessage) (float64, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}
	// Extreme thresholds are dumped as strings ("1e+300", "inf").
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("invalid threshold %s", raw)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid threshold %q", s)
	}
	return f, nil
}

// parseCategories parses a categorical split threshold ("1||4||7").
func parseCategories(raw json.RawMessage) (map[int]struct{}, error) {
	raw = bytes.TrimSpace(raw)
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		// A single category may be dumped as a bare number.
		s = string(raw)
	}
	cats := make(map[int]struct{})
	for _, part := range strings.Split(s, "||") {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid category %q", part)
		}
		cats[v] = struct{}{}
	}
	return cats, nil
}

// goLeft applies a split decision the way LightGBM's predictor does.
func (n *node) goLeft(v float64) bool {
	if n.categorical {
		if math.IsNaN(v) || v < 0 {
			return false
		}
		_, ok := n.categories[int(v)]
		return ok
	}

	if math.IsNaN(v) && n.missing != missingNaN {
		v = 0
	}
	if (n.missing == missingZero && math.Abs(v) <= zeroThreshold) ||
		(n.missing == missingNaN && math.IsNaN(v)) {
		return n.defaultLeft
	}
	return v <= n.threshold
}

func evalTree(tree []node, x []float64) float64 {
	i := 0
	for tree[i].feature >= 0 {
		n := &tree[i]
		if n.goLeft(x[n.feature]) {
			i = n.left
		} else {
			i = n.right
		}
	}
	return tree[i].value
}

// Predict implements Predictor.
func (e *Ensemble) Predict(_ context.Context, f Features) (float64, error) {
	x := make([]float64, len(e.inputs))
	for i, name := range e.inputs {
		v, _ := f.Value(name)
		x[i] = v
	}

	var sum float64
	for _, tree := range e.trees {
		sum += evalTree(tree, x)
	}
	if e.average {
		sum /= float64(len(e.trees))
	}
	if e.transform != nil {
		sum = e.transform(sum)
	}
	return sum, nil
}

// FeatureImportances implements Introspector. Values are split counts, the
// default importance type of the scikit-learn LightGBM wrapper.
func (e *Ensemble) FeatureImportances() map[string]float64 {
	out := make(map[string]float64, len(e.importances))
	for k, v := range e.importances {
		out[k] = v
	}
	return out
}

// NumTrees returns the number of trees in the ensemble.
func (e *Ensemble) NumTrees() int {
	return len(e.trees)
}
