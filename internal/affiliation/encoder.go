// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

// Package affiliation maps affiliation names to the stable integer codes the
// forecast model was trained with.
//
// Codes are positions in the label encoder's class list. The same list also
// fixes the enumeration order returned by Names, which ranking relies on to
// break ties deterministically.
package affiliation

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
)

// ErrAffiliationNotFound is returned when a name is not known to the encoder.
var ErrAffiliationNotFound = errors.New("affiliation not found")

// Record pairs an affiliation name with its model code.
type Record struct {
	Name string `json:"name"`
	Code int    `json:"code"`
}

// Encoder is an immutable bidirectional name/code mapping.
// It is safe for concurrent use.
type Encoder struct {
	names []string
	codes map[string]int
}

// NewEncoder builds an encoder from names in code order: names[i] receives code i.
// Empty and duplicate names are rejected.
func NewEncoder(names []string) (*Encoder, error) {
	e := &Encoder{
		names: make([]string, len(names)),
		codes: make(map[string]int, len(names)),
	}
	for i, name := range names {
		if name == "" {
			return nil, fmt.Errorf("affiliation class %d has an empty name", i)
		}
		if prev, dup := e.codes[name]; dup {
			return nil, fmt.Errorf("duplicate affiliation %q at classes %d and %d", name, prev, i)
		}
		e.codes[name] = i
		e.names[i] = name
	}
	return e, nil
}

// Lookup returns the code for an exact, case-sensitive name.
func (e *Encoder) Lookup(name string) (int, error) {
	code, ok := e.codes[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrAffiliationNotFound, name)
	}
	return code, nil
}

// Name returns the affiliation name for a code.
func (e *Encoder) Name(code int) (string, bool) {
	if code < 0 || code >= len(e.names) {
		return "", false
	}
	return e.names[code], true
}

// Names returns all known affiliations in enumeration order (ascending code).
// The returned slice is a copy.
func (e *Encoder) Names() []string {
	out := make([]string, len(e.names))
	copy(out, e.names)
	return out
}

// Records returns every name/code pair in enumeration order.
func (e *Encoder) Records() []Record {
	out := make([]Record, len(e.names))
	for i, name := range e.names {
		out[i] = Record{Name: name, Code: i}
	}
	return out
}

// Len returns the number of known affiliations.
func (e *Encoder) Len() int {
	return len(e.names)
}

// artifact is the on-disk encoder format: the label encoder's classes_ list.
type artifact struct {
	Classes []string `json:"classes"`
}

// Decode reads an encoder artifact from r.
func Decode(r io.Reader) (*Encoder, error) {
	var a artifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("failed to decode encoder artifact: %w", err)
	}
	if len(a.Classes) == 0 {
		return nil, errors.New("encoder artifact has no classes")
	}
	return NewEncoder(a.Classes)
}

// Load reads an encoder artifact from a file.
func Load(path string) (*Encoder, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open encoder artifact: %w", err)
	}
	defer f.Close()

	return Decode(f)
}
