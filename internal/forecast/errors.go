// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

package forecast

import (
	"errors"
	"fmt"
)

// Kind classifies engine failures. The HTTP layer maps each kind to a status code.
type Kind int

const (
	KindServiceUnavailable Kind = iota + 1
	KindAffiliationNotFound
	KindNoHistoricalData
	KindInvalidParameter
	KindPredictionFailed
)

// String returns the machine-readable code for the kind.
func (k Kind) String() string {
	switch k {
	case KindServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	case KindAffiliationNotFound:
		return "AFFILIATION_NOT_FOUND"
	case KindNoHistoricalData:
		return "NO_HISTORICAL_DATA"
	case KindInvalidParameter:
		return "INVALID_PARAMETER"
	case KindPredictionFailed:
		return "PREDICTION_FAILED"
	default:
		return "UNKNOWN"
	}
}

// Error is returned by every Engine entry point.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrServiceUnavailable  = &Error{Kind: KindServiceUnavailable, Message: "model assets are not loaded"}
	ErrAffiliationNotFound = &Error{Kind: KindAffiliationNotFound, Message: "affiliation not found"}
	ErrNoHistoricalData    = &Error{Kind: KindNoHistoricalData, Message: "no historical data"}
	ErrInvalidParameter    = &Error{Kind: KindInvalidParameter, Message: "invalid parameter"}
	ErrPredictionFailed    = &Error{Kind: KindPredictionFailed, Message: "prediction failed"}
)

func newError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of err, or 0 when err is not an engine error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
