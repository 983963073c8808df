// Centinela - Scientific Publication Forecasting Service
// Copyright 2026 PlataformaIntegradaInvestigadores
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/PlataformaIntegradaInvestigadores/predictive-model-backend

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

type testRequest struct {
	Name    string   `json:"affiliation_name" validate:"required,max=20,affiliation"`
	Years   int      `json:"projection_years" validate:"min=1,max=20"`
	Authors *int     `json:"hypothetical_authors" validate:"omitempty,min=1"`
	Names   []string `json:"affiliation_names" validate:"omitempty,min=1,max=3,dive,affiliation"`
}

func intPtr(v int) *int { return &v }

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		input     testRequest
		wantField string
		wantTag   string
	}{
		{"valid", testRequest{Name: "Org A", Years: 5}, "", ""},
		{"valid with authors", testRequest{Name: "Org A", Years: 20, Authors: intPtr(3)}, "", ""},
		{"missing name", testRequest{Years: 5}, "affiliation_name", "required"},
		{"blank name", testRequest{Name: "   ", Years: 5}, "affiliation_name", "affiliation"},
		{"control character", testRequest{Name: "Org\nA", Years: 5}, "affiliation_name", "affiliation"},
		{"years too small", testRequest{Name: "Org A", Years: 0}, "projection_years", "min"},
		{"years too large", testRequest{Name: "Org A", Years: 21}, "projection_years", "max"},
		{"zero authors", testRequest{Name: "Org A", Years: 5, Authors: intPtr(0)}, "hypothetical_authors", "min"},
		{"too many names", testRequest{Name: "Org A", Years: 5, Names: []string{"a", "b", "c", "d"}}, "affiliation_names", "max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected validation error on %s", tt.wantField)
			}
			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %d: %v", len(errs), err)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
		})
	}
}

func TestTranslateError_Messages(t *testing.T) {
	tests := []struct {
		input testRequest
		want  string
	}{
		{testRequest{Years: 5}, "affiliation_name is required"},
		{testRequest{Name: "Org A", Years: 21}, "projection_years must be at most 20"},
		{testRequest{Name: "Org A", Years: 0}, "projection_years must be at least 1"},
		{testRequest{Name: strings.Repeat("x", 21), Years: 1}, "affiliation_name must be at most 20 characters"},
		{testRequest{Name: "Org A", Years: 1, Names: []string{"a", "b", "c", "d"}}, "affiliation_names must contain at most 3 items"},
	}

	for _, tt := range tests {
		err := ValidateStruct(&tt.input)
		if err == nil {
			t.Fatalf("expected error for %+v", tt.input)
		}
		if err.Error() != tt.want {
			t.Errorf("Error() = %q, want %q", err.Error(), tt.want)
		}
	}
}

func TestToAPIError(t *testing.T) {
	single := ValidateStruct(&testRequest{Years: 5})
	apiErr := single.ToAPIError()
	if apiErr.Code != ErrorCode {
		t.Errorf("Code = %q, want %q", apiErr.Code, ErrorCode)
	}
	if apiErr.Details["field"] != "affiliation_name" {
		t.Errorf("Details[field] = %v", apiErr.Details["field"])
	}

	multi := ValidateStruct(&testRequest{Years: 0})
	apiErr = multi.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Fatalf("expected 2 field errors, got %v", apiErr.Details)
	}
	if !strings.Contains(apiErr.Message, "; ") {
		t.Errorf("expected joined message, got %q", apiErr.Message)
	}

	empty := &RequestValidationError{}
	if empty.ToAPIError().Message != "Validation failed" || empty.Error() != "validation failed" {
		t.Error("empty RequestValidationError should use the generic message")
	}
}
