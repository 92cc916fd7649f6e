package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestValidator_NoErrors(t *testing.T) {
	v := New().
		Required("title", "write docs").
		OptionalUUID("project_id", "2b1f0608-4f3d-41a2-9c3e-8a2d9f6f2a11").
		OneOf("priority", "high", []string{"low", "medium", "high"})

	if err := v.Err(); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestValidator_AccumulatesErrors(t *testing.T) {
	v := New().
		Required("title", "  ").
		OptionalUUID("project_id", "not-a-uuid").
		MaxLength("description", strings.Repeat("x", 20), 10).
		OneOf("priority", "urgent", []string{"low", "medium", "high"}).
		Custom(false, "due_date", "must be in the future")

	err := v.Err()
	if err == nil {
		t.Fatal("expected an error")
	}

	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if len(verr.Fields) != 5 {
		t.Errorf("expected 5 field errors, got %d: %v", len(verr.Fields), verr.Fields)
	}
	if !strings.Contains(err.Error(), "title: is required") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestValidator_OptionalChecksSkipEmpty(t *testing.T) {
	v := New().
		OptionalUUID("sprint_id", "").
		OneOf("status", "", []string{"open", "done"})

	if err := v.Err(); err != nil {
		t.Errorf("empty optional values must pass, got %v", err)
	}
}
