package errors

import (
	"context"
	"fmt"
	"testing"
)

func TestIsTypeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("check failed: %w", Input("price must not be negative"))
	if !IsType(err, TypeInput) {
		t.Errorf("expected wrapped error to be TypeInput")
	}
	if IsType(err, TypeRules) {
		t.Errorf("expected wrapped error not to be TypeRules")
	}
	if IsType(context.Canceled, TypeInput) {
		t.Errorf("expected plain error not to match")
	}
}

func TestErrorMessage(t *testing.T) {
	err := Source("rate lookup aborted", context.DeadlineExceeded)
	want := "[SOURCE_ERROR] rate lookup aborted: context deadline exceeded"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}

	err = NotFound("country", "narnia").WithContext("table", "default")
	if err.Error() != "[NOT_FOUND] country not found: narnia" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if err.Context["table"] != "default" {
		t.Errorf("expected context to be recorded")
	}
}

func TestInternalWrapsCause(t *testing.T) {
	err := Internal("check failed", context.Canceled)
	if !IsType(err, TypeInternal) {
		t.Errorf("expected INTERNAL_ERROR")
	}
	if err.Unwrap() != context.Canceled {
		t.Errorf("expected cause to be preserved")
	}
}
