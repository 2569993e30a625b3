package failure_test

import (
	"errors"
	"net/http"
	"teesheet/shared/failure"
	"testing"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Message: "test error message",
	}

	if f.Error() != "test error message" {
		t.Errorf("expected error message to be 'test error message', got %s", f.Error())
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		input   error
		code    int
		message string
	}{
		{
			name:    "BadRequestFromString",
			input:   failure.BadRequestFromString("bad input"),
			code:    http.StatusBadRequest,
			message: "bad input",
		},
		{
			name:    "InvalidInterval",
			input:   failure.InvalidInterval("duration must be positive"),
			code:    http.StatusUnprocessableEntity,
			message: "duration must be positive",
		},
		{
			name:    "Conflict",
			input:   failure.Conflict("slot is no longer available"),
			code:    http.StatusConflict,
			message: "slot is no longer available",
		},
		{
			name:    "NotFound",
			input:   failure.NotFound("reservation not found"),
			code:    http.StatusNotFound,
			message: "reservation not found",
		},
		{
			name:    "InternalError",
			input:   failure.InternalError(errors.New("storage unavailable")),
			code:    http.StatusInternalServerError,
			message: "storage unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := tt.input.(*failure.Failure)
			if !ok {
				t.Fatalf("expected *failure.Failure, got %T", tt.input)
			}

			if f.Code != tt.code {
				t.Errorf("expected code to be %d, got %d", tt.code, f.Code)
			}

			if f.Message != tt.message {
				t.Errorf("expected message to be %s, got %s", tt.message, f.Message)
			}
		})
	}
}

func TestNilConstructors(t *testing.T) {
	if failure.BadRequest(nil) != nil {
		t.Error("expected BadRequest(nil) to be nil")
	}

	if failure.InternalError(nil) != nil {
		t.Error("expected InternalError(nil) to be nil")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected int
	}{
		{
			name:     "failure error",
			input:    &failure.Failure{Code: http.StatusBadRequest, Message: "test"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "wrapped failure error",
			input:    failure.Conflict("test"),
			expected: http.StatusConflict,
		},
		{
			name:     "regular error",
			input:    errors.New("regular error"),
			expected: http.StatusInternalServerError,
		},
		{
			name:     "nil error",
			input:    nil,
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := failure.GetCode(tt.input)
			if result != tt.expected {
				t.Errorf("expected code to be %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestPredicates(t *testing.T) {
	conflict := failure.Conflict("taken")
	notFound := failure.NotFound("missing")
	invalid := failure.InvalidInterval("zero duration")
	plain := errors.New("boom")

	if !failure.IsConflict(conflict) || failure.IsConflict(notFound) || failure.IsConflict(plain) {
		t.Error("IsConflict misclassified an error")
	}

	if !failure.IsNotFound(notFound) || failure.IsNotFound(conflict) {
		t.Error("IsNotFound misclassified an error")
	}

	if !failure.IsInvalidInterval(invalid) || failure.IsInvalidInterval(conflict) {
		t.Error("IsInvalidInterval misclassified an error")
	}
}
