package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeExhausted, http.StatusConflict},
		{CodeStateConflict, http.StatusUnprocessableEntity},
		{CodeDenied, http.StatusForbidden},
		{CodeDependency, http.StatusServiceUnavailable},
	}
	for _, tc := range tests {
		meta := MetadataFor(tc.code)
		if meta.HTTPStatus != tc.status {
			t.Fatalf("%s: expected status %d, got %d", tc.code, tc.status, meta.HTTPStatus)
		}
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("boom")
	err := Wrap(CodeDependency, cause, "gateway call failed")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to survive errors.Is")
	}
	typed := As(fmt.Errorf("outer: %w", err))
	if typed == nil {
		t.Fatal("expected typed error through wrapping")
	}
	if typed.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", typed.Code())
	}
}

func TestIsMatchesCode(t *testing.T) {
	err := New(CodeExhausted, "coupon has no remaining uses")
	if !Is(err, CodeExhausted) {
		t.Fatal("expected Is to match code")
	}
	if Is(err, CodeNotFound) {
		t.Fatal("expected Is to reject other codes")
	}
	if Is(stdErrors.New("plain"), CodeExhausted) {
		t.Fatal("plain errors carry no code")
	}
}
