package services_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"rolodex/internal/services"
)

func TestClassifyHTTPStatus(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusRequestTimeout, services.ErrTimeout},
		{http.StatusGatewayTimeout, services.ErrTimeout},
		{http.StatusTooManyRequests, services.ErrTransient},
		{http.StatusInternalServerError, services.ErrTransient},
		{http.StatusServiceUnavailable, services.ErrTransient},
		{http.StatusNotFound, services.ErrNotFound},
		{http.StatusUnauthorized, services.ErrProvider},
		{http.StatusBadRequest, services.ErrProvider},
	}
	for _, tc := range tests {
		if got := services.ClassifyHTTPStatus(tc.status); !errors.Is(got, tc.want) {
			t.Errorf("status %d classified as %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestRetryable(t *testing.T) {
	wrapped := fmt.Errorf("exa research: %w: http 503: overloaded", services.ClassifyHTTPStatus(http.StatusServiceUnavailable))
	if !services.Retryable(wrapped) {
		t.Fatal("wrapped transient error must stay retryable")
	}
	permanent := fmt.Errorf("apollo lookup: %w: http 401: bad key", services.ClassifyHTTPStatus(http.StatusUnauthorized))
	if services.Retryable(permanent) {
		t.Fatal("provider error must not be retryable")
	}
	if services.Retryable(services.ErrConfiguration) {
		t.Fatal("configuration error must not be retryable")
	}
}

func TestWrapKeepsMarkerVisible(t *testing.T) {
	err := services.Wrap(services.ErrValidation, "parse", "parse contact", "note required", nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("marker lost: %v", err)
	}
}
