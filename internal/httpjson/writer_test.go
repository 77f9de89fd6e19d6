package httpjson

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriter_Internal(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("hides details by default", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewWriter(logger, false).Internal(rec, "failed to fetch cart", errors.New("connection refused"))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected status 500, got %d", rec.Code)
		}

		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if body["error"] != "failed to fetch cart" {
			t.Errorf("unexpected error message: %s", body["error"])
		}
		if _, ok := body["details"]; ok {
			t.Errorf("expected no details, got %s", body["details"])
		}
	})

	t.Run("exposes details when enabled", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewWriter(logger, true).Internal(rec, "failed to fetch cart", errors.New("connection refused"))

		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if body["details"] != "connection refused" {
			t.Errorf("expected details, got %q", body["details"])
		}
	})
}

func TestWriter_JSON(t *testing.T) {
	rec := httptest.NewRecorder()
	NewWriter(slog.New(slog.NewTextHandler(io.Discard, nil)), false).Message(rec, http.StatusCreated, "ok")

	if rec.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("expected application/json, got %s", rec.Header().Get("Content-Type"))
	}
	if rec.Body.String() != "{\"message\":\"ok\"}\n" {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}
