package handlers_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/JaimeStill/annex/pkg/handlers"
)

func TestRespondJSON(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		data       any
		wantStatus int
	}{
		{
			name:       "200 with map",
			status:     http.StatusOK,
			data:       map[string]string{"key": "value"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "202 with struct",
			status:     http.StatusAccepted,
			data:       struct{ JobID string }{JobID: "abc"},
			wantStatus: http.StatusAccepted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handlers.RespondJSON(rec, tt.status, tt.data)

			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.wantStatus {
				t.Errorf("status: got %d, want %d", res.StatusCode, tt.wantStatus)
			}
			if ct := res.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("content-type: got %s", ct)
			}

			body, _ := io.ReadAll(res.Body)
			var parsed map[string]any
			if err := json.Unmarshal(body, &parsed); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
		})
	}
}

func TestRespondError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := httptest.NewRecorder()

	handlers.RespondError(rec, logger, http.StatusBadRequest, errors.New("invalid format"))

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", res.StatusCode)
	}

	body, _ := io.ReadAll(res.Body)
	var parsed map[string]string
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if parsed["error"] != "invalid format" {
		t.Errorf("error: got %s, want invalid format", parsed["error"])
	}
}

func TestRespondFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.zip")
	if err := os.WriteFile(path, []byte("PK-data"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	if err := handlers.RespondFile(rec, path, "application/zip"); err != nil {
		t.Fatalf("respond file: %v", err)
	}

	res := rec.Result()
	defer res.Body.Close()

	if got := res.Header.Get("Content-Disposition"); got != `attachment; filename="export.zip"` {
		t.Errorf("disposition: got %s", got)
	}
	if got := res.Header.Get("Content-Length"); got != "7" {
		t.Errorf("content-length: got %s, want 7", got)
	}

	body, _ := io.ReadAll(res.Body)
	if string(body) != "PK-data" {
		t.Errorf("body: got %q", body)
	}
}

func TestRespondFileMissing(t *testing.T) {
	rec := httptest.NewRecorder()
	err := handlers.RespondFile(rec, filepath.Join(t.TempDir(), "missing.zip"), "application/zip")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error: got %v, want not exist", err)
	}
}
