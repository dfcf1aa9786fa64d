package storage_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/JaimeStill/annex/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=annexstore;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/annexstore;"

func providers() map[string]*storage.Config {
	return map[string]*storage.Config{
		"azure": {
			Provider:         storage.ProviderAzure,
			Container:        "exports",
			ConnectionString: azuriteConnString,
		},
		"s3": {
			Provider:  storage.ProviderS3,
			Container: "exports",
			Region:    "us-east-1",
			Endpoint:  "http://127.0.0.1:9000",
		},
	}
}

func TestNewReturnsSystem(t *testing.T) {
	for name, cfg := range providers() {
		t.Run(name, func(t *testing.T) {
			sys, err := storage.New(cfg, slog.Default())
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if sys == nil {
				t.Fatal("New() returned nil system")
			}
		})
	}
}

func TestNewInvalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  *storage.Config
	}{
		{"bad connection string", &storage.Config{Provider: storage.ProviderAzure, Container: "x", ConnectionString: "not-a-connection-string"}},
		{"unknown provider", &storage.Config{Provider: "ftp"}},
		{"disabled", &storage.Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := storage.New(tt.cfg, slog.Default()); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestKeyValidation(t *testing.T) {
	keys := []struct {
		name    string
		key     string
		wantErr error
	}{
		{"empty key", "", storage.ErrEmptyKey},
		{"path traversal", "exports/../secrets/key", storage.ErrInvalidKey},
		{"absolute key", "/exports/all.zip", storage.ErrInvalidKey},
	}

	ctx := context.Background()

	for name, cfg := range providers() {
		sys, err := storage.New(cfg, slog.Default())
		if err != nil {
			t.Fatalf("%s: New() error = %v", name, err)
		}

		for _, tt := range keys {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				if err := sys.Upload(ctx, tt.key, bytes.NewReader(nil), "application/zip"); !errors.Is(err, tt.wantErr) {
					t.Errorf("Upload() error = %v, want %v", err, tt.wantErr)
				}
				if _, err := sys.Download(ctx, tt.key); !errors.Is(err, tt.wantErr) {
					t.Errorf("Download() error = %v, want %v", err, tt.wantErr)
				}
			})
		}
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Run("disabled by default", func(t *testing.T) {
		cfg := storage.Config{}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("finalize: %v", err)
		}
		if cfg.Enabled() {
			t.Error("storage should be disabled without a provider")
		}
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("TEST_STORAGE_PROVIDER", "s3")
		t.Setenv("TEST_STORAGE_CONTAINER", "archives")

		cfg := storage.Config{}
		env := &storage.Env{Provider: "TEST_STORAGE_PROVIDER", Container: "TEST_STORAGE_CONTAINER"}
		if err := cfg.Finalize(env); err != nil {
			t.Fatalf("finalize: %v", err)
		}
		if cfg.Container != "archives" {
			t.Errorf("container: got %s, want archives", cfg.Container)
		}
		if cfg.Region != "us-east-1" {
			t.Errorf("region: got %s, want us-east-1", cfg.Region)
		}
	})

	t.Run("azure needs credentials", func(t *testing.T) {
		cfg := storage.Config{Provider: storage.ProviderAzure}
		err := cfg.Finalize(nil)
		if err == nil || !strings.Contains(err.Error(), "connection_string or service_url required") {
			t.Errorf("finalize: got %v", err)
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := storage.Config{Provider: "ftp"}
		if err := cfg.Finalize(nil); err == nil {
			t.Error("expected error for unknown provider")
		}
	})
}

func TestConfigKey(t *testing.T) {
	cfg := storage.Config{Prefix: "annex"}
	if got := cfg.Key("job.zip"); got != "annex/job.zip" {
		t.Errorf("Key: got %s, want annex/job.zip", got)
	}

	cfg.Prefix = ""
	if got := cfg.Key("job.zip"); got != "job.zip" {
		t.Errorf("Key: got %s, want job.zip", got)
	}
}
