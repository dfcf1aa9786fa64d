package infrastructure_test

import (
	"testing"

	"github.com/JaimeStill/annex/internal/config"
	"github.com/JaimeStill/annex/internal/infrastructure"
	"github.com/JaimeStill/annex/pkg/database"
	"github.com/JaimeStill/annex/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=annexstore;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/annexstore;"

func baseConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{
		Database: database.Config{Name: "doccano", User: "annex"},
		Version:  "0.1.0",
	}
	if err := cfg.Database.Finalize(nil); err != nil {
		t.Fatalf("finalize database: %v", err)
	}
	return cfg
}

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		storage     storage.Config
		wantStorage bool
		wantErr     bool
	}{
		{"storage disabled", storage.Config{}, false, false},
		{
			"azure storage",
			storage.Config{Provider: storage.ProviderAzure, Container: "exports", ConnectionString: azuriteConnString},
			true,
			false,
		},
		{
			"invalid connection string",
			storage.Config{Provider: storage.ProviderAzure, Container: "exports", ConnectionString: "not-a-connection-string"},
			false,
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig(t)
			cfg.Storage = tt.storage

			infra, err := infrastructure.New(cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			t.Cleanup(func() { infra.Database.Connection().Close() })

			if infra.Lifecycle == nil || infra.Logger == nil || infra.Metrics == nil || infra.Database == nil {
				t.Fatal("core systems should be set")
			}
			if got := infra.Storage != nil; got != tt.wantStorage {
				t.Errorf("storage configured: got %v, want %v", got, tt.wantStorage)
			}
		})
	}
}

func TestMetricsRegistryGathers(t *testing.T) {
	infra, err := infrastructure.New(baseConfig(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { infra.Database.Connection().Close() })

	families, err := infra.Metrics.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	var found bool
	for _, f := range families {
		if f.GetName() == "go_goroutines" {
			found = true
		}
	}
	if !found {
		t.Error("go collector should be registered")
	}
}

func TestNotReadyBeforeStartup(t *testing.T) {
	infra, err := infrastructure.New(baseConfig(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { infra.Database.Connection().Close() })

	if infra.Ready() {
		t.Error("should not be ready before startup hooks run")
	}
}
