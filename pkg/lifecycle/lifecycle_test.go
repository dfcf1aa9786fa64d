package lifecycle_test

import (
	"slices"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/annex/pkg/lifecycle"
)

func TestReadiness(t *testing.T) {
	lc := lifecycle.New()
	if lc.Ready() {
		t.Error("should not be ready before WaitForStartup")
	}

	var count atomic.Int32
	for _, name := range []string{"database", "storage", "storage"} {
		lc.OnStartup(name, func() {
			count.Add(1)
		})
	}

	lc.WaitForStartup()

	if !lc.Ready() {
		t.Error("should be ready after WaitForStartup")
	}
	if got := count.Load(); got != 3 {
		t.Errorf("startup hooks: got %d, want 3", got)
	}
	if pending := lc.Pending(); len(pending) != 0 {
		t.Errorf("pending after startup: %v", pending)
	}
}

func TestShutdownHooksExecute(t *testing.T) {
	lc := lifecycle.New()

	var cleaned atomic.Bool
	lc.OnShutdown("jobs", func() {
		<-lc.Context().Done()
		cleaned.Store(true)
	})

	lc.WaitForStartup()

	if got := lc.Pending(); !slices.Equal(got, []string{"jobs"}) {
		t.Errorf("pending before shutdown: got %v, want [jobs]", got)
	}

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	if !cleaned.Load() {
		t.Error("shutdown hook did not execute")
	}

	select {
	case <-lc.Context().Done():
	default:
		t.Error("context should be cancelled after shutdown")
	}
}

func TestShutdownTimeoutNamesPendingHooks(t *testing.T) {
	lc := lifecycle.New()

	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	lc.OnShutdown("database", func() {
		<-lc.Context().Done()
	})
	lc.OnShutdown("http", func() {
		<-lc.Context().Done()
		<-release
	})

	lc.WaitForStartup()

	err := lc.Shutdown(50 * time.Millisecond)
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if !strings.Contains(err.Error(), "pending [http]") {
		t.Errorf("error %q should name the stuck hook", err)
	}
}
