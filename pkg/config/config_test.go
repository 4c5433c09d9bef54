package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff("deploy", cfg.ManifestRoot); diff != "" {
		t.Errorf("Mismatch from expected value (-want +got):\n%s", diff)
	}
	if cfg.PollInterval != time.Second {
		t.Errorf("expected 1s poll interval, got %s", cfg.PollInterval)
	}
	if cfg.DeleteBudget != 15 {
		t.Errorf("expected delete budget 15, got %d", cfg.DeleteBudget)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("LOGSTACK_MANIFEST_ROOT", "/opt/manifests")
	t.Setenv("LOGSTACK_DELETE_BUDGET", "30")
	t.Setenv("LOGSTACK_POLL_INTERVAL", "250ms")
	t.Setenv("LOGSTACK_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff("/opt/manifests", cfg.ManifestRoot); diff != "" {
		t.Errorf("Mismatch from expected value (-want +got):\n%s", diff)
	}
	if cfg.DeleteBudget != 30 {
		t.Errorf("expected delete budget 30, got %d", cfg.DeleteBudget)
	}
	if cfg.PollInterval != 250*time.Millisecond {
		t.Errorf("expected 250ms poll interval, got %s", cfg.PollInterval)
	}
	if diff := cmp.Diff("debug", cfg.LogLevel); diff != "" {
		t.Errorf("Mismatch from expected value (-want +got):\n%s", diff)
	}
}

func TestLoadFileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `---
manifestRoot: /srv/logstack
componentDirs:
  elasticsearch: /srv/logstack/es-v7
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff("/srv/logstack/es-v7", cfg.ComponentDir("elasticsearch")); diff != "" {
		t.Errorf("Mismatch from expected value (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(filepath.Join("/srv/logstack", "kibana"), cfg.ComponentDir("kibana")); diff != "" {
		t.Errorf("Mismatch from expected value (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsBadBudget(t *testing.T) {
	t.Setenv("LOGSTACK_DELETE_BUDGET", "0")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error got none")
	}
}
