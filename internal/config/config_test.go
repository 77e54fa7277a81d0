package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AppName != "wiredispatch" {
		t.Errorf("AppName = %q", cfg.AppName)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.CompletionWait != 45*time.Second {
		t.Errorf("CompletionWait = %v", cfg.CompletionWait)
	}
	if cfg.Debug || cfg.Strict {
		t.Errorf("debug/strict should default to false")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT_SECONDS", "5")
	t.Setenv("STRICT", "true")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if !cfg.Strict {
		t.Errorf("expected strict from env")
	}
}

func TestLoadRejectsNonPositiveWait(t *testing.T) {
	t.Setenv("COMPLETION_WAIT_SECONDS", "0")
	if _, err := Load(nil); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadFlagsOverrideDefaults(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("catalog", "", "")
	fs.Bool("debug", false, "")
	if err := fs.Parse([]string{"--catalog", "/tmp/reqs.json", "--debug"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(fs)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CatalogFile != "/tmp/reqs.json" {
		t.Errorf("CatalogFile = %q", cfg.CatalogFile)
	}
	if !cfg.Debug {
		t.Errorf("expected debug from flag")
	}
}
