package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingDefaultUsesDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BasicConfig.ServerAddress != ":8090" {
		t.Fatalf("unexpected address %q", cfg.BasicConfig.ServerAddress)
	}
	if cfg.Redis.Enabled {
		t.Fatalf("redis should be disabled by default")
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body := `{
		"basic_config": {"server_address": ":9000"},
		"upstream": {"base_url": "http://ocr.local:5000/"},
		"downloads": {"dir": "out", "ttl": 3}
	}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("OCRDESK_REDIS_ADDR", "10.0.0.5:6380")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Upstream.BaseURL != "http://ocr.local:5000" {
		t.Fatalf("trailing slash not trimmed: %q", cfg.Upstream.BaseURL)
	}
	if cfg.Downloads.Dir != filepath.Join(dir, "out") {
		t.Fatalf("download dir not resolved against config dir: %q", cfg.Downloads.Dir)
	}
	if cfg.BasicConfig.SessionIdleTimeout != 30 {
		t.Fatalf("default idle timeout lost: %d", cfg.BasicConfig.SessionIdleTimeout)
	}
	if !cfg.Redis.Enabled || cfg.Redis.Host != "10.0.0.5" || cfg.Redis.Port != 6380 {
		t.Fatalf("redis env override not applied: %+v", cfg.Redis)
	}
}

func TestLoadRejectsBadRedisAddr(t *testing.T) {
	chdirTemp(t)
	t.Setenv("OCRDESK_REDIS_ADDR", "no-port")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for redis address without port")
	}
}

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
