package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brc.yaml")
	raw := "server_url: https://leaderboard.internal\napi_key: file-token\ntimeout_seconds: 5\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ServerURL != "https://leaderboard.internal" || cfg.APIKey != "file-token" || cfg.TimeoutSeconds != 5 {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brc.yaml")
	if err := os.WriteFile(path, []byte("server_url: https://from-file\napi_key: file-token\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BRC_SERVER_URL", "https://from-env")
	t.Setenv("BRC_API_KEY", "env-token")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ServerURL != "https://from-env" || cfg.APIKey != "env-token" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadRejectsEmptyServerURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brc.yaml")
	if err := os.WriteFile(path, []byte(`server_url: ""`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for empty server_url")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brc.yaml")
	if err := os.WriteFile(path, []byte("server_url: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brc.yaml")
	want := Config{ServerURL: "https://example.org", APIKey: "k", TimeoutSeconds: 7}
	if err := Write(path, want); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
