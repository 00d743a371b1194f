package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadNodeConfigAppliesDefaults(t *testing.T) {
	path := writeFile(t, "node.toml", `
name = "node-alpha"
port = 9101
sequences = ["Arithmetic", "Sum"]
`)
	cfg, err := LoadNodeConfig(path)
	if err != nil {
		t.Fatalf("LoadNodeConfig: %v", err)
	}
	if cfg.Host != "127.0.0.1" {
		t.Fatalf("expected default host, got %q", cfg.Host)
	}
	if cfg.Listen != ":9101" {
		t.Fatalf("expected listen derived from port, got %q", cfg.Listen)
	}
	if cfg.RegistryAddr != "http://127.0.0.1:7878" {
		t.Fatalf("expected default registry addr, got %q", cfg.RegistryAddr)
	}
	if len(cfg.Sequences) != 2 {
		t.Fatalf("unexpected sequences: %v", cfg.Sequences)
	}
}

func TestLoadNodeConfigValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{"missing name", `port = 9101
sequences = ["Sum"]`, "missing name"},
		{"bad port", `name = "a"
port = 0
sequences = ["Sum"]`, "out of range"},
		{"no sequences", `name = "a"
port = 9101`, "at least one sequence"},
		{"bare registry addr", `name = "a"
port = 9101
registry_addr = "127.0.0.1:7878"
sequences = ["Sum"]`, "base URL"},
	}
	for _, tc := range cases {
		path := writeFile(t, "node.toml", tc.content)
		if _, err := LoadNodeConfig(path); err == nil || !strings.Contains(err.Error(), tc.wantErr) {
			t.Fatalf("%s: expected error containing %q, got %v", tc.name, tc.wantErr, err)
		}
	}
}

func TestLoadRegistryConfigDefaults(t *testing.T) {
	path := writeFile(t, "registry.toml", ``)
	cfg, err := LoadRegistryConfig(path)
	if err != nil {
		t.Fatalf("LoadRegistryConfig: %v", err)
	}
	if cfg.ID != "registryctl" || cfg.Addr != ":7878" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadRejectsMissingAndMalformedFiles(t *testing.T) {
	if _, err := LoadNodeConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	path := writeFile(t, "broken.toml", `name = [unclosed`)
	if _, err := LoadNodeConfig(path); err == nil || !strings.Contains(err.Error(), "parse failed") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestTemplatesRoundTrip(t *testing.T) {
	dir := t.TempDir()

	nodePath := filepath.Join(dir, "node.toml")
	if err := WriteTemplate(nodePath, "node", false); err != nil {
		t.Fatalf("WriteTemplate node: %v", err)
	}
	if _, err := LoadNodeConfig(nodePath); err != nil {
		t.Fatalf("node template does not load: %v", err)
	}
	if err := WriteTemplate(nodePath, "node", false); err == nil {
		t.Fatalf("expected overwrite refusal")
	}

	regPath := filepath.Join(dir, "registry.toml")
	if err := WriteTemplate(regPath, "registry", false); err != nil {
		t.Fatalf("WriteTemplate registry: %v", err)
	}
	if _, err := LoadRegistryConfig(regPath); err != nil {
		t.Fatalf("registry template does not load: %v", err)
	}

	if _, err := Template("broker"); err == nil {
		t.Fatalf("expected unknown kind error")
	}
}
