package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultHasSmartDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Server.Addr == "" {
		t.Fatal("expected a default server address")
	}
	if cfg.Cache.DocumentCapacity <= 0 || cfg.Cache.ModuleCapacity <= 0 {
		t.Fatal("expected positive default cache capacities")
	}
	if !cfg.Watch.Enabled {
		t.Fatal("expected watch enabled by default")
	}
}

func TestParseKDLLibraryRoots(t *testing.T) {
	cfg, err := parseKDL(`
library {
    root "/libs/a"
    root "/libs/b"
}
server {
    addr ":9999"
}
cache {
    document_capacity 10
    module_capacity 20
    ttl_seconds 60
}
watch {
    enabled false
    debounce_ms 500
}
`)
	if err != nil {
		t.Fatalf("parseKDL: %v", err)
	}
	if len(cfg.Library.Roots) != 2 || cfg.Library.Roots[0] != "/libs/a" || cfg.Library.Roots[1] != "/libs/b" {
		t.Fatalf("unexpected roots: %v", cfg.Library.Roots)
	}
	if cfg.Server.Addr != ":9999" {
		t.Fatalf("unexpected addr: %q", cfg.Server.Addr)
	}
	if cfg.Cache.DocumentCapacity != 10 || cfg.Cache.ModuleCapacity != 20 || cfg.Cache.TTLSeconds != 60 {
		t.Fatalf("unexpected cache config: %+v", cfg.Cache)
	}
	if cfg.Watch.Enabled || cfg.Watch.DebounceMs != 500 {
		t.Fatalf("unexpected watch config: %+v", cfg.Watch)
	}
}

func TestParseKDLLibraryRootsBlockForm(t *testing.T) {
	cfg, err := parseKDL(`
library {
    root "a" "b"
}
`)
	if err != nil {
		t.Fatalf("parseKDL: %v", err)
	}
	if len(cfg.Library.Roots) != 2 {
		t.Fatalf("expected 2 roots from inline args, got %v", cfg.Library.Roots)
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Library.Roots) != 0 {
		t.Fatalf("expected no roots, got %v", cfg.Library.Roots)
	}
}

func TestLoadResolvesRelativeRootsAgainstDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "flams.kdl"), `
library {
    root "lib"
}
`)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := filepath.Clean(filepath.Join(dir, "lib"))
	if len(cfg.Library.Roots) != 1 || cfg.Library.Roots[0] != want {
		t.Fatalf("got roots %v, want [%s]", cfg.Library.Roots, want)
	}
}

func TestLoadFallsBackToTOMLWhenNoKDLPresent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "flams.toml"), `
[library]
roots = ["lib"]

[server]
addr = ":7070"

[cache]
document_capacity = 42
module_capacity = 84
ttl_seconds = 120

[watch]
enabled = false
debounce_ms = 750
`)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := filepath.Clean(filepath.Join(dir, "lib"))
	if len(cfg.Library.Roots) != 1 || cfg.Library.Roots[0] != want {
		t.Fatalf("got roots %v, want [%s]", cfg.Library.Roots, want)
	}
	if cfg.Server.Addr != ":7070" {
		t.Fatalf("unexpected addr: %q", cfg.Server.Addr)
	}
	if cfg.Cache.DocumentCapacity != 42 || cfg.Cache.ModuleCapacity != 84 || cfg.Cache.TTLSeconds != 120 {
		t.Fatalf("unexpected cache config: %+v", cfg.Cache)
	}
	if cfg.Watch.Enabled || cfg.Watch.DebounceMs != 750 {
		t.Fatalf("unexpected watch config: %+v", cfg.Watch)
	}
}

func TestLoadPrefersKDLOverTOMLWhenBothPresent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "flams.toml"), `
[library]
roots = ["from-toml"]
`)
	writeFile(t, filepath.Join(dir, "flams.kdl"), `
library {
    root "from-kdl"
}
`)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := filepath.Clean(filepath.Join(dir, "from-kdl"))
	if len(cfg.Library.Roots) != 1 || cfg.Library.Roots[0] != want {
		t.Fatalf("expected flams.kdl to win, got roots %v", cfg.Library.Roots)
	}
}

func TestValidateRejectsEmptyLibraryRoots(t *testing.T) {
	cfg := Default()
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for empty library roots")
	}
}

func TestValidateFillsSmartDefaults(t *testing.T) {
	cfg := &Config{Library: LibraryConfig{Roots: []string{"/libs"}}}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Server.Addr == "" || cfg.Watch.DebounceMs == 0 || cfg.Cache.TTLSeconds == 0 {
		t.Fatalf("expected smart defaults filled in, got %+v", cfg)
	}
}
