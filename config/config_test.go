package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/papaveez/metropolis-gen/roads"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading embedded defaults: %v", err)
	}

	if cfg.Screen.Width <= 0 || cfg.Screen.Height <= 0 {
		t.Error("screen dimensions should be positive")
	}

	params := cfg.GeneratorParams()
	if len(params) != 3 {
		t.Fatalf("expected 3 road classes, got %d", len(params))
	}
	for road, p := range params {
		if p.Epsilon <= 0 {
			t.Errorf("%v: epsilon must be positive", road)
		}
		if p.DSep <= 0 || p.Dl <= 0 {
			t.Errorf("%v: distances must be positive", road)
		}
	}

	// Wider classes are spaced further apart.
	if params[roads.Main].DSep <= params[roads.HighStreet].DSep {
		t.Error("main roads should have larger d_sep than high streets")
	}
	if params[roads.HighStreet].DSep <= params[roads.SideStreet].DSep {
		t.Error("high streets should have larger d_sep than side streets")
	}
}

func TestLoadOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	override := `
screen:
  width: 640
roads:
  side_street:
    d_sep: 33.0
`
	if err := os.WriteFile(path, []byte(override), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading override: %v", err)
	}

	if cfg.Screen.Width != 640 {
		t.Errorf("width = %d, want 640", cfg.Screen.Width)
	}
	// Untouched fields keep the embedded defaults.
	if cfg.Screen.Height <= 0 {
		t.Error("height should fall back to defaults")
	}
	if got := cfg.GeneratorParams()[roads.SideStreet].DSep; got != 33 {
		t.Errorf("side street d_sep = %v, want 33", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/does/not/exist.yaml"); err == nil {
		t.Error("missing config file should error")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing snapshot: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("reloading snapshot: %v", err)
	}
	if back.Roads.Main.DSep != cfg.Roads.Main.DSep {
		t.Error("snapshot should round-trip generator parameters")
	}
}
