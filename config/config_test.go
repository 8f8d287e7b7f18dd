package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/olivierh59500/ventrella/physics"
)

// TestDefaultConfig verifies the reference populations and rules
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected default config to validate, got %v", err)
	}
	if cfg.Window.Width != 800 || cfg.Window.Height != 600 {
		t.Errorf("Expected 800x600 window, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if !cfg.Window.Resizable {
		t.Error("Expected resizable window")
	}
	if !cfg.StartPaused {
		t.Error("Expected simulation to start paused")
	}
	if cfg.Mode() != physics.PerTarget {
		t.Errorf("Expected per-target integration, got %v", cfg.Mode())
	}

	wantClusters := []ClusterConfig{
		{Name: "red", Count: 100, Color: Red},
		{Name: "blue", Count: 10000, Color: Blue},
	}
	if len(cfg.Clusters) != len(wantClusters) {
		t.Fatalf("Expected %d clusters, got %d", len(wantClusters), len(cfg.Clusters))
	}
	for i, want := range wantClusters {
		if cfg.Clusters[i] != want {
			t.Errorf("Expected cluster %d to be %+v, got %+v", i, want, cfg.Clusters[i])
		}
	}

	wantRules := []Rule{
		{"red", "red", -1.0, 80},
		{"red", "blue", 0.1, 19},
		{"blue", "red", 0.1, 80},
	}
	if len(cfg.Rules) != len(wantRules) {
		t.Fatalf("Expected %d rules, got %d", len(wantRules), len(cfg.Rules))
	}
	for i, want := range wantRules {
		if cfg.Rules[i] != want {
			t.Errorf("Expected rule %d to be %+v, got %+v", i, want, cfg.Rules[i])
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Expected defaults for missing file, got %v", err)
	}
	if cfg.Clusters[1].Count != 10000 {
		t.Errorf("Expected default blue count, got %d", cfg.Clusters[1].Count)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")

	cfg := DefaultConfig()
	cfg.Clusters[0].Count = 42
	cfg.Rules = cfg.Rules[:1]
	cfg.Integration = physics.PerSource.String()
	cfg.Seed = 1234

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got.Clusters[0].Count != 42 {
		t.Errorf("Expected red count 42, got %d", got.Clusters[0].Count)
	}
	if len(got.Rules) != 1 {
		t.Errorf("Expected 1 rule, got %d", len(got.Rules))
	}
	if got.Mode() != physics.PerSource {
		t.Errorf("Expected per-source, got %v", got.Mode())
	}
	if got.Seed != 1234 {
		t.Errorf("Expected seed 1234, got %d", got.Seed)
	}
	if got.Window.Background != cfg.Window.Background {
		t.Errorf("Expected background %v, got %v", cfg.Window.Background, got.Window.Background)
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	if err := os.WriteFile(path, []byte(`{"start_paused": false, "window": {"width": 1024, "height": 768, "tps": 30}}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.StartPaused {
		t.Error("Expected start_paused override")
	}
	if cfg.Window.Width != 1024 || cfg.Window.TPS != 30 {
		t.Errorf("Expected window override, got %+v", cfg.Window)
	}
	if len(cfg.Clusters) != 2 || len(cfg.Rules) != 3 {
		t.Errorf("Expected default clusters and rules, got %d/%d", len(cfg.Clusters), len(cfg.Rules))
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		invalid bool
	}{
		{"malformed json", `{"clusters": [`, false},
		{"empty clusters", `{"clusters": []}`, true},
		{"unknown rule target", `{"rules": [{"source": "red", "target": "green", "gain": 1, "max_distance": 10}]}`, true},
		{"zero cutoff", `{"rules": [{"source": "red", "target": "red", "gain": 1, "max_distance": 0}]}`, true},
		{"duplicate cluster", `{"clusters": [{"name": "a", "count": 1}, {"name": "a", "count": 2}], "rules": []}`, true},
		{"zero count", `{"clusters": [{"name": "a", "count": 0}], "rules": []}`, true},
		{"unknown integration", `{"integration": "verlet"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cfg.json")
			if err := os.WriteFile(path, []byte(tt.body), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("Expected error")
			}
			if tt.invalid && !errors.Is(err, ErrInvalid) {
				t.Errorf("Expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("VENTRELLA_CONFIG", filepath.Join(t.TempDir(), "none.json"))
	t.Setenv("VENTRELLA_RED_COUNT", "7")
	t.Setenv("VENTRELLA_BLUE_COUNT", "not-a-number")
	t.Setenv("VENTRELLA_INTEGRATION", "per-source")
	t.Setenv("VENTRELLA_SEED", "99")
	t.Setenv("VENTRELLA_START_PAUSED", "false")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.Clusters[0].Count != 7 {
		t.Errorf("Expected red count 7, got %d", cfg.Clusters[0].Count)
	}
	if cfg.Clusters[1].Count != 10000 {
		t.Errorf("Expected malformed blue count ignored, got %d", cfg.Clusters[1].Count)
	}
	if cfg.Mode() != physics.PerSource {
		t.Errorf("Expected per-source, got %v", cfg.Mode())
	}
	if cfg.Seed != 99 {
		t.Errorf("Expected seed 99, got %d", cfg.Seed)
	}
	if cfg.StartPaused {
		t.Error("Expected start paused false")
	}
}

func TestFromEnvInvalidCount(t *testing.T) {
	t.Setenv("VENTRELLA_CONFIG", filepath.Join(t.TempDir(), "none.json"))
	t.Setenv("VENTRELLA_RED_COUNT", "0")

	if _, err := FromEnv(); !errors.Is(err, ErrInvalid) {
		t.Errorf("Expected ErrInvalid for zero count, got %v", err)
	}
}
