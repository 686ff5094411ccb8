package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Missing File Uses Defaults", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.Adapter != "sqlite" {
			t.Errorf("Expected default adapter sqlite, got %q", cfg.Adapter)
		}
		if cfg.UpdateDelaySeconds != 5 {
			t.Errorf("Expected default delay 5s, got %d", cfg.UpdateDelaySeconds)
		}
	})

	t.Run("YAML Overrides Defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "stratum.yaml")
		content := `
adapter: file
base_url: https://content.example.com
timeout_seconds: 20
ttl_hours:
  resource: 336
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.Adapter != "file" {
			t.Errorf("Expected adapter file, got %q", cfg.Adapter)
		}
		if cfg.BaseURL != "https://content.example.com" {
			t.Errorf("Unexpected base URL %q", cfg.BaseURL)
		}
		if cfg.TTLHours["resource"] != 336 {
			t.Errorf("Expected resource TTL 336h, got %d", cfg.TTLHours["resource"])
		}
	})

	t.Run("Env Overrides YAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "stratum.yaml")
		if err := os.WriteFile(path, []byte("adapter: file\n"), 0644); err != nil {
			t.Fatal(err)
		}
		t.Setenv("STRATUM_ADAPTER", "memory")
		t.Setenv("STRATUM_AUTO_APPLY", "true")

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.Adapter != "memory" {
			t.Errorf("Expected env adapter memory, got %q", cfg.Adapter)
		}
		if !cfg.AutoApply {
			t.Error("Expected env auto_apply true")
		}
	})

	t.Run("Malformed YAML Errors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "stratum.yaml")
		if err := os.WriteFile(path, []byte("adapter: [broken"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Error("Expected parse error")
		}
	})
}

func TestConfigOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Adapter = "memory"
	cfg.TTLHours = map[string]int{"questionnaire": 48}

	o := defaultOptions()
	for _, opt := range cfg.Options() {
		opt(o)
	}
	if o.adapter != "memory" {
		t.Errorf("Expected adapter memory, got %q", o.adapter)
	}
	if got := o.ttl["questionnaire"]; got.Hours() != 48 {
		t.Errorf("Expected 48h TTL, got %v", got)
	}
}
