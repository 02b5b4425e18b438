package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestYAMLProviderLoadConfig(t *testing.T) {
	content := `
service:
  listen_addr: ":9000"
  log_file: /var/log/roofsight.log
providers:
  google_api_key: test-google-key
  vision_api_key: test-vision-key
storage:
  connection_string: "host=localhost dbname=roofsight"
cache:
  path: /tmp/roofsight-cache.db
  ttl_minutes: 60
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	provider := NewYAMLProvider(path)
	cfg, err := provider.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Service.ListenAddr != ":9000" {
		t.Errorf("ListenAddr = %q, expected :9000", cfg.Service.ListenAddr)
	}
	if cfg.Providers.GoogleAPIKey != "test-google-key" {
		t.Errorf("GoogleAPIKey = %q", cfg.Providers.GoogleAPIKey)
	}
	if cfg.Storage.ConnectionString != "host=localhost dbname=roofsight" {
		t.Errorf("ConnectionString = %q", cfg.Storage.ConnectionString)
	}
	if cfg.Cache.TTLMinutes != 60 {
		t.Errorf("TTLMinutes = %d, expected 60", cfg.Cache.TTLMinutes)
	}

	// Unset fields pick up defaults.
	if cfg.Providers.GeocodeEndpoint != DefaultGeocodeEndpoint {
		t.Errorf("GeocodeEndpoint = %q, expected default", cfg.Providers.GeocodeEndpoint)
	}
	if cfg.Providers.VisionModel != DefaultVisionModel {
		t.Errorf("VisionModel = %q, expected default", cfg.Providers.VisionModel)
	}
}

func TestYAMLProviderDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("service: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewYAMLProvider(path).LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Service.ListenAddr != DefaultListenAddr {
		t.Errorf("ListenAddr = %q, expected %q", cfg.Service.ListenAddr, DefaultListenAddr)
	}
	if cfg.Cache.TTLMinutes != DefaultCacheTTLMinutes {
		t.Errorf("TTLMinutes = %d, expected %d", cfg.Cache.TTLMinutes, DefaultCacheTTLMinutes)
	}
}

func TestYAMLProviderIsReadOnly(t *testing.T) {
	if !NewYAMLProvider("x").IsReadOnly() {
		t.Error("YAML provider should be read-only")
	}
}
