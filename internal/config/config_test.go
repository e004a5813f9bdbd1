package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Source.Kind != SourceSQLite || cfg.Source.CSVDir != "data" {
		t.Fatalf("unexpected source defaults %+v", cfg.Source)
	}
	if cfg.Rules.MaintenanceHorizonDays != 30 || cfg.Rules.Currency != "INR" || len(cfg.Rules.RainMarkers) != 3 {
		t.Fatalf("unexpected rule defaults %+v", cfg.Rules)
	}
}

func TestFromYAMLKeepsDefaults(t *testing.T) {
	cfg, err := FromYAML([]byte("source:\n  kind: csv\n  csv_dir: sheets\nrules:\n  maintenance_horizon_days: 14\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Source.Kind != SourceCSV || cfg.Source.CSVDir != "sheets" {
		t.Fatalf("source not applied: %+v", cfg.Source)
	}
	if cfg.Rules.MaintenanceHorizonDays != 14 {
		t.Fatalf("horizon = %d", cfg.Rules.MaintenanceHorizonDays)
	}
	if cfg.Rules.Currency != "INR" || cfg.Server.Addr == "" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]string{
		"kind":      "source:\n  kind: sheets\n",
		"horizon":   "rules:\n  maintenance_horizon_days: -1\n",
		"marker":    "rules:\n  rain_markers: [ip43, \"\"]\n",
		"base_path": "server:\n  base_path: api\n",
		"format":    "log:\n  format: xml\n",
	}
	for name, doc := range cases {
		if _, err := FromYAML([]byte(doc)); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestLoadOptional(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadOptional(dir)
	if err != nil || cfg.Source.Kind != SourceSQLite {
		t.Fatalf("missing file should yield defaults: %v %+v", err, cfg)
	}
	if _, err := Load(dir); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("Load should fail without a file, got %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "droneops.yml"), []byte("log:\n  level: debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadOptional(dir)
	if err != nil || cfg.Log.Level != "debug" {
		t.Fatalf("file not loaded: %v %+v", err, cfg)
	}
}
