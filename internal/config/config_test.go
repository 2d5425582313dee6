package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	content := `
# comment
[World]
RealmAddress = 127.0.0.1:8085

[Cache]
Host = localhost
Port = 3306
UserName = worldclient
Password = secret
DBName = worldclient_cache

[Session]
KeepAlivePeriodMS = 60000
PingPeriodMS = 15000
SavePeriodMS = 120000
`
	dir := t.TempDir()
	path := filepath.Join(dir, "client.ini")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.World.RealmAddress != "127.0.0.1:8085" {
		t.Fatalf("RealmAddress = %q", cfg.World.RealmAddress)
	}
	if cfg.Cache.Port != 3306 || cfg.Cache.DBName != "worldclient_cache" {
		t.Fatalf("Cache = %+v", cfg.Cache)
	}
	if cfg.Session.PingPeriod != 15*time.Second {
		t.Fatalf("PingPeriod = %v, want 15s", cfg.Session.PingPeriod)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/path.ini"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDefaultsAppliedWhenSectionAbsent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "client.ini")
	if err := os.WriteFile(path, []byte("[World]\nRealmAddress = host:1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Session.KeepAlivePeriod != time.Minute {
		t.Fatalf("default KeepAlivePeriod = %v, want 1m", cfg.Session.KeepAlivePeriod)
	}
}
