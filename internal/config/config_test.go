package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const fullYAML = `
database:
  host: 10.0.0.5
  port: 3307
  user: switchboard
  password: hunter2
  database: switchboard_prod

server:
  addr: ":9000"
  store_timeout: 6s

alert:
  platform: discord
  token: bot-token
  channel: "123456789"
  digest_cron: "30 8 * * *"
  sweep_interval: 2m

packages:
  - name: basic
    amount: "99"
  - name: premium
    amount: "249"
`

const minimalYAML = `
database:
  database: switchboard_dev
`

func TestParse_FullConfig(t *testing.T) {
	cfg, err := Parse([]byte(fullYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Database.Host != "10.0.0.5" {
		t.Errorf("Database.Host = %q, want %q", cfg.Database.Host, "10.0.0.5")
	}
	if cfg.Database.Port != 3307 {
		t.Errorf("Database.Port = %d, want %d", cfg.Database.Port, 3307)
	}
	if cfg.Database.User != "switchboard" {
		t.Errorf("Database.User = %q, want %q", cfg.Database.User, "switchboard")
	}
	if cfg.Database.Password != "hunter2" {
		t.Errorf("Database.Password = %q, want %q", cfg.Database.Password, "hunter2")
	}
	if cfg.Database.Database != "switchboard_prod" {
		t.Errorf("Database.Database = %q, want %q", cfg.Database.Database, "switchboard_prod")
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":9000")
	}
	if time.Duration(cfg.Server.StoreTimeout) != 6*time.Second {
		t.Errorf("Server.StoreTimeout = %v, want 6s", time.Duration(cfg.Server.StoreTimeout))
	}
	if cfg.Alert.Platform != "discord" {
		t.Errorf("Alert.Platform = %q, want %q", cfg.Alert.Platform, "discord")
	}
	if cfg.Alert.DigestCron != "30 8 * * *" {
		t.Errorf("Alert.DigestCron = %q, want %q", cfg.Alert.DigestCron, "30 8 * * *")
	}
	if time.Duration(cfg.Alert.SweepInterval) != 2*time.Minute {
		t.Errorf("Alert.SweepInterval = %v, want 2m", time.Duration(cfg.Alert.SweepInterval))
	}
	if len(cfg.Packages) != 2 {
		t.Fatalf("len(Packages) = %d, want 2", len(cfg.Packages))
	}
	if cfg.Packages[0].Name != "basic" || cfg.Packages[0].Amount != "99" {
		t.Errorf("Packages[0] = %+v, want basic/99", cfg.Packages[0])
	}
	if cfg.Packages[1].Name != "premium" || cfg.Packages[1].Amount != "249" {
		t.Errorf("Packages[1] = %+v, want premium/249", cfg.Packages[1])
	}
}

func TestParse_MinimalConfig_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Database.Host != "127.0.0.1" {
		t.Errorf("Database.Host = %q, want %q (default)", cfg.Database.Host, "127.0.0.1")
	}
	if cfg.Database.Port != 3306 {
		t.Errorf("Database.Port = %d, want %d (default)", cfg.Database.Port, 3306)
	}
	if cfg.Database.User != "root" {
		t.Errorf("Database.User = %q, want %q (default)", cfg.Database.User, "root")
	}
	if cfg.Database.Database != "switchboard_dev" {
		t.Errorf("Database.Database = %q, want %q", cfg.Database.Database, "switchboard_dev")
	}
	if cfg.Server.Addr != ":8089" {
		t.Errorf("Server.Addr = %q, want %q (default)", cfg.Server.Addr, ":8089")
	}
	if time.Duration(cfg.Server.StoreTimeout) != 8*time.Second {
		t.Errorf("Server.StoreTimeout = %v, want 8s (default)", time.Duration(cfg.Server.StoreTimeout))
	}
	if cfg.Alert.DigestCron != "0 9 * * *" {
		t.Errorf("Alert.DigestCron = %q, want %q (default)", cfg.Alert.DigestCron, "0 9 * * *")
	}
	if time.Duration(cfg.Alert.SweepInterval) != 5*time.Minute {
		t.Errorf("Alert.SweepInterval = %v, want 5m (default)", time.Duration(cfg.Alert.SweepInterval))
	}
}

func TestParse_EmptyConfig_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Database != "switchboard" {
		t.Errorf("Database.Database = %q, want %q (default)", cfg.Database.Database, "switchboard")
	}
}

func TestParse_UnknownAlertPlatform(t *testing.T) {
	yaml := `
alert:
  platform: teams
  token: t
  channel: c
`
	_, err := Parse([]byte(yaml))
	if err == nil {
		t.Fatal("expected error for unknown platform")
	}
	if !strings.Contains(err.Error(), `alert.platform "teams" is not supported`) {
		t.Errorf("error = %q, want to contain %q", err.Error(), `alert.platform "teams" is not supported`)
	}
}

func TestParse_AlertMissingTokenAndChannel(t *testing.T) {
	yaml := `
alert:
  platform: slack
`
	_, err := Parse([]byte(yaml))
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "alert.token is required") {
		t.Errorf("error missing 'alert.token is required': %s", msg)
	}
	if !strings.Contains(msg, "alert.channel is required") {
		t.Errorf("error missing 'alert.channel is required': %s", msg)
	}
}

func TestParse_PackageMissingName(t *testing.T) {
	yaml := `
packages:
  - amount: "99"
`
	_, err := Parse([]byte(yaml))
	if err == nil {
		t.Fatal("expected error for package missing name")
	}
	if !strings.Contains(err.Error(), "packages[0].name is required") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "packages[0].name is required")
	}
}

func TestParse_BadDuration(t *testing.T) {
	yaml := `
server:
  store_timeout: soon
`
	_, err := Parse([]byte(yaml))
	if err == nil {
		t.Fatal("expected error for bad duration")
	}
	if !strings.Contains(err.Error(), `bad duration "soon"`) {
		t.Errorf("error = %q, want to contain %q", err.Error(), `bad duration "soon"`)
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte(":::invalid"))
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "config: parse:") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "config: parse:")
	}
}

func TestLoad_ValidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(minimalYAML), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Database != "switchboard_dev" {
		t.Errorf("Database.Database = %q, want %q", cfg.Database.Database, "switchboard_dev")
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "config: read") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "config: read")
	}
}

// --- Fixture-based tests using testdata/ files ---

func TestLoad_FullFixture(t *testing.T) {
	cfg, err := Load("testdata/valid_full.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Host != "10.0.0.5" {
		t.Errorf("Database.Host = %q, want %q", cfg.Database.Host, "10.0.0.5")
	}
	if cfg.Alert.Platform != "slack" {
		t.Errorf("Alert.Platform = %q, want %q", cfg.Alert.Platform, "slack")
	}
	if len(cfg.Packages) != 2 {
		t.Fatalf("len(Packages) = %d, want 2", len(cfg.Packages))
	}
}

func TestLoad_MinimalFixture(t *testing.T) {
	cfg, err := Load("testdata/valid_minimal.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Host != "127.0.0.1" {
		t.Errorf("Database.Host = %q, want default %q", cfg.Database.Host, "127.0.0.1")
	}
	if cfg.Server.Addr != ":8089" {
		t.Errorf("Server.Addr = %q, want default %q", cfg.Server.Addr, ":8089")
	}
}

func TestLoad_BadPlatformFixture(t *testing.T) {
	_, err := Load("testdata/bad_platform.yaml")
	if err == nil {
		t.Fatal("expected error for unsupported platform")
	}
	if !strings.Contains(err.Error(), "is not supported") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "is not supported")
	}
}

func TestLoad_InvalidYAMLFixture(t *testing.T) {
	_, err := Load("testdata/invalid.yaml")
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "config: parse:") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "config: parse:")
	}
}
