package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
site:
  id: "test-home"
database:
  path: "/tmp/heima-test.db"
  wal_mode: true
  busy_timeout: 5
mqtt:
  broker:
    host: "localhost"
    port: 1883
    client_id: "test-client"
  qos: 1
api:
  port: 8090
engine:
  enabled: false
  lighting_apply_mode: "delegate"
  space_file: "/etc/heima/space.yaml"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Site.ID != "test-home" {
		t.Errorf("Site.ID = %q, want %q", cfg.Site.ID, "test-home")
	}
	if cfg.Engine.Enabled {
		t.Error("Engine.Enabled = true, want false")
	}
	if cfg.Engine.LightingApplyMode != ApplyModeDelegate {
		t.Errorf("Engine.LightingApplyMode = %q, want %q", cfg.Engine.LightingApplyMode, ApplyModeDelegate)
	}
	if cfg.Engine.SpaceFile != "/etc/heima/space.yaml" {
		t.Errorf("Engine.SpaceFile = %q", cfg.Engine.SpaceFile)
	}
	// Defaults survive a partial document.
	if cfg.Engine.Timezone != "UTC" {
		t.Errorf("Engine.Timezone = %q, want UTC", cfg.Engine.Timezone)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config { return defaultConfig() }

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "missing site ID", mutate: func(c *Config) { c.Site.ID = "" }, wantErr: "site.id"},
		{name: "missing database path", mutate: func(c *Config) { c.Database.Path = "" }, wantErr: "database.path"},
		{name: "invalid QoS", mutate: func(c *Config) { c.MQTT.QoS = 3 }, wantErr: "mqtt.qos"},
		{name: "invalid port", mutate: func(c *Config) { c.API.Port = 70000 }, wantErr: "api.port"},
		{name: "short JWT secret", mutate: func(c *Config) { c.Security.JWT.Secret = "short" }, wantErr: "jwt.secret"},
		{name: "empty JWT secret allowed", mutate: func(c *Config) { c.Security.JWT.Secret = "" }},
		{name: "unknown apply mode", mutate: func(c *Config) { c.Engine.LightingApplyMode = "blink" }, wantErr: "lighting_apply_mode"},
		{name: "missing space file", mutate: func(c *Config) { c.Engine.SpaceFile = "" }, wantErr: "space_file"},
		{name: "bad timezone", mutate: func(c *Config) { c.Engine.Timezone = "Mars/Olympus" }, wantErr: "timezone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_GetTimeouts(t *testing.T) {
	cfg := &Config{
		API: APIConfig{
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 45,
				Idle:  60,
			},
		},
	}

	if got := cfg.GetReadTimeout().Seconds(); got != 30 {
		t.Errorf("GetReadTimeout() = %v, want 30", got)
	}
	if got := cfg.GetWriteTimeout().Seconds(); got != 45 {
		t.Errorf("GetWriteTimeout() = %v, want 45", got)
	}
	if got := cfg.GetIdleTimeout().Seconds(); got != 60 {
		t.Errorf("GetIdleTimeout() = %v, want 60", got)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := defaultConfig()

	t.Setenv("HEIMA_DATABASE_PATH", "/custom/path.db")
	t.Setenv("HEIMA_MQTT_HOST", "mqtt.example.com")
	t.Setenv("HEIMA_MQTT_USERNAME", "testuser")
	t.Setenv("HEIMA_MQTT_PASSWORD", "testpass")
	t.Setenv("HEIMA_INFLUXDB_TOKEN", "secret-token")
	t.Setenv("HEIMA_JWT_SECRET", "jwt-secret")
	t.Setenv("HEIMA_ENGINE_ENABLED", "false")
	t.Setenv("HEIMA_SPACE_FILE", "/srv/space.yaml")

	applyEnvOverrides(cfg)

	if cfg.Database.Path != "/custom/path.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/custom/path.db")
	}
	if cfg.MQTT.Broker.Host != "mqtt.example.com" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "mqtt.example.com")
	}
	if cfg.MQTT.Auth.Username != "testuser" || cfg.MQTT.Auth.Password != "testpass" {
		t.Errorf("MQTT.Auth = %+v", cfg.MQTT.Auth)
	}
	if cfg.InfluxDB.Token != "secret-token" {
		t.Errorf("InfluxDB.Token = %q, want %q", cfg.InfluxDB.Token, "secret-token")
	}
	if cfg.Security.JWT.Secret != "jwt-secret" {
		t.Errorf("Security.JWT.Secret = %q, want %q", cfg.Security.JWT.Secret, "jwt-secret")
	}
	if cfg.Engine.Enabled {
		t.Error("Engine.Enabled = true, want false")
	}
	if cfg.Engine.SpaceFile != "/srv/space.yaml" {
		t.Errorf("Engine.SpaceFile = %q", cfg.Engine.SpaceFile)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if !cfg.Engine.Enabled {
		t.Error("defaultConfig should enable the engine")
	}
	if cfg.Engine.LightingApplyMode != ApplyModeScene {
		t.Errorf("defaultConfig LightingApplyMode = %q, want %q", cfg.Engine.LightingApplyMode, ApplyModeScene)
	}
	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("defaultConfig MQTT.Broker.Port = %d, want 1883", cfg.MQTT.Broker.Port)
	}
	if cfg.Engine.QueueSize <= 0 {
		t.Errorf("defaultConfig Engine.QueueSize = %d, want > 0", cfg.Engine.QueueSize)
	}
}
