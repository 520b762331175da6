package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default addr ':8080', got %q", cfg.Server.Addr)
	}

	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("expected read timeout 15s, got %v", cfg.Server.ReadTimeout)
	}

	if cfg.Session.TurnTimeout != 2*time.Minute {
		t.Errorf("expected turn timeout 2m, got %v", cfg.Session.TurnTimeout)
	}

	if cfg.Session.MaxMessageLength != 2000 {
		t.Errorf("expected max message length 2000, got %d", cfg.Session.MaxMessageLength)
	}

	if cfg.Anthropic.UseBedrock {
		t.Error("expected use_bedrock to default to false")
	}
}

func TestLoadFromPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
anthropic:
  api_key: test-key
  model: claude-sonnet-4-20250514
  use_bedrock: true
  aws_region: us-west-2
server:
  addr: ":9090"
  read_timeout: 30s
database:
  path: /tmp/coach.db
session:
  turn_timeout: 90s
  max_message_length: 1000
logging:
  debug_log_path: /tmp/coach-debug.log
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Anthropic.APIKey != "test-key" {
		t.Errorf("expected api_key 'test-key', got %q", cfg.Anthropic.APIKey)
	}

	if cfg.Anthropic.Model != "claude-sonnet-4-20250514" {
		t.Errorf("unexpected model %q", cfg.Anthropic.Model)
	}

	if !cfg.Anthropic.UseBedrock {
		t.Error("expected use_bedrock to be true")
	}

	if cfg.Anthropic.AWSRegion != "us-west-2" {
		t.Errorf("expected aws_region 'us-west-2', got %q", cfg.Anthropic.AWSRegion)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("expected addr ':9090', got %q", cfg.Server.Addr)
	}

	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("expected read timeout 30s, got %v", cfg.Server.ReadTimeout)
	}

	if cfg.Database.Path != "/tmp/coach.db" {
		t.Errorf("expected db path '/tmp/coach.db', got %q", cfg.Database.Path)
	}

	if cfg.Session.TurnTimeout != 90*time.Second {
		t.Errorf("expected turn timeout 90s, got %v", cfg.Session.TurnTimeout)
	}

	if cfg.Session.MaxMessageLength != 1000 {
		t.Errorf("expected max message length 1000, got %d", cfg.Session.MaxMessageLength)
	}

	if cfg.Logging.DebugLogPath != "/tmp/coach-debug.log" {
		t.Errorf("expected debug log path '/tmp/coach-debug.log', got %q", cfg.Logging.DebugLogPath)
	}
}

func TestLoadFromPathUsesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// Partial config: unspecified keys fall back to defaults.
	configContent := `
anthropic:
  api_key: test-key
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default addr, got %q", cfg.Server.Addr)
	}
	if cfg.Session.MaxMessageLength != 2000 {
		t.Errorf("expected default max message length, got %d", cfg.Session.MaxMessageLength)
	}
}

func TestExpandEnv(t *testing.T) {
	os.Setenv("TEST_VAR", "expanded-value")
	defer os.Unsetenv("TEST_VAR")

	result := expandEnv("${TEST_VAR}")
	if result != "expanded-value" {
		t.Errorf("expected 'expanded-value', got %q", result)
	}

	result = expandEnv("prefix-${TEST_VAR}-suffix")
	if result != "prefix-expanded-value-suffix" {
		t.Errorf("expected 'prefix-expanded-value-suffix', got %q", result)
	}
}

func TestGetUserConfigDir(t *testing.T) {
	os.Setenv("XDG_CONFIG_HOME", "/custom/config")
	defer os.Unsetenv("XDG_CONFIG_HOME")

	dir := getUserConfigDir()
	expected := "/custom/config/vitacoach"
	if dir != expected {
		t.Errorf("expected %q, got %q", expected, dir)
	}
}
