package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestGetDefaultOpener(t *testing.T) {
	expected := map[string]string{
		"darwin":  "open",
		"linux":   "xdg-open",
		"windows": "start",
	}

	opener := getDefaultOpener()

	if expectedOpener, ok := expected[runtime.GOOS]; ok {
		if opener != expectedOpener {
			t.Errorf("getDefaultOpener() = %s, want %s for %s", opener, expectedOpener, runtime.GOOS)
		}
	} else if opener != "open" {
		t.Errorf("getDefaultOpener() = %s, want 'open' for unknown OS", opener)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.URL != "http://localhost:8080" {
		t.Errorf("Server.URL = %s, want http://localhost:8080", cfg.Server.URL)
	}
	if cfg.Server.Timeout != 30*time.Second {
		t.Errorf("Server.Timeout = %v, want 30s", cfg.Server.Timeout)
	}
	if cfg.Server.UserAgent == "" {
		t.Error("Server.UserAgent should not be empty")
	}
	if cfg.Stream.ReconnectMax < cfg.Stream.ReconnectMin {
		t.Errorf("Stream.ReconnectMax %v < ReconnectMin %v", cfg.Stream.ReconnectMax, cfg.Stream.ReconnectMin)
	}
	if !cfg.UI.DownloadSubs {
		t.Error("UI.DownloadSubs should default to true")
	}
	if cfg.Media.DefaultOpener == "" {
		t.Error("Media.DefaultOpener should not be empty")
	}
	if cfg.Keys.Modifier != "ctrl" {
		t.Errorf("Keys.Modifier = %s, want 'ctrl'", cfg.Keys.Modifier)
	}
	if cfg.Keys.Bindings.Quit != "q" {
		t.Errorf("Keys.Bindings.Quit = %s, want 'q'", cfg.Keys.Bindings.Quit)
	}
	if cfg.Log.Level != "off" {
		t.Errorf("Log.Level = %s, want 'off'", cfg.Log.Level)
	}
}

func TestLoad_DefaultConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}
	if cfg.Stream.ResubscribeDelay != 3*time.Second {
		t.Errorf("Stream.ResubscribeDelay = %v, want 3s", cfg.Stream.ResubscribeDelay)
	}
}

func TestLoad_FromFile(t *testing.T) {
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "test-config.toml")
	configContent := `
[server]
url = "http://nas.local:9000"
timeout = "10s"
user_agent = "test-agent"
retry_max = 5
retry_wait_min = "1s"
retry_wait_max = "2s"

[stream]
reconnect_min = "2s"
reconnect_max = "1m"
resubscribe_delay = "5s"

[ui.colors]
primary = "#FF0000"

[log]
level = "debug"
file = "~/rdash-test.log"
`

	if writeErr := os.WriteFile(configPath, []byte(configContent), 0o644); writeErr != nil {
		t.Fatal(writeErr)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.URL != "http://nas.local:9000" {
		t.Errorf("Server.URL = %s, want 'http://nas.local:9000'", cfg.Server.URL)
	}
	if cfg.Server.Timeout != 10*time.Second {
		t.Errorf("Server.Timeout = %v, want 10s", cfg.Server.Timeout)
	}
	if cfg.Server.RetryMax != 5 {
		t.Errorf("Server.RetryMax = %d, want 5", cfg.Server.RetryMax)
	}
	if cfg.Stream.ReconnectMax != time.Minute {
		t.Errorf("Stream.ReconnectMax = %v, want 1m", cfg.Stream.ReconnectMax)
	}
	if cfg.UI.Colors.Primary != "#FF0000" {
		t.Errorf("UI.Colors.Primary = %s, want '#FF0000'", cfg.UI.Colors.Primary)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %s, want 'debug'", cfg.Log.Level)
	}
	if !filepath.IsAbs(cfg.Log.File) {
		t.Errorf("Log.File = %s, want an absolute path", cfg.Log.File)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("RDASH_SERVER_URL", "http://env.example:1234")
	t.Setenv("RDASH_LOG_LEVEL", "warn")

	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.URL != "http://env.example:1234" {
		t.Errorf("Server.URL = %s, want env override", cfg.Server.URL)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %s, want env override", cfg.Log.Level)
	}
}

func TestSave(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := &Config{
		Server: ServerConfig{
			URL:       "http://saved.local:8080",
			Timeout:   10 * time.Second,
			UserAgent: "test-save-agent",
		},
		Stream: StreamConfig{
			ReconnectMin: 1 * time.Second,
			ReconnectMax: 10 * time.Second,
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary: "#00FF00",
			},
		},
		Media: MediaConfig{
			DefaultOpener: "test-opener",
		},
		Keys: KeyConfig{
			Modifier: "alt",
			Bindings: KeyBindings{
				Quit: "x",
			},
		},
	}

	savePath := filepath.Join(tmpDir, "saved-config.toml")
	if saveErr := Save(cfg, savePath); saveErr != nil {
		t.Fatalf("Save() error = %v", saveErr)
	}

	if _, statErr := os.Stat(savePath); os.IsNotExist(statErr) {
		t.Fatal("Save() did not create config file")
	}

	loaded, err := Load(savePath)
	if err != nil {
		t.Fatalf("Failed to load saved config: %v", err)
	}

	if loaded.Server.URL != cfg.Server.URL {
		t.Errorf("Loaded Server.URL = %s, want %s", loaded.Server.URL, cfg.Server.URL)
	}
	if loaded.Server.Timeout != cfg.Server.Timeout {
		t.Errorf("Loaded Server.Timeout = %v, want %v", loaded.Server.Timeout, cfg.Server.Timeout)
	}
	if loaded.Keys.Modifier != cfg.Keys.Modifier {
		t.Errorf("Loaded Keys.Modifier = %s, want %s", loaded.Keys.Modifier, cfg.Keys.Modifier)
	}
}

func TestGenerateDefaultConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "generated.toml")
	if genErr := GenerateDefaultConfig(configPath); genErr != nil {
		t.Fatalf("GenerateDefaultConfig() error = %v", genErr)
	}

	if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
		t.Fatal("GenerateDefaultConfig() did not create file")
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load generated config: %v", err)
	}

	if cfg.Keys.Modifier != "ctrl" {
		t.Errorf("Generated config has Keys.Modifier = %s, want 'ctrl'", cfg.Keys.Modifier)
	}
	if cfg.Server.RetryWaitMax != 5*time.Second {
		t.Errorf("Generated config has Server.RetryWaitMax = %v, want 5s", cfg.Server.RetryWaitMax)
	}
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig()

	if cfg == nil {
		t.Fatal("TestConfig() returned nil")
	}
	if cfg.Server.UserAgent != "rdash-test/1.0" {
		t.Errorf("TestConfig Server.UserAgent = %s, want 'rdash-test/1.0'", cfg.Server.UserAgent)
	}
	if cfg.Log.Level != "off" {
		t.Errorf("TestConfig Log.Level = %s, want 'off'", cfg.Log.Level)
	}
}
