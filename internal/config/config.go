package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server" toml:"server"`
	Stream StreamConfig `mapstructure:"stream" toml:"stream"`
	UI     UIConfig     `mapstructure:"ui" toml:"ui"`
	Media  MediaConfig  `mapstructure:"media" toml:"media"`
	Keys   KeyConfig    `mapstructure:"keys" toml:"keys"`
	Log    LogConfig    `mapstructure:"log" toml:"log"`
}

type ServerConfig struct {
	URL          string        `mapstructure:"url" toml:"url"`
	Timeout      time.Duration `mapstructure:"timeout" toml:"timeout"`
	UserAgent    string        `mapstructure:"user_agent" toml:"user_agent"`
	RetryMax     int           `mapstructure:"retry_max" toml:"retry_max"`
	RetryWaitMin time.Duration `mapstructure:"retry_wait_min" toml:"retry_wait_min"`
	RetryWaitMax time.Duration `mapstructure:"retry_wait_max" toml:"retry_wait_max"`
}

type StreamConfig struct {
	ReconnectMin     time.Duration `mapstructure:"reconnect_min" toml:"reconnect_min"`
	ReconnectMax     time.Duration `mapstructure:"reconnect_max" toml:"reconnect_max"`
	ResubscribeDelay time.Duration `mapstructure:"resubscribe_delay" toml:"resubscribe_delay"`
}

type UIConfig struct {
	Colors       UIColors `mapstructure:"colors" toml:"colors"`
	DownloadSubs bool     `mapstructure:"download_subs" toml:"download_subs"`
	ProgressBar  int      `mapstructure:"progress_bar_width" toml:"progress_bar_width"`
}

type UIColors struct {
	Primary    string `mapstructure:"primary" toml:"primary"`
	Secondary  string `mapstructure:"secondary" toml:"secondary"`
	Accent     string `mapstructure:"accent" toml:"accent"`
	Background string `mapstructure:"background" toml:"background"`
	Surface    string `mapstructure:"surface" toml:"surface"`
	Text       string `mapstructure:"text" toml:"text"`
	Muted      string `mapstructure:"muted" toml:"muted"`
	Error      string `mapstructure:"error" toml:"error"`
	Success    string `mapstructure:"success" toml:"success"`
}

type MediaConfig struct {
	Darwin        MediaPlayers `mapstructure:"darwin" toml:"darwin"`
	Linux         MediaPlayers `mapstructure:"linux" toml:"linux"`
	Windows       MediaPlayers `mapstructure:"windows" toml:"windows"`
	DefaultOpener string       `mapstructure:"default_opener" toml:"default_opener"`
	// PathPrefix rewrites server-side media paths to local ones when the
	// collection is mounted at a different location on this machine.
	PathPrefix PathRewrite `mapstructure:"path_prefix" toml:"path_prefix"`
}

type PathRewrite struct {
	Server string `mapstructure:"server" toml:"server"`
	Local  string `mapstructure:"local" toml:"local"`
}

type MediaPlayers struct {
	Video    []string `mapstructure:"video" toml:"video"`
	Subtitle []string `mapstructure:"subtitle" toml:"subtitle"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier" toml:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings" toml:"bindings"`
}

type KeyBindings struct {
	Quit        string `mapstructure:"quit" toml:"quit"`
	Search      string `mapstructure:"search" toml:"search"`
	AddMagnet   string `mapstructure:"add_magnet" toml:"add_magnet"`
	AddTorrent  string `mapstructure:"add_torrent" toml:"add_torrent"`
	Delete      string `mapstructure:"delete" toml:"delete"`
	Refresh     string `mapstructure:"refresh" toml:"refresh"`
	SelectFiles string `mapstructure:"select_files" toml:"select_files"`
	OpenMedia   string `mapstructure:"open_media" toml:"open_media"`
	Back        string `mapstructure:"back" toml:"back"`
}

type LogConfig struct {
	Level string `mapstructure:"level" toml:"level"`
	File  string `mapstructure:"file" toml:"file"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Server: ServerConfig{
			URL:          "http://localhost:8080",
			Timeout:      30 * time.Second,
			UserAgent:    "rdash/1.0 (https://github.com/pders01/rdash)",
			RetryMax:     3,
			RetryWaitMin: 500 * time.Millisecond,
			RetryWaitMax: 5 * time.Second,
		},
		Stream: StreamConfig{
			ReconnectMin:     1 * time.Second,
			ReconnectMax:     30 * time.Second,
			ResubscribeDelay: 3 * time.Second,
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:    "#FF6B6B",
				Secondary:  "#4ECDC4",
				Accent:     "#95E1D3",
				Background: "#1A1A2E",
				Surface:    "#16213E",
				Text:       "#EAEAEA",
				Muted:      "#94A3B8",
				Error:      "#F87171",
				Success:    "#4ADE80",
			},
			DownloadSubs: true,
			ProgressBar:  30,
		},
		Media: MediaConfig{
			Darwin: MediaPlayers{
				Video:    []string{"iina", "mpv", "vlc"},
				Subtitle: []string{"open"},
			},
			Linux: MediaPlayers{
				Video:    []string{"mpv", "vlc", "mplayer"},
				Subtitle: []string{"xdg-open"},
			},
			Windows: MediaPlayers{
				Video:    []string{"mpv", "vlc"},
				Subtitle: []string{"start"},
			},
			DefaultOpener: getDefaultOpener(),
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:        "q",
				Search:      "s",
				AddMagnet:   "n",
				AddTorrent:  "t",
				Delete:      "x",
				Refresh:     "r",
				SelectFiles: "e",
				OpenMedia:   "o",
				Back:        "esc",
			},
		},
		Log: LogConfig{
			Level: "off",
			File:  filepath.Join(homeDir, ".rdash", "rdash.log"),
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

// DefaultPath is where Load looks for a config file when none is given.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "rdash", "config.toml")
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	cfg := defaultConfig()
	v.SetDefault("server", cfg.Server)
	v.SetDefault("stream", cfg.Stream)
	v.SetDefault("ui", cfg.UI)
	v.SetDefault("media", cfg.Media)
	v.SetDefault("keys", cfg.Keys)
	v.SetDefault("log", cfg.Log)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(filepath.Dir(DefaultPath()))
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("RDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	applyEnv(&config)
	expandPaths(&config)

	return &config, nil
}

// applyEnv handles the overrides people actually reach for. Struct-valued
// defaults hide nested keys from viper's automatic env binding.
func applyEnv(cfg *Config) {
	if u := os.Getenv("RDASH_SERVER_URL"); u != "" {
		cfg.Server.URL = u
	}
	if l := os.Getenv("RDASH_LOG_LEVEL"); l != "" {
		cfg.Log.Level = l
	}
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Log.File = expandPath(cfg.Log.File)
	if cfg.Media.PathPrefix.Local != "" {
		cfg.Media.PathPrefix.Local = expandPath(cfg.Media.PathPrefix.Local)
	}
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Durations are written as strings for TOML readability
	serverCfg := map[string]interface{}{
		"url":            config.Server.URL,
		"timeout":        config.Server.Timeout.String(),
		"user_agent":     config.Server.UserAgent,
		"retry_max":      config.Server.RetryMax,
		"retry_wait_min": config.Server.RetryWaitMin.String(),
		"retry_wait_max": config.Server.RetryWaitMax.String(),
	}

	streamCfg := map[string]interface{}{
		"reconnect_min":     config.Stream.ReconnectMin.String(),
		"reconnect_max":     config.Stream.ReconnectMax.String(),
		"resubscribe_delay": config.Stream.ResubscribeDelay.String(),
	}

	v.Set("server", serverCfg)
	v.Set("stream", streamCfg)
	v.Set("ui", config.UI)
	v.Set("media", config.Media)
	v.Set("keys", config.Keys)
	v.Set("log", config.Log)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
