package media

import (
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/pelletier/go-toml/v2"

	"github.com/pders01/rdash/internal/debuglog"
)

//go:embed players.toml
var playersTOML []byte

// PlayerDefinition defines how a media player should be invoked
type PlayerDefinition struct {
	Description string                 `toml:"description"`
	Platforms   []string               `toml:"platforms"`
	Video       *PlayerMediaTypeConfig `toml:"video,omitempty"`
	Subtitle    *PlayerMediaTypeConfig `toml:"subtitle,omitempty"`
	Audio       *PlayerMediaTypeConfig `toml:"audio,omitempty"`
}

// PlayerMediaTypeConfig holds the arguments for one media type
type PlayerMediaTypeConfig struct {
	Args        []string `toml:"args,omitempty"`
	ArgsDarwin  []string `toml:"args_darwin,omitempty"`
	ArgsLinux   []string `toml:"args_linux,omitempty"`
	ArgsWindows []string `toml:"args_windows,omitempty"`
}

type PlayersConfig struct {
	Players map[string]PlayerDefinition `toml:"players"`
}

type PlayerRegistry struct {
	players map[string]PlayerDefinition
}

// NewPlayerRegistry loads the built-in definitions and merges the user's
// players.toml over them.
func NewPlayerRegistry() (*PlayerRegistry, error) {
	var config PlayersConfig
	if err := toml.Unmarshal(playersTOML, &config); err != nil {
		return nil, fmt.Errorf("parsing players.toml: %w", err)
	}

	registry := &PlayerRegistry{players: config.Players}
	if registry.players == nil {
		registry.players = make(map[string]PlayerDefinition)
	}
	registry.loadUserConfig(userPlayersPath())

	return registry, nil
}

func userPlayersPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "rdash", "players.toml")
}

func (r *PlayerRegistry) loadUserConfig(path string) {
	if path == "" {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var userConfig PlayersConfig
	if err := toml.Unmarshal(data, &userConfig); err != nil {
		debuglog.Warnf("media: ignoring %s: %v", path, err)
		return
	}
	for name, def := range userConfig.Players {
		r.players[name] = def
	}
}

// GetCommand builds the command for a specific player and media type.
// Unknown players are run with the path as their only argument.
func (r *PlayerRegistry) GetCommand(playerName string, mediaType Type, path string) (*exec.Cmd, error) {
	player, exists := r.players[playerName]
	if !exists {
		return exec.Command(playerName, path), nil
	}

	supportsPlatform := false
	for _, p := range player.Platforms {
		if p == runtime.GOOS {
			supportsPlatform = true
			break
		}
	}
	if !supportsPlatform {
		return nil, fmt.Errorf("%s not supported on %s", playerName, runtime.GOOS)
	}

	var config *PlayerMediaTypeConfig
	switch mediaType {
	case TypeVideo:
		config = player.Video
	case TypeSubtitle:
		config = player.Subtitle
	case TypeAudio:
		config = player.Audio
	}
	if config == nil {
		return nil, fmt.Errorf("%s doesn't support %s files", playerName, mediaType)
	}

	args := append(append([]string(nil), r.getArgs(config)...), path)
	return exec.Command(playerName, args...), nil
}

// getArgs returns the appropriate args for the current platform
func (r *PlayerRegistry) getArgs(config *PlayerMediaTypeConfig) []string {
	switch runtime.GOOS {
	case "darwin":
		if len(config.ArgsDarwin) > 0 {
			return config.ArgsDarwin
		}
	case "linux":
		if len(config.ArgsLinux) > 0 {
			return config.ArgsLinux
		}
	case "windows":
		if len(config.ArgsWindows) > 0 {
			return config.ArgsWindows
		}
	}
	return config.Args
}

func (r *PlayerRegistry) IsPlayerAvailable(playerName string) bool {
	_, err := exec.LookPath(playerName)
	return err == nil
}

// FindAvailablePlayer finds the first available player from a list
func (r *PlayerRegistry) FindAvailablePlayer(players []string) string {
	for _, player := range players {
		if r.IsPlayerAvailable(player) {
			return player
		}
	}
	return ""
}
