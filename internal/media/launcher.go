// Package media opens collection items with a local player when the
// collection is reachable from this machine.
package media

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pders01/rdash/internal/config"
	"github.com/pders01/rdash/internal/download"
	"github.com/pders01/rdash/internal/validation"
)

// ErrNotLocal is returned when a media item's file is not reachable here.
var ErrNotLocal = errors.New("file is not available on this machine")

type Launcher struct {
	videoPlayer    string
	subtitleViewer string
	defaultOpener  string
	rewrite        config.PathRewrite
	registry       *PlayerRegistry
	detector       *TypeDetector
	start          func(*exec.Cmd) error
}

func NewLauncher(cfg *config.Config) *Launcher {
	registry, err := NewPlayerRegistry()
	if err != nil {
		registry = &PlayerRegistry{players: make(map[string]PlayerDefinition)}
	}

	detector, err := NewTypeDetector()
	if err != nil {
		detector = &TypeDetector{config: &TypesConfig{}}
	}

	defaultOpener := cfg.Media.DefaultOpener
	if defaultOpener == "" {
		defaultOpener = detector.GetDefaultOpener()
	}

	l := &Launcher{
		defaultOpener: defaultOpener,
		rewrite:       cfg.Media.PathPrefix,
		registry:      registry,
		detector:      detector,
		start:         startDetached,
	}

	var players config.MediaPlayers
	switch runtime.GOOS {
	case "darwin":
		players = cfg.Media.Darwin
	case "linux":
		players = cfg.Media.Linux
	case "windows":
		players = cfg.Media.Windows
	default:
		players = cfg.Media.Linux
	}

	l.videoPlayer = registry.FindAvailablePlayer(players.Video)
	l.subtitleViewer = registry.FindAvailablePlayer(players.Subtitle)
	if l.videoPlayer == "" {
		l.videoPlayer = l.defaultOpener
	}
	if l.subtitleViewer == "" {
		l.subtitleViewer = l.defaultOpener
	}

	return l
}

// LocalPath maps a server-side path to where the collection is mounted
// locally. Paths outside the configured server prefix are returned as-is.
func (l *Launcher) LocalPath(serverPath string) string {
	if l.rewrite.Server == "" || l.rewrite.Local == "" {
		return serverPath
	}
	prefix := strings.TrimRight(l.rewrite.Server, `/\`)
	if serverPath != prefix && !strings.HasPrefix(serverPath, prefix+"/") && !strings.HasPrefix(serverPath, prefix+`\`) {
		return serverPath
	}
	rest := strings.TrimLeft(strings.TrimPrefix(serverPath, prefix), `/\`)
	rest = strings.ReplaceAll(rest, `\`, "/")
	return filepath.Join(l.rewrite.Local, filepath.FromSlash(rest))
}

// Available reports whether item can be opened here.
func (l *Launcher) Available(item download.MediaItem) bool {
	_, err := l.resolve(item)
	return err == nil
}

func (l *Launcher) resolve(item download.MediaItem) (string, error) {
	if !validation.IsPathSafe(item.Path) {
		return "", fmt.Errorf("refusing to open unsafe path %q", item.Path)
	}
	path := l.LocalPath(item.Path)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotLocal, path)
	}
	return path, nil
}

// Open starts the player for item without waiting for it to exit.
func (l *Launcher) Open(item download.MediaItem) error {
	path, err := l.resolve(item)
	if err != nil {
		return err
	}

	mediaType := l.detector.DetectItem(item)

	var playerName string
	switch mediaType {
	case TypeVideo:
		playerName = l.videoPlayer
	case TypeSubtitle:
		playerName = l.subtitleViewer
	default:
		playerName = l.defaultOpener
	}
	if playerName == "" {
		playerName = l.detector.GetDefaultOpener()
	}

	cmd, err := l.registry.GetCommand(playerName, mediaType, path)
	if err != nil {
		cmd = exec.Command(playerName, path)
	}

	if err := l.start(cmd); err != nil {
		return fmt.Errorf("failed to start %s: %w", playerName, err)
	}
	return nil
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
