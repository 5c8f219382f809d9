package media

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/pders01/rdash/internal/download"
)

//go:embed media_types.toml
var mediaTypesTOML []byte

type Type int

const (
	TypeVideo Type = iota
	TypeSubtitle
	TypeAudio
	TypeUnknown
)

func (t Type) String() string {
	switch t {
	case TypeVideo:
		return "video"
	case TypeSubtitle:
		return "subtitle"
	case TypeAudio:
		return "audio"
	default:
		return "unknown"
	}
}

// ParseType reads the server's file_type hint.
func ParseType(s string) Type {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "video", "movie":
		return TypeVideo
	case "subtitle", "subtitles", "sub":
		return TypeSubtitle
	case "audio":
		return TypeAudio
	default:
		return TypeUnknown
	}
}

type TypeConfig struct {
	Extensions []string `toml:"extensions"`
}

type TypesConfig struct {
	Video     TypeConfig                `toml:"video"`
	Subtitle  TypeConfig                `toml:"subtitle"`
	Audio     TypeConfig                `toml:"audio"`
	Platforms map[string]PlatformConfig `toml:"platforms"`
}

type PlatformConfig struct {
	DefaultOpener string `toml:"default_opener"`
}

type TypeDetector struct {
	config *TypesConfig
}

func NewTypeDetector() (*TypeDetector, error) {
	var config TypesConfig
	if err := toml.Unmarshal(mediaTypesTOML, &config); err != nil {
		return nil, fmt.Errorf("parsing media_types.toml: %w", err)
	}
	return &TypeDetector{config: &config}, nil
}

// DetectType classifies a path by extension. Both separators are handled
// since server paths may come from another OS.
func (d *TypeDetector) DetectType(path string) Type {
	name := path
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "" {
		return TypeUnknown
	}

	switch {
	case hasExtension(d.config.Video.Extensions, ext):
		return TypeVideo
	case hasExtension(d.config.Subtitle.Extensions, ext):
		return TypeSubtitle
	case hasExtension(d.config.Audio.Extensions, ext):
		return TypeAudio
	}
	return TypeUnknown
}

// DetectItem prefers the server's type hint and falls back to the
// extension.
func (d *TypeDetector) DetectItem(item download.MediaItem) Type {
	if t := ParseType(item.FileType); t != TypeUnknown {
		return t
	}
	return d.DetectType(item.Path)
}

func (d *TypeDetector) GetDefaultOpener() string {
	if platformConfig, ok := d.config.Platforms[runtime.GOOS]; ok {
		return platformConfig.DefaultOpener
	}
	if fallback, ok := d.config.Platforms["fallback"]; ok {
		return fallback.DefaultOpener
	}
	return "open"
}

func hasExtension(extensions []string, ext string) bool {
	for _, e := range extensions {
		if e == ext {
			return true
		}
	}
	return false
}
