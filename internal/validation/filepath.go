package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const torrentExt = ".torrent"

// TorrentFileValidator checks a local .torrent file before upload.
type TorrentFileValidator struct {
	// AllowHomeExpansion determines if tilde expansion is permitted
	AllowHomeExpansion bool
	// MaxPathLength is the maximum allowed path length
	MaxPathLength int
	// MaxFileSize caps the upload; torrents are metadata and stay small.
	MaxFileSize int64
}

func NewTorrentFileValidator() *TorrentFileValidator {
	return &TorrentFileValidator{
		AllowHomeExpansion: true,
		MaxPathLength:      4096,
		MaxFileSize:        10 << 20,
	}
}

// Validate returns the cleaned absolute path of a readable .torrent file.
func (v *TorrentFileValidator) Validate(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if len(path) > v.MaxPathLength {
		return "", fmt.Errorf("path too long (max %d characters)", v.MaxPathLength)
	}
	if err := validateCharacters(path); err != nil {
		return "", err
	}

	normalized, err := v.normalizePath(path)
	if err != nil {
		return "", fmt.Errorf("path normalization failed: %w", err)
	}

	if !strings.EqualFold(filepath.Ext(normalized), torrentExt) {
		return "", fmt.Errorf("not a %s file: %s", torrentExt, filepath.Base(normalized))
	}

	info, err := os.Stat(normalized)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file does not exist: %s", normalized)
		}
		return "", fmt.Errorf("checking file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("not a regular file: %s", normalized)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("file is empty: %s", normalized)
	}
	if v.MaxFileSize > 0 && info.Size() > v.MaxFileSize {
		return "", fmt.Errorf("file too large (%d bytes, max %d)", info.Size(), v.MaxFileSize)
	}

	return normalized, nil
}

func validateCharacters(path string) error {
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("path contains null bytes")
	}
	for _, char := range path {
		if char < 32 && char != '\t' {
			return fmt.Errorf("path contains control characters")
		}
	}
	return nil
}

func (v *TorrentFileValidator) normalizePath(path string) (string, error) {
	if v.AllowHomeExpansion && strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	} else if strings.HasPrefix(path, "~") {
		return "", fmt.Errorf("tilde expansion not allowed or invalid tilde usage")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot make path absolute: %w", err)
	}
	return filepath.Clean(abs), nil
}

// IsPathSafe performs a quick safety check on a path without full validation
func IsPathSafe(path string) bool {
	if path == "" || strings.Contains(path, "\x00") {
		return false
	}
	if strings.Contains(path, "../") || strings.Contains(path, "..\\") {
		return false
	}
	return len(path) <= 4096
}
