package validation

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	magnetPrefix    = "magnet:?"
	maxMagnetLength = 8192
)

// ValidateMagnet checks that input is a magnet URI carrying at least one
// exact-topic (xt) parameter and returns it trimmed.
func ValidateMagnet(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return "", fmt.Errorf("magnet link cannot be empty")
	}
	if len(input) > maxMagnetLength {
		return "", fmt.Errorf("magnet link too long (max %d characters)", maxMagnetLength)
	}
	for _, r := range input {
		if r < 32 || r == 127 {
			return "", fmt.Errorf("magnet link contains control characters")
		}
	}
	if !strings.HasPrefix(strings.ToLower(input), magnetPrefix) {
		return "", fmt.Errorf("not a magnet link (must start with %q)", magnetPrefix)
	}

	params, err := url.ParseQuery(input[len(magnetPrefix):])
	if err != nil {
		return "", fmt.Errorf("invalid magnet link: %w", err)
	}

	for _, xt := range params["xt"] {
		if strings.HasPrefix(strings.ToLower(xt), "urn:") && len(xt) > len("urn:") {
			return input, nil
		}
	}
	return "", fmt.Errorf("magnet link has no exact topic (xt=urn:...)")
}
