package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)

// ParseCoinList parses a comma separated list of coin face values such as "10,5,2".
// An empty string yields no coins.
func ParseCoinList(s string) ([]int, error) {
	var faces []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		face, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid coin %q: %w", part, err)
		}
		if face <= 0 {
			return nil, fmt.Errorf("coin must be positive: %d", face)
		}
		faces = append(faces, face)
	}
	return faces, nil
}

// SanitizeString removes control characters and surrounding whitespace
func SanitizeString(s string) string {
	return strings.TrimSpace(controlChars.ReplaceAllString(s, ""))
}
