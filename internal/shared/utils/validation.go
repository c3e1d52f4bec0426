// Package utils holds input checks shared by the REST layer and the catalog.
package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// String length limits
const (
	MaxIDLength    = 64
	MaxTitleLength = 128
)

// SafeIDPattern allows alphanumeric, hyphens, underscores
var SafeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateID checks that id is a short identifier safe to echo into URLs
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("id is required")
	}
	if len(id) > MaxIDLength {
		return fmt.Errorf("id too long: %d characters (max %d)", len(id), MaxIDLength)
	}
	if !SafeIDPattern.MatchString(id) {
		return fmt.Errorf("id %q may only contain letters, digits, '-' and '_'", id)
	}
	return nil
}

// ClampTitle trims s and cuts it to MaxTitleLength runes
func ClampTitle(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= MaxTitleLength {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:MaxTitleLength]))
}
