package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidatePackageName validates a recipe package name given on the command line.
// Package names double as directory names under the recipes directory, so the
// rules reject anything that could escape it:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "package name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "package name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "package name contains invalid control characters")
		}
	}

	if name == "." || strings.Contains(name, "..") {
		return New(ErrCodeInvalidInput, "package name cannot contain path traversal sequences")
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidInput, "package name cannot contain path separators: %q", name)
	}

	return nil
}

// ValidateSourceURL validates a source URL passed to the resolver directly.
// Git transports are accepted alongside http and https.
func ValidateSourceURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	for _, r := range rawURL {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "URL contains invalid characters")
		}
	}

	for _, prefix := range []string{"http://", "https://", "git://", "git+https://", "git+ssh://", "ssh://", "git@"} {
		if strings.HasPrefix(rawURL, prefix) {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "unsupported URL scheme: %q", rawURL)
}

// gemNameRegex matches valid RubyGems gem names.
var gemNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateGemName validates a RubyGems gem name.
func ValidateGemName(name string) error {
	if err := ValidatePackageName(name); err != nil {
		return err
	}

	if !gemNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid gem name: %q", name)
	}

	return nil
}

// ValidatePatterns compiles every pattern and reports the first that fails.
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if _, err := regexp.Compile(p); err != nil {
			return Wrap(ErrCodeInvalidInput, err, "invalid version pattern %q", p)
		}
	}
	return nil
}
