package database

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrUnsupportedDatabaseURL = errors.New("database: unsupported database url")

// NormalizePostgresURL accepts postgres://, postgresql:// and driver-qualified
// postgresql+<driver>:// URLs and returns a postgresql:// DSN. TLS is required
// unless the URL already names an sslmode.
func NormalizePostgresURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", ErrUnsupportedDatabaseURL)
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedDatabaseURL, err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if base, _, found := strings.Cut(scheme, "+"); found {
		scheme = base
	}
	switch scheme {
	case "postgres", "postgresql":
		parsed.Scheme = "postgresql"
	default:
		return "", fmt.Errorf("%w: scheme %q", ErrUnsupportedDatabaseURL, parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("%w: host required", ErrUnsupportedDatabaseURL)
	}

	query := parsed.Query()
	if !query.Has("sslmode") {
		query.Set("sslmode", "require")
	}
	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}
