package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
)

var (
	ErrMissingAccessCode = errors.New("access code: code required")
	ErrInvalidAccessCode = errors.New("access code: code mismatch")
)

// AccessCodeVerifier checks a shared secret presented on write requests.
// A verifier built from an empty code is disabled and accepts everything.
type AccessCodeVerifier struct {
	code []byte
}

// NewAccessCodeVerifier constructs a verifier for the configured code. The
// configured value is used verbatim; only presented codes are trimmed.
func NewAccessCodeVerifier(code string) *AccessCodeVerifier {
	return &AccessCodeVerifier{code: []byte(code)}
}

// Enabled reports whether a code is configured.
func (v *AccessCodeVerifier) Enabled() bool {
	return v != nil && len(v.code) > 0
}

// Verify compares the presented code against the configured one in constant time.
func (v *AccessCodeVerifier) Verify(provided string) error {
	if !v.Enabled() {
		return nil
	}
	candidate := strings.TrimSpace(provided)
	if candidate == "" {
		return ErrMissingAccessCode
	}
	if subtle.ConstantTimeCompare([]byte(candidate), v.code) != 1 {
		return ErrInvalidAccessCode
	}
	return nil
}
