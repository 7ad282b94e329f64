package application

import (
	"regexp"
	"strings"

	"github.com/avelez/tonewheel/internal/shared/apperror"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 30
	passwordMinLen = 8
)

// usernamePattern applies after lowercasing: letters, digits and a small set
// of separators. Comparison is always on the normalized form.
var usernamePattern = regexp.MustCompile(`^[a-z0-9._-]+$`)

// NormalizeUsername lowercases and trims a candidate username. All storage
// and comparison goes through this form.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// ValidateUsername checks the shape of an already-normalized username.
func ValidateUsername(username string) error {
	if username == "" {
		return apperror.New(apperror.KindValidation, "username must be provided")
	}
	if len(username) < usernameMinLen || len(username) > usernameMaxLen {
		return apperror.Newf(apperror.KindValidation,
			"username must be between %d and %d characters", usernameMinLen, usernameMaxLen)
	}
	if !usernamePattern.MatchString(username) {
		return apperror.New(apperror.KindValidation,
			"username may only contain letters, digits, '.', '_' and '-'")
	}
	return nil
}

// ValidatePassword checks the password policy: minimum length plus at least
// one letter and one digit.
func ValidatePassword(password string) error {
	if password == "" {
		return apperror.New(apperror.KindValidation, "password must be provided")
	}
	if len(password) < passwordMinLen {
		return apperror.Newf(apperror.KindValidation,
			"password must be at least %d characters", passwordMinLen)
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return apperror.New(apperror.KindValidation,
			"password must contain at least one letter and one digit")
	}
	return nil
}
