package helpers

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes the plain text password using bcrypt
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "12345678": {}, "123456789": {},
	"1234567890": {}, "qwerty123": {}, "qwertyuiop": {}, "iloveyou": {}, "admin123": {},
	"letmein1": {}, "welcome1": {}, "abc12345": {}, "11111111": {}, "00000000": {},
}

// PasswordPolicy checks new passwords on change. MinLength <= 0 disables the length rule.
type PasswordPolicy struct {
	MinLength int
}

// Check returns human readable violations; an empty slice means the password passes.
// attrs are user attributes (username, email, names) the password must not resemble.
func (p PasswordPolicy) Check(password string, attrs ...string) []string {
	var out []string
	if p.MinLength > 0 && len([]rune(password)) < p.MinLength {
		out = append(out, fmt.Sprintf("must be at least %d characters long", p.MinLength))
	}
	if password != "" && strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		out = append(out, "must not be entirely numeric")
	}
	lower := strings.ToLower(password)
	if _, ok := commonPasswords[lower]; ok {
		out = append(out, "is too common")
	}
	for _, a := range attrs {
		a = strings.ToLower(strings.TrimSpace(a))
		if at := strings.IndexByte(a, '@'); at > 0 {
			a = a[:at]
		}
		if len(a) < 3 {
			continue
		}
		if strings.Contains(lower, a) || strings.Contains(a, lower) {
			out = append(out, "is too similar to your personal information")
			break
		}
	}
	return out
}
