package auth

import "strings"

const passwordSymbols = `!@#$%^&*(),.?":{}|<>`

// ValidatePassword enforces the account password policy: at least 8
// characters with one uppercase letter, one lowercase letter, one digit and
// one symbol. Returns ErrWeakPassword when the password falls short.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}

	if !upper || !lower || !digit || !symbol {
		return ErrWeakPassword
	}
	return nil
}
