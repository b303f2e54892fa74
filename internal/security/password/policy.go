package password

import "errors"

const (
	minLength = 8
	maxBytes  = 72 // bcrypt ignores everything past this

	symbols = "@$!%?#&"
)

var (
	ErrTooShort         = errors.New("password too short")
	ErrMissingLower     = errors.New("password needs a lowercase letter")
	ErrMissingUpper     = errors.New("password needs an uppercase letter")
	ErrMissingDigit     = errors.New("password needs a digit")
	ErrMissingSymbol    = errors.New("password needs one of " + symbols)
	ErrInvalidCharacter = errors.New("password contains a character outside [A-Za-z0-9" + symbols + "]")
)

// CheckComplexity enforces the registration policy: at least 8 characters
// drawn only from letters, digits and @$!%?#&, with at least one of each
// class. Returns nil when the password is acceptable.
func CheckComplexity(pw string) error {
	if len(pw) < minLength {
		return ErrTooShort
	}
	if len(pw) > maxBytes {
		return ErrPasswordTooLong
	}

	var lower, upper, digit, symbol bool
	for i := 0; i < len(pw); i++ {
		switch c := pw[i]; {
		case c >= 'a' && c <= 'z':
			lower = true
		case c >= 'A' && c <= 'Z':
			upper = true
		case c >= '0' && c <= '9':
			digit = true
		case isSymbol(c):
			symbol = true
		default:
			return ErrInvalidCharacter
		}
	}

	switch {
	case !lower:
		return ErrMissingLower
	case !upper:
		return ErrMissingUpper
	case !digit:
		return ErrMissingDigit
	case !symbol:
		return ErrMissingSymbol
	}
	return nil
}

func isSymbol(c byte) bool {
	for i := 0; i < len(symbols); i++ {
		if symbols[i] == c {
			return true
		}
	}
	return false
}
