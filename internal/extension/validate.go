package extension

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxNameLength is the longest custom extension name the server stores.
const MaxNameLength = 20

// Reasons a custom extension name is rejected before it reaches the network.
var (
	ErrEmpty       = errors.New("extension is empty")
	ErrTooLong     = errors.New("extension is too long")
	ErrDigit       = errors.New("extension contains a digit")
	ErrScript      = errors.New("extension contains non-latin letters")
	ErrInvalidChar = errors.New("extension contains a non-letter character")
)

// ValidationError reports why a custom extension name was rejected.
type ValidationError struct {
	Input  string
	Reason error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid extension %q: %v", e.Input, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

// Warning returns the message shown to the user for this rejection.
func (e *ValidationError) Warning() string {
	switch {
	case errors.Is(e.Reason, ErrEmpty):
		return "Enter an extension."
	case errors.Is(e.Reason, ErrTooLong):
		return fmt.Sprintf("Extensions can be at most %d characters.", MaxNameLength)
	case errors.Is(e.Reason, ErrDigit):
		return "Extensions cannot contain digits."
	case errors.Is(e.Reason, ErrScript):
		return "Extensions must be typed in English letters."
	default:
		return "Extensions may only contain letters."
	}
}

// NormalizeName trims input and checks that what remains is an acceptable
// custom extension name: 1 to MaxNameLength basic Latin letters.
func NormalizeName(input string) (string, error) {
	name := strings.TrimSpace(input)
	if name == "" {
		return "", &ValidationError{Input: input, Reason: ErrEmpty}
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", &ValidationError{Input: input, Reason: ErrTooLong}
	}
	if strings.IndexFunc(name, unicode.IsDigit) >= 0 {
		return "", &ValidationError{Input: input, Reason: ErrDigit}
	}
	if strings.IndexFunc(name, isForeignLetter) >= 0 {
		return "", &ValidationError{Input: input, Reason: ErrScript}
	}
	if strings.IndexFunc(name, func(r rune) bool { return !isLatinLetter(r) }) >= 0 {
		return "", &ValidationError{Input: input, Reason: ErrInvalidChar}
	}
	return name, nil
}

func isLatinLetter(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

func isForeignLetter(r rune) bool {
	return r > unicode.MaxASCII && unicode.IsLetter(r)
}
