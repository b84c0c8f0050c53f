// Package validate holds the per-field input validators. Each function takes
// a raw candidate value and returns the sanitized value plus an ok flag; a
// false flag means the field is absent or malformed, and callers apply their
// own required/optional policy on top.
package validate

import (
	"math"
	"strings"
)

const (
	PhoneLength = 10
	IDLength    = 20

	MinTimeoutSeconds = 1
	MaxTimeoutSeconds = 5
)

var (
	protocols = []string{"http", "https"}
	methods   = []string{"post", "get", "put", "delete"}
)

// Name validates a free-form string field: trimmed, non-empty.
func Name(v string) (string, bool) {
	s := strings.TrimSpace(v)
	return s, len(s) > 0
}

// Phone validates an account key: trimmed, exactly 10 characters.
func Phone(v string) (string, bool) {
	return exact(v, PhoneLength)
}

// ID validates a token or check identifier: trimmed, exactly 20 characters.
func ID(v string) (string, bool) {
	return exact(v, IDLength)
}

// Password validates a plaintext password: trimmed, non-empty.
func Password(v string) (string, bool) {
	return Name(v)
}

// Consent validates a terms-of-service flag. Only an explicit true counts;
// false behaves like a missing field.
func Consent(v bool) bool {
	return v
}

// Protocol validates the check protocol enum.
func Protocol(v string) (string, bool) {
	return oneOf(v, protocols)
}

// Method validates the check HTTP method enum.
func Method(v string) (string, bool) {
	return oneOf(v, methods)
}

// Timeout validates the check timeout: an integral number of seconds in
// [1,5]. JSON numbers arrive as float64, so the integral check matters.
func Timeout(v float64) (int, bool) {
	if v != math.Trunc(v) {
		return 0, false
	}
	n := int(v)
	if n < MinTimeoutSeconds || n > MaxTimeoutSeconds {
		return 0, false
	}
	return n, true
}

// SuccessCodes validates the success status-code list: non-empty.
func SuccessCodes(v []int) ([]int, bool) {
	if len(v) == 0 {
		return nil, false
	}
	return v, true
}

func exact(v string, length int) (string, bool) {
	s := strings.TrimSpace(v)
	return s, len(s) == length
}

func oneOf(v string, allowed []string) (string, bool) {
	s := strings.TrimSpace(v)
	for _, a := range allowed {
		if s == a {
			return s, true
		}
	}
	return s, false
}
