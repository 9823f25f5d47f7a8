package validation

import (
	"strconv"
	"strings"
)

// Violations maps a field name to a single error code.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators

func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

// PositiveNumber flags a non-empty value that does not parse as a number
// strictly greater than zero. Empty values are Required's concern.
func PositiveNumber(field, value string, v Violations) {
	s := strings.TrimSpace(value)
	if s == "" {
		return
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n <= 0 {
		v[field] = "must_be_positive"
	}
}
