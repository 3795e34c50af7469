package address

import (
	"strings"

	"github.com/tonkeeper/tongo"

	"pointsdraw/internal/models"
)

// Normalize parses a TON address in any accepted form and returns its
// canonical raw representation. Identity comparisons are only made on
// normalized values.
func Normalize(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", models.ErrInvalidAddress
	}

	addr, err := tongo.ParseAddress(s)
	if err != nil {
		return "", models.ErrInvalidAddress
	}

	return addr.ID.String(), nil
}

// Equal reports whether two addresses refer to the same account. Malformed
// input never matches.
func Equal(a, b string) bool {
	na, err := Normalize(a)
	if err != nil {
		return false
	}
	nb, err := Normalize(b)
	if err != nil {
		return false
	}
	return na == nb
}
