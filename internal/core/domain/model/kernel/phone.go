package kernel

import (
	"strings"
	"unicode"

	"fulfillment/internal/pkg/errs"
)

// NormalizePhone converts a user-entered phone number to E.164 the way the courier
// provider expects it: ten digits get the +1 country code, eleven digits starting
// with 1 get a plus sign, anything already prefixed with + is kept as entered.
func NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)

	var digits strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}

	d := digits.String()
	switch {
	case d == "":
		return "", errs.NewValueIsRequiredError("phone")
	case len(d) == 10:
		return "+1" + d, nil
	case len(d) == 11 && strings.HasPrefix(d, "1"):
		return "+" + d, nil
	case strings.HasPrefix(raw, "+"):
		return raw, nil
	default:
		return "+" + d, nil
	}
}
