package notify

import (
	"regexp"
	"strings"
)

const countryCode = "55"

var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhone strips everything but digits and prefixes the Brazilian
// country code when missing. An input without digits yields "".
func NormalizePhone(phone string) string {
	digits := nonDigits.ReplaceAllString(phone, "")
	if digits == "" {
		return ""
	}
	if !strings.HasPrefix(digits, countryCode) {
		digits = countryCode + digits
	}
	return digits
}
