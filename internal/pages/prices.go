package pages

import (
	"fmt"
	"strings"
	"unicode"
)

// ParseKRW converts a displayed won amount such as "12,340원" or "배송비 2,500원"
// into an integer. Korean won has no fractional part. A leading minus sign is
// preserved, which covers discount lines.
func ParseKRW(text string) (int, error) {
	trimmed := strings.TrimSpace(text)
	negative := false

	var digits strings.Builder
	for _, r := range trimmed {
		switch {
		case unicode.IsDigit(r):
			digits.WriteRune(r)
		case r == '-' && digits.Len() == 0:
			negative = true
		}
	}
	if digits.Len() == 0 {
		return 0, fmt.Errorf("no amount found in %q", text)
	}

	amount := 0
	for _, r := range digits.String() {
		amount = amount*10 + int(r-'0')
	}
	if negative {
		amount = -amount
	}
	return amount, nil
}
