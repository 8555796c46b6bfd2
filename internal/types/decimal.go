package types

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

// WeiPattern is the schema pattern for wei-denominated query amounts: an
// unsigned integer string with no decimal point.
const WeiPattern = `^\d+$`

var weiRegexp = regexp.MustCompile(WeiPattern)

// IsValidWei reports whether s is an unsigned wei integer string.
func IsValidWei(s string) bool {
	return weiRegexp.MatchString(s)
}

// ParseWei parses an unsigned wei integer string into an exact decimal.
func ParseWei(s string) (decimal.Decimal, error) {
	if !weiRegexp.MatchString(s) {
		return decimal.Zero, fmt.Errorf("invalid wei amount %q", s)
	}
	return decimal.NewFromString(s)
}

// WeiToDecimal converts a wei integer string into token units by shifting
// the decimal point left by the token's decimals.
func WeiToDecimal(wei string, decimals int) (decimal.Decimal, error) {
	d, err := ParseWei(wei)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Shift(int32(-decimals)), nil
}

// ParseAmount parses any decimal amount string (provider outputs may carry a
// fractional part) without ever touching floating point.
func ParseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
