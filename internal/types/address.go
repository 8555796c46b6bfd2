package types

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// AddressHexPattern is the schema pattern every token or user address must
// match before entering provider logic.
const AddressHexPattern = `^0x[a-fA-F0-9]{40}$`

var addressHexRegexp = regexp.MustCompile(AddressHexPattern)

// Address is a validated, lowercase 0x-prefixed hex address. Adapters may
// assume any Address they receive is well formed.
type Address string

// ParseAddress validates s against AddressHexPattern and normalizes it to
// lowercase.
func ParseAddress(s string) (Address, error) {
	if !addressHexRegexp.MatchString(s) || !common.IsHexAddress(s) {
		return "", fmt.Errorf("invalid address %q", s)
	}
	return Address(strings.ToLower(common.HexToAddress(s).Hex())), nil
}

// IsValidAddress reports whether s matches the address schema pattern.
func IsValidAddress(s string) bool {
	return addressHexRegexp.MatchString(s)
}

// Equal compares two addresses case-insensitively.
func (a Address) Equal(other Address) bool {
	return strings.EqualFold(string(a), string(other))
}

func (a Address) String() string { return string(a) }
