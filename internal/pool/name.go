package pool

import (
	"math"
	"strconv"
	"strings"
)

// Name is a parsed pool display name such as "WETH / USDC 0.05%".
type Name struct {
	TokenA string
	TokenB string
	// FeeTier is the fee percentage (0.05 means 0.05%), nil when the fee
	// suffix is missing or not a number.
	FeeTier *float64
}

// ParseName extracts both token symbols and the fee tier from a display name.
// ok is false when the tokens cannot be recovered; callers must treat that as
// an exclusion, not as a zero value.
func ParseName(name string) (Name, bool) {
	parts := strings.Split(name, "/")
	if len(parts) < 2 {
		return Name{}, false
	}

	tokenA := strings.ToUpper(strings.TrimSpace(parts[0]))
	right := strings.Fields(parts[1])
	if tokenA == "" || len(right) < 2 {
		return Name{}, false
	}

	return Name{
		TokenA:  tokenA,
		TokenB:  strings.ToUpper(right[0]),
		FeeTier: parseFee(right[1]),
	}, true
}

func parseFee(raw string) *float64 {
	raw = strings.TrimSuffix(raw, "%")
	fee, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(fee) || math.IsInf(fee, 0) || fee < 0 {
		return nil
	}
	return &fee
}
