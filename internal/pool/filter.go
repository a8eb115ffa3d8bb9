package pool

import "yieldScope/internal/allowlist"

// Predicate decides whether a pool display name is acceptable.
type Predicate func(name string) bool

// Eligible reports whether both legs of the named pool are allowlisted.
func Eligible(name string, al *allowlist.Allowlist) bool {
	parsed, ok := ParseName(name)
	if !ok {
		return false
	}
	return al.Allowed(parsed.TokenA) && al.Allowed(parsed.TokenB)
}

// EligibleWith binds an allowlist into a Predicate.
func EligibleWith(al *allowlist.Allowlist) Predicate {
	return func(name string) bool {
		return Eligible(name, al)
	}
}
