// Package compliance holds the Shariah compliance rules for investment terms:
// type classification, prohibited-clause scanning, industry screening,
// per-type validation and agreement previews.
package compliance

import "strings"

// Canonical investment kinds.
const (
	TypeEquity         = "equity"          // Musharakah
	TypeProfitSharing  = "profit-sharing"  // Mudarabah
	TypeSafe           = "safe"            // convertible SAFE-style
	TypeRevenueSharing = "revenue-sharing" // revenue-based financing
	TypeCrowdfunding   = "crowdfunding"    // pooled investment
)

var typeAliases = map[string]string{
	"equity":          TypeEquity,
	"musharakah":      TypeEquity,
	"profit-sharing":  TypeProfitSharing,
	"mudarabah":       TypeProfitSharing,
	"safe":            TypeSafe,
	"convertible":     TypeSafe,
	"revenue":         TypeRevenueSharing,
	"revenue-sharing": TypeRevenueSharing,
	"crowdfunding":    TypeCrowdfunding,
	"pool":            TypeCrowdfunding,
}

// NormalizeType maps an investment type alias to its canonical kind.
// Unknown input is returned lower-cased so the caller decides whether it is an error.
func NormalizeType(t string) string {
	t = strings.ToLower(t)
	if canonical, ok := typeAliases[t]; ok {
		return canonical
	}
	return t
}

// IsKnownType reports whether t is one of the canonical kinds.
func IsKnownType(t string) bool {
	switch t {
	case TypeEquity, TypeProfitSharing, TypeSafe, TypeRevenueSharing, TypeCrowdfunding:
		return true
	}
	return false
}
