package utils

import "strings"

// AllowedBadgeNames is the whitelist of badge names that render as icons.
var AllowedBadgeNames = []string{
	"grüner ampelpunkt",
	"gelber ampelpunkt",
	"roter ampelpunkt",
	"vegan",
	"fairtrade",
	"klimaessen",
	"vegetarisch",
	"nachhaltige landwirtschaft",
	"nachhaltige fischerei",
}

// IsAllowedBadge reports whether a badge may be shown as an icon.
func IsAllowedBadge(name string) bool {
	lower := strings.ToLower(name)
	for _, allowed := range AllowedBadgeNames {
		if lower == allowed {
			return true
		}
	}
	return false
}

// IsSystemBadge identifies the internal CO2/H2O rating badges. They are
// suppressed both as icons and in the fallback "other badges" text.
func IsSystemBadge(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "co2_bewertung") || strings.Contains(lower, "h2o_bewertung")
}

// OtherBadgeNames lists the badges of a meal that are neither icon-worthy
// nor system badges, for the plain-text fallback line.
func OtherBadgeNames(names []string) []string {
	var out []string
	for _, n := range names {
		if !IsAllowedBadge(n) && !IsSystemBadge(n) {
			out = append(out, n)
		}
	}
	return out
}
