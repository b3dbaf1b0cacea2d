package services

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed intent_rules.yaml
var intentRulesYAML []byte

// IngredientGroup is a named set of synonym terms. Matching any term of a
// group expands the search to all of its terms.
type IngredientGroup struct {
	Name  string   `yaml:"name"`
	Terms []string `yaml:"terms"`
}

// IntentRules is the declarative half of the chatbot: trigger phrases,
// synonym tables and the preference→badge mapping. Handlers stay in Go.
type IntentRules struct {
	StructuredTriggers         []string            `yaml:"structured_triggers"`
	IngredientGroups           []IngredientGroup   `yaml:"ingredient_groups"`
	AllergenExclusions         map[string][]string `yaml:"allergen_exclusions"`
	PreferenceBadges           map[string][]string `yaml:"preference_badges"`
	SpecialBadges              []string            `yaml:"special_badges"`
	MainDishExcludedCategories []string            `yaml:"main_dish_excluded_categories"`
	SaladDressingTerms         []string            `yaml:"salad_dressing_terms"`
}

// LoadIntentRules parses the embedded ruleset.
func LoadIntentRules() (*IntentRules, error) {
	var rules IntentRules
	if err := yaml.Unmarshal(intentRulesYAML, &rules); err != nil {
		return nil, fmt.Errorf("parse intent rules: %w", err)
	}
	if len(rules.IngredientGroups) == 0 || len(rules.PreferenceBadges) == 0 {
		return nil, fmt.Errorf("intent rules incomplete")
	}
	return &rules, nil
}

// IsStructured reports whether a message has a deterministic, data-backed
// answer: it contains a structured trigger phrase, an ingredient term or an
// allergen name. Such messages bypass the AI even when online.
func (r *IntentRules) IsStructured(message string) bool {
	lower := strings.ToLower(message)
	for _, trigger := range r.StructuredTriggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	if len(r.IngredientTerms(lower)) > 0 {
		return true
	}
	if _, ok := r.AllergenFor(lower); ok {
		return true
	}
	return false
}

// IngredientTerms returns the union of all synonym terms whose group
// matches the message. Empty when no ingredient is mentioned.
func (r *IntentRules) IngredientTerms(message string) []string {
	lower := strings.ToLower(message)
	seen := make(map[string]struct{})
	var terms []string
	for _, group := range r.IngredientGroups {
		matched := false
		for _, term := range group.Terms {
			// Short terms match whole words only; "reis" must not fire
			// inside "Preis". Longer terms may sit inside compounds like
			// "Fischsuppe".
			if len([]rune(term)) >= 5 && strings.Contains(lower, term) {
				matched = true
				break
			}
			if containsWord(lower, term) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		for _, term := range group.Terms {
			if _, dup := seen[term]; dup {
				continue
			}
			seen[term] = struct{}{}
			terms = append(terms, term)
		}
	}
	return terms
}

// AllergenFor finds the allergen keyword a message refers to, e.g. both
// "laktosefrei" and "frei von laktose" yield "laktose". Keywords only match
// as whole words or in an exclusion phrase; a plain substring test would
// fire "ei" on every "ein".
func (r *IntentRules) AllergenFor(message string) (string, bool) {
	lower := strings.ToLower(message)
	for allergen := range r.AllergenExclusions {
		if strings.Contains(lower, allergen+"frei") ||
			strings.Contains(lower, "frei von "+allergen) ||
			strings.Contains(lower, "ohne "+allergen) ||
			containsWord(lower, allergen) {
			return allergen, true
		}
	}
	return "", false
}

func containsWord(text, word string) bool {
	for _, field := range strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9') && r != 'ä' && r != 'ö' && r != 'ü' && r != 'ß'
	}) {
		if field == word {
			return true
		}
	}
	return false
}

// ExclusionTerms returns the synonym set to exclude for an allergen
// keyword; unmapped keywords fall back to the keyword itself.
func (r *IntentRules) ExclusionTerms(allergen string) []string {
	if terms, ok := r.AllergenExclusions[allergen]; ok {
		return terms
	}
	return []string{allergen}
}

// BadgesForPreference returns the badge names satisfying a preference tag.
func (r *IntentRules) BadgesForPreference(tag string) []string {
	return r.PreferenceBadges[tag]
}

// IsSpecialBadge reports whether the exact badge name marks a meal as
// recommendation-worthy.
func (r *IntentRules) IsSpecialBadge(name string) bool {
	for _, b := range r.SpecialBadges {
		if b == name {
			return true
		}
	}
	return false
}
