package models

import "strings"

type Badge struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Additive entries come in two flavors: the additive endpoint returns
// name+description pairs, while meals embed them with a free-text "text"
// field. Label hides the difference.
type Additive struct {
	Name        string `json:"name,omitempty"`
	Text        string `json:"text,omitempty"`
	Description string `json:"description,omitempty"`
}

func (a Additive) Label() string {
	if a.Text != "" {
		return a.Text
	}
	return a.Name
}

type Price struct {
	PriceType string  `json:"priceType"`
	Price     float64 `json:"price"`
}

type Meal struct {
	ID        string     `json:"id,omitempty"`
	Name      string     `json:"name"`
	Category  string     `json:"category,omitempty"`
	Badges    []Badge    `json:"badges,omitempty"`
	Additives []Additive `json:"additives,omitempty"`
	Prices    []Price    `json:"prices,omitempty"`
	Allergens []string   `json:"allergens,omitempty"`
}

// Key is the meal's identity. Some API payloads omit the id, in which case
// the name serves as a fallback.
func (m Meal) Key() string {
	if m.ID != "" {
		return m.ID
	}
	return m.Name
}

// HasBadge matches badge names exactly (case-sensitive). The preference
// mapping relies on exact names, not substrings.
func (m Meal) HasBadge(name string) bool {
	for _, b := range m.Badges {
		if b.Name == name {
			return true
		}
	}
	return false
}

// FirstPrice returns the student price when present, otherwise the first
// listed price, otherwise 0.
func (m Meal) FirstPrice() float64 {
	for _, p := range m.Prices {
		if strings.Contains(strings.ToLower(p.PriceType), "stud") {
			return p.Price
		}
	}
	if len(m.Prices) > 0 {
		return m.Prices[0].Price
	}
	return 0
}

// SearchText is the haystack for ingredient matching: name, category,
// additive labels and allergen names, lowercased.
func (m Meal) SearchText() string {
	var sb strings.Builder
	sb.WriteString(m.Name)
	sb.WriteString(" ")
	sb.WriteString(m.Category)
	for _, a := range m.Additives {
		sb.WriteString(" ")
		sb.WriteString(a.Label())
	}
	for _, a := range m.Allergens {
		sb.WriteString(" ")
		sb.WriteString(a)
	}
	return strings.ToLower(sb.String())
}

// AllergenText joins additive labels and allergen names for the
// allergen-exclusion search.
func (m Meal) AllergenText() string {
	parts := make([]string, 0, len(m.Additives)+len(m.Allergens))
	for _, a := range m.Additives {
		parts = append(parts, a.Label())
	}
	parts = append(parts, m.Allergens...)
	return strings.ToLower(strings.Join(parts, ", "))
}
