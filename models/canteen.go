package models

import (
	"encoding/json"
	"strings"
)

type Address struct {
	Street  string `json:"street"`
	Zipcode string `json:"zipcode"`
	City    string `json:"city"`
}

type ContactInfo struct {
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type OpeningHour struct {
	Day     string `json:"day"`
	OpenAt  string `json:"openAt,omitempty"`
	CloseAt string `json:"closeAt,omitempty"`
}

// Canteen mirrors the menu API's canteen object. Older API responses carry
// the identifier as "_id"; UnmarshalJSON resolves the alias once here so the
// rest of the code only ever sees ID.
type Canteen struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Address      Address       `json:"address"`
	ContactInfo  ContactInfo   `json:"contactInfo"`
	OpeningHours []OpeningHour `json:"openingHours,omitempty"`
}

// FullAddress renders "Straße, PLZ Stadt" for chat answers and the AI
// context block.
func (c Canteen) FullAddress() string {
	parts := make([]string, 0, 2)
	if c.Address.Street != "" {
		parts = append(parts, c.Address.Street)
	}
	if c.Address.Zipcode != "" || c.Address.City != "" {
		parts = append(parts, strings.TrimSpace(c.Address.Zipcode+" "+c.Address.City))
	}
	return strings.Join(parts, ", ")
}

func (c *Canteen) UnmarshalJSON(data []byte) error {
	type canteenAlias Canteen
	aux := struct {
		*canteenAlias
		LegacyID string `json:"_id"`
	}{canteenAlias: (*canteenAlias)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = aux.LegacyID
	}
	return nil
}
