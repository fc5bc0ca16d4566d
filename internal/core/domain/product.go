package domain

import (
	"encoding/json"
	"strings"
)

// ImageRef is an image location. The backend sends either a plain URL or an
// upload record carrying secure_url.
type ImageRef string

func (r *ImageRef) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*r = ImageRef(s)
		return nil
	}
	var rec struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
	}
	if err := json.Unmarshal(b, &rec); err != nil {
		return err
	}
	if rec.SecureURL != "" {
		*r = ImageRef(rec.SecureURL)
	} else {
		*r = ImageRef(rec.URL)
	}
	return nil
}

type Product struct {
	ID          string   `json:"_id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Category    string   `json:"category,omitempty"`
	Stock       int      `json:"stock"`
	Image       ImageRef `json:"imageUrl,omitempty"`
}

func (p *Product) UnmarshalJSON(b []byte) error {
	type plain Product
	var aux struct {
		plain
		Alt ImageRef `json:"image"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*p = Product(aux.plain)
	if aux.Alt != "" {
		p.Image = aux.Alt
	}
	return nil
}

func (p Product) InStock() bool {
	return p.Stock > 0
}

// Matches reports whether term occurs in the title or description, ignoring case.
func (p Product) Matches(term string) bool {
	if term == "" {
		return true
	}
	q := strings.ToLower(term)
	return strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Description), q)
}
