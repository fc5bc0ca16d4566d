package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CartLine is one product in the cart. Display fields are a snapshot taken
// when the line was first added and are never refreshed.
type CartLine struct {
	ProductID   string   `json:"_id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Category    string   `json:"category,omitempty"`
	Stock       int      `json:"stock"`
	Image       ImageRef `json:"imageUrl,omitempty"`
	Quantity    int      `json:"quantity"`
}

func NewCartLine(p Product) CartLine {
	return CartLine{
		ProductID:   p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Stock:       p.Stock,
		Image:       p.Image,
		Quantity:    1,
	}
}

func (l CartLine) LineTotal() decimal.Decimal {
	return decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered list of lines with at most one line per product.
// Every method returns a new Cart and leaves the receiver untouched.
type Cart []CartLine

func (c Cart) index(productID string) int {
	for i, l := range c {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

func (c Cart) Find(productID string) (CartLine, bool) {
	if i := c.index(productID); i >= 0 {
		return c[i], true
	}
	return CartLine{}, false
}

func (c Cart) Add(p Product) Cart {
	if i := c.index(p.ID); i >= 0 {
		out := c.Clone()
		out[i].Quantity++
		return out
	}
	return append(c.Clone(), NewCartLine(p))
}

func (c Cart) Increase(productID string) Cart {
	out := c.Clone()
	if i := out.index(productID); i >= 0 {
		out[i].Quantity++
	}
	return out
}

// Decrease drops the line once its quantity reaches zero.
func (c Cart) Decrease(productID string) Cart {
	out := make(Cart, 0, len(c))
	for _, l := range c {
		if l.ProductID == productID {
			l.Quantity--
		}
		if l.Quantity > 0 {
			out = append(out, l)
		}
	}
	return out
}

func (c Cart) Remove(productID string) Cart {
	out := make(Cart, 0, len(c))
	for _, l := range c {
		if l.ProductID != productID {
			out = append(out, l)
		}
	}
	return out
}

func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c {
		total = total.Add(l.LineTotal())
	}
	return total
}

// Units is the sum of quantities.
func (c Cart) Units() int {
	n := 0
	for _, l := range c {
		n += l.Quantity
	}
	return n
}

// Search matches term against title, description and category, ignoring case.
func (c Cart) Search(term string) Cart {
	if term == "" {
		return c.Clone()
	}
	q := strings.ToLower(term)
	out := make(Cart, 0, len(c))
	for _, l := range c {
		if strings.Contains(strings.ToLower(l.Title), q) ||
			strings.Contains(strings.ToLower(l.Description), q) ||
			strings.Contains(strings.ToLower(l.Category), q) {
			out = append(out, l)
		}
	}
	return out
}

// FormatAmount renders a currency amount with two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
