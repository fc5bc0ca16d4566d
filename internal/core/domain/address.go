package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidAddress = errors.New("invalid shipping address")

type ShippingAddress struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Address1     string `json:"address1"`
	Address2     string `json:"address2"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	Instructions string `json:"instructions"`
}

func (a ShippingAddress) Validate() error {
	required := []struct{ field, value string }{
		{"name", a.Name},
		{"phone", a.Phone},
		{"address1", a.Address1},
		{"city", a.City},
		{"state", a.State},
		{"pincode", a.Pincode},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidAddress, r.field)
		}
	}
	return nil
}

// AddressForm is the address being entered by the user before checkout.
type AddressForm struct {
	ShippingAddress
}

func (f *AddressForm) Address() ShippingAddress {
	return f.ShippingAddress
}

func (f *AddressForm) Reset() {
	f.ShippingAddress = ShippingAddress{}
}
