package handler

import "github.com/rl1809/storefront/internal/core/domain"

type productReq struct {
	ID          string          `json:"_id" binding:"required"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       float64         `json:"price" binding:"gte=0"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
	ImageURL    domain.ImageRef `json:"imageUrl"`
	Image       domain.ImageRef `json:"image"`
}

func (p productReq) toDomain() domain.Product {
	img := p.ImageURL
	if p.Image != "" {
		img = p.Image
	}
	return domain.Product{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Stock:       p.Stock,
		Image:       img,
	}
}

type addItemReq struct {
	Product *productReq `json:"product" binding:"required"`
}

type addressReq struct {
	Name         string `json:"name" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	Address1     string `json:"address1" binding:"required"`
	Address2     string `json:"address2"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state" binding:"required"`
	Pincode      string `json:"pincode" binding:"required"`
	Instructions string `json:"instructions"`
}

func (a addressReq) toDomain() domain.ShippingAddress {
	return domain.ShippingAddress{
		Name:         a.Name,
		Phone:        a.Phone,
		Address1:     a.Address1,
		Address2:     a.Address2,
		City:         a.City,
		State:        a.State,
		Pincode:      a.Pincode,
		Instructions: a.Instructions,
	}
}

// checkoutReq only checks presence; PlaceOrder still runs the address rules.
type checkoutReq struct {
	Address *addressReq `json:"address" binding:"required"`
}
