package domain

import (
	"encoding/json"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type OrderItem struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title,omitempty"`
	Price     float64 `json:"price,omitempty"`
	Quantity  int     `json:"quantity"`
}

// UnmarshalJSON accepts productId as an id string or as a populated product.
func (i *OrderItem) UnmarshalJSON(b []byte) error {
	var aux struct {
		ProductID json.RawMessage `json:"productId"`
		ID        string          `json:"_id"`
		Title     string          `json:"title"`
		Price     float64         `json:"price"`
		Quantity  int             `json:"quantity"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*i = OrderItem{ProductID: aux.ID, Title: aux.Title, Price: aux.Price, Quantity: aux.Quantity}
	if len(aux.ProductID) == 0 || string(aux.ProductID) == "null" {
		return nil
	}
	var id string
	if err := json.Unmarshal(aux.ProductID, &id); err == nil {
		i.ProductID = id
		return nil
	}
	var p Product
	if err := json.Unmarshal(aux.ProductID, &p); err != nil {
		return err
	}
	i.ProductID = p.ID
	if i.Title == "" {
		i.Title = p.Title
	}
	if i.Price == 0 {
		i.Price = p.Price
	}
	return nil
}

func (i OrderItem) DisplayTitle() string {
	if i.Title == "" {
		return "Product"
	}
	return i.Title
}

type Order struct {
	ID              string          `json:"_id"`
	Status          OrderStatus     `json:"status"`
	TotalAmount     float64         `json:"totalAmount"`
	CreatedAt       time.Time       `json:"createdAt"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
}

// UnmarshalJSON also reads line items sent under "products".
func (o *Order) UnmarshalJSON(b []byte) error {
	type plain Order
	var aux struct {
		plain
		Products []OrderItem `json:"products"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*o = Order(aux.plain)
	if len(o.Items) == 0 && len(aux.Products) > 0 {
		o.Items = aux.Products
	}
	return nil
}

// OrderRequest is the body of an order-creation call.
type OrderRequest struct {
	Items           Cart            `json:"items"`
	TotalAmount     float64         `json:"totalAmount"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
}

func NewOrderRequest(cart Cart, addr ShippingAddress) OrderRequest {
	return OrderRequest{
		Items:           cart.Clone(),
		TotalAmount:     cart.Total().Round(2).InexactFloat64(),
		ShippingAddress: addr,
	}
}
