package models

import "strings"

// DeliveryKeyword is the order type marker the storefront sends for
// courier delivery. Matching is a case-sensitive substring check.
const DeliveryKeyword = "Доставка"

type OrderItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Weight   float64 `json:"weight,omitempty"` // grams, > 0 marks a base dish
	ImageURL string  `json:"image_url,omitempty"`
}

// IsBaseDish reports whether the item anchors a display group.
// Toppings carry no weight and attach to the preceding base dish.
func (i OrderItem) IsBaseDish() bool {
	return i.Weight > 0
}

func (i OrderItem) LineTotal() float64 {
	return float64(i.Quantity) * i.Price
}

// OrderRecord is the canonical order produced by normalization.
// Items is a flat list: toppings from the storefront payload are
// promoted to their own weightless entries right after their dish.
type OrderRecord struct {
	CustomerName   string      `json:"customer_name"`
	Phone          string      `json:"phone"`
	Email          string      `json:"email,omitempty"`
	City           string      `json:"city"`
	Address        string      `json:"address,omitempty"`
	Type           string      `json:"type,omitempty"`
	DeliveryType   string      `json:"delivery_type,omitempty"`
	PreorderDay    string      `json:"preorder_day,omitempty"`
	PreorderTime   string      `json:"preorder_time,omitempty"`
	PaymentType    string      `json:"payment_type,omitempty"`
	Comment        string      `json:"comment,omitempty"`
	AcceptedPolicy bool        `json:"accepted_policy"`
	Items          []OrderItem `json:"items"`
	ItemsSubtotal  float64     `json:"items_subtotal"`
	DeliveryFee    float64     `json:"delivery_fee"`
	TotalAmount    float64     `json:"total_amount"`
}

func (r *OrderRecord) IsDelivery() bool {
	return strings.Contains(r.Type, DeliveryKeyword)
}
