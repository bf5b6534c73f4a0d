package services

import (
	"fmt"
	"strconv"

	"cafe180/internal/models"
)

// DeliveryRules are the business constants for courier delivery,
// in rubles.
type DeliveryRules struct {
	MinOrder float64 // orders below this are rejected
	FreeFrom float64 // delivery is free at or above this subtotal
	Fee      float64 // flat fee below FreeFrom
}

// ValidationError is a user-facing rejection; the handler maps it to a
// 400 response with the message as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type OrderService interface {
	Normalize(payload map[string]any) (*models.OrderRecord, error)
	NormalizeSupport(payload map[string]any) *models.SupportRequest
	NormalizeCallback(payload map[string]any) *models.CallbackRequest
}

type orderService struct {
	rules       DeliveryRules
	defaultCity string
}

func NewOrderService(rules DeliveryRules, defaultCity string) OrderService {
	return &orderService{rules: rules, defaultCity: defaultCity}
}

// Normalize turns a raw storefront payload into a canonical order,
// computing the subtotal, delivery fee and total. Only one failure mode
// exists: a delivery order below the minimum is rejected with a
// ValidationError. Malformed fields are coerced, never refused.
func (s *orderService) Normalize(payload map[string]any) (*models.OrderRecord, error) {
	rec := &models.OrderRecord{
		CustomerName:   asString(payload["name"]),
		Phone:          asString(payload["phone"]),
		Email:          asString(payload["email"]),
		City:           firstNonEmpty(asString(payload["city"]), s.defaultCity),
		Address:        asString(payload["address"]),
		Type:           asString(payload["type"]),
		DeliveryType:   asString(payload["deliveryType"]),
		PreorderDay:    asString(payload["preorderDay"]),
		PreorderTime:   asString(payload["preorderTime"]),
		PaymentType:    asString(payload["paymentType"]),
		Comment:        asString(payload["comment"]),
		AcceptedPolicy: asBool(payload["acceptedPolicy"]),
		Items:          flattenItems(asSlice(payload["items"])),
	}

	subtotal := 0.0
	for _, item := range rec.Items {
		subtotal += item.LineTotal()
	}
	rec.ItemsSubtotal = round2(subtotal)

	if rec.IsDelivery() {
		if rec.ItemsSubtotal < s.rules.MinOrder {
			return nil, &ValidationError{
				Message: fmt.Sprintf("Минимальный заказ для доставки — %s руб.",
					strconv.FormatFloat(s.rules.MinOrder, 'f', -1, 64)),
			}
		}
		if rec.ItemsSubtotal >= s.rules.FreeFrom {
			rec.DeliveryFee = 0
		} else {
			rec.DeliveryFee = s.rules.Fee
		}
	}

	rec.TotalAmount = round2(rec.ItemsSubtotal + rec.DeliveryFee)
	return rec, nil
}

// flattenItems accepts the two item shapes the storefront sends:
// a dish wrapper {dish: {...}, toppings: [...]} and a flat simplified
// entry with name/price/quantity at the top level. Toppings become
// independent weightless line items following their dish, so each
// contributes its own quantity × price to the subtotal.
func flattenItems(raw []any) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(raw))
	for _, entry := range raw {
		m := asMap(entry)
		if m == nil {
			items = append(items, models.OrderItem{Name: "Позиция", Quantity: 1})
			continue
		}

		if dish := asMap(m["dish"]); dish != nil {
			items = append(items, models.OrderItem{
				Name:     asString(dish["name"]),
				Quantity: quantityOf(dish, "quantity"),
				Price:    parsePrice(dish["price"]),
				Weight:   asWeight(dish["weight"]),
				ImageURL: asString(dish["imageUrl"]),
			})
			for _, t := range asSlice(m["toppings"]) {
				tm := asMap(t)
				if tm == nil {
					continue
				}
				items = append(items, models.OrderItem{
					Name:     asString(tm["name"]),
					Quantity: quantityOf(tm, "quantity"),
					Price:    parsePrice(tm["price"]),
				})
			}
			continue
		}

		items = append(items, models.OrderItem{
			Name:     firstNonEmpty(asString(m["name"]), asString(m["title"]), "Позиция"),
			Quantity: quantityOf(m, "quantity", "count"),
			Price:    parsePrice(firstPresent(m, "price", "cost")),
		})
	}
	return items
}

func firstPresent(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func (s *orderService) NormalizeSupport(payload map[string]any) *models.SupportRequest {
	phone := asString(payload["phone"])
	return &models.SupportRequest{
		Name:        asString(payload["name"]),
		Phone:       phone,
		PhoneDigits: digitsOnly(phone),
		Message:     asString(payload["message"]),
		Page:        asString(payload["page"]),
		Source:      asString(payload["source"]),
		City:        asString(payload["city"]),
		Company:     asString(payload["company"]),
	}
}

func (s *orderService) NormalizeCallback(payload map[string]any) *models.CallbackRequest {
	return &models.CallbackRequest{
		Name:   asString(payload["name"]),
		Phone:  asString(payload["phone"]),
		Page:   asString(payload["page"]),
		Source: asString(payload["source"]),
	}
}
