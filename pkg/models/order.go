package models

type OrderStatus string

const (
	OrderStatusCreated OrderStatus = "created"
	OrderStatusPaid    OrderStatus = "paid"
	OrderStatusShipped OrderStatus = "shipped"
)

type OrderItem struct {
	ProductId string  `json:"product_id" validate:"required"`
	Qty       *int    `json:"qty" validate:"required,min=1"`
	Size      *string `json:"size"`
}

// Order is a quick-checkout order. Totals are stored as sent; they are not
// reconciled against the items.
type Order struct {
	Email    string      `json:"email" validate:"required,email_address"`
	Items    []OrderItem `json:"items" validate:"required,min=1,dive"`
	Subtotal *float64    `json:"subtotal" validate:"required,gte=0"`
	Shipping float64     `json:"shipping" validate:"gte=0"`
	Total    *float64    `json:"total" validate:"required,gte=0"`
	Status   OrderStatus `json:"status" validate:"oneof=created paid shipped"`
}

func NewOrder() *Order {
	return &Order{Status: OrderStatusCreated}
}

func (o *Order) Kind() Kind { return KindOrder }

func (o *Order) Fields() map[string]any {
	items := make([]map[string]any, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, map[string]any{
			"product_id": item.ProductId,
			"qty":        optional(item.Qty),
			"size":       optional(item.Size),
		})
	}

	return map[string]any{
		"email":    o.Email,
		"items":    items,
		"subtotal": optional(o.Subtotal),
		"shipping": o.Shipping,
		"total":    optional(o.Total),
		"status":   string(o.Status),
	}
}
