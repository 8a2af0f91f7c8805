package models

// ProductCategory is the primary shelf a product sits on.
type ProductCategory string

const (
	CategoryMen         ProductCategory = "men"
	CategoryWomen       ProductCategory = "women"
	CategoryUnisex      ProductCategory = "unisex"
	CategoryAccessories ProductCategory = "accessories"
)

const DefaultProductRating = 4.5

type Product struct {
	Title       string          `json:"title" validate:"required"`
	Description *string         `json:"description"`
	Price       *float64        `json:"price" validate:"required,gte=0"`
	Category    ProductCategory `json:"category" validate:"required,oneof=men women unisex accessories"`
	Tags        []string        `json:"tags"`
	Images      []string        `json:"images"`
	InStock     bool            `json:"in_stock"`
	Rating      float64         `json:"rating" validate:"gte=0,lte=5"`
}

// NewProduct returns a product carrying the schema defaults.
func NewProduct() *Product {
	return &Product{
		Tags:    []string{},
		Images:  []string{},
		InStock: true,
		Rating:  DefaultProductRating,
	}
}

func (p *Product) Kind() Kind { return KindProduct }

func (p *Product) Fields() map[string]any {
	return map[string]any{
		"title":       p.Title,
		"description": optional(p.Description),
		"price":       optional(p.Price),
		"category":    string(p.Category),
		"tags":        list(p.Tags),
		"images":      list(p.Images),
		"in_stock":    p.InStock,
		"rating":      p.Rating,
	}
}

// optional stores a nil pointer as null rather than a typed nil.
func optional[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

func list(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
