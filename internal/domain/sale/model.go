package sale

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Sale is one checkout as read from the sales store.
type Sale struct {
	ID          string          `json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	UserID      string          `json:"user_id,omitempty"`
	Items       []*Item         `json:"items,omitempty"`
}

// Item is a line of a sale. Product is nil when the product has been removed
// or soft deleted; such lines are ignored by the analytics.
type Item struct {
	ProductID string          `json:"product_id"`
	Product   *Product        `json:"product,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	SellingPrice decimal.Decimal `json:"selling_price"`
}

// TimeBounds is the creation time of the oldest and newest sale. Both are zero
// when no sale exists.
type TimeBounds struct {
	Oldest time.Time `json:"oldest"`
	Newest time.Time `json:"newest"`
}

func (b *TimeBounds) IsEmpty() bool {
	return b == nil || b.Oldest.IsZero() || b.Newest.IsZero()
}

// Valid reports whether the line references a live product with a positive quantity.
func (i *Item) Valid() bool {
	return i != nil && i.Product != nil && i.Product.ID != "" && i.Quantity > 0
}

// ValidItems returns the lines that take part in product analytics.
func (s *Sale) ValidItems() []*Item {
	if s == nil {
		return nil
	}
	return lo.Filter(s.Items, func(item *Item, _ int) bool {
		return item.Valid()
	})
}
