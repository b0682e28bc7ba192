// Package basket mines product associations and weekday buying habits from
// sale line items.
package basket

import (
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/storepulse/storepulse/internal/domain/sale"
)

// MaxProductsPerTransaction caps the distinct products enumerated per sale so
// itemset enumeration stays bounded on very large baskets.
const MaxProductsPerTransaction = 25

// Transaction is the distinct, sorted set of live products bought in one sale.
type Transaction struct {
	SaleID     string
	CreatedAt  time.Time
	ProductIDs []string
}

type catalogEntry struct {
	id           string
	name         string
	sellingPrice decimal.Decimal
	lastPrice    decimal.Decimal
	lastSeen     time.Time
}

// Catalog is the product information observed in a set of sales.
type Catalog struct {
	entries map[string]*catalogEntry
}

// Name returns the product name, falling back to its id.
func (c *Catalog) Name(id string) string {
	if e, ok := c.entries[id]; ok && e.name != "" {
		return e.name
	}
	return id
}

// Price is the selling price, or the latest observed unit price when the
// product has none.
func (c *Catalog) Price(id string) decimal.Decimal {
	e, ok := c.entries[id]
	if !ok {
		return decimal.Zero
	}
	if e.sellingPrice.IsPositive() {
		return e.sellingPrice
	}
	return e.lastPrice
}

func (c *Catalog) observe(s *sale.Sale, item *sale.Item) {
	id := item.Product.ID
	e, ok := c.entries[id]
	if !ok {
		e = &catalogEntry{id: id}
		c.entries[id] = e
	}
	e.name = item.Product.Name
	e.sellingPrice = item.Product.SellingPrice
	if e.lastSeen.IsZero() || !s.CreatedAt.Before(e.lastSeen) {
		e.lastSeen = s.CreatedAt
		e.lastPrice = item.UnitPrice
	}
}

// BuildTransactions keeps sales with at least one valid line and collects the
// catalog of the products they reference.
func BuildTransactions(sales []*sale.Sale) ([]Transaction, *Catalog) {
	catalog := &Catalog{entries: make(map[string]*catalogEntry)}
	transactions := make([]Transaction, 0, len(sales))

	for _, s := range sales {
		items := s.ValidItems()
		if len(items) == 0 {
			continue
		}
		for _, item := range items {
			catalog.observe(s, item)
		}

		ids := lo.Uniq(lo.Map(items, func(item *sale.Item, _ int) string {
			return item.Product.ID
		}))
		sort.Strings(ids)
		if len(ids) > MaxProductsPerTransaction {
			ids = ids[:MaxProductsPerTransaction]
		}

		transactions = append(transactions, Transaction{
			SaleID:     s.ID,
			CreatedAt:  s.CreatedAt,
			ProductIDs: ids,
		})
	}
	return transactions, catalog
}
