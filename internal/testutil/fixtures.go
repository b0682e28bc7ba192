package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storepulse/storepulse/internal/domain/sale"
	"github.com/storepulse/storepulse/internal/types"
)

// SetupContext returns a context carrying a request id and user id.
func SetupContext() context.Context {
	ctx := context.Background()
	ctx = types.SetRequestID(ctx, types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REQUEST))
	ctx = types.SetUserID(ctx, "user_test")
	return ctx
}

// NewProduct builds a product priced at price.
func NewProduct(id, name string, price float64) *sale.Product {
	return &sale.Product{ID: id, Name: name, SellingPrice: decimal.NewFromFloat(price)}
}

// NewSale builds a sale whose total is the sum of its lines.
func NewSale(id string, at time.Time, items ...*sale.Item) *sale.Sale {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return &sale.Sale{ID: id, CreatedAt: at, TotalAmount: total, Items: items}
}

// NewItem builds a line for p. A nil product yields a line for a removed product.
func NewItem(p *sale.Product, qty int, unitPrice float64) *sale.Item {
	item := &sale.Item{Product: p, Quantity: qty, UnitPrice: decimal.NewFromFloat(unitPrice)}
	if p != nil {
		item.ProductID = p.ID
	} else {
		item.ProductID = "prod_removed"
	}
	return item
}

// DailySales returns one sale per day for days days starting at start, each
// totalling amount and holding a single line of p.
func DailySales(start time.Time, days int, amount float64, p *sale.Product) []*sale.Sale {
	sales := make([]*sale.Sale, 0, days)
	for i := 0; i < days; i++ {
		sales = append(sales, NewSale(fmt.Sprintf("sale_day_%03d", i), start.AddDate(0, 0, i), NewItem(p, 1, amount)))
	}
	return sales
}
