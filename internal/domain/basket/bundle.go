package basket

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/storepulse/storepulse/internal/domain/sale"
	"github.com/storepulse/storepulse/internal/types"
)

// DefaultMaxBundles is used when no bundle cap is configured.
const DefaultMaxBundles = 20

var tierDiscounts = map[types.ConfidenceTier]decimal.Decimal{
	types.ConfidenceTierHigh:   decimal.NewFromInt(15),
	types.ConfidenceTierMedium: decimal.NewFromInt(10),
	types.ConfidenceTierLow:    decimal.NewFromInt(5),
}

// DiscountPercent is the bundle discount granted to a tier.
func DiscountPercent(tier types.ConfidenceTier) decimal.Decimal {
	return tierDiscounts[tier]
}

type BundleProduct struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Bundle is a recommended product bundle backed by an association rule.
type Bundle struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	Products        []BundleProduct      `json:"products"`
	BundlePrice     decimal.Decimal      `json:"bundle_price"`
	IndividualPrice decimal.Decimal      `json:"individual_price"`
	DiscountAmount  decimal.Decimal      `json:"discount_amount"`
	DiscountPercent decimal.Decimal      `json:"discount_percent"`
	Tier            types.ConfidenceTier `json:"confidence_tier"`
	Support         float64              `json:"support"`
	Confidence      float64              `json:"confidence"`
	Lift            float64              `json:"lift"`
	Frequency       int                  `json:"frequency"`
}

// MineOptions tunes bundle mining.
type MineOptions struct {
	MinTier    types.ConfidenceTier
	MaxBundles int
}

// MineBundles turns the association rules found in sales into priced
// bundles, strongest first.
func MineBundles(sales []*sale.Sale, opts MineOptions) []*Bundle {
	if opts.MinTier == "" {
		opts.MinTier = types.ConfidenceTierLow
	}
	if opts.MaxBundles <= 0 {
		opts.MaxBundles = DefaultMaxBundles
	}

	transactions, catalog := BuildTransactions(sales)
	rules := MineRules(transactions, opts.MinTier)
	if len(rules) > opts.MaxBundles {
		rules = rules[:opts.MaxBundles]
	}

	return lo.Map(rules, func(r Rule, _ int) *Bundle {
		return newBundle(r, catalog)
	})
}

func newBundle(r Rule, catalog *Catalog) *Bundle {
	products := lo.Map(r.ProductIDs, func(id string, _ int) BundleProduct {
		return BundleProduct{ID: id, Name: catalog.Name(id), Price: catalog.Price(id)}
	})

	individual := decimal.Zero
	for _, p := range products {
		individual = individual.Add(p.Price)
	}
	percent := DiscountPercent(r.Tier)
	discount := individual.Mul(percent).Div(decimal.NewFromInt(100)).Round(2)

	return &Bundle{
		ID:              "bundle_" + strings.Join(r.ProductIDs, "_"),
		Name:            bundleName(products),
		Products:        products,
		BundlePrice:     individual.Sub(discount),
		IndividualPrice: individual,
		DiscountAmount:  discount,
		DiscountPercent: percent,
		Tier:            r.Tier,
		Support:         r.Support,
		Confidence:      r.Confidence,
		Lift:            r.Lift,
		Frequency:       r.Frequency,
	}
}

func bundleName(products []BundleProduct) string {
	if len(products) == 2 {
		return products[0].Name + " + " + products[1].Name
	}
	return fmt.Sprintf("%s + %d items", products[0].Name, len(products)-1)
}
