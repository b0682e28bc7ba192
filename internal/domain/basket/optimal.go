package basket

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/storepulse/storepulse/internal/types"
)

// DefaultOptimalLimit is the number of products returned when no limit is given.
const DefaultOptimalLimit = 10

// OptimalProduct ranks a product by how strongly it anchors bundles.
type OptimalProduct struct {
	ProductID         string               `json:"product_id"`
	ProductName       string               `json:"product_name"`
	Price             decimal.Decimal      `json:"price"`
	Score             float64              `json:"score"`
	BundleCount       int                  `json:"bundle_count"`
	AverageConfidence float64              `json:"average_confidence"`
	AverageLift       float64              `json:"average_lift"`
	BestTier          types.ConfidenceTier `json:"best_tier"`

	raw float64
}

// RankOptimalProducts scores every product of the bundles whose confidence
// reaches threshold by the sum of confidence x lift, scaled to 0..100.
func RankOptimalProducts(bundles []*Bundle, threshold float64, limit int) []*OptimalProduct {
	if limit <= 0 {
		limit = DefaultOptimalLimit
	}

	byID := make(map[string]*OptimalProduct)
	for _, b := range bundles {
		if b == nil || b.Confidence < threshold {
			continue
		}
		for _, p := range b.Products {
			op, ok := byID[p.ID]
			if !ok {
				op = &OptimalProduct{ProductID: p.ID, ProductName: p.Name, Price: p.Price, BestTier: b.Tier}
				byID[p.ID] = op
			}
			op.BundleCount++
			op.AverageConfidence += b.Confidence
			op.AverageLift += b.Lift
			op.raw += b.Confidence * b.Lift
			if b.Tier.Rank() > op.BestTier.Rank() {
				op.BestTier = b.Tier
			}
		}
	}
	if len(byID) == 0 {
		return []*OptimalProduct{}
	}

	maxRaw := 0.0
	products := make([]*OptimalProduct, 0, len(byID))
	for _, op := range byID {
		op.AverageConfidence /= float64(op.BundleCount)
		op.AverageLift /= float64(op.BundleCount)
		maxRaw = math.Max(maxRaw, op.raw)
		products = append(products, op)
	}
	for _, op := range products {
		if maxRaw > 0 {
			op.Score = math.Round(op.raw/maxRaw*10000) / 100
		}
	}

	sort.Slice(products, func(i, j int) bool {
		a, b := products[i], products[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.BundleCount != b.BundleCount {
			return a.BundleCount > b.BundleCount
		}
		if a.ProductName != b.ProductName {
			return a.ProductName < b.ProductName
		}
		return a.ProductID < b.ProductID
	})

	if len(products) > limit {
		products = products[:limit]
	}
	return products
}
