package basket

import (
	"sort"
	"strings"

	"github.com/storepulse/storepulse/internal/types"
)

// SupportFloor is the exclusive minimum support of any reported itemset.
const SupportFloor = 0.01

type tierThreshold struct {
	tier       types.ConfidenceTier
	support    float64
	confidence float64
}

// strictest first
var tierThresholds = []tierThreshold{
	{tier: types.ConfidenceTierHigh, support: 0.05, confidence: 0.7},
	{tier: types.ConfidenceTierMedium, support: 0.03, confidence: 0.5},
	{tier: types.ConfidenceTierLow, support: SupportFloor, confidence: 0.3},
}

// ClassifyTier returns the strictest tier satisfied by support and confidence.
func ClassifyTier(support, confidence float64) (types.ConfidenceTier, bool) {
	if support <= SupportFloor {
		return "", false
	}
	for _, t := range tierThresholds {
		if support >= t.support && confidence >= t.confidence {
			return t.tier, true
		}
	}
	return "", false
}

// Rule is a frequent itemset of two or three products with its metrics.
type Rule struct {
	ProductIDs []string             `json:"product_ids"`
	Frequency  int                  `json:"frequency"`
	Support    float64              `json:"support"`
	Confidence float64              `json:"confidence"`
	Lift       float64              `json:"lift"`
	Tier       types.ConfidenceTier `json:"tier"`
}

func (r Rule) key() string {
	return strings.Join(r.ProductIDs, "|")
}

// MineRules counts pairs and triples across transactions and keeps the
// itemsets that clear the support floor and reach at least minTier.
func MineRules(transactions []Transaction, minTier types.ConfidenceTier) []Rule {
	total := len(transactions)
	if total == 0 {
		return nil
	}

	single := make(map[string]int)
	itemsets := make(map[string][]string)
	freq := make(map[string]int)

	for _, tx := range transactions {
		for _, id := range tx.ProductIDs {
			single[id]++
		}
		for _, set := range combinations(tx.ProductIDs) {
			k := strings.Join(set, "|")
			if _, ok := itemsets[k]; !ok {
				itemsets[k] = set
			}
			freq[k]++
		}
	}

	n := float64(total)
	rules := make([]Rule, 0, len(itemsets))
	for k, ids := range itemsets {
		support := float64(freq[k]) / n

		minSupport := 1.0
		product := 1.0
		for _, id := range ids {
			s := float64(single[id]) / n
			if s < minSupport {
				minSupport = s
			}
			product *= s
		}

		confidence := support / minSupport
		lift := support / product

		tier, ok := ClassifyTier(support, confidence)
		if !ok || !tier.AtLeast(minTier) {
			continue
		}
		rules = append(rules, Rule{
			ProductIDs: ids,
			Frequency:  freq[k],
			Support:    support,
			Confidence: confidence,
			Lift:       lift,
			Tier:       tier,
		})
	}

	sort.Slice(rules, func(i, j int) bool {
		a, b := rules[i], rules[j]
		if a.Tier.Rank() != b.Tier.Rank() {
			return a.Tier.Rank() > b.Tier.Rank()
		}
		if a.Support != b.Support {
			return a.Support > b.Support
		}
		if a.Lift != b.Lift {
			return a.Lift > b.Lift
		}
		return a.key() < b.key()
	})
	return rules
}

// combinations lists every pair of ids and, with three or more ids, every
// triple. ids must be sorted so each itemset has one canonical order.
func combinations(ids []string) [][]string {
	n := len(ids)
	if n < 2 {
		return nil
	}
	sets := make([][]string, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sets = append(sets, []string{ids[i], ids[j]})
			for k := j + 1; k < n; k++ {
				sets = append(sets, []string{ids[i], ids[j], ids[k]})
			}
		}
	}
	return sets
}
