package timeseries

import (
	"time"

	"github.com/storepulse/storepulse/internal/types"
)

const (
	// PatternHighThreshold and PatternLowThreshold bound the "no pattern" band
	// of seasonal indices.
	PatternHighThreshold = 1.2
	PatternLowThreshold  = 0.8
)

// Pattern holds the seasonal index of every unit of a cycle. Weekday cycles
// are indexed Sunday..Saturday, month cycles January..December.
type Pattern struct {
	Unit           types.CycleUnit `json:"unit"`
	Labels         []string        `json:"labels"`
	Averages       []float64       `json:"averages"`
	Indices        []float64       `json:"indices"`
	Detected       bool            `json:"detected"`
	Strongest      string          `json:"strongest,omitempty"`
	StrongestIndex float64         `json:"strongest_index,omitempty"`
	Weakest        string          `json:"weakest,omitempty"`
	WeakestIndex   float64         `json:"weakest_index,omitempty"`

	observed []bool
}

func cycleLabels(unit types.CycleUnit) []string {
	if unit == types.CycleUnitMonth {
		labels := make([]string, 12)
		for m := time.January; m <= time.December; m++ {
			labels[m-1] = m.String()
		}
		return labels
	}
	labels := make([]string, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		labels[d] = d.String()
	}
	return labels
}

func cycleSlot(unit types.CycleUnit, t time.Time) int {
	if unit == types.CycleUnitMonth {
		return int(t.Month()) - 1
	}
	return int(t.Weekday())
}

// AnalyzePattern computes seasonal indices for unit over points. Units without
// any observation keep a neutral index of 1.0 and never become the strongest
// or weakest unit.
func AnalyzePattern(points []Point, unit types.CycleUnit) Pattern {
	labels := cycleLabels(unit)
	size := len(labels)

	pattern := Pattern{
		Unit:     unit,
		Labels:   labels,
		Averages: make([]float64, size),
		Indices:  make([]float64, size),
		observed: make([]bool, size),
	}
	for i := range pattern.Indices {
		pattern.Indices[i] = 1
	}
	if len(points) == 0 {
		return pattern
	}

	sums := make([]float64, size)
	counts := make([]int, size)
	values := Values(points)
	for i, p := range points {
		slot := cycleSlot(unit, p.PeriodStart)
		sums[slot] += values[i]
		counts[slot]++
	}

	overall := mean(values)
	for i := range sums {
		if counts[i] == 0 {
			continue
		}
		pattern.observed[i] = true
		pattern.Averages[i] = sums[i] / float64(counts[i])
		if overall > 0 {
			pattern.Indices[i] = pattern.Averages[i] / overall
		}
	}
	if overall <= 0 {
		return pattern
	}

	strongest, weakest := -1, -1
	for i, idx := range pattern.Indices {
		if !pattern.observed[i] {
			continue
		}
		if strongest < 0 || idx > pattern.Indices[strongest] {
			strongest = i
		}
		if weakest < 0 || idx < pattern.Indices[weakest] {
			weakest = i
		}
		if idx > PatternHighThreshold || idx < PatternLowThreshold {
			pattern.Detected = true
		}
	}
	if strongest >= 0 {
		pattern.Strongest = labels[strongest]
		pattern.StrongestIndex = pattern.Indices[strongest]
		pattern.Weakest = labels[weakest]
		pattern.WeakestIndex = pattern.Indices[weakest]
	}
	return pattern
}

// Factor is the multiplicative seasonal factor for the unit containing t.
func (p Pattern) Factor(t time.Time) float64 {
	if len(p.Indices) == 0 {
		return 1
	}
	return p.Indices[cycleSlot(p.Unit, t)]
}
