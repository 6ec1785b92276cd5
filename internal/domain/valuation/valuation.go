// Package valuation assigns a monetary price to every roster entry from
// its ranking, grouped by category, using a tiered and proportional
// allocation rule.
package valuation

import (
	"math"
	"sort"

	"github.com/mveron/gruppetto/internal/domain/model"
)

// Default price tiers and band percentages.
const (
	defaultMaxPrice     = 10.0
	defaultTopPrice     = 8.0
	defaultMidHighPrice = 6.5
	defaultMidLowPrice  = 2.0
	defaultMinPrice     = 1.0
	defaultTopPercent   = 2.0
	defaultBottomPct    = 5.0
)

// Engine computes prices over one roster batch.
type Engine struct {
	maxPrice     float64
	topPrice     float64
	midHighPrice float64
	midLowPrice  float64
	minPrice     float64
	topPercent   float64
	bottomPct    float64
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithTiers sets the five configured price tiers, best to worst. Values
// that break the non-increasing order are ignored.
func WithTiers(maxPrice, top, midHigh, midLow, minPrice float64) Option {
	return func(e *Engine) {
		if maxPrice >= top && top >= midHigh && midHigh >= midLow && midLow >= minPrice && minPrice > 0 {
			e.maxPrice = maxPrice
			e.topPrice = top
			e.midHighPrice = midHigh
			e.midLowPrice = midLow
			e.minPrice = minPrice
		}
	}
}

// WithBands sets the top and bottom band percentages.
func WithBands(topPercent, bottomPercent float64) Option {
	return func(e *Engine) {
		if topPercent > 0 && bottomPercent > 0 && topPercent+bottomPercent < 100 {
			e.topPercent = topPercent
			e.bottomPct = bottomPercent
		}
	}
}

// New creates a valuation engine with default tiers.
func New(opts ...Option) *Engine {
	e := &Engine{
		maxPrice:     defaultMaxPrice,
		topPrice:     defaultTopPrice,
		midHighPrice: defaultMidHighPrice,
		midLowPrice:  defaultMidLowPrice,
		minPrice:     defaultMinPrice,
		topPercent:   defaultTopPercent,
		bottomPct:    defaultBottomPct,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MinPrice returns the configured price floor.
func (e *Engine) MinPrice() float64 { return e.minPrice }

// MaxPrice returns the configured price ceiling.
func (e *Engine) MaxPrice() float64 { return e.maxPrice }

// Price returns a copy of the batch with every entry priced. The single
// best-ranked entry across the whole batch takes the maximum price
// regardless of category; the rest are priced per category: the best band
// at the top tier, the worst band at the floor, and the middle linearly
// interpolated between the two middle tiers. Prices round to one decimal.
func (e *Engine) Price(entries []model.RosterEntry) []model.RosterEntry {
	out := make([]model.RosterEntry, len(entries))
	copy(out, entries)
	if len(out) == 0 {
		return out
	}

	best := e.bestOverall(out)
	if best >= 0 {
		out[best].Price = round1(e.maxPrice)
	}

	byCategory := make(map[model.Category][]int)
	for i := range out {
		if i == best {
			continue
		}
		byCategory[out[i].Category] = append(byCategory[out[i].Category], i)
	}

	for _, idxs := range byCategory {
		e.priceCategory(out, idxs)
	}
	return out
}

// bestOverall finds the entry with the numerically lowest positive
// ranking, or -1 when the batch holds only unranked entries.
func (e *Engine) bestOverall(entries []model.RosterEntry) int {
	best := -1
	for i := range entries {
		if entries[i].Ranking <= 0 {
			continue
		}
		if best < 0 || entries[i].Ranking < entries[best].Ranking {
			best = i
		}
	}
	return best
}

// priceCategory prices one category partition. idxs index into entries.
func (e *Engine) priceCategory(entries []model.RosterEntry, idxs []int) {
	// Ascending by ranking, unranked last.
	sort.SliceStable(idxs, func(a, b int) bool {
		ra, rb := entries[idxs[a]].Ranking, entries[idxs[b]].Ranking
		if ra <= 0 {
			return false
		}
		if rb <= 0 {
			return true
		}
		return ra < rb
	})

	n := len(idxs)
	topN := bandSize(n, e.topPercent)
	bottomN := bandSize(n, e.bottomPct)
	middle := n - topN - bottomN

	for pos, idx := range idxs {
		switch {
		case pos < topN:
			entries[idx].Price = round1(e.topPrice)
		case pos >= n-bottomN:
			entries[idx].Price = round1(e.minPrice)
		case middle == 1:
			entries[idx].Price = round1((e.midHighPrice + e.midLowPrice) / 2)
		default:
			step := float64(pos-topN) / float64(middle-1)
			entries[idx].Price = round1(e.midHighPrice - (e.midHighPrice-e.midLowPrice)*step)
		}
	}
}

// bandSize is the band cutoff with its floor of one entry, which very
// small categories rely on.
func bandSize(n int, percent float64) int {
	size := int(math.Ceil(float64(n) * percent / 100))
	if size < 1 {
		size = 1
	}
	return size
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
