package pricing

import (
	"math"
	"time"
)

// priceStep is the rounding granularity for displayed VND amounts.
const priceStep = 1000

// PriceBlock is one date-scoped price-and-stock record of a tour.
// A nil Stock means unlimited seats. A nil per-category discount falls
// back to the block's general Discount.
type PriceBlock struct {
	AdultPrice      int64
	ChildrenPrice   int64
	ChildPrice      int64
	BabyPrice       int64
	SingleRoomPrice int64

	Stock *int

	Discount         float64
	AdultDiscount    *float64
	ChildrenDiscount *float64
	ChildDiscount    *float64
	BabyDiscount     *float64

	DayStart  time.Time
	DayReturn time.Time
}

// Pax holds passenger counts per category.
type Pax struct {
	Adults   int
	Children int
	Child    int
	Baby     int
}

// Summary is the cached pricing snapshot persisted on a tour.
type Summary struct {
	MinPrice     int64 `json:"min_price"`
	MaxPrice     int64 `json:"max_price"`
	DisplayPrice int64 `json:"display_price"`
}

// Available reports whether the block can still be booked: seats left
// (or unlimited) and a departure day no earlier than today. Same-day
// departures count as available.
func Available(b PriceBlock, now time.Time) bool {
	if b.Stock != nil && *b.Stock <= 0 {
		return false
	}
	if b.DayStart.IsZero() {
		return false
	}
	return !day(b.DayStart).Before(day(now))
}

// ApplyDiscount returns price reduced by percent. The percentage is
// clamped into [0, 100], a negative price counts as zero.
func ApplyDiscount(price int64, percent float64) float64 {
	if price < 0 {
		price = 0
	}
	percent = clampPercent(percent)
	v := float64(price) - float64(price)*percent/100
	if v < 0 {
		return 0
	}
	return v
}

// RoundPrice rounds to the nearest multiple of 1,000 VND.
func RoundPrice(v float64) int64 {
	if v <= 0 {
		return 0
	}
	return int64(math.Round(v/priceStep)) * priceStep
}

// DiscountedPrice is the display price of a single unit: discount
// applied, then rounded.
func DiscountedPrice(price int64, percent float64) int64 {
	return RoundPrice(ApplyDiscount(price, percent))
}

// MinAvailablePrice returns the lowest positive discounted adult price
// among bookable blocks, or 0 when nothing is bookable.
func MinAvailablePrice(blocks []PriceBlock, now time.Time) int64 {
	return pickPrice(blocks, now, true, lessThan)
}

// MaxAvailablePrice is the counterpart of MinAvailablePrice.
func MaxAvailablePrice(blocks []PriceBlock, now time.Time) int64 {
	return pickPrice(blocks, now, true, greaterThan)
}

// MinPriceAll ignores availability. Used as a fallback so the catalog
// can still show an indicative price when no departure is bookable.
func MinPriceAll(blocks []PriceBlock) int64 {
	return pickPrice(blocks, time.Time{}, false, lessThan)
}

// MaxPriceAll is the counterpart of MinPriceAll.
func MaxPriceAll(blocks []PriceBlock) int64 {
	return pickPrice(blocks, time.Time{}, false, greaterThan)
}

// DisplayRange prefers the available range and falls back to the
// all-blocks range when no block is currently bookable.
func DisplayRange(blocks []PriceBlock, now time.Time) (min, max int64) {
	min = MinAvailablePrice(blocks, now)
	max = MaxAvailablePrice(blocks, now)
	if min == 0 {
		min = MinPriceAll(blocks)
	}
	if max == 0 {
		max = MaxPriceAll(blocks)
	}
	return min, max
}

// ComputeTourPricing derives the cached tour snapshot from its blocks.
// The display price is always the minimum available price, never an
// average or a maximum.
func ComputeTourPricing(blocks []PriceBlock, now time.Time) Summary {
	s := Summary{
		MinPrice: MinAvailablePrice(blocks, now),
		MaxPrice: MaxAvailablePrice(blocks, now),
	}
	if s.MinPrice > 0 {
		s.DisplayPrice = s.MinPrice
	}
	return s
}

// BookingTotal computes the cost of one booking on the given block.
// Adults are always charged. Children, child and baby lines are charged
// only when their base price is positive: a zero price means the
// category travels free, not that the price is unset. The single-room
// supplement is added as-is.
func BookingTotal(b PriceBlock, pax Pax, singleRooms int) int64 {
	adultUnit := DiscountedPrice(b.AdultPrice, resolveDiscount(b.AdultDiscount, b.Discount))

	total := int64(count(pax.Adults)) * adultUnit
	if b.ChildrenPrice > 0 {
		unit := DiscountedPrice(b.ChildrenPrice, resolveDiscount(b.ChildrenDiscount, b.Discount))
		total += int64(count(pax.Children)) * unit
	}
	if b.ChildPrice > 0 {
		unit := DiscountedPrice(b.ChildPrice, resolveDiscount(b.ChildDiscount, b.Discount))
		total += int64(count(pax.Child)) * unit
	}
	if b.BabyPrice > 0 {
		unit := DiscountedPrice(b.BabyPrice, resolveDiscount(b.BabyDiscount, b.Discount))
		total += int64(count(pax.Baby)) * unit
	}
	total += int64(count(singleRooms)) * b.SingleRoomPrice
	if total < 0 {
		return 0
	}
	return total
}

// Seats is the number of stock units a booking consumes. Babies do not
// occupy a seat.
func (p Pax) Seats() int {
	return count(p.Adults) + count(p.Children) + count(p.Child)
}

func resolveDiscount(override *float64, general float64) float64 {
	if override != nil {
		return *override
	}
	return general
}

func clampPercent(percent float64) float64 {
	if percent < 0 || math.IsNaN(percent) {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

func count(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func pickPrice(blocks []PriceBlock, now time.Time, onlyAvailable bool, better func(a, b int64) bool) int64 {
	var best int64
	for _, b := range blocks {
		if onlyAvailable && !Available(b, now) {
			continue
		}
		candidate := DiscountedPrice(b.AdultPrice, b.Discount)
		if candidate <= 0 {
			continue
		}
		if best == 0 || better(candidate, best) {
			best = candidate
		}
	}
	return best
}

func lessThan(a, b int64) bool    { return a < b }
func greaterThan(a, b int64) bool { return a > b }

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
