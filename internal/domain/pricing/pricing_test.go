package pricing

import (
	"testing"
	"time"
)

var testNow = time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)

func intPtr(v int) *int         { return &v }
func pctPtr(v float64) *float64 { return &v }

func block(adult int64, discount float64, stock int, startOffsetDays int) PriceBlock {
	return PriceBlock{
		AdultPrice: adult,
		Discount:   discount,
		Stock:      intPtr(stock),
		DayStart:   testNow.AddDate(0, 0, startOffsetDays),
		DayReturn:  testNow.AddDate(0, 0, startOffsetDays+3),
	}
}

func TestAvailable(t *testing.T) {
	cases := []struct {
		name string
		b    PriceBlock
		want bool
	}{
		{"future departure with stock", block(1_000_000, 0, 5, 2), true},
		{"same-day departure counts", block(1_000_000, 0, 1, 0), true},
		{"past departure", block(1_000_000, 0, 5, -1), false},
		{"sold out", block(1_000_000, 0, 0, 2), false},
		{"negative stock", block(1_000_000, 0, -3, 2), false},
		{"nil stock means unlimited", PriceBlock{AdultPrice: 1, DayStart: testNow.AddDate(0, 0, 1)}, true},
		{"zero day start", PriceBlock{AdultPrice: 1, Stock: intPtr(5)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Available(tc.b, testNow); got != tc.want {
				t.Errorf("Available() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAvailableSameDayLateEvening(t *testing.T) {
	// Departure earlier the same day is still available: comparison is
	// at day granularity.
	b := PriceBlock{
		AdultPrice: 1,
		Stock:      intPtr(1),
		DayStart:   time.Date(2026, time.March, 10, 6, 0, 0, 0, time.UTC),
	}
	lateEvening := time.Date(2026, time.March, 10, 23, 55, 0, 0, time.UTC)
	if !Available(b, lateEvening) {
		t.Fatal("same-day departure should be available at any hour")
	}
}

func TestApplyDiscount(t *testing.T) {
	cases := []struct {
		name    string
		price   int64
		percent float64
		want    float64
	}{
		{"zero discount is identity", 20_000_000, 0, 20_000_000},
		{"plain discount", 20_000_000, 20, 16_000_000},
		{"over 100 clamps to 100", 20_000_000, 150, 0},
		{"negative clamps to 0", 20_000_000, -10, 20_000_000},
		{"negative price treated as zero", -5_000, 10, 0},
		{"full discount", 1_000_000, 100, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ApplyDiscount(tc.price, tc.percent); got != tc.want {
				t.Errorf("ApplyDiscount(%d, %v) = %v, want %v", tc.price, tc.percent, got, tc.want)
			}
		})
	}
}

func TestDiscountClampEquivalence(t *testing.T) {
	if ApplyDiscount(7_345_000, 150) != ApplyDiscount(7_345_000, 100) {
		t.Error("discount above 100 must behave like 100")
	}
	if ApplyDiscount(7_345_000, -10) != ApplyDiscount(7_345_000, 0) {
		t.Error("negative discount must behave like 0")
	}
}

func TestRoundPrice(t *testing.T) {
	cases := []struct {
		in   float64
		want int64
	}{
		{0, 0},
		{-1200, 0},
		{499, 0},
		{500, 1000},
		{16_000_000, 16_000_000},
		{15_999_400, 15_999_000},
		{15_999_500, 16_000_000},
	}
	for _, tc := range cases {
		if got := RoundPrice(tc.in); got != tc.want {
			t.Errorf("RoundPrice(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestMinPriceScenario(t *testing.T) {
	// One block, 20M adult price, 20% off, in stock, departing tomorrow.
	blocks := []PriceBlock{block(20_000_000, 20, 5, 1)}

	if got := MinAvailablePrice(blocks, testNow); got != 16_000_000 {
		t.Errorf("MinAvailablePrice = %d, want 16000000", got)
	}
}

func TestSoldOutFallsBackToAllVariant(t *testing.T) {
	blocks := []PriceBlock{block(20_000_000, 20, 0, 1)}

	if got := MinAvailablePrice(blocks, testNow); got != 0 {
		t.Errorf("MinAvailablePrice on sold-out list = %d, want 0", got)
	}
	if got := MaxAvailablePrice(blocks, testNow); got != 0 {
		t.Errorf("MaxAvailablePrice on sold-out list = %d, want 0", got)
	}
	if got := MinPriceAll(blocks); got != 16_000_000 {
		t.Errorf("MinPriceAll = %d, want 16000000", got)
	}
	if got := MaxPriceAll(blocks); got != 16_000_000 {
		t.Errorf("MaxPriceAll = %d, want 16000000", got)
	}
}

func TestMinNotAboveMax(t *testing.T) {
	blocks := []PriceBlock{
		block(12_000_000, 0, 3, 1),
		block(20_000_000, 20, 5, 7),
		block(9_500_000, 5, 2, 14),
	}
	min := MinAvailablePrice(blocks, testNow)
	max := MaxAvailablePrice(blocks, testNow)
	if min == 0 || max == 0 {
		t.Fatalf("expected positive prices, got min=%d max=%d", min, max)
	}
	if min > max {
		t.Errorf("min %d exceeds max %d", min, max)
	}
}

func TestNonPositiveCandidatesDiscarded(t *testing.T) {
	blocks := []PriceBlock{
		block(0, 0, 5, 1),
		block(10_000_000, 100, 5, 1),
	}
	if got := MinAvailablePrice(blocks, testNow); got != 0 {
		t.Errorf("MinAvailablePrice = %d, want 0 with no positive candidates", got)
	}
}

func TestDisplayRangeFallback(t *testing.T) {
	blocks := []PriceBlock{block(8_000_000, 10, 0, 2)}
	min, max := DisplayRange(blocks, testNow)
	if min != 7_200_000 || max != 7_200_000 {
		t.Errorf("DisplayRange = (%d, %d), want (7200000, 7200000)", min, max)
	}
}

func TestComputeTourPricing(t *testing.T) {
	blocks := []PriceBlock{
		block(20_000_000, 20, 5, 1),
		block(25_000_000, 0, 2, 10),
	}
	s := ComputeTourPricing(blocks, testNow)
	if s.MinPrice != 16_000_000 {
		t.Errorf("MinPrice = %d, want 16000000", s.MinPrice)
	}
	if s.MaxPrice != 25_000_000 {
		t.Errorf("MaxPrice = %d, want 25000000", s.MaxPrice)
	}
	if s.DisplayPrice != s.MinPrice {
		t.Errorf("DisplayPrice = %d, want the minimum %d", s.DisplayPrice, s.MinPrice)
	}
}

func TestComputeTourPricingEmpty(t *testing.T) {
	s := ComputeTourPricing(nil, testNow)
	if s.MinPrice != 0 || s.MaxPrice != 0 || s.DisplayPrice != 0 {
		t.Errorf("empty block list must yield a zero summary, got %+v", s)
	}
}

func TestBookingTotalScenario(t *testing.T) {
	// 2 adults at 16M (after 20% off 20M), 3 free children, one single
	// room at 500k: 2*16M + 0 + 500k.
	b := PriceBlock{
		AdultPrice:      20_000_000,
		ChildrenPrice:   0,
		SingleRoomPrice: 500_000,
		Discount:        20,
		Stock:           intPtr(10),
		DayStart:        testNow.AddDate(0, 0, 1),
	}
	got := BookingTotal(b, Pax{Adults: 2, Children: 3}, 1)
	if got != 32_500_000 {
		t.Errorf("BookingTotal = %d, want 32500000", got)
	}
}

func TestBookingTotalZeroPriceCategorySkipped(t *testing.T) {
	// Children with a zero base price contribute nothing even with a
	// per-category discount override present.
	b := PriceBlock{
		AdultPrice:       1_000_000,
		ChildrenPrice:    0,
		ChildrenDiscount: pctPtr(50),
		Stock:            intPtr(10),
		DayStart:         testNow.AddDate(0, 0, 1),
	}
	with := BookingTotal(b, Pax{Adults: 1, Children: 4}, 0)
	without := BookingTotal(b, Pax{Adults: 1}, 0)
	if with != without {
		t.Errorf("free children changed the total: %d vs %d", with, without)
	}
}

func TestBookingTotalCategoryOverrides(t *testing.T) {
	b := PriceBlock{
		AdultPrice:    10_000_000,
		ChildrenPrice: 5_000_000,
		ChildPrice:    2_000_000,
		BabyPrice:     1_000_000,
		Discount:      10,
		AdultDiscount: pctPtr(20),
		BabyDiscount:  pctPtr(0),
		Stock:         intPtr(10),
		DayStart:      testNow.AddDate(0, 0, 1),
	}
	// adult: 10M - 20% = 8M (override), children: 5M - 10% = 4.5M
	// (general), child: 2M - 10% = 1.8M (general), baby: 1M - 0% = 1M
	// (explicit zero override beats the general discount).
	got := BookingTotal(b, Pax{Adults: 1, Children: 1, Child: 1, Baby: 1}, 0)
	want := int64(8_000_000 + 4_500_000 + 1_800_000 + 1_000_000)
	if got != want {
		t.Errorf("BookingTotal = %d, want %d", got, want)
	}
}

func TestBookingTotalAdultAlwaysCharged(t *testing.T) {
	b := PriceBlock{
		AdultPrice:      0,
		SingleRoomPrice: 300_000,
		Stock:           intPtr(2),
		DayStart:        testNow.AddDate(0, 0, 1),
	}
	if got := BookingTotal(b, Pax{Adults: 2}, 2); got != 600_000 {
		t.Errorf("BookingTotal = %d, want only the room supplement 600000", got)
	}
}

func TestBookingTotalNegativeCountsClamped(t *testing.T) {
	b := block(1_000_000, 0, 5, 1)
	if got := BookingTotal(b, Pax{Adults: -2, Children: -1}, -3); got != 0 {
		t.Errorf("BookingTotal with negative counts = %d, want 0", got)
	}
}

func TestPaxSeats(t *testing.T) {
	p := Pax{Adults: 2, Children: 1, Child: 1, Baby: 3}
	if got := p.Seats(); got != 4 {
		t.Errorf("Seats = %d, want 4 (babies excluded)", got)
	}
}
