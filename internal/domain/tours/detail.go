package tours

import (
	"context"
	"errors"
	"time"

	"tourline/internal/domain/pricing"
)

var (
	ErrDetailNotFound  = errors.New("tours: price block not found")
	ErrDatesOutOfOrder = errors.New("tours: return day must be after departure day")
	ErrDetailTourID    = errors.New("tours: price block requires a tour id")
	ErrOutOfStock      = errors.New("tours: not enough seats left")
)

type DetailID string

// Detail is one bookable date-range/price block of a tour.
type Detail struct {
	ID     DetailID
	TourID TourID

	AdultPrice      int64
	ChildrenPrice   int64
	ChildPrice      int64
	BabyPrice       int64
	SingleRoomPrice int64

	// nil means unlimited seats.
	Stock *int

	Discount         float64
	AdultDiscount    *float64
	ChildrenDiscount *float64
	ChildDiscount    *float64
	BabyDiscount     *float64

	DayStart  time.Time
	DayReturn time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

type DetailParams struct {
	ID     DetailID
	TourID TourID

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
	Now       time.Time
}

func NewDetail(params DetailParams) (*Detail, error) {
	if params.ID == "" {
		return nil, errors.New("tours: price block id is required")
	}
	if params.TourID == "" {
		return nil, ErrDetailTourID
	}
	if !params.DayReturn.After(params.DayStart) {
		return nil, ErrDatesOutOfOrder
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	return &Detail{
		ID:               params.ID,
		TourID:           params.TourID,
		AdultPrice:       nonNegative(params.AdultPrice),
		ChildrenPrice:    nonNegative(params.ChildrenPrice),
		ChildPrice:       nonNegative(params.ChildPrice),
		BabyPrice:        nonNegative(params.BabyPrice),
		SingleRoomPrice:  nonNegative(params.SingleRoomPrice),
		Stock:            copyStock(params.Stock),
		Discount:         params.Discount,
		AdultDiscount:    copyPct(params.AdultDiscount),
		ChildrenDiscount: copyPct(params.ChildrenDiscount),
		ChildDiscount:    copyPct(params.ChildDiscount),
		BabyDiscount:     copyPct(params.BabyDiscount),
		DayStart:         params.DayStart.UTC(),
		DayReturn:        params.DayReturn.UTC(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

func (d *Detail) UpdateAttributes(params DetailParams) error {
	if !params.DayReturn.After(params.DayStart) {
		return ErrDatesOutOfOrder
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}

	d.AdultPrice = nonNegative(params.AdultPrice)
	d.ChildrenPrice = nonNegative(params.ChildrenPrice)
	d.ChildPrice = nonNegative(params.ChildPrice)
	d.BabyPrice = nonNegative(params.BabyPrice)
	d.SingleRoomPrice = nonNegative(params.SingleRoomPrice)
	d.Stock = copyStock(params.Stock)
	d.Discount = params.Discount
	d.AdultDiscount = copyPct(params.AdultDiscount)
	d.ChildrenDiscount = copyPct(params.ChildrenDiscount)
	d.ChildDiscount = copyPct(params.ChildDiscount)
	d.BabyDiscount = copyPct(params.BabyDiscount)
	d.DayStart = params.DayStart.UTC()
	d.DayReturn = params.DayReturn.UTC()
	d.UpdatedAt = now.UTC()
	return nil
}

// Block maps the record into the pricing engine's input shape.
func (d *Detail) Block() pricing.PriceBlock {
	return pricing.PriceBlock{
		AdultPrice:       d.AdultPrice,
		ChildrenPrice:    d.ChildrenPrice,
		ChildPrice:       d.ChildPrice,
		BabyPrice:        d.BabyPrice,
		SingleRoomPrice:  d.SingleRoomPrice,
		Stock:            copyStock(d.Stock),
		Discount:         d.Discount,
		AdultDiscount:    copyPct(d.AdultDiscount),
		ChildrenDiscount: copyPct(d.ChildrenDiscount),
		ChildDiscount:    copyPct(d.ChildDiscount),
		BabyDiscount:     copyPct(d.BabyDiscount),
		DayStart:         d.DayStart,
		DayReturn:        d.DayReturn,
	}
}

// Blocks converts a detail list for the pricing engine.
func Blocks(details []*Detail) []pricing.PriceBlock {
	out := make([]pricing.PriceBlock, 0, len(details))
	for _, d := range details {
		if d == nil {
			continue
		}
		out = append(out, d.Block())
	}
	return out
}

type DetailRepository interface {
	ByID(ctx context.Context, id DetailID) (*Detail, error)
	ByTour(ctx context.Context, tourID TourID) ([]*Detail, error)
	ByTours(ctx context.Context, tourIDs []TourID) (map[TourID][]*Detail, error)
	Save(ctx context.Context, detail *Detail) error
	Delete(ctx context.Context, id DetailID) error
	DeleteByTour(ctx context.Context, tourID TourID) error
	// ConsumeStock atomically decrements seats when the block tracks
	// stock; unlimited blocks are left untouched. Returns ErrOutOfStock
	// when fewer than seats remain.
	ConsumeStock(ctx context.Context, id DetailID, seats int) error
	// ReleaseStock returns previously consumed seats to the block, for
	// failed or cancelled bookings. Unlimited blocks are left untouched.
	ReleaseStock(ctx context.Context, id DetailID, seats int) error
}

func nonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

func copyStock(v *int) *int {
	if v == nil {
		return nil
	}
	clone := *v
	return &clone
}

func copyPct(v *float64) *float64 {
	if v == nil {
		return nil
	}
	clone := *v
	return &clone
}
