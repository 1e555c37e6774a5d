package tours

import (
	"context"
	"log/slog"
	"time"

	appoutbox "tourline/internal/app/outbox"
	"tourline/internal/domain/pricing"
	"tourline/internal/domain/shared/events"
	domaintours "tourline/internal/domain/tours"
)

// Recalculator refreshes a tour's cached price aggregates from its
// price blocks.
type Recalculator struct {
	Tours   domaintours.Repository
	Details domaintours.DetailRepository
	Box     appoutbox.Outbox
	Encoder appoutbox.EventEncoder
	Logger  *slog.Logger
	Clock   func() time.Time
}

func (r *Recalculator) now() time.Time {
	if r.Clock != nil {
		return r.Clock()
	}
	return time.Now()
}

// Recalculate computes the summary from the blocks on record and
// persists it as a full overwrite of the cached fields.
func (r *Recalculator) Recalculate(ctx context.Context, id domaintours.TourID) (pricing.Summary, error) {
	if _, err := r.Tours.ByID(ctx, id); err != nil {
		return pricing.Summary{}, err
	}
	details, err := r.Details.ByTour(ctx, id)
	if err != nil {
		return pricing.Summary{}, err
	}
	now := r.now()
	summary := pricing.ComputeTourPricing(domaintours.Blocks(details), now)
	if err := r.Tours.UpdatePricing(ctx, id, summary, now); err != nil {
		return pricing.Summary{}, err
	}
	if err := appoutbox.RecordDomainEvents(ctx, r.Box, r.Encoder, []events.DomainEvent{
		domaintours.TourPriceRecalculated{
			TourID:   id,
			MinPrice: summary.MinPrice,
			MaxPrice: summary.MaxPrice,
			Price:    summary.DisplayPrice,
			At:       now.UTC(),
		},
	}); err != nil {
		return pricing.Summary{}, err
	}
	return summary, nil
}

// RecalculateBestEffort runs after price-block mutations. A failed
// refresh never fails the triggering write; it is logged and the cache
// stays stale until the next recompute.
func (r *Recalculator) RecalculateBestEffort(ctx context.Context, id domaintours.TourID) {
	if _, err := r.Recalculate(ctx, id); err != nil {
		logger := r.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("tour price recalculation failed", "tour_id", string(id), "error", err)
	}
}
