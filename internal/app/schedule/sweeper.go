package schedule

import (
	"context"
	"log/slog"
	"time"

	tourapp "tourline/internal/app/handlers/tours"
	domaintours "tourline/internal/domain/tours"
)

// Sweeper periodically refreshes cached tour pricing so aggregates
// drop departures that have since passed. Booking and admin writes
// already trigger recalculation inline; the sweep covers tours that
// go stale with no write at all.
type Sweeper struct {
	Tours    domaintours.Repository
	Recalc   *tourapp.Recalculator
	Interval time.Duration
	PageSize int64
	Logger   *slog.Logger
}

func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	limit := s.PageSize
	if limit <= 0 {
		limit = 100
	}
	var offset int64
	for {
		tours, err := s.Tours.Find(ctx, nil, nil, limit, offset)
		if err != nil {
			if s.Logger != nil {
				s.Logger.Warn("pricing sweep aborted", "error", err)
			}
			return
		}
		for _, tour := range tours {
			if tour.Deleted {
				continue
			}
			s.Recalc.RecalculateBestEffort(ctx, tour.ID)
		}
		if int64(len(tours)) < limit {
			return
		}
		offset += limit
	}
}

func (s *Sweeper) interval() time.Duration {
	if s.Interval <= 0 {
		return time.Hour
	}
	return s.Interval
}
