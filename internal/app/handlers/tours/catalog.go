package tours

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"tourline/internal/app/dto"
	"tourline/internal/domain/pricing"
	domaintours "tourline/internal/domain/tours"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// QueryPlanner turns a stored section filter plus request parameters
// into store-native filter and sort documents. The concrete planner
// lives with the persistence layer.
type QueryPlanner interface {
	Plan(stored map[string]any, categories []string, query url.Values) (filter any, sort any)
}

// CatalogService serves the public tour surfaces from the cached price
// aggregates.
type CatalogService struct {
	Tours   domaintours.Repository
	Details domaintours.DetailRepository
	Planner QueryPlanner
	Logger  *slog.Logger
	Clock   func() time.Time
}

func (s *CatalogService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// List runs a filtered, sorted, paginated tour search. Card price
// ranges are recomputed from the live price blocks so the response
// never serves a stale cache.
func (s *CatalogService) List(ctx context.Context, query url.Values) (dto.TourCatalog, error) {
	filter, sort := s.Planner.Plan(nil, nil, query)
	limit, offset := pagination(query)

	items, err := s.Tours.Find(ctx, filter, sort, limit, offset)
	if err != nil {
		return dto.TourCatalog{}, err
	}
	total, err := s.Tours.Count(ctx, filter)
	if err != nil {
		return dto.TourCatalog{}, err
	}
	catalog := dto.MapTourCatalog(items, total, limit, offset, query.Get("sortBy"))
	s.refreshCardPrices(ctx, items, catalog.Items)
	return catalog, nil
}

// refreshCardPrices overlays live block pricing onto the mapped cards.
// A failed block fetch leaves the cached aggregates in place.
func (s *CatalogService) refreshCardPrices(ctx context.Context, items []*domaintours.Tour, cards []dto.TourCard) {
	if len(items) == 0 {
		return
	}
	ids := make([]domaintours.TourID, 0, len(items))
	for _, tour := range items {
		ids = append(ids, tour.ID)
	}
	grouped, err := s.Details.ByTours(ctx, ids)
	if err != nil {
		logger := s.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("card price refresh failed", "error", err)
		return
	}
	now := s.now()
	for i, tour := range items {
		blocks := domaintours.Blocks(grouped[tour.ID])
		min, max := pricing.DisplayRange(blocks, now)
		cards[i].MinPrice = min
		cards[i].MaxPrice = max
		cards[i].Price = min
	}
}

// Get loads one tour with its departures and bumps the view counter.
func (s *CatalogService) Get(ctx context.Context, id domaintours.TourID) (dto.TourView, error) {
	tour, err := s.Tours.ByID(ctx, id)
	if err != nil {
		return dto.TourView{}, err
	}
	if tour.Deleted || !tour.Status {
		return dto.TourView{}, domaintours.ErrNotFound
	}
	details, err := s.Details.ByTour(ctx, id)
	if err != nil {
		return dto.TourView{}, err
	}
	if err := s.Tours.IncrementViews(ctx, id); err != nil {
		logger := s.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("view counter update failed", "tour_id", string(id), "error", err)
	}
	return dto.MapTourView(tour, details, s.now()), nil
}

func pagination(query url.Values) (limit, offset int64) {
	limit = parsePositive(query.Get("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	offset = parsePositive(query.Get("offset"), 0)
	return limit, offset
}

func parsePositive(raw string, fallback int64) int64 {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
