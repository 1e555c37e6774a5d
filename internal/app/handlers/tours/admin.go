package tours

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"tourline/internal/app/dto"
	appoutbox "tourline/internal/app/outbox"
	domaintours "tourline/internal/domain/tours"
)

// AdminService owns the back-office tour and price-block lifecycle.
// Every block mutation triggers a best-effort refresh of the owning
// tour's cached aggregates.
type AdminService struct {
	Tours        domaintours.Repository
	Details      domaintours.DetailRepository
	Recalculator *Recalculator
	Box          appoutbox.Outbox
	Encoder      appoutbox.EventEncoder
	Logger       *slog.Logger
	Clock        func() time.Time
}

func (s *AdminService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

type TourInput struct {
	Title          string   `json:"title" binding:"required"`
	Code           string   `json:"code"`
	Summary        string   `json:"summary"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	Destination    string   `json:"destination"`
	Departure      string   `json:"departure"`
	Transportation string   `json:"transportation"`
	Tags           []string `json:"tags"`
	Highlight      bool     `json:"highlight"`
	Status         bool     `json:"status"`
}

func (s *AdminService) CreateTour(ctx context.Context, in TourInput) (dto.TourCard, error) {
	code := in.Code
	if code == "" {
		code = uuid.NewString()[:8]
	}
	tour, err := domaintours.NewTour(domaintours.CreateTourParams{
		ID:               domaintours.TourID(uuid.NewString()),
		Title:            in.Title,
		Code:             code,
		Summary:          in.Summary,
		Description:      in.Description,
		CategoryID:       in.Category,
		DestinationID:    in.Destination,
		DepartureID:      in.Departure,
		TransportationID: in.Transportation,
		Tags:             in.Tags,
		Highlight:        in.Highlight,
		Status:           in.Status,
		Now:              s.now(),
	})
	if err != nil {
		return dto.TourCard{}, err
	}
	if err := s.Tours.Save(ctx, tour); err != nil {
		return dto.TourCard{}, err
	}
	if err := appoutbox.RecordDomainEvents(ctx, s.Box, s.Encoder, tour.PendingEvents()); err != nil {
		return dto.TourCard{}, err
	}
	tour.ClearEvents()
	return dto.MapTourCard(tour), nil
}

func (s *AdminService) UpdateTour(ctx context.Context, id domaintours.TourID, in TourInput) (dto.TourCard, error) {
	tour, err := s.Tours.ByID(ctx, id)
	if err != nil {
		return dto.TourCard{}, err
	}
	err = tour.UpdateAttributes(domaintours.UpdateTourParams{
		Title:            in.Title,
		Summary:          in.Summary,
		Description:      in.Description,
		CategoryID:       in.Category,
		DestinationID:    in.Destination,
		DepartureID:      in.Departure,
		TransportationID: in.Transportation,
		Tags:             in.Tags,
		Highlight:        in.Highlight,
		Status:           in.Status,
		Now:              s.now(),
	})
	if err != nil {
		return dto.TourCard{}, err
	}
	if err := s.Tours.Save(ctx, tour); err != nil {
		return dto.TourCard{}, err
	}
	if err := appoutbox.RecordDomainEvents(ctx, s.Box, s.Encoder, tour.PendingEvents()); err != nil {
		return dto.TourCard{}, err
	}
	tour.ClearEvents()
	return dto.MapTourCard(tour), nil
}

// DeleteTour soft-deletes. Price blocks stay on record so a restore
// brings the tour back fully priced.
func (s *AdminService) DeleteTour(ctx context.Context, id domaintours.TourID) error {
	tour, err := s.Tours.ByID(ctx, id)
	if err != nil {
		return err
	}
	tour.SoftDelete(s.now())
	if err := s.Tours.Save(ctx, tour); err != nil {
		return err
	}
	if err := appoutbox.RecordDomainEvents(ctx, s.Box, s.Encoder, tour.PendingEvents()); err != nil {
		return err
	}
	tour.ClearEvents()
	return nil
}

func (s *AdminService) RestoreTour(ctx context.Context, id domaintours.TourID) (dto.TourCard, error) {
	tour, err := s.Tours.ByID(ctx, id)
	if err != nil {
		return dto.TourCard{}, err
	}
	tour.Restore(s.now())
	if err := s.Tours.Save(ctx, tour); err != nil {
		return dto.TourCard{}, err
	}
	if err := appoutbox.RecordDomainEvents(ctx, s.Box, s.Encoder, tour.PendingEvents()); err != nil {
		return dto.TourCard{}, err
	}
	tour.ClearEvents()
	s.Recalculator.RecalculateBestEffort(ctx, id)
	if fresh, err := s.Tours.ByID(ctx, id); err == nil {
		tour = fresh
	}
	return dto.MapTourCard(tour), nil
}

// PurgeTour hard-deletes the tour document and cascades to its blocks.
func (s *AdminService) PurgeTour(ctx context.Context, id domaintours.TourID) error {
	if _, err := s.Tours.ByID(ctx, id); err != nil {
		return err
	}
	if err := s.Details.DeleteByTour(ctx, id); err != nil {
		return err
	}
	return s.Tours.Purge(ctx, id)
}

// ListTours is the admin listing: deleted and inactive tours included.
func (s *AdminService) ListTours(ctx context.Context, query url.Values) (dto.TourCatalog, error) {
	limit, offset := pagination(query)
	items, err := s.Tours.Find(ctx, nil, nil, limit, offset)
	if err != nil {
		return dto.TourCatalog{}, err
	}
	total, err := s.Tours.Count(ctx, nil)
	if err != nil {
		return dto.TourCatalog{}, err
	}
	return dto.MapTourCatalog(items, total, limit, offset, ""), nil
}

func (s *AdminService) GetTour(ctx context.Context, id domaintours.TourID) (dto.TourView, error) {
	tour, err := s.Tours.ByID(ctx, id)
	if err != nil {
		return dto.TourView{}, err
	}
	details, err := s.Details.ByTour(ctx, id)
	if err != nil {
		return dto.TourView{}, err
	}
	return dto.MapTourView(tour, details, s.now()), nil
}

// Recalculate exposes the manual admin recompute.
func (s *AdminService) Recalculate(ctx context.Context, id domaintours.TourID) (dto.TourPricing, error) {
	summary, err := s.Recalculator.Recalculate(ctx, id)
	if err != nil {
		return dto.TourPricing{}, err
	}
	return dto.TourPricing{
		ID:       string(id),
		MinPrice: summary.MinPrice,
		MaxPrice: summary.MaxPrice,
		Price:    summary.DisplayPrice,
	}, nil
}

type DetailInput struct {
	AdultPrice       int64     `json:"adult_price"`
	ChildrenPrice    int64     `json:"children_price"`
	ChildPrice       int64     `json:"child_price"`
	BabyPrice        int64     `json:"baby_price"`
	SingleRoomPrice  int64     `json:"single_room_price"`
	Stock            *int      `json:"stock"`
	Discount         float64   `json:"discount"`
	AdultDiscount    *float64  `json:"adult_discount"`
	ChildrenDiscount *float64  `json:"children_discount"`
	ChildDiscount    *float64  `json:"child_discount"`
	BabyDiscount     *float64  `json:"baby_discount"`
	DayStart         time.Time `json:"day_start" binding:"required"`
	DayReturn        time.Time `json:"day_return" binding:"required"`
}

// DetailResult pairs the written block with the tour's refreshed
// pricing. Pricing is nil when the refresh failed; the write itself
// still succeeded.
type DetailResult struct {
	Departure dto.TourDeparture `json:"departure"`
	Pricing   *dto.TourPricing  `json:"pricing,omitempty"`
}

func (s *AdminService) CreateDetail(ctx context.Context, tourID domaintours.TourID, in DetailInput) (DetailResult, error) {
	if _, err := s.Tours.ByID(ctx, tourID); err != nil {
		return DetailResult{}, err
	}
	detail, err := domaintours.NewDetail(s.detailParams(domaintours.DetailID(uuid.NewString()), tourID, in))
	if err != nil {
		return DetailResult{}, err
	}
	if err := s.Details.Save(ctx, detail); err != nil {
		return DetailResult{}, err
	}
	return DetailResult{
		Departure: dto.MapTourDeparture(detail, s.now()),
		Pricing:   s.refreshPricing(ctx, tourID),
	}, nil
}

func (s *AdminService) UpdateDetail(ctx context.Context, id domaintours.DetailID, in DetailInput) (DetailResult, error) {
	detail, err := s.Details.ByID(ctx, id)
	if err != nil {
		return DetailResult{}, err
	}
	if err := detail.UpdateAttributes(s.detailParams(id, detail.TourID, in)); err != nil {
		return DetailResult{}, err
	}
	if err := s.Details.Save(ctx, detail); err != nil {
		return DetailResult{}, err
	}
	return DetailResult{
		Departure: dto.MapTourDeparture(detail, s.now()),
		Pricing:   s.refreshPricing(ctx, detail.TourID),
	}, nil
}

// refreshPricing recalculates after a block write. Failure is logged
// and reported as a missing summary, never as a request error.
func (s *AdminService) refreshPricing(ctx context.Context, id domaintours.TourID) *dto.TourPricing {
	summary, err := s.Recalculator.Recalculate(ctx, id)
	if err != nil {
		logger := s.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("tour price recalculation failed", "tour_id", string(id), "error", err)
		return nil
	}
	return &dto.TourPricing{
		ID:       string(id),
		MinPrice: summary.MinPrice,
		MaxPrice: summary.MaxPrice,
		Price:    summary.DisplayPrice,
	}
}

func (s *AdminService) DeleteDetail(ctx context.Context, id domaintours.DetailID) error {
	detail, err := s.Details.ByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Details.Delete(ctx, id); err != nil {
		return err
	}
	s.Recalculator.RecalculateBestEffort(ctx, detail.TourID)
	return nil
}

func (s *AdminService) detailParams(id domaintours.DetailID, tourID domaintours.TourID, in DetailInput) domaintours.DetailParams {
	return domaintours.DetailParams{
		ID:               id,
		TourID:           tourID,
		AdultPrice:       in.AdultPrice,
		ChildrenPrice:    in.ChildrenPrice,
		ChildPrice:       in.ChildPrice,
		BabyPrice:        in.BabyPrice,
		SingleRoomPrice:  in.SingleRoomPrice,
		Stock:            in.Stock,
		Discount:         in.Discount,
		AdultDiscount:    in.AdultDiscount,
		ChildrenDiscount: in.ChildrenDiscount,
		ChildDiscount:    in.ChildDiscount,
		BabyDiscount:     in.BabyDiscount,
		DayStart:         in.DayStart,
		DayReturn:        in.DayReturn,
		Now:              s.now(),
	}
}
