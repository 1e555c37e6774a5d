package tours

import (
	"context"
	"errors"
	"strings"
	"time"

	"tourline/internal/domain/pricing"
	"tourline/internal/domain/shared/events"
)

var (
	ErrTitleRequired = errors.New("tours: title is required")
	ErrCodeRequired  = errors.New("tours: code is required")
	ErrTourDeleted   = errors.New("tours: tour is deleted")
	ErrNotFound      = errors.New("tours: tour not found")
)

type TourID string

type Tour struct {
	ID          TourID
	Title       string
	Code        string
	Summary     string
	Description string

	CategoryID       string
	DestinationID    string
	DepartureID      string
	TransportationID string

	Tags      []string
	Highlight bool
	Views     int64

	// Cached pricing, mutated only by the price recalculator.
	Price    int64
	MinPrice int64
	MaxPrice int64
	// Deprecated, kept for schema compatibility and always written as 0.
	TotalPrice int64

	Status    bool
	Deleted   bool
	CreatedAt time.Time
	UpdatedAt time.Time

	events.EventRecorder
}

type CreateTourParams struct {
	ID               TourID
	Title            string
	Code             string
	Summary          string
	Description      string
	CategoryID       string
	DestinationID    string
	DepartureID      string
	TransportationID string
	Tags             []string
	Highlight        bool
	Status           bool
	Now              time.Time
}

func NewTour(params CreateTourParams) (*Tour, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("tours: id is required")
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(params.Code) == "" {
		return nil, ErrCodeRequired
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	tour := &Tour{
		ID:               params.ID,
		Title:            strings.TrimSpace(params.Title),
		Code:             strings.ToUpper(strings.TrimSpace(params.Code)),
		Summary:          strings.TrimSpace(params.Summary),
		Description:      strings.TrimSpace(params.Description),
		CategoryID:       strings.TrimSpace(params.CategoryID),
		DestinationID:    strings.TrimSpace(params.DestinationID),
		DepartureID:      strings.TrimSpace(params.DepartureID),
		TransportationID: strings.TrimSpace(params.TransportationID),
		Tags:             append([]string(nil), params.Tags...),
		Highlight:        params.Highlight,
		Status:           params.Status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	tour.Record(TourCreated{TourID: tour.ID, Code: tour.Code, At: now})
	return tour, nil
}

type UpdateTourParams struct {
	Title            string
	Summary          string
	Description      string
	CategoryID       string
	DestinationID    string
	DepartureID      string
	TransportationID string
	Tags             []string
	Highlight        bool
	Status           bool
	Now              time.Time
}

func (t *Tour) UpdateAttributes(params UpdateTourParams) error {
	if t.Deleted {
		return ErrTourDeleted
	}
	if strings.TrimSpace(params.Title) == "" {
		return ErrTitleRequired
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	t.Title = strings.TrimSpace(params.Title)
	t.Summary = strings.TrimSpace(params.Summary)
	t.Description = strings.TrimSpace(params.Description)
	t.CategoryID = strings.TrimSpace(params.CategoryID)
	t.DestinationID = strings.TrimSpace(params.DestinationID)
	t.DepartureID = strings.TrimSpace(params.DepartureID)
	t.TransportationID = strings.TrimSpace(params.TransportationID)
	t.Tags = append([]string(nil), params.Tags...)
	t.Highlight = params.Highlight
	t.Status = params.Status
	t.UpdatedAt = now
	t.Record(TourUpdated{TourID: t.ID, At: now})
	return nil
}

// SoftDelete hides the tour from every public surface while keeping its
// price blocks around for restore.
func (t *Tour) SoftDelete(now time.Time) {
	if t.Deleted {
		return
	}
	t.Deleted = true
	t.Status = false
	t.UpdatedAt = now.UTC()
	t.Record(TourDeleted{TourID: t.ID, At: t.UpdatedAt})
}

func (t *Tour) Restore(now time.Time) {
	if !t.Deleted {
		return
	}
	t.Deleted = false
	t.UpdatedAt = now.UTC()
	t.Record(TourRestored{TourID: t.ID, At: t.UpdatedAt})
}

// ApplyPricing overwrites the cached price fields from a freshly
// computed summary. The recompute is a full overwrite, never an
// increment, so concurrent writers converge on the same values.
func (t *Tour) ApplyPricing(s pricing.Summary, now time.Time) {
	t.MinPrice = s.MinPrice
	t.MaxPrice = s.MaxPrice
	t.Price = s.DisplayPrice
	t.TotalPrice = 0
	t.UpdatedAt = now.UTC()
}

type Repository interface {
	ByID(ctx context.Context, id TourID) (*Tour, error)
	Save(ctx context.Context, tour *Tour) error
	// UpdatePricing persists only the cached price fields, zeroing the
	// deprecated total price.
	UpdatePricing(ctx context.Context, id TourID, s pricing.Summary, now time.Time) error
	// Find runs a prepared document filter with sorting and paging.
	Find(ctx context.Context, filter any, sort any, limit, offset int64) ([]*Tour, error)
	Count(ctx context.Context, filter any) (int64, error)
	IncrementViews(ctx context.Context, id TourID) error
	// Purge hard-deletes the tour document. Callers cascade the blocks.
	Purge(ctx context.Context, id TourID) error
}
