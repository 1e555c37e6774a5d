package taxonomy

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound      = errors.New("taxonomy: entity not found")
	ErrTitleRequired = errors.New("taxonomy: title is required")
	ErrUnknownKind   = errors.New("taxonomy: unknown kind")
)

// Kind selects the backing collection.
type Kind string

const (
	KindCategory       Kind = "category"
	KindDestination    Kind = "destination"
	KindDeparture      Kind = "departure"
	KindTransportation Kind = "transportation"
)

func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindCategory:
		return KindCategory, nil
	case KindDestination:
		return KindDestination, nil
	case KindDeparture:
		return KindDeparture, nil
	case KindTransportation:
		return KindTransportation, nil
	default:
		return "", ErrUnknownKind
	}
}

type EntityID string

// Entity is the shared shape of categories, destinations, departures
// and transportation records.
type Entity struct {
	ID        EntityID
	Kind      Kind
	Title     string
	Slug      string
	Status    bool
	Deleted   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Params struct {
	ID     EntityID
	Kind   Kind
	Title  string
	Slug   string
	Status bool
	Now    time.Time
}

func New(params Params) (*Entity, error) {
	if params.ID == "" {
		return nil, errors.New("taxonomy: id is required")
	}
	if _, err := ParseKind(string(params.Kind)); err != nil {
		return nil, err
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	return &Entity{
		ID:        params.ID,
		Kind:      params.Kind,
		Title:     strings.TrimSpace(params.Title),
		Slug:      strings.ToLower(strings.TrimSpace(params.Slug)),
		Status:    params.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (e *Entity) Update(title, slug string, status bool, now time.Time) error {
	if strings.TrimSpace(title) == "" {
		return ErrTitleRequired
	}
	e.Title = strings.TrimSpace(title)
	e.Slug = strings.ToLower(strings.TrimSpace(slug))
	e.Status = status
	e.UpdatedAt = now.UTC()
	return nil
}

func (e *Entity) SoftDelete(now time.Time) {
	e.Deleted = true
	e.Status = false
	e.UpdatedAt = now.UTC()
}

type Repository interface {
	ByID(ctx context.Context, kind Kind, id EntityID) (*Entity, error)
	Save(ctx context.Context, entity *Entity) error
	Delete(ctx context.Context, kind Kind, id EntityID) error
	List(ctx context.Context, kind Kind, includeDeleted bool) ([]*Entity, error)
}
