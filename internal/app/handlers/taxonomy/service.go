package taxonomy

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tourline/internal/app/dto"
	domaintaxonomy "tourline/internal/domain/taxonomy"
)

// Service manages the lookup entities backing tour attributes.
type Service struct {
	Entities domaintaxonomy.Repository
	Clock    func() time.Time
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

type EntityInput struct {
	Title  string `json:"title" binding:"required"`
	Slug   string `json:"slug"`
	Status bool   `json:"status"`
}

func (s *Service) Create(ctx context.Context, kind domaintaxonomy.Kind, in EntityInput) (dto.TaxonomyEntity, error) {
	entity, err := domaintaxonomy.New(domaintaxonomy.Params{
		ID:     domaintaxonomy.EntityID(uuid.NewString()),
		Kind:   kind,
		Title:  in.Title,
		Slug:   in.Slug,
		Status: in.Status,
		Now:    s.now(),
	})
	if err != nil {
		return dto.TaxonomyEntity{}, err
	}
	if err := s.Entities.Save(ctx, entity); err != nil {
		return dto.TaxonomyEntity{}, err
	}
	return dto.MapTaxonomyEntity(entity), nil
}

func (s *Service) Update(ctx context.Context, kind domaintaxonomy.Kind, id domaintaxonomy.EntityID, in EntityInput) (dto.TaxonomyEntity, error) {
	entity, err := s.Entities.ByID(ctx, kind, id)
	if err != nil {
		return dto.TaxonomyEntity{}, err
	}
	if err := entity.Update(in.Title, in.Slug, in.Status, s.now()); err != nil {
		return dto.TaxonomyEntity{}, err
	}
	if err := s.Entities.Save(ctx, entity); err != nil {
		return dto.TaxonomyEntity{}, err
	}
	return dto.MapTaxonomyEntity(entity), nil
}

// Delete soft-deletes so tours referencing the entity keep resolving.
func (s *Service) Delete(ctx context.Context, kind domaintaxonomy.Kind, id domaintaxonomy.EntityID) error {
	entity, err := s.Entities.ByID(ctx, kind, id)
	if err != nil {
		return err
	}
	entity.SoftDelete(s.now())
	return s.Entities.Save(ctx, entity)
}

func (s *Service) List(ctx context.Context, kind domaintaxonomy.Kind, includeDeleted bool) ([]dto.TaxonomyEntity, error) {
	items, err := s.Entities.List(ctx, kind, includeDeleted)
	if err != nil {
		return nil, err
	}
	return dto.MapTaxonomyList(items), nil
}
