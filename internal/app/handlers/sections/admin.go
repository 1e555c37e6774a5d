package sections

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tourline/internal/app/dto"
	domainsections "tourline/internal/domain/sections"
)

// AdminService manages the curated landing-page sections.
type AdminService struct {
	Sections domainsections.Repository
	Clock    func() time.Time
}

func (s *AdminService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

type SectionInput struct {
	Title      string         `json:"title" binding:"required"`
	Slug       string         `json:"slug"`
	Filter     map[string]any `json:"filter"`
	Categories []string       `json:"categories"`
	Limit      int            `json:"limit"`
	Position   int            `json:"position"`
	Active     bool           `json:"active"`
}

func (s *AdminService) Create(ctx context.Context, in SectionInput) (dto.SectionConfig, error) {
	section, err := domainsections.New(domainsections.Params{
		ID:         domainsections.SectionID(uuid.NewString()),
		Title:      in.Title,
		Slug:       in.Slug,
		Filter:     in.Filter,
		Categories: in.Categories,
		Limit:      in.Limit,
		Position:   in.Position,
		Active:     in.Active,
		Now:        s.now(),
	})
	if err != nil {
		return dto.SectionConfig{}, err
	}
	if err := s.Sections.Save(ctx, section); err != nil {
		return dto.SectionConfig{}, err
	}
	return dto.MapSectionConfig(section), nil
}

func (s *AdminService) Update(ctx context.Context, id domainsections.SectionID, in SectionInput) (dto.SectionConfig, error) {
	section, err := s.Sections.ByID(ctx, id)
	if err != nil {
		return dto.SectionConfig{}, err
	}
	err = section.Update(domainsections.Params{
		Title:      in.Title,
		Slug:       in.Slug,
		Filter:     in.Filter,
		Categories: in.Categories,
		Limit:      in.Limit,
		Position:   in.Position,
		Active:     in.Active,
		Now:        s.now(),
	})
	if err != nil {
		return dto.SectionConfig{}, err
	}
	if err := s.Sections.Save(ctx, section); err != nil {
		return dto.SectionConfig{}, err
	}
	return dto.MapSectionConfig(section), nil
}

func (s *AdminService) Delete(ctx context.Context, id domainsections.SectionID) error {
	if _, err := s.Sections.ByID(ctx, id); err != nil {
		return err
	}
	return s.Sections.Delete(ctx, id)
}

func (s *AdminService) List(ctx context.Context) ([]dto.SectionConfig, error) {
	items, err := s.Sections.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SectionConfig, 0, len(items))
	for _, section := range items {
		out = append(out, dto.MapSectionConfig(section))
	}
	return out, nil
}
