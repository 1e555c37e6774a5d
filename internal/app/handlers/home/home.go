package home

import (
	"context"
	"log/slog"
	"net/url"

	"tourline/internal/app/dto"
	apptours "tourline/internal/app/handlers/tours"
	domainsections "tourline/internal/domain/sections"
	domaintours "tourline/internal/domain/tours"
)

// Service assembles the landing page from active curated sections.
type Service struct {
	Sections domainsections.Repository
	Tours    domaintours.Repository
	Planner  apptours.QueryPlanner
	Logger   *slog.Logger
}

// Home renders every active section in position order. A section whose
// query fails is skipped rather than failing the whole page.
func (s *Service) Home(ctx context.Context, query url.Values) (dto.HomePage, error) {
	active, err := s.Sections.ListActive(ctx)
	if err != nil {
		return dto.HomePage{}, err
	}
	page := dto.HomePage{Sections: make([]dto.HomeSection, 0, len(active))}
	for _, section := range active {
		filter, sort := s.Planner.Plan(section.Filter, section.Categories, query)
		items, err := s.Tours.Find(ctx, filter, sort, int64(section.Limit), 0)
		if err != nil {
			logger := s.Logger
			if logger == nil {
				logger = slog.Default()
			}
			logger.Warn("home section query failed", "section", string(section.ID), "error", err)
			continue
		}
		cards := make([]dto.TourCard, 0, len(items))
		for _, tour := range items {
			cards = append(cards, dto.MapTourCard(tour))
		}
		page.Sections = append(page.Sections, dto.HomeSection{
			ID:       string(section.ID),
			Title:    section.Title,
			Slug:     section.Slug,
			Position: section.Position,
			Items:    cards,
		})
	}
	return page, nil
}

// SectionTours serves one section as a standalone paginated feed.
func (s *Service) SectionTours(ctx context.Context, id domainsections.SectionID, query url.Values) (dto.TourCatalog, error) {
	section, err := s.Sections.ByID(ctx, id)
	if err != nil {
		return dto.TourCatalog{}, err
	}
	filter, sort := s.Planner.Plan(section.Filter, section.Categories, query)
	limit := int64(section.Limit)
	items, err := s.Tours.Find(ctx, filter, sort, limit, 0)
	if err != nil {
		return dto.TourCatalog{}, err
	}
	total, err := s.Tours.Count(ctx, filter)
	if err != nil {
		return dto.TourCatalog{}, err
	}
	return dto.MapTourCatalog(items, total, limit, 0, query.Get("sortBy")), nil
}
