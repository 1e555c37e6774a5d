package dto

import (
	domainsections "tourline/internal/domain/sections"
)

// HomePage is the landing response: curated sections in display order.
type HomePage struct {
	Sections []HomeSection `json:"sections"`
}

type HomeSection struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Slug     string     `json:"slug"`
	Position int        `json:"position"`
	Items    []TourCard `json:"items"`
}

// SectionConfig is the admin-facing shape including the stored filter.
type SectionConfig struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Slug       string         `json:"slug"`
	Filter     map[string]any `json:"filter"`
	Categories []string       `json:"categories"`
	Limit      int            `json:"limit"`
	Position   int            `json:"position"`
	Active     bool           `json:"active"`
}

func MapSectionConfig(section *domainsections.Section) SectionConfig {
	if section == nil {
		return SectionConfig{}
	}
	filter := make(map[string]any, len(section.Filter))
	for k, v := range section.Filter {
		filter[k] = v
	}
	return SectionConfig{
		ID:         string(section.ID),
		Title:      section.Title,
		Slug:       section.Slug,
		Filter:     filter,
		Categories: append([]string(nil), section.Categories...),
		Limit:      section.Limit,
		Position:   section.Position,
		Active:     section.Active,
	}
}
