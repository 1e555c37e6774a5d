package dto

import (
	"time"

	domaintaxonomy "tourline/internal/domain/taxonomy"
)

type TaxonomyEntity struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Status    bool      `json:"status"`
	Deleted   bool      `json:"deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func MapTaxonomyEntity(e *domaintaxonomy.Entity) TaxonomyEntity {
	if e == nil {
		return TaxonomyEntity{}
	}
	return TaxonomyEntity{
		ID:        string(e.ID),
		Kind:      string(e.Kind),
		Title:     e.Title,
		Slug:      e.Slug,
		Status:    e.Status,
		Deleted:   e.Deleted,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func MapTaxonomyList(items []*domaintaxonomy.Entity) []TaxonomyEntity {
	out := make([]TaxonomyEntity, 0, len(items))
	for _, e := range items {
		out = append(out, MapTaxonomyEntity(e))
	}
	return out
}
