package memory

import (
	"context"
	"sort"
	"sync"

	domaintaxonomy "tourline/internal/domain/taxonomy"
)

type taxonomyKey struct {
	kind domaintaxonomy.Kind
	id   domaintaxonomy.EntityID
}

type TaxonomyRepository struct {
	mu    sync.RWMutex
	items map[taxonomyKey]*domaintaxonomy.Entity
}

func NewTaxonomyRepository() *TaxonomyRepository {
	return &TaxonomyRepository{items: make(map[taxonomyKey]*domaintaxonomy.Entity)}
}

func (r *TaxonomyRepository) ByID(ctx context.Context, kind domaintaxonomy.Kind, id domaintaxonomy.EntityID) (*domaintaxonomy.Entity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entity, ok := r.items[taxonomyKey{kind: kind, id: id}]
	if !ok {
		return nil, domaintaxonomy.ErrNotFound
	}
	clone := *entity
	return &clone, nil
}

func (r *TaxonomyRepository) Save(ctx context.Context, entity *domaintaxonomy.Entity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *entity
	r.items[taxonomyKey{kind: entity.Kind, id: entity.ID}] = &clone
	return nil
}

func (r *TaxonomyRepository) Delete(ctx context.Context, kind domaintaxonomy.Kind, id domaintaxonomy.EntityID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := taxonomyKey{kind: kind, id: id}
	if _, ok := r.items[key]; !ok {
		return domaintaxonomy.ErrNotFound
	}
	delete(r.items, key)
	return nil
}

func (r *TaxonomyRepository) List(ctx context.Context, kind domaintaxonomy.Kind, includeDeleted bool) ([]*domaintaxonomy.Entity, error) {
	r.mu.RLock()
	out := make([]*domaintaxonomy.Entity, 0, len(r.items))
	for key, entity := range r.items {
		if key.kind != kind {
			continue
		}
		if entity.Deleted && !includeDeleted {
			continue
		}
		clone := *entity
		out = append(out, &clone)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

var _ domaintaxonomy.Repository = (*TaxonomyRepository)(nil)
