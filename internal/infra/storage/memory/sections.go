package memory

import (
	"context"
	"sort"
	"sync"

	domainsections "tourline/internal/domain/sections"
)

type SectionRepository struct {
	mu    sync.RWMutex
	items map[domainsections.SectionID]*domainsections.Section
}

func NewSectionRepository() *SectionRepository {
	return &SectionRepository{items: make(map[domainsections.SectionID]*domainsections.Section)}
}

func (r *SectionRepository) ByID(ctx context.Context, id domainsections.SectionID) (*domainsections.Section, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	section, ok := r.items[id]
	if !ok {
		return nil, domainsections.ErrNotFound
	}
	return cloneSection(section), nil
}

func (r *SectionRepository) Save(ctx context.Context, section *domainsections.Section) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[section.ID] = cloneSection(section)
	return nil
}

func (r *SectionRepository) Delete(ctx context.Context, id domainsections.SectionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainsections.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *SectionRepository) ListActive(ctx context.Context) ([]*domainsections.Section, error) {
	return r.list(true)
}

func (r *SectionRepository) ListAll(ctx context.Context) ([]*domainsections.Section, error) {
	return r.list(false)
}

func (r *SectionRepository) list(activeOnly bool) ([]*domainsections.Section, error) {
	r.mu.RLock()
	out := make([]*domainsections.Section, 0, len(r.items))
	for _, section := range r.items {
		if activeOnly && !section.Active {
			continue
		}
		out = append(out, cloneSection(section))
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

var _ domainsections.Repository = (*SectionRepository)(nil)

func cloneSection(s *domainsections.Section) *domainsections.Section {
	clone := *s
	clone.Categories = append([]string(nil), s.Categories...)
	filter := make(map[string]any, len(s.Filter))
	for k, v := range s.Filter {
		filter[k] = v
	}
	clone.Filter = filter
	return &clone
}
