package memory

import (
	"context"
	"sort"
	"sync"

	domaintours "tourline/internal/domain/tours"
)

// DetailRepository keeps price blocks in memory.
type DetailRepository struct {
	mu    sync.Mutex
	items map[domaintours.DetailID]*domaintours.Detail
}

func NewDetailRepository() *DetailRepository {
	return &DetailRepository{items: make(map[domaintours.DetailID]*domaintours.Detail)}
}

func (r *DetailRepository) ByID(ctx context.Context, id domaintours.DetailID) (*domaintours.Detail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	detail, ok := r.items[id]
	if !ok {
		return nil, domaintours.ErrDetailNotFound
	}
	return cloneDetail(detail), nil
}

func (r *DetailRepository) ByTour(ctx context.Context, tourID domaintours.TourID) ([]*domaintours.Detail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domaintours.Detail
	for _, detail := range r.items {
		if detail.TourID == tourID {
			out = append(out, cloneDetail(detail))
		}
	}
	sortByDayStart(out)
	return out, nil
}

func (r *DetailRepository) ByTours(ctx context.Context, tourIDs []domaintours.TourID) (map[domaintours.TourID][]*domaintours.Detail, error) {
	wanted := make(map[domaintours.TourID]struct{}, len(tourIDs))
	for _, id := range tourIDs {
		wanted[id] = struct{}{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[domaintours.TourID][]*domaintours.Detail, len(tourIDs))
	for _, detail := range r.items {
		if _, ok := wanted[detail.TourID]; ok {
			out[detail.TourID] = append(out[detail.TourID], cloneDetail(detail))
		}
	}
	for _, details := range out {
		sortByDayStart(details)
	}
	return out, nil
}

func (r *DetailRepository) Save(ctx context.Context, detail *domaintours.Detail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[detail.ID] = cloneDetail(detail)
	return nil
}

func (r *DetailRepository) Delete(ctx context.Context, id domaintours.DetailID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domaintours.ErrDetailNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *DetailRepository) DeleteByTour(ctx context.Context, tourID domaintours.TourID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, detail := range r.items {
		if detail.TourID == tourID {
			delete(r.items, id)
		}
	}
	return nil
}

func (r *DetailRepository) ConsumeStock(ctx context.Context, id domaintours.DetailID, seats int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	detail, ok := r.items[id]
	if !ok {
		return domaintours.ErrDetailNotFound
	}
	if detail.Stock == nil {
		return nil
	}
	if *detail.Stock < seats {
		return domaintours.ErrOutOfStock
	}
	*detail.Stock -= seats
	return nil
}

func (r *DetailRepository) ReleaseStock(ctx context.Context, id domaintours.DetailID, seats int) error {
	if seats <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	detail, ok := r.items[id]
	if !ok {
		return domaintours.ErrDetailNotFound
	}
	if detail.Stock == nil {
		return nil
	}
	*detail.Stock += seats
	return nil
}

var _ domaintours.DetailRepository = (*DetailRepository)(nil)

func sortByDayStart(details []*domaintours.Detail) {
	sort.Slice(details, func(i, j int) bool {
		return details[i].DayStart.Before(details[j].DayStart)
	})
}

func cloneDetail(d *domaintours.Detail) *domaintours.Detail {
	clone := *d
	if d.Stock != nil {
		v := *d.Stock
		clone.Stock = &v
	}
	clone.AdultDiscount = clonePct(d.AdultDiscount)
	clone.ChildrenDiscount = clonePct(d.ChildrenDiscount)
	clone.ChildDiscount = clonePct(d.ChildDiscount)
	clone.BabyDiscount = clonePct(d.BabyDiscount)
	return &clone
}

func clonePct(v *float64) *float64 {
	if v == nil {
		return nil
	}
	clone := *v
	return &clone
}
