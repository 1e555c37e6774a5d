package memory

import (
	"context"
	"sort"
	"sync"

	domainorders "tourline/internal/domain/orders"
	domaintours "tourline/internal/domain/tours"
)

// OrderRepository keeps orders in memory, newest first on listing.
type OrderRepository struct {
	mu    sync.RWMutex
	items map[domainorders.OrderID]*domainorders.Order
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{items: make(map[domainorders.OrderID]*domainorders.Order)}
}

func (r *OrderRepository) ByID(ctx context.Context, id domainorders.OrderID) (*domainorders.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.items[id]
	if !ok {
		return nil, domainorders.ErrNotFound
	}
	clone := *order
	return &clone, nil
}

func (r *OrderRepository) Save(ctx context.Context, order *domainorders.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *order
	r.items[order.ID] = &clone
	return nil
}

func (r *OrderRepository) ByTour(ctx context.Context, tourID domaintours.TourID, limit, offset int64) ([]*domainorders.Order, error) {
	return r.list(func(o *domainorders.Order) bool { return o.TourID == tourID }, limit, offset)
}

func (r *OrderRepository) List(ctx context.Context, limit, offset int64) ([]*domainorders.Order, error) {
	return r.list(func(*domainorders.Order) bool { return true }, limit, offset)
}

func (r *OrderRepository) list(keep func(*domainorders.Order) bool, limit, offset int64) ([]*domainorders.Order, error) {
	r.mu.RLock()
	matched := make([]*domainorders.Order, 0, len(r.items))
	for _, order := range r.items {
		if keep(order) {
			clone := *order
			matched = append(matched, &clone)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if offset >= int64(len(matched)) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < int64(len(matched)) {
		matched = matched[:limit]
	}
	return matched, nil
}

var _ domainorders.Repository = (*OrderRepository)(nil)
