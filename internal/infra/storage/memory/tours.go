package memory

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tourline/internal/domain/pricing"
	domaintours "tourline/internal/domain/tours"
)

// TourRepository keeps tours in memory. The filter documents produced
// by the query planner are evaluated against the same field names the
// document store uses, so dev runs exercise identical query semantics.
type TourRepository struct {
	mu    sync.RWMutex
	items map[domaintours.TourID]*domaintours.Tour
}

func NewTourRepository() *TourRepository {
	return &TourRepository{items: make(map[domaintours.TourID]*domaintours.Tour)}
}

func (r *TourRepository) ByID(ctx context.Context, id domaintours.TourID) (*domaintours.Tour, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tour, ok := r.items[id]
	if !ok {
		return nil, domaintours.ErrNotFound
	}
	clone := *tour
	return &clone, nil
}

func (r *TourRepository) Save(ctx context.Context, tour *domaintours.Tour) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *tour
	r.items[tour.ID] = &clone
	return nil
}

func (r *TourRepository) UpdatePricing(ctx context.Context, id domaintours.TourID, s pricing.Summary, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tour, ok := r.items[id]
	if !ok {
		return domaintours.ErrNotFound
	}
	tour.ApplyPricing(s, now)
	return nil
}

func (r *TourRepository) Find(ctx context.Context, filter any, sortSpec any, limit, offset int64) ([]*domaintours.Tour, error) {
	r.mu.RLock()
	matched := make([]*domaintours.Tour, 0, len(r.items))
	for _, tour := range r.items {
		if matchTour(tour, filter) {
			clone := *tour
			matched = append(matched, &clone)
		}
	}
	r.mu.RUnlock()

	sortTours(matched, sortSpec)
	if offset >= int64(len(matched)) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < int64(len(matched)) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *TourRepository) Count(ctx context.Context, filter any) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, tour := range r.items {
		if matchTour(tour, filter) {
			n++
		}
	}
	return n, nil
}

func (r *TourRepository) IncrementViews(ctx context.Context, id domaintours.TourID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tour, ok := r.items[id]
	if !ok {
		return domaintours.ErrNotFound
	}
	tour.Views++
	return nil
}

func (r *TourRepository) Purge(ctx context.Context, id domaintours.TourID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domaintours.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

var _ domaintours.Repository = (*TourRepository)(nil)

func matchTour(tour *domaintours.Tour, filter any) bool {
	doc, ok := filter.(bson.M)
	if filter == nil || !ok {
		return filter == nil
	}
	for key, cond := range doc {
		if !matchField(tour, key, cond) {
			return false
		}
	}
	return true
}

func matchField(tour *domaintours.Tour, key string, cond any) bool {
	switch key {
	case "deleted":
		return tour.Deleted == cond
	case "status":
		return tour.Status == cond
	case "highlight":
		return tour.Highlight == cond
	case "category":
		return matchString(tour.CategoryID, cond)
	case "destination":
		return matchString(tour.DestinationID, cond)
	case "departure":
		return matchString(tour.DepartureID, cond)
	case "transportation":
		return matchString(tour.TransportationID, cond)
	case "title":
		return matchString(tour.Title, cond)
	case "price":
		return matchRange(tour.Price, cond)
	case "tags":
		return matchAny(tour.Tags, cond)
	case "$or":
		clauses, ok := cond.([]bson.M)
		if !ok {
			return false
		}
		for _, clause := range clauses {
			hit := true
			for k, c := range clause {
				if !matchField(tour, k, c) {
					hit = false
					break
				}
			}
			if hit {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func matchString(value string, cond any) bool {
	switch c := cond.(type) {
	case string:
		return value == c
	case primitive.Regex:
		re, err := regexp.Compile("(?i)" + c.Pattern)
		if err != nil {
			return false
		}
		return re.MatchString(value)
	case bson.M:
		if in, ok := c["$in"]; ok {
			return containsString(in, value)
		}
	}
	return false
}

func matchAny(values []string, cond any) bool {
	c, ok := cond.(bson.M)
	if !ok {
		return false
	}
	in, ok := c["$in"]
	if !ok {
		return false
	}
	for _, v := range values {
		if containsString(in, v) {
			return true
		}
	}
	return false
}

func containsString(in any, value string) bool {
	switch list := in.(type) {
	case []string:
		for _, item := range list {
			if item == value {
				return true
			}
		}
	case []any:
		for _, item := range list {
			if s, ok := item.(string); ok && s == value {
				return true
			}
		}
	}
	return false
}

func matchRange(value int64, cond any) bool {
	c, ok := cond.(bson.M)
	if !ok {
		return false
	}
	if min, ok := c["$gte"]; ok {
		if bound, ok := asInt64(min); !ok || value < bound {
			return false
		}
	}
	if max, ok := c["$lte"]; ok {
		if bound, ok := asInt64(max); !ok || value > bound {
			return false
		}
	}
	return true
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		return int64(n), true
	}
	return 0, false
}

func sortTours(items []*domaintours.Tour, order any) {
	key, dir := "created_at", -1
	if d, ok := order.(bson.D); ok && len(d) > 0 {
		key = d[0].Key
		if v, ok := d[0].Value.(int); ok {
			dir = v
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		var less bool
		switch key {
		case "price":
			less = a.Price < b.Price
		case "views":
			less = a.Views < b.Views
		case "title":
			less = strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case "highlight":
			less = !a.Highlight && b.Highlight
		default:
			less = a.CreatedAt.Before(b.CreatedAt)
		}
		if dir < 0 {
			return !less && !equalSortKey(a, b, key)
		}
		return less
	})
}

func equalSortKey(a, b *domaintours.Tour, key string) bool {
	switch key {
	case "price":
		return a.Price == b.Price
	case "views":
		return a.Views == b.Views
	case "title":
		return strings.EqualFold(a.Title, b.Title)
	case "highlight":
		return a.Highlight == b.Highlight
	default:
		return a.CreatedAt.Equal(b.CreatedAt)
	}
}
