package mongo

import (
	"encoding/json"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PriceBands maps the stored-filter price range labels onto concrete
// VND boundaries. Mid is everything between BudgetMax and LuxuryMin.
type PriceBands struct {
	BudgetMax int64 `json:"budget_max"`
	LuxuryMin int64 `json:"luxury_min"`
}

func DefaultPriceBands() PriceBands {
	return PriceBands{BudgetMax: 5_000_000, LuxuryMin: 10_000_000}
}

// LoadPriceBands parses a JSON override from the environment, falling
// back to the defaults on any malformed input.
func LoadPriceBands(raw string, logger *slog.Logger) PriceBands {
	if strings.TrimSpace(raw) == "" {
		return DefaultPriceBands()
	}
	var bands PriceBands
	if err := json.Unmarshal([]byte(raw), &bands); err != nil {
		if logger != nil {
			logger.Warn("invalid PRICE_BANDS JSON, using defaults", "error", err)
		}
		return DefaultPriceBands()
	}
	if bands.BudgetMax <= 0 || bands.LuxuryMin <= bands.BudgetMax {
		if logger != nil {
			logger.Warn("PRICE_BANDS out of order, using defaults", "budget_max", bands.BudgetMax, "luxury_min", bands.LuxuryMin)
		}
		return DefaultPriceBands()
	}
	return bands
}

// Stored-filter keys resolved against the destination entity by the
// aggregation path upstream, never by MergeFilters.
var destinationScopedKeys = map[string]struct{}{
	"country":  {},
	"domestic": {},
	"scope":    {},
	"region":   {},
}

// QueryBuilder turns stored home-section filters and request query
// parameters into find filters for the tours collection.
type QueryBuilder struct {
	Bands PriceBands
}

func NewQueryBuilder(bands PriceBands) QueryBuilder {
	if bands.BudgetMax <= 0 || bands.LuxuryMin <= bands.BudgetMax {
		bands = DefaultPriceBands()
	}
	return QueryBuilder{Bands: bands}
}

// MergeFilters builds one find filter from an admin-authored section
// filter and the request's query parameters. The stored filter is
// applied first and defines the curated subset; allow-listed user
// parameters refine it afterwards and can override overlapping fields,
// but can never widen the subset back out.
func (qb QueryBuilder) MergeFilters(stored map[string]any, query url.Values) bson.M {
	out := bson.M{"deleted": false, "status": true}
	price := bson.M{}

	for key, value := range stored {
		if _, skip := destinationScopedKeys[key]; skip {
			continue
		}
		switch key {
		case "minPrice":
			if v, ok := toInt64(value); ok {
				price["$gte"] = v
			}
		case "maxPrice":
			if v, ok := toInt64(value); ok {
				price["$lte"] = v
			}
		case "tag", "tags":
			if values := toStrings(value); len(values) > 0 {
				out["tags"] = bson.M{"$in": values}
			}
		case "keywords":
			if or := keywordClauses(toStrings(value)); len(or) > 0 {
				out["$or"] = or
			}
		case "priceRange":
			qb.applyBand(price, toString(value))
		case "highlight", "status":
			if b, ok := toBool(value); ok {
				out[key] = b
			}
		default:
			if values := toStrings(value); len(values) > 1 {
				out[key] = bson.M{"$in": values}
			} else if value != nil {
				out[key] = value
			}
		}
	}

	for _, key := range []string{"departure", "destination", "category", "transportation"} {
		if v := strings.TrimSpace(query.Get(key)); v != "" {
			out[key] = v
		}
	}
	if v := strings.TrimSpace(query.Get("highlight")); v != "" {
		if b, ok := toBool(v); ok {
			out["highlight"] = b
		}
	}
	if v := strings.TrimSpace(query.Get("search")); v != "" {
		out["title"] = titleRegex(v)
	}
	if v, ok := toInt64(query.Get("minPrice")); ok {
		price["$gte"] = v
	}
	if v, ok := toInt64(query.Get("maxPrice")); ok {
		price["$lte"] = v
	}

	if len(price) > 0 {
		out["price"] = price
	}
	return out
}

// MergeCategoriesFilter folds a section's explicit category ids into an
// existing filter. A category constraint already present (a user
// refinement) is intersected with the curated set; an empty
// intersection falls back to the curated set so the section can never
// be widened.
func (qb QueryBuilder) MergeCategoriesFilter(categories []string, filter bson.M) bson.M {
	curated := dedupe(categories)
	if len(curated) == 0 {
		return filter
	}
	existing := categoryValues(filter["category"])
	if len(existing) == 0 {
		filter["category"] = bson.M{"$in": curated}
		return filter
	}
	both := intersect(existing, curated)
	if len(both) == 0 {
		both = curated
	}
	filter["category"] = bson.M{"$in": both}
	return filter
}

// BuildSortQuery maps the request's sort key to a single-field sort
// specification, defaulting to newest-first.
func BuildSortQuery(query url.Values) bson.D {
	switch query.Get("sortBy") {
	case "PRICE_ASC":
		return bson.D{{Key: "price", Value: 1}}
	case "PRICE_DESC":
		return bson.D{{Key: "price", Value: -1}}
	case "views":
		return bson.D{{Key: "views", Value: -1}}
	case "title":
		return bson.D{{Key: "title", Value: 1}}
	case "highlight":
		return bson.D{{Key: "highlight", Value: -1}}
	case "createdAt":
		return bson.D{{Key: "created_at", Value: -1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}}
	}
}

func (qb QueryBuilder) applyBand(price bson.M, label string) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "budget":
		price["$lte"] = qb.Bands.BudgetMax
	case "mid":
		price["$gte"] = qb.Bands.BudgetMax
		price["$lte"] = qb.Bands.LuxuryMin
	case "luxury":
		price["$gte"] = qb.Bands.LuxuryMin
	}
}

func keywordClauses(keywords []string) []bson.M {
	out := make([]bson.M, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		out = append(out, bson.M{"title": titleRegex(kw)})
	}
	return out
}

func titleRegex(raw string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(raw), Options: "i"}
}

func categoryValues(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return []string{val}
	case bson.M:
		if in, ok := val["$in"]; ok {
			return toStrings(in)
		}
	}
	return toStrings(v)
}

func toString(v any) string {
	s, _ := v.(string)
	return s
}

func toStrings(v any) []string {
	switch val := v.(type) {
	case []string:
		return dedupe(val)
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		return dedupe(out)
	case string:
		if strings.TrimSpace(val) == "" {
			return nil
		}
		return []string{val}
	default:
		return nil
	}
}

func toBool(v any) (bool, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

func toInt64(v any) (int64, bool) {
	switch val := v.(type) {
	case int:
		return int64(val), true
	case int32:
		return int64(val), true
	case int64:
		return val, true
	case float64:
		return int64(val), true
	case json.Number:
		n, err := val.Int64()
		return n, err == nil
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return 0, false
		}
		n, err := strconv.ParseInt(trimmed, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func intersect(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, v := range b {
		set[v] = struct{}{}
	}
	out := make([]string, 0, len(a))
	for _, v := range a {
		if _, ok := set[v]; ok {
			out = append(out, v)
		}
	}
	return out
}
