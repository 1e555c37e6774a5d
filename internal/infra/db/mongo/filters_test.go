package mongo

import (
	"net/url"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMergeFiltersBase(t *testing.T) {
	qb := NewQueryBuilder(DefaultPriceBands())

	got := qb.MergeFilters(nil, url.Values{})

	want := bson.M{"deleted": false, "status": true}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MergeFilters(nil, {}) = %v, want %v", got, want)
	}
}

func TestMergeFiltersStoredKeys(t *testing.T) {
	qb := NewQueryBuilder(DefaultPriceBands())

	stored := map[string]any{
		"minPrice":  float64(2_000_000),
		"maxPrice":  "8000000",
		"tags":      []any{"beach", "family", "beach"},
		"highlight": "true",
		"category":  "cat-1",
	}
	got := qb.MergeFilters(stored, url.Values{})

	price, ok := got["price"].(bson.M)
	if !ok {
		t.Fatalf("price clause missing: %v", got)
	}
	if price["$gte"] != int64(2_000_000) || price["$lte"] != int64(8_000_000) {
		t.Fatalf("price clause = %v", price)
	}
	tags, ok := got["tags"].(bson.M)
	if !ok || !reflect.DeepEqual(tags["$in"], []string{"beach", "family"}) {
		t.Fatalf("tags clause = %v", got["tags"])
	}
	if got["highlight"] != true {
		t.Fatalf("highlight = %v", got["highlight"])
	}
	if got["category"] != "cat-1" {
		t.Fatalf("category = %v", got["category"])
	}
}

func TestMergeFiltersKeywords(t *testing.T) {
	qb := NewQueryBuilder(DefaultPriceBands())

	got := qb.MergeFilters(map[string]any{"keywords": []any{"Sapa", "Ha Long"}}, url.Values{})

	or, ok := got["$or"].([]bson.M)
	if !ok || len(or) != 2 {
		t.Fatalf("$or = %v", got["$or"])
	}
	re, ok := or[0]["title"].(primitive.Regex)
	if !ok || re.Pattern != "Sapa" || re.Options != "i" {
		t.Fatalf("first keyword clause = %v", or[0])
	}
}

func TestMergeFiltersBudgetBandWithUserMinPrice(t *testing.T) {
	qb := NewQueryBuilder(DefaultPriceBands())

	stored := map[string]any{"priceRange": "budget"}
	query := url.Values{"minPrice": []string{"1000000"}}

	got := qb.MergeFilters(stored, query)

	price, ok := got["price"].(bson.M)
	if !ok {
		t.Fatalf("price clause missing: %v", got)
	}
	if price["$lte"] != int64(5_000_000) {
		t.Errorf("band ceiling = %v, want 5000000", price["$lte"])
	}
	if price["$gte"] != int64(1_000_000) {
		t.Errorf("user floor = %v, want 1000000", price["$gte"])
	}
}

func TestMergeFiltersBands(t *testing.T) {
	qb := NewQueryBuilder(DefaultPriceBands())

	tests := []struct {
		label string
		want  bson.M
	}{
		{"budget", bson.M{"$lte": int64(5_000_000)}},
		{"mid", bson.M{"$gte": int64(5_000_000), "$lte": int64(10_000_000)}},
		{"luxury", bson.M{"$gte": int64(10_000_000)}},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got := qb.MergeFilters(map[string]any{"priceRange": tt.label}, url.Values{})
			if !reflect.DeepEqual(got["price"], tt.want) {
				t.Fatalf("price clause = %v, want %v", got["price"], tt.want)
			}
		})
	}
}

func TestMergeFiltersUnknownBandIgnored(t *testing.T) {
	qb := NewQueryBuilder(DefaultPriceBands())

	got := qb.MergeFilters(map[string]any{"priceRange": "premium"}, url.Values{})

	if _, ok := got["price"]; ok {
		t.Fatalf("unknown band produced a price clause: %v", got)
	}
}

func TestMergeFiltersQueryOverridesStored(t *testing.T) {
	qb := NewQueryBuilder(DefaultPriceBands())

	stored := map[string]any{"departure": "hanoi", "highlight": true}
	query := url.Values{
		"departure": []string{"danang"},
		"highlight": []string{"false"},
		"search":    []string{"Phu Quoc"},
	}
	got := qb.MergeFilters(stored, query)

	if got["departure"] != "danang" {
		t.Errorf("departure = %v, want danang", got["departure"])
	}
	if got["highlight"] != false {
		t.Errorf("highlight = %v, want false", got["highlight"])
	}
	re, ok := got["title"].(primitive.Regex)
	if !ok || re.Pattern != "Phu Quoc" {
		t.Errorf("title clause = %v", got["title"])
	}
}

func TestMergeFiltersUnlistedQueryParamIgnored(t *testing.T) {
	qb := NewQueryBuilder(DefaultPriceBands())

	query := url.Values{
		"deleted": []string{"true"},
		"admin":   []string{"1"},
	}
	got := qb.MergeFilters(nil, query)

	if got["deleted"] != false {
		t.Fatalf("deleted flag leaked from query: %v", got)
	}
	if _, ok := got["admin"]; ok {
		t.Fatalf("unlisted key leaked from query: %v", got)
	}
}

func TestMergeFiltersDestinationScopedKeysSkipped(t *testing.T) {
	qb := NewQueryBuilder(DefaultPriceBands())

	stored := map[string]any{"domestic": true, "country": "vietnam", "scope": "north", "region": "coastal"}
	got := qb.MergeFilters(stored, url.Values{})

	for _, key := range []string{"domestic", "country", "scope", "region"} {
		if _, ok := got[key]; ok {
			t.Errorf("key %q should be resolved upstream, got %v", key, got[key])
		}
	}
}

func TestMergeCategoriesFilter(t *testing.T) {
	qb := NewQueryBuilder(DefaultPriceBands())

	t.Run("no existing constraint", func(t *testing.T) {
		filter := bson.M{}
		qb.MergeCategoriesFilter([]string{"a", "b"}, filter)
		want := bson.M{"$in": []string{"a", "b"}}
		if !reflect.DeepEqual(filter["category"], want) {
			t.Fatalf("category = %v, want %v", filter["category"], want)
		}
	})

	t.Run("intersects existing scalar", func(t *testing.T) {
		filter := bson.M{"category": "b"}
		qb.MergeCategoriesFilter([]string{"a", "b"}, filter)
		want := bson.M{"$in": []string{"b"}}
		if !reflect.DeepEqual(filter["category"], want) {
			t.Fatalf("category = %v, want %v", filter["category"], want)
		}
	})

	t.Run("empty intersection falls back to curated set", func(t *testing.T) {
		filter := bson.M{"category": "z"}
		qb.MergeCategoriesFilter([]string{"a", "b"}, filter)
		want := bson.M{"$in": []string{"a", "b"}}
		if !reflect.DeepEqual(filter["category"], want) {
			t.Fatalf("category = %v, want %v", filter["category"], want)
		}
	})

	t.Run("no curated set leaves filter alone", func(t *testing.T) {
		filter := bson.M{"category": "z"}
		qb.MergeCategoriesFilter(nil, filter)
		if filter["category"] != "z" {
			t.Fatalf("category = %v, want z", filter["category"])
		}
	})
}

func TestBuildSortQuery(t *testing.T) {
	tests := []struct {
		sortBy string
		want   bson.D
	}{
		{"PRICE_ASC", bson.D{{Key: "price", Value: 1}}},
		{"PRICE_DESC", bson.D{{Key: "price", Value: -1}}},
		{"views", bson.D{{Key: "views", Value: -1}}},
		{"title", bson.D{{Key: "title", Value: 1}}},
		{"highlight", bson.D{{Key: "highlight", Value: -1}}},
		{"createdAt", bson.D{{Key: "created_at", Value: -1}}},
		{"", bson.D{{Key: "created_at", Value: -1}}},
		{"bogus", bson.D{{Key: "created_at", Value: -1}}},
	}
	for _, tt := range tests {
		query := url.Values{}
		if tt.sortBy != "" {
			query.Set("sortBy", tt.sortBy)
		}
		if got := BuildSortQuery(query); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("BuildSortQuery(%q) = %v, want %v", tt.sortBy, got, tt.want)
		}
	}
}

func TestLoadPriceBands(t *testing.T) {
	t.Run("empty uses defaults", func(t *testing.T) {
		if got := LoadPriceBands("", nil); got != DefaultPriceBands() {
			t.Fatalf("got %+v", got)
		}
	})
	t.Run("valid override", func(t *testing.T) {
		got := LoadPriceBands(`{"budget_max":3000000,"luxury_min":12000000}`, nil)
		if got.BudgetMax != 3_000_000 || got.LuxuryMin != 12_000_000 {
			t.Fatalf("got %+v", got)
		}
	})
	t.Run("out of order falls back", func(t *testing.T) {
		got := LoadPriceBands(`{"budget_max":9000000,"luxury_min":4000000}`, nil)
		if got != DefaultPriceBands() {
			t.Fatalf("got %+v", got)
		}
	})
	t.Run("garbage falls back", func(t *testing.T) {
		if got := LoadPriceBands("{nope", nil); got != DefaultPriceBands() {
			t.Fatalf("got %+v", got)
		}
	})
}
