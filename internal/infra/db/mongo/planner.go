package mongo

import "net/url"

// Planner adapts the query builder to the application's planner port.
type Planner struct {
	qb QueryBuilder
}

func NewPlanner(bands PriceBands) Planner {
	return Planner{qb: NewQueryBuilder(bands)}
}

func (p Planner) Plan(stored map[string]any, categories []string, query url.Values) (any, any) {
	filter := p.qb.MergeFilters(stored, query)
	filter = p.qb.MergeCategoriesFilter(categories, filter)
	return filter, BuildSortQuery(query)
}
