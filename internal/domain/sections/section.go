package sections

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound      = errors.New("sections: section not found")
	ErrTitleRequired = errors.New("sections: title is required")
)

type SectionID string

// Section is an admin-curated block on the landing page: a stored
// filter plus presentation hints. The filter keys are free-form and
// interpreted by the query builder at read time.
type Section struct {
	ID         SectionID
	Title      string
	Slug       string
	Filter     map[string]any
	Categories []string
	Limit      int
	Position   int
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

const defaultCardLimit = 8

type Params struct {
	ID         SectionID
	Title      string
	Slug       string
	Filter     map[string]any
	Categories []string
	Limit      int
	Position   int
	Active     bool
	Now        time.Time
}

func New(params Params) (*Section, error) {
	if params.ID == "" {
		return nil, errors.New("sections: id is required")
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	s := &Section{
		ID:         params.ID,
		Title:      strings.TrimSpace(params.Title),
		Slug:       slugify(params.Slug, params.Title),
		Filter:     cloneFilter(params.Filter),
		Categories: append([]string(nil), params.Categories...),
		Limit:      params.Limit,
		Position:   params.Position,
		Active:     params.Active,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if s.Limit <= 0 {
		s.Limit = defaultCardLimit
	}
	return s, nil
}

func (s *Section) Update(params Params) error {
	if strings.TrimSpace(params.Title) == "" {
		return ErrTitleRequired
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	s.Title = strings.TrimSpace(params.Title)
	s.Slug = slugify(params.Slug, params.Title)
	s.Filter = cloneFilter(params.Filter)
	s.Categories = append([]string(nil), params.Categories...)
	if params.Limit > 0 {
		s.Limit = params.Limit
	}
	s.Position = params.Position
	s.Active = params.Active
	s.UpdatedAt = now.UTC()
	return nil
}

type Repository interface {
	ByID(ctx context.Context, id SectionID) (*Section, error)
	Save(ctx context.Context, section *Section) error
	Delete(ctx context.Context, id SectionID) error
	// ListActive returns active sections ordered by position.
	ListActive(ctx context.Context) ([]*Section, error)
	ListAll(ctx context.Context) ([]*Section, error)
}

func slugify(slug, fallback string) string {
	src := strings.TrimSpace(slug)
	if src == "" {
		src = fallback
	}
	src = strings.ToLower(strings.TrimSpace(src))
	var b strings.Builder
	lastDash := true
	for _, r := range src {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func cloneFilter(filter map[string]any) map[string]any {
	if filter == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(filter))
	for k, v := range filter {
		out[k] = v
	}
	return out
}
