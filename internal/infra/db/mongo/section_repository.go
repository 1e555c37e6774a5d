package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainsections "tourline/internal/domain/sections"
)

type SectionRepository struct {
	col *mongo.Collection
}

func NewSectionRepository(db *mongo.Database) *SectionRepository {
	col := db.Collection("home_sections")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "active", Value: 1}, {Key: "position", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &SectionRepository{col: col}
}

func (r *SectionRepository) ByID(ctx context.Context, id domainsections.SectionID) (*domainsections.Section, error) {
	var doc sectionDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainsections.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *SectionRepository) Save(ctx context.Context, section *domainsections.Section) error {
	doc := newSectionDocument(section)
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *SectionRepository) Delete(ctx context.Context, id domainsections.SectionID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainsections.ErrNotFound
	}
	return nil
}

func (r *SectionRepository) ListActive(ctx context.Context) ([]*domainsections.Section, error) {
	return r.find(ctx, bson.M{"active": true})
}

func (r *SectionRepository) ListAll(ctx context.Context) ([]*domainsections.Section, error) {
	return r.find(ctx, bson.M{})
}

func (r *SectionRepository) find(ctx context.Context, filter bson.M) ([]*domainsections.Section, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domainsections.Section
	for cursor.Next(ctx) {
		var doc sectionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

var _ domainsections.Repository = (*SectionRepository)(nil)

type sectionDocument struct {
	ID         string         `bson:"_id"`
	Title      string         `bson:"title"`
	Slug       string         `bson:"slug"`
	Filter     map[string]any `bson:"filter"`
	Categories []string       `bson:"categories"`
	Limit      int            `bson:"limit"`
	Position   int            `bson:"position"`
	Active     bool           `bson:"active"`
	CreatedAt  time.Time      `bson:"created_at"`
	UpdatedAt  time.Time      `bson:"updated_at"`
}

func newSectionDocument(s *domainsections.Section) sectionDocument {
	return sectionDocument{
		ID:         string(s.ID),
		Title:      s.Title,
		Slug:       s.Slug,
		Filter:     s.Filter,
		Categories: append([]string(nil), s.Categories...),
		Limit:      s.Limit,
		Position:   s.Position,
		Active:     s.Active,
		CreatedAt:  s.CreatedAt.UTC(),
		UpdatedAt:  s.UpdatedAt.UTC(),
	}
}

func (d sectionDocument) toAggregate() *domainsections.Section {
	filter := d.Filter
	if filter == nil {
		filter = map[string]any{}
	}
	return &domainsections.Section{
		ID:         domainsections.SectionID(d.ID),
		Title:      d.Title,
		Slug:       d.Slug,
		Filter:     filter,
		Categories: append([]string(nil), d.Categories...),
		Limit:      d.Limit,
		Position:   d.Position,
		Active:     d.Active,
		CreatedAt:  d.CreatedAt.UTC(),
		UpdatedAt:  d.UpdatedAt.UTC(),
	}
}
