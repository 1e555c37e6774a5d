package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domaintaxonomy "tourline/internal/domain/taxonomy"
)

// TaxonomyRepository stores each kind in its own collection, mirroring
// how the frontend queries them independently.
type TaxonomyRepository struct {
	db *mongo.Database
}

func NewTaxonomyRepository(db *mongo.Database) *TaxonomyRepository {
	return &TaxonomyRepository{db: db}
}

func (r *TaxonomyRepository) collection(kind domaintaxonomy.Kind) *mongo.Collection {
	return r.db.Collection("taxonomy_" + string(kind))
}

func (r *TaxonomyRepository) ByID(ctx context.Context, kind domaintaxonomy.Kind, id domaintaxonomy.EntityID) (*domaintaxonomy.Entity, error) {
	var doc taxonomyDocument
	err := r.collection(kind).FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domaintaxonomy.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(kind), nil
}

func (r *TaxonomyRepository) Save(ctx context.Context, entity *domaintaxonomy.Entity) error {
	doc := newTaxonomyDocument(entity)
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection(entity.Kind).ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *TaxonomyRepository) Delete(ctx context.Context, kind domaintaxonomy.Kind, id domaintaxonomy.EntityID) error {
	res, err := r.collection(kind).DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domaintaxonomy.ErrNotFound
	}
	return nil
}

func (r *TaxonomyRepository) List(ctx context.Context, kind domaintaxonomy.Kind, includeDeleted bool) ([]*domaintaxonomy.Entity, error) {
	filter := bson.M{}
	if !includeDeleted {
		filter["deleted"] = false
	}
	opts := options.Find().SetSort(bson.D{{Key: "title", Value: 1}})
	cursor, err := r.collection(kind).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domaintaxonomy.Entity
	for cursor.Next(ctx) {
		var doc taxonomyDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate(kind))
	}
	return out, cursor.Err()
}

var _ domaintaxonomy.Repository = (*TaxonomyRepository)(nil)

type taxonomyDocument struct {
	ID        string    `bson:"_id"`
	Title     string    `bson:"title"`
	Slug      string    `bson:"slug"`
	Status    bool      `bson:"status"`
	Deleted   bool      `bson:"deleted"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func newTaxonomyDocument(e *domaintaxonomy.Entity) taxonomyDocument {
	return taxonomyDocument{
		ID:        string(e.ID),
		Title:     e.Title,
		Slug:      e.Slug,
		Status:    e.Status,
		Deleted:   e.Deleted,
		CreatedAt: e.CreatedAt.UTC(),
		UpdatedAt: e.UpdatedAt.UTC(),
	}
}

func (d taxonomyDocument) toAggregate(kind domaintaxonomy.Kind) *domaintaxonomy.Entity {
	return &domaintaxonomy.Entity{
		ID:        domaintaxonomy.EntityID(d.ID),
		Kind:      kind,
		Title:     d.Title,
		Slug:      d.Slug,
		Status:    d.Status,
		Deleted:   d.Deleted,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}
