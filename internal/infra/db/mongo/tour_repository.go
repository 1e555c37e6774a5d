package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tourline/internal/domain/pricing"
	domaintours "tourline/internal/domain/tours"
)

type TourRepository struct {
	col *mongo.Collection
}

func NewTourRepository(db *mongo.Database) *TourRepository {
	col := db.Collection("tours")
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "deleted", Value: 1}, {Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
	}
	_, _ = col.Indexes().CreateMany(context.Background(), indexes)
	return &TourRepository{col: col}
}

func (r *TourRepository) ByID(ctx context.Context, id domaintours.TourID) (*domaintours.Tour, error) {
	var doc tourDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domaintours.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *TourRepository) Save(ctx context.Context, tour *domaintours.Tour) error {
	doc := newTourDocument(tour)
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *TourRepository) UpdatePricing(ctx context.Context, id domaintours.TourID, s pricing.Summary, now time.Time) error {
	update := bson.M{"$set": bson.M{
		"min_price":   s.MinPrice,
		"max_price":   s.MaxPrice,
		"price":       s.DisplayPrice,
		"total_price": int64(0),
		"updated_at":  now.UTC(),
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": string(id)}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domaintours.ErrNotFound
	}
	return nil
}

func (r *TourRepository) Find(ctx context.Context, filter any, sort any, limit, offset int64) ([]*domaintours.Tour, error) {
	if filter == nil {
		filter = bson.M{}
	}
	opts := options.Find().SetLimit(limit).SetSkip(offset)
	if sort != nil {
		opts.SetSort(sort)
	} else {
		opts.SetSort(bson.D{{Key: "created_at", Value: -1}})
	}
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domaintours.Tour
	for cursor.Next(ctx) {
		var doc tourDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func (r *TourRepository) Count(ctx context.Context, filter any) (int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	return r.col.CountDocuments(ctx, filter)
}

func (r *TourRepository) IncrementViews(ctx context.Context, id domaintours.TourID) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": string(id)}, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domaintours.ErrNotFound
	}
	return nil
}

func (r *TourRepository) Purge(ctx context.Context, id domaintours.TourID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domaintours.ErrNotFound
	}
	return nil
}

var _ domaintours.Repository = (*TourRepository)(nil)

type tourDocument struct {
	ID             string    `bson:"_id"`
	Title          string    `bson:"title"`
	Code           string    `bson:"code"`
	Summary        string    `bson:"summary"`
	Description    string    `bson:"description"`
	Category       string    `bson:"category"`
	Destination    string    `bson:"destination"`
	Departure      string    `bson:"departure"`
	Transportation string    `bson:"transportation"`
	Tags           []string  `bson:"tags"`
	Highlight      bool      `bson:"highlight"`
	Views          int64     `bson:"views"`
	Price          int64     `bson:"price"`
	MinPrice       int64     `bson:"min_price"`
	MaxPrice       int64     `bson:"max_price"`
	TotalPrice     int64     `bson:"total_price"`
	Status         bool      `bson:"status"`
	Deleted        bool      `bson:"deleted"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

func newTourDocument(t *domaintours.Tour) tourDocument {
	return tourDocument{
		ID:             string(t.ID),
		Title:          t.Title,
		Code:           t.Code,
		Summary:        t.Summary,
		Description:    t.Description,
		Category:       t.CategoryID,
		Destination:    t.DestinationID,
		Departure:      t.DepartureID,
		Transportation: t.TransportationID,
		Tags:           append([]string(nil), t.Tags...),
		Highlight:      t.Highlight,
		Views:          t.Views,
		Price:          t.Price,
		MinPrice:       t.MinPrice,
		MaxPrice:       t.MaxPrice,
		TotalPrice:     0,
		Status:         t.Status,
		Deleted:        t.Deleted,
		CreatedAt:      t.CreatedAt.UTC(),
		UpdatedAt:      t.UpdatedAt.UTC(),
	}
}

func (d tourDocument) toAggregate() *domaintours.Tour {
	return &domaintours.Tour{
		ID:               domaintours.TourID(d.ID),
		Title:            d.Title,
		Code:             d.Code,
		Summary:          d.Summary,
		Description:      d.Description,
		CategoryID:       d.Category,
		DestinationID:    d.Destination,
		DepartureID:      d.Departure,
		TransportationID: d.Transportation,
		Tags:             append([]string(nil), d.Tags...),
		Highlight:        d.Highlight,
		Views:            d.Views,
		Price:            d.Price,
		MinPrice:         d.MinPrice,
		MaxPrice:         d.MaxPrice,
		TotalPrice:       d.TotalPrice,
		Status:           d.Status,
		Deleted:          d.Deleted,
		CreatedAt:        d.CreatedAt.UTC(),
		UpdatedAt:        d.UpdatedAt.UTC(),
	}
}
