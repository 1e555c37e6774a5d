package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domaintours "tourline/internal/domain/tours"
)

type DetailRepository struct {
	col *mongo.Collection
}

func NewDetailRepository(db *mongo.Database) *DetailRepository {
	col := db.Collection("tour_details")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "tour_id", Value: 1}, {Key: "day_start", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &DetailRepository{col: col}
}

func (r *DetailRepository) ByID(ctx context.Context, id domaintours.DetailID) (*domaintours.Detail, error) {
	var doc detailDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domaintours.ErrDetailNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *DetailRepository) ByTour(ctx context.Context, tourID domaintours.TourID) ([]*domaintours.Detail, error) {
	return r.find(ctx, bson.M{"tour_id": string(tourID)})
}

func (r *DetailRepository) ByTours(ctx context.Context, tourIDs []domaintours.TourID) (map[domaintours.TourID][]*domaintours.Detail, error) {
	ids := make([]string, 0, len(tourIDs))
	for _, id := range tourIDs {
		ids = append(ids, string(id))
	}
	details, err := r.find(ctx, bson.M{"tour_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	out := make(map[domaintours.TourID][]*domaintours.Detail, len(tourIDs))
	for _, d := range details {
		out[d.TourID] = append(out[d.TourID], d)
	}
	return out, nil
}

func (r *DetailRepository) find(ctx context.Context, filter bson.M) ([]*domaintours.Detail, error) {
	opts := options.Find().SetSort(bson.D{{Key: "day_start", Value: 1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domaintours.Detail
	for cursor.Next(ctx) {
		var doc detailDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func (r *DetailRepository) Save(ctx context.Context, detail *domaintours.Detail) error {
	doc := newDetailDocument(detail)
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *DetailRepository) Delete(ctx context.Context, id domaintours.DetailID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domaintours.ErrDetailNotFound
	}
	return nil
}

func (r *DetailRepository) DeleteByTour(ctx context.Context, tourID domaintours.TourID) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"tour_id": string(tourID)})
	return err
}

// ConsumeStock decrements seats with a guarded update so concurrent
// bookings can never oversell. Blocks without tracked stock are left
// untouched.
func (r *DetailRepository) ConsumeStock(ctx context.Context, id domaintours.DetailID, seats int) error {
	if seats <= 0 {
		return nil
	}
	var doc detailDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domaintours.ErrDetailNotFound
		}
		return err
	}
	if doc.Stock == nil {
		return nil
	}
	filter := bson.M{"_id": string(id), "stock": bson.M{"$gte": seats}}
	update := bson.M{"$inc": bson.M{"stock": -seats}}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domaintours.ErrOutOfStock
	}
	return nil
}

// ReleaseStock gives seats back after a failed or cancelled booking.
func (r *DetailRepository) ReleaseStock(ctx context.Context, id domaintours.DetailID, seats int) error {
	if seats <= 0 {
		return nil
	}
	filter := bson.M{"_id": string(id), "stock": bson.M{"$ne": nil}}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"stock": seats}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Either the block is gone or it never tracked stock.
		err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Err()
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domaintours.ErrDetailNotFound
		}
		return err
	}
	return nil
}

var _ domaintours.DetailRepository = (*DetailRepository)(nil)

type detailDocument struct {
	ID     string `bson:"_id"`
	TourID string `bson:"tour_id"`

	AdultPrice      int64 `bson:"adult_price"`
	ChildrenPrice   int64 `bson:"children_price"`
	ChildPrice      int64 `bson:"child_price"`
	BabyPrice       int64 `bson:"baby_price"`
	SingleRoomPrice int64 `bson:"single_room_price"`

	Stock *int `bson:"stock"`

	Discount         float64  `bson:"discount"`
	AdultDiscount    *float64 `bson:"adult_discount"`
	ChildrenDiscount *float64 `bson:"children_discount"`
	ChildDiscount    *float64 `bson:"child_discount"`
	BabyDiscount     *float64 `bson:"baby_discount"`

	DayStart  time.Time `bson:"day_start"`
	DayReturn time.Time `bson:"day_return"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func newDetailDocument(d *domaintours.Detail) detailDocument {
	return detailDocument{
		ID:               string(d.ID),
		TourID:           string(d.TourID),
		AdultPrice:       d.AdultPrice,
		ChildrenPrice:    d.ChildrenPrice,
		ChildPrice:       d.ChildPrice,
		BabyPrice:        d.BabyPrice,
		SingleRoomPrice:  d.SingleRoomPrice,
		Stock:            d.Stock,
		Discount:         d.Discount,
		AdultDiscount:    d.AdultDiscount,
		ChildrenDiscount: d.ChildrenDiscount,
		ChildDiscount:    d.ChildDiscount,
		BabyDiscount:     d.BabyDiscount,
		DayStart:         d.DayStart.UTC(),
		DayReturn:        d.DayReturn.UTC(),
		CreatedAt:        d.CreatedAt.UTC(),
		UpdatedAt:        d.UpdatedAt.UTC(),
	}
}

func (d detailDocument) toAggregate() *domaintours.Detail {
	return &domaintours.Detail{
		ID:               domaintours.DetailID(d.ID),
		TourID:           domaintours.TourID(d.TourID),
		AdultPrice:       d.AdultPrice,
		ChildrenPrice:    d.ChildrenPrice,
		ChildPrice:       d.ChildPrice,
		BabyPrice:        d.BabyPrice,
		SingleRoomPrice:  d.SingleRoomPrice,
		Stock:            d.Stock,
		Discount:         d.Discount,
		AdultDiscount:    d.AdultDiscount,
		ChildrenDiscount: d.ChildrenDiscount,
		ChildDiscount:    d.ChildDiscount,
		BabyDiscount:     d.BabyDiscount,
		DayStart:         d.DayStart.UTC(),
		DayReturn:        d.DayReturn.UTC(),
		CreatedAt:        d.CreatedAt.UTC(),
		UpdatedAt:        d.UpdatedAt.UTC(),
	}
}
