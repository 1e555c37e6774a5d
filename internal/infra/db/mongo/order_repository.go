package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainorders "tourline/internal/domain/orders"
	"tourline/internal/domain/pricing"
	domaintours "tourline/internal/domain/tours"
)

type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	col := db.Collection("orders")
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "tour_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "contact.phone", Value: 1}}},
	}
	_, _ = col.Indexes().CreateMany(context.Background(), indexes)
	return &OrderRepository{col: col}
}

func (r *OrderRepository) ByID(ctx context.Context, id domainorders.OrderID) (*domainorders.Order, error) {
	var doc orderDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainorders.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *OrderRepository) Save(ctx context.Context, order *domainorders.Order) error {
	doc := newOrderDocument(order)
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *OrderRepository) ByTour(ctx context.Context, tourID domaintours.TourID, limit, offset int64) ([]*domainorders.Order, error) {
	return r.find(ctx, bson.M{"tour_id": string(tourID)}, limit, offset)
}

func (r *OrderRepository) List(ctx context.Context, limit, offset int64) ([]*domainorders.Order, error) {
	return r.find(ctx, bson.M{}, limit, offset)
}

func (r *OrderRepository) find(ctx context.Context, filter bson.M, limit, offset int64) ([]*domainorders.Order, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domainorders.Order
	for cursor.Next(ctx) {
		var doc orderDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

var _ domainorders.Repository = (*OrderRepository)(nil)

type orderDocument struct {
	ID          string          `bson:"_id"`
	Code        string          `bson:"code"`
	TourID      string          `bson:"tour_id"`
	DetailID    string          `bson:"detail_id"`
	Adults      int             `bson:"adults"`
	Children    int             `bson:"children"`
	Child       int             `bson:"child"`
	Baby        int             `bson:"baby"`
	SingleRooms int             `bson:"single_rooms"`
	Contact     contactDocument `bson:"contact"`
	Total       int64           `bson:"total"`
	State       string          `bson:"state"`
	CreatedAt   time.Time       `bson:"created_at"`
	UpdatedAt   time.Time       `bson:"updated_at"`
}

type contactDocument struct {
	Name  string `bson:"name"`
	Phone string `bson:"phone"`
	Email string `bson:"email"`
	Note  string `bson:"note"`
}

func newOrderDocument(o *domainorders.Order) orderDocument {
	return orderDocument{
		ID:          string(o.ID),
		Code:        o.Code,
		TourID:      string(o.TourID),
		DetailID:    string(o.DetailID),
		Adults:      o.Pax.Adults,
		Children:    o.Pax.Children,
		Child:       o.Pax.Child,
		Baby:        o.Pax.Baby,
		SingleRooms: o.SingleRooms,
		Contact: contactDocument{
			Name:  o.Contact.Name,
			Phone: o.Contact.Phone,
			Email: o.Contact.Email,
			Note:  o.Contact.Note,
		},
		Total:     o.Total,
		State:     string(o.State),
		CreatedAt: o.CreatedAt.UTC(),
		UpdatedAt: o.UpdatedAt.UTC(),
	}
}

func (d orderDocument) toAggregate() *domainorders.Order {
	return &domainorders.Order{
		ID:          domainorders.OrderID(d.ID),
		Code:        d.Code,
		TourID:      domaintours.TourID(d.TourID),
		DetailID:    domaintours.DetailID(d.DetailID),
		Pax:         pricing.Pax{Adults: d.Adults, Children: d.Children, Child: d.Child, Baby: d.Baby},
		SingleRooms: d.SingleRooms,
		Contact: domainorders.Contact{
			Name:  d.Contact.Name,
			Phone: d.Contact.Phone,
			Email: d.Contact.Email,
			Note:  d.Contact.Note,
		},
		Total:     d.Total,
		State:     domainorders.OrderState(d.State),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}
