package outbox

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	appoutbox "tourline/internal/app/outbox"
)

const (
	statusPending    = "PENDING"
	statusPublishing = "PUBLISHING"
	statusSent       = "SENT"
	statusFailed     = "FAILED"
)

// PendingEvent is a claimed outbox entry handed to the relay worker.
type PendingEvent struct {
	ID         string
	Name       string
	Aggregate  string
	Payload    []byte
	Headers    map[string]string
	OccurredAt time.Time
	Attempts   int
}

// Store persists recorded domain events until the relay ships them.
// Delivery bookkeeping lives in a subdocument so the event body stays
// exactly as recorded.
type Store struct {
	col *mongo.Collection
}

func NewStore(db *mongo.Database) *Store {
	col := db.Collection("outbox_events")
	idx := mongo.IndexModel{Keys: bson.D{
		{Key: "delivery.status", Value: 1},
		{Key: "delivery.not_before", Value: 1},
	}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &Store{col: col}
}

func (s *Store) Add(ctx context.Context, record appoutbox.EventRecord) error {
	now := time.Now().UTC()
	doc := eventDocument{
		ID:         record.ID,
		Name:       record.Name,
		Aggregate:  record.Aggregate,
		Payload:    record.Payload,
		Headers:    record.Headers,
		OccurredAt: record.OccurredAt,
		RecordedAt: now,
		Delivery: deliveryDocument{
			Status:    statusPending,
			NotBefore: now,
		},
	}
	_, err := s.col.InsertOne(ctx, doc)
	return err
}

var _ appoutbox.Outbox = (*Store)(nil)

// Claim atomically takes one deliverable event: pending or failed past
// its retry time, or one stuck in PUBLISHING longer than staleAfter
// because the worker that claimed it died.
func (s *Store) Claim(ctx context.Context, workerID string, staleAfter time.Duration) (*PendingEvent, error) {
	now := time.Now().UTC()
	deliverable := bson.M{
		"delivery.status":     bson.M{"$in": []string{statusPending, statusFailed}},
		"delivery.not_before": bson.M{"$lte": now},
	}
	stale := bson.M{
		"delivery.status":     statusPublishing,
		"delivery.claimed_at": bson.M{"$lte": now.Add(-staleAfter)},
	}
	update := bson.M{"$set": bson.M{
		"delivery.status":     statusPublishing,
		"delivery.claimed_by": workerID,
		"delivery.claimed_at": now,
	}}
	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "recorded_at", Value: 1}}).
		SetReturnDocument(options.After)
	var doc eventDocument
	err := s.col.FindOneAndUpdate(ctx, bson.M{"$or": []bson.M{deliverable, stale}}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &PendingEvent{
		ID:         doc.ID,
		Name:       doc.Name,
		Aggregate:  doc.Aggregate,
		Payload:    doc.Payload,
		Headers:    doc.Headers,
		OccurredAt: doc.OccurredAt,
		Attempts:   doc.Delivery.Attempts,
	}, nil
}

func (s *Store) MarkSent(ctx context.Context, id string) error {
	update := bson.M{"$set": bson.M{
		"delivery.status":  statusSent,
		"delivery.sent_at": time.Now().UTC(),
	}}
	_, err := s.col.UpdateByID(ctx, id, update)
	return err
}

func (s *Store) MarkFailed(ctx context.Context, id string, retryAt time.Time, reason string) error {
	update := bson.M{
		"$set": bson.M{
			"delivery.status":     statusFailed,
			"delivery.not_before": retryAt.UTC(),
			"delivery.last_error": reason,
		},
		"$inc": bson.M{"delivery.attempts": 1},
	}
	_, err := s.col.UpdateByID(ctx, id, update)
	return err
}

type eventDocument struct {
	ID         string            `bson:"_id"`
	Name       string            `bson:"name"`
	Aggregate  string            `bson:"aggregate"`
	Payload    []byte            `bson:"payload"`
	Headers    map[string]string `bson:"headers"`
	OccurredAt time.Time         `bson:"occurred_at"`
	RecordedAt time.Time         `bson:"recorded_at"`
	Delivery   deliveryDocument  `bson:"delivery"`
}

type deliveryDocument struct {
	Status    string    `bson:"status"`
	Attempts  int       `bson:"attempts"`
	NotBefore time.Time `bson:"not_before"`
	ClaimedBy string    `bson:"claimed_by,omitempty"`
	ClaimedAt time.Time `bson:"claimed_at,omitempty"`
	SentAt    time.Time `bson:"sent_at,omitempty"`
	LastError string    `bson:"last_error,omitempty"`
}
