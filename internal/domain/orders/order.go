package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"tourline/internal/domain/pricing"
	"tourline/internal/domain/shared/events"
	"tourline/internal/domain/tours"
)

var (
	ErrNotFound       = errors.New("orders: order not found")
	ErrNoAdults       = errors.New("orders: at least one adult is required")
	ErrContactMissing = errors.New("orders: contact name and phone are required")
	ErrInvalidState   = errors.New("orders: invalid state transition")
)

type OrderID string

type OrderState string

const (
	OrderPending   OrderState = "PENDING"
	OrderConfirmed OrderState = "CONFIRMED"
	OrderCancelled OrderState = "CANCELLED"
)

type Contact struct {
	Name  string
	Phone string
	Email string
	Note  string
}

type Order struct {
	ID       OrderID
	Code     string
	TourID   tours.TourID
	DetailID tours.DetailID

	Pax         pricing.Pax
	SingleRooms int
	Contact     Contact

	Total int64
	State OrderState

	CreatedAt time.Time
	UpdatedAt time.Time

	events.EventRecorder
}

type CreateParams struct {
	ID          OrderID
	Code        string
	TourID      tours.TourID
	DetailID    tours.DetailID
	Pax         pricing.Pax
	SingleRooms int
	Contact     Contact
	Total       int64
	Now         time.Time
}

func NewOrder(params CreateParams) (*Order, error) {
	if params.ID == "" {
		return nil, errors.New("orders: id is required")
	}
	if params.TourID == "" || params.DetailID == "" {
		return nil, errors.New("orders: tour and price block are required")
	}
	if params.Pax.Adults < 1 {
		return nil, ErrNoAdults
	}
	if strings.TrimSpace(params.Contact.Name) == "" || strings.TrimSpace(params.Contact.Phone) == "" {
		return nil, ErrContactMissing
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	rooms := params.SingleRooms
	if rooms < 0 {
		rooms = 0
	}
	order := &Order{
		ID:          params.ID,
		Code:        strings.ToUpper(strings.TrimSpace(params.Code)),
		TourID:      params.TourID,
		DetailID:    params.DetailID,
		Pax:         params.Pax,
		SingleRooms: rooms,
		Contact: Contact{
			Name:  strings.TrimSpace(params.Contact.Name),
			Phone: strings.TrimSpace(params.Contact.Phone),
			Email: strings.TrimSpace(params.Contact.Email),
			Note:  strings.TrimSpace(params.Contact.Note),
		},
		Total:     params.Total,
		State:     OrderPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	order.Record(OrderCreated{
		OrderID:  order.ID,
		TourID:   order.TourID,
		DetailID: order.DetailID,
		Total:    order.Total,
		At:       now,
	})
	return order, nil
}

func (o *Order) Confirm(now time.Time) error {
	if o.State != OrderPending {
		return ErrInvalidState
	}
	o.State = OrderConfirmed
	o.UpdatedAt = now.UTC()
	o.Record(OrderStateChanged{OrderID: o.ID, State: o.State, At: o.UpdatedAt})
	return nil
}

func (o *Order) Cancel(now time.Time, reason string) error {
	if o.State == OrderCancelled {
		return nil
	}
	o.State = OrderCancelled
	o.UpdatedAt = now.UTC()
	o.Record(OrderStateChanged{OrderID: o.ID, State: o.State, Reason: reason, At: o.UpdatedAt})
	return nil
}

type Repository interface {
	ByID(ctx context.Context, id OrderID) (*Order, error)
	Save(ctx context.Context, order *Order) error
	ByTour(ctx context.Context, tourID tours.TourID, limit, offset int64) ([]*Order, error)
	List(ctx context.Context, limit, offset int64) ([]*Order, error)
}

type OrderCreated struct {
	OrderID  OrderID        `json:"order_id"`
	TourID   tours.TourID   `json:"tour_id"`
	DetailID tours.DetailID `json:"detail_id"`
	Total    int64          `json:"total"`
	At       time.Time      `json:"at"`
}

func (e OrderCreated) EventName() string     { return "order.created" }
func (e OrderCreated) AggregateID() string   { return string(e.OrderID) }
func (e OrderCreated) OccurredAt() time.Time { return e.At }

type OrderStateChanged struct {
	OrderID OrderID    `json:"order_id"`
	State   OrderState `json:"state"`
	Reason  string     `json:"reason,omitempty"`
	At      time.Time  `json:"at"`
}

func (e OrderStateChanged) EventName() string     { return "order.state_changed" }
func (e OrderStateChanged) AggregateID() string   { return string(e.OrderID) }
func (e OrderStateChanged) OccurredAt() time.Time { return e.At }
