package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"tourline/internal/app/dto"
	appoutbox "tourline/internal/app/outbox"
	"tourline/internal/app/policies"
	"tourline/internal/domain/orders"
	"tourline/internal/domain/pricing"
	domaintours "tourline/internal/domain/tours"
)

var (
	ErrRateLimited     = errors.New("orders: too many booking attempts")
	ErrTourUnavailable = errors.New("orders: tour is not open for booking")
	ErrDepartureGone   = errors.New("orders: departure is no longer available")
	ErrDetailMismatch  = errors.New("orders: departure does not belong to the tour")
)

// Service handles booking creation and back-office order management.
type Service struct {
	Orders      orders.Repository
	Tours       domaintours.Repository
	Details     domaintours.DetailRepository
	Idempotency policies.IdempotencyStore
	Limiter     policies.AttemptLimiter
	Box         appoutbox.Outbox
	Encoder     appoutbox.EventEncoder
	Logger      *slog.Logger
	Clock       func() time.Time
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

type CreateInput struct {
	TourID      string `json:"tour_id" binding:"required"`
	DepartureID string `json:"departure_id" binding:"required"`

	Adults      int `json:"adults" binding:"required,min=1"`
	Children    int `json:"children"`
	Child       int `json:"child"`
	Baby        int `json:"baby"`
	SingleRooms int `json:"single_rooms"`

	Contact dto.OrderContact `json:"contact" binding:"required"`

	IdempotencyKey string `json:"-"`
}

// Create books seats on a departure. The total is always computed
// server-side from the block on record; client-submitted prices are
// never trusted. Retries carrying the same Idempotency-Key replay the
// original response without consuming stock twice.
func (s *Service) Create(ctx context.Context, in CreateInput) (dto.OrderSummary, error) {
	if s.Limiter != nil {
		key := limiterKey(in.Contact.Phone)
		allowed, err := s.Limiter.Allow(ctx, key)
		if err != nil {
			// The limiter is protective, not load-bearing. Fail open.
			s.logger().Warn("attempt limiter unavailable", "error", err)
		} else if !allowed {
			return dto.OrderSummary{}, ErrRateLimited
		}
	}

	if s.Idempotency != nil && in.IdempotencyKey != "" {
		rec, found, err := s.Idempotency.Get(ctx, in.IdempotencyKey)
		if err != nil {
			return dto.OrderSummary{}, err
		}
		if found {
			var replay dto.OrderSummary
			if err := json.Unmarshal(rec.Payload, &replay); err != nil {
				return dto.OrderSummary{}, err
			}
			return replay, nil
		}
	}

	summary, err := s.create(ctx, in)
	if err != nil {
		// Failures are not recorded: a retry with the same key runs the
		// booking again instead of replaying a possibly transient error.
		return dto.OrderSummary{}, err
	}
	if s.Idempotency != nil && in.IdempotencyKey != "" {
		payload, err := json.Marshal(summary)
		if err != nil {
			return dto.OrderSummary{}, err
		}
		record := policies.IdempotencyRecord{
			Key:        in.IdempotencyKey,
			Payload:    payload,
			OccurredAt: s.now().UTC(),
		}
		if err := s.Idempotency.Save(ctx, record); err != nil {
			return dto.OrderSummary{}, err
		}
	}
	return summary, nil
}

func (s *Service) create(ctx context.Context, in CreateInput) (dto.OrderSummary, error) {
	tour, err := s.Tours.ByID(ctx, domaintours.TourID(in.TourID))
	if err != nil {
		return dto.OrderSummary{}, err
	}
	if tour.Deleted || !tour.Status {
		return dto.OrderSummary{}, ErrTourUnavailable
	}
	detail, err := s.Details.ByID(ctx, domaintours.DetailID(in.DepartureID))
	if err != nil {
		return dto.OrderSummary{}, err
	}
	if detail.TourID != tour.ID {
		return dto.OrderSummary{}, ErrDetailMismatch
	}
	now := s.now()
	block := detail.Block()
	if !pricing.Available(block, now) {
		return dto.OrderSummary{}, ErrDepartureGone
	}

	pax := pricing.Pax{Adults: in.Adults, Children: in.Children, Child: in.Child, Baby: in.Baby}
	total := pricing.BookingTotal(block, pax, in.SingleRooms)

	// The order is validated before any stock moves so a rejected
	// booking can never shrink inventory.
	order, err := orders.NewOrder(orders.CreateParams{
		ID:          orders.OrderID(uuid.NewString()),
		Code:        orderCode(now),
		TourID:      tour.ID,
		DetailID:    detail.ID,
		Pax:         pax,
		SingleRooms: in.SingleRooms,
		Contact: orders.Contact{
			Name:  in.Contact.Name,
			Phone: in.Contact.Phone,
			Email: in.Contact.Email,
			Note:  in.Contact.Note,
		},
		Total: total,
		Now:   now,
	})
	if err != nil {
		return dto.OrderSummary{}, err
	}

	seats := pax.Seats()
	if err := s.Details.ConsumeStock(ctx, detail.ID, seats); err != nil {
		return dto.OrderSummary{}, err
	}
	if err := s.Orders.Save(ctx, order); err != nil {
		s.releaseSeats(ctx, detail.ID, seats)
		return dto.OrderSummary{}, err
	}
	if err := appoutbox.RecordDomainEvents(ctx, s.Box, s.Encoder, order.PendingEvents()); err != nil {
		// The booking is voided when its event cannot be recorded.
		order.ClearEvents()
		if cancelErr := order.Cancel(now, "event persistence failed"); cancelErr == nil {
			order.ClearEvents()
			if saveErr := s.Orders.Save(ctx, order); saveErr != nil {
				s.logger().Error("booking void failed", "order_id", string(order.ID), "error", saveErr)
			}
		}
		s.releaseSeats(ctx, detail.ID, seats)
		return dto.OrderSummary{}, err
	}
	order.ClearEvents()
	return dto.MapOrder(order), nil
}

func (s *Service) releaseSeats(ctx context.Context, id domaintours.DetailID, seats int) {
	if err := s.Details.ReleaseStock(ctx, id, seats); err != nil {
		s.logger().Error("seat release failed", "detail_id", string(id), "error", err)
	}
}

func (s *Service) Get(ctx context.Context, id orders.OrderID) (dto.OrderSummary, error) {
	order, err := s.Orders.ByID(ctx, id)
	if err != nil {
		return dto.OrderSummary{}, err
	}
	return dto.MapOrder(order), nil
}

func (s *Service) List(ctx context.Context, limit, offset int64) (dto.OrderCollection, error) {
	items, err := s.Orders.List(ctx, limit, offset)
	if err != nil {
		return dto.OrderCollection{}, err
	}
	return dto.MapOrderCollection(items, int64(len(items)), limit, offset), nil
}

func (s *Service) Confirm(ctx context.Context, id orders.OrderID) (dto.OrderSummary, error) {
	return s.transition(ctx, id, func(o *orders.Order, now time.Time) error {
		return o.Confirm(now)
	})
}

// Cancel releases the cancelled booking's seats back to its block so
// they become sellable again. Cancelling twice releases only once.
func (s *Service) Cancel(ctx context.Context, id orders.OrderID, reason string) (dto.OrderSummary, error) {
	order, err := s.Orders.ByID(ctx, id)
	if err != nil {
		return dto.OrderSummary{}, err
	}
	wasActive := order.State != orders.OrderCancelled
	if err := order.Cancel(s.now(), reason); err != nil {
		return dto.OrderSummary{}, err
	}
	if err := s.Orders.Save(ctx, order); err != nil {
		return dto.OrderSummary{}, err
	}
	if err := appoutbox.RecordDomainEvents(ctx, s.Box, s.Encoder, order.PendingEvents()); err != nil {
		return dto.OrderSummary{}, err
	}
	order.ClearEvents()
	if wasActive {
		s.releaseSeats(ctx, order.DetailID, order.Pax.Seats())
	}
	return dto.MapOrder(order), nil
}

func (s *Service) transition(ctx context.Context, id orders.OrderID, apply func(*orders.Order, time.Time) error) (dto.OrderSummary, error) {
	order, err := s.Orders.ByID(ctx, id)
	if err != nil {
		return dto.OrderSummary{}, err
	}
	if err := apply(order, s.now()); err != nil {
		return dto.OrderSummary{}, err
	}
	if err := s.Orders.Save(ctx, order); err != nil {
		return dto.OrderSummary{}, err
	}
	if err := appoutbox.RecordDomainEvents(ctx, s.Box, s.Encoder, order.PendingEvents()); err != nil {
		return dto.OrderSummary{}, err
	}
	order.ClearEvents()
	return dto.MapOrder(order), nil
}

func limiterKey(phone string) string {
	return "orders:create:" + strings.TrimSpace(phone)
}

func orderCode(now time.Time) string {
	return fmt.Sprintf("TB%s-%s", now.UTC().Format("060102"), strings.ToUpper(uuid.NewString()[:6]))
}
