package dto

import (
	"time"

	domainorders "tourline/internal/domain/orders"
)

type OrderContact struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email,omitempty"`
	Note  string `json:"note,omitempty"`
}

type OrderSummary struct {
	ID          string       `json:"id"`
	Code        string       `json:"code"`
	TourID      string       `json:"tour_id"`
	DepartureID string       `json:"departure_id"`
	Adults      int          `json:"adults"`
	Children    int          `json:"children"`
	Child       int          `json:"child"`
	Baby        int          `json:"baby"`
	SingleRooms int          `json:"single_rooms"`
	Contact     OrderContact `json:"contact"`
	Total       int64        `json:"total"`
	State       string       `json:"state"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type OrderCollection struct {
	Items []OrderSummary  `json:"items"`
	Meta  CatalogMetadata `json:"meta"`
}

func MapOrder(order *domainorders.Order) OrderSummary {
	if order == nil {
		return OrderSummary{}
	}
	return OrderSummary{
		ID:          string(order.ID),
		Code:        order.Code,
		TourID:      string(order.TourID),
		DepartureID: string(order.DetailID),
		Adults:      order.Pax.Adults,
		Children:    order.Pax.Children,
		Child:       order.Pax.Child,
		Baby:        order.Pax.Baby,
		SingleRooms: order.SingleRooms,
		Contact: OrderContact{
			Name:  order.Contact.Name,
			Phone: order.Contact.Phone,
			Email: order.Contact.Email,
			Note:  order.Contact.Note,
		},
		Total:     order.Total,
		State:     string(order.State),
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
}

func MapOrderCollection(items []*domainorders.Order, total, limit, offset int64) OrderCollection {
	out := OrderCollection{
		Items: make([]OrderSummary, 0, len(items)),
		Meta: CatalogMetadata{
			Total:  total,
			Count:  len(items),
			Limit:  limit,
			Offset: offset,
		},
	}
	for _, order := range items {
		out.Items = append(out.Items, MapOrder(order))
	}
	return out
}
