package tours

import "time"

type TourCreated struct {
	TourID TourID    `json:"tour_id"`
	Code   string    `json:"code"`
	At     time.Time `json:"at"`
}

func (e TourCreated) EventName() string     { return "tour.created" }
func (e TourCreated) AggregateID() string   { return string(e.TourID) }
func (e TourCreated) OccurredAt() time.Time { return e.At }

type TourUpdated struct {
	TourID TourID    `json:"tour_id"`
	At     time.Time `json:"at"`
}

func (e TourUpdated) EventName() string     { return "tour.updated" }
func (e TourUpdated) AggregateID() string   { return string(e.TourID) }
func (e TourUpdated) OccurredAt() time.Time { return e.At }

type TourDeleted struct {
	TourID TourID    `json:"tour_id"`
	At     time.Time `json:"at"`
}

func (e TourDeleted) EventName() string     { return "tour.deleted" }
func (e TourDeleted) AggregateID() string   { return string(e.TourID) }
func (e TourDeleted) OccurredAt() time.Time { return e.At }

type TourRestored struct {
	TourID TourID    `json:"tour_id"`
	At     time.Time `json:"at"`
}

func (e TourRestored) EventName() string     { return "tour.restored" }
func (e TourRestored) AggregateID() string   { return string(e.TourID) }
func (e TourRestored) OccurredAt() time.Time { return e.At }

type TourPriceRecalculated struct {
	TourID   TourID    `json:"tour_id"`
	MinPrice int64     `json:"min_price"`
	MaxPrice int64     `json:"max_price"`
	Price    int64     `json:"price"`
	At       time.Time `json:"at"`
}

func (e TourPriceRecalculated) EventName() string     { return "tour.price_recalculated" }
func (e TourPriceRecalculated) AggregateID() string   { return string(e.TourID) }
func (e TourPriceRecalculated) OccurredAt() time.Time { return e.At }
