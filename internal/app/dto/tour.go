package dto

import (
	"time"

	"tourline/internal/domain/pricing"
	domaintours "tourline/internal/domain/tours"
)

// TourCatalog is a paginated collection of tour cards.
type TourCatalog struct {
	Items []TourCard      `json:"items"`
	Meta  CatalogMetadata `json:"meta"`
}

// TourCard is a lightweight representation for listing pages and
// landing-page sections.
type TourCard struct {
	ID             string    `json:"id"`
	Code           string    `json:"code"`
	Title          string    `json:"title"`
	Summary        string    `json:"summary"`
	Category       string    `json:"category"`
	Destination    string    `json:"destination"`
	Departure      string    `json:"departure"`
	Transportation string    `json:"transportation"`
	Tags           []string  `json:"tags"`
	Highlight      bool      `json:"highlight"`
	Views          int64     `json:"views"`
	Price          int64     `json:"price"`
	MinPrice       int64     `json:"min_price"`
	MaxPrice       int64     `json:"max_price"`
	CreatedAt      time.Time `json:"created_at"`
}

// CatalogMetadata describes pagination.
type CatalogMetadata struct {
	Total  int64  `json:"total"`
	Count  int    `json:"count"`
	Limit  int64  `json:"limit"`
	Offset int64  `json:"offset"`
	Sort   string `json:"sort"`
}

// TourView is the full representation including departures.
type TourView struct {
	TourCard
	Description string          `json:"description"`
	Status      bool            `json:"status"`
	Departures  []TourDeparture `json:"departures"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TourDeparture is one bookable price block of a tour.
type TourDeparture struct {
	ID              string    `json:"id"`
	AdultPrice      int64     `json:"adult_price"`
	ChildrenPrice   int64     `json:"children_price"`
	ChildPrice      int64     `json:"child_price"`
	BabyPrice       int64     `json:"baby_price"`
	SingleRoomPrice int64     `json:"single_room_price"`
	Stock           *int      `json:"stock"`
	Discount        float64   `json:"discount"`
	DayStart        time.Time `json:"day_start"`
	DayReturn       time.Time `json:"day_return"`
	Available       bool      `json:"available"`
}

// TourPricing echoes the recalculated aggregates back to admin callers.
type TourPricing struct {
	ID       string `json:"id"`
	MinPrice int64  `json:"min_price"`
	MaxPrice int64  `json:"max_price"`
	Price    int64  `json:"price"`
}

// MapTourCatalog builds a DTO collection from a page of tours.
func MapTourCatalog(items []*domaintours.Tour, total, limit, offset int64, sort string) TourCatalog {
	cards := make([]TourCard, 0, len(items))
	for _, tour := range items {
		cards = append(cards, MapTourCard(tour))
	}
	return TourCatalog{
		Items: cards,
		Meta: CatalogMetadata{
			Total:  total,
			Count:  len(cards),
			Limit:  limit,
			Offset: offset,
			Sort:   sort,
		},
	}
}

// MapTourCard copies domain data for frontend consumption.
func MapTourCard(tour *domaintours.Tour) TourCard {
	if tour == nil {
		return TourCard{}
	}
	return TourCard{
		ID:             string(tour.ID),
		Code:           tour.Code,
		Title:          tour.Title,
		Summary:        tour.Summary,
		Category:       tour.CategoryID,
		Destination:    tour.DestinationID,
		Departure:      tour.DepartureID,
		Transportation: tour.TransportationID,
		Tags:           append([]string(nil), tour.Tags...),
		Highlight:      tour.Highlight,
		Views:          tour.Views,
		Price:          tour.Price,
		MinPrice:       tour.MinPrice,
		MaxPrice:       tour.MaxPrice,
		CreatedAt:      tour.CreatedAt,
	}
}

// MapTourView assembles the full detail response. Departures are
// flagged with their availability as of now so the frontend does not
// re-derive stock rules.
func MapTourView(tour *domaintours.Tour, details []*domaintours.Detail, now time.Time) TourView {
	view := TourView{
		TourCard:    MapTourCard(tour),
		Description: tour.Description,
		Status:      tour.Status,
		Departures:  make([]TourDeparture, 0, len(details)),
		UpdatedAt:   tour.UpdatedAt,
	}
	for _, d := range details {
		view.Departures = append(view.Departures, MapTourDeparture(d, now))
	}
	return view
}

func MapTourDeparture(d *domaintours.Detail, now time.Time) TourDeparture {
	if d == nil {
		return TourDeparture{}
	}
	block := d.Block()
	var stock *int
	if d.Stock != nil {
		v := *d.Stock
		stock = &v
	}
	return TourDeparture{
		ID:              string(d.ID),
		AdultPrice:      d.AdultPrice,
		ChildrenPrice:   d.ChildrenPrice,
		ChildPrice:      d.ChildPrice,
		BabyPrice:       d.BabyPrice,
		SingleRoomPrice: d.SingleRoomPrice,
		Stock:           stock,
		Discount:        d.Discount,
		DayStart:        d.DayStart,
		DayReturn:       d.DayReturn,
		Available:       pricing.Available(block, now),
	}
}
