package tours

import (
	"context"
	"testing"
	"time"

	domaintours "tourline/internal/domain/tours"
	"tourline/internal/infra/storage/memory"
)

var testNow = time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func seedTour(t *testing.T, repo *memory.TourRepository, id string) *domaintours.Tour {
	t.Helper()
	tour, err := domaintours.NewTour(domaintours.CreateTourParams{
		ID:     domaintours.TourID(id),
		Title:  "Northern loop",
		Code:   "NL-01",
		Status: true,
		Now:    testNow,
	})
	if err != nil {
		t.Fatalf("NewTour: %v", err)
	}
	tour.ClearEvents()
	if err := repo.Save(context.Background(), tour); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return tour
}

func seedDetail(t *testing.T, repo *memory.DetailRepository, id, tourID string, price int64, discount float64, stock *int, start time.Time) {
	t.Helper()
	detail, err := domaintours.NewDetail(domaintours.DetailParams{
		ID:         domaintours.DetailID(id),
		TourID:     domaintours.TourID(tourID),
		AdultPrice: price,
		Discount:   discount,
		Stock:      stock,
		DayStart:   start,
		DayReturn:  start.Add(72 * time.Hour),
		Now:        testNow,
	})
	if err != nil {
		t.Fatalf("NewDetail: %v", err)
	}
	if err := repo.Save(context.Background(), detail); err != nil {
		t.Fatalf("Save detail: %v", err)
	}
}

func TestRecalculateOverwritesCache(t *testing.T) {
	ctx := context.Background()
	tourRepo := memory.NewTourRepository()
	detailRepo := memory.NewDetailRepository()
	box := memory.NewOutbox()

	seedTour(t, tourRepo, "t1")
	seedDetail(t, detailRepo, "d1", "t1", 20_000_000, 20, intPtr(5), testNow.Add(24*time.Hour))
	seedDetail(t, detailRepo, "d2", "t1", 8_000_000, 0, intPtr(3), testNow.Add(48*time.Hour))

	r := &Recalculator{
		Tours:   tourRepo,
		Details: detailRepo,
		Box:     box,
		Clock:   func() time.Time { return testNow },
	}

	summary, err := r.Recalculate(ctx, "t1")
	if err != nil {
		t.Fatalf("Recalculate: %v", err)
	}
	if summary.MinPrice != 8_000_000 || summary.MaxPrice != 16_000_000 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.DisplayPrice != summary.MinPrice {
		t.Fatalf("display price = %d, want %d", summary.DisplayPrice, summary.MinPrice)
	}

	tour, err := tourRepo.ByID(ctx, "t1")
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if tour.MinPrice != 8_000_000 || tour.MaxPrice != 16_000_000 || tour.Price != 8_000_000 {
		t.Fatalf("cached pricing = %d/%d/%d", tour.MinPrice, tour.MaxPrice, tour.Price)
	}
	if tour.TotalPrice != 0 {
		t.Fatalf("legacy total price = %d, want 0", tour.TotalPrice)
	}

	records := box.Records()
	if len(records) != 1 || records[0].Name != "tour.price_recalculated" {
		t.Fatalf("outbox records = %+v", records)
	}
}

func TestRecalculateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	tourRepo := memory.NewTourRepository()
	detailRepo := memory.NewDetailRepository()

	seedTour(t, tourRepo, "t1")
	seedDetail(t, detailRepo, "d1", "t1", 12_000_000, 10, nil, testNow.Add(24*time.Hour))

	r := &Recalculator{
		Tours:   tourRepo,
		Details: detailRepo,
		Clock:   func() time.Time { return testNow },
	}

	first, err := r.Recalculate(ctx, "t1")
	if err != nil {
		t.Fatalf("first Recalculate: %v", err)
	}
	second, err := r.Recalculate(ctx, "t1")
	if err != nil {
		t.Fatalf("second Recalculate: %v", err)
	}
	if first != second {
		t.Fatalf("recompute diverged: %+v then %+v", first, second)
	}
}

func TestRecalculateWithoutBlocksZeroes(t *testing.T) {
	ctx := context.Background()
	tourRepo := memory.NewTourRepository()
	detailRepo := memory.NewDetailRepository()

	tour := seedTour(t, tourRepo, "t1")
	tour.MinPrice, tour.MaxPrice, tour.Price = 1, 2, 3
	if err := tourRepo.Save(ctx, tour); err != nil {
		t.Fatalf("Save: %v", err)
	}

	r := &Recalculator{Tours: tourRepo, Details: detailRepo, Clock: func() time.Time { return testNow }}

	summary, err := r.Recalculate(ctx, "t1")
	if err != nil {
		t.Fatalf("Recalculate: %v", err)
	}
	if summary.MinPrice != 0 || summary.MaxPrice != 0 || summary.DisplayPrice != 0 {
		t.Fatalf("summary = %+v, want zeroes", summary)
	}
}

func TestRecalculateBestEffortSwallowsErrors(t *testing.T) {
	r := &Recalculator{
		Tours:   memory.NewTourRepository(),
		Details: memory.NewDetailRepository(),
		Clock:   func() time.Time { return testNow },
	}
	// Unknown tour: must log and return, never panic.
	r.RecalculateBestEffort(context.Background(), "missing")
}

