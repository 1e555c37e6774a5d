package tours

import (
	"context"
	"net/url"
	"testing"
	"time"

	"tourline/internal/domain/pricing"
	domaintours "tourline/internal/domain/tours"
	mongodb "tourline/internal/infra/db/mongo"
	"tourline/internal/infra/storage/memory"
)

func newCatalog(tours *memory.TourRepository, details *memory.DetailRepository) *CatalogService {
	return &CatalogService{
		Tours:   tours,
		Details: details,
		Planner: mongodb.NewPlanner(mongodb.DefaultPriceBands()),
		Clock:   func() time.Time { return testNow },
	}
}

func TestListOverlaysLivePrices(t *testing.T) {
	ctx := context.Background()
	tourRepo := memory.NewTourRepository()
	detailRepo := memory.NewDetailRepository()

	tour := seedTour(t, tourRepo, "t1")
	tour.ApplyPricing(pricing.Summary{MinPrice: 1, MaxPrice: 2, DisplayPrice: 1}, testNow)
	if err := tourRepo.Save(ctx, tour); err != nil {
		t.Fatalf("Save: %v", err)
	}
	seedDetail(t, detailRepo, "d1", "t1", 10_000_000, 10, intPtr(4), testNow.Add(24*time.Hour))

	catalog, err := newCatalog(tourRepo, detailRepo).List(ctx, url.Values{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(catalog.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(catalog.Items))
	}
	card := catalog.Items[0]
	if card.MinPrice != 9_000_000 || card.MaxPrice != 9_000_000 || card.Price != 9_000_000 {
		t.Fatalf("card prices = %d/%d/%d, want 9000000", card.MinPrice, card.MaxPrice, card.Price)
	}
}

func TestListFallsBackWhenSoldOut(t *testing.T) {
	ctx := context.Background()
	tourRepo := memory.NewTourRepository()
	detailRepo := memory.NewDetailRepository()

	seedTour(t, tourRepo, "t1")
	seedDetail(t, detailRepo, "d1", "t1", 10_000_000, 0, intPtr(0), testNow.Add(24*time.Hour))

	catalog, err := newCatalog(tourRepo, detailRepo).List(ctx, url.Values{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(catalog.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(catalog.Items))
	}
	if catalog.Items[0].MinPrice != 10_000_000 {
		t.Fatalf("min price = %d, want the all-blocks fallback", catalog.Items[0].MinPrice)
	}
}

func TestListHidesDeletedAndInactive(t *testing.T) {
	ctx := context.Background()
	tourRepo := memory.NewTourRepository()
	detailRepo := memory.NewDetailRepository()

	seedTour(t, tourRepo, "t1")
	deleted := seedTour(t, tourRepo, "t2")
	deleted.SoftDelete(testNow)
	deleted.ClearEvents()
	if err := tourRepo.Save(ctx, deleted); err != nil {
		t.Fatalf("Save: %v", err)
	}

	catalog, err := newCatalog(tourRepo, detailRepo).List(ctx, url.Values{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(catalog.Items) != 1 || catalog.Items[0].ID != "t1" {
		t.Fatalf("items = %+v", catalog.Items)
	}
	if catalog.Meta.Total != 1 {
		t.Fatalf("total = %d, want 1", catalog.Meta.Total)
	}
}

func TestGetReturnsDeparturesAndBumpsViews(t *testing.T) {
	ctx := context.Background()
	tourRepo := memory.NewTourRepository()
	detailRepo := memory.NewDetailRepository()

	seedTour(t, tourRepo, "t1")
	seedDetail(t, detailRepo, "d1", "t1", 10_000_000, 10, intPtr(4), testNow.Add(24*time.Hour))
	seedDetail(t, detailRepo, "d2", "t1", 12_000_000, 0, intPtr(0), testNow.Add(48*time.Hour))

	view, err := newCatalog(tourRepo, detailRepo).Get(ctx, "t1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(view.Departures) != 2 {
		t.Fatalf("departures = %d, want 2", len(view.Departures))
	}
	if !view.Departures[0].Available || view.Departures[1].Available {
		t.Fatalf("availability = %v/%v, want true/false",
			view.Departures[0].Available, view.Departures[1].Available)
	}

	stored, err := tourRepo.ByID(ctx, "t1")
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if stored.Views != 1 {
		t.Fatalf("views = %d, want 1", stored.Views)
	}
}

func TestGetHidesSoftDeleted(t *testing.T) {
	ctx := context.Background()
	tourRepo := memory.NewTourRepository()
	detailRepo := memory.NewDetailRepository()

	tour := seedTour(t, tourRepo, "t1")
	tour.SoftDelete(testNow)
	tour.ClearEvents()
	if err := tourRepo.Save(ctx, tour); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := newCatalog(tourRepo, detailRepo).Get(ctx, "t1"); err != domaintours.ErrNotFound {
		t.Fatalf("err = %v, want %v", err, domaintours.ErrNotFound)
	}
}
