package tours

import (
	"context"
	"testing"
	"time"

	domaintours "tourline/internal/domain/tours"
	"tourline/internal/infra/storage/memory"
)

func newAdmin(tours *memory.TourRepository, details *memory.DetailRepository) *AdminService {
	clock := func() time.Time { return testNow }
	return &AdminService{
		Tours:   tours,
		Details: details,
		Recalculator: &Recalculator{
			Tours:   tours,
			Details: details,
			Clock:   clock,
		},
		Clock: clock,
	}
}

func TestCreateDetailRefreshesPricing(t *testing.T) {
	ctx := context.Background()
	tourRepo := memory.NewTourRepository()
	detailRepo := memory.NewDetailRepository()
	admin := newAdmin(tourRepo, detailRepo)

	seedTour(t, tourRepo, "t1")

	result, err := admin.CreateDetail(ctx, "t1", DetailInput{
		AdultPrice: 10_000_000,
		Discount:   10,
		Stock:      intPtr(5),
		DayStart:   testNow.Add(24 * time.Hour),
		DayReturn:  testNow.Add(96 * time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateDetail: %v", err)
	}
	if result.Pricing == nil {
		t.Fatal("pricing summary missing from response")
	}
	if result.Pricing.MinPrice != 9_000_000 || result.Pricing.Price != 9_000_000 {
		t.Fatalf("pricing = %+v", result.Pricing)
	}

	stored, err := tourRepo.ByID(ctx, "t1")
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if stored.MinPrice != 9_000_000 || stored.TotalPrice != 0 {
		t.Fatalf("cached pricing = min %d total %d", stored.MinPrice, stored.TotalPrice)
	}
}

func TestCreateDetailUnknownTour(t *testing.T) {
	admin := newAdmin(memory.NewTourRepository(), memory.NewDetailRepository())
	_, err := admin.CreateDetail(context.Background(), "missing", DetailInput{
		DayStart:  testNow,
		DayReturn: testNow.Add(24 * time.Hour),
	})
	if err != domaintours.ErrNotFound {
		t.Fatalf("err = %v, want %v", err, domaintours.ErrNotFound)
	}
}

func TestSoftDeleteAndRestore(t *testing.T) {
	ctx := context.Background()
	tourRepo := memory.NewTourRepository()
	detailRepo := memory.NewDetailRepository()
	admin := newAdmin(tourRepo, detailRepo)

	seedTour(t, tourRepo, "t1")
	seedDetail(t, detailRepo, "d1", "t1", 8_000_000, 0, intPtr(3), testNow.Add(24*time.Hour))

	if err := admin.DeleteTour(ctx, "t1"); err != nil {
		t.Fatalf("DeleteTour: %v", err)
	}
	stored, err := tourRepo.ByID(ctx, "t1")
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if !stored.Deleted || stored.Status {
		t.Fatalf("after delete: deleted=%v status=%v", stored.Deleted, stored.Status)
	}

	blocks, err := detailRepo.ByTour(ctx, "t1")
	if err != nil || len(blocks) != 1 {
		t.Fatalf("blocks after soft delete = %d (%v), want 1", len(blocks), err)
	}

	card, err := admin.RestoreTour(ctx, "t1")
	if err != nil {
		t.Fatalf("RestoreTour: %v", err)
	}
	if card.MinPrice != 8_000_000 {
		t.Fatalf("restored min price = %d, want 8000000", card.MinPrice)
	}
}

func TestPurgeCascadesToBlocks(t *testing.T) {
	ctx := context.Background()
	tourRepo := memory.NewTourRepository()
	detailRepo := memory.NewDetailRepository()
	admin := newAdmin(tourRepo, detailRepo)

	seedTour(t, tourRepo, "t1")
	seedDetail(t, detailRepo, "d1", "t1", 8_000_000, 0, intPtr(3), testNow.Add(24*time.Hour))
	seedDetail(t, detailRepo, "d2", "t1", 9_000_000, 0, nil, testNow.Add(48*time.Hour))

	if err := admin.PurgeTour(ctx, "t1"); err != nil {
		t.Fatalf("PurgeTour: %v", err)
	}
	if _, err := tourRepo.ByID(ctx, "t1"); err != domaintours.ErrNotFound {
		t.Fatalf("tour err = %v, want %v", err, domaintours.ErrNotFound)
	}
	blocks, err := detailRepo.ByTour(ctx, "t1")
	if err != nil {
		t.Fatalf("ByTour: %v", err)
	}
	if len(blocks) != 0 {
		t.Fatalf("blocks after purge = %d, want 0", len(blocks))
	}
}
