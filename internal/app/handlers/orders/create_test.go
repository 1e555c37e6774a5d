package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"tourline/internal/app/dto"
	domainorders "tourline/internal/domain/orders"
	domaintours "tourline/internal/domain/tours"
	"tourline/internal/infra/storage/memory"
)

var testNow = time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

type fixture struct {
	service *Service
	tours   *memory.TourRepository
	details *memory.DetailRepository
	orders  *memory.OrderRepository
	box     *memory.Outbox
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		tours:   memory.NewTourRepository(),
		details: memory.NewDetailRepository(),
		orders:  memory.NewOrderRepository(),
		box:     memory.NewOutbox(),
	}
	f.service = &Service{
		Orders:      f.orders,
		Tours:       f.tours,
		Details:     f.details,
		Idempotency: memory.NewIdempotencyStore(),
		Box:         f.box,
		Clock:       func() time.Time { return testNow },
	}
	return f
}

func (f *fixture) seedTour(t *testing.T, id string, status bool) {
	t.Helper()
	tour, err := domaintours.NewTour(domaintours.CreateTourParams{
		ID:     domaintours.TourID(id),
		Title:  "Island escape",
		Code:   "IE-07",
		Status: status,
		Now:    testNow,
	})
	if err != nil {
		t.Fatalf("NewTour: %v", err)
	}
	tour.ClearEvents()
	if err := f.tours.Save(context.Background(), tour); err != nil {
		t.Fatalf("Save tour: %v", err)
	}
}

func (f *fixture) seedDetail(t *testing.T, id, tourID string, params domaintours.DetailParams) {
	t.Helper()
	params.ID = domaintours.DetailID(id)
	params.TourID = domaintours.TourID(tourID)
	if params.DayStart.IsZero() {
		params.DayStart = testNow.Add(24 * time.Hour)
	}
	if params.DayReturn.IsZero() {
		params.DayReturn = params.DayStart.Add(72 * time.Hour)
	}
	params.Now = testNow
	detail, err := domaintours.NewDetail(params)
	if err != nil {
		t.Fatalf("NewDetail: %v", err)
	}
	if err := f.details.Save(context.Background(), detail); err != nil {
		t.Fatalf("Save detail: %v", err)
	}
}

func validInput() CreateInput {
	return CreateInput{
		TourID:      "t1",
		DepartureID: "d1",
		Adults:      2,
		Contact:     dto.OrderContact{Name: "Lan Pham", Phone: "0901234567"},
	}
}

func TestCreateComputesTotalServerSide(t *testing.T) {
	f := newFixture(t)
	f.seedTour(t, "t1", true)
	f.seedDetail(t, "d1", "t1", domaintours.DetailParams{
		AdultPrice:      20_000_000,
		SingleRoomPrice: 500_000,
		Discount:        20,
		Stock:           intPtr(5),
	})

	in := validInput()
	in.SingleRooms = 1
	got, err := f.service.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.Total != 32_500_000 {
		t.Fatalf("total = %d, want 32500000", got.Total)
	}
	if got.State != string(domainorders.OrderPending) {
		t.Fatalf("state = %s", got.State)
	}

	detail, err := f.details.ByID(context.Background(), "d1")
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if detail.Stock == nil || *detail.Stock != 3 {
		t.Fatalf("stock after booking = %v, want 3", detail.Stock)
	}

	records := f.box.Records()
	if len(records) != 1 || records[0].Name != "order.created" {
		t.Fatalf("outbox records = %+v", records)
	}
}

func TestCreateSkipsZeroPricedCategories(t *testing.T) {
	f := newFixture(t)
	f.seedTour(t, "t1", true)
	f.seedDetail(t, "d1", "t1", domaintours.DetailParams{
		AdultPrice: 10_000_000,
		ChildPrice: 0,
		Stock:      intPtr(10),
	})

	in := validInput()
	in.Adults = 1
	in.Child = 2
	got, err := f.service.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.Total != 10_000_000 {
		t.Fatalf("total = %d, zero-priced children should not charge", got.Total)
	}
}

func TestCreateRejectsSoldOut(t *testing.T) {
	f := newFixture(t)
	f.seedTour(t, "t1", true)
	f.seedDetail(t, "d1", "t1", domaintours.DetailParams{AdultPrice: 5_000_000, Stock: intPtr(1)})

	in := validInput()
	in.Adults = 2
	_, err := f.service.Create(context.Background(), in)
	if !errors.Is(err, domaintours.ErrOutOfStock) {
		t.Fatalf("err = %v, want ErrOutOfStock", err)
	}

	orders, _ := f.orders.List(context.Background(), 10, 0)
	if len(orders) != 0 {
		t.Fatalf("order persisted despite sold-out departure")
	}
}

func TestCreateBabiesTakeNoSeats(t *testing.T) {
	f := newFixture(t)
	f.seedTour(t, "t1", true)
	f.seedDetail(t, "d1", "t1", domaintours.DetailParams{AdultPrice: 5_000_000, Stock: intPtr(2)})

	in := validInput()
	in.Adults = 2
	in.Baby = 3
	if _, err := f.service.Create(context.Background(), in); err != nil {
		t.Fatalf("Create: %v", err)
	}
	detail, _ := f.details.ByID(context.Background(), "d1")
	if detail.Stock == nil || *detail.Stock != 0 {
		t.Fatalf("stock = %v, want 0", detail.Stock)
	}
}

func TestCreateRejectsInactiveTour(t *testing.T) {
	f := newFixture(t)
	f.seedTour(t, "t1", false)
	f.seedDetail(t, "d1", "t1", domaintours.DetailParams{AdultPrice: 5_000_000})

	_, err := f.service.Create(context.Background(), validInput())
	if !errors.Is(err, ErrTourUnavailable) {
		t.Fatalf("err = %v, want ErrTourUnavailable", err)
	}
}

func TestCreateRejectsForeignDeparture(t *testing.T) {
	f := newFixture(t)
	f.seedTour(t, "t1", true)
	f.seedTour(t, "t2", true)
	f.seedDetail(t, "d1", "t2", domaintours.DetailParams{AdultPrice: 5_000_000})

	_, err := f.service.Create(context.Background(), validInput())
	if !errors.Is(err, ErrDetailMismatch) {
		t.Fatalf("err = %v, want ErrDetailMismatch", err)
	}
}

func TestCreateRejectsPastDeparture(t *testing.T) {
	f := newFixture(t)
	f.seedTour(t, "t1", true)
	f.seedDetail(t, "d1", "t1", domaintours.DetailParams{
		AdultPrice: 5_000_000,
		DayStart:   testNow.Add(-48 * time.Hour),
		DayReturn:  testNow.Add(24 * time.Hour),
	})

	_, err := f.service.Create(context.Background(), validInput())
	if !errors.Is(err, ErrDepartureGone) {
		t.Fatalf("err = %v, want ErrDepartureGone", err)
	}
}

func TestCreateReplaysIdempotencyKey(t *testing.T) {
	f := newFixture(t)
	f.seedTour(t, "t1", true)
	f.seedDetail(t, "d1", "t1", domaintours.DetailParams{AdultPrice: 5_000_000, Stock: intPtr(4)})

	in := validInput()
	in.IdempotencyKey = "req-1"
	first, err := f.service.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("first Create: %v", err)
	}
	second, err := f.service.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("replay Create: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("replay returned a different order: %s vs %s", first.ID, second.ID)
	}

	detail, _ := f.details.ByID(context.Background(), "d1")
	if detail.Stock == nil || *detail.Stock != 2 {
		t.Fatalf("stock = %v, replay must not consume seats again", detail.Stock)
	}
}

type flakyOrderRepo struct {
	domainorders.Repository
	failures int
}

func (r *flakyOrderRepo) Save(ctx context.Context, order *domainorders.Order) error {
	if r.failures > 0 {
		r.failures--
		return errors.New("write timeout")
	}
	return r.Repository.Save(ctx, order)
}

func TestCreateInvalidContactLeavesStock(t *testing.T) {
	f := newFixture(t)
	f.seedTour(t, "t1", true)
	f.seedDetail(t, "d1", "t1", domaintours.DetailParams{AdultPrice: 5_000_000, Stock: intPtr(5)})

	in := validInput()
	in.Contact.Name = ""
	_, err := f.service.Create(context.Background(), in)
	if !errors.Is(err, domainorders.ErrContactMissing) {
		t.Fatalf("err = %v, want ErrContactMissing", err)
	}

	detail, _ := f.details.ByID(context.Background(), "d1")
	if detail.Stock == nil || *detail.Stock != 5 {
		t.Fatalf("stock = %v, rejected booking must not consume seats", detail.Stock)
	}
	if records := f.box.Records(); len(records) != 0 {
		t.Fatalf("outbox records = %+v, want none", records)
	}
}

func TestCreateRetryAfterTransientFailureSucceeds(t *testing.T) {
	f := newFixture(t)
	f.seedTour(t, "t1", true)
	f.seedDetail(t, "d1", "t1", domaintours.DetailParams{AdultPrice: 5_000_000, Stock: intPtr(5)})
	f.service.Orders = &flakyOrderRepo{Repository: f.orders, failures: 1}

	in := validInput()
	in.IdempotencyKey = "req-9"
	if _, err := f.service.Create(context.Background(), in); err == nil {
		t.Fatal("expected the first attempt to fail")
	}

	detail, _ := f.details.ByID(context.Background(), "d1")
	if detail.Stock == nil || *detail.Stock != 5 {
		t.Fatalf("stock after failed save = %v, want 5", detail.Stock)
	}

	got, err := f.service.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("retry with the same key: %v", err)
	}
	if got.State != string(domainorders.OrderPending) {
		t.Fatalf("state = %s", got.State)
	}

	detail, _ = f.details.ByID(context.Background(), "d1")
	if detail.Stock == nil || *detail.Stock != 3 {
		t.Fatalf("stock after retry = %v, want 3", detail.Stock)
	}
	persisted, _ := f.orders.List(context.Background(), 10, 0)
	if len(persisted) != 1 {
		t.Fatalf("orders persisted = %d, want 1", len(persisted))
	}
}

func TestCancelRestoresSeats(t *testing.T) {
	f := newFixture(t)
	f.seedTour(t, "t1", true)
	f.seedDetail(t, "d1", "t1", domaintours.DetailParams{AdultPrice: 5_000_000, Stock: intPtr(5)})

	created, err := f.service.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	detail, _ := f.details.ByID(context.Background(), "d1")
	if detail.Stock == nil || *detail.Stock != 3 {
		t.Fatalf("stock after booking = %v, want 3", detail.Stock)
	}

	if _, err := f.service.Cancel(context.Background(), domainorders.OrderID(created.ID), "guest request"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	detail, _ = f.details.ByID(context.Background(), "d1")
	if detail.Stock == nil || *detail.Stock != 5 {
		t.Fatalf("stock after cancel = %v, want 5", detail.Stock)
	}

	if _, err := f.service.Cancel(context.Background(), domainorders.OrderID(created.ID), "again"); err != nil {
		t.Fatalf("second Cancel: %v", err)
	}
	detail, _ = f.details.ByID(context.Background(), "d1")
	if detail.Stock == nil || *detail.Stock != 5 {
		t.Fatalf("stock after double cancel = %v, seats must release once", detail.Stock)
	}
}

func TestCreateRateLimited(t *testing.T) {
	f := newFixture(t)
	f.seedTour(t, "t1", true)
	f.seedDetail(t, "d1", "t1", domaintours.DetailParams{AdultPrice: 5_000_000})
	f.service.Limiter = memory.NewAttemptLimiter(2, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := f.service.Create(context.Background(), validInput()); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}
	_, err := f.service.Create(context.Background(), validInput())
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}
}

func TestConfirmAndCancelTransitions(t *testing.T) {
	f := newFixture(t)
	f.seedTour(t, "t1", true)
	f.seedDetail(t, "d1", "t1", domaintours.DetailParams{AdultPrice: 5_000_000})

	created, err := f.service.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	confirmed, err := f.service.Confirm(context.Background(), domainorders.OrderID(created.ID))
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if confirmed.State != string(domainorders.OrderConfirmed) {
		t.Fatalf("state = %s", confirmed.State)
	}

	if _, err := f.service.Confirm(context.Background(), domainorders.OrderID(created.ID)); !errors.Is(err, domainorders.ErrInvalidState) {
		t.Fatalf("double confirm err = %v, want ErrInvalidState", err)
	}

	cancelled, err := f.service.Cancel(context.Background(), domainorders.OrderID(created.ID), "guest request")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.State != string(domainorders.OrderCancelled) {
		t.Fatalf("state = %s", cancelled.State)
	}
}
