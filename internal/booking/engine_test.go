package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hotel-booking-backend/config"
	"hotel-booking-backend/internal/apperror"
	"hotel-booking-backend/internal/db"
	"hotel-booking-backend/internal/model"
	"hotel-booking-backend/internal/store"
)

var today = time.Date(2025, 5, 1, 15, 0, 0, 0, time.UTC)

func clock() time.Time { return today }

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

type fixture struct {
	engine *Engine
	store  store.Store
	guest  *model.Guest
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gormDB, err := db.Init(&config.DatabaseConfig{Driver: "sqlite", DSN: "file::memory:", LogLevel: "silent"})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := gormDB.DB()
		sqlDB.Close()
	})

	s := store.NewGormStore(gormDB)
	ctx := context.Background()
	require.NoError(t, s.UpsertCatalog(ctx, store.CatalogFeed{
		Hotels: []store.HotelItem{{Title: "Pacific Shore", Country: "USA", City: "San Diego"}},
		Kinds:  []store.KindItem{{Title: "Standard", MaxGuests: 2}},
		Rooms: []store.RoomItem{
			{Title: "Ocean View", Kind: "Standard", MaxGuests: 5, Price: 100, Hotels: []string{"Pacific Shore"}},
			{Title: "Garden Loft", MaxGuests: 3, Price: 80},
		},
	}))

	guest := &model.Guest{Email: "ann@example.com", FirstName: "Ann", LastName: "Lee", PasswordHash: "x", IsActive: true}
	require.NoError(t, s.CreateGuest(ctx, guest))

	return &fixture{engine: NewEngine(s, s, s, WithClock(clock)), store: s, guest: guest}
}

func validationFields(t *testing.T, err error) map[string][]string {
	t.Helper()
	var verrs *apperror.ValidationError
	require.ErrorAs(t, err, &verrs)
	return verrs.Fields
}

func TestCreateBooking_OceanViewScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := Request{CheckInDate: day("2025-06-01"), CheckOutDate: day("2025-06-04"), GuestCount: 3}

	_, err := f.engine.CreateBooking(ctx, f.guest.ID, "ocean-view", req)
	assert.Equal(t, map[string][]string{"guest_count": {"max is 2"}}, validationFields(t, err))

	req.GuestCount = 2
	b, err := f.engine.CreateBooking(ctx, f.guest.ID, "ocean-view", req)
	require.NoError(t, err)
	assert.NotZero(t, b.ID)
	require.NotNil(t, b.TotalPrice)
	assert.Equal(t, int64(300), *b.TotalPrice)
	assert.Equal(t, "ocean-view", b.Room.Slug)
	assert.False(t, b.CreatedAt.IsZero())

	_, err = f.engine.CreateBooking(ctx, f.guest.ID, "ocean-view", req)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	req.CheckOutDate = day("2025-06-05")
	_, err = f.engine.CreateBooking(ctx, f.guest.ID, "ocean-view", req)
	assert.NoError(t, err, "a different check-out date is a different booking")
}

func TestCreateBooking_ReversedDates(t *testing.T) {
	f := newFixture(t)
	req := Request{CheckInDate: day("2025-06-10"), CheckOutDate: day("2025-06-05"), GuestCount: 1}

	_, err := f.engine.CreateBooking(context.Background(), f.guest.ID, "ocean-view", req)
	assert.Equal(t, map[string][]string{
		apperror.NonFieldErrors: {msgCheckOutBeforeCheckIn},
	}, validationFields(t, err))
}

func TestCreateBooking_SameDayIsRejected(t *testing.T) {
	f := newFixture(t)
	req := Request{CheckInDate: day("2025-06-10"), CheckOutDate: day("2025-06-10"), GuestCount: 1}

	_, err := f.engine.CreateBooking(context.Background(), f.guest.ID, "ocean-view", req)
	assert.Equal(t, []string{msgCheckOutBeforeCheckIn}, validationFields(t, err)[apperror.NonFieldErrors])
}

func TestCreateBooking_PastCheckIn(t *testing.T) {
	f := newFixture(t)
	req := Request{CheckInDate: day("2025-04-30"), CheckOutDate: day("2025-05-03"), GuestCount: 1}

	_, err := f.engine.CreateBooking(context.Background(), f.guest.ID, "ocean-view", req)
	assert.Equal(t, []string{msgCheckInInPast}, validationFields(t, err)[apperror.NonFieldErrors])

	req.CheckInDate = day("2025-05-01")
	_, err = f.engine.CreateBooking(context.Background(), f.guest.ID, "ocean-view", req)
	assert.NoError(t, err, "today is a valid check-in date")
}

func TestCreateBooking_CollectsAllErrors(t *testing.T) {
	f := newFixture(t)
	req := Request{CheckInDate: day("2025-04-20"), CheckOutDate: day("2025-04-10"), GuestCount: 4}

	_, err := f.engine.CreateBooking(context.Background(), f.guest.ID, "garden-loft", req)
	assert.Equal(t, map[string][]string{
		"guest_count":           {"max is 3"},
		apperror.NonFieldErrors: {msgCheckOutBeforeCheckIn, msgCheckInInPast},
	}, validationFields(t, err))
}

func TestCreateBooking_NotFound(t *testing.T) {
	f := newFixture(t)
	req := Request{CheckInDate: day("2025-06-01"), CheckOutDate: day("2025-06-02"), GuestCount: 1}

	_, err := f.engine.CreateBooking(context.Background(), f.guest.ID, "no-such-room", req)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = f.engine.CreateBooking(context.Background(), 999, "ocean-view", req)
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)
	assert.NotErrorIs(t, err, apperror.ErrNotFound)
}

func TestCreateBooking_MissingDates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.CreateBooking(ctx, f.guest.ID, "garden-loft", Request{GuestCount: 1})
	assert.Equal(t, map[string][]string{
		"check_in_date":  {msgDateRequired},
		"check_out_date": {msgDateRequired},
	}, validationFields(t, err))

	_, err = f.engine.CreateBooking(ctx, f.guest.ID, "garden-loft", Request{CheckOutDate: day("2025-06-01"), GuestCount: 1})
	assert.Equal(t, map[string][]string{"check_in_date": {msgDateRequired}}, validationFields(t, err))

	account, err := f.store.GetGuestWithBookings(ctx, f.guest.ID)
	require.NoError(t, err)
	assert.Empty(t, account.Bookings)
}

func TestCreateBooking_ConcurrentDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := Request{CheckInDate: day("2025-07-01"), CheckOutDate: day("2025-07-03"), GuestCount: 2}

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.engine.CreateBooking(ctx, f.guest.ID, "ocean-view", req)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var created, duplicates int
	for err := range errs {
		switch {
		case err == nil:
			created++
		case errors.Is(err, ErrDuplicate):
			duplicates++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, attempts-1, duplicates)

	account, err := f.store.GetGuestWithBookings(ctx, f.guest.ID)
	require.NoError(t, err)
	assert.Len(t, account.Bookings, 1)
}

func TestValidate_ZeroGuests(t *testing.T) {
	e := NewEngine(nil, nil, nil, WithClock(clock))
	verrs := e.Validate(&model.Room{MaxGuests: 2}, Request{CheckInDate: day("2025-06-01"), CheckOutDate: day("2025-06-02")})
	assert.Equal(t, map[string][]string{"guest_count": {msgNoGuests}}, verrs.Fields)
}

func TestQuote(t *testing.T) {
	e := NewEngine(nil, nil, nil)
	room := &model.Room{Price: 120}
	assert.Equal(t, int64(360), e.Quote(room, day("2025-06-01"), day("2025-06-04")))
	assert.Equal(t, int64(0), e.Quote(room, day("2025-06-04"), day("2025-06-01")))
}

func TestPrepare(t *testing.T) {
	f := newFixture(t)
	view, err := f.engine.Prepare(context.Background(), "ocean-view")
	require.NoError(t, err)
	assert.Equal(t, 2, view.Capacity)
	assert.Equal(t, day("2025-05-01"), view.MinDate)
}

type mockCatalog struct {
	store.CatalogStore
	mock.Mock
}

func (m *mockCatalog) GetRoomBySlug(ctx context.Context, slug string) (*model.Room, error) {
	args := m.Called(ctx, slug)
	room, _ := args.Get(0).(*model.Room)
	return room, args.Error(1)
}

type mockGuests struct {
	store.GuestStore
	mock.Mock
}

func (m *mockGuests) GetGuestByID(ctx context.Context, id int64) (*model.Guest, error) {
	args := m.Called(ctx, id)
	guest, _ := args.Get(0).(*model.Guest)
	return guest, args.Error(1)
}

type mockBookings struct {
	store.BookingStore
	mock.Mock
}

func (m *mockBookings) CreateBooking(ctx context.Context, b *model.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func TestCreateBooking_StoreInteractions(t *testing.T) {
	ctx := context.Background()
	room := &model.Room{ID: 1, Slug: "ocean-view", MaxGuests: 2, Price: 100}
	guest := &model.Guest{ID: 7}

	t.Run("invalid request writes nothing", func(t *testing.T) {
		catalog, guests, bookings := &mockCatalog{}, &mockGuests{}, &mockBookings{}
		catalog.On("GetRoomBySlug", ctx, "ocean-view").Return(room, nil)
		guests.On("GetGuestByID", ctx, int64(7)).Return(guest, nil)

		e := NewEngine(catalog, guests, bookings, WithClock(clock))
		_, err := e.CreateBooking(ctx, 7, "ocean-view", Request{CheckInDate: day("2025-06-01"), CheckOutDate: day("2025-06-02"), GuestCount: 9})
		assert.Error(t, err)
		bookings.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	})

	t.Run("unexpected store error is wrapped", func(t *testing.T) {
		catalog, guests, bookings := &mockCatalog{}, &mockGuests{}, &mockBookings{}
		catalog.On("GetRoomBySlug", ctx, "ocean-view").Return(room, nil)
		guests.On("GetGuestByID", ctx, int64(7)).Return(guest, nil)
		boom := errors.New("connection reset")
		bookings.On("CreateBooking", ctx, mock.MatchedBy(func(b *model.Booking) bool {
			return b.RoomID == 1 && b.GuestID == 7 && *b.TotalPrice == 100
		})).Return(boom)

		e := NewEngine(catalog, guests, bookings, WithClock(clock))
		_, err := e.CreateBooking(ctx, 7, "ocean-view", Request{CheckInDate: day("2025-06-01"), CheckOutDate: day("2025-06-02"), GuestCount: 2})
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrDuplicate)
		bookings.AssertExpectations(t)
	})
}
