// Package booking decides whether a reservation is legal and records it.
package booking

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"hotel-booking-backend/internal/apperror"
	"hotel-booking-backend/internal/model"
	"hotel-booking-backend/internal/parse"
	"hotel-booking-backend/internal/store"
)

// ErrDuplicate is returned when the room is already booked for exactly the same dates.
var ErrDuplicate = apperror.New(http.StatusConflict, "Booking with this Room, Check-in date and Check-out date already exists.")

const (
	msgCheckOutBeforeCheckIn = "check-out date must be later than check-in date"
	msgCheckInInPast         = "check-in date cannot be in the past"
	msgNoGuests              = "at least 1 guest"
	msgDateRequired          = "This field is required."
)

// Engine validates and persists bookings.
type Engine struct {
	catalog  store.CatalogStore
	guests   store.GuestStore
	bookings store.BookingStore
	now      func() time.Time
	log      *logrus.Logger
}

type Option func(*Engine)

// WithClock sets the source of "today".
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithLogger(log *logrus.Logger) Option {
	return func(e *Engine) { e.log = log }
}

func NewEngine(catalog store.CatalogStore, guests store.GuestStore, bookings store.BookingStore, opts ...Option) *Engine {
	e := &Engine{
		catalog:  catalog,
		guests:   guests,
		bookings: bookings,
		now:      time.Now,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Today is the earliest allowed check-in date.
func (e *Engine) Today() time.Time {
	return parse.DateOf(e.now())
}

// FormView is what a client needs to render a booking form for one room.
type FormView struct {
	Room     *model.Room
	Capacity int
	MinDate  time.Time
}

// Prepare loads the booking form context for a room.
func (e *Engine) Prepare(ctx context.Context, slug string) (*FormView, error) {
	room, err := e.catalog.GetRoomBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &FormView{Room: room, Capacity: room.Capacity(), MinDate: e.Today()}, nil
}

// Validate applies the booking rules to req. Every violated rule is reported. A zero date is a
// field error on that date and the rules comparing dates are skipped. The result is never nil.
func (e *Engine) Validate(room *model.Room, req Request) *apperror.ValidationError {
	verrs := apperror.NewValidationError()

	capacity := room.Capacity()
	switch {
	case req.GuestCount < 1:
		verrs.Add("guest_count", msgNoGuests)
	case req.GuestCount > capacity:
		verrs.Add("guest_count", fmt.Sprintf("max is %d", capacity))
	}

	in, out := req.CheckInDate, req.CheckOutDate
	if in.IsZero() {
		verrs.Add("check_in_date", msgDateRequired)
	}
	if out.IsZero() {
		verrs.Add("check_out_date", msgDateRequired)
	}
	if !in.IsZero() && !out.IsZero() && !parse.DateOf(in).Before(parse.DateOf(out)) {
		verrs.AddNonField(msgCheckOutBeforeCheckIn)
	}
	if !in.IsZero() && parse.DateOf(in).Before(e.Today()) {
		verrs.AddNonField(msgCheckInInPast)
	}
	return verrs
}

// Quote is the total price of a stay: the nightly price times the number of nights.
func (e *Engine) Quote(room *model.Room, checkIn, checkOut time.Time) int64 {
	return room.Price * int64(parse.Nights(checkIn, checkOut))
}

// CreateBooking books the room identified by slug for guestID. Rule violations come back as a
// *apperror.ValidationError and nothing is written; an identical existing booking yields
// ErrDuplicate.
func (e *Engine) CreateBooking(ctx context.Context, guestID int64, slug string, req Request) (*model.Booking, error) {
	room, err := e.catalog.GetRoomBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	guest, err := e.guests.GetGuestByID(ctx, guestID)
	if errors.Is(err, apperror.ErrNotFound) {
		// The session outlived its guest.
		return nil, fmt.Errorf("guest %d: %w", guestID, apperror.ErrUnauthenticated)
	}
	if err != nil {
		return nil, err
	}

	if err := e.Validate(room, req).Err(); err != nil {
		return nil, err
	}

	in, out := parse.DateOf(req.CheckInDate), parse.DateOf(req.CheckOutDate)
	total := e.Quote(room, in, out)
	b := &model.Booking{
		GuestID:      guest.ID,
		RoomID:       room.ID,
		CheckInDate:  datatypes.Date(in),
		CheckOutDate: datatypes.Date(out),
		GuestCount:   req.GuestCount,
		TotalPrice:   &total,
	}

	if err := e.bookings.CreateBooking(ctx, b); err != nil {
		if errors.Is(err, store.ErrUniqueViolation) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	b.Room = room
	b.Guest = guest

	e.log.WithFields(logrus.Fields{
		"booking_id": b.ID,
		"guest_id":   guest.ID,
		"room":       room.Slug,
		"check_in":   parse.FormatDate(in),
		"check_out":  parse.FormatDate(out),
	}).Info("Booking created")
	return b, nil
}
