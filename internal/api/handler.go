package api

import (
	"github.com/SherClockHolmes/webpush-go"
	"github.com/sirupsen/logrus"

	"hotel-booking-backend/internal/auth"
	"hotel-booking-backend/internal/booking"
	"hotel-booking-backend/internal/guest"
	"hotel-booking-backend/internal/listing"
	"hotel-booking-backend/internal/mw"
	"hotel-booking-backend/internal/store"
)

// Notifier queues a booking confirmation. Implementations must not block.
type Notifier interface {
	Dispatch(bookingID int64) bool
}

// Deps are the services the handlers call into. Notifier, WebPush and Pages may be nil; the
// router then builds its own page cache.
type Deps struct {
	Listing       *listing.Facade
	Guests        *guest.Service
	Bookings      *booking.Engine
	Auth          *auth.Manager
	Subscriptions store.SubscriptionStore
	Notifier      Notifier
	WebPush       *webpush.Options
	Pages         *mw.ResponseCache
	Log           *logrus.Logger
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	listing       *listing.Facade
	guests        *guest.Service
	bookings      *booking.Engine
	auth          *auth.Manager
	subscriptions store.SubscriptionStore
	notifier      Notifier
	webpush       *webpush.Options
	pages         *mw.ResponseCache
	log           *logrus.Logger
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{
		listing:       d.Listing,
		guests:        d.Guests,
		bookings:      d.Bookings,
		auth:          d.Auth,
		subscriptions: d.Subscriptions,
		notifier:      d.Notifier,
		webpush:       d.WebPush,
		pages:         d.Pages,
		log:           log,
	}
}
