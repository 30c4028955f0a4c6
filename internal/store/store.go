package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"hotel-booking-backend/internal/model"
)

// CatalogStore reads hotels, kinds and rooms. The write methods are operator tooling.
type CatalogStore interface {
	GetRoomBySlug(ctx context.Context, slug string) (*model.Room, error)
	ListRooms(ctx context.Context, page, pageSize int) (Page[model.Room], error)
	ListHotels(ctx context.Context) ([]model.Hotel, error)
	CountHotels(ctx context.Context) (int64, error)
	CountRooms(ctx context.Context) (int64, error)
	CountKinds(ctx context.Context) (int64, error)
	SaveRoom(ctx context.Context, room *model.Room) error
	UpsertCatalog(ctx context.Context, feed CatalogFeed) error
}

// GuestStore is the guest directory.
type GuestStore interface {
	GetGuestByID(ctx context.Context, id int64) (*model.Guest, error)
	GetGuestByEmail(ctx context.Context, email string) (*model.Guest, error)
	GetGuestWithBookings(ctx context.Context, id int64) (*model.Guest, error)
	CreateGuest(ctx context.Context, guest *model.Guest) error
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}

// BookingStore persists bookings.
type BookingStore interface {
	CreateBooking(ctx context.Context, booking *model.Booking) error
	GetBooking(ctx context.Context, id int64) (*model.Booking, error)
}

// SubscriptionStore manages browser push subscriptions.
type SubscriptionStore interface {
	SaveSubscription(ctx context.Context, sub *model.PushSubscription) error
	DeleteSubscription(ctx context.Context, guestID int64, endpoint string) error
	DeleteSubscriptionByEndpoint(ctx context.Context, endpoint string) error
	ListSubscriptions(ctx context.Context, guestID int64) ([]model.PushSubscription, error)
}

// Store defines the interface for all database operations.
type Store interface {
	CatalogStore
	GuestStore
	BookingStore
	SubscriptionStore
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}
