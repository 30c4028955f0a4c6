// Package listing serves the read-only views of the catalog and of a guest's account.
package listing

import (
	"context"
	"sort"

	"hotel-booking-backend/internal/model"
	"hotel-booking-backend/internal/store"
)

// RoomsPageSize is the number of rooms per catalog page.
const RoomsPageSize = 10

type IndexView struct {
	NumHotels int64 `json:"num_hotels"`
	NumRooms  int64 `json:"num_rooms"`
	NumKinds  int64 `json:"num_kinds"`
}

// AccountView is a guest with their bookings, newest first, each with its room loaded.
type AccountView struct {
	Guest    *model.Guest
	Bookings []model.Booking
}

type Facade struct {
	catalog store.CatalogStore
	guests  store.GuestStore
}

func NewFacade(catalog store.CatalogStore, guests store.GuestStore) *Facade {
	return &Facade{catalog: catalog, guests: guests}
}

func (f *Facade) Index(ctx context.Context) (IndexView, error) {
	var view IndexView
	var err error
	if view.NumHotels, err = f.catalog.CountHotels(ctx); err != nil {
		return view, err
	}
	if view.NumRooms, err = f.catalog.CountRooms(ctx); err != nil {
		return view, err
	}
	if view.NumKinds, err = f.catalog.CountKinds(ctx); err != nil {
		return view, err
	}
	return view, nil
}

// Rooms returns a catalog page. Pages start at 1; a page past the end is NotFound.
func (f *Facade) Rooms(ctx context.Context, page int) (store.Page[model.Room], error) {
	return f.catalog.ListRooms(ctx, page, RoomsPageSize)
}

func (f *Facade) Room(ctx context.Context, slug string) (*model.Room, error) {
	return f.catalog.GetRoomBySlug(ctx, slug)
}

func (f *Facade) Hotels(ctx context.Context) ([]model.Hotel, error) {
	return f.catalog.ListHotels(ctx)
}

func (f *Facade) Account(ctx context.Context, guestID int64) (AccountView, error) {
	guest, err := f.guests.GetGuestWithBookings(ctx, guestID)
	if err != nil {
		return AccountView{}, err
	}

	bookings := guest.Bookings
	sort.SliceStable(bookings, func(i, j int) bool {
		if !bookings[i].CreatedAt.Equal(bookings[j].CreatedAt) {
			return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
		}
		return bookings[i].ID > bookings[j].ID
	})
	return AccountView{Guest: guest, Bookings: bookings}, nil
}
