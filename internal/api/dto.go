package api

import (
	"time"

	"hotel-booking-backend/internal/model"
	"hotel-booking-backend/internal/parse"
	"hotel-booking-backend/internal/store"
)

type KindResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	MaxGuests int    `json:"max_guests"`
}

type HotelResponse struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Country      string `json:"country"`
	CountryLabel string `json:"country_label"`
	City         string `json:"city"`
}

// RoomResponse is a room as shown in the catalog. Capacity is the effective guest limit.
type RoomResponse struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Kind        *KindResponse   `json:"kind"`
	Capacity    int             `json:"capacity"`
	Description string          `json:"description"`
	Price       int64           `json:"price"`
	MainImage   string          `json:"main_image,omitempty"`
	Hotels      []HotelResponse `json:"hotels,omitempty"`
}

type RoomPageResponse struct {
	Items       []RoomResponse `json:"items"`
	Page        int            `json:"page"`
	NumPages    int            `json:"num_pages"`
	Total       int64          `json:"total"`
	HasNext     bool           `json:"has_next"`
	HasPrevious bool           `json:"has_previous"`
}

type BookingResponse struct {
	ID           int64     `json:"id"`
	Room         string    `json:"room"`
	RoomSlug     string    `json:"room_slug"`
	CheckInDate  string    `json:"check_in_date"`
	CheckOutDate string    `json:"check_out_date"`
	GuestCount   int       `json:"guest_count"`
	TotalPrice   *int64    `json:"total_price"`
	CreatedAt    time.Time `json:"created_at"`
}

type GuestResponse struct {
	ID         int64      `json:"id"`
	Email      string     `json:"email"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	FullName   string     `json:"full_name"`
	DateJoined time.Time  `json:"date_joined"`
	LastLogin  *time.Time `json:"last_login"`
}

func newHotelResponse(h *model.Hotel) HotelResponse {
	return HotelResponse{
		ID:           h.ID,
		Title:        h.Title,
		Country:      string(h.Country),
		CountryLabel: h.Country.Label(),
		City:         h.City,
	}
}

func newRoomResponse(r *model.Room) RoomResponse {
	resp := RoomResponse{
		ID:          r.ID,
		Title:       r.Title,
		Slug:        r.Slug,
		Capacity:    r.Capacity(),
		Description: r.Description,
		Price:       r.Price,
		MainImage:   r.MainImage,
	}
	if r.Kind != nil {
		resp.Kind = &KindResponse{ID: r.Kind.ID, Title: r.Kind.Title, MaxGuests: r.Kind.MaxGuests}
	}
	for _, h := range r.Hotels {
		resp.Hotels = append(resp.Hotels, newHotelResponse(h))
	}
	return resp
}

func newRoomPageResponse(p store.Page[model.Room]) RoomPageResponse {
	items := make([]RoomResponse, 0, len(p.Items))
	for i := range p.Items {
		items = append(items, newRoomResponse(&p.Items[i]))
	}
	return RoomPageResponse{
		Items:       items,
		Page:        p.Number,
		NumPages:    p.NumPages(),
		Total:       p.Total,
		HasNext:     p.HasNext(),
		HasPrevious: p.HasPrevious(),
	}
}

func newBookingResponse(b *model.Booking) BookingResponse {
	resp := BookingResponse{
		ID:           b.ID,
		CheckInDate:  parse.FormatDate(b.CheckIn()),
		CheckOutDate: parse.FormatDate(b.CheckOut()),
		GuestCount:   b.GuestCount,
		TotalPrice:   b.TotalPrice,
		CreatedAt:    b.CreatedAt,
	}
	if b.Room != nil {
		resp.Room = b.Room.Title
		resp.RoomSlug = b.Room.Slug
	}
	return resp
}

func newGuestResponse(g *model.Guest) GuestResponse {
	return GuestResponse{
		ID:         g.ID,
		Email:      g.Email,
		FirstName:  g.FirstName,
		LastName:   g.LastName,
		FullName:   g.FullName(),
		DateJoined: g.DateJoined,
		LastLogin:  g.LastLogin,
	}
}
