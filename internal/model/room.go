package model

import (
	"errors"
	"path"
	"time"

	"gorm.io/gorm"

	"hotel-booking-backend/internal/parse"
)

var ErrEmptySlug = errors.New("room slug cannot be derived from an empty title")

// RoomKind classifies rooms and sets a shared guest ceiling for them.
type RoomKind struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"uniqueIndex;size:256;not null" json:"title"`
	MaxGuests int       `gorm:"not null" json:"max_guests"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Room is a bookable unit belonging to one or more hotels.
type Room struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"uniqueIndex;size:256;not null" json:"title"`
	Slug        string    `gorm:"uniqueIndex;size:256;not null" json:"slug"`
	KindID      *int64    `gorm:"index" json:"kind_id,omitempty"`
	MaxGuests   int       `gorm:"not null" json:"max_guests"`
	Description string    `gorm:"size:2000;not null" json:"description"`
	Price       int64     `gorm:"not null;check:price >= 0" json:"price"`
	MainImage   string    `gorm:"size:512" json:"main_image"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`

	// Associations
	Kind     *RoomKind `gorm:"constraint:OnDelete:CASCADE" json:"kind,omitempty"`
	Hotels   []*Hotel  `gorm:"many2many:room_hotels;constraint:OnDelete:CASCADE" json:"hotels,omitempty"`
	Bookings []Booking `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeSave assigns the slug from the title when it is still empty. An existing slug is never
// regenerated, even if the title changed.
func (r *Room) BeforeSave(tx *gorm.DB) error {
	if r.Slug == "" {
		r.Slug = parse.Slug(r.Title)
	}
	if r.Slug == "" {
		return ErrEmptySlug
	}
	return nil
}

// Capacity is the maximum number of guests. A kind, when attached, is authoritative;
// otherwise the room's own value applies. Kind must be preloaded.
func (r *Room) Capacity() int {
	if r.Kind != nil && r.Kind.MaxGuests > 0 {
		return r.Kind.MaxGuests
	}
	return r.MaxGuests
}

// ImagePath stores room images under the room's slug.
func ImagePath(slug, filename string) string {
	if filename == "" {
		return ""
	}
	return path.Join(slug, path.Base(filename))
}
