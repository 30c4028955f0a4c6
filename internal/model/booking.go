package model

import (
	"time"

	"gorm.io/datatypes"
)

// Booking is a reservation of one room by one guest for a date range.
// (room_id, check_in_date, check_out_date) is unique; overlapping ranges are not detected.
type Booking struct {
	ID           int64          `gorm:"primaryKey"`
	GuestID      int64          `gorm:"index;not null"`
	RoomID       int64          `gorm:"not null;uniqueIndex:idx_booking_room_dates,priority:1"`
	CheckInDate  datatypes.Date `gorm:"not null;uniqueIndex:idx_booking_room_dates,priority:2"`
	CheckOutDate datatypes.Date `gorm:"not null;uniqueIndex:idx_booking_room_dates,priority:3"`
	GuestCount   int            `gorm:"not null;check:guest_count >= 1"`
	TotalPrice   *int64
	CreatedAt    time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`

	// Associations
	Guest *Guest `gorm:"constraint:OnDelete:CASCADE"`
	Room  *Room  `gorm:"constraint:OnDelete:CASCADE"`
}

// CheckIn returns the check-in date as a time.Time.
func (b *Booking) CheckIn() time.Time {
	return time.Time(b.CheckInDate)
}

// CheckOut returns the check-out date as a time.Time.
func (b *Booking) CheckOut() time.Time {
	return time.Time(b.CheckOutDate)
}
