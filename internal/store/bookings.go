package store

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"hotel-booking-backend/internal/model"
)

// CreateBooking inserts a booking. A second booking for the same room and dates fails with
// ErrUniqueViolation.
func (s *gormStore) CreateBooking(ctx context.Context, booking *model.Booking) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(booking).Error; err != nil {
		return translate(err, fmt.Sprintf("create booking for room %d", booking.RoomID))
	}
	return nil
}

func (s *gormStore) GetBooking(ctx context.Context, id int64) (*model.Booking, error) {
	var booking model.Booking
	if err := s.db.WithContext(ctx).Preload("Room").First(&booking, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("booking %d", id))
	}
	return &booking, nil
}
