package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"hotel-booking-backend/internal/apperror"
	"hotel-booking-backend/internal/model"
)

func (s *gormStore) GetGuestByID(ctx context.Context, id int64) (*model.Guest, error) {
	var guest model.Guest
	if err := s.db.WithContext(ctx).First(&guest, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("guest %d", id))
	}
	return &guest, nil
}

func (s *gormStore) GetGuestByEmail(ctx context.Context, email string) (*model.Guest, error) {
	var guest model.Guest
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&guest).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("guest %q", email))
	}
	return &guest, nil
}

// GetGuestWithBookings loads a guest with their bookings, newest first, and each booking's room.
func (s *gormStore) GetGuestWithBookings(ctx context.Context, id int64) (*model.Guest, error) {
	var guest model.Guest
	err := s.db.WithContext(ctx).
		Preload("Bookings", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC, id DESC")
		}).
		Preload("Bookings.Room").
		First(&guest, id).Error
	if err != nil {
		return nil, translate(err, fmt.Sprintf("guest %d", id))
	}
	return &guest, nil
}

func (s *gormStore) CreateGuest(ctx context.Context, guest *model.Guest) error {
	if err := s.db.WithContext(ctx).Create(guest).Error; err != nil {
		return translate(err, fmt.Sprintf("create guest %q", guest.Email))
	}
	return nil
}

func (s *gormStore) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	result := s.db.WithContext(ctx).Model(&model.Guest{}).Where("id = ?", id).Update("last_login", at)
	if result.Error != nil {
		return fmt.Errorf("failed to update last login for guest %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("guest %d: %w", id, apperror.ErrNotFound)
	}
	return nil
}
