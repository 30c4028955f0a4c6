package store

import (
	"context"
	"fmt"
	"net/http"

	"gorm.io/gorm/clause"

	"hotel-booking-backend/internal/apperror"
	"hotel-booking-backend/internal/model"
)

// ErrSubscriptionTaken is returned when an endpoint is already registered by another guest.
var ErrSubscriptionTaken = apperror.New(http.StatusConflict, "This push endpoint is registered to another account.")

// SaveSubscription creates a push subscription or refreshes the keys of the caller's own one.
// An endpoint owned by another guest is left untouched and yields ErrSubscriptionTaken.
func (s *gormStore) SaveSubscription(ctx context.Context, sub *model.PushSubscription) error {
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Eq{Column: clause.Column{Table: "push_subscriptions", Name: "guest_id"}, Value: sub.GuestID},
		}},
	}).Omit(clause.Associations).Create(sub)
	if result.Error != nil {
		return translate(result.Error, "save subscription")
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("subscription %q: %w", sub.Endpoint, ErrSubscriptionTaken)
	}
	return nil
}

// DeleteSubscription removes a guest's subscription. Another guest's endpoint is NotFound.
func (s *gormStore) DeleteSubscription(ctx context.Context, guestID int64, endpoint string) error {
	result := s.db.WithContext(ctx).
		Where("guest_id = ? AND endpoint = ?", guestID, endpoint).
		Delete(&model.PushSubscription{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("subscription: %w", apperror.ErrNotFound)
	}
	return nil
}

// DeleteSubscriptionByEndpoint drops an endpoint the push service reported as gone.
func (s *gormStore) DeleteSubscriptionByEndpoint(ctx context.Context, endpoint string) error {
	if err := s.db.WithContext(ctx).Where("endpoint = ?", endpoint).Delete(&model.PushSubscription{}).Error; err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	return nil
}

func (s *gormStore) ListSubscriptions(ctx context.Context, guestID int64) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	if err := s.db.WithContext(ctx).Where("guest_id = ?", guestID).Order("created_at ASC").Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions for guest %d: %w", guestID, err)
	}
	return subs, nil
}
