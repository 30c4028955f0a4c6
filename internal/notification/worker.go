// Package notification tells guests about their bookings through browser push messages.
package notification

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/sirupsen/logrus"

	"hotel-booking-backend/config"
	"hotel-booking-backend/internal/model"
	"hotel-booking-backend/internal/parse"
	"hotel-booking-backend/internal/store"
)

// Sender delivers a single web push message.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real Sender backed by the webpush library.
type WebPushSender struct{}

func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Store is the data the workers read and prune.
type Store interface {
	store.BookingStore
	store.SubscriptionStore
}

// WorkerPool sends "booking confirmed" messages in the background.
type WorkerPool struct {
	size    int
	jobs    chan int64
	store   Store
	options *webpush.Options
	sender  Sender
	log     *logrus.Logger
}

type Option func(*WorkerPool)

func WithSender(sender Sender) Option {
	return func(wp *WorkerPool) { wp.sender = sender }
}

func WithLogger(log *logrus.Logger) Option {
	return func(wp *WorkerPool) { wp.log = log }
}

// OptionsFromConfig builds the VAPID options used for every message.
func OptionsFromConfig(cfg config.PushConfig) *webpush.Options {
	return &webpush.Options{
		Subscriber:      cfg.Subject,
		VAPIDPublicKey:  cfg.PublicKey,
		VAPIDPrivateKey: cfg.PrivateKey,
		TTL:             cfg.TTL,
	}
}

// NewWorkerPool creates a pool of size workers reading from a queue of queueSize jobs.
func NewWorkerPool(size, queueSize int, st Store, options *webpush.Options, opts ...Option) *WorkerPool {
	wp := &WorkerPool{
		size:    size,
		jobs:    make(chan int64, queueSize),
		store:   st,
		options: options,
		sender:  &WebPushSender{},
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(wp)
	}
	return wp
}

// Start launches the worker goroutines. They stop when ctx is cancelled.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log := wp.log.WithField("worker", id)
	log.Debug("Worker started")
	for {
		select {
		case bookingID := <-wp.jobs:
			log.WithField("booking_id", bookingID).Debug("Processing booking notification")
			wp.notifyBooking(ctx, bookingID)
		case <-ctx.Done():
			log.Debug("Worker shutting down")
			return
		}
	}
}

// Dispatch queues a booking for notification without blocking. It reports false when the queue
// is full and the job was dropped.
func (wp *WorkerPool) Dispatch(bookingID int64) bool {
	select {
	case wp.jobs <- bookingID:
		return true
	default:
		wp.log.WithField("booking_id", bookingID).Warn("Notification queue is full; dropping job")
		return false
	}
}

// Jobs exposes the queue for tests.
func (wp *WorkerPool) Jobs() chan int64 {
	return wp.jobs
}

// Message renders the text sent for a booking.
func Message(b *model.Booking) string {
	title := fmt.Sprintf("room %d", b.RoomID)
	if b.Room != nil && b.Room.Title != "" {
		title = b.Room.Title
	}
	return fmt.Sprintf("Booking confirmed: %s from %s to %s", title, parse.FormatDate(b.CheckIn()), parse.FormatDate(b.CheckOut()))
}

func (wp *WorkerPool) notifyBooking(ctx context.Context, bookingID int64) {
	log := wp.log.WithField("booking_id", bookingID)

	booking, err := wp.store.GetBooking(ctx, bookingID)
	if err != nil {
		log.WithError(err).Error("Failed to load booking")
		return
	}

	subs, err := wp.store.ListSubscriptions(ctx, booking.GuestID)
	if err != nil {
		log.WithError(err).Error("Failed to load subscriptions")
		return
	}
	if len(subs) == 0 {
		return
	}

	log.Infof("Sending %d notifications", len(subs))
	payload := []byte(Message(booking))
	for _, sub := range subs {
		wp.send(ctx, sub, payload)
	}
}

func (wp *WorkerPool) send(ctx context.Context, sub model.PushSubscription, payload []byte) {
	log := wp.log.WithField("endpoint", sub.Endpoint)
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.options)
	if err != nil {
		log.WithError(err).Error("Failed to send notification")
		return
	}
	defer resp.Body.Close()

	// The push service no longer knows the endpoint.
	if resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound {
		log.Info("Subscription expired; deleting")
		if err := wp.store.DeleteSubscriptionByEndpoint(ctx, sub.Endpoint); err != nil {
			log.WithError(err).Error("Failed to delete expired subscription")
		}
	}
}
