package notification

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"hotel-booking-backend/config"
	"hotel-booking-backend/internal/model"
	"hotel-booking-backend/internal/store"
)

// mockSender is a mock implementation of the Sender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

func response(status int) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(bytes.NewBufferString(""))}
}

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

var (
	checkIn  = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	checkOut = time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)
)

func expectBooking(mock sqlmock.Sqlmock, bookingID, guestID, roomID int64) {
	mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE "bookings"."id" = \$1 ORDER BY "bookings"."id" LIMIT \$[0-9]+`).
		WithArgs(bookingID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "guest_id", "room_id", "check_in_date", "check_out_date", "guest_count"}).
			AddRow(bookingID, guestID, roomID, checkIn, checkOut, 2))
	mock.ExpectQuery(`SELECT \* FROM "rooms" WHERE "rooms"."id" = \$1`).
		WithArgs(roomID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "slug"}).AddRow(roomID, "Ocean View", "ocean-view"))
}

func expectSubscriptions(mock sqlmock.Sqlmock, guestID int64, endpoints ...string) {
	rows := sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "guest_id", "created_at"})
	for _, e := range endpoints {
		rows.AddRow(e, "test_p256dh", "test_auth", guestID, time.Now())
	}
	mock.ExpectQuery(`SELECT \* FROM "push_subscriptions" WHERE guest_id = \$1 ORDER BY created_at ASC`).
		WithArgs(guestID).
		WillReturnRows(rows)
}

func TestWorkerPool_Dispatch(t *testing.T) {
	db, _ := newTestDB(t)
	wp := NewWorkerPool(1, 1, store.NewGormStore(db), &webpush.Options{})

	assert.True(t, wp.Dispatch(123))
	assert.False(t, wp.Dispatch(124), "a full queue drops the job")

	select {
	case job := <-wp.Jobs():
		assert.Equal(t, int64(123), job)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_WorkerLogic(t *testing.T) {
	gormDB, mock := newTestDB(t)
	wp := NewWorkerPool(1, 4, store.NewGormStore(gormDB), &webpush.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	t.Run("sends notification for one subscription", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(1)

		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				defer wg.Done()
				assert.Equal(t, "https://example.com/push", sub.Endpoint)
				assert.Equal(t, "test_p256dh", sub.Keys.P256dh)
				assert.Equal(t, "Booking confirmed: Ocean View from 2025-06-01 to 2025-06-04", string(payload))
				return response(http.StatusCreated), nil
			},
		}

		expectBooking(mock, 11, 7, 3)
		expectSubscriptions(mock, 7, "https://example.com/push")

		wp.Dispatch(11)
		wg.Wait()
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deletes expired subscription", func(t *testing.T) {
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				return response(http.StatusGone), nil
			},
		}

		expectBooking(mock, 12, 7, 3)
		expectSubscriptions(mock, 7, "https://example.com/expired")
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "push_subscriptions" WHERE endpoint = \$1`).
			WithArgs("https://example.com/expired").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		wp.Dispatch(12)
		assert.Eventually(t, func() bool { return mock.ExpectationsWereMet() == nil }, time.Second, 10*time.Millisecond)
	})

	t.Run("send errors do not stop the remaining subscriptions", func(t *testing.T) {
		var mu sync.Mutex
		var seen []string
		var wg sync.WaitGroup
		wg.Add(2)

		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				defer wg.Done()
				mu.Lock()
				seen = append(seen, sub.Endpoint)
				mu.Unlock()
				if sub.Endpoint == "https://example.com/a" {
					return nil, errors.New("network down")
				}
				return response(http.StatusCreated), nil
			},
		}

		expectBooking(mock, 13, 8, 3)
		expectSubscriptions(mock, 8, "https://example.com/a", "https://example.com/b")

		wp.Dispatch(13)
		wg.Wait()
		assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, seen)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing booking sends nothing", func(t *testing.T) {
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				t.Error("no message expected")
				return response(http.StatusCreated), nil
			},
		}

		mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE "bookings"."id" = \$1`).
			WithArgs(int64(14), 1).
			WillReturnError(gorm.ErrRecordNotFound)

		wp.Dispatch(14)
		assert.Eventually(t, func() bool { return mock.ExpectationsWereMet() == nil }, time.Second, 10*time.Millisecond)
	})
}

func TestMessage(t *testing.T) {
	b := &model.Booking{RoomID: 5, CheckInDate: datatypes.Date(checkIn), CheckOutDate: datatypes.Date(checkOut)}
	assert.Equal(t, "Booking confirmed: room 5 from 2025-06-01 to 2025-06-04", Message(b))
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(config.PushConfig{PublicKey: "pub", PrivateKey: "priv", Subject: "mailto:ops@example.com", TTL: 60})
	assert.Equal(t, "pub", opts.VAPIDPublicKey)
	assert.Equal(t, "priv", opts.VAPIDPrivateKey)
	assert.Equal(t, "mailto:ops@example.com", opts.Subscriber)
	assert.Equal(t, 60, opts.TTL)
}
