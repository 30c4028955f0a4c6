// Package guest registers guests and checks their credentials.
package guest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"hotel-booking-backend/internal/apperror"
	"hotel-booking-backend/internal/form"
	"hotel-booking-backend/internal/model"
	"hotel-booking-backend/internal/store"
)

// MsgEmailTaken is the email field error for an address that is already registered.
const MsgEmailTaken = "A user with that email already exists."

const invalidLogin = "Please enter a correct email and password. Note that both fields may be case-sensitive."

// RegistrationFields is the order in which the registration form presents its fields.
var RegistrationFields = []string{"email", "first_name", "last_name", "password1", "password2"}

// RegistrationForm is the payload of a sign-up request.
type RegistrationForm struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password1 string `json:"password1" validate:"required"`
	Password2 string `json:"password2" validate:"required"`
}

// Service owns guest accounts.
type Service struct {
	guests store.GuestStore
	now    func() time.Time
	cost   int
	log    *logrus.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithBcryptCost sets the hashing cost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

func WithLogger(log *logrus.Logger) Option {
	return func(s *Service) { s.log = log }
}

func NewService(guests store.GuestStore, opts ...Option) *Service {
	s := &Service{
		guests: guests,
		now:    time.Now,
		cost:   bcrypt.DefaultCost,
		log:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizeEmail lower-cases the domain part of an address.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + strings.ToLower(email[at:])
}

// Register validates f and creates an active guest. All problems are reported together in a
// *apperror.ValidationError; a taken email is reported on the email field.
func (s *Service) Register(ctx context.Context, f RegistrationForm) (*model.Guest, error) {
	f.Email = NormalizeEmail(f.Email)
	verrs := form.Validate(f)

	if f.Password1 != "" && f.Password2 != "" {
		if f.Password1 != f.Password2 {
			verrs.Add("password2", "The two password fields didn't match.")
		} else {
			for _, msg := range CheckPassword(f.Password2,
				Attribute{Name: "email address", Value: f.Email},
				Attribute{Name: "first name", Value: f.FirstName},
				Attribute{Name: "last name", Value: f.LastName},
			) {
				verrs.Add("password2", msg)
			}
		}
	}
	if err := verrs.Err(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(f.Password1), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	guest := &model.Guest{
		Email:        f.Email,
		FirstName:    f.FirstName,
		LastName:     f.LastName,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.guests.CreateGuest(ctx, guest); err != nil {
		if errors.Is(err, store.ErrUniqueViolation) {
			verrs.Add("email", MsgEmailTaken)
			return nil, verrs
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"guest_id": guest.ID}).Info("Guest registered")
	return guest, nil
}

// Authenticate checks an email and password pair. Any failure, including an inactive account,
// is a non-field validation error with the same message.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*model.Guest, error) {
	invalid := func() error {
		verrs := apperror.NewValidationError()
		verrs.AddNonField(invalidLogin)
		return verrs
	}

	guest, err := s.guests.GetGuestByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, invalid()
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(guest.PasswordHash), []byte(password)); err != nil {
		return nil, invalid()
	}
	if !guest.IsActive {
		return nil, invalid()
	}

	now := s.now().UTC()
	if err := s.guests.TouchLastLogin(ctx, guest.ID, now); err != nil {
		return nil, err
	}
	guest.LastLogin = &now
	return guest, nil
}
