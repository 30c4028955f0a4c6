package booking

import (
	"time"

	"hotel-booking-backend/internal/apperror"
	"hotel-booking-backend/internal/form"
	"hotel-booking-backend/internal/parse"
)

const invalidDate = "Enter a valid date."

// Request is a validated-shape booking request; the business rules are applied by the Engine.
type Request struct {
	CheckInDate  time.Time
	CheckOutDate time.Time
	GuestCount   int
}

// Form is the raw booking payload.
type Form struct {
	CheckInDate  string `json:"check_in_date" validate:"required"`
	CheckOutDate string `json:"check_out_date" validate:"required"`
	GuestCount   *int   `json:"guest_count" validate:"required"`
}

// Request converts f. Missing and malformed fields are reported in the returned error, which is
// never nil; the fields that did parse are still set on the Request.
func (f Form) Request() (Request, *apperror.ValidationError) {
	verrs := form.Validate(f)
	var req Request

	if f.CheckInDate != "" {
		if t, err := parse.ParseDate(f.CheckInDate); err != nil {
			verrs.Add("check_in_date", invalidDate)
		} else {
			req.CheckInDate = t
		}
	}
	if f.CheckOutDate != "" {
		if t, err := parse.ParseDate(f.CheckOutDate); err != nil {
			verrs.Add("check_out_date", invalidDate)
		} else {
			req.CheckOutDate = t
		}
	}
	if f.GuestCount != nil {
		req.GuestCount = *f.GuestCount
	}
	return req, verrs
}
