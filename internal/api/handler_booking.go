package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking-backend/internal/auth"
	"hotel-booking-backend/internal/booking"
	"hotel-booking-backend/internal/parse"
)

// ProfileURL is where a client goes after booking.
const ProfileURL = "/auth/profile/"

var bookingFields = []string{"check_in_date", "check_out_date", "guest_count"}

// GetBookingForm handles GET /booking/create/:slug/.
func (h *Handler) GetBookingForm(c *gin.Context) {
	view, err := h.bookings.Prepare(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"room":     newRoomResponse(view.Room),
		"capacity": view.Capacity,
		"min_date": parse.FormatDate(view.MinDate),
		"fields":   bookingFields,
	})
}

// PostBooking handles POST /booking/create/:slug/.
func (h *Handler) PostBooking(c *gin.Context) {
	guestID, _ := auth.GuestID(c)
	slug := c.Param("slug")

	var f booking.Form
	if err := c.ShouldBindJSON(&f); err != nil {
		badRequest(c)
		return
	}

	req, verrs := f.Request()
	if !verrs.Empty() {
		// Report the business-rule errors alongside the malformed fields.
		room, err := h.listing.Room(c.Request.Context(), slug)
		if err != nil {
			h.respondError(c, err)
			return
		}
		verrs.Merge(h.bookings.Validate(room, req))
		h.respondError(c, verrs)
		return
	}

	b, err := h.bookings.CreateBooking(c.Request.Context(), guestID, slug, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if h.notifier != nil {
		h.notifier.Dispatch(b.ID)
	}
	c.Header("Location", ProfileURL)
	c.JSON(http.StatusCreated, newBookingResponse(b))
}
