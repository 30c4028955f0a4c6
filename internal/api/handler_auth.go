package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hotel-booking-backend/internal/auth"
	"hotel-booking-backend/internal/guest"
)

var loginFields = []string{"username", "password"}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// GetRegistrationForm handles GET /auth/registration/.
func (h *Handler) GetRegistrationForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"fields": guest.RegistrationFields})
}

// PostRegistration handles POST /auth/registration/.
func (h *Handler) PostRegistration(c *gin.Context) {
	var f guest.RegistrationForm
	if err := c.ShouldBindJSON(&f); err != nil {
		badRequest(c)
		return
	}

	g, err := h.guests.Register(c.Request.Context(), f)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newGuestResponse(g))
}

// GetLoginForm handles GET /auth/login/.
func (h *Handler) GetLoginForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"fields": loginFields, "next": safeNext(c.Query("next"))})
}

// PostLogin handles POST /auth/login/. The username is the guest's email.
func (h *Handler) PostLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	g, err := h.guests.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	token, expires, err := h.auth.Issue(g.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.auth.SetCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": expires,
		"next":       safeNext(c.Query("next")),
		"guest":      newGuestResponse(g),
	})
}

// PostLogout handles POST /auth/logout/.
func (h *Handler) PostLogout(c *gin.Context) {
	h.auth.ClearCookie(c)
	c.Redirect(http.StatusSeeOther, "/")
}

// GetProfile handles GET /auth/profile/.
func (h *Handler) GetProfile(c *gin.Context) {
	guestID, _ := auth.GuestID(c)
	view, err := h.listing.Account(c.Request.Context(), guestID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	bookings := make([]BookingResponse, 0, len(view.Bookings))
	for i := range view.Bookings {
		bookings = append(bookings, newBookingResponse(&view.Bookings[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"guest":    newGuestResponse(view.Guest),
		"bookings": bookings,
	})
}

// safeNext only allows local redirect targets.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ProfileURL
	}
	return next
}
