package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking-backend/internal/parse"
)

// GetIndex handles GET /.
func (h *Handler) GetIndex(c *gin.Context) {
	view, err := h.listing.Index(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetRooms handles GET /catalog/?page=N.
func (h *Handler) GetRooms(c *gin.Context) {
	page, err := parse.ParsePage(c.Query("page"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "invalid page"})
		return
	}

	rooms, err := h.listing.Rooms(c.Request.Context(), page)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRoomPageResponse(rooms))
}

// GetRoom handles GET /catalog/:slug/.
func (h *Handler) GetRoom(c *gin.Context) {
	room, err := h.listing.Room(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRoomResponse(room))
}

// GetHotels handles GET /hotels/.
func (h *Handler) GetHotels(c *gin.Context) {
	hotels, err := h.listing.Hotels(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]HotelResponse, 0, len(hotels))
	for i := range hotels {
		resp = append(resp, newHotelResponse(&hotels[i]))
	}
	c.JSON(http.StatusOK, gin.H{"hotels": resp})
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
