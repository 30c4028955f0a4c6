package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"hotel-booking-backend/config"
	"hotel-booking-backend/internal/auth"
	"hotel-booking-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), mw.Logger(h.log))
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		h.log.WithError(err).Warn("Invalid trusted proxies; trusting none")
		_ = r.SetTrustedProxies(nil)
	}

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)
	pages := h.pages
	if pages == nil {
		ttl := cfg.Server.CacheTTL
		if ttl <= 0 {
			ttl = 5 * time.Minute
		}
		pages = mw.NewResponseCache(ttl)
	}
	caching := pages.Handler()
	requireGuest := auth.RequireGuest(cfg.Auth.LoginURL)

	r.GET("/healthz", h.Healthz)

	site := r.Group("/", rateLimiter, h.auth.Middleware())
	{
		site.GET("/", h.GetIndex)
		site.GET("/hotels/", caching, h.GetHotels)

		catalog := site.Group("/catalog", caching)
		catalog.GET("/", h.GetRooms)
		catalog.GET("/:slug/", h.GetRoom)

		site.GET("/booking/create/:slug/", requireGuest, h.GetBookingForm)
		site.POST("/booking/create/:slug/", requireGuest, h.PostBooking)

		accounts := site.Group("/auth")
		accounts.GET("/registration/", h.GetRegistrationForm)
		accounts.POST("/registration/", h.PostRegistration)
		accounts.GET("/login/", h.GetLoginForm)
		accounts.POST("/login/", h.PostLogin)
		accounts.POST("/logout/", h.PostLogout)
		accounts.GET("/profile/", requireGuest, h.GetProfile)
	}

	api := site.Group("/api")
	{
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)
		api.GET("/subscriptions", requireGuest, h.GetSubscriptions)
		api.PUT("/subscriptions", requireGuest, h.PutSubscription)
		api.DELETE("/subscriptions", requireGuest, h.DeleteSubscription)
	}

	return r
}
