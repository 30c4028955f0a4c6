package importer

import "hotel-booking-backend/internal/store"

// FeedResponse models the upstream catalog feed envelope.
type FeedResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    store.CatalogFeed `json:"data"`
}
