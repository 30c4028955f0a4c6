package store

// Page is one page of an ordered listing.
type Page[T any] struct {
	Items  []T
	Number int
	Size   int
	Total  int64
}

// NumPages is at least 1 so that an empty listing still has a first page.
func (p Page[T]) NumPages() int {
	if p.Total == 0 || p.Size <= 0 {
		return 1
	}
	return int((p.Total + int64(p.Size) - 1) / int64(p.Size))
}

func (p Page[T]) HasNext() bool {
	return p.Number < p.NumPages()
}

func (p Page[T]) HasPrevious() bool {
	return p.Number > 1
}

// CatalogFeed is a full catalog snapshot as delivered by the seed file or the upstream feed.
type CatalogFeed struct {
	Hotels []HotelItem `json:"hotels" yaml:"hotels"`
	Kinds  []KindItem  `json:"kinds" yaml:"kinds"`
	Rooms  []RoomItem  `json:"rooms" yaml:"rooms"`
}

// HotelItem is a hotel record in a catalog feed.
type HotelItem struct {
	Title   string `json:"title" yaml:"title"`
	Country string `json:"country" yaml:"country"`
	City    string `json:"city" yaml:"city"`
}

// KindItem is a room kind record in a catalog feed.
type KindItem struct {
	Title     string `json:"title" yaml:"title"`
	MaxGuests int    `json:"max_guests" yaml:"max_guests"`
}

// RoomItem is a room record in a catalog feed. Kind and Hotels refer to titles.
type RoomItem struct {
	Title       string   `json:"title" yaml:"title"`
	Slug        string   `json:"slug" yaml:"slug"`
	Kind        string   `json:"kind" yaml:"kind"`
	MaxGuests   int      `json:"max_guests" yaml:"max_guests"`
	Description string   `json:"description" yaml:"description"`
	Price       int64    `json:"price" yaml:"price"`
	Image       string   `json:"image" yaml:"image"`
	Hotels      []string `json:"hotels" yaml:"hotels"`
}
