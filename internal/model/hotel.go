package model

import "time"

// Country is one of the supported hotel countries.
type Country string

const (
	CountryRussia Country = "RU"
	CountryUSA    Country = "USA"
)

var countryLabels = map[Country]string{
	CountryRussia: "Russia",
	CountryUSA:    "United States of America",
}

// Valid reports whether c is a known country code.
func (c Country) Valid() bool {
	_, ok := countryLabels[c]
	return ok
}

// Label returns the human-readable country name.
func (c Country) Label() string {
	return countryLabels[c]
}

// Hotel represents a hotel in the catalog.
type Hotel struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"uniqueIndex;size:256;not null" json:"title"`
	Country   Country   `gorm:"size:3;not null" json:"country"`
	City      string    `gorm:"size:128;not null" json:"city"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// Associations
	Rooms []*Room `gorm:"many2many:room_hotels;" json:"-"`
}
