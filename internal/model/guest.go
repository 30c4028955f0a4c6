package model

import "time"

// Guest is an account that can book rooms. The email is both identity and login key.
type Guest struct {
	ID           int64      `gorm:"primaryKey" json:"id"`
	Email        string     `gorm:"uniqueIndex;size:254;not null" json:"email"`
	FirstName    string     `gorm:"size:150;not null" json:"first_name"`
	LastName     string     `gorm:"size:150;not null" json:"last_name"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	IsActive     bool       `gorm:"not null" json:"is_active"`
	LastLogin    *time.Time `json:"last_login"`
	DateJoined   time.Time  `gorm:"autoCreateTime;not null" json:"date_joined"`
	UpdatedAt    time.Time  `json:"-"`

	// Associations
	Bookings []Booking `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// FullName joins the first and last names.
func (g *Guest) FullName() string {
	if g.LastName == "" {
		return g.FirstName
	}
	return g.FirstName + " " + g.LastName
}
