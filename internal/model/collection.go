package model

import "time"

// Collection groups products; permanent collections never expire, drops are bounded by release/end dates.
type Collection struct {
	BaseModel
	Name        string     `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Slug        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug" validate:"required"`
	Description string     `gorm:"type:text" json:"description"`
	IsPermanent bool       `gorm:"not null;default:false" json:"is_permanent"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Enabled     bool       `gorm:"not null;index" json:"enabled"`
	Products    []Product  `json:"products,omitempty"`
}

// IsCurrent reports whether the collection is on sale at t.
func (c *Collection) IsCurrent(t time.Time) bool {
	if !c.Enabled {
		return false
	}
	if c.IsPermanent {
		return true
	}
	if c.ReleaseDate == nil || c.ReleaseDate.After(t) {
		return false
	}
	return c.EndDate == nil || !c.EndDate.Before(t)
}
