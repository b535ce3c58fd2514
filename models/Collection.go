package models

import "time"

// Collection stores one whole record collection as a JSON document.
type Collection struct {
	Name      string `gorm:"primaryKey;size:64"`
	Document  string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}
