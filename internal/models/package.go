package models

import "time"

// Package is a billing package offered to prospects.
type Package struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"size:128;not null;uniqueIndex"`
	Amount    string    `json:"amount" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
