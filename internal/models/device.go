package models

import "time"

// Device is a WhatsApp endpoint registered with a messaging provider.
type Device struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	DeviceID    string    `json:"device_id" gorm:"size:64;not null;uniqueIndex"`
	Provider    string    `json:"provider" gorm:"size:16;not null"`
	APIURL      string    `json:"api_url" gorm:"size:256"`
	APIKey      string    `json:"-" gorm:"size:256"`
	PhoneNumber string    `json:"phone_number" gorm:"size:32"`
	Webhook     string    `json:"webhook" gorm:"size:256"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
