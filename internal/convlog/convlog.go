// Package convlog reads the conversation logs the two bot channels write:
// chat threads from the AI chatbot and bot threads from the flow-driven
// WhatsApp bot.
package convlog

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/zulandar/switchboard/internal/models"
)

// defaultLimit caps list queries when the caller does not set one.
const defaultLimit = 100

// ListFilters holds optional filters for listing threads.
type ListFilters struct {
	DeviceID string
	Limit    int
}

// ListChat returns chat threads, newest first.
func ListChat(db *gorm.DB, filters ListFilters) ([]models.ChatThread, error) {
	q := db.Model(&models.ChatThread{})
	if filters.DeviceID != "" {
		q = q.Where("device_id = ?", filters.DeviceID)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	var threads []models.ChatThread
	if err := q.Order("id DESC").Limit(limit).Find(&threads).Error; err != nil {
		return nil, fmt.Errorf("convlog: list chat threads: %w", err)
	}
	return threads, nil
}

// ListBot returns bot threads, newest first.
func ListBot(db *gorm.DB, filters ListFilters) ([]models.BotThread, error) {
	q := db.Model(&models.BotThread{})
	if filters.DeviceID != "" {
		q = q.Where("device_id = ?", filters.DeviceID)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	var threads []models.BotThread
	if err := q.Order("id DESC").Limit(limit).Find(&threads).Error; err != nil {
		return nil, fmt.Errorf("convlog: list bot threads: %w", err)
	}
	return threads, nil
}

// FindBotThread returns the newest bot thread for a device and prospect
// number. Its collected fields form the prospect record used for rule
// resolution.
func FindBotThread(db *gorm.DB, deviceID, prospectNum string) (*models.BotThread, error) {
	var thread models.BotThread
	err := db.Where("device_id = ? AND prospect_num = ?", deviceID, prospectNum).
		Order("id DESC").First(&thread).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("convlog: no bot thread for device %q prospect %q: %w", deviceID, prospectNum, err)
		}
		return nil, fmt.Errorf("convlog: find bot thread: %w", err)
	}
	return &thread, nil
}

// ChannelCounts holds per-channel thread totals.
type ChannelCounts struct {
	Chat          int64
	Bot           int64
	HumanTakeover int64
}

// Counts returns thread totals across both channels. HumanTakeover counts
// chat threads an operator has taken over from the bot.
func Counts(db *gorm.DB) (ChannelCounts, error) {
	var c ChannelCounts
	if err := db.Model(&models.ChatThread{}).Count(&c.Chat).Error; err != nil {
		return ChannelCounts{}, fmt.Errorf("convlog: count chat threads: %w", err)
	}
	if err := db.Model(&models.BotThread{}).Count(&c.Bot).Error; err != nil {
		return ChannelCounts{}, fmt.Errorf("convlog: count bot threads: %w", err)
	}
	if err := db.Model(&models.ChatThread{}).Where("human = ?", true).Count(&c.HumanTakeover).Error; err != nil {
		return ChannelCounts{}, fmt.Errorf("convlog: count human takeovers: %w", err)
	}
	return c, nil
}

// NewProspectsSince counts bot threads created at or after the given time,
// for the daily digest.
func NewProspectsSince(db *gorm.DB, since time.Time) (int64, error) {
	var count int64
	if err := db.Model(&models.BotThread{}).Where("created_at >= ?", since).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("convlog: count new prospects: %w", err)
	}
	return count, nil
}
