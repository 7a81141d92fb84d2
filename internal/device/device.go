// Package device manages the registry of WhatsApp-connected devices.
package device

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/zulandar/switchboard/internal/models"
)

// Providers lists the supported WhatsApp API providers.
var Providers = []string{"wablas", "whacenter", "waha"}

// CreateOpts holds parameters for registering a device.
type CreateOpts struct {
	DeviceID    string
	Provider    string // wablas, whacenter, waha
	APIURL      string
	APIKey      string
	PhoneNumber string
	Webhook     string
}

// Create registers a new device.
func Create(db *gorm.DB, opts CreateOpts) (*models.Device, error) {
	if opts.DeviceID == "" {
		return nil, fmt.Errorf("device: device_id is required")
	}
	if opts.Provider == "" {
		return nil, fmt.Errorf("device: provider is required")
	}
	if !ValidProvider(opts.Provider) {
		return nil, fmt.Errorf("device: provider %q is not supported (%v)", opts.Provider, Providers)
	}

	dev := models.Device{
		DeviceID:    opts.DeviceID,
		Provider:    opts.Provider,
		APIURL:      opts.APIURL,
		APIKey:      opts.APIKey,
		PhoneNumber: opts.PhoneNumber,
		Webhook:     opts.Webhook,
	}

	if err := db.Create(&dev).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("device: already registered: %s: %w", opts.DeviceID, err)
		}
		return nil, fmt.Errorf("device: create: %w", err)
	}

	return &dev, nil
}

// Get retrieves a device by its human identifier.
func Get(db *gorm.DB, deviceID string) (*models.Device, error) {
	var dev models.Device
	if err := db.Where("device_id = ?", deviceID).First(&dev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("device: not found: %s: %w", deviceID, err)
		}
		return nil, fmt.Errorf("device: get %s: %w", deviceID, err)
	}
	return &dev, nil
}

// List returns all registered devices ordered by identifier.
func List(db *gorm.DB) ([]models.Device, error) {
	var devices []models.Device
	if err := db.Order("device_id ASC").Find(&devices).Error; err != nil {
		return nil, fmt.Errorf("device: list: %w", err)
	}
	return devices, nil
}

// IDs returns the distinct device identifiers known to the registry,
// for populating rule-creation choices.
func IDs(db *gorm.DB) ([]string, error) {
	var ids []string
	if err := db.Model(&models.Device{}).Order("device_id ASC").Pluck("device_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("device: list ids: %w", err)
	}
	return ids, nil
}

// Exists reports whether a device identifier is registered.
func Exists(db *gorm.DB, deviceID string) (bool, error) {
	var count int64
	if err := db.Model(&models.Device{}).Where("device_id = ?", deviceID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("device: check %s: %w", deviceID, err)
	}
	return count > 0, nil
}

// Delete removes a device from the registry.
func Delete(db *gorm.DB, deviceID string) error {
	result := db.Where("device_id = ?", deviceID).Delete(&models.Device{})
	if result.Error != nil {
		return fmt.Errorf("device: delete %s: %w", deviceID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("device: not found: %s: %w", deviceID, gorm.ErrRecordNotFound)
	}
	return nil
}

// Count returns the number of registered devices.
func Count(db *gorm.DB) (int64, error) {
	var count int64
	if err := db.Model(&models.Device{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("device: count: %w", err)
	}
	return count, nil
}

// Registry adapts the device table to the read-only enumeration surface
// the rule store consumes.
type Registry struct {
	DB *gorm.DB
}

// DeviceIDs returns the registered device identifiers.
func (r Registry) DeviceIDs() ([]string, error) {
	return IDs(r.DB)
}

// ValidProvider reports whether p names a supported provider.
func ValidProvider(p string) bool {
	for _, v := range Providers {
		if v == p {
			return true
		}
	}
	return false
}
