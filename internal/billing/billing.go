// Package billing manages the subscription packages offered to customers.
package billing

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/zulandar/switchboard/internal/models"
)

// CreateOpts holds parameters for creating a package.
type CreateOpts struct {
	Name   string
	Amount string // stored as text, e.g. "99" or "99.00"
}

// Create adds a new package.
func Create(db *gorm.DB, opts CreateOpts) (*models.Package, error) {
	if opts.Name == "" {
		return nil, fmt.Errorf("billing: name is required")
	}

	pkg := models.Package{
		Name:   opts.Name,
		Amount: opts.Amount,
	}

	if err := db.Create(&pkg).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("billing: package already exists: %s: %w", opts.Name, err)
		}
		return nil, fmt.Errorf("billing: create: %w", err)
	}

	return &pkg, nil
}

// Get retrieves a package by id.
func Get(db *gorm.DB, id uint) (*models.Package, error) {
	var pkg models.Package
	if err := db.Where("id = ?", id).First(&pkg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("billing: not found: %d: %w", id, err)
		}
		return nil, fmt.Errorf("billing: get %d: %w", id, err)
	}
	return &pkg, nil
}

// List returns all packages ordered by name.
func List(db *gorm.DB) ([]models.Package, error) {
	var packages []models.Package
	if err := db.Order("name ASC").Find(&packages).Error; err != nil {
		return nil, fmt.Errorf("billing: list: %w", err)
	}
	return packages, nil
}

// Update modifies a package's name and amount.
func Update(db *gorm.DB, id uint, opts CreateOpts) (*models.Package, error) {
	if opts.Name == "" {
		return nil, fmt.Errorf("billing: name is required")
	}

	var pkg models.Package
	if err := db.Where("id = ?", id).First(&pkg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("billing: not found: %d: %w", id, err)
		}
		return nil, fmt.Errorf("billing: get %d for update: %w", id, err)
	}

	pkg.Name = opts.Name
	pkg.Amount = opts.Amount
	if err := db.Save(&pkg).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("billing: package already exists: %s: %w", opts.Name, err)
		}
		return nil, fmt.Errorf("billing: update %d: %w", id, err)
	}

	return &pkg, nil
}

// Delete removes a package.
func Delete(db *gorm.DB, id uint) error {
	result := db.Where("id = ?", id).Delete(&models.Package{})
	if result.Error != nil {
		return fmt.Errorf("billing: delete %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("billing: not found: %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// Count returns the number of packages.
func Count(db *gorm.DB) (int64, error) {
	var count int64
	if err := db.Model(&models.Package{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("billing: count: %w", err)
	}
	return count, nil
}
