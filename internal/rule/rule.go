// Package rule stores per-device, per-stage input-resolution rules.
package rule

import (
	"errors"
	"fmt"

	"github.com/zulandar/switchboard/internal/models"
	"gorm.io/gorm"
)

// CreateOpts holds parameters for creating a new stage rule.
type CreateOpts struct {
	DeviceID     string
	Stage        string
	InputType    string // column or hardcoded
	SourceColumn string
	LiteralValue string // may be empty; hardcoded rules emit it verbatim
}

// Create validates and stores a new rule. At most one rule may exist per
// (device, stage) pair; a second creation fails with DuplicateRuleError.
// Rules are immutable once stored, so there is no update counterpart.
//
// The unique index makes Create safe to retry after a timeout: a retry
// either lands the rule or reports DuplicateRuleError if the first attempt
// committed. It never stores a second row for the pair.
func Create(db *gorm.DB, opts CreateOpts) (*models.StageRule, error) {
	if opts.DeviceID == "" {
		return nil, &ValidationError{Field: "device_id", Reason: "is required"}
	}
	if opts.Stage == "" {
		return nil, &ValidationError{Field: "stage", Reason: "is required"}
	}

	inputType, err := models.ParseInputType(opts.InputType)
	if err != nil {
		return nil, &ValidationError{
			Field:  "input_type",
			Reason: fmt.Sprintf("must be %q or %q", models.InputColumn, models.InputHardcoded),
		}
	}
	if inputType == models.InputColumn && opts.SourceColumn == "" {
		return nil, &ValidationError{Field: "source_column", Reason: "is required for column rules"}
	}

	r := models.StageRule{
		DeviceID:     opts.DeviceID,
		Stage:        opts.Stage,
		InputType:    inputType,
		SourceColumn: opts.SourceColumn,
		LiteralValue: opts.LiteralValue,
	}
	if err := db.Create(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &DuplicateRuleError{DeviceID: opts.DeviceID, Stage: opts.Stage}
		}
		return nil, &StoreUnavailableError{Op: "create", Err: err}
	}
	return &r, nil
}

// Get retrieves a rule by id.
func Get(db *gorm.DB, id uint) (*models.StageRule, error) {
	var r models.StageRule
	if err := db.Where("id = ?", id).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, &StoreUnavailableError{Op: "get", Err: err}
	}
	return &r, nil
}

// List returns all rules, newest first by creation order.
func List(db *gorm.DB) ([]models.StageRule, error) {
	var rules []models.StageRule
	if err := db.Order("id DESC").Find(&rules).Error; err != nil {
		return nil, &StoreUnavailableError{Op: "list", Err: err}
	}
	return rules, nil
}

// ListByDevice returns the rules for one device, newest first.
func ListByDevice(db *gorm.DB, deviceID string) ([]models.StageRule, error) {
	var rules []models.StageRule
	if err := db.Where("device_id = ?", deviceID).Order("id DESC").Find(&rules).Error; err != nil {
		return nil, &StoreUnavailableError{Op: "list", Err: err}
	}
	return rules, nil
}

// Lookup returns the rule for a (device, stage) pair. The unique index
// keeps the pair to one rule; ordering newest-first keeps the result
// deterministic should the schema ever hold duplicates.
func Lookup(db *gorm.DB, deviceID, stage string) (*models.StageRule, error) {
	var r models.StageRule
	err := db.Where("device_id = ? AND stage = ?", deviceID, stage).
		Order("id DESC").First(&r).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{DeviceID: deviceID, Stage: stage}
		}
		return nil, &StoreUnavailableError{Op: "lookup", Err: err}
	}
	return &r, nil
}

// Delete removes a rule by id. Deleting an id with no rule fails with
// NotFoundError; callers treating deletion as idempotent may ignore it.
func Delete(db *gorm.DB, id uint) error {
	res := db.Delete(&models.StageRule{}, id)
	if res.Error != nil {
		return &StoreUnavailableError{Op: "delete", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}

// Count returns the number of stored rules.
func Count(db *gorm.DB) (int64, error) {
	var n int64
	if err := db.Model(&models.StageRule{}).Count(&n).Error; err != nil {
		return 0, &StoreUnavailableError{Op: "count", Err: err}
	}
	return n, nil
}

// Registry is the read surface of the device registry. The store only
// enumerates identifiers from it; registration lives elsewhere.
type Registry interface {
	DeviceIDs() ([]string, error)
}

// Devices returns the device identifiers known to the registry, for
// populating rule-creation choices. Pure read-through, no caching; a
// registry failure is reported, never collapsed into an empty set.
func Devices(reg Registry) ([]string, error) {
	ids, err := reg.DeviceIDs()
	if err != nil {
		return nil, &StoreUnavailableError{Op: "list devices", Err: err}
	}
	return ids, nil
}
