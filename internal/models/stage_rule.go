package models

import (
	"fmt"
	"time"
)

// InputType selects how a stage rule produces its value.
type InputType string

const (
	// InputColumn reads the value from a named field of the prospect record.
	InputColumn InputType = "column"
	// InputHardcoded emits a fixed literal value.
	InputHardcoded InputType = "hardcoded"
)

// ParseInputType validates a raw input type tag. Only the two known tags
// are accepted; anything else is rejected at the boundary instead of being
// carried through to resolution.
func ParseInputType(s string) (InputType, error) {
	switch InputType(s) {
	case InputColumn, InputHardcoded:
		return InputType(s), nil
	}
	return "", fmt.Errorf("models: unknown input type %q", s)
}

// StageRule configures how the automation engine obtains the value for one
// (device, stage) conversation step. Rules are immutable once created;
// corrections are delete-then-recreate.
type StageRule struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	DeviceID     string    `json:"device_id" gorm:"size:64;not null;uniqueIndex:ux_device_stage"`
	Stage        string    `json:"stage" gorm:"size:128;not null;uniqueIndex:ux_device_stage"`
	InputType    InputType `json:"input_type" gorm:"size:16;not null"`
	SourceColumn string    `json:"source_column" gorm:"size:128"`
	LiteralValue string    `json:"literal_value" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at"`
}
