package models

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

// gormTag extracts the gorm tag from a struct field.
func gormTag(t *testing.T, typ reflect.Type, fieldName string) string {
	t.Helper()
	f, ok := typ.FieldByName(fieldName)
	if !ok {
		t.Fatalf("%s.%s: field not found", typ.Name(), fieldName)
	}
	return f.Tag.Get("gorm")
}

// assertGormTag checks that a struct field's gorm tag contains the expected value.
func assertGormTag(t *testing.T, typ reflect.Type, fieldName, expected string) {
	t.Helper()
	tag := gormTag(t, typ, fieldName)
	if !strings.Contains(tag, expected) {
		t.Errorf("%s.%s gorm tag = %q, want to contain %q", typ.Name(), fieldName, tag, expected)
	}
}

// assertFieldType checks that a struct field has the expected Go type.
func assertFieldType(t *testing.T, typ reflect.Type, fieldName, expectedType string) {
	t.Helper()
	f, ok := typ.FieldByName(fieldName)
	if !ok {
		t.Fatalf("%s.%s: field not found", typ.Name(), fieldName)
	}
	got := f.Type.String()
	if got != expectedType {
		t.Errorf("%s.%s type = %q, want %q", typ.Name(), fieldName, got, expectedType)
	}
}

func TestStageRule_Fields(t *testing.T) {
	typ := reflect.TypeOf(StageRule{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "ID", "autoIncrement")
	assertGormTag(t, typ, "DeviceID", "size:64")
	assertGormTag(t, typ, "DeviceID", "not null")
	assertGormTag(t, typ, "DeviceID", "uniqueIndex:ux_device_stage")
	assertGormTag(t, typ, "Stage", "size:128")
	assertGormTag(t, typ, "Stage", "not null")
	assertGormTag(t, typ, "Stage", "uniqueIndex:ux_device_stage")
	assertGormTag(t, typ, "InputType", "size:16")
	assertGormTag(t, typ, "InputType", "not null")
	assertGormTag(t, typ, "SourceColumn", "size:128")
	assertGormTag(t, typ, "LiteralValue", "type:text")

	assertFieldType(t, typ, "ID", "uint")
	assertFieldType(t, typ, "InputType", "models.InputType")
	assertFieldType(t, typ, "CreatedAt", "time.Time")
}

func TestDevice_Fields(t *testing.T) {
	typ := reflect.TypeOf(Device{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "ID", "autoIncrement")
	assertGormTag(t, typ, "DeviceID", "size:64")
	assertGormTag(t, typ, "DeviceID", "not null")
	assertGormTag(t, typ, "DeviceID", "uniqueIndex")
	assertGormTag(t, typ, "Provider", "size:16")
	assertGormTag(t, typ, "Provider", "not null")
	assertGormTag(t, typ, "APIURL", "size:256")
	assertGormTag(t, typ, "APIKey", "size:256")
	assertGormTag(t, typ, "PhoneNumber", "size:32")
	assertGormTag(t, typ, "Webhook", "size:256")

	assertFieldType(t, typ, "ID", "uint")
	assertFieldType(t, typ, "CreatedAt", "time.Time")
	assertFieldType(t, typ, "UpdatedAt", "time.Time")
}

func TestPackage_Fields(t *testing.T) {
	typ := reflect.TypeOf(Package{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "ID", "autoIncrement")
	assertGormTag(t, typ, "Name", "size:128")
	assertGormTag(t, typ, "Name", "not null")
	assertGormTag(t, typ, "Name", "uniqueIndex")
	assertGormTag(t, typ, "Amount", "size:32")

	assertFieldType(t, typ, "ID", "uint")
	assertFieldType(t, typ, "Name", "string")
	assertFieldType(t, typ, "Amount", "string")
}

func TestChatThread_Fields(t *testing.T) {
	typ := reflect.TypeOf(ChatThread{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "ID", "autoIncrement")
	assertGormTag(t, typ, "DeviceID", "size:64")
	assertGormTag(t, typ, "DeviceID", "index")
	assertGormTag(t, typ, "ProspectNum", "size:32")
	assertGormTag(t, typ, "ProspectNum", "index")
	assertGormTag(t, typ, "ConvLast", "type:text")
	assertGormTag(t, typ, "ConvCurrent", "type:text")
	assertGormTag(t, typ, "Human", "default:false")

	assertFieldType(t, typ, "ID", "uint")
	assertFieldType(t, typ, "Human", "bool")
	assertFieldType(t, typ, "CreatedAt", "time.Time")
}

func TestBotThread_Fields(t *testing.T) {
	typ := reflect.TypeOf(BotThread{})

	assertGormTag(t, typ, "ID", "primaryKey")
	assertGormTag(t, typ, "ID", "autoIncrement")
	assertGormTag(t, typ, "DeviceID", "size:64")
	assertGormTag(t, typ, "DeviceID", "index")
	assertGormTag(t, typ, "ProspectNum", "size:32")
	assertGormTag(t, typ, "ProspectNum", "index")
	assertGormTag(t, typ, "Alamat", "size:256")
	assertGormTag(t, typ, "Pakej", "size:128")
	assertGormTag(t, typ, "NoFon", "size:32")
	assertGormTag(t, typ, "CaraBayaran", "size:64")
	assertGormTag(t, typ, "TarikhGaji", "size:32")
	assertGormTag(t, typ, "PeringkatSekolah", "size:64")

	assertFieldType(t, typ, "ID", "uint")
	assertFieldType(t, typ, "Human", "bool")
	assertFieldType(t, typ, "CreatedAt", "time.Time")
	assertFieldType(t, typ, "UpdatedAt", "time.Time")
}

func TestParseInputType(t *testing.T) {
	tests := []struct {
		raw     string
		want    InputType
		wantErr bool
	}{
		{"column", InputColumn, false},
		{"hardcoded", InputHardcoded, false},
		{"", "", true},
		{"Column", "", true},
		{"HARDCODED", "", true},
		{"Set", "", true},
		{"Input", "", true},
		{"random", "", true},
	}

	for _, tt := range tests {
		got, err := ParseInputType(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseInputType(%q) error = nil, want error", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseInputType(%q) error = %v, want nil", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseInputType(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestStageRule_Instantiation(t *testing.T) {
	now := time.Now()
	r := StageRule{
		ID:           1,
		DeviceID:     "dev1",
		Stage:        "ask_name",
		InputType:    InputColumn,
		SourceColumn: "prospect_name",
		CreatedAt:    now,
	}
	if r.DeviceID != "dev1" {
		t.Errorf("DeviceID = %q, want %q", r.DeviceID, "dev1")
	}
	if r.InputType != InputColumn {
		t.Errorf("InputType = %q, want %q", r.InputType, InputColumn)
	}
}

func TestDevice_Instantiation(t *testing.T) {
	d := Device{
		ID:          1,
		DeviceID:    "device-main",
		Provider:    "wablas",
		APIURL:      "https://sby.wablas.com",
		APIKey:      "secret",
		PhoneNumber: "60123456789",
	}
	if d.Provider != "wablas" {
		t.Errorf("Provider = %q, want %q", d.Provider, "wablas")
	}
}

func TestBotThread_ProspectRecord(t *testing.T) {
	th := BotThread{
		DeviceID:     "dev1",
		ProspectNum:  "60123456789",
		ProspectName: "Alice",
		Pakej:        "premium",
		Stage:        "ask_address",
	}

	rec := th.ProspectRecord()

	if rec["prospect_name"] != "Alice" {
		t.Errorf(`rec["prospect_name"] = %q, want %q`, rec["prospect_name"], "Alice")
	}
	if rec["pakej"] != "premium" {
		t.Errorf(`rec["pakej"] = %q, want %q`, rec["pakej"], "premium")
	}
	if _, ok := rec["alamat"]; ok {
		t.Error("empty alamat should be omitted from the record")
	}
	if _, ok := rec["no_fon"]; ok {
		t.Error("empty no_fon should be omitted from the record")
	}
}

func TestBotThread_ProspectRecordEmpty(t *testing.T) {
	var th BotThread
	rec := th.ProspectRecord()
	if len(rec) != 0 {
		t.Errorf("empty thread record has %d fields, want 0", len(rec))
	}
}
