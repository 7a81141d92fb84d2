package models

import "time"

// ChatThread is one prospect conversation on the Chatbot AI channel.
type ChatThread struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	DeviceID     string    `json:"device_id" gorm:"size:64;index"`
	ProspectNum  string    `json:"prospect_num" gorm:"size:32;index"`
	ProspectName string    `json:"prospect_name" gorm:"size:128"`
	Niche        string    `json:"niche" gorm:"size:64"`
	Stage        string    `json:"stage" gorm:"size:128"`
	ConvLast     string    `json:"conv_last" gorm:"type:text"`
	ConvCurrent  string    `json:"conv_current" gorm:"type:text"`
	Human        bool      `json:"human" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BotThread is one prospect conversation on the flow-driven bot channel.
// The collected prospect fields feed stage-value resolution.
type BotThread struct {
	ID               uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	DeviceID         string    `json:"device_id" gorm:"size:64;index"`
	ProspectNum      string    `json:"prospect_num" gorm:"size:32;index"`
	ProspectName     string    `json:"prospect_name" gorm:"size:128"`
	Niche            string    `json:"niche" gorm:"size:64"`
	Stage            string    `json:"stage" gorm:"size:128"`
	ConvLast         string    `json:"conv_last" gorm:"type:text"`
	ConvCurrent      string    `json:"conv_current" gorm:"type:text"`
	Alamat           string    `json:"alamat" gorm:"size:256"`
	Pakej            string    `json:"pakej" gorm:"size:128"`
	NoFon            string    `json:"no_fon" gorm:"size:32"`
	CaraBayaran      string    `json:"cara_bayaran" gorm:"size:64"`
	TarikhGaji       string    `json:"tarikh_gaji" gorm:"size:32"`
	PeringkatSekolah string    `json:"peringkat_sekolah" gorm:"size:64"`
	Human            bool      `json:"human" gorm:"default:false"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ProspectRecord flattens the thread's collected fields into the record
// consumed by stage-value resolution. Empty fields are omitted; a column
// rule naming an uncollected field resolves as missing rather than as "".
func (t *BotThread) ProspectRecord() map[string]string {
	fields := map[string]string{
		"prospect_name":     t.ProspectName,
		"prospect_num":      t.ProspectNum,
		"niche":             t.Niche,
		"stage":             t.Stage,
		"alamat":            t.Alamat,
		"pakej":             t.Pakej,
		"no_fon":            t.NoFon,
		"cara_bayaran":      t.CaraBayaran,
		"tarikh_gaji":       t.TarikhGaji,
		"peringkat_sekolah": t.PeringkatSekolah,
	}
	rec := make(map[string]string, len(fields))
	for k, v := range fields {
		if v != "" {
			rec[k] = v
		}
	}
	return rec
}
