package setting

import "time"

// Setting is a runtime override keyed by a dotted name.
type Setting struct {
	Key       string    `gorm:"column:setting_key;primaryKey;size:100" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string { return "settings" }

const (
	KeySMTPHost     = "smtp.host"
	KeySMTPPort     = "smtp.port"
	KeySMTPUsername = "smtp.username"
	KeySMTPPassword = "smtp.password"
	KeySMTPFrom     = "smtp.from"
	KeySMTPFromName = "smtp.from_name"

	KeyCancelLeadMinutes     = "booking.cancel_lead_minutes"
	KeyOvertimeRatePerMinute = "booking.overtime_rate_per_minute"

	KeyVietQRBankID      = "vietqr.bank_id"
	KeyVietQRAccountNo   = "vietqr.account_no"
	KeyVietQRAccountName = "vietqr.account_name"

	// NotifyPrefix + template name toggles a transactional email.
	NotifyPrefix = "notify."
)

var secretKeys = map[string]bool{
	KeySMTPPassword: true,
}

const maskedValue = "********"

func IsSecret(key string) bool {
	return secretKeys[key]
}
