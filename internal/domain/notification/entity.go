package notification

import "time"

// EmailTemplate overrides a built-in template with the same name.
type EmailTemplate struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:64;not null;uniqueIndex" json:"name"`
	Subject   string    `gorm:"size:255;not null" json:"subject"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	IsActive  bool      `gorm:"not null" json:"is_active"`
	UpdatedBy *int64    `json:"updated_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (EmailTemplate) TableName() string { return "email_templates" }

// BookingMail carries what booking emails render. Times are UTC.
type BookingMail struct {
	Code            string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	LocationName    string
	LocationAddress string
	RoomName        string
	ServiceName     string
	StartTime       time.Time
	EndTime         time.Time
	GuestCount      int
	EstimatedAmount int64
	DepositAmount   int64
	CancelReason    string
}
