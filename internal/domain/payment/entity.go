package payment

import "time"

type Method string

const (
	MethodBankTransfer Method = "BANK_TRANSFER"
	MethodCash         Method = "CASH"
	MethodVNPay        Method = "VNPAY"
	MethodMoMo         Method = "MOMO"
)

func (m Method) Valid() bool {
	switch m {
	case MethodBankTransfer, MethodCash, MethodVNPay, MethodMoMo:
		return true
	}
	return false
}

// Enabled reports whether customers may pick the method. Card gateways are
// modelled but switched off.
func (m Method) Enabled() bool {
	return m == MethodBankTransfer || m == MethodCash
}

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
)

// Payment tracks the deposit for one booking.
type Payment struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	BookingID   int64      `gorm:"uniqueIndex;not null" json:"booking_id"`
	Method      Method     `gorm:"size:20;not null" json:"method"`
	Status      Status     `gorm:"size:20;not null;index" json:"status"`
	Amount      int64      `gorm:"not null" json:"amount"`
	Description string     `gorm:"size:64" json:"description,omitempty"`
	ReportedAt  *time.Time `json:"reported_at,omitempty"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	ConfirmedBy *int64     `json:"confirmed_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }
