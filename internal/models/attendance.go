package models

import "time"

// 打卡方式
const (
	MethodQR     = "QR"
	MethodNFC    = "NFC"
	MethodManual = "MANUAL"
)

// Attendance is one check-in session. CheckOut == nil means the session
// is still open; closing it is the only mutation outside admin correction.
type Attendance struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"index;not null" json:"user_id"`
	CheckIn        time.Time  `gorm:"index;not null" json:"check_in"`
	CheckOut       *time.Time `json:"check_out"`
	Latitude       *float64   `json:"latitude"`
	Longitude      *float64   `json:"longitude"`
	CheckInMethod  string     `gorm:"size:16" json:"check_in_method"`  // QR / NFC / MANUAL
	CheckOutMethod string     `gorm:"size:16" json:"check_out_method"` // QR / NFC / MANUAL
	Notes          string     `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	User *User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Attendance) TableName() string {
	return "attendance_records"
}
