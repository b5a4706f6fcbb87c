package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit statuses for a verification cycle. A row left at code_sent was abandoned.
const (
	OtpRequestStatusCodeSent  = "code_sent"
	OtpRequestStatusConfirmed = "confirmed"
	OtpRequestStatusFailed    = "failed"
)

// OtpRequest is write-only bookkeeping for a code send. The code itself is
// never stored; the gateway owns it.
type OtpRequest struct {
	ID            string     `gorm:"type:text;primaryKey" json:"id"`
	PhoneNumber   string     `gorm:"not null;index" json:"phone_number"`
	RSVPID        *string    `gorm:"column:rsvp_id;index" json:"rsvp_id"`
	MessagePrefix string     `gorm:"not null" json:"message_prefix"`
	Status        string     `gorm:"not null" json:"status"`
	RequestedAt   time.Time  `gorm:"not null" json:"requested_at"`
	ResolvedAt    *time.Time `json:"resolved_at"`
}

func (OtpRequest) TableName() string {
	return "otp_requests"
}

func (o *OtpRequest) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.RequestedAt.IsZero() {
		o.RequestedAt = time.Now().UTC()
	}
	if o.Status == "" {
		o.Status = OtpRequestStatusCodeSent
	}
	return nil
}
