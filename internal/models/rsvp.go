package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Verification methods recorded on an RSVP once its phone is trusted.
const (
	VerificationMethodOTP    = "otp"
	VerificationMethodBypass = "bypass"
)

type RSVP struct {
	ID                  string     `gorm:"type:text;primaryKey" json:"id"`
	FirstName           string     `gorm:"not null" json:"first_name"`
	LastName            string     `gorm:"not null" json:"last_name"`
	FullName            string     `gorm:"not null" json:"full_name"`
	Phone               string     `gorm:"not null;uniqueIndex" json:"phone"`
	Branch              string     `gorm:"not null;index" json:"branch"`
	BranchDisplayName   string     `gorm:"not null" json:"branch_display_name"`
	CustomBranch        bool       `gorm:"not null;default:false" json:"custom_branch"`
	NeedsTransportation bool       `gorm:"not null;default:false" json:"needs_transportation"`
	IPAddress           string     `gorm:"column:ip_address" json:"ip_address"`
	PhoneVerified       bool       `gorm:"not null;default:false" json:"phone_verified"`
	PhoneVerifiedAt     *time.Time `json:"phone_verified_at"`
	VerificationMethod  string     `gorm:"not null;default:''" json:"verification_method"`
	SubmittedAt         time.Time  `gorm:"not null" json:"submitted_at"`
	LastModifiedAt      time.Time  `gorm:"not null" json:"last_modified_at"`
}

func (RSVP) TableName() string {
	return "rsvps"
}

func (r *RSVP) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = now
	}
	if r.LastModifiedAt.IsZero() {
		r.LastModifiedAt = r.SubmittedAt
	}
	return nil
}
