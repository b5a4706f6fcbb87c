package verification

import (
	"context"
	"errors"
	"time"

	"github.com/akeren/purim-rsvp/internal/models"
	apperrors "github.com/akeren/purim-rsvp/pkg/errors"
	"gorm.io/gorm"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=verification

// RecordVerifier marks an RSVP's phone as verified, provided the record
// holds that phone. It is satisfied by the rsvp repository.
type RecordVerifier interface {
	ConfirmPhone(ctx context.Context, id string, phone string, method string, at time.Time) error
}

type OtpRequestRepository interface {
	// CreateOtpRequest records that a code was sent.
	CreateOtpRequest(ctx context.Context, request *models.OtpRequest) (*models.OtpRequest, error)
	// ResolveLatest moves the newest code_sent row for phone to status.
	ResolveLatest(ctx context.Context, phone string, status string, at time.Time) error
}

type otpRequestRepository struct {
	db *gorm.DB
}

func NewOtpRequestRepository(db *gorm.DB) OtpRequestRepository {
	return &otpRequestRepository{db: db}
}

func (r *otpRequestRepository) CreateOtpRequest(ctx context.Context, request *models.OtpRequest) (*models.OtpRequest, error) {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, apperrors.NewDatabaseError("unable to record verification request", err)
	}

	return request, nil
}

func (r *otpRequestRepository) ResolveLatest(ctx context.Context, phone string, status string, at time.Time) error {
	var latest models.OtpRequest

	err := r.db.WithContext(ctx).
		Where("phone_number = ? AND status = ?", phone, models.OtpRequestStatusCodeSent).
		Order("requested_at DESC").
		First(&latest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFoundError("no pending verification request", err)
		}
		return apperrors.NewDatabaseError("failed to fetch verification request", err)
	}

	result := r.db.WithContext(ctx).
		Model(&models.OtpRequest{}).
		Where("id = ? AND status = ?", latest.ID, models.OtpRequestStatusCodeSent).
		Updates(map[string]interface{}{
			"status":      status,
			"resolved_at": at,
		})
	if result.Error != nil {
		return apperrors.NewDatabaseError("unable to resolve verification request", result.Error)
	}

	return nil
}
