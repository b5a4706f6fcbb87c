package rsvp

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/akeren/purim-rsvp/internal/models"
	apperrors "github.com/akeren/purim-rsvp/pkg/errors"
	"gorm.io/gorm"
)

// ListFilter narrows ListRSVPs. Empty fields do not filter.
type ListFilter struct {
	Search string
	Branch string
}

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=rsvp

type RSVPRepository interface {
	// CreateRSVP inserts a record; a second record for the same phone is a conflict.
	CreateRSVP(ctx context.Context, rsvp *models.RSVP) (*models.RSVP, error)
	// FindRSVPByID retrieves a record by its generated ID.
	FindRSVPByID(ctx context.Context, id string) (*models.RSVP, error)
	// FindRSVPByPhone retrieves the record holding the given national-format phone.
	FindRSVPByPhone(ctx context.Context, phone string) (*models.RSVP, error)
	// UpdateRSVP applies column updates to the record identified by ID.
	UpdateRSVP(ctx context.Context, id string, updates map[string]interface{}) error
	// MarkPhoneVerified sets the verification flag, timestamp and method.
	MarkPhoneVerified(ctx context.Context, id string, method string, at time.Time) error
	// ConfirmPhone is MarkPhoneVerified restricted to a record that still holds phone.
	ConfirmPhone(ctx context.Context, id string, phone string, method string, at time.Time) error
	// ListRSVPs returns records matching filter, newest first.
	ListRSVPs(ctx context.Context, filter ListFilter) ([]*models.RSVP, error)
	// DeleteRSVP removes a record by ID.
	DeleteRSVP(ctx context.Context, id string) error
}

type rsvpRepository struct {
	db *gorm.DB
}

func NewRSVPRepository(db *gorm.DB) RSVPRepository {
	return &rsvpRepository{db: db}
}

func (rr *rsvpRepository) CreateRSVP(ctx context.Context, rsvp *models.RSVP) (*models.RSVP, error) {
	if err := rr.db.WithContext(ctx).Create(rsvp).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, apperrors.NewConflictError("an RSVP with this phone number already exists", err)
		}
		return nil, apperrors.NewDatabaseError("unable to create RSVP", err)
	}

	return rsvp, nil
}

func (rr *rsvpRepository) FindRSVPByID(ctx context.Context, id string) (*models.RSVP, error) {
	var rsvp models.RSVP

	if err := rr.db.WithContext(ctx).Where("id = ?", id).First(&rsvp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("RSVP not found", err)
		}
		return nil, apperrors.NewDatabaseError("failed to fetch RSVP", err)
	}

	return &rsvp, nil
}

func (rr *rsvpRepository) FindRSVPByPhone(ctx context.Context, phone string) (*models.RSVP, error) {
	var rsvp models.RSVP

	if err := rr.db.WithContext(ctx).Where("phone = ?", phone).First(&rsvp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("RSVP not found", err)
		}
		return nil, apperrors.NewDatabaseError("failed to fetch RSVP", err)
	}

	return &rsvp, nil
}

func (rr *rsvpRepository) UpdateRSVP(ctx context.Context, id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return apperrors.NewInvalidRequestError("no fields to update", nil)
	}

	result := rr.db.WithContext(ctx).
		Model(&models.RSVP{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return apperrors.NewConflictError("an RSVP with this phone number already exists", result.Error)
		}
		return apperrors.NewDatabaseError("unable to update RSVP", result.Error)
	}

	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("RSVP not found", nil)
	}

	return nil
}

func (rr *rsvpRepository) MarkPhoneVerified(ctx context.Context, id string, method string, at time.Time) error {
	return rr.markVerified(rr.db.WithContext(ctx).Where("id = ?", id), method, at)
}

func (rr *rsvpRepository) ConfirmPhone(ctx context.Context, id string, phone string, method string, at time.Time) error {
	return rr.markVerified(rr.db.WithContext(ctx).Where("id = ? AND phone = ?", id, phone), method, at)
}

func (rr *rsvpRepository) markVerified(scope *gorm.DB, method string, at time.Time) error {
	result := scope.
		Model(&models.RSVP{}).
		Updates(map[string]interface{}{
			"phone_verified":      true,
			"phone_verified_at":   at,
			"verification_method": method,
		})

	if result.Error != nil {
		return apperrors.NewDatabaseError("unable to mark RSVP as verified", result.Error)
	}

	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("RSVP not found", nil)
	}

	return nil
}

func (rr *rsvpRepository) ListRSVPs(ctx context.Context, filter ListFilter) ([]*models.RSVP, error) {
	var rsvps []*models.RSVP

	query := rr.db.WithContext(ctx).Model(&models.RSVP{})

	if branch := strings.TrimSpace(filter.Branch); branch != "" {
		query = query.Where("branch = ?", branch)
	}

	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		query = query.Where(
			"LOWER(full_name) LIKE ? ESCAPE '\\' OR phone LIKE ? ESCAPE '\\' OR LOWER(branch_display_name) LIKE ? ESCAPE '\\'",
			pattern, pattern, pattern,
		)
	}

	if err := query.Order("submitted_at DESC").Find(&rsvps).Error; err != nil {
		return nil, apperrors.NewDatabaseError("unable to fetch RSVPs", err)
	}

	return rsvps, nil
}

func (rr *rsvpRepository) DeleteRSVP(ctx context.Context, id string) error {
	result := rr.db.WithContext(ctx).Where("id = ?", id).Delete(&models.RSVP{})

	if result.Error != nil {
		return apperrors.NewDatabaseError("unable to delete RSVP", result.Error)
	}

	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("RSVP not found", nil)
	}

	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || apperrors.IsDuplicateKeyError(err)
}
