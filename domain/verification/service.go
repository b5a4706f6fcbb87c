package verification

import (
	"context"
	"strings"
	"time"

	"github.com/akeren/purim-rsvp/internal/log"
	"github.com/akeren/purim-rsvp/internal/models"
	"github.com/akeren/purim-rsvp/internal/otpgateway"
	apperrors "github.com/akeren/purim-rsvp/pkg/errors"
	"github.com/akeren/purim-rsvp/pkg/validation"
)

// User-facing messages returned with each failure condition.
const (
	MessageInvalidPhone  = "מספר טלפון לא תקין"
	MessageSendFailed    = "שליחת ה-SMS נכשלה, אנא נסה שנית"
	MessageSendInternal  = "אירעה שגיאה בעת שליחת קוד האימות"
	MessageMissingFields = "חסרים נתונים לאימות"
	MessageWrongCode     = "קוד אימות שגוי"
	MessageVerifyFailed  = "אירעה שגיאה בעת אימות הקוד"
)

type VerificationService interface {
	// RequestCode asks the gateway to text a code to the phone and records the send.
	RequestCode(ctx context.Context, req *RequestCodeRequest) (*RequestCodeResponse, error)

	// ConfirmCode checks a code with the gateway and marks the RSVP verified.
	ConfirmCode(ctx context.Context, req *ConfirmCodeRequest) (*ConfirmCodeResponse, error)
}

type verificationService struct {
	logger  *log.Logger
	gateway otpgateway.Gateway
	records RecordVerifier
	audits  OtpRequestRepository
	now     func() time.Time
}

func NewVerificationService(
	logger *log.Logger,
	gateway otpgateway.Gateway,
	records RecordVerifier,
	audits OtpRequestRepository,
) VerificationService {
	return &verificationService{
		logger:  logger,
		gateway: gateway,
		records: records,
		audits:  audits,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *verificationService) RequestCode(ctx context.Context, req *RequestCodeRequest) (*RequestCodeResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil || !validation.IsGatewayPhone(req.PhoneNumber) {
		logger.Warn("RequestCode received invalid phone number")
		return nil, apperrors.NewInvalidRequestError(MessageInvalidPhone, nil)
	}

	phone := validation.DigitsOnly(req.PhoneNumber)
	purpose := strings.TrimSpace(req.MessagePrefix)
	if purpose == "" {
		purpose = otpgateway.DefaultPurpose
	}

	if !s.gateway.SendCode(ctx, phone, purpose) {
		logger.Warn("Gateway did not send verification code")
		return nil, apperrors.NewUnavailableError(MessageSendFailed, nil)
	}

	audit := &models.OtpRequest{
		PhoneNumber:   phone,
		MessagePrefix: purpose,
		Status:        models.OtpRequestStatusCodeSent,
		RequestedAt:   s.now(),
	}
	if id := strings.TrimSpace(req.RSVPID); id != "" {
		audit.RSVPID = &id
	}

	created, err := s.audits.CreateOtpRequest(ctx, audit)
	if err != nil {
		logger.Error("Failed to record verification request", "error", err)
		return nil, apperrors.NewInternalServerError(MessageSendInternal, err)
	}

	logger.Info("Verification code sent", "request_id", created.ID)

	return &RequestCodeResponse{Success: true, RequestID: created.ID}, nil
}

func (s *verificationService) ConfirmCode(ctx context.Context, req *ConfirmCodeRequest) (*ConfirmCodeResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		return nil, apperrors.NewInvalidRequestError(MessageMissingFields, nil)
	}

	phone := validation.DigitsOnly(req.PhoneNumber)
	code := strings.TrimSpace(req.Code)
	rsvpID := strings.TrimSpace(req.RSVPID)

	if phone == "" || code == "" || rsvpID == "" {
		logger.Warn("ConfirmCode received incomplete request",
			"has_phone", phone != "",
			"has_code", code != "",
			"rsvp_id", rsvpID,
		)
		return nil, apperrors.NewInvalidRequestError(MessageMissingFields, nil)
	}

	if !s.gateway.VerifyCode(ctx, phone, code) {
		// The audit row stays code_sent so a retry with the right code can still confirm it.
		logger.Info("Verification code rejected", "rsvp_id", rsvpID)
		return nil, apperrors.NewInvalidRequestError(MessageWrongCode, nil)
	}

	// Only the record that holds the proven phone is marked verified.
	recordPhone, ok := validation.NormalizeIsraeliMobile(phone)
	if !ok {
		recordPhone = phone
	}
	if err := s.records.ConfirmPhone(ctx, rsvpID, recordPhone, models.VerificationMethodOTP, s.now()); err != nil {
		if apperrors.GetErrorType(err) == apperrors.ErrorTypeNotFound {
			logger.Warn("Verified phone does not belong to this RSVP", "rsvp_id", rsvpID)
		} else {
			logger.Error("Failed to mark RSVP verified", "rsvp_id", rsvpID, "error", err)
		}
		return nil, apperrors.NewInternalServerError(MessageVerifyFailed, err)
	}

	s.resolveAudit(ctx, logger, phone, models.OtpRequestStatusConfirmed)

	logger.Info("RSVP phone verified", "rsvp_id", rsvpID)

	return &ConfirmCodeResponse{Success: true, RSVPID: rsvpID}, nil
}

// resolveAudit is bookkeeping only; its failures never change the outcome.
func (s *verificationService) resolveAudit(ctx context.Context, logger *log.Logger, phone, status string) {
	if err := s.audits.ResolveLatest(ctx, phone, status, s.now()); err != nil {
		logger.Debug("Could not resolve verification audit row", "status", status, "error", err)
	}
}
