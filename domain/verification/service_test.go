package verification

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/akeren/purim-rsvp/internal/log"
	"github.com/akeren/purim-rsvp/internal/models"
	"github.com/akeren/purim-rsvp/internal/otpgateway"
	apperrors "github.com/akeren/purim-rsvp/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2026, 3, 13, 20, 0, 0, 0, time.UTC)

type fakeGateway struct {
	sendOK   bool
	verifyOK bool

	sentTo      string
	sentPurpose string
	verifyCalls int
}

func (g *fakeGateway) SendCode(_ context.Context, phoneNumber, purposeText string) bool {
	g.sentTo = phoneNumber
	g.sentPurpose = purposeText
	return g.sendOK
}

func (g *fakeGateway) VerifyCode(_ context.Context, _, _ string) bool {
	g.verifyCalls++
	return g.verifyOK
}

type fixture struct {
	service VerificationService
	gateway *fakeGateway
	records *MockRecordVerifier
	audits  *MockOtpRequestRepository
}

func newFixture(t *testing.T, gateway *fakeGateway) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	records := NewMockRecordVerifier(ctrl)
	audits := NewMockOtpRequestRepository(ctrl)

	service := NewVerificationService(log.NewLogger(io.Discard, log.LevelDebug), gateway, records, audits)
	service.(*verificationService).now = func() time.Time { return fixedNow }

	return fixture{service: service, gateway: gateway, records: records, audits: audits}
}

func TestVerificationService_RequestCode(t *testing.T) {
	t.Run("sends with the default purpose and records the send", func(t *testing.T) {
		f := newFixture(t, &fakeGateway{sendOK: true})

		f.audits.EXPECT().
			CreateOtpRequest(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, r *models.OtpRequest) (*models.OtpRequest, error) {
				assert.Equal(t, "0501234567", r.PhoneNumber)
				assert.Equal(t, otpgateway.DefaultPurpose, r.MessagePrefix)
				require.NotNil(t, r.RSVPID)
				assert.Equal(t, "rsvp-1", *r.RSVPID)
				assert.Equal(t, models.OtpRequestStatusCodeSent, r.Status)
				r.ID = "req-1"
				return r, nil
			})

		result, err := f.service.RequestCode(context.Background(), &RequestCodeRequest{
			PhoneNumber: "050-123-4567",
			RSVPID:      "rsvp-1",
		})

		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, "req-1", result.RequestID)
		assert.Equal(t, "0501234567", f.gateway.sentTo)
		assert.Equal(t, otpgateway.DefaultPurpose, f.gateway.sentPurpose)
	})

	t.Run("custom purpose without an rsvp id", func(t *testing.T) {
		f := newFixture(t, &fakeGateway{sendOK: true})

		f.audits.EXPECT().
			CreateOtpRequest(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, r *models.OtpRequest) (*models.OtpRequest, error) {
				assert.Nil(t, r.RSVPID)
				return r, nil
			})

		_, err := f.service.RequestCode(context.Background(), &RequestCodeRequest{
			PhoneNumber:   "972501234567",
			MessagePrefix: "לעריכת הפרטים שלך",
		})

		require.NoError(t, err)
		assert.Equal(t, "לעריכת הפרטים שלך", f.gateway.sentPurpose)
	})

	t.Run("malformed phone is invalid-argument", func(t *testing.T) {
		for _, phone := range []string{"", "12345", "12345678901234"} {
			f := newFixture(t, &fakeGateway{sendOK: true})

			_, err := f.service.RequestCode(context.Background(), &RequestCodeRequest{PhoneNumber: phone})

			assert.Equal(t, apperrors.ConditionInvalidArgument, apperrors.Condition(err), phone)
			assert.Empty(t, f.gateway.sentTo)
		}
	})

	t.Run("gateway failure is unavailable and nothing is recorded", func(t *testing.T) {
		f := newFixture(t, &fakeGateway{sendOK: false})

		_, err := f.service.RequestCode(context.Background(), &RequestCodeRequest{PhoneNumber: "0501234567"})

		assert.Equal(t, apperrors.ConditionUnavailable, apperrors.Condition(err))
		assert.Equal(t, MessageSendFailed, apperrors.GetHumanReadableMessage(err))
	})

	t.Run("audit failure is internal", func(t *testing.T) {
		f := newFixture(t, &fakeGateway{sendOK: true})

		f.audits.EXPECT().
			CreateOtpRequest(gomock.Any(), gomock.Any()).
			Return(nil, apperrors.NewDatabaseError("boom", nil))

		_, err := f.service.RequestCode(context.Background(), &RequestCodeRequest{PhoneNumber: "0501234567"})

		assert.Equal(t, apperrors.ConditionInternal, apperrors.Condition(err))
		assert.Equal(t, MessageSendInternal, apperrors.GetHumanReadableMessage(err))
	})
}

func TestVerificationService_ConfirmCode(t *testing.T) {
	t.Run("correct code marks the record verified", func(t *testing.T) {
		f := newFixture(t, &fakeGateway{verifyOK: true})

		gomock.InOrder(
			f.records.EXPECT().ConfirmPhone(gomock.Any(), "rsvp-1", "0501234567", models.VerificationMethodOTP, fixedNow).Return(nil),
			f.audits.EXPECT().ResolveLatest(gomock.Any(), "0501234567", models.OtpRequestStatusConfirmed, fixedNow).Return(nil),
		)

		result, err := f.service.ConfirmCode(context.Background(), &ConfirmCodeRequest{
			PhoneNumber: "050 123 4567",
			Code:        "123456",
			RSVPID:      "rsvp-1",
		})

		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, "rsvp-1", result.RSVPID)
	})

	t.Run("international phone is matched in national form", func(t *testing.T) {
		f := newFixture(t, &fakeGateway{verifyOK: true})

		f.records.EXPECT().ConfirmPhone(gomock.Any(), "rsvp-1", "0501234567", models.VerificationMethodOTP, fixedNow).Return(nil)
		f.audits.EXPECT().ResolveLatest(gomock.Any(), "972501234567", models.OtpRequestStatusConfirmed, fixedNow).Return(nil)

		_, err := f.service.ConfirmCode(context.Background(), &ConfirmCodeRequest{
			PhoneNumber: "+972 50 123 4567",
			Code:        "123456",
			RSVPID:      "rsvp-1",
		})

		require.NoError(t, err)
	})

	t.Run("missing fields are invalid-argument", func(t *testing.T) {
		cases := []ConfirmCodeRequest{
			{Code: "123456", RSVPID: "rsvp-1"},
			{PhoneNumber: "0501234567", RSVPID: "rsvp-1"},
			{PhoneNumber: "0501234567", Code: "123456"},
		}

		for _, req := range cases {
			f := newFixture(t, &fakeGateway{verifyOK: true})

			_, err := f.service.ConfirmCode(context.Background(), &req)

			assert.Equal(t, apperrors.ConditionInvalidArgument, apperrors.Condition(err))
			assert.Equal(t, MessageMissingFields, apperrors.GetHumanReadableMessage(err))
			assert.Zero(t, f.gateway.verifyCalls)
		}
	})

	t.Run("wrong code leaves the record and the audit row untouched", func(t *testing.T) {
		// No EXPECT on either mock: any write fails the test.
		f := newFixture(t, &fakeGateway{verifyOK: false})

		_, err := f.service.ConfirmCode(context.Background(), &ConfirmCodeRequest{
			PhoneNumber: "0501234567",
			Code:        "000000",
			RSVPID:      "rsvp-1",
		})

		assert.Equal(t, apperrors.ConditionInvalidArgument, apperrors.Condition(err))
		assert.Equal(t, MessageWrongCode, apperrors.GetHumanReadableMessage(err))
	})

	t.Run("deleted record is internal", func(t *testing.T) {
		f := newFixture(t, &fakeGateway{verifyOK: true})

		f.records.EXPECT().
			ConfirmPhone(gomock.Any(), "gone", "0501234567", gomock.Any(), gomock.Any()).
			Return(apperrors.NewNotFoundError("RSVP not found", nil))

		_, err := f.service.ConfirmCode(context.Background(), &ConfirmCodeRequest{
			PhoneNumber: "0501234567",
			Code:        "123456",
			RSVPID:      "gone",
		})

		assert.Equal(t, apperrors.ConditionInternal, apperrors.Condition(err))
		assert.Equal(t, MessageVerifyFailed, apperrors.GetHumanReadableMessage(err))
	})

	t.Run("phone that does not belong to the record is internal", func(t *testing.T) {
		f := newFixture(t, &fakeGateway{verifyOK: true})

		f.records.EXPECT().
			ConfirmPhone(gomock.Any(), "someone-else", "0501234567", models.VerificationMethodOTP, fixedNow).
			Return(apperrors.NewNotFoundError("RSVP not found", nil))

		_, err := f.service.ConfirmCode(context.Background(), &ConfirmCodeRequest{
			PhoneNumber: "0501234567",
			Code:        "123456",
			RSVPID:      "someone-else",
		})

		assert.Equal(t, apperrors.ConditionInternal, apperrors.Condition(err))
		assert.Equal(t, MessageVerifyFailed, apperrors.GetHumanReadableMessage(err))
	})

	t.Run("audit failure does not change the outcome", func(t *testing.T) {
		f := newFixture(t, &fakeGateway{verifyOK: true})

		f.records.EXPECT().ConfirmPhone(gomock.Any(), "rsvp-1", gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.audits.EXPECT().
			ResolveLatest(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(apperrors.NewNotFoundError("no pending verification request", nil))

		result, err := f.service.ConfirmCode(context.Background(), &ConfirmCodeRequest{
			PhoneNumber: "0501234567",
			Code:        "123456",
			RSVPID:      "rsvp-1",
		})

		require.NoError(t, err)
		assert.True(t, result.Success)
	})
}
