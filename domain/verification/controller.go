package verification

import (
	"net/http"

	"github.com/akeren/purim-rsvp/config/router"
	"github.com/akeren/purim-rsvp/domain/rsvp"
	"github.com/akeren/purim-rsvp/internal/log"
	"github.com/akeren/purim-rsvp/internal/otpgateway"
	apperrors "github.com/akeren/purim-rsvp/pkg/errors"
	"gorm.io/gorm"
)

func NewVerificationController(
	db *gorm.DB,
	logger *log.Logger,
	gateway otpgateway.Gateway,
	tokens *rsvp.AccessTokens,
) *router.RESTController {

	return router.NewVersionedRESTController(
		"VerificationController",
		"v1",
		"/verification",
		func(rs *router.RouterService, c *router.RESTController) {
			service := NewVerificationService(
				logger,
				gateway,
				rsvp.NewRSVPRepository(db),
				NewOtpRequestRepository(db),
			)

			rs.AddPostHandler(c, nil, "/request-code", requestCodeHandler(service))
			rs.AddPostHandler(c, nil, "/confirm-code", confirmCodeHandler(service, tokens))
		},
	)
}

func requestCodeHandler(service VerificationService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req RequestCodeRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind request", "error", err)
			return invalidPayloadResult(err, &req, MessageInvalidPhone)
		}

		response, err := service.RequestCode(ctx.Request.Context(), &req)
		if err != nil {
			return conditionErrorResult(err)
		}

		return router.OKResult(response, "Verification code sent")
	}
}

func confirmCodeHandler(service VerificationService, tokens *rsvp.AccessTokens) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req ConfirmCodeRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind request", "error", err)
			return invalidPayloadResult(err, &req, MessageMissingFields)
		}

		response, err := service.ConfirmCode(ctx.Request.Context(), &req)
		if err != nil {
			return conditionErrorResult(err)
		}

		access, err := tokens.Issue(response.RSVPID, rsvp.ScopeRecord)
		if err != nil {
			logger.Error("Failed to issue record access token", "rsvp_id", response.RSVPID, "error", err)
			return router.ConditionResult(http.StatusInternalServerError, apperrors.ConditionInternal, MessageVerifyFailed)
		}
		response.AccessToken = access.Token
		response.AccessTokenExpiresAt = access.ExpiresAt

		return router.OKResult(response, "Phone number verified")
	}
}

func invalidPayloadResult(err error, model interface{}, message string) *router.ServiceResult {
	result := router.ConditionResult(http.StatusBadRequest, apperrors.ConditionInvalidArgument, message)
	if validationErrors := apperrors.FormatValidationErrors(err, model); len(validationErrors) > 0 {
		result.Data = validationErrors
	}
	return result
}

func conditionErrorResult(err error) *router.ServiceResult {
	condition := apperrors.Condition(err)

	status := apperrors.HTTPStatusCode(err)
	if condition == apperrors.ConditionInternal {
		status = http.StatusInternalServerError
	}

	return router.ConditionResult(status, condition, apperrors.GetHumanReadableMessage(err))
}
