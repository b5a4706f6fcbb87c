package rsvp

import (
	"net/http"

	"github.com/akeren/purim-rsvp/config/router"
	apperrors "github.com/akeren/purim-rsvp/pkg/errors"
	"gorm.io/gorm"

	"github.com/akeren/purim-rsvp/internal/log"
)

func NewRSVPController(
	db *gorm.DB,
	logger *log.Logger,
	settings Settings,
	tokens *AccessTokens,
) *router.RESTController {

	return router.NewVersionedRESTController(
		"RSVPController",
		"v1",
		"/rsvps",
		func(rs *router.RouterService, c *router.RESTController) {
			repository := NewRSVPRepository(db)
			service := NewRSVPService(logger, repository, settings)

			recordAccess := RequireRecordAccess(tokens, ScopeRecord)

			rs.AddPostHandler(c, nil, "", createRSVPHandler(service, tokens))
			rs.AddGetHandler(c, nil, "/lookup", lookupRSVPHandler(service))
			rs.AddGetHandler(c, nil, "/:id", getRSVPHandler(service), recordAccess)
			rs.AddPutHandler(c, nil, "/:id", updateRSVPHandler(service), recordAccess)
			rs.AddPostHandler(c, nil, "/:id/bypass-verification", bypassVerificationHandler(service, tokens),
				RequireRecordAccess(tokens, ScopePending, ScopeRecord))
		},
	)
}

// NewBranchController serves the branch directory the attendee form is built from.
func NewBranchController() *router.RESTController {
	response := NewBranchesResponse()

	return router.NewVersionedRESTController(
		"BranchController",
		"v1",
		"/branches",
		func(rs *router.RouterService, c *router.RESTController) {
			rs.AddGetHandler(c, nil, "", func(ctx *router.RequestContext) *router.ServiceResult {
				return router.OKResult(response, "Branches retrieved successfully")
			})
		},
	)
}

func createRSVPHandler(service RSVPService, tokens *AccessTokens) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req CreateRSVPRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind request", "error", err)

			validationErrors := apperrors.FormatValidationErrors(err, &req)
			if len(validationErrors) > 0 {
				return router.BadRequestResult("Invalid request payload", validationErrors)
			}

			return router.BadRequestResult("Invalid request body", nil)
		}

		response, err := service.CreateRSVP(ctx.Request.Context(), &req, ctx.ClientIP())
		if err != nil {
			if existing, ok := ExistingRSVPFrom(err); ok {
				return router.ErrorResult(
					http.StatusConflict,
					apperrors.GetHumanReadableMessage(err),
					LookupResponse{Exists: true, ID: existing.ID, PhoneVerified: existing.PhoneVerified},
				)
			}

			return router.ErrorResult(
				apperrors.HTTPStatusCode(err),
				apperrors.GetHumanReadableMessage(err),
				nil,
			)
		}

		// The creator may only bypass with this token; reading needs a verified phone.
		body, errResult := withAccessToken(logger, tokens, response, ScopePending)
		if errResult != nil {
			return errResult
		}

		return router.CreatedResult(body, "RSVP")
	}
}

func lookupRSVPHandler(service RSVPService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		phone := ctx.Query("phone")
		if phone == "" {
			return router.BadRequestResult("phone query parameter is required", nil)
		}

		response, err := service.LookupByPhone(ctx.Request.Context(), phone)
		if err != nil {
			return router.ErrorResult(
				apperrors.HTTPStatusCode(err),
				apperrors.GetHumanReadableMessage(err),
				nil,
			)
		}

		return router.OKResult(response, "Lookup completed")
	}
}

func getRSVPHandler(service RSVPService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		id, errResult := router.ParseUUIDParam(ctx, "id")
		if errResult != nil {
			return errResult
		}

		response, err := service.FindRSVPByID(ctx.Request.Context(), id)
		if err != nil {
			return router.ErrorResult(
				apperrors.HTTPStatusCode(err),
				apperrors.GetHumanReadableMessage(err),
				nil,
			)
		}

		return router.OKResult(response, "RSVP retrieved successfully")
	}
}

func updateRSVPHandler(service RSVPService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		id, errResult := router.ParseUUIDParam(ctx, "id")
		if errResult != nil {
			return errResult
		}

		var req UpdateRSVPRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind request", "error", err)

			validationErrors := apperrors.FormatValidationErrors(err, &req)
			if len(validationErrors) > 0 {
				return router.BadRequestResult("Invalid request payload", validationErrors)
			}

			return router.BadRequestResult("Invalid request body", nil)
		}

		response, err := service.UpdateRSVP(ctx.Request.Context(), id, &req)
		if err != nil {
			return router.ErrorResult(
				apperrors.HTTPStatusCode(err),
				apperrors.GetHumanReadableMessage(err),
				nil,
			)
		}

		return router.OKResult(response, "RSVP updated successfully")
	}
}

func bypassVerificationHandler(service RSVPService, tokens *AccessTokens) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		id, errResult := router.ParseUUIDParam(ctx, "id")
		if errResult != nil {
			return errResult
		}

		response, err := service.BypassVerification(ctx.Request.Context(), id)
		if err != nil {
			return router.ErrorResult(
				apperrors.HTTPStatusCode(err),
				apperrors.GetHumanReadableMessage(err),
				nil,
			)
		}

		body, errResult := withAccessToken(logger, tokens, response, ScopeRecord)
		if errResult != nil {
			return errResult
		}

		return router.OKResult(body, "RSVP verification bypassed")
	}
}

func withAccessToken(logger *log.Logger, tokens *AccessTokens, response *RSVPResponse, scope AccessScope) (*RSVPAccessResponse, *router.ServiceResult) {
	token, err := tokens.Issue(response.ID, scope)
	if err != nil {
		logger.Error("Failed to issue record access token", "rsvp_id", response.ID, "error", err)
		return nil, router.InternalServerErrorResult("unable to issue access token")
	}

	return &RSVPAccessResponse{RSVPResponse: *response, AccessToken: token}, nil
}
