package admin

import (
	"time"

	"github.com/akeren/purim-rsvp/config/router"
	"github.com/akeren/purim-rsvp/domain/rsvp"
	"github.com/akeren/purim-rsvp/internal/log"
	apperrors "github.com/akeren/purim-rsvp/pkg/errors"
	"github.com/akeren/purim-rsvp/pkg/ratelimit"
	"gorm.io/gorm"
)

// Password guessing gets a much smaller budget than the dashboard itself.
var loginPolicy = ratelimit.Policy{Name: "admin-login", Requests: 5, Window: time.Minute}

func NewAdminController(
	db *gorm.DB,
	logger *log.Logger,
	cache Cache,
	authConfig AuthConfig,
) *router.RESTController {

	return router.NewVersionedRESTController(
		"AdminController",
		"v1",
		"/admin",
		func(rs *router.RouterService, c *router.RESTController) {
			auth := NewAuthenticator(authConfig)
			service := NewAdminService(logger, rsvp.NewRSVPRepository(db), auth, cache)

			loginLimiter := rs.Limiter(loginPolicy)
			requireAdmin := RequireAdmin(auth)

			rs.AddPostHandler(c, loginLimiter, "/login", loginHandler(service))
			rs.AddGetHandler(c, nil, "/rsvps", listRSVPsHandler(service), requireAdmin)
			rs.AddGetHandler(c, nil, "/rsvps/stats", statsHandler(service), requireAdmin)
			rs.AddGetHandler(c, nil, "/rsvps/export", exportHandler(service), requireAdmin)
			rs.AddPutHandler(c, nil, "/rsvps/:id", updateRSVPHandler(service), requireAdmin)
			rs.AddDeleteHandler(c, nil, "/rsvps/:id", deleteRSVPHandler(service), requireAdmin)
		},
	)
}

func loginHandler(service AdminService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req LoginRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind request", "error", err)

			validationErrors := apperrors.FormatValidationErrors(err, &req)
			if len(validationErrors) > 0 {
				return router.BadRequestResult("Invalid request payload", validationErrors)
			}

			return router.BadRequestResult("Invalid request body", nil)
		}

		response, err := service.Login(ctx.Request.Context(), &req)
		if err != nil {
			return router.ErrorResult(
				apperrors.HTTPStatusCode(err),
				apperrors.GetHumanReadableMessage(err),
				nil,
			)
		}

		return router.OKResult(response, "Login successful")
	}
}

func listRSVPsHandler(service AdminService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var query ListQuery

		if err := ctx.ShouldBindQuery(&query); err != nil {
			logger.Error("Failed to bind query", "error", err)

			validationErrors := apperrors.FormatValidationErrors(err, &query)
			if len(validationErrors) > 0 {
				return router.BadRequestResult("Invalid query parameters", validationErrors)
			}

			return router.BadRequestResult("Invalid query parameters", nil)
		}

		response, err := service.ListRSVPs(ctx.Request.Context(), &query)
		if err != nil {
			return router.ErrorResult(
				apperrors.HTTPStatusCode(err),
				apperrors.GetHumanReadableMessage(err),
				nil,
			)
		}

		return router.OKResult(response, "RSVPs retrieved successfully")
	}
}

func statsHandler(service AdminService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		response, err := service.Stats(ctx.Request.Context())
		if err != nil {
			return router.ErrorResult(
				apperrors.HTTPStatusCode(err),
				apperrors.GetHumanReadableMessage(err),
				nil,
			)
		}

		return router.OKResult(response, "Stats computed successfully")
	}
}

func exportHandler(service AdminService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		body, err := service.ExportCSV(ctx.Request.Context())
		if err != nil {
			return router.ErrorResult(
				apperrors.HTTPStatusCode(err),
				apperrors.GetHumanReadableMessage(err),
				nil,
			)
		}

		return router.AttachmentResult(csvContentType, csvFilename, body)
	}
}

func updateRSVPHandler(service AdminService) router.HandlerFunction {
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

func deleteRSVPHandler(service AdminService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		id, errResult := router.ParseUUIDParam(ctx, "id")
		if errResult != nil {
			return errResult
		}

		if err := service.DeleteRSVP(ctx.Request.Context(), id); err != nil {
			return router.ErrorResult(
				apperrors.HTTPStatusCode(err),
				apperrors.GetHumanReadableMessage(err),
				nil,
			)
		}

		return router.OKResult(nil, "RSVP deleted successfully")
	}
}
