package router

import (
	"github.com/gin-gonic/gin"
)

type RequestContext = gin.Context

type MiddlewareFunc = gin.HandlerFunc

type ServiceResult struct {
	StatusCode int    `json:"code"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	// Condition names the failure class for clients that branch on it.
	Condition string `json:"condition,omitempty"`
	// Attachment, when set, is written verbatim instead of the JSON envelope.
	Attachment *Attachment `json:"-"`
}

// Attachment is a non-JSON payload such as a CSV export.
type Attachment struct {
	ContentType string
	Filename    string
	Body        []byte
}

type RateLimitResponse struct {
	Policy            string `json:"policy"`
	Limit             int    `json:"limit"`
	Window            string `json:"window"`
	RetryAfterSeconds int    `json:"retry_after_seconds"`
}

type HandlerFunction func(*RequestContext) *ServiceResult

type RESTController struct {
	name         string
	mountPoint   string
	version      string
	handlerCount int
	prepare      func(*RouterService, *RESTController)
}

func (result *ServiceResult) ToJSON() gin.H {
	body := gin.H{
		"code":    result.StatusCode,
		"data":    result.Data,
		"message": result.Message,
	}

	if result.Condition != "" {
		body["condition"] = result.Condition
	}

	return body
}
