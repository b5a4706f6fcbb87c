package otpgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/akeren/purim-rsvp/internal/log"
	"github.com/akeren/purim-rsvp/pkg/circuitbreaker"
	"github.com/akeren/purim-rsvp/pkg/validation"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	DefaultInforuBaseURL = "https://capi.inforu.co.il/api/Otp"

	inforuSendPath         = "/SendOtp"
	inforuAuthenticatePath = "/Authenticate"
	inforuSuccessStatus    = 1
	maxResponseBytes       = 64 << 10

	tracerName = "github.com/akeren/purim-rsvp/internal/otpgateway"
)

var errMalformedResponse = errors.New("malformed gateway response")

type InforuConfig struct {
	BaseURL  string
	Username string
	Token    string
	Timeout  time.Duration

	// BreakerThreshold consecutive transport failures stop calls to the
	// provider for BreakerOpenFor. Zero values use the breaker defaults.
	BreakerThreshold int
	BreakerOpenFor   time.Duration

	HTTPClient *http.Client
	Metrics    *Metrics
}

// InforuGateway talks to the InforU OTP API.
type InforuGateway struct {
	baseURL  string
	username string
	token    string
	client   *http.Client
	breaker  *circuitbreaker.Breaker
	metrics  *Metrics
	logger   *log.Logger
}

type inforuUser struct {
	Username string `json:"Username"`
	Token    string `json:"Token"`
}

type inforuSendData struct {
	OtpType        string `json:"OtpType"`
	OtpValue       string `json:"OtpValue"`
	MessageContent string `json:"MessageContent"`
}

type inforuAuthenticateData struct {
	OtpCode  string `json:"OtpCode"`
	OtpValue string `json:"OtpValue"`
}

type inforuRequest struct {
	User inforuUser `json:"User"`
	Data any        `json:"Data"`
}

type inforuResponse struct {
	StatusID            *int   `json:"StatusId"`
	StatusDescription   string `json:"StatusDescription"`
	DetailedDescription string `json:"DetailedDescription"`
}

func NewInforuGateway(cfg InforuConfig, logger *log.Logger) *InforuGateway {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultInforuBaseURL
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	if logger == nil {
		logger = log.NewLoggerWithJSONOutput()
	}

	g := &InforuGateway{
		baseURL:  baseURL,
		username: cfg.Username,
		token:    cfg.Token,
		client:   client,
		metrics:  cfg.Metrics,
		logger:   logger,
	}
	g.breaker = circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.BreakerThreshold,
		OpenFor:          cfg.BreakerOpenFor,
		OnStateChange:    g.breakerChanged,
	})
	g.metrics.setCircuitState(circuitbreaker.Closed)

	return g
}

func (g *InforuGateway) breakerChanged(from, to circuitbreaker.State) {
	g.metrics.setCircuitState(to)

	if to == circuitbreaker.Open {
		g.logger.Error("OTP gateway circuit opened", "from", from.String())
		return
	}
	g.logger.Info("OTP gateway circuit state changed", "from", from.String(), "to", to.String())
}

func (g *InforuGateway) SendCode(ctx context.Context, phoneNumber, purposeText string) bool {
	phone := validation.DigitsOnly(phoneNumber)

	return g.call(ctx, "send", inforuSendPath, phone, inforuSendData{
		OtpType:        "sms",
		OtpValue:       phone,
		MessageContent: MessageTemplate(purposeText),
	})
}

func (g *InforuGateway) VerifyCode(ctx context.Context, phoneNumber, code string) bool {
	phone := validation.DigitsOnly(phoneNumber)

	return g.call(ctx, "verify", inforuAuthenticatePath, phone, inforuAuthenticateData{
		OtpCode:  strings.TrimSpace(code),
		OtpValue: phone,
	})
}

func (g *InforuGateway) call(ctx context.Context, operation, path, phone string, data any) bool {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "otpgateway."+operation)
	defer span.End()

	logger := log.GetLoggerInstanceFromContext(ctx, g.logger)
	start := time.Now()

	accepted := false
	err := g.breaker.Do(func() error {
		var callErr error
		accepted, callErr = g.post(ctx, logger, path, data)
		return callErr
	})

	result := resultSuccess
	switch {
	case errors.Is(err, circuitbreaker.ErrOpen):
		result = resultCircuitOpen
	case err != nil:
		result = resultError
	case !accepted:
		result = resultRejected
	}

	g.metrics.observe(operation, result, time.Since(start))
	span.SetAttributes(
		attribute.String("otp.operation", operation),
		attribute.String("otp.result", result),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, result)
		logger.Warn("OTP gateway call failed",
			"operation", operation,
			"phone", maskPhone(phone),
			"result", result,
			"error", err,
		)
		return false
	}

	logger.Info("OTP gateway call completed",
		"operation", operation,
		"phone", maskPhone(phone),
		"result", result,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	return accepted
}

// post reports (accepted, nil) for any well-formed provider answer; errors are
// reserved for transport and protocol failures so the breaker only trips on those.
func (g *InforuGateway) post(ctx context.Context, logger *log.Logger, path string, data any) (bool, error) {
	body, err := json.Marshal(inforuRequest{
		User: inforuUser{Username: g.username, Token: g.token},
		Data: data,
	})
	if err != nil {
		return false, fmt.Errorf("encode gateway request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		log.LogOutboundCall(logger, req, 0, time.Since(start), err)
		return false, fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	log.LogOutboundCall(logger, req, resp.StatusCode, time.Since(start), err)
	if err != nil {
		return false, fmt.Errorf("read gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, fmt.Errorf("gateway responded with HTTP %d", resp.StatusCode)
	}

	var parsed inforuResponse
	if err := json.Unmarshal(raw, &parsed); err != nil || parsed.StatusID == nil {
		return false, errMalformedResponse
	}

	logger.Debug("OTP gateway response",
		"status_id", *parsed.StatusID,
		"status_description", parsed.StatusDescription,
		"detailed_description", parsed.DetailedDescription,
	)

	return *parsed.StatusID == inforuSuccessStatus, nil
}

// Healthy reports false while the circuit to the provider is open.
func (g *InforuGateway) Healthy() bool {
	return g.breaker.State() != circuitbreaker.Open
}
