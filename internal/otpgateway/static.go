package otpgateway

import (
	"context"
	"crypto/subtle"
	"sync"

	"github.com/akeren/purim-rsvp/internal/log"
	"github.com/akeren/purim-rsvp/pkg/validation"
)

// StaticGateway accepts one fixed code and sends nothing. It exists for local
// development and is refused outside development-like environments.
type StaticGateway struct {
	code   string
	logger *log.Logger

	mu   sync.Mutex
	sent []string
}

func NewStaticGateway(code string, logger *log.Logger) *StaticGateway {
	if logger == nil {
		logger = log.NewLoggerWithJSONOutput()
	}
	return &StaticGateway{code: code, logger: logger}
}

func (g *StaticGateway) SendCode(ctx context.Context, phoneNumber, purposeText string) bool {
	phone := validation.DigitsOnly(phoneNumber)

	g.mu.Lock()
	g.sent = append(g.sent, phone)
	g.mu.Unlock()

	log.GetLoggerInstanceFromContext(ctx, g.logger).Debug("Static OTP gateway send",
		"phone", maskPhone(phone),
		"message", MessageTemplate(purposeText),
	)
	return true
}

func (g *StaticGateway) VerifyCode(ctx context.Context, phoneNumber, code string) bool {
	return g.code != "" && subtle.ConstantTimeCompare([]byte(code), []byte(g.code)) == 1
}

// Sent lists the digits-only numbers a code was sent to, oldest first.
func (g *StaticGateway) Sent() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]string, len(g.sent))
	copy(out, g.sent)
	return out
}

func (g *StaticGateway) Healthy() bool {
	return true
}
