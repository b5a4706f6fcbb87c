package rsvpclient

import (
	"context"
	"sync"
	"time"
)

const (
	ResendCooldownSeconds = 60
	DefaultSuccessDelay   = time.Second
	DefaultCloseDelay     = 500 * time.Millisecond
)

// Messages shown inside the modal.
const (
	MessageWrongCode   = "קוד שגוי, אנא נסה שנית"
	MessageVerifyError = "אירעה שגיאה בעת אימות הקוד, אנא נסה שנית"
	MessageSendFailed  = "לא הצלחנו לשלוח קוד חדש, אנא נסה שנית מאוחר יותר"
)

type ModalConfig struct {
	// Send requests a code and reports whether it went out.
	Send func(ctx context.Context) bool
	// Verify reports false with a nil error for a wrong code.
	Verify    func(ctx context.Context, code string) (bool, error)
	OnSuccess func()
	// OnBypass enables the bypass control when set.
	OnBypass func()
	OnClose  func()

	SuccessDelay time.Duration
	CloseDelay   time.Duration
	// AfterFunc schedules delayed work; time.AfterFunc when nil.
	AfterFunc func(d time.Duration, f func())
}

// ModalView is a snapshot for rendering.
type ModalView struct {
	Open             bool
	Cells            [CodeLength]string
	Active           int
	Countdown        int
	InFlight         bool
	Error            string
	Success          bool
	ConfirmingBypass bool
	CanVerify        bool
	CanResend        bool
	BypassAvailable  bool
}

// Modal is the verification dialog. Its state is guarded by a mutex because
// the cooldown is ticked from another goroutine; callbacks run unlocked.
type Modal struct {
	cfg ModalConfig

	mu               sync.Mutex
	open             bool
	generation       int
	input            CodeInput
	countdown        int
	inFlight         bool
	errMessage       string
	success          bool
	confirmingBypass bool
}

func NewModal(cfg ModalConfig) *Modal {
	if cfg.SuccessDelay <= 0 {
		cfg.SuccessDelay = DefaultSuccessDelay
	}
	if cfg.CloseDelay <= 0 {
		cfg.CloseDelay = DefaultCloseDelay
	}
	if cfg.AfterFunc == nil {
		cfg.AfterFunc = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	}
	return &Modal{cfg: cfg}
}

// Open resets the dialog and sends the first code right away.
func (m *Modal) Open(ctx context.Context) {
	m.mu.Lock()
	m.open = true
	m.generation++
	m.input.Reset()
	m.countdown = ResendCooldownSeconds
	m.errMessage = ""
	m.success = false
	m.confirmingBypass = false
	m.inFlight = false
	m.mu.Unlock()

	m.send(ctx)
}

// Tick advances the resend cooldown by one second.
func (m *Modal) Tick() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.open && m.countdown > 0 {
		m.countdown--
	}
}

// Resend reports false when the control is disabled.
func (m *Modal) Resend(ctx context.Context) bool {
	m.mu.Lock()
	allowed := m.canResendLocked()
	m.mu.Unlock()

	if !allowed {
		return false
	}
	return m.send(ctx)
}

func (m *Modal) send(ctx context.Context) bool {
	m.mu.Lock()
	if !m.open || m.inFlight {
		m.mu.Unlock()
		return false
	}
	m.inFlight = true
	m.errMessage = ""
	generation := m.generation
	m.mu.Unlock()

	sent := m.cfg.Send != nil && m.cfg.Send(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	if generation != m.generation {
		return sent
	}
	m.inFlight = false
	if sent {
		m.countdown = ResendCooldownSeconds
	} else {
		m.countdown = 0
		m.errMessage = MessageSendFailed
	}
	return sent
}

func (m *Modal) Type(ch rune) {
	m.edit(func(in *CodeInput) { in.Type(ch) })
}

func (m *Modal) Backspace() {
	m.edit(func(in *CodeInput) { in.Backspace() })
}

func (m *Modal) Left() {
	m.edit(func(in *CodeInput) { in.Left() })
}

func (m *Modal) Right() {
	m.edit(func(in *CodeInput) { in.Right() })
}

func (m *Modal) Paste(text string) {
	m.edit(func(in *CodeInput) { in.Paste(text) })
}

func (m *Modal) edit(apply func(in *CodeInput)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.open || m.inFlight || m.success {
		return
	}
	apply(&m.input)
}

// Verify submits the entered code. It does nothing unless all six digits
// are present and no request is running.
func (m *Modal) Verify(ctx context.Context) {
	m.mu.Lock()
	if !m.canVerifyLocked() {
		m.mu.Unlock()
		return
	}
	m.inFlight = true
	m.errMessage = ""
	code := m.input.Code()
	generation := m.generation
	m.mu.Unlock()

	verified, err := m.cfg.Verify(ctx, code)

	m.mu.Lock()
	if generation != m.generation {
		m.mu.Unlock()
		return
	}
	m.inFlight = false
	switch {
	case err != nil:
		m.errMessage = MessageVerifyError
	case !verified:
		m.errMessage = MessageWrongCode
	default:
		m.success = true
	}
	success := m.success
	m.mu.Unlock()

	if !success {
		return
	}

	m.cfg.AfterFunc(m.cfg.SuccessDelay, func() {
		if m.cfg.OnSuccess != nil {
			m.cfg.OnSuccess()
		}
		m.cfg.AfterFunc(m.cfg.CloseDelay, m.finish)
	})
}

// Bypass shows the confirmation on the first call and bypasses on the second.
func (m *Modal) Bypass() {
	m.mu.Lock()
	if !m.open || m.cfg.OnBypass == nil || m.success || m.inFlight {
		m.mu.Unlock()
		return
	}
	if !m.confirmingBypass {
		m.confirmingBypass = true
		m.mu.Unlock()
		return
	}
	m.success = true
	m.mu.Unlock()

	m.cfg.AfterFunc(m.cfg.SuccessDelay, func() {
		m.cfg.OnBypass()
		m.finish()
	})
}

// CancelBypass returns from the bypass confirmation to code entry.
func (m *Modal) CancelBypass() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.confirmingBypass = false
}

// Close abandons the attempt. It is ignored while the success affirmation is showing.
func (m *Modal) Close() {
	m.mu.Lock()
	if !m.open || m.success {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	m.finish()
}

func (m *Modal) finish() {
	m.mu.Lock()
	if !m.open {
		m.mu.Unlock()
		return
	}
	m.open = false
	m.generation++
	m.inFlight = false
	m.mu.Unlock()

	if m.cfg.OnClose != nil {
		m.cfg.OnClose()
	}
}

func (m *Modal) View() ModalView {
	m.mu.Lock()
	defer m.mu.Unlock()

	return ModalView{
		Open:             m.open,
		Cells:            m.input.Cells(),
		Active:           m.input.Active(),
		Countdown:        m.countdown,
		InFlight:         m.inFlight,
		Error:            m.errMessage,
		Success:          m.success,
		ConfirmingBypass: m.confirmingBypass,
		CanVerify:        m.canVerifyLocked(),
		CanResend:        m.canResendLocked(),
		BypassAvailable:  m.cfg.OnBypass != nil,
	}
}

func (m *Modal) canVerifyLocked() bool {
	return m.open && m.input.Complete() && !m.inFlight && !m.success
}

func (m *Modal) canResendLocked() bool {
	return m.open && m.countdown == 0 && !m.inFlight && !m.success
}
