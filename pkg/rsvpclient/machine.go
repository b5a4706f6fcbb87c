package rsvpclient

import (
	"context"
	"errors"
	"time"

	"github.com/akeren/purim-rsvp/internal/log"
)

// SubmissionCooldown spaces new submissions from one device.
const SubmissionCooldown = 60 * time.Second

type MachineConfig struct {
	BypassEnabled bool
	Logger        *log.Logger
	Now           func() time.Time
}

// Machine drives one device's RSVP flow. It is not safe for concurrent use.
type Machine struct {
	api    API
	cache  *LocalCache
	logger *log.Logger
	now    func() time.Time
	bypass bool

	state State
	// temporary is the record created by a new submission, held until verified.
	temporary *Record
	// summary is where edit and reverify flows return on cancel.
	summary *Record
	// token unlocks the record this device has proven ownership of.
	token string
}

func NewMachine(api API, cache *LocalCache, cfg MachineConfig) *Machine {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewLogger(nil, log.LevelSilent)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Machine{
		api:    api,
		cache:  cache,
		logger: logger,
		now:    now,
		bypass: cfg.BypassEnabled,
		state:  Loading{},
	}
}

func (m *Machine) State() State {
	return m.state
}

// Mount revalidates the cached pointer. A record the server no longer has
// drops the cache; any other failure, a rejected token included, keeps
// showing the cached snapshot.
func (m *Machine) Mount(ctx context.Context) State {
	cached, err := m.cache.Load(ctx)
	if err != nil {
		m.logger.Warn("Failed to read local cache", "error", err)
	}
	if cached == nil {
		return m.enter(FreshForm{})
	}

	m.token = cached.Token

	record, err := m.api.GetRSVP(ctx, cached.ID, m.token)
	switch {
	case IsNotFound(err):
		m.logger.Info("Cached RSVP no longer exists", "id", cached.ID)
		if err := m.cache.Clear(ctx); err != nil {
			m.logger.Warn("Failed to clear local cache", "error", err)
		}
		return m.enter(FreshForm{})
	case err != nil:
		m.logger.Warn("Failed to refresh cached RSVP", "id", cached.ID, "error", err)
		record = &cached.Data
	default:
		if err := m.cache.Save(ctx, *record, m.token, cached.Editing); err != nil {
			m.logger.Warn("Failed to refresh local cache", "error", err)
		}
	}

	if cached.Editing {
		m.summary = record
		return m.enter(EditMode{Record: *record})
	}
	return m.enter(ConfirmedSummary{Record: *record})
}

// Submit handles the form from FreshForm (new attendee) or EditMode.
func (m *Machine) Submit(ctx context.Context, form Form) (State, error) {
	switch current := m.state.(type) {
	case EditMode:
		return m.submitEdit(ctx, current.Record, form)
	case FreshForm:
		return m.submitNew(ctx, form)
	default:
		return m.state, ErrInvalidTransition
	}
}

func (m *Machine) submitNew(ctx context.Context, form Form) (State, error) {
	submission, err := form.Submission(false)
	if err != nil {
		return m.state, err
	}

	lookup, err := m.api.LookupPhone(ctx, submission.Phone)
	if err != nil {
		return m.state, err
	}
	if lookup.Exists {
		return m.pendingForExisting(*lookup, submission.Phone), nil
	}

	if last, err := m.cache.LastSubmission(ctx); err != nil {
		m.logger.Warn("Failed to read last submission time", "error", err)
	} else if !last.IsZero() {
		if elapsed := m.now().Sub(last); elapsed < SubmissionCooldown {
			return m.state, &CooldownError{Remaining: SubmissionCooldown - elapsed}
		}
	}

	record, err := m.api.CreateRSVP(ctx, submission)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Existing != nil {
			return m.pendingForExisting(*apiErr.Existing, submission.Phone), nil
		}
		return m.state, err
	}

	if err := m.cache.SetLastSubmission(ctx, m.now()); err != nil {
		m.logger.Warn("Failed to record submission time", "error", err)
	}

	m.temporary = record
	m.logger.Debug("RSVP created, awaiting verification", "id", record.ID)

	return m.enter(PendingVerification{RecordID: record.ID, Phone: record.Phone, Purpose: PurposeNewSubmission}), nil
}

func (m *Machine) pendingForExisting(lookup Lookup, phone string) State {
	purpose := PurposeCompleteVerification
	if lookup.PhoneVerified {
		purpose = PurposeReturningUser
	}
	m.logger.Debug("Phone already has an RSVP", "id", lookup.ID, "purpose", purpose)
	return m.enter(PendingVerification{RecordID: lookup.ID, Phone: phone, Purpose: purpose})
}

func (m *Machine) submitEdit(ctx context.Context, current Record, form Form) (State, error) {
	submission, err := form.Submission(true)
	if err != nil {
		return m.state, err
	}

	record, err := m.api.UpdateRSVP(ctx, current.ID, m.token, submission)
	if err != nil {
		return m.state, err
	}

	m.store(ctx, *record, false)
	m.summary = nil
	return m.enter(ConfirmedSummary{Record: *record}), nil
}

// BeginEdit asks the attendee to prove the phone before fields are unlocked.
func (m *Machine) BeginEdit() (State, error) {
	return m.fromSummary(PurposeEditAuthorization)
}

// Reverify starts an ad hoc verification of the record being viewed.
func (m *Machine) Reverify() (State, error) {
	return m.fromSummary(PurposeReverify)
}

func (m *Machine) fromSummary(purpose Purpose) (State, error) {
	current, ok := m.state.(ConfirmedSummary)
	if !ok {
		return m.state, ErrInvalidTransition
	}

	record := current.Record
	m.summary = &record
	return m.enter(PendingVerification{RecordID: record.ID, Phone: record.Phone, Purpose: purpose}), nil
}

// CancelEdit leaves EditMode without saving.
func (m *Machine) CancelEdit(ctx context.Context) (State, error) {
	current, ok := m.state.(EditMode)
	if !ok {
		return m.state, ErrInvalidTransition
	}

	m.store(ctx, current.Record, false)
	m.summary = nil
	return m.enter(ConfirmedSummary{Record: current.Record}), nil
}

// SendCode requests a code for the pending verification. It reports false
// on any failure so the modal can offer a retry.
func (m *Machine) SendCode(ctx context.Context) bool {
	pending, ok := m.state.(PendingVerification)
	if !ok {
		return false
	}

	requestID, err := m.api.RequestCode(ctx, pending.Phone, pending.RecordID, pending.Purpose.MessagePrefix())
	if err != nil {
		m.logger.Warn("Failed to send verification code", "error", err)
		return false
	}

	m.logger.Debug("Verification code sent", "request_id", requestID)
	return true
}

// VerifyCode reports false with a nil error for a wrong code.
func (m *Machine) VerifyCode(ctx context.Context, code string) (bool, error) {
	pending, ok := m.state.(PendingVerification)
	if !ok {
		return false, ErrInvalidTransition
	}

	token, err := m.api.ConfirmCode(ctx, pending.Phone, code, pending.RecordID)
	if err != nil {
		if IsWrongCode(err) {
			return false, nil
		}
		return false, err
	}

	m.token = token
	return true, nil
}

// Verified moves on after the phone was proven.
func (m *Machine) Verified(ctx context.Context) (State, error) {
	pending, ok := m.state.(PendingVerification)
	if !ok {
		return m.state, ErrInvalidTransition
	}

	if pending.Purpose == PurposeNewSubmission && m.temporary != nil && m.temporary.ID == pending.RecordID {
		promoted := *m.temporary
		promoted.PhoneVerified = true
		return m.confirm(ctx, promoted), nil
	}

	record, err := m.api.GetRSVP(ctx, pending.RecordID, m.token)
	if err != nil {
		return m.state, err
	}

	if pending.Purpose == PurposeEditAuthorization {
		m.store(ctx, *record, true)
		m.summary = record
		return m.enter(EditMode{Record: *record}), nil
	}

	return m.confirm(ctx, *record), nil
}

// BypassAvailable reports whether the pending verification may be skipped.
func (m *Machine) BypassAvailable() bool {
	pending, ok := m.state.(PendingVerification)
	return ok && m.bypass && pending.Purpose == PurposeNewSubmission
}

// Bypass marks the new record verified without a code.
func (m *Machine) Bypass(ctx context.Context) (State, error) {
	if !m.BypassAvailable() {
		return m.state, ErrBypassNotAvailable
	}
	pending := m.state.(PendingVerification)

	// The create response carried the only token that may bypass.
	var pendingToken string
	if m.temporary != nil && m.temporary.ID == pending.RecordID {
		pendingToken = m.temporary.AccessToken
	}

	record, err := m.api.BypassVerification(ctx, pending.RecordID, pendingToken)
	if err != nil {
		return m.state, err
	}

	m.token = record.AccessToken

	m.logger.Debug("Verification bypassed", "id", record.ID)
	return m.confirm(ctx, *record), nil
}

// Cancel abandons the pending verification. Nothing is cleaned up on the server.
func (m *Machine) Cancel() State {
	pending, ok := m.state.(PendingVerification)
	if !ok {
		return m.state
	}

	m.temporary = nil

	if (pending.Purpose == PurposeEditAuthorization || pending.Purpose == PurposeReverify) && m.summary != nil {
		record := *m.summary
		m.summary = nil
		return m.enter(ConfirmedSummary{Record: record})
	}
	return m.enter(FreshForm{})
}

func (m *Machine) confirm(ctx context.Context, record Record) State {
	record.AccessToken = ""
	m.store(ctx, record, false)
	m.temporary = nil
	m.summary = nil
	return m.enter(ConfirmedSummary{Record: record})
}

func (m *Machine) store(ctx context.Context, record Record, editing bool) {
	if err := m.cache.Save(ctx, record, m.token, editing); err != nil {
		m.logger.Warn("Failed to write local cache", "error", err)
	}
}

func (m *Machine) enter(next State) State {
	if m.state == nil || m.state.Name() != next.Name() {
		m.logger.Debug("RSVP state changed", "from", m.stateName(), "to", next.Name())
	}
	m.state = next
	return next
}

func (m *Machine) stateName() string {
	if m.state == nil {
		return ""
	}
	return m.state.Name()
}
