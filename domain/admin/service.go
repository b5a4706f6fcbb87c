package admin

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/akeren/purim-rsvp/domain/rsvp"
	"github.com/akeren/purim-rsvp/internal/log"
	"github.com/akeren/purim-rsvp/internal/models"
	apperrors "github.com/akeren/purim-rsvp/pkg/errors"
	"github.com/akeren/purim-rsvp/pkg/validation"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	statsCacheKey = "admin:rsvp-stats"
	statsCacheTTL = 30 * time.Second
)

// Cache is the subset of the application cache the admin domain uses.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

type AdminService interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	ListRSVPs(ctx context.Context, query *ListQuery) (*ListResponse, error)
	Stats(ctx context.Context) (*StatsResponse, error)
	ExportCSV(ctx context.Context) ([]byte, error)
	UpdateRSVP(ctx context.Context, id string, req *UpdateRSVPRequest) (*rsvp.RSVPResponse, error)
	DeleteRSVP(ctx context.Context, id string) error
}

type adminService struct {
	logger     *log.Logger
	repository rsvp.RSVPRepository
	auth       *Authenticator
	cache      Cache
	now        func() time.Time
}

// NewAdminService builds the service; cache may be nil.
func NewAdminService(logger *log.Logger, repository rsvp.RSVPRepository, auth *Authenticator, cache Cache) AdminService {
	return &adminService{
		logger:     logger,
		repository: repository,
		auth:       auth,
		cache:      cache,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *adminService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	token, expiresAt, err := s.auth.Login(req.Email, req.Password)
	if err != nil {
		logger.Warn("Admin login failed")
		return nil, apperrors.NewUnauthorizedError("invalid email or password", err)
	}

	logger.Info("Admin logged in")

	return &LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	}, nil
}

func (s *adminService) ListRSVPs(ctx context.Context, query *ListQuery) (*ListResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if query == nil {
		query = &ListQuery{}
	}

	records, err := s.repository.ListRSVPs(ctx, rsvp.ListFilter{
		Search: query.Search,
		Branch: query.Branch,
	})
	if err != nil {
		logger.Error("Failed to list RSVPs", "error", err)
		return nil, err
	}

	sortRSVPs(records, query.Sort, query.Direction)

	response := &ListResponse{
		Count: len(records),
		RSVPs: make([]rsvp.RSVPResponse, 0, len(records)),
	}
	for _, r := range records {
		response.RSVPs = append(response.RSVPs, rsvp.ToRSVPResponse(r))
	}

	return response, nil
}

// sortRSVPs orders records in place. Text fields use the Hebrew collator;
// the default is newest submission first.
func sortRSVPs(records []*models.RSVP, field, direction string) {
	if field == "" {
		field = SortSubmittedAt
	}
	if direction == "" {
		direction = DirectionDesc
		if field != SortSubmittedAt {
			direction = DirectionAsc
		}
	}

	collator := collate.New(language.Hebrew)

	less := func(a, b *models.RSVP) int {
		switch field {
		case SortBranch:
			return collator.CompareString(a.BranchDisplayName, b.BranchDisplayName)
		case SortFullName:
			return collator.CompareString(a.FullName, b.FullName)
		default:
			return a.SubmittedAt.Compare(b.SubmittedAt)
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		cmp := less(records[i], records[j])
		if direction == DirectionDesc {
			return cmp > 0
		}
		return cmp < 0
	})
}

func (s *adminService) Stats(ctx context.Context) (*StatsResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if cached := s.cachedStats(ctx, logger); cached != nil {
		return cached, nil
	}

	records, err := s.repository.ListRSVPs(ctx, rsvp.ListFilter{})
	if err != nil {
		logger.Error("Failed to list RSVPs for stats", "error", err)
		return nil, err
	}

	stats := computeStats(records)
	s.storeStats(ctx, logger, stats)

	return stats, nil
}

func computeStats(records []*models.RSVP) *StatsResponse {
	stats := &StatsResponse{Total: len(records)}

	branchSet := map[string]struct{}{}
	riders := map[string]*BranchRiders{}

	for _, r := range records {
		branchSet[r.Branch] = struct{}{}

		if r.PhoneVerified {
			stats.Verified++
			if r.VerificationMethod == models.VerificationMethodBypass {
				stats.VerifiedByBypass++
			}
		}

		if !r.NeedsTransportation {
			continue
		}
		stats.NeedingTransportation++

		group, ok := riders[r.Branch]
		if !ok {
			group = &BranchRiders{Branch: r.Branch, DisplayName: r.BranchDisplayName}
			riders[r.Branch] = group
		}
		group.Count++
		group.Passengers = append(group.Passengers, Passenger{FullName: r.FullName, Phone: r.Phone})
	}

	stats.DistinctBranches = len(branchSet)

	collator := collate.New(language.Hebrew)
	stats.TransportationByBranch = make([]BranchRiders, 0, len(riders))
	for _, group := range riders {
		stats.TransportationByBranch = append(stats.TransportationByBranch, *group)
	}
	sort.Slice(stats.TransportationByBranch, func(i, j int) bool {
		return collator.CompareString(stats.TransportationByBranch[i].DisplayName, stats.TransportationByBranch[j].DisplayName) < 0
	})

	return stats
}

func (s *adminService) cachedStats(ctx context.Context, logger *log.Logger) *StatsResponse {
	if s.cache == nil {
		return nil
	}

	raw, err := s.cache.Get(ctx, statsCacheKey)
	if err != nil {
		logger.Warn("Failed to read cached stats", "error", err)
		return nil
	}
	if raw == "" {
		return nil
	}

	var stats StatsResponse
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		logger.Warn("Discarding unreadable cached stats", "error", err)
		return nil
	}

	return &stats
}

func (s *adminService) storeStats(ctx context.Context, logger *log.Logger, stats *StatsResponse) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, statsCacheKey, string(raw), statsCacheTTL); err != nil {
		logger.Warn("Failed to cache stats", "error", err)
	}
}

func (s *adminService) invalidateStats(ctx context.Context, logger *log.Logger) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Delete(ctx, statsCacheKey); err != nil {
		logger.Warn("Failed to invalidate cached stats", "error", err)
	}
}

func (s *adminService) ExportCSV(ctx context.Context) ([]byte, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	records, err := s.repository.ListRSVPs(ctx, rsvp.ListFilter{})
	if err != nil {
		logger.Error("Failed to list RSVPs for export", "error", err)
		return nil, err
	}

	body, err := WriteCSV(records)
	if err != nil {
		logger.Error("Failed to render CSV export", "error", err)
		return nil, apperrors.NewInternalServerError("unable to export RSVPs", err)
	}

	logger.Info("RSVPs exported", "count", len(records))

	return body, nil
}

func (s *adminService) UpdateRSVP(ctx context.Context, id string, req *UpdateRSVPRequest) (*rsvp.RSVPResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		return nil, apperrors.NewInvalidRequestError("request cannot be nil", nil)
	}

	current, err := s.repository.FindRSVPByID(ctx, id)
	if err != nil {
		logger.Error("Failed to find RSVP for admin update", "id", id, "error", err)
		return nil, err
	}

	fields, err := rsvp.ResolveAttendeeFields(req.FirstName, req.LastName, req.Branch, req.CustomBranch, req.NeedsTransportation)
	if err != nil {
		return nil, err
	}

	updates := fields.Updates(s.now())

	if strings.TrimSpace(req.Phone) != "" {
		phone, ok := validation.NormalizeIsraeliMobile(req.Phone)
		if !ok {
			return nil, apperrors.NewInvalidRequestError("invalid phone number", nil)
		}

		if phone != current.Phone {
			if current.PhoneVerified {
				logger.Warn("Admin attempted to change a verified phone", "id", id)
				return nil, apperrors.NewForbiddenError("a verified phone number cannot be changed", nil)
			}
			updates["phone"] = phone
		}
	}

	if err := s.repository.UpdateRSVP(ctx, id, updates); err != nil {
		logger.Error("Failed to apply admin update", "id", id, "error", err)
		return nil, err
	}

	s.invalidateStats(ctx, logger)

	updated, err := s.repository.FindRSVPByID(ctx, id)
	if err != nil {
		return nil, err
	}

	logger.Info("RSVP updated by admin", "id", id)

	response := rsvp.ToRSVPResponse(updated)
	return &response, nil
}

func (s *adminService) DeleteRSVP(ctx context.Context, id string) error {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if err := s.repository.DeleteRSVP(ctx, id); err != nil {
		logger.Error("Failed to delete RSVP", "id", id, "error", err)
		return err
	}

	s.invalidateStats(ctx, logger)

	logger.Info("RSVP deleted by admin", "id", id)

	return nil
}
