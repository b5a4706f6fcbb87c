package admin

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/akeren/purim-rsvp/domain/rsvp"
	"github.com/akeren/purim-rsvp/internal/log"
	"github.com/akeren/purim-rsvp/internal/models"
	apperrors "github.com/akeren/purim-rsvp/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type memoryCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]string{}}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[key], nil
}

func (c *memoryCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}

func (c *memoryCache) Ping(context.Context) error { return nil }

func sampleRecords() []*models.RSVP {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []*models.RSVP{
		{ID: "1", FullName: "תמר אבני", Phone: "0501111111", Branch: "הרצליה", BranchDisplayName: "הרצליה", NeedsTransportation: true, PhoneVerified: true, VerificationMethod: "otp", SubmittedAt: base},
		{ID: "2", FullName: "אבי שלום", Phone: "0502222222", Branch: "יעלים", BranchDisplayName: "יעלים (ב״ש)", SubmittedAt: base.Add(time.Hour)},
		{ID: "3", FullName: "גלית כץ", Phone: "0503333333", Branch: "גדרה", BranchDisplayName: "גדרה", NeedsTransportation: true, PhoneVerified: true, VerificationMethod: "bypass", SubmittedAt: base.Add(2 * time.Hour)},
		{ID: "4", FullName: "בני לוי", Phone: "0504444444", Branch: "הרצליה", BranchDisplayName: "הרצליה", NeedsTransportation: true, SubmittedAt: base.Add(3 * time.Hour)},
	}
}

func newTestAdminService(t *testing.T, cache Cache) (AdminService, *rsvp.MockRSVPRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockRepo := rsvp.NewMockRSVPRepository(ctrl)

	logger := log.NewLogger(io.Discard, log.LevelDebug)
	return NewAdminService(logger, mockRepo, newTestAuthenticator(t), cache), mockRepo
}

func ids(response *ListResponse) []string {
	out := make([]string, 0, len(response.RSVPs))
	for _, r := range response.RSVPs {
		out = append(out, r.ID)
	}
	return out
}

func TestAdminService_Login(t *testing.T) {
	service, _ := newTestAdminService(t, nil)

	response, err := service.Login(context.Background(), &LoginRequest{Email: "admin@example.com", Password: "purim-2026"})
	require.NoError(t, err)
	assert.NotEmpty(t, response.Token)

	_, err = service.Login(context.Background(), &LoginRequest{Email: "admin@example.com", Password: "nope"})
	assert.Equal(t, apperrors.ErrorTypeUnauthorized, apperrors.GetErrorType(err))
}

func TestAdminService_ListRSVPs(t *testing.T) {
	t.Run("defaults to newest first", func(t *testing.T) {
		service, mockRepo := newTestAdminService(t, nil)
		mockRepo.EXPECT().ListRSVPs(gomock.Any(), rsvp.ListFilter{}).Return(sampleRecords(), nil)

		response, err := service.ListRSVPs(context.Background(), &ListQuery{})

		require.NoError(t, err)
		assert.Equal(t, 4, response.Count)
		assert.Equal(t, []string{"4", "3", "2", "1"}, ids(response))
	})

	t.Run("full name ascending uses Hebrew order", func(t *testing.T) {
		service, mockRepo := newTestAdminService(t, nil)
		mockRepo.EXPECT().ListRSVPs(gomock.Any(), gomock.Any()).Return(sampleRecords(), nil)

		response, err := service.ListRSVPs(context.Background(), &ListQuery{Sort: SortFullName})

		require.NoError(t, err)
		// אבי, בני, גלית, תמר
		assert.Equal(t, []string{"2", "4", "3", "1"}, ids(response))
	})

	t.Run("branch descending", func(t *testing.T) {
		service, mockRepo := newTestAdminService(t, nil)
		mockRepo.EXPECT().ListRSVPs(gomock.Any(), gomock.Any()).Return(sampleRecords(), nil)

		response, err := service.ListRSVPs(context.Background(), &ListQuery{Sort: SortBranch, Direction: DirectionDesc})

		require.NoError(t, err)
		// יעלים, הרצליה x2 (stable), גדרה
		assert.Equal(t, []string{"2", "1", "4", "3"}, ids(response))
	})

	t.Run("filters are passed to the repository", func(t *testing.T) {
		service, mockRepo := newTestAdminService(t, nil)
		mockRepo.EXPECT().
			ListRSVPs(gomock.Any(), rsvp.ListFilter{Search: "כהן", Branch: "הרצליה"}).
			Return(nil, nil)

		response, err := service.ListRSVPs(context.Background(), &ListQuery{Search: "כהן", Branch: "הרצליה"})

		require.NoError(t, err)
		assert.Zero(t, response.Count)
		assert.NotNil(t, response.RSVPs)
	})
}

func TestAdminService_Stats(t *testing.T) {
	cache := newMemoryCache()
	service, mockRepo := newTestAdminService(t, cache)

	mockRepo.EXPECT().ListRSVPs(gomock.Any(), rsvp.ListFilter{}).Return(sampleRecords(), nil).Times(1)

	stats, err := service.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.NeedingTransportation)
	assert.Equal(t, 3, stats.DistinctBranches)
	assert.Equal(t, 2, stats.Verified)
	assert.Equal(t, 1, stats.VerifiedByBypass)
	require.Len(t, stats.TransportationByBranch, 2)
	assert.Equal(t, "גדרה", stats.TransportationByBranch[0].Branch)
	assert.Equal(t, "הרצליה", stats.TransportationByBranch[1].Branch)
	assert.Equal(t, 2, stats.TransportationByBranch[1].Count)
	assert.Len(t, stats.TransportationByBranch[1].Passengers, 2)

	cached, err := service.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stats, cached)
}

func TestAdminService_UpdateRSVP(t *testing.T) {
	req := &UpdateRSVPRequest{
		FirstName:           "דנה",
		LastName:            "כהן",
		Phone:               "0529999999",
		Branch:              "הרצליה",
		NeedsTransportation: true,
	}

	t.Run("phone changes while unverified and stats are invalidated", func(t *testing.T) {
		cache := newMemoryCache()
		_ = cache.Set(context.Background(), statsCacheKey, `{"total":1}`, 0)
		service, mockRepo := newTestAdminService(t, cache)

		current := &models.RSVP{ID: "id-1", Phone: "0501234567"}
		gomock.InOrder(
			mockRepo.EXPECT().FindRSVPByID(gomock.Any(), "id-1").Return(current, nil),
			mockRepo.EXPECT().
				UpdateRSVP(gomock.Any(), "id-1", gomock.Any()).
				DoAndReturn(func(_ context.Context, _ string, updates map[string]interface{}) error {
					assert.Equal(t, "0529999999", updates["phone"])
					assert.Equal(t, "דנה כהן", updates["full_name"])
					return nil
				}),
			mockRepo.EXPECT().FindRSVPByID(gomock.Any(), "id-1").Return(&models.RSVP{ID: "id-1", Phone: "0529999999"}, nil),
		)

		response, err := service.UpdateRSVP(context.Background(), "id-1", req)

		require.NoError(t, err)
		assert.Equal(t, "0529999999", response.Phone)

		raw, _ := cache.Get(context.Background(), statsCacheKey)
		assert.Empty(t, raw)
	})

	t.Run("verified phone is frozen", func(t *testing.T) {
		service, mockRepo := newTestAdminService(t, nil)

		mockRepo.EXPECT().
			FindRSVPByID(gomock.Any(), "id-2").
			Return(&models.RSVP{ID: "id-2", Phone: "0501234567", PhoneVerified: true}, nil)

		_, err := service.UpdateRSVP(context.Background(), "id-2", req)

		assert.Equal(t, apperrors.ErrorTypeForbidden, apperrors.GetErrorType(err))
	})

	t.Run("same phone on a verified record is allowed", func(t *testing.T) {
		service, mockRepo := newTestAdminService(t, nil)

		current := &models.RSVP{ID: "id-3", Phone: "0529999999", PhoneVerified: true}
		mockRepo.EXPECT().FindRSVPByID(gomock.Any(), "id-3").Return(current, nil).Times(2)
		mockRepo.EXPECT().
			UpdateRSVP(gomock.Any(), "id-3", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, updates map[string]interface{}) error {
				assert.NotContains(t, updates, "phone")
				return nil
			})

		_, err := service.UpdateRSVP(context.Background(), "id-3", req)

		require.NoError(t, err)
	})
}

func TestAdminService_DeleteRSVP(t *testing.T) {
	service, mockRepo := newTestAdminService(t, nil)

	mockRepo.EXPECT().DeleteRSVP(gomock.Any(), "id-1").Return(nil)
	mockRepo.EXPECT().DeleteRSVP(gomock.Any(), "missing").Return(apperrors.NewNotFoundError("RSVP not found", nil))

	assert.NoError(t, service.DeleteRSVP(context.Background(), "id-1"))
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.GetErrorType(service.DeleteRSVP(context.Background(), "missing")))
}
