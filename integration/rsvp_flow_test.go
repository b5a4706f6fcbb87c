package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/akeren/purim-rsvp/config"
	"github.com/akeren/purim-rsvp/config/router"
	"github.com/akeren/purim-rsvp/domain"
	"github.com/akeren/purim-rsvp/domain/admin"
	"github.com/akeren/purim-rsvp/domain/rsvp"
	"github.com/akeren/purim-rsvp/internal/log"
	"github.com/akeren/purim-rsvp/internal/models"
	"github.com/akeren/purim-rsvp/internal/otpgateway"
	"github.com/akeren/purim-rsvp/pkg/ratelimit"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	testOTPCode       = "246810"
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "purim-2026"
)

type RSVPFlowTestSuite struct {
	suite.Suite
	db        *gorm.DB
	server    *httptest.Server
	baseURL   string
	gateway   *otpgateway.StaticGateway
	appConfig *config.ApplicationConfig
}

func (suite *RSVPFlowTestSuite) SetupSuite() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)

	// Every pooled connection to :memory: would otherwise see its own empty database.
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	suite.Require().NoError(suite.db.AutoMigrate(models.ModelRegistry...))

	logger := log.NewLogger(io.Discard, log.LevelSilent)
	suite.gateway = otpgateway.NewStaticGateway(testOTPCode, logger)

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	suite.Require().NoError(err)

	access, err := rsvp.NewAccessTokens(rsvp.AccessConfig{Secret: "integration-record-secret"})
	suite.Require().NoError(err)

	suite.appConfig = &config.ApplicationConfig{
		DB:      suite.db,
		Logger:  logger,
		Gateway: suite.gateway,
		Event:   &config.EventConfig{BypassEnabled: true},
		Admin: admin.AuthConfig{
			Email:        testAdminEmail,
			PasswordHash: string(hash),
			Secret:       "integration-secret",
		},
		Access: access,
	}

	suite.appConfig.RouterService = router.CreateRouterService(logger, nil, &router.RouterConfig{
		DefaultPolicy:  ratelimit.Policy{Name: "default", Requests: 1000, Window: time.Minute},
		RequestTimeout: 30 * time.Second,
		MetricsEnabled: true,
	})

	domain.SetupCoreDomain(suite.appConfig)

	suite.server = httptest.NewServer(suite.appConfig.RouterService.GetEngine())
	suite.baseURL = suite.server.URL
}

func (suite *RSVPFlowTestSuite) TearDownSuite() {
	if suite.server != nil {
		suite.server.Close()
	}
	if suite.db != nil {
		sqlDB, _ := suite.db.DB()
		sqlDB.Close()
	}
}

func (suite *RSVPFlowTestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM rsvps")
	suite.db.Exec("DELETE FROM otp_requests")
}

type envelope struct {
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	Condition string          `json:"condition"`
	Data      json.RawMessage `json:"data"`
}

func (suite *RSVPFlowTestSuite) do(method, path string, body any, token string) (int, envelope) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, suite.baseURL+path, reader)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	suite.Require().NoError(err)
	defer resp.Body.Close()

	var env envelope
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&env))

	return resp.StatusCode, env
}

func (suite *RSVPFlowTestSuite) decode(raw json.RawMessage, target any) {
	suite.Require().NoError(json.Unmarshal(raw, target))
}

func newAttendee(phone string) map[string]any {
	return map[string]any{
		"first_name":           "דנה",
		"last_name":            "כהן",
		"phone":                phone,
		"branch":               "הרצליה",
		"needs_transportation": true,
	}
}

// createRSVP returns the new record's id and the pending token that only
// allows bypass.
func (suite *RSVPFlowTestSuite) createRSVP(phone string) (string, string) {
	status, env := suite.do(http.MethodPost, "/v1/rsvps", newAttendee(phone), "")
	suite.Require().Equal(http.StatusCreated, status, env.Message)

	var created struct {
		ID          string `json:"id"`
		AccessToken string `json:"access_token"`
	}
	suite.decode(env.Data, &created)
	suite.Require().NotEmpty(created.ID)
	suite.Require().NotEmpty(created.AccessToken)

	return created.ID, created.AccessToken
}

func (suite *RSVPFlowTestSuite) requestCode(id, phone string) {
	status, env := suite.do(http.MethodPost, "/v1/verification/request-code", map[string]string{
		"phoneNumber": phone,
		"rsvpId":      id,
	}, "")
	suite.Require().Equal(http.StatusOK, status, env.Message)
}

// verify proves phone for id and returns the record access token.
func (suite *RSVPFlowTestSuite) verify(id, phone string) string {
	suite.requestCode(id, phone)

	status, env := suite.do(http.MethodPost, "/v1/verification/confirm-code", map[string]string{
		"phoneNumber": phone,
		"code":        testOTPCode,
		"rsvpId":      id,
	}, "")
	suite.Require().Equal(http.StatusOK, status, env.Message)

	var confirmed struct {
		Success     bool   `json:"success"`
		AccessToken string `json:"accessToken"`
	}
	suite.decode(env.Data, &confirmed)
	suite.Require().True(confirmed.Success)
	suite.Require().NotEmpty(confirmed.AccessToken)

	return confirmed.AccessToken
}

func (suite *RSVPFlowTestSuite) adminToken() string {
	status, env := suite.do(http.MethodPost, "/v1/admin/login", map[string]string{
		"email":    testAdminEmail,
		"password": testAdminPassword,
	}, "")
	suite.Require().Equal(http.StatusOK, status, env.Message)

	var login admin.LoginResponse
	suite.decode(env.Data, &login)
	return login.Token
}

func (suite *RSVPFlowTestSuite) TestBranches() {
	status, env := suite.do(http.MethodGet, "/v1/branches", nil, "")
	suite.Equal(http.StatusOK, status)

	var branches struct {
		Groups        []map[string]any `json:"groups"`
		NoShuttleCity string           `json:"no_shuttle_city"`
	}
	suite.decode(env.Data, &branches)
	suite.NotEmpty(branches.Groups)
	suite.Equal("ב״ש", branches.NoShuttleCity)
}

func (suite *RSVPFlowTestSuite) TestNewAttendeeVerifiesByCode() {
	id, pending := suite.createRSVP("050-123-4567")

	status, _ := suite.do(http.MethodGet, "/v1/rsvps/"+id, nil, pending)
	suite.Equal(http.StatusUnauthorized, status)

	var stored models.RSVP
	suite.Require().NoError(suite.db.First(&stored, "id = ?", id).Error)
	suite.False(stored.PhoneVerified)
	suite.Equal("0501234567", stored.Phone)

	token := suite.verify(id, "0501234567")

	status, env := suite.do(http.MethodGet, "/v1/rsvps/"+id, nil, token)
	suite.Require().Equal(http.StatusOK, status, env.Message)
	var record map[string]any
	suite.decode(env.Data, &record)
	suite.Equal(true, record["phone_verified"])
	suite.Equal("otp", record["verification_method"])
	suite.NotNil(record["phone_verified_at"])

	suite.Contains(suite.gateway.Sent(), "0501234567")

	var audit models.OtpRequest
	suite.Require().NoError(suite.db.Where("phone_number = ?", "0501234567").First(&audit).Error)
	suite.Equal(models.OtpRequestStatusConfirmed, audit.Status)
	suite.Require().NotNil(audit.RSVPID)
	suite.Equal(id, *audit.RSVPID)
}

func (suite *RSVPFlowTestSuite) TestDuplicatePhoneReturnsExistingRecord() {
	id, _ := suite.createRSVP("0521111111")

	status, env := suite.do(http.MethodPost, "/v1/rsvps", newAttendee("+972-52-111-1111"), "")
	suite.Equal(http.StatusConflict, status)

	var existing map[string]any
	suite.decode(env.Data, &existing)
	suite.Equal(true, existing["exists"])
	suite.Equal(id, existing["id"])
	suite.Equal(false, existing["phone_verified"])

	var count int64
	suite.db.Model(&models.RSVP{}).Count(&count)
	suite.Equal(int64(1), count)
}

func (suite *RSVPFlowTestSuite) TestLookup() {
	status, env := suite.do(http.MethodGet, "/v1/rsvps/lookup?phone=0532222222", nil, "")
	suite.Equal(http.StatusOK, status)
	var lookup map[string]any
	suite.decode(env.Data, &lookup)
	suite.Equal(false, lookup["exists"])

	id, _ := suite.createRSVP("0532222222")

	_, env = suite.do(http.MethodGet, "/v1/rsvps/lookup?phone=053-2222222", nil, "")
	suite.decode(env.Data, &lookup)
	suite.Equal(true, lookup["exists"])
	suite.Equal(id, lookup["id"])
	suite.NotContains(lookup, "first_name")
}

func (suite *RSVPFlowTestSuite) TestWrongCodeKeepsRecordUnverified() {
	id, _ := suite.createRSVP("0543333333")
	suite.requestCode(id, "0543333333")

	status, env := suite.do(http.MethodPost, "/v1/verification/confirm-code", map[string]string{
		"phoneNumber": "0543333333",
		"code":        "000000",
		"rsvpId":      id,
	}, "")

	suite.Equal(http.StatusBadRequest, status)
	suite.Equal("invalid-argument", env.Condition)
	suite.Equal("קוד אימות שגוי", env.Message)

	var record models.RSVP
	suite.Require().NoError(suite.db.First(&record, "id = ?", id).Error)
	suite.False(record.PhoneVerified)

	var audit models.OtpRequest
	suite.Require().NoError(suite.db.Where("phone_number = ?", "0543333333").First(&audit).Error)
	suite.Equal(models.OtpRequestStatusCodeSent, audit.Status)

	// A retry with the right code still resolves the same audit row.
	status, env = suite.do(http.MethodPost, "/v1/verification/confirm-code", map[string]string{
		"phoneNumber": "0543333333",
		"code":        testOTPCode,
		"rsvpId":      id,
	}, "")
	suite.Require().Equal(http.StatusOK, status, env.Message)

	var audits []models.OtpRequest
	suite.Require().NoError(suite.db.Where("phone_number = ?", "0543333333").Find(&audits).Error)
	suite.Require().Len(audits, 1)
	suite.Equal(models.OtpRequestStatusConfirmed, audits[0].Status)
}

func (suite *RSVPFlowTestSuite) TestVerificationConditions() {
	status, env := suite.do(http.MethodPost, "/v1/verification/request-code", map[string]string{"phoneNumber": "123"}, "")
	suite.Equal(http.StatusBadRequest, status)
	suite.Equal("invalid-argument", env.Condition)

	status, env = suite.do(http.MethodPost, "/v1/verification/confirm-code", map[string]string{"phoneNumber": "0501234567"}, "")
	suite.Equal(http.StatusBadRequest, status)
	suite.Equal("invalid-argument", env.Condition)
	suite.Equal("חסרים נתונים לאימות", env.Message)

	status, env = suite.do(http.MethodPost, "/v1/verification/confirm-code", map[string]string{
		"phoneNumber": "0501234567",
		"code":        testOTPCode,
		"rsvpId":      "00000000-0000-0000-0000-000000000000",
	}, "")
	suite.Equal(http.StatusInternalServerError, status)
	suite.Equal("internal", env.Condition)
}

func (suite *RSVPFlowTestSuite) TestEditRequiresVerification() {
	id, pending := suite.createRSVP("0554444444")

	edit := map[string]any{
		"first_name":           "דנה",
		"last_name":            "לוי",
		"branch":               "יעלים",
		"needs_transportation": true,
	}

	status, _ := suite.do(http.MethodPut, "/v1/rsvps/"+id, edit, pending)
	suite.Equal(http.StatusUnauthorized, status)

	token := suite.verify(id, "0554444444")

	status, env := suite.do(http.MethodPut, "/v1/rsvps/"+id, edit, token)
	suite.Equal(http.StatusOK, status, env.Message)

	var record map[string]any
	suite.decode(env.Data, &record)
	suite.Equal("דנה לוי", record["full_name"])
	suite.Equal("יעלים (ב״ש)", record["branch_display_name"])
	suite.Equal(false, record["needs_transportation"])
	suite.Equal("0554444444", record["phone"])
	suite.Equal(true, record["phone_verified"])
}

func (suite *RSVPFlowTestSuite) TestBypassVerification() {
	id, pending := suite.createRSVP("0585555555")

	status, _ := suite.do(http.MethodPost, "/v1/rsvps/"+id+"/bypass-verification", nil, "")
	suite.Equal(http.StatusUnauthorized, status)

	status, env := suite.do(http.MethodPost, "/v1/rsvps/"+id+"/bypass-verification", nil, pending)
	suite.Equal(http.StatusOK, status, env.Message)

	var record map[string]any
	suite.decode(env.Data, &record)
	suite.Equal(true, record["phone_verified"])
	suite.Equal("bypass", record["verification_method"])
	suite.Require().NotEmpty(record["access_token"])

	status, _ = suite.do(http.MethodGet, "/v1/rsvps/"+id, nil, record["access_token"].(string))
	suite.Equal(http.StatusOK, status)
}

func (suite *RSVPFlowTestSuite) TestRecordAccessRequiresProvenPhone() {
	id, _ := suite.createRSVP("0506666666")
	other, _ := suite.createRSVP("0507777777")
	otherToken := suite.verify(other, "0507777777")

	edit := map[string]any{
		"first_name":           "המן",
		"last_name":            "הרשע",
		"branch":               "הרצליה",
		"needs_transportation": false,
	}

	// The id that lookup and 409 responses reveal is not enough on its own.
	status, env := suite.do(http.MethodGet, "/v1/rsvps/"+id, nil, "")
	suite.Equal(http.StatusUnauthorized, status)
	suite.NotContains(string(env.Data), "0506666666")

	status, _ = suite.do(http.MethodPut, "/v1/rsvps/"+id, edit, "")
	suite.Equal(http.StatusUnauthorized, status)

	status, _ = suite.do(http.MethodGet, "/v1/rsvps/"+id, nil, "not-a-token")
	suite.Equal(http.StatusUnauthorized, status)

	status, _ = suite.do(http.MethodPut, "/v1/rsvps/"+id, edit, otherToken)
	suite.Equal(http.StatusUnauthorized, status)

	// A code proven for one phone cannot verify a record holding another.
	status, env = suite.do(http.MethodPost, "/v1/verification/confirm-code", map[string]string{
		"phoneNumber": "0507777777",
		"code":        testOTPCode,
		"rsvpId":      id,
	}, "")
	suite.Equal(http.StatusInternalServerError, status)
	suite.Equal("internal", env.Condition)

	var stored models.RSVP
	suite.Require().NoError(suite.db.First(&stored, "id = ?", id).Error)
	suite.False(stored.PhoneVerified)
	suite.Equal("דנה", stored.FirstName)
}

func (suite *RSVPFlowTestSuite) TestHebrewValidation() {
	body := newAttendee("0501234567")
	body["first_name"] = "Dana"

	status, env := suite.do(http.MethodPost, "/v1/rsvps", body, "")
	suite.Equal(http.StatusBadRequest, status)
	suite.Contains(string(env.Data), "first_name")
}

func (suite *RSVPFlowTestSuite) TestAdminDashboard() {
	status, _ := suite.do(http.MethodGet, "/v1/admin/rsvps", nil, "")
	suite.Equal(http.StatusUnauthorized, status)

	first, _ := suite.createRSVP("0501010101")
	suite.createRSVP("0502020202")

	token := suite.adminToken()

	status, env := suite.do(http.MethodGet, "/v1/admin/rsvps?sort=full_name", nil, token)
	suite.Equal(http.StatusOK, status)
	var list admin.ListResponse
	suite.decode(env.Data, &list)
	suite.Equal(2, list.Count)

	status, env = suite.do(http.MethodGet, "/v1/admin/rsvps?search=0501010101", nil, token)
	suite.Equal(http.StatusOK, status)
	suite.decode(env.Data, &list)
	suite.Require().Equal(1, list.Count)
	suite.Equal(first, list.RSVPs[0].ID)

	status, env = suite.do(http.MethodGet, "/v1/admin/rsvps/stats", nil, token)
	suite.Equal(http.StatusOK, status)
	var stats admin.StatsResponse
	suite.decode(env.Data, &stats)
	suite.Equal(2, stats.Total)
	suite.Equal(2, stats.NeedingTransportation)
	suite.Equal(1, stats.DistinctBranches)

	req, _ := http.NewRequest(http.MethodGet, suite.baseURL+"/v1/admin/rsvps/export", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	suite.Require().NoError(err)
	defer resp.Body.Close()
	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.True(strings.HasPrefix(resp.Header.Get("Content-Type"), "text/csv"))
	csvBody, _ := io.ReadAll(resp.Body)
	suite.True(strings.HasPrefix(string(csvBody), "\ufeffשם מלא,טלפון,סניף,הסעה,תאריך אישור"))

	status, _ = suite.do(http.MethodDelete, "/v1/admin/rsvps/"+first, nil, token)
	suite.Equal(http.StatusOK, status)

	var remaining int64
	suite.db.Model(&models.RSVP{}).Where("id = ?", first).Count(&remaining)
	suite.Zero(remaining)
}

func (suite *RSVPFlowTestSuite) TestHealthCheck() {
	status, env := suite.do(http.MethodGet, "/health", nil, "")
	suite.Equal(http.StatusOK, status)

	var health map[string]int
	suite.decode(env.Data, &health)
	suite.Equal(1, health["database"])
	suite.Equal(0, health["cache"])
	suite.Equal(1, health["otp_gateway"])
}

func TestRSVPFlowTestSuite(t *testing.T) {
	suite.Run(t, new(RSVPFlowTestSuite))
}
