package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath-it/backoffice/internal/cache"
	"github.com/brightpath-it/backoffice/storage"
	"github.com/brightpath-it/backoffice/storage/model"
)

var testEpoch = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Allowed []string        `json:"allowed"`
}

type testServer struct {
	t       *testing.T
	app     *fiber.App
	auth    string
	backend model.Backends
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cache.UseMemoryCache(100)
	s, err := storage.NewStorage(
		storage.Config{
			Driver:  storage.DriverSQLite,
			DataDir: t.TempDir(),
			Clock:   clockwork.NewFakeClockAt(testEpoch),
			UsersHash: storage.Argon2idParams{
				Time:        1,
				MemoryKiB:   8 * 1024,
				Parallelism: 1,
				KeyLen:      32,
				SaltLen:     16,
			},
		},
	)
	require.NoError(t, err)
	app := fiber.New()
	backs := s.Backends()
	require.NoError(t, Register(app.Group("/api"), backs, Options{}))
	return &testServer{
		t:       t,
		app:     app,
		backend: backs,
	}
}

func (s *testServer) do(method, path string, body any) (int, testEnvelope) {
	s.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if s.auth != "" {
		req.Header.Set(fiber.HeaderAuthorization, s.auth)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()
	var env testEnvelope
	require.NoError(s.t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (s *testServer) login(username, password string) {
	s.auth = "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

func decodeData[T any](t *testing.T, env testEnvelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

type testRequest struct {
	RequestID     string              `json:"requestId"`
	Name          string              `json:"name"`
	Email         string              `json:"email"`
	SubjectRef    string              `json:"subjectRef"`
	CurrentStatus string              `json:"currentStatus"`
	StatusHistory []model.StatusEntry `json:"statusHistory"`
}

var janeDoe = fiber.Map{
	"name":      "Jane Doe",
	"email":     "jane@example.com",
	"phone":     "+1 555 0100",
	"serviceId": "S1",
}

func (s *testServer) createServiceRequest() testRequest {
	s.t.Helper()
	code, env := s.do(http.MethodPost, "/api/service-requests", janeDoe)
	require.Equal(s.t, http.StatusCreated, code, env.Message)
	return decodeData[testRequest](s.t, env)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	code, env := s.do(http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
}

func TestCreateServiceRequest(t *testing.T) {
	s := newTestServer(t)
	r := s.createServiceRequest()
	assert.Regexp(t, `^SR-\d+-\d+$`, r.RequestID)
	assert.Equal(t, "S1", r.SubjectRef)
	assert.Equal(t, "draft", r.CurrentStatus)
	require.Len(t, r.StatusHistory, 1)
	assert.Equal(t, "Service request created", r.StatusHistory[0].Note)
	assert.Equal(t, "website", r.StatusHistory[0].ChangedBy)
}

func TestCreateRequestInvalid(t *testing.T) {
	s := newTestServer(t)

	t.Run(
		"missing subject", func(t *testing.T) {
			code, env := s.do(
				http.MethodPost, "/api/service-requests", fiber.Map{
					"name":  "Jane Doe",
					"email": "jane@example.com",
					"phone": "+1 555 0100",
				},
			)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.False(t, env.Success)
			assert.Contains(t, env.Message, "serviceId")
		},
	)
	t.Run(
		"contact without message", func(t *testing.T) {
			code, env := s.do(
				http.MethodPost, "/api/contact-requests", fiber.Map{
					"name":  "Jane Doe",
					"email": "jane@example.com",
					"phone": "+1 555 0100",
				},
			)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Contains(t, env.Message, "message")
		},
	)
	t.Run(
		"malformed body", func(t *testing.T) {
			code, env := s.do(http.MethodPost, "/api/career-requests", "{")
			assert.Equal(t, http.StatusBadRequest, code)
			assert.False(t, env.Success)
		},
	)
}

func TestUpdateStatus(t *testing.T) {
	s := newTestServer(t)
	r := s.createServiceRequest()

	code, env := s.do(
		http.MethodPut, "/api/service-requests/"+r.RequestID, fiber.Map{
			"status": "approved",
			"note":   "Signed",
		},
	)
	require.Equal(t, http.StatusOK, code, env.Message)
	updated := decodeData[testRequest](t, env)
	assert.Equal(t, "approved", updated.CurrentStatus)
	require.Len(t, updated.StatusHistory, 2)
	assert.Equal(t, "Signed", updated.StatusHistory[1].Note)
	assert.Equal(t, "admin", updated.StatusHistory[1].ChangedBy)

	code, env = s.do(http.MethodGet, "/api/service-requests/"+r.RequestID+"/history", nil)
	require.Equal(t, http.StatusOK, code)
	history := decodeData[[]model.StatusEntry](t, env)
	require.Len(t, history, 2)
	assert.Equal(t, model.StatusDraft, history[0].Status)
	assert.Equal(t, model.StatusApproved, history[1].Status)
}

func TestUpdateInvalidStatus(t *testing.T) {
	s := newTestServer(t)
	r := s.createServiceRequest()

	code, env := s.do(
		http.MethodPut, "/api/service-requests/"+r.RequestID, fiber.Map{"status": "hired"},
	)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)
	assert.ElementsMatch(
		t, []string{"draft", "pending", "followup1", "followup2", "approved", "rejected"}, env.Allowed,
	)

	code, env = s.do(http.MethodGet, "/api/service-requests/"+r.RequestID, nil)
	require.Equal(t, http.StatusOK, code)
	stored := decodeData[testRequest](t, env)
	assert.Len(t, stored.StatusHistory, 1)
	assert.Equal(t, "draft", stored.CurrentStatus)
}

func TestUpdateContactFieldsOnly(t *testing.T) {
	s := newTestServer(t)
	r := s.createServiceRequest()

	code, env := s.do(
		http.MethodPut, "/api/service-requests/"+r.RequestID, fiber.Map{"email": "jane.doe@example.com"},
	)
	require.Equal(t, http.StatusOK, code, env.Message)
	updated := decodeData[testRequest](t, env)
	assert.Equal(t, "jane.doe@example.com", updated.Email)
	assert.Len(t, updated.StatusHistory, 1)
}

func TestUpdateUnknownRequest(t *testing.T) {
	s := newTestServer(t)
	code, env := s.do(
		http.MethodPut, "/api/service-requests/SR-1-1", fiber.Map{"status": "approved"},
	)
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)
}

func TestDeleteRequest(t *testing.T) {
	s := newTestServer(t)
	r := s.createServiceRequest()

	code, env := s.do(http.MethodDelete, "/api/service-requests/"+r.RequestID, nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	record := decodeData[model.DeletionRecord](t, env)
	assert.Equal(t, r.RequestID, record.RequestID)
	assert.Equal(t, "admin", record.DeletedBy)

	code, _ = s.do(http.MethodGet, "/api/service-requests/"+r.RequestID, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = s.do(http.MethodDelete, "/api/service-requests/"+r.RequestID, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestKindsAreSeparate(t *testing.T) {
	s := newTestServer(t)
	r := s.createServiceRequest()

	code, _ := s.do(http.MethodGet, "/api/training-requests/"+r.RequestID, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestListRequests(t *testing.T) {
	s := newTestServer(t)
	first := s.createServiceRequest()
	second := s.createServiceRequest()
	_, _ = s.do(http.MethodPut, "/api/service-requests/"+second.RequestID, fiber.Map{"status": "pending"})

	code, env := s.do(http.MethodGet, "/api/service-requests", nil)
	require.Equal(t, http.StatusOK, code)
	list := decodeData[[]testRequest](t, env)
	assert.Len(t, list, 2)

	code, env = s.do(http.MethodGet, "/api/service-requests?status=pending", nil)
	require.Equal(t, http.StatusOK, code)
	list = decodeData[[]testRequest](t, env)
	require.Len(t, list, 1)
	assert.Equal(t, second.RequestID, list[0].RequestID)

	code, env = s.do(http.MethodGet, "/api/service-requests?status=draft,approved", nil)
	require.Equal(t, http.StatusOK, code)
	list = decodeData[[]testRequest](t, env)
	require.Len(t, list, 1)
	assert.Equal(t, first.RequestID, list[0].RequestID)

	code, env = s.do(http.MethodGet, "/api/service-requests?status=hired", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, env.Allowed)

	code, env = s.do(http.MethodGet, "/api/service-requests?subjectRef=S2", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, decodeData[[]testRequest](t, env))

	code, _ = s.do(http.MethodGet, "/api/service-requests?field=phone&value=1", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestListCareerApplicationsByExperienceLevel(t *testing.T) {
	s := newTestServer(t)
	code, env := s.do(
		http.MethodPost, "/api/career-requests", fiber.Map{
			"name":            "Sam Senior",
			"email":           "sam@example.com",
			"phone":           "+1 555 0101",
			"careerId":        "C1",
			"experienceLevel": "Senior",
		},
	)
	require.Equal(t, http.StatusCreated, code, env.Message)
	created := decodeData[testRequest](t, env)

	for _, query := range []string{"experienceLevel=Senior", "field=experienceLevel&value=SENIOR"} {
		code, env = s.do(http.MethodGet, "/api/career-requests?"+query, nil)
		require.Equal(t, http.StatusOK, code, query)
		list := decodeData[[]testRequest](t, env)
		require.Len(t, list, 1, query)
		assert.Equal(t, created.RequestID, list[0].RequestID)
	}
}

func TestStatsAndDashboard(t *testing.T) {
	s := newTestServer(t)
	s.createServiceRequest()
	r := s.createServiceRequest()
	_, _ = s.do(http.MethodPut, "/api/service-requests/"+r.RequestID, fiber.Map{"status": "rejected"})

	code, env := s.do(http.MethodGet, "/api/service-requests/stats", nil)
	require.Equal(t, http.StatusOK, code)
	stats := decodeData[map[string]int64](t, env)
	assert.Equal(t, int64(1), stats["draft"])
	assert.Equal(t, int64(1), stats["rejected"])
	assert.Equal(t, int64(0), stats["approved"])

	code, env = s.do(http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, code)
	data := decodeData[dashboardData](t, env)
	assert.Equal(t, int64(2), data.Requests["service"].Total)
	assert.Equal(t, int64(0), data.Requests["contact"].Total)
	assert.Equal(t, 0, data.Catalog["services"])
}

func TestBulkStatus(t *testing.T) {
	s := newTestServer(t)
	a := s.createServiceRequest()
	b := s.createServiceRequest()

	code, env := s.do(
		http.MethodPost, "/api/service-requests/bulk-status", fiber.Map{
			"requestIds": []string{a.RequestID, b.RequestID, "SR-0-0"},
			"status":     "followup1",
		},
	)
	require.Equal(t, http.StatusOK, code, env.Message)
	res := decodeData[model.BulkResult](t, env)
	assert.ElementsMatch(t, []string{a.RequestID, b.RequestID}, res.Updated)
	assert.Equal(t, []string{"SR-0-0"}, res.Missing)

	code, _ = s.do(
		http.MethodPost, "/api/service-requests/bulk-status", fiber.Map{
			"requestIds": []string{a.RequestID},
			"status":     "hired",
		},
	)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAdminAuthentication(t *testing.T) {
	s := newTestServer(t)
	r := s.createServiceRequest()

	_, err := s.backend.Users.Create("alice", "secret-password", "Alice")
	require.NoError(t, err)

	code, _ := s.do(http.MethodGet, "/api/service-requests", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	s.login("alice", "wrong")
	code, _ = s.do(http.MethodGet, "/api/service-requests", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	s.login("alice", "secret-password")
	code, env := s.do(http.MethodPut, "/api/service-requests/"+r.RequestID, fiber.Map{"status": "pending"})
	require.Equal(t, http.StatusOK, code, env.Message)
	updated := decodeData[testRequest](t, env)
	assert.Equal(t, "alice", updated.StatusHistory[1].ChangedBy)

	// public submission stays open
	s.auth = ""
	s.createServiceRequest()
}

func TestCatalog(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(
		http.MethodPost, "/api/services", fiber.Map{
			"slug":     "staffing",
			"title":    "IT Staffing",
			"isActive": true,
		},
	)
	require.Equal(t, http.StatusCreated, code, env.Message)

	code, env = s.do(http.MethodGet, "/api/services", nil)
	require.Equal(t, http.StatusOK, code)
	list := decodeData[[]model.Service](t, env)
	require.Len(t, list, 1)
	assert.Equal(t, "IT Staffing", list[0].Title)

	code, env = s.do(
		http.MethodPut, "/api/services/staffing", fiber.Map{
			"slug":     "staffing",
			"title":    "Contract Staffing",
			"isActive": true,
		},
	)
	require.Equal(t, http.StatusOK, code, env.Message)

	// the cached listing was invalidated by the update
	code, env = s.do(http.MethodGet, "/api/services", nil)
	require.Equal(t, http.StatusOK, code)
	list = decodeData[[]model.Service](t, env)
	require.Len(t, list, 1)
	assert.Equal(t, "Contract Staffing", list[0].Title)

	code, _ = s.do(http.MethodPost, "/api/services", fiber.Map{"slug": "staffing", "title": "Again"})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = s.do(http.MethodDelete, "/api/services/staffing", nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodGet, "/api/services/staffing", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSettings(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(http.MethodGet, "/api/settings/about", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env := s.do(http.MethodPut, "/api/settings/about", `{"text":"We staff IT projects"}`)
	require.Equal(t, http.StatusOK, code, env.Message)

	code, env = s.do(http.MethodGet, "/api/settings/about", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"text":"We staff IT projects"}`, string(env.Data))

	code, env = s.do(http.MethodPut, "/api/settings/about", `{"text":"Updated"}`)
	require.Equal(t, http.StatusOK, code, env.Message)
	code, env = s.do(http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, code)
	all := decodeData[map[string]json.RawMessage](t, env)
	assert.JSONEq(t, `{"text":"Updated"}`, string(all["about"]))

	code, _ = s.do(http.MethodPut, "/api/settings/footer", `not json`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(http.MethodDelete, "/api/settings/about", nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodGet, "/api/settings/about", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(model.ValidationError{Message: "x"}))
	assert.Equal(t, http.StatusNotFound, StatusFor(model.NotFoundError("x")))
	assert.Equal(t, http.StatusConflict, StatusFor(model.AlreadyExistsError("x")))
	assert.Equal(t, http.StatusMethodNotAllowed, StatusFor(fiber.ErrMethodNotAllowed))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(io.EOF))
}

func TestOpenAPIDocument(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/openapi.yaml", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "basicAuth")
}
