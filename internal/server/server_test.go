package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/satriastudio/studio-be/internal/auth"
	"github.com/satriastudio/studio-be/internal/config"
	"github.com/satriastudio/studio-be/internal/fieldcodec"
	"github.com/satriastudio/studio-be/internal/http/respond"
	"github.com/satriastudio/studio-be/internal/logging"
	"github.com/satriastudio/studio-be/internal/models"
	"github.com/satriastudio/studio-be/internal/models/dto"
	"github.com/satriastudio/studio-be/internal/storage"
	"github.com/satriastudio/studio-be/internal/storage/memory"
)

const (
	testSecret   = "0123456789abcdef0123456789abcdef"
	testUser     = "admin"
	testPassword = "s3cret-pass"
)

func init() {
	logging.Configure("test", io.Discard, "error")
}

func testConfig() config.Config {
	key := make([]byte, fieldcodec.KeySize)
	for i := range key {
		key[i] = byte(i + 7)
	}
	return config.Config{
		Port:               "0",
		StorageDriver:      config.DriverMemory,
		JWTSecret:          testSecret,
		JWTIssuer:          config.AppName,
		JWTTTL:             time.Hour,
		EncryptionKey:      key,
		CORSOrigins:        []string{"*"},
		BcryptCost:         bcrypt.MinCost,
		OrderRatePerMinute: 100,
		LoginRatePerMinute: 100,
	}
}

type harness struct {
	t       *testing.T
	store   *memory.Store
	handler http.Handler
}

func newHarness(t *testing.T, cfg config.Config) *harness {
	t.Helper()
	store := memory.NewStore()
	hash, err := auth.HashPassword(testPassword, bcrypt.MinCost)
	require.NoError(t, err)
	_, err = store.UpsertAdmin(context.Background(), models.Admin{Username: testUser, PasswordHash: hash})
	require.NoError(t, err)

	srv, err := New(cfg, store)
	require.NoError(t, err)
	return &harness{t: t, store: store, handler: srv.Handler()}
}

func (h *harness) do(method, path, token string, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func (h *harness) login() string {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/api/admin/login", "", dto.LoginRequest{Username: testUser, Password: testPassword})
	require.Equal(h.t, http.StatusOK, rec.Code, rec.Body.String())
	var out dto.LoginResponse
	require.NoError(h.t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(h.t, out.Token)
	assert.WithinDuration(h.t, time.Now().Add(time.Hour), out.ExpiresAt, 5*time.Second)
	return out.Token
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) respond.ErrorBody {
	t.Helper()
	var body respond.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestOrderRoundTripThroughAdminRead(t *testing.T) {
	h := newHarness(t, testConfig())

	rec := h.do(http.MethodPost, "/api/orders", "", map[string]string{
		"name":     "Ayu",
		"whatsapp": "+628123",
		"detail":   "Logo please",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created dto.CreateOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Positive(t, created.ID)

	stored, err := h.store.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	for _, v := range []string{stored[0].Name, stored[0].WhatsApp, stored[0].Detail} {
		assert.Contains(t, v, ":")
		assert.NotContains(t, v, "Ayu")
		assert.NotContains(t, v, "628123")
	}

	token := h.login()
	rec = h.do(http.MethodGet, "/api/orders", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var list []models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
	assert.Equal(t, "Ayu", list[0].Name)
	assert.Equal(t, "+628123", list[0].WhatsApp)
	assert.Equal(t, "Logo please", list[0].Detail)
	assert.Nil(t, list[0].Deadline)
}

func TestOrdersListRejectsBadTokens(t *testing.T) {
	h := newHarness(t, testConfig())

	foreign, err := auth.NewTokenManager("ffffffffffffffffffffffffffffffff", config.AppName, time.Hour).
		Issue(models.Admin{ID: 1, Username: testUser})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing", header: ""},
		{name: "wrong scheme", header: "Basic abc"},
		{name: "garbage", header: "Bearer not.a.jwt"},
		{name: "foreign secret", header: "Bearer " + foreign.Value},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.handler.ServeHTTP(rec, req)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, respond.ErrorBody{Code: respond.CodeUnauthorized, Message: "unauthorized"}, decodeError(t, rec))
		})
	}
}

func TestLoginFailuresLookAlike(t *testing.T) {
	h := newHarness(t, testConfig())

	unknown := h.do(http.MethodPost, "/api/admin/login", "", dto.LoginRequest{Username: "ghost", Password: testPassword})
	wrong := h.do(http.MethodPost, "/api/admin/login", "", dto.LoginRequest{Username: testUser, Password: "nope"})

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, unknown.Code, wrong.Code)
	assert.Equal(t, unknown.Body.String(), wrong.Body.String())
	assert.Equal(t, respond.CodeInvalidCredentials, decodeError(t, unknown).Code)
}

func TestLoginRejectsBadInput(t *testing.T) {
	h := newHarness(t, testConfig())

	rec := h.do(http.MethodPost, "/api/admin/login", "", dto.LoginRequest{Username: testUser})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, respond.CodeValidation, decodeError(t, rec).Code)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader("{"))
	rec = httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, respond.CodeInvalidPayload, decodeError(t, rec).Code)
}

func TestOrderValidation(t *testing.T) {
	h := newHarness(t, testConfig())

	rec := h.do(http.MethodPost, "/api/orders", "", map[string]string{"name": "Ayu", "whatsapp": "   "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, respond.CodeValidation, body.Code)
	assert.Contains(t, body.Message, "whatsapp is required")
	assert.Contains(t, body.Message, "detail is required")

	rec = h.do(http.MethodPost, "/api/orders", "", map[string]any{"name": "Ayu", "whatsapp": "1", "detail": "x", "extra": true})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, respond.CodeInvalidPayload, decodeError(t, rec).Code)

	orders, err := h.store.ListOrders(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderIntakeIsRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.OrderRatePerMinute = 2
	h := newHarness(t, cfg)

	body := map[string]string{"name": "Ayu", "whatsapp": "1", "detail": "x"}
	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusCreated, h.do(http.MethodPost, "/api/orders", "", body).Code)
	}
	rec := h.do(http.MethodPost, "/api/orders", "", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, respond.CodeRateLimited, decodeError(t, rec).Code)

	// Admin reads are not throttled by the intake limiter.
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/api/orders", h.login(), nil).Code)
}

func TestProjectLifecycle(t *testing.T) {
	h := newHarness(t, testConfig())

	rec := h.do(http.MethodGet, "/api/projects", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	payload := dto.CreateProjectRequest{Title: "Rebrand", Category: "Branding", ImageURL: "https://cdn.example.com/a.png"}
	rec = h.do(http.MethodPost, "/api/projects", "", payload)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := h.login()
	rec = h.do(http.MethodPost, "/api/projects", token, dto.CreateProjectRequest{Title: "x", Category: "y", ImageURL: "ftp://nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodPost, "/api/projects", token, payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created models.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Rebrand", created.Title)

	rec = h.do(http.MethodGet, "/api/projects", "", nil)
	var list []models.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)

	path := "/api/projects/" + strconv.FormatInt(created.ID, 10)
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodDelete, path, "", nil).Code)

	rec = h.do(http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"project deleted"}`, rec.Body.String())

	rec = h.do(http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, respond.CodeNotFound, decodeError(t, rec).Code)
}

func TestRoutingFallbacks(t *testing.T) {
	h := newHarness(t, testConfig())

	rec := h.do(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, respond.CodeNotFound, decodeError(t, rec).Code)

	rec = h.do(http.MethodPut, "/api/orders", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, respond.CodeMethodNotAllowed, decodeError(t, rec).Code)
}

type failingCounts struct {
	*memory.Store
}

func (failingCounts) Counts(context.Context) (models.Counts, error) {
	return models.Counts{}, errors.New("dial tcp 10.0.0.5:5432: connection refused")
}

func TestHealth(t *testing.T) {
	h := newHarness(t, testConfig())
	rec := h.do(http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Contains(t, rec.Body.String(), `"admins":1`)

	srv, err := New(testConfig(), failingCounts{memory.NewStore()})
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}

type failingAdmins struct {
	*memory.Store
}

func (failingAdmins) FindAdminByUsername(context.Context, string) (models.Admin, error) {
	return models.Admin{}, fmt.Errorf("%w: dial tcp 10.0.0.5:5432: connection refused", storage.ErrUnavailable)
}

func TestLoginBackendUnavailable(t *testing.T) {
	srv, err := New(testConfig(), failingAdmins{memory.NewStore()})
	require.NoError(t, err)

	raw, err := json.Marshal(dto.LoginRequest{Username: testUser, Password: testPassword})
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewReader(raw)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, respond.CodeUnavailable, body.Code)
	assert.NotEqual(t, respond.CodeInvalidCredentials, body.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
	assert.NotContains(t, rec.Body.String(), "dial tcp")
}
