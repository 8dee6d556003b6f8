package portal_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"company-registry/internal/auth"
	authMock "company-registry/internal/auth/mock"
	"company-registry/internal/certificate"
	"company-registry/internal/portal"
	"company-registry/internal/registry"
	"company-registry/internal/registry/local"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type allowAll struct{}

func (allowAll) Enforce(_, _, _ string) (bool, error) { return true, nil }

type envelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type portalDeps struct {
	router  *gin.Engine
	backend *local.Backend
	auth    *authMock.MockAuthenticator
}

func setupPortalTest(t *testing.T) *portalDeps {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	authenticator := authMock.NewMockAuthenticator(ctrl)

	backend := local.NewBackend(local.NewMemorySlot(), zap.NewNop())
	handler := portal.NewHandler(
		registry.NewRegistrationService(backend, zap.NewNop()),
		registry.NewReviewService(backend, nil, zap.NewNop()),
		registry.NewLookupService(backend, certificate.NewTemplateProvider(certificate.FormatPDF), zap.NewNop()),
		zap.NewNop(),
	)

	r := gin.New()
	portal.RegisterRoutes(r, handler, auth.NewHandler(authenticator, false, 3600, zap.NewNop()), authenticator, allowAll{})
	return &portalDeps{router: r, backend: backend, auth: authenticator}
}

func do(t *testing.T, r *gin.Engine, method, target string, body any, admin bool) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if admin {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "jwt-token"})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func (d *portalDeps) expectAdmin() {
	d.auth.EXPECT().
		Authenticate(gomock.Any(), "jwt-token").
		Return(auth.Principal{Username: "admin", Role: auth.RoleAdmin}, nil)
}

func submit(t *testing.T, d *portalDeps, regNo string) string {
	t.Helper()
	w, env := do(t, d.router, http.MethodPost, "/registrations", map[string]string{
		"companyName":        "Acme Ltd",
		"registrationNumber": regNo,
		"businessType":       "LLC",
	}, false)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp registry.SubmitResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	return resp.ID
}

func TestPortal_Submit(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		d := setupPortalTest(t)
		id := submit(t, d, "RN-1")
		assert.True(t, registry.ValidID(id))
	})

	t.Run("duplicate", func(t *testing.T) {
		d := setupPortalTest(t)
		submit(t, d, "RN-1")

		w, env := do(t, d.router, http.MethodPost, "/registrations", map[string]string{
			"companyName":        "Other",
			"registrationNumber": "RN-1",
		}, false)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.False(t, env.Ok)
		assert.Equal(t, "CONFLICT", env.Error.Code)
	})

	t.Run("validation", func(t *testing.T) {
		d := setupPortalTest(t)

		w, env := do(t, d.router, http.MethodPost, "/registrations", map[string]string{
			"companyName": "Acme Ltd",
		}, false)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, env.Ok)
	})
}

func TestPortal_StatusAndCertificate(t *testing.T) {
	d := setupPortalTest(t)
	id := submit(t, d, "RN-1")

	w, env := do(t, d.router, http.MethodGet, "/status/RN-1", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var res registry.StatusResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, registry.StatusPending, res.Registration.Status)
	assert.False(t, res.CanDownloadCertificate)

	w, _ = do(t, d.router, http.MethodGet, "/status/RN-1/certificate", nil, false)
	assert.Equal(t, http.StatusConflict, w.Code)

	_, err := d.backend.SetStatus(context.Background(), id, registry.StatusApproved, nil)
	require.NoError(t, err)

	w, _ = do(t, d.router, http.MethodGet, "/status/RN-1/certificate", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Certificate_RN-1.pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w, env = do(t, d.router, http.MethodGet, "/status/RN-404", nil, false)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestPortal_Review(t *testing.T) {
	t.Run("dashboard requires session", func(t *testing.T) {
		d := setupPortalTest(t)

		w, _ := do(t, d.router, http.MethodGet, "/admin/registrations", nil, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("approve moves to approved list", func(t *testing.T) {
		d := setupPortalTest(t)
		id := submit(t, d, "RN-1")
		d.expectAdmin()

		w, env := do(t, d.router, http.MethodPut, "/admin/registrations/"+id+"/approve", nil, true)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var dash registry.Dashboard
		require.NoError(t, json.Unmarshal(env.Data, &dash))
		assert.Empty(t, dash.Pending)
		require.Len(t, dash.Approved, 1)
		assert.Equal(t, id, dash.Approved[0].ID)
	})

	t.Run("reject without confirmation", func(t *testing.T) {
		d := setupPortalTest(t)
		id := submit(t, d, "RN-1")
		d.expectAdmin()

		w, env := do(t, d.router, http.MethodPut, "/admin/registrations/"+id+"/reject", nil, true)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})

	t.Run("reject confirmed by query", func(t *testing.T) {
		d := setupPortalTest(t)
		id := submit(t, d, "RN-1")
		d.expectAdmin()

		w, env := do(t, d.router, http.MethodPut, "/admin/registrations/"+id+"/reject?confirm=true", nil, true)

		require.Equal(t, http.StatusOK, w.Code)
		var dash registry.Dashboard
		require.NoError(t, json.Unmarshal(env.Data, &dash))
		assert.Empty(t, dash.Pending)
		assert.Empty(t, dash.Approved)
	})

	t.Run("reject confirmed by body", func(t *testing.T) {
		d := setupPortalTest(t)
		id := submit(t, d, "RN-1")
		d.expectAdmin()

		w, _ := do(t, d.router, http.MethodPut, "/admin/registrations/"+id+"/reject", portal.RejectRequest{Confirm: true}, true)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		d := setupPortalTest(t)
		d.expectAdmin()

		w, _ := do(t, d.router, http.MethodPut, "/admin/registrations/REG-1-ZZZZZ/approve", nil, true)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
