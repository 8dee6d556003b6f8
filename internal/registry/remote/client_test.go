package remote_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	autherrors "company-registry/internal/auth/errors"
	"company-registry/internal/certificate"
	"company-registry/internal/registry"
	registryerrors "company-registry/internal/registry/errors"
	"company-registry/internal/registry/local"
	"company-registry/internal/registry/remote"
	"company-registry/internal/shared/config"
	"company-registry/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var submitted = time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

func newClient(t *testing.T, srv *httptest.Server) *remote.Client {
	t.Helper()
	c, err := remote.NewClient(config.Remote{
		BaseURL:       srv.URL + "/",
		Timeout:       2 * time.Second,
		AdminUsername: "admin",
		AdminPassword: "admin123",
	}, zap.NewNop())
	assert.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := remote.NewClient(config.Remote{BaseURL: "localhost"}, zap.NewNop())
	assert.Error(t, err)
}

func TestClient_Find(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/companies/{key}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("key") != "RN 1" {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "Not found"})
			return
		}
		writeJSON(w, http.StatusOK, registry.CompanyRegistration{
			ID:                 "REG-1-AAAAA",
			CompanyName:        "Acme",
			RegistrationNumber: "RN 1",
			Status:             registry.StatusPending,
			SubmittedDate:      submitted,
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	c := newClient(t, srv)

	rec, err := c.Find(context.Background(), "RN 1")
	assert.NoError(t, err)
	assert.Equal(t, "REG-1-AAAAA", rec.ID)
	assert.True(t, submitted.Equal(rec.SubmittedDate))

	_, err = c.Find(context.Background(), "RN-404")
	assert.ErrorIs(t, err, registryerrors.ErrRegistrationNotFound)
}

func TestClient_Create(t *testing.T) {
	var got map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/companies", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		if got["registrationNumber"] == "RN-DUP" {
			writeJSON(w, http.StatusConflict, map[string]any{"success": false, "error": "Registration number already exists"})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "id": got["id"]})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	c := newClient(t, srv)

	rec := registry.CompanyRegistration{
		ID:                 "REG-1-AAAAA",
		CompanyName:        "Acme",
		RegistrationNumber: "RN-1",
		Status:             registry.StatusPending,
		SubmittedDate:      submitted,
	}
	assert.NoError(t, c.Create(context.Background(), rec))
	assert.Equal(t, "REG-1-AAAAA", got["id"])
	assert.NotContains(t, got, "status")
	assert.NotContains(t, got, "approvedDate")

	rec.RegistrationNumber = "RN-DUP"
	err := c.Create(context.Background(), rec)
	assert.ErrorIs(t, err, registryerrors.ErrDuplicateRegistration)
}

func TestClient_TransportErrors(t *testing.T) {
	t.Run("5xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := newClient(t, srv).Find(context.Background(), "RN-1")
		assert.ErrorIs(t, err, registryerrors.ErrTransport)
	})

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		c := newClient(t, srv)
		srv.Close()

		err := c.Create(context.Background(), registry.CompanyRegistration{ID: "REG-1-AAAAA"})
		assert.ErrorIs(t, err, registryerrors.ErrTransport)
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("<html>"))
		}))
		defer srv.Close()

		_, err := newClient(t, srv).Find(context.Background(), "RN-1")
		assert.ErrorIs(t, err, registryerrors.ErrTransport)
	})
}

// adminServer requires the session cookie that /admin/login hands out.
func adminServer(t *testing.T, logins *int32) *httptest.Server {
	t.Helper()
	records := []registry.CompanyRegistration{
		{ID: "REG-1-AAAAA", RegistrationNumber: "RN-1", Status: registry.StatusPending, SubmittedDate: submitted},
	}

	authed := func(r *http.Request) bool {
		c, err := r.Cookie("session")
		return err == nil && c.Value == "token"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /admin/login", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(logins, 1)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "admin" || body["password"] != "admin123" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "Invalid credentials"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "token", Path: "/"})
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})
	mux.HandleFunc("GET /api/admin/companies", func(w http.ResponseWriter, r *http.Request) {
		if !authed(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"companies": records})
	})
	mux.HandleFunc("PUT /api/admin/companies/{id}/{action}", func(w http.ResponseWriter, r *http.Request) {
		if !authed(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.PathValue("id") != records[0].ID {
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "Not found"})
			return
		}
		next := registry.StatusApproved
		if r.PathValue("action") == "reject" {
			next = registry.StatusRejected
		}
		if _, err := registry.Transition(records[0].Status, next); err != nil {
			writeJSON(w, http.StatusConflict, map[string]any{"success": false, "error": err.Error()})
			return
		}
		records[0].Status = next
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})
	mux.HandleFunc("GET /api/companies/{key}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, records[0])
	})
	return httptest.NewServer(mux)
}

func TestClient_AdminLoginOnDemand(t *testing.T) {
	var logins int32
	srv := adminServer(t, &logins)
	defer srv.Close()
	c := newClient(t, srv)
	ctx := context.Background()

	list, err := c.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = c.List(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&logins))

	rec, err := c.SetStatus(ctx, "REG-1-AAAAA", registry.StatusApproved, nil)
	assert.NoError(t, err)
	assert.Equal(t, registry.StatusApproved, rec.Status)

	_, err = c.SetStatus(ctx, "REG-1-AAAAA", registry.StatusRejected, nil)
	assert.ErrorIs(t, err, registryerrors.ErrInvalidStatusTransition)

	_, err = c.SetStatus(ctx, "REG-9-ZZZZZ", registry.StatusApproved, nil)
	assert.ErrorIs(t, err, registryerrors.ErrRegistrationNotFound)
}

func TestClient_AdminBadCredentials(t *testing.T) {
	var logins int32
	srv := adminServer(t, &logins)
	defer srv.Close()

	c, err := remote.NewClient(config.Remote{BaseURL: srv.URL, AdminUsername: "admin", AdminPassword: "wrong"}, zap.NewNop())
	assert.NoError(t, err)

	_, err = c.List(context.Background())
	assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
}

func TestClient_Certificate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/companies/{id}/certificate", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "REG-1-AAAAA" {
			writeJSON(w, http.StatusConflict, map[string]any{"success": false, "error": "not approved"})
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 test"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	c := newClient(t, srv)

	art, err := c.Certificate(context.Background(), certificate.Subject{ID: "REG-1-AAAAA", RegistrationNumber: "RN-1"})
	assert.NoError(t, err)
	assert.Equal(t, "Certificate_RN-1.pdf", art.FileName)
	assert.Equal(t, "application/pdf", art.ContentType)
	assert.Equal(t, "%PDF-1.4 test", string(art.Body))

	_, err = c.Certificate(context.Background(), certificate.Subject{ID: "REG-2-BBBBB", RegistrationNumber: "RN-2"})
	assert.ErrorIs(t, err, registryerrors.ErrCertificateUnavailable)
}

func TestClient_SetStatusSurvivesFailedReRead(t *testing.T) {
	var puts int32
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/admin/companies/{id}/approve", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&puts, 1)
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})
	mux.HandleFunc("GET /api/companies/{key}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadGateway, map[string]any{"error": "upstream down"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx := context.Background()
	secondary := local.NewBackend(local.NewMemorySlot(), zap.NewNop())
	backend := registry.NewFallbackBackend(newClient(t, srv), secondary, registry.TransportFallback{}, zap.NewNop())

	rec, err := backend.SetStatus(ctx, "REG-1-AAAAA", registry.StatusApproved, nil)
	assert.NoError(t, err)
	assert.Equal(t, "REG-1-AAAAA", rec.ID)
	assert.Equal(t, registry.StatusApproved, rec.Status)
	assert.Equal(t, int32(1), atomic.LoadInt32(&puts))

	stored, err := secondary.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, stored)
}

func TestClient_ForwardsClientIP(t *testing.T) {
	var forwarded string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/companies/{key}", func(w http.ResponseWriter, r *http.Request) {
		forwarded = r.Header.Get("X-Forwarded-For")
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Not found"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	c := newClient(t, srv)

	ctx := contextutil.WithClientIP(context.Background(), "203.0.113.7")
	_, err := c.Find(ctx, "RN-1")

	assert.ErrorIs(t, err, registryerrors.ErrRegistrationNotFound)
	assert.Equal(t, "203.0.113.7", forwarded)
}
