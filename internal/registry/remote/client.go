// Package remote talks to the registry API over its REST contract. Network
// failures and 5xx answers surface as ErrTransport so a FallbackBackend can
// switch to the local store; every other non-2xx answer is an application
// rejection.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	autherrors "company-registry/internal/auth/errors"
	"company-registry/internal/certificate"
	"company-registry/internal/registry"
	registryerrors "company-registry/internal/registry/errors"
	"company-registry/internal/shared/apperror"
	"company-registry/internal/shared/config"
	"company-registry/internal/shared/contextutil"

	"go.uber.org/zap"
)

const maxErrorBody = 4 << 10

type Client struct {
	baseURL *url.URL
	http    *http.Client
	creds   config.Remote

	loginMu sync.Mutex
	logger  *zap.Logger
}

func NewClient(cfg config.Remote, logger ...*zap.Logger) (*Client, error) {
	l := zap.L().Named("registry.remote")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("registry.remote")
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid REMOTE_BASE_URL %q", cfg.BaseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: cfg.Timeout,
			Jar:     jar,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		creds:  cfg,
		logger: l,
	}, nil
}

type apiError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type createRequest struct {
	ID                 string    `json:"id"`
	CompanyName        string    `json:"companyName"`
	RegistrationNumber string    `json:"registrationNumber"`
	BusinessType       string    `json:"businessType"`
	Address            string    `json:"address"`
	ContactPerson      string    `json:"contactPerson"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone"`
	SubmittedDate      time.Time `json:"submittedDate"`
}

type listResponse struct {
	Companies []registry.CompanyRegistration `json:"companies"`
}

func (c *Client) endpoint(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return c.baseURL.String() + "/" + strings.Join(escaped, "/")
}

// send performs one request. Admin requests that answer 401 trigger a
// login with the configured credentials and a single retry.
func (c *Client) send(ctx context.Context, method, target string, body any, admin bool) (*http.Response, error) {
	resp, err := c.sendOnce(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || !admin || c.creds.AdminUsername == "" {
		return resp, nil
	}
	drain(resp)

	if err := c.login(ctx); err != nil {
		return nil, err
	}
	return c.sendOnce(ctx, method, target, body)
}

func (c *Client) sendOnce(ctx context.Context, method, target string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if rid := contextutil.GetRequestID(ctx); rid != "" {
		req.Header.Set("X-Request-ID", rid)
	}
	// Lets the API rate limit per applicant instead of per portal.
	if ip := contextutil.GetClientIP(ctx); ip != "" {
		req.Header.Set("X-Forwarded-For", ip)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, registryerrors.ErrTransport.WithCause(err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		drain(resp)
		return nil, registryerrors.ErrTransport.WithCause(
			fmt.Errorf("%s %s: status %d", method, req.URL.Path, resp.StatusCode),
		)
	}
	return resp, nil
}

func (c *Client) login(ctx context.Context) error {
	c.loginMu.Lock()
	defer c.loginMu.Unlock()

	resp, err := c.sendOnce(ctx, http.MethodPost, c.endpoint("admin", "login"), map[string]string{
		"username": c.creds.AdminUsername,
		"password": c.creds.AdminPassword,
	})
	if err != nil {
		return err
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("registry api rejected admin login", zap.Int("status", resp.StatusCode))
		return autherrors.ErrInvalidCredentials
	}
	c.logger.Info("logged in to registry api", zap.String("username", c.creds.AdminUsername))
	return nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	_ = resp.Body.Close()
}

// rejection maps a non-2xx answer onto the registry error taxonomy. conflict
// is the sentinel a 409 means for the calling operation.
func rejection(resp *http.Response, conflict *apperror.AppError) error {
	defer drain(resp)

	var body apiError
	_ = json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&body)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return registryerrors.ErrRegistrationNotFound
	case http.StatusConflict:
		if conflict != nil {
			return conflict
		}
	case http.StatusUnauthorized, http.StatusForbidden:
		return autherrors.ErrUnauthorized
	}

	msg := body.Error
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return apperror.New(apperror.CodeInvalidInput, msg, resp.StatusCode)
}

func decode(resp *http.Response, into any) error {
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return registryerrors.ErrTransport.WithCause(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (c *Client) List(ctx context.Context) ([]registry.CompanyRegistration, error) {
	resp, err := c.send(ctx, http.MethodGet, c.endpoint("api", "admin", "companies"), nil, true)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, rejection(resp, nil)
	}

	var out listResponse
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	if out.Companies == nil {
		out.Companies = []registry.CompanyRegistration{}
	}
	return out.Companies, nil
}

func (c *Client) Find(ctx context.Context, key string) (registry.CompanyRegistration, error) {
	if strings.TrimSpace(key) == "" {
		return registry.CompanyRegistration{}, registryerrors.ErrRegistrationNotFound
	}

	resp, err := c.send(ctx, http.MethodGet, c.endpoint("api", "companies", key), nil, false)
	if err != nil {
		return registry.CompanyRegistration{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return registry.CompanyRegistration{}, rejection(resp, nil)
	}

	var rec registry.CompanyRegistration
	if err := decode(resp, &rec); err != nil {
		return registry.CompanyRegistration{}, err
	}
	return rec, nil
}

func (c *Client) Create(ctx context.Context, rec registry.CompanyRegistration) error {
	resp, err := c.send(ctx, http.MethodPost, c.endpoint("api", "companies"), createRequest{
		ID:                 rec.ID,
		CompanyName:        rec.CompanyName,
		RegistrationNumber: rec.RegistrationNumber,
		BusinessType:       rec.BusinessType,
		Address:            rec.Address,
		ContactPerson:      rec.ContactPerson,
		Email:              rec.Email,
		Phone:              rec.Phone,
		SubmittedDate:      rec.SubmittedDate,
	}, false)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return rejection(resp, registryerrors.ErrDuplicateRegistration)
	}
	drain(resp)
	return nil
}

// SetStatus asks the API to approve or reject id. The API stamps
// approvedDate itself, so the argument is not sent.
func (c *Client) SetStatus(
	ctx context.Context,
	id string,
	status registry.Status,
	_ *time.Time,
) (registry.CompanyRegistration, error) {
	var action string
	switch status {
	case registry.StatusApproved:
		action = "approve"
	case registry.StatusRejected:
		action = "reject"
	default:
		return registry.CompanyRegistration{}, registryerrors.ErrInvalidStatusTransition
	}

	resp, err := c.send(ctx, http.MethodPut, c.endpoint("api", "admin", "companies", id, action), nil, true)
	if err != nil {
		return registry.CompanyRegistration{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return registry.CompanyRegistration{}, rejection(resp, registryerrors.ErrInvalidStatusTransition)
	}
	drain(resp)

	// The change is committed at this point. A failed re-read must not turn
	// it into an error, or the caller would fall back and redo it locally.
	rec, err := c.Find(ctx, id)
	if err != nil {
		c.logger.Warn("re-read after status change failed",
			zap.String("id", id),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		return registry.CompanyRegistration{ID: id, Status: status}, nil
	}
	return rec, nil
}

// Certificate downloads the PDF the API renders for an approved company.
func (c *Client) Certificate(ctx context.Context, subject certificate.Subject) (certificate.Artifact, error) {
	resp, err := c.send(ctx, http.MethodGet, c.endpoint("api", "companies", subject.ID, "certificate"), nil, false)
	if err != nil {
		return certificate.Artifact{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return certificate.Artifact{}, rejection(resp, registryerrors.ErrCertificateUnavailable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return certificate.Artifact{}, registryerrors.ErrTransport.WithCause(err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = certificate.ContentType(certificate.FormatPDF)
	}
	return certificate.Artifact{
		FileName:    certificate.FileName(subject.RegistrationNumber, certificate.FormatPDF),
		ContentType: contentType,
		Body:        body,
	}, nil
}

var (
	_ registry.Backend     = (*Client)(nil)
	_ certificate.Provider = (*Client)(nil)
)

