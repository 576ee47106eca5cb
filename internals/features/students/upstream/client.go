package upstream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"spectra_backend/internals/configs"
)

var (
	// ErrAuth: login rejected or token refused.
	ErrAuth = errors.New("upstream rejected credentials")
	// ErrFormat: payload is missing the keys we rely on.
	ErrFormat = errors.New("upstream payload missing expected keys")
	// ErrUnavailable: transport failure, timeout or 5xx.
	ErrUnavailable = errors.New("upstream unavailable")
)

const maxBodyBytes = 8 << 20

// StatusError is a non-2xx answer from the upstream API.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.Code)
}

func (e *StatusError) Unwrap() error {
	switch {
	case e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden:
		return ErrAuth
	case e.Code >= 500:
		return ErrUnavailable
	default:
		return nil
	}
}

// Client talks to the student-information API. Every call gets its own
// timeout on top of the caller's context.
type Client struct {
	cfg  configs.UpstreamConfig
	http *http.Client
	log  *zap.Logger
}

func NewClient(cfg configs.UpstreamConfig, log *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log.Named("upstream"),
	}
}

// =======================
// ENDPOINTS
// =======================

type loginRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Application string `json:"application"`
}

type loginResponse struct {
	Error       *bool  `json:"Error"`
	AccessToken string `json:"access_token"`
	Message     string `json:"message"`
}

// Login exchanges a phone number and password for an access token.
func (c *Client) Login(ctx context.Context, phone, password string) (string, error) {
	body, err := sonic.Marshal(loginRequest{Username: phone, Password: password, Application: c.cfg.Application})
	if err != nil {
		return "", err
	}

	raw, err := c.do(ctx, http.MethodPost, "/auth/login", "", body)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Code >= 400 && se.Code < 500 {
			return "", fmt.Errorf("%w: %v", ErrAuth, err)
		}
		return "", err
	}

	var resp loginResponse
	if err := sonic.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("%w: login: %v", ErrFormat, err)
	}
	switch {
	case resp.Error == nil:
		return "", fmt.Errorf("%w: login: no Error flag", ErrFormat)
	case *resp.Error:
		return "", fmt.Errorf("%w: %s", ErrAuth, resp.Message)
	case resp.AccessToken == "":
		return "", fmt.Errorf("%w: login: empty access_token", ErrFormat)
	}
	return resp.AccessToken, nil
}

type profileEnvelope struct {
	Payload *struct {
		Student      map[string]any `json:"student"`
		StudentImage string         `json:"studentimage"`
	} `json:"payload"`
}

// FetchProfile returns payload.student with payload.studentimage merged in
// as "picture".
func (c *Client) FetchProfile(ctx context.Context, token, id string) (map[string]any, error) {
	raw, err := c.do(ctx, http.MethodGet, "/studentmaster/studentprofile/"+url.PathEscape(id), token, nil)
	if err != nil {
		return nil, err
	}

	var env profileEnvelope
	if err := sonic.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: profile: %v", ErrFormat, err)
	}
	if env.Payload == nil || env.Payload.Student == nil {
		return nil, fmt.Errorf("%w: profile: no payload.student", ErrFormat)
	}

	student := env.Payload.Student
	if env.Payload.StudentImage != "" {
		student["picture"] = env.Payload.StudentImage
	}
	return student, nil
}

type attendanceEnvelope struct {
	Payload map[string]any `json:"payload"`
}

func (c *Client) FetchAttendance(ctx context.Context, token string) (map[string]any, error) {
	raw, err := c.do(ctx, http.MethodGet, "/sanjaya/getAttendance", token, nil)
	if err != nil {
		return nil, err
	}

	var env attendanceEnvelope
	if err := sonic.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: attendance: %v", ErrFormat, err)
	}
	if env.Payload == nil {
		return nil, fmt.Errorf("%w: attendance: no payload", ErrFormat)
	}
	return env.Payload, nil
}

// =======================
// TRANSPORT
// =======================

func (c *Client) do(ctx context.Context, method, path, token string, body []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("upstream call failed", zap.String("path", path), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}

	c.log.Debug("upstream call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: raw}
	}
	return raw, nil
}
