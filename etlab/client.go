// Package etlab is the HTTP client for the upstream ETLab student portal.
// It owns authentication against the portal's login endpoint and the
// transparent re-authentication that hides upstream token expiry from the
// rest of the gateway.
package etlab

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	apperrors "github.com/etlabapp/gateway/internal/errors"
	"github.com/etlabapp/gateway/sessions"
)

// Endpoint paths on the upstream portal.
const (
	EndpointLogin         = "/login"
	EndpointProfile       = "/profile"
	EndpointResults       = "/results"
	EndpointAttendance    = "/attendance"
	EndpointTimetable     = "/timetable"
	EndpointEndSemResults = "/end-semester-results"
)

// Client performs authenticated calls against the portal. It reads and
// updates the session store for cached upstream tokens but never issues
// gateway tokens itself.
type Client struct {
	baseURL  string
	sessions sessions.Repo
	http     *http.Client
	log      zerolog.Logger
}

// NewClient creates a portal client. The timeout bounds every upstream
// call; the portal imposes no deadline of its own.
func NewClient(baseURL string, repo sessions.Repo, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		sessions: repo,
		http:     &http.Client{Timeout: timeout},
		log:      log,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Authenticate posts credentials to the portal login endpoint and returns
// the upstream bearer token. The portal has been observed returning a
// token-shaped 200 for some invalid credentials, so the fresh token is
// probed against the profile endpoint before it is trusted; a probe
// failure is an authentication failure, not a transient error.
func (c *Client) Authenticate(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", errors.Wrap(apperrors.ErrValidation, "[Authenticate] username cannot be empty")
	}
	if strings.TrimSpace(password) == "" {
		return "", errors.Wrap(apperrors.ErrValidation, "[Authenticate] password cannot be empty")
	}

	token, err := c.login(ctx, username, password)
	if err != nil {
		return "", err
	}

	status, _, err := c.get(ctx, EndpointProfile, token)
	if err != nil {
		c.log.Warn().Str("username", username).Err(err).Msg("token probe failed")
		return "", errors.Wrap(apperrors.ErrAuthentication, "[Authenticate] token probe failed")
	}
	if status < 200 || status > 299 {
		c.log.Warn().Str("username", username).Int("status", status).Msg("received token rejected by probe")
		return "", errors.Wrap(apperrors.ErrAuthentication, "[Authenticate] received token is invalid")
	}

	c.log.Info().Str("username", username).Msg("authenticated with upstream portal")
	return token, nil
}

// Get issues an authenticated GET for the given session's user. On an
// upstream authorization failure it re-authenticates once with the
// session's cached credential, swaps the stored upstream token, and
// retries the original call exactly once. A second failure surfaces as an
// authentication error; the caller should require a fresh login.
func (c *Client) Get(ctx context.Context, username, path string) ([]byte, error) {
	record, ok := c.sessions.Get(username)
	if !ok {
		return nil, errors.Wrapf(apperrors.ErrNoSession, "[Get] no session for user %q", username)
	}

	status, body, err := c.get(ctx, path, record.UpstreamToken)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		c.log.Info().Str("username", username).Str("path", path).Msg("upstream token expired, re-authenticating")

		freshToken, loginErr := c.login(ctx, record.Username, record.Password)
		if loginErr != nil {
			return nil, errors.Wrap(apperrors.ErrAuthentication, "[Get] re-authentication failed")
		}
		if setErr := c.sessions.SetUpstreamToken(username, freshToken); setErr != nil {
			return nil, errors.Wrap(setErr, "[Get] failed to update session token")
		}

		status, body, err = c.get(ctx, path, freshToken)
		if err != nil {
			return nil, err
		}
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			return nil, errors.Wrap(apperrors.ErrAuthentication, "[Get] retry rejected, session unrecoverable")
		}
	}

	if err := classifyStatus(status); err != nil {
		c.log.Warn().Str("username", username).Str("path", path).Int("status", status).Msg("upstream call failed")
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.Wrapf(apperrors.ErrEmptyResponse, "[Get] empty body from %s", path)
	}

	c.sessions.Touch(username)
	return body, nil
}

// login performs a single credential login, shared by Authenticate and
// the re-authentication path. No probe is performed here.
func (c *Client) login(ctx context.Context, username, password string) (string, error) {
	payload, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return "", errors.Wrap(err, "[login] failed to encode credentials")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+EndpointLogin, bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "[login] failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.Wrap(apperrors.ErrUpstreamUnavailable, "[login] connection failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(apperrors.ErrUpstreamUnavailable, "[login] failed to read response")
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", errors.Wrap(apperrors.ErrAuthentication, "[login] credentials rejected")
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", errors.Wrap(apperrors.ErrRateLimited, "[login] rate limit exceeded")
	case resp.StatusCode >= 500:
		return "", errors.Wrapf(apperrors.ErrUpstreamUnavailable, "[login] server error %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		// The portal answers odd 4xx codes to bad credentials as well.
		return "", errors.Wrapf(apperrors.ErrAuthentication, "[login] client error %d", resp.StatusCode)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return "", errors.Wrap(apperrors.ErrEmptyResponse, "[login] empty response from login endpoint")
	}

	token := strings.TrimSpace(gjson.GetBytes(body, "token").String())
	if token == "" {
		return "", errors.Wrap(apperrors.ErrAuthentication, "[login] no token in response")
	}
	return token, nil
}

// get performs one bearer-authenticated GET and returns the status and
// body. Status classification is left to the caller so the retry logic
// can see authorization failures.
func (c *Client) get(ctx context.Context, path, upstreamToken string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, nil, errors.Wrap(err, "[get] failed to build request")
	}
	req.Header.Set("Authorization", "Bearer "+upstreamToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, errors.Wrapf(apperrors.ErrUpstreamUnavailable, "[get] connection failed for %s", path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, errors.Wrapf(apperrors.ErrUpstreamUnavailable, "[get] failed to read response from %s", path)
	}
	return resp.StatusCode, body, nil
}

// classifyStatus maps a non-authorization upstream status onto the error
// taxonomy. Authorization failures are handled before this point.
func classifyStatus(status int) error {
	switch {
	case status >= 200 && status <= 299:
		return nil
	case status == http.StatusTooManyRequests:
		return apperrors.ErrRateLimited
	case status >= 500:
		return apperrors.ErrUpstreamUnavailable
	default:
		return apperrors.ErrUpstreamClient
	}
}
