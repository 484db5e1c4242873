// Package api is the HTTP client the terminal app uses to reach the service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"contentproof/internal/chain"
	"contentproof/internal/client/nav"
	"contentproof/internal/model"
	"contentproof/internal/verify"
)

const maxErrorBody = 64 << 10

// Error is a non-2xx response from the service.
type Error struct {
	Status  int
	Code    string
	Message string
	// Outcome is set when a verification attempt failed part way.
	Outcome *verify.Outcome
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%d %s)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// IsUnauthorized reports whether err is a 401 from the service.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// AuthResponse is the body returned by signup and signin.
type AuthResponse struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Token   string `json:"token"`
	Message string `json:"message"`
}

// Records is one page of audit records.
type Records struct {
	Data   []model.VerificationRecord `json:"data"`
	Total  int                        `json:"total"`
	Limit  int                        `json:"limit"`
	Offset int                        `json:"offset"`
}

// Client talks to one service instance. Token is sent as a bearer when set.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New returns a client for baseURL. A nil httpClient uses a client with a
// timeout long enough to cover receipt waits.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Minute}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// SetToken sets the bearer token for later calls. An empty token clears it.
func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) Signup(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/signup", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Signin(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/signin", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerifyText(ctx context.Context, text string) (*verify.Outcome, error) {
	var out verify.Outcome
	if err := c.doJSON(ctx, http.MethodPost, "/api/verify/text", map[string]string{"text": text}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerifyHash(ctx context.Context, hash string) (*verify.Outcome, error) {
	var out verify.Outcome
	if err := c.doJSON(ctx, http.MethodPost, "/api/verify/hash", map[string]string{"hash": hash}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyFile uploads data as the multipart field "file".
func (c *Client) VerifyFile(ctx context.Context, filename string, data []byte) (*verify.Outcome, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/verify/file", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out verify.Outcome
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Status(ctx context.Context) (*verify.Snapshot, error) {
	var out verify.Snapshot
	if err := c.doJSON(ctx, http.MethodGet, "/api/verify/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// History fetches on-chain entries for account, or the service signer when empty.
func (c *Client) History(ctx context.Context, account string) (*verify.HistoryView, error) {
	path := "/api/verify/history"
	if account != "" {
		path += "?account=" + url.QueryEscape(account)
	}
	var out verify.HistoryView
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Records(ctx context.Context, limit, offset int) (*Records, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var out Records
	if err := c.doJSON(ctx, http.MethodGet, "/api/verify/records?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ChainStatus(ctx context.Context) (*chain.Status, error) {
	var out chain.Status
	if err := c.doJSON(ctx, http.MethodGet, "/api/chain/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the claims the service sees for the current token.
func (c *Client) Me(ctx context.Context) (map[string]any, error) {
	out := map[string]any{}
	if err := c.doJSON(ctx, http.MethodGet, "/api/me", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SessionFrom builds a client session from an auth response. The expiry is read
// from the token without verifying it; the service verifies on every call.
func SessionFrom(res *AuthResponse) (*nav.Session, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(res.Token, claims); err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	s := &nav.Session{UserID: res.ID, Name: res.Name, Email: res.Email, Token: res.Token}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := c.newRequest(ctx, method, path, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
		Error   struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
		Details *verify.Outcome `json:"details"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	apiErr := &Error{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Code = body.Error.Code
		if body.Message != "" {
			apiErr.Message = body.Message
		} else if body.Error.Message != "" {
			apiErr.Message = body.Error.Message
		}
		if body.Details != nil && body.Details.Phase != "" {
			apiErr.Outcome = body.Details
		}
	}
	return apiErr
}
