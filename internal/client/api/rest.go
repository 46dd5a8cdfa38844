package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/trackkar/trackkar-cli/internal/client/models"
)

// listAssetsTimeout bounds the full-list fetch; past it the request is
// aborted and surfaced as ErrTimeout.
const listAssetsTimeout = 10 * time.Second

// RESTClient is the concrete Client speaking JSON over HTTP.
//
// A cookie jar is attached so the unauthenticated GPS endpoints, which are
// cookie-credentialed, keep whatever cookies the backend sets across calls.
type RESTClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// noToken is the TokenSource used when none is supplied.
type noToken struct{}

func (noToken) Token() string { return "" }

// NewRESTClient builds a client for the given base URL, e.g.
// "http://localhost:5000/api/v1". A nil TokenSource yields a client that
// only performs unauthenticated calls.
func NewRESTClient(baseURL string, tokens TokenSource) (*RESTClient, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if tokens == nil {
		tokens = noToken{}
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &RESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar},
		tokens:  tokens,
	}, nil
}

// SetTokenSource replaces the token source. Used once at wiring time to
// break the construction cycle between the client and the session store.
func (c *RESTClient) SetTokenSource(tokens TokenSource) {
	if tokens == nil {
		tokens = noToken{}
	}
	c.tokens = tokens
}

func (c *RESTClient) Close() error { return nil }

// errorBody is the error envelope the backend uses on non-2xx responses.
type errorBody struct {
	Message string `json:"message"`
}

// do issues one JSON request. When authed is true the current bearer token,
// if any, is attached. A non-nil out is decoded from the response body.
func (c *RESTClient) do(ctx context.Context, method, path string, authed bool, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if authed {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.mapStatusError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// mapTransportError translates low-level request failures to sentinels.
func (c *RESTClient) mapTransportError(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case errors.Is(err, context.Canceled):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}

// mapStatusError converts a non-2xx response to an error, preferring the
// server's message when the body carries one.
func (c *RESTClient) mapStatusError(resp *http.Response) error {
	var eb errorBody
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&eb)

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		if eb.Message != "" {
			return fmt.Errorf("%w: %s", ErrUnauthorized, eb.Message)
		}
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return ErrTimeout
	}
	if eb.Message != "" {
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, eb.Message)
	}
	return fmt.Errorf("server error (%d)", resp.StatusCode)
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *RESTClient) Signup(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signup", false, credentials{email, password}, &out); err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	return &out, nil
}

func (c *RESTClient) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", false, credentials{email, password}, &out); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &out, nil
}

func (c *RESTClient) GetProfile(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/user/profile", true, nil, &out); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &out, nil
}

func (c *RESTClient) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodPut, "/user/profile", true, upd, &out); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &out, nil
}

func (c *RESTClient) ListAssets(ctx context.Context) ([]models.Asset, error) {
	ctx, cancel := context.WithTimeout(ctx, listAssetsTimeout)
	defer cancel()

	var out []models.Asset
	if err := c.do(ctx, http.MethodGet, "/assets", true, nil, &out); err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return out, nil
}

func (c *RESTClient) GetAsset(ctx context.Context, gpsID string) (*models.Asset, error) {
	var out models.Asset
	if err := c.do(ctx, http.MethodGet, "/assets/"+url.PathEscape(gpsID), true, nil, &out); err != nil {
		return nil, fmt.Errorf("get asset: %w", err)
	}
	return &out, nil
}

func (c *RESTClient) CreateAsset(ctx context.Context, req models.CreateAssetRequest) (*models.Asset, error) {
	var out models.Asset
	if err := c.do(ctx, http.MethodPost, "/assets", true, req, &out); err != nil {
		return nil, fmt.Errorf("create asset: %w", err)
	}
	return &out, nil
}

func (c *RESTClient) UpdateAsset(ctx context.Context, id string, req models.UpdateAssetRequest) (*models.Asset, error) {
	var out models.Asset
	if err := c.do(ctx, http.MethodPatch, "/assets/"+url.PathEscape(id), true, req, &out); err != nil {
		return nil, fmt.Errorf("update asset: %w", err)
	}
	return &out, nil
}

func (c *RESTClient) DeleteAsset(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/assets/"+url.PathEscape(id), true, nil, nil); err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	return nil
}

// ValidateGPS checks a tracker identifier. The endpoint must answer with a
// JSON content type; anything else is a protocol error, not a failed
// validation.
func (c *RESTClient) ValidateGPS(ctx context.Context, gpsID string) (*GPSValidation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/gps/validate/"+url.PathEscape(gpsID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("validate gps: %w", c.mapTransportError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("validate gps: %w", c.mapStatusError(resp))
	}

	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return nil, fmt.Errorf("validate gps: %w: content type %q", ErrProtocol, resp.Header.Get("Content-Type"))
	}

	var out GPSValidation
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("validate gps: %w: %v", ErrProtocol, err)
	}
	return &out, nil
}

func (c *RESTClient) SubmitGPSApplication(ctx context.Context, app models.GPSApplication) error {
	if err := c.do(ctx, http.MethodPost, "/gps/apply", false, app, nil); err != nil {
		return fmt.Errorf("gps application: %w", err)
	}
	return nil
}

func (c *RESTClient) VerifyGPSDevice(ctx context.Context, gpsID, plateNumber string) (*GPSVerification, error) {
	body := struct {
		GPSID       string `json:"gpsId"`
		PlateNumber string `json:"plateNumber"`
	}{gpsID, plateNumber}

	var out GPSVerification
	if err := c.do(ctx, http.MethodPost, "/gps/verify", false, body, &out); err != nil {
		return nil, fmt.Errorf("gps verify: %w", err)
	}
	return &out, nil
}

func (c *RESTClient) GetLocation(ctx context.Context, vehicleID string) (*models.Location, error) {
	var out struct {
		Location models.Location `json:"location"`
	}
	if err := c.do(ctx, http.MethodGet, "/location/"+url.PathEscape(vehicleID), true, nil, &out); err != nil {
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &out.Location, nil
}

func (c *RESTClient) GetLocationHistory(ctx context.Context, vehicleID, start, end string) ([]models.HistoryDay, error) {
	q := url.Values{}
	q.Set("start", start)
	q.Set("end", end)

	var out []models.HistoryDay
	path := "/location/" + url.PathEscape(vehicleID) + "/history?" + q.Encode()
	if err := c.do(ctx, http.MethodGet, path, true, nil, &out); err != nil {
		return nil, fmt.Errorf("get location history: %w", err)
	}
	return out, nil
}
