package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-trip-sync/internal/config"
	"github.com/MKhiriev/go-trip-sync/internal/logger"
	"github.com/MKhiriev/go-trip-sync/internal/utils"
	"github.com/MKhiriev/go-trip-sync/models"
	"github.com/go-resty/resty/v2"
)

const hashHeader = "HashSHA256"

// adapterRetryCount is how many times a request is repeated after a
// transport failure or a 502/503/504 answer.
const adapterRetryCount = 2

type httpServerAdapter struct {
	client *utils.HTTPClient

	hashKey string

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of [ServerAdapter].
// It normalises and validates the base URL from adapterCfg.HTTPAddress,
// configures the underlying HTTP client with the resolved base URL and request
// timeout, and initialises the shared HMAC hasher pool used for request
// integrity hashes.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	timeout := adapterCfg.RequestTimeout
	if timeout <= 0 {
		timeout = config.DefaultAdapterTimeout
	}

	client := utils.NewHTTPClient(baseURL, timeout, adapterRetryCount)

	if appCfg.HashKey != "" {
		utils.InitHasherPool(appCfg.HashKey)
	}

	return &httpServerAdapter{client: client, hashKey: appCfg.HashKey, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter]. It stores token (whitespace-trimmed) for
// use in the Authorization header of all subsequent authenticated requests.
func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [ServerAdapter].
func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Register implements [ServerAdapter]. It POSTs the credentials to
// POST /api/user/register and keeps the access token from the
// Authorization response header.
func (h *httpServerAdapter) Register(ctx context.Context, user models.User) (models.Token, error) {
	return h.authenticate(ctx, "/api/user/register", user)
}

// Login implements [ServerAdapter]. It POSTs the credentials to
// POST /api/user/login and keeps the access token from the Authorization
// response header.
func (h *httpServerAdapter) Login(ctx context.Context, user models.User) (models.Token, error) {
	return h.authenticate(ctx, "/api/user/login", user)
}

func (h *httpServerAdapter) authenticate(ctx context.Context, path string, user models.User) (models.Token, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.User{Login: user.Login, Password: user.Password}).
		Post(path)
	if err != nil {
		return models.Token{}, fmt.Errorf("%s request: %w", path, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Token{}, err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return models.Token{}, fmt.Errorf("%s parse bearer token: %w", path, err)
	}
	userID, err := utils.ParseUserIDFromJWT(token)
	if err != nil {
		return models.Token{}, fmt.Errorf("%s parse user id: %w", path, err)
	}

	h.SetToken(token)
	return models.Token{SignedString: token, UserID: userID}, nil
}

// IssueSyncToken implements [ServerAdapter]. POST /api/sync/token.
func (h *httpServerAdapter) IssueSyncToken(ctx context.Context, deviceID string) (models.SyncToken, error) {
	var token models.SyncToken

	req, err := h.jsonRequest(ctx, models.SyncTokenRequest{DeviceID: deviceID})
	if err != nil {
		return models.SyncToken{}, err
	}
	resp, err := req.SetResult(&token).Post("/api/sync/token")
	if err != nil {
		return models.SyncToken{}, fmt.Errorf("sync token request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.SyncToken{}, err
	}

	return token, nil
}

// SyncBatch implements [ServerAdapter]. POST /api/sync/batch.
func (h *httpServerAdapter) SyncBatch(ctx context.Context, ops []models.Operation) (models.SyncResult, error) {
	var result models.SyncResult

	req, err := h.jsonRequest(ctx, models.BatchRequest{Operations: ops})
	if err != nil {
		return models.SyncResult{}, err
	}
	resp, err := req.Post("/api/sync/batch")
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("sync batch request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.SyncResult{}, err
	}

	if err = json.Unmarshal(resp.Body(), &result); err != nil {
		return models.SyncResult{}, fmt.Errorf("decode sync batch response: %w", err)
	}

	return result, nil
}

// ResolveConflict implements [ServerAdapter]. POST /api/sync/conflicts/resolve.
func (h *httpServerAdapter) ResolveConflict(ctx context.Context, resolve models.ResolveRequest) error {
	req, err := h.jsonRequest(ctx, resolve)
	if err != nil {
		return err
	}
	resp, err := req.Post("/api/sync/conflicts/resolve")
	if err != nil {
		return fmt.Errorf("resolve conflict request: %w", err)
	}

	return mapHTTPError(resp)
}

// ChangesSince implements [ServerAdapter]. GET /api/sync/changes.
func (h *httpServerAdapter) ChangesSince(ctx context.Context, since time.Time, scopeIDs []string) (models.DeltaResult, error) {
	var delta models.DeltaResult

	req := h.authedRequest(ctx).SetQueryParam("since", since.UTC().Format(time.RFC3339Nano))
	if len(scopeIDs) > 0 {
		req.SetQueryParam("scope", strings.Join(scopeIDs, ","))
	}

	resp, err := req.Get("/api/sync/changes")
	if err != nil {
		return models.DeltaResult{}, fmt.Errorf("changes request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.DeltaResult{}, err
	}

	if err = json.Unmarshal(resp.Body(), &delta); err != nil {
		return models.DeltaResult{}, fmt.Errorf("decode changes response: %w", err)
	}

	return delta, nil
}

// ShareChecklist implements [ServerAdapter].
// POST /api/checklists/{checklistID}/shares.
func (h *httpServerAdapter) ShareChecklist(ctx context.Context, checklistID, login string) (models.Share, error) {
	var share models.Share

	req, err := h.jsonRequest(ctx, models.ShareRequest{Login: login})
	if err != nil {
		return models.Share{}, err
	}
	resp, err := req.
		SetPathParam("checklistID", checklistID).
		SetResult(&share).
		Post("/api/checklists/{checklistID}/shares")
	if err != nil {
		return models.Share{}, fmt.Errorf("share request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Share{}, err
	}

	return share, nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

// jsonRequest encodes body once so that the integrity hash covers exactly
// the bytes that are sent.
func (h *httpServerAdapter) jsonRequest(ctx context.Context, body any) (*resty.Request, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}

	req := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload)
	if h.hashKey != "" {
		req.SetHeader(hashHeader, utils.HashHex(payload))
	}

	return req, nil
}
