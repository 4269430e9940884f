package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/warebase/warebase"
	"github.com/warebase/warebase/internal/domain"
)

const (
	defaultTimeout = 3 * time.Second
	statusCacheKey = "iam-status"
	defaultScheme  = "Token"
)

// Client talks to the IAM service on behalf of another service. The
// service descriptor is cached between calls. Authentication results
// never are: every Authenticate call is a fresh round trip.
type Client struct {
	client   *http.Client
	cache    *cache.Cache
	endpoint string
}

func New(endpoint string) *Client {
	httpClient := &http.Client{
		Timeout: defaultTimeout,
	}

	return &Client{
		client:   httpClient,
		cache:    cache.New(10*time.Minute, 15*time.Minute),
		endpoint: strings.TrimRight(endpoint, "/"),
	}
}

// Status fetches the IAM service descriptor, cached for its TTL.
func (c *Client) Status(ctx context.Context) (warebase.ServiceStatus, error) {
	if cached, ok := c.cache.Get(statusCacheKey); ok {
		return cached.(warebase.ServiceStatus), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/api/v1/iam/status", nil)
	if err != nil {
		return warebase.ServiceStatus{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return warebase.ServiceStatus{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return warebase.ServiceStatus{}, fmt.Errorf("iam status returned %d", resp.StatusCode)
	}

	var status warebase.ServiceStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return warebase.ServiceStatus{}, err
	}

	c.cache.Set(statusCacheKey, status, cache.DefaultExpiration)
	return status, nil
}

// Authenticate validates a token value against the IAM service and
// returns the resolved identity. Any unauthorized response from IAM is
// forwarded as domain.ErrUnauthorized, with no further detail.
func (c *Client) Authenticate(ctx context.Context, token string) (domain.User, domain.AuthToken, error) {
	scheme := defaultScheme
	if status, err := c.Status(ctx); err == nil && status.Scheme != "" {
		scheme = status.Scheme
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/api/v1/iam/authenticate", bytes.NewReader(nil))
	if err != nil {
		return domain.User{}, domain.AuthToken{}, err
	}
	req.Header.Set("Authorization", scheme+" "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.User{}, domain.AuthToken{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return domain.User{}, domain.AuthToken{}, domain.ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return domain.User{}, domain.AuthToken{}, fmt.Errorf("iam authenticate returned %d", resp.StatusCode)
	}

	var body warebase.AuthenticateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.User{}, domain.AuthToken{}, err
	}

	user := domain.User{
		ID:          body.User.ID,
		Email:       body.User.Email,
		Username:    body.User.Username,
		FirstName:   body.User.FirstName,
		LastName:    body.User.LastName,
		IsSuperuser: body.User.IsSuperuser,
		CreatedAt:   body.User.CreatedAt,
		UpdatedAt:   body.User.UpdatedAt,
	}
	authToken := domain.AuthToken{
		Key:       body.Token.Key,
		UserID:    body.Token.UserID,
		CreatedAt: body.Token.CreatedAt,
		UpdatedAt: body.Token.UpdatedAt,
	}

	return user, authToken, nil
}
