package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/meridian-api/meridian/internal/platform/httpx"
)

// IntrospectionVerifier validates bearer tokens against an external identity
// provider via RFC7662 token introspection. Only the boolean verdict is
// trusted; no claims are extracted.
//
// Verdicts are cached in Redis under a hash of the token so repeated requests
// with the same credential do not hammer the provider, and concurrent lookups
// for one token collapse into a single upstream call.
type IntrospectionVerifier struct {
	endpoint     string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	cache        *redis.Client
	cacheTTL     time.Duration
	logger       *slog.Logger
	group        singleflight.Group
}

// NewIntrospectionVerifier constructs a verifier. cache may be nil, in which
// case every request hits the provider.
func NewIntrospectionVerifier(endpoint, clientID, clientSecret string, cache *redis.Client, cacheTTL time.Duration, logger *slog.Logger) *IntrospectionVerifier {
	return &IntrospectionVerifier{
		endpoint:     endpoint,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		cache:        cache,
		cacheTTL:     cacheTTL,
		logger:       logger,
	}
}

// Verify reports whether the identity provider considers the token active.
func (v *IntrospectionVerifier) Verify(ctx context.Context, token string) error {
	key := verdictKey(token)

	if v.cache != nil {
		cached, err := v.cache.Get(ctx, key).Result()
		switch {
		case err == nil:
			if cached == "1" {
				return nil
			}
			return httpx.ErrUnauthorized
		case !errors.Is(err, redis.Nil) && v.logger != nil:
			v.logger.Warn("verdict cache read", slog.Any("error", err))
		}
	}

	result, err, _ := v.group.Do(key, func() (any, error) {
		return v.introspect(ctx, token)
	})
	if err != nil {
		return fmt.Errorf("auth: introspect: %w", err)
	}
	active := result.(bool)

	if v.cache != nil {
		verdict := "0"
		if active {
			verdict = "1"
		}
		if err := v.cache.Set(ctx, key, verdict, v.cacheTTL).Err(); err != nil && v.logger != nil {
			v.logger.Warn("verdict cache write", slog.Any("error", err))
		}
	}

	if !active {
		return httpx.ErrUnauthorized
	}
	return nil
}

func (v *IntrospectionVerifier) introspect(ctx context.Context, token string) (bool, error) {
	form := url.Values{}
	form.Set("token", token)
	form.Set("token_type_hint", "access_token")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(v.clientID, v.clientSecret)

	res, err := v.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return false, fmt.Errorf("provider returned status %d", res.StatusCode)
	}

	var payload struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return false, err
	}
	return payload.Active, nil
}

// verdictKey hashes the token so raw credentials never land in Redis.
func verdictKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "meridian:introspect:" + hex.EncodeToString(sum[:])
}

var _ TokenVerifier = (*IntrospectionVerifier)(nil)
