package jwt

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// ErrKeyNotFound is returned by a KeySet that has no key for a kid.
var ErrKeyNotFound = errors.New("signing key not found")

// KeySet resolves the verification key referenced by a token's kid header.
// Keys are []byte (HMAC) or *rsa.PublicKey.
type KeySet interface {
	Key(ctx context.Context, kid string) (any, error)
}

// StaticKeySet is a fixed in-memory key set.
type StaticKeySet map[string]any

func (s StaticKeySet) Key(_ context.Context, kid string) (any, error) {
	key, ok := s[kid]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return key, nil
}

// NewHMACKeySet is the dev key set signed with a shared secret.
func NewHMACKeySet(kid, secret string) StaticKeySet {
	return StaticKeySet{kid: []byte(secret)}
}

const (
	defaultKeyCacheTTL = time.Hour
	minRefetchInterval = 30 * time.Second
)

// RemoteKeySet fetches a JSON object of kid -> PEM certificate (or public key)
// and caches it for the max-age the provider advertises.
type RemoteKeySet struct {
	url    string
	client *http.Client
	now    func() time.Time

	mu            sync.RWMutex
	keys          map[string]*rsa.PublicKey
	expiresAt     time.Time
	lastAttemptAt time.Time
	lastErr       error

	fetchMu sync.Mutex
}

func NewRemoteKeySet(url string, client *http.Client) *RemoteKeySet {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RemoteKeySet{
		url:    url,
		client: client,
		now:    time.Now,
		keys:   map[string]*rsa.PublicKey{},
	}
}

// Key returns the cached key for kid. Fetches, failed ones included, happen at
// most once per minRefetchInterval; in between a stale key is served as is.
func (r *RemoteKeySet) Key(ctx context.Context, kid string) (any, error) {
	key, ok, fresh, cooling, lastErr := r.lookup(kid)
	if ok && fresh {
		return key, nil
	}
	if cooling {
		if ok {
			return key, nil
		}
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, ErrKeyNotFound
	}

	if err := r.refresh(ctx); err != nil {
		if ok {
			return key, nil
		}
		return nil, err
	}

	key, ok, _, _, _ = r.lookup(kid)
	if !ok {
		return nil, ErrKeyNotFound
	}
	return key, nil
}

func (r *RemoteKeySet) lookup(kid string) (key *rsa.PublicKey, ok, fresh, cooling bool, lastErr error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	now := r.now()
	key, ok = r.keys[kid]
	return key, ok, now.Before(r.expiresAt), r.coolingLocked(now), r.lastErr
}

func (r *RemoteKeySet) coolingLocked(now time.Time) bool {
	return !r.lastAttemptAt.IsZero() && now.Sub(r.lastAttemptAt) < minRefetchInterval
}

func (r *RemoteKeySet) refresh(ctx context.Context) error {
	r.fetchMu.Lock()
	defer r.fetchMu.Unlock()

	// callers queued behind a fetch reuse its outcome
	r.mu.Lock()
	if r.coolingLocked(r.now()) {
		err := r.lastErr
		r.mu.Unlock()
		return err
	}
	r.lastAttemptAt = r.now()
	r.mu.Unlock()

	keys, ttl, err := r.fetch(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastErr = err
	if err != nil {
		return err
	}
	r.keys = keys
	r.expiresAt = r.now().Add(ttl)
	return nil
}

func (r *RemoteKeySet) fetch(ctx context.Context) (map[string]*rsa.PublicKey, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("key set fetch: unexpected status %d", resp.StatusCode)
	}

	var raw map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, 0, fmt.Errorf("key set decode: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(raw))
	for kid, pem := range raw {
		key, err := jwtlib.ParseRSAPublicKeyFromPEM([]byte(pem))
		if err != nil {
			return nil, 0, fmt.Errorf("key set: parse kid %q: %w", kid, err)
		}
		keys[kid] = key
	}
	return keys, maxAge(resp.Header.Get("Cache-Control")), nil
}

func maxAge(cacheControl string) time.Duration {
	for _, directive := range strings.Split(cacheControl, ",") {
		directive = strings.TrimSpace(directive)
		if !strings.HasPrefix(directive, "max-age=") {
			continue
		}
		secs, err := strconv.Atoi(strings.TrimPrefix(directive, "max-age="))
		if err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultKeyCacheTTL
}
