package jwt

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type certServer struct {
	mu    sync.Mutex
	keys  map[string]string
	hits  atomic.Int32
	srv   *httptest.Server
	fails atomic.Bool
}

func newCertServer(t *testing.T) *certServer {
	t.Helper()
	cs := &certServer{keys: map[string]string{}}
	cs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cs.hits.Add(1)
		if cs.fails.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		cs.mu.Lock()
		defer cs.mu.Unlock()
		w.Header().Set("Cache-Control", "public, max-age=600, must-revalidate")
		_ = json.NewEncoder(w).Encode(cs.keys)
	}))
	t.Cleanup(cs.srv.Close)
	return cs
}

func (cs *certServer) add(t *testing.T, kid string) *rsa.PrivateKey {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)

	cs.mu.Lock()
	cs.keys[kid] = string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
	cs.mu.Unlock()
	return priv
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestRemoteKeySet_CachesUntilMaxAge(t *testing.T) {
	cs := newCertServer(t)
	priv := cs.add(t, "k1")
	clock := &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}

	ks := NewRemoteKeySet(cs.srv.URL, cs.srv.Client())
	ks.now = clock.now

	key, err := ks.Key(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, priv.PublicKey.N, key.(*rsa.PublicKey).N)

	_, err = ks.Key(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, int32(1), cs.hits.Load())

	clock.t = clock.t.Add(11 * time.Minute)
	_, err = ks.Key(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), cs.hits.Load())
}

func TestRemoteKeySet_UnknownKidRefetchesAtMostOncePerInterval(t *testing.T) {
	cs := newCertServer(t)
	cs.add(t, "k1")
	clock := &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}

	ks := NewRemoteKeySet(cs.srv.URL, cs.srv.Client())
	ks.now = clock.now

	_, err := ks.Key(context.Background(), "k1")
	require.NoError(t, err)

	_, err = ks.Key(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.Equal(t, int32(1), cs.hits.Load())

	// rotated key appears after the refetch interval
	cs.add(t, "k2")
	clock.t = clock.t.Add(minRefetchInterval + time.Second)
	_, err = ks.Key(context.Background(), "k2")
	require.NoError(t, err)
	assert.Equal(t, int32(2), cs.hits.Load())
}

func TestRemoteKeySet_ServesStaleKeyWhenProviderFails(t *testing.T) {
	cs := newCertServer(t)
	cs.add(t, "k1")
	clock := &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}

	ks := NewRemoteKeySet(cs.srv.URL, cs.srv.Client())
	ks.now = clock.now

	_, err := ks.Key(context.Background(), "k1")
	require.NoError(t, err)

	cs.fails.Store(true)
	clock.t = clock.t.Add(time.Hour)

	_, err = ks.Key(context.Background(), "k1")
	assert.NoError(t, err)

	_, err = ks.Key(context.Background(), "k9")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrKeyNotFound)
}

func TestRemoteKeySet_ProviderOutageFetchesOncePerInterval(t *testing.T) {
	cs := newCertServer(t)
	cs.add(t, "k1")
	clock := &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}

	ks := NewRemoteKeySet(cs.srv.URL, cs.srv.Client())
	ks.now = clock.now

	want, err := ks.Key(context.Background(), "k1")
	require.NoError(t, err)
	require.Equal(t, int32(1), cs.hits.Load())

	cs.fails.Store(true)
	clock.t = clock.t.Add(time.Hour)

	var wg sync.WaitGroup
	errs := make([]error, 20)
	keys := make([]any, 20)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			keys[i], errs[i] = ks.Key(context.Background(), "k1")
		}(i)
	}
	wg.Wait()

	for i := range errs {
		require.NoError(t, errs[i])
		assert.Same(t, want, keys[i])
	}
	assert.Equal(t, int32(2), cs.hits.Load())

	clock.t = clock.t.Add(minRefetchInterval + time.Second)
	_, err = ks.Key(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, int32(3), cs.hits.Load())

	// provider back: the next interval picks up fresh keys
	cs.fails.Store(false)
	clock.t = clock.t.Add(minRefetchInterval + time.Second)
	_, err = ks.Key(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, int32(4), cs.hits.Load())
	_, err = ks.Key(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, int32(4), cs.hits.Load())
}

func TestMaxAge(t *testing.T) {
	assert.Equal(t, 600*time.Second, maxAge("public, max-age=600, must-revalidate"))
	assert.Equal(t, defaultKeyCacheTTL, maxAge(""))
	assert.Equal(t, defaultKeyCacheTTL, maxAge("max-age=abc"))
}
