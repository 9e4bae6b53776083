package photocache

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/coins-admin/internal/session"
)

var gifBytes = []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00\x00\x00\x00\xff\xff\xff!\xf9\x04\x01\x00\x00\x00\x00,\x00\x00\x00\x00\x01\x00\x01\x00\x00\x02\x02D\x01\x00;")

type fixture struct {
	cache   *Cache
	sess    *session.Session
	fetches atomic.Int32
}

func newFixture(t *testing.T, h func(w http.ResponseWriter, r *http.Request)) *fixture {
	t.Helper()

	f := &fixture{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.fetches.Add(1)
		h(w, r)
	}))
	t.Cleanup(ts.Close)

	f.sess = session.New(session.NewMemoryStore(), nil)
	require.NoError(t, f.sess.Login(context.Background(), "admin", "secret"))

	urlFor := func(presentID, photoID int64) string {
		return fmt.Sprintf("%s/api/presents/%d/photos/%d", ts.URL, presentID, photoID)
	}
	f.cache = New(ts.Client(), f.sess, urlFor, nil)
	t.Cleanup(func() { _ = f.cache.Close() })
	return f
}

func servePhoto(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Basic YWRtaW46c2VjcmV0" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	_, _ = w.Write(gifBytes)
}

func TestGetCachesHandle(t *testing.T) {
	f := newFixture(t, servePhoto)
	ctx := context.Background()
	key := Key{PresentID: 3, PhotoID: 7}

	h1, err := f.cache.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, h1)
	assert.Equal(t, "image/gif", h1.ContentType())
	assert.Equal(t, gifBytes, h1.Bytes())

	uri, err := h1.DataURI()
	require.NoError(t, err)
	assert.Contains(t, uri, "data:image/gif;base64,")

	h2, err := f.cache.Get(ctx, key)
	require.NoError(t, err)
	assert.Same(t, h1, h2)
	assert.Equal(t, int32(1), f.fetches.Load())
	assert.Equal(t, 1, f.cache.Len())
}

func TestConcurrentMissesShareOneFetch(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() { close(started) })
		<-release
		servePhoto(w, r)
	})

	const callers = 8
	key := Key{PresentID: 1, PhotoID: 2}
	handles := make([]*Handle, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i], errs[i] = f.cache.Get(context.Background(), key)
		}(i)
	}

	<-started
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), f.fetches.Load())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, handles[i])
		assert.Same(t, handles[0], handles[i])
	}
}

func TestNoCredentialsMeansNoImage(t *testing.T) {
	f := newFixture(t, servePhoto)
	require.NoError(t, f.sess.Logout(context.Background()))

	h, err := f.cache.Get(context.Background(), Key{PresentID: 1, PhotoID: 1})
	assert.NoError(t, err)
	assert.Nil(t, h)
	assert.Equal(t, int32(0), f.fetches.Load())

	require.NoError(t, f.sess.Login(context.Background(), "admin", "secret"))
	h, err = f.cache.Get(context.Background(), Key{PresentID: 1, PhotoID: 1})
	require.NoError(t, err)
	assert.NotNil(t, h)
}

func TestFailedFetchIsNotRetried(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	ctx := context.Background()
	key := Key{PresentID: 9, PhotoID: 9}

	for i := 0; i < 3; i++ {
		h, err := f.cache.Get(ctx, key)
		assert.NoError(t, err)
		assert.Nil(t, h)
	}
	assert.Equal(t, int32(1), f.fetches.Load())

	f.cache.Forget(key)
	_, _ = f.cache.Get(ctx, key)
	assert.Equal(t, int32(2), f.fetches.Load())
}

func TestReleasedHandleIsUnusable(t *testing.T) {
	f := newFixture(t, servePhoto)
	ctx := context.Background()
	key := Key{PresentID: 4, PhotoID: 1}

	h, err := f.cache.Get(ctx, key)
	require.NoError(t, err)

	h.Release()
	assert.True(t, h.Released())
	assert.Nil(t, h.Bytes())
	_, err = h.Open()
	assert.ErrorIs(t, err, ErrReleased)
	_, err = h.DataURI()
	assert.ErrorIs(t, err, ErrReleased)

	fresh, err := f.cache.Get(ctx, key)
	require.NoError(t, err)
	assert.NotSame(t, h, fresh)
	assert.Equal(t, int32(2), f.fetches.Load())
}

func TestClearAndClose(t *testing.T) {
	f := newFixture(t, servePhoto)
	ctx := context.Background()

	a, err := f.cache.Get(ctx, Key{PresentID: 1, PhotoID: 1})
	require.NoError(t, err)
	b, err := f.cache.Get(ctx, Key{PresentID: 1, PhotoID: 2})
	require.NoError(t, err)

	f.cache.Clear()
	assert.True(t, a.Released())
	assert.True(t, b.Released())
	assert.Equal(t, 0, f.cache.Len())

	_, err = f.cache.Get(ctx, Key{PresentID: 1, PhotoID: 1})
	require.NoError(t, err)

	require.NoError(t, f.cache.Close())
	_, err = f.cache.Get(ctx, Key{PresentID: 1, PhotoID: 1})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestScopeReleasesOnError(t *testing.T) {
	f := newFixture(t, servePhoto)
	boom := errors.New("render failed")

	var kept *Handle
	err := f.cache.Scope(func(view *Cache) error {
		h, err := view.Get(context.Background(), Key{PresentID: 2, PhotoID: 5})
		require.NoError(t, err)
		kept = h
		return boom
	})

	assert.ErrorIs(t, err, boom)
	require.NotNil(t, kept)
	assert.True(t, kept.Released())
	assert.Equal(t, 0, f.cache.Len())
}

func TestScopedClosesCache(t *testing.T) {
	f := newFixture(t, servePhoto)
	ctx := context.Background()

	var (
		inner *Cache
		kept  *Handle
	)
	err := Scoped(f.cache.doer, f.sess, f.cache.urlFor, nil, func(cache *Cache) error {
		inner = cache
		h, err := cache.Get(ctx, Key{PresentID: 4, PhotoID: 1})
		kept = h
		return err
	})
	require.NoError(t, err)
	require.NotNil(t, kept)
	assert.True(t, kept.Released())

	_, err = inner.Get(ctx, Key{PresentID: 4, PhotoID: 1})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestPrefetchIgnoresFailures(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/presents/1/photos/2" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		servePhoto(w, r)
	})

	f.cache.Prefetch(context.Background(), []Key{{1, 1}, {1, 2}, {1, 3}})
	assert.Equal(t, 2, f.cache.Len())
	assert.Equal(t, int32(3), f.fetches.Load())
}

func TestCallerCancellationDoesNotPoisonCache(t *testing.T) {
	release := make(chan struct{})
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		servePhoto(w, r)
	})

	key := Key{PresentID: 8, PhotoID: 8}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := f.cache.Get(ctx, key)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	h, err := f.cache.Get(context.Background(), key)
	require.NoError(t, err)
	assert.NotNil(t, h)
	assert.Equal(t, int32(1), f.fetches.Load())
}
