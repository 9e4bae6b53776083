// Package photocache загружает фотографии подарков с Basic-авторизацией и кэширует их
// по паре (подарок, фотография).
package photocache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/mmeshcher/coins-admin/internal/session"
)

// ErrClosed возвращается при обращении к закрытому кэшу.
var ErrClosed = errors.New("photo cache closed")

// Doer выполняет HTTP-запросы. *http.Client удовлетворяет интерфейсу.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// URLFunc строит адрес фотографии.
type URLFunc func(presentID, photoID int64) string

// Cache хранит не более одного дескриптора на ключ. Одновременные промахи по одному ключу
// разделяют один сетевой запрос. Неудачная загрузка запоминается и не повторяется до Forget.
type Cache struct {
	doer   Doer
	sess   *session.Session
	urlFor URLFunc
	logger *zap.Logger

	flights singleflight.Group

	mu      sync.Mutex
	handles map[Key]*Handle
	failed  map[Key]struct{}
	closed  bool
}

// New создаёт пустой кэш.
func New(doer Doer, sess *session.Session, urlFor URLFunc, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		doer:    doer,
		sess:    sess,
		urlFor:  urlFor,
		logger:  logger,
		handles: make(map[Key]*Handle),
		failed:  make(map[Key]struct{}),
	}
}

// Get возвращает дескриптор фотографии. Результат (nil, nil) означает «нет изображения»:
// нет учётных данных, сервер ответил ошибкой или запрос не удался.
func (c *Cache) Get(ctx context.Context, key Key) (*Handle, error) {
	h, done, err := c.lookup(key)
	if done || err != nil {
		return h, err
	}

	ch := c.flights.DoChan(key.String(), func() (any, error) {
		return c.load(context.WithoutCancel(ctx), key)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		h, _ := res.Val.(*Handle)
		return h, nil
	}
}

// lookup проверяет кэш. done=true означает, что ответ известен без сетевого запроса.
func (c *Cache) lookup(key Key) (*Handle, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, true, ErrClosed
	}
	if h, ok := c.handles[key]; ok {
		if !h.Released() {
			return h, true, nil
		}
		delete(c.handles, key)
	}
	if _, ok := c.failed[key]; ok {
		return nil, true, nil
	}
	return nil, false, nil
}

func (c *Cache) load(ctx context.Context, key Key) (*Handle, error) {
	// Предыдущий полёт мог завершиться между lookup и DoChan.
	if h, done, err := c.lookup(key); done || err != nil {
		return h, err
	}

	auth := c.sess.AuthHeader(ctx)
	if auth == "" {
		return nil, nil
	}

	data, err := c.fetch(ctx, key, auth)
	if err != nil {
		c.logger.Debug("photo load failed", zap.Stringer("key", key), zap.Error(err))
		c.mu.Lock()
		c.failed[key] = struct{}{}
		c.mu.Unlock()
		return nil, nil
	}

	h := newHandle(key, mimetype.Detect(data).String(), data)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		h.Release()
		return nil, ErrClosed
	}
	c.handles[key] = h
	return h, nil
}

func (c *Cache) fetch(ctx context.Context, key Key, auth string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.urlFor(key.PresentID, key.PhotoID), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", auth)

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}

// Prefetch последовательно загружает фотографии. Ошибки игнорируются.
func (c *Cache) Prefetch(ctx context.Context, keys []Key) {
	for _, k := range keys {
		if ctx.Err() != nil {
			return
		}
		_, _ = c.Get(ctx, k)
	}
}

// Forget освобождает дескриптор и сбрасывает отметку о неудаче, чтобы следующий Get загрузил фото заново.
func (c *Cache) Forget(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if h, ok := c.handles[key]; ok {
		h.Release()
		delete(c.handles, key)
	}
	delete(c.failed, key)
}

// Len возвращает число закэшированных дескрипторов.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.handles)
}

// Clear освобождает все дескрипторы и очищает кэш. Кэш остаётся пригодным к работе.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.releaseAll()
}

// Close освобождает все дескрипторы; последующие Get возвращают ErrClosed.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.releaseAll()
	c.closed = true
	return nil
}

func (c *Cache) releaseAll() {
	for k, h := range c.handles {
		h.Release()
		delete(c.handles, k)
	}
	c.failed = make(map[Key]struct{})
}

// Scope создаёт отдельный кэш для одного представления, передаёт его в fn и закрывает
// на любом пути выхода, включая ошибки и панику.
func (c *Cache) Scope(fn func(view *Cache) error) error {
	return Scoped(c.doer, c.sess, c.urlFor, c.logger, fn)
}

// Scoped создаёт кэш, передаёт его в fn и закрывает после возврата.
func Scoped(doer Doer, sess *session.Session, urlFor URLFunc, logger *zap.Logger, fn func(cache *Cache) error) error {
	cache := New(doer, sess, urlFor, logger)
	defer cache.Close()
	return fn(cache)
}
