// Package session хранит учётные данные администратора и строит заголовок Basic-авторизации.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.etcd.io/bbolt"
)

// Credentials содержит пару логин/пароль текущей сессии.
type Credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Store описывает хранилище единственной пары учётных данных.
type Store interface {
	Set(ctx context.Context, c Credentials) error
	Clear(ctx context.Context) error
	Get(ctx context.Context) (Credentials, bool, error)
}

// MemoryStore хранит учётные данные в памяти процесса.
type MemoryStore struct {
	mu    sync.RWMutex
	creds *Credentials
}

// NewMemoryStore создаёт пустое хранилище в памяти.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Set перезаписывает сохранённую пару.
func (m *MemoryStore) Set(_ context.Context, c Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = &c
	return nil
}

// Clear удаляет сохранённую пару.
func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = nil
	return nil
}

// Get возвращает сохранённую пару и признак её наличия.
func (m *MemoryStore) Get(_ context.Context) (Credentials, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.creds == nil {
		return Credentials{}, false, nil
	}
	return *m.creds, true, nil
}

var (
	sessionBucket  = []byte("session")
	credentialsKey = []byte("auth_credentials")
)

// BoltStore хранит учётные данные в файле bbolt, чтобы они переживали перезапуск процесса.
// Пароль хранится открытым текстом, файл создаётся с правами 0600.
type BoltStore struct {
	db *bbolt.DB
}

// OpenBoltStore открывает (или создаёт) файл сессии по указанному пути.
func OpenBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open session file: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create session bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close закрывает файл сессии.
func (b *BoltStore) Close() error {
	return b.db.Close()
}

// Set сохраняет пару, перезаписывая предыдущую.
func (b *BoltStore) Set(_ context.Context, c Credentials) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(sessionBucket).Put(credentialsKey, data)
	})
}

// Clear удаляет пару. Повторный вызов не является ошибкой.
func (b *BoltStore) Clear(_ context.Context) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(sessionBucket).Delete(credentialsKey)
	})
}

// Get читает сохранённую пару.
func (b *BoltStore) Get(_ context.Context) (Credentials, bool, error) {
	var (
		c     Credentials
		found bool
	)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(sessionBucket)
		if bucket == nil {
			return errors.New("session bucket not found")
		}
		v := bucket.Get(credentialsKey)
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &c)
	})
	if err != nil {
		return Credentials{}, false, fmt.Errorf("read credentials: %w", err)
	}
	return c, found, nil
}
