package photocache

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrReleased возвращается при обращении к освобождённому дескриптору.
var ErrReleased = errors.New("photo handle released")

// Key идентифицирует фотографию подарка.
type Key struct {
	PresentID int64
	PhotoID   int64
}

func (k Key) String() string {
	return fmt.Sprintf("%d-%d", k.PresentID, k.PhotoID)
}

// Handle — локальная ссылка на загруженную фотографию. После Release данные недоступны.
type Handle struct {
	key         Key
	contentType string

	mu       sync.RWMutex
	data     []byte
	released bool
}

func newHandle(key Key, contentType string, data []byte) *Handle {
	return &Handle{key: key, contentType: contentType, data: data}
}

// Key возвращает ключ фотографии.
func (h *Handle) Key() Key { return h.key }

// ContentType возвращает MIME-тип, определённый по содержимому.
func (h *Handle) ContentType() string { return h.contentType }

// Bytes возвращает содержимое фотографии или nil после освобождения.
func (h *Handle) Bytes() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.released {
		return nil
	}
	return h.data
}

// Size возвращает размер содержимого в байтах.
func (h *Handle) Size() int {
	return len(h.Bytes())
}

// Open открывает содержимое для чтения.
func (h *Handle) Open() (io.ReadSeeker, error) {
	data := h.Bytes()
	if data == nil {
		return nil, ErrReleased
	}
	return bytes.NewReader(data), nil
}

// DataURI возвращает data:-ссылку, пригодную для встраивания в HTML.
func (h *Handle) DataURI() (string, error) {
	data := h.Bytes()
	if data == nil {
		return "", ErrReleased
	}
	return "data:" + h.contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Released сообщает, освобождён ли дескриптор.
func (h *Handle) Released() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.released
}

// Release освобождает содержимое. Повторный вызов безопасен.
func (h *Handle) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.released = true
	h.data = nil
}
