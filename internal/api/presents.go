package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/mmeshcher/coins-admin/internal/model"
)

// ErrNoPhotos возвращается при попытке загрузить пустой набор фотографий.
var ErrNoPhotos = errors.New("at least one photo is required")

// File — файл для multipart-загрузки.
type File struct {
	Name string
	Data []byte
}

// ReadFile читает файл с диска для загрузки.
func ReadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read photo: %w", err)
	}
	return File{Name: filepath.Base(path), Data: data}, nil
}

// NewPresent описывает параметры создания подарка.
type NewPresent struct {
	Name       string
	PriceCoins int
	Stock      int
	Photos     []File
}

// PresentsClient работает с ресурсом /presents.
type PresentsClient struct {
	c *Client
}

// List возвращает страницу подарков. Размер страницы по умолчанию — 100.
func (p *PresentsClient) List(ctx context.Context, page, size int) (*model.Page[model.PresentSummary], error) {
	if size <= 0 {
		size = DrainPageSize
	}
	return getPage[model.PresentSummary](ctx, p.c, "/presents", pageQuery(page, size))
}

// All выгружает все подарки.
func (p *PresentsClient) All(ctx context.Context) ([]model.PresentSummary, error) {
	return Drain[model.PresentSummary](ctx, p.List)
}

// Get возвращает подарок по идентификатору.
func (p *PresentsClient) Get(ctx context.Context, id int64) (*model.Present, error) {
	return call[model.Present](ctx, p.c, http.MethodGet, fmt.Sprintf("/presents/%d", id), nil, nil)
}

// Search ищет подарки по названию.
func (p *PresentsClient) Search(ctx context.Context, query string) ([]model.PresentSummary, error) {
	return list[model.PresentSummary](ctx, p.c, "/presents/search", url.Values{"query": {query}})
}

// Create создаёт подарок одним multipart-запросом: название, цена и остаток передаются в query,
// каждая фотография — отдельной частью photos.
func (p *PresentsClient) Create(ctx context.Context, np NewPresent) (*model.Present, error) {
	if len(np.Photos) == 0 {
		return nil, ErrNoPhotos
	}

	q := url.Values{}
	q.Set("name", np.Name)
	q.Set("priceCoins", strconv.Itoa(np.PriceCoins))
	q.Set("stock", strconv.Itoa(np.Stock))

	return p.upload(ctx, "/presents", q, np.Photos)
}

// Update частично обновляет название, цену и остаток подарка.
func (p *PresentsClient) Update(ctx context.Context, id int64, upd model.PresentUpdate) (*model.Present, error) {
	return call[model.Present](ctx, p.c, http.MethodPut, fmt.Sprintf("/presents/%d", id), nil, upd)
}

// Delete удаляет подарок.
func (p *PresentsClient) Delete(ctx context.Context, id int64) error {
	_, err := p.c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/presents/%d", id), nil, nil, nil)
	return err
}

// AddPhotos добавляет фотографии к существующему подарку.
func (p *PresentsClient) AddPhotos(ctx context.Context, id int64, photos []File) (*model.Present, error) {
	if len(photos) == 0 {
		return nil, ErrNoPhotos
	}
	return p.upload(ctx, fmt.Sprintf("/presents/%d/photos", id), nil, photos)
}

// DeletePhoto удаляет одну фотографию подарка.
func (p *PresentsClient) DeletePhoto(ctx context.Context, id, photoID int64) error {
	_, err := p.c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/presents/%d/photos/%d", id, photoID), nil, nil, nil)
	return err
}

// PhotoURL возвращает адрес фотографии. Сам адрес не содержит авторизации:
// получить байты можно только запросом с заголовком Authorization.
func (p *PresentsClient) PhotoURL(id, photoID int64) string {
	return p.c.url(fmt.Sprintf("/presents/%d/photos/%d", id, photoID), nil)
}

func (p *PresentsClient) upload(ctx context.Context, path string, q url.Values, photos []File) (*model.Present, error) {
	body, contentType, err := multipartPhotos(photos)
	if err != nil {
		return nil, err
	}

	var out model.Present
	ok, err := p.c.send(ctx, http.MethodPost, path, q, body, contentType, &out)
	if err != nil || !ok {
		return nil, err
	}
	return &out, nil
}

func multipartPhotos(photos []File) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for i, f := range photos {
		name := f.Name
		if name == "" {
			name = fmt.Sprintf("photo-%d%s", i+1, mimetype.Detect(f.Data).Extension())
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photos"; filename="%s"`, escapeQuotes(name)))
		h.Set("Content-Type", mimetype.Detect(f.Data).String())

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create photo part: %w", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("write photo part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
