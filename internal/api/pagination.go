package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mmeshcher/coins-admin/internal/model"
)

const (
	// DrainPageSize — размер страницы при выгрузке всех элементов.
	DrainPageSize = 100
	// MaxDrainPages ограничивает число запросов одной выгрузки на случай,
	// если сервер никогда не вернёт last=true.
	MaxDrainPages = 1000
)

// ErrTooManyPages возвращается, когда выгрузка превысила MaxDrainPages.
var ErrTooManyPages = errors.New("pagination did not reach the last page")

// PageFunc запрашивает одну страницу списка.
type PageFunc[T any] func(ctx context.Context, page, size int) (*model.Page[T], error)

// Drain последовательно запрашивает страницы, начиная с 0, пока сервер не вернёт last=true,
// и возвращает элементы всех страниц в исходном порядке.
func Drain[T any](ctx context.Context, fetch PageFunc[T]) ([]T, error) {
	return drain(ctx, fetch, MaxDrainPages)
}

func drain[T any](ctx context.Context, fetch PageFunc[T], maxPages int) ([]T, error) {
	var all []T
	for page := 0; page < maxPages; page++ {
		p, err := fetch(ctx, page, DrainPageSize)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", page, err)
		}
		if p == nil {
			return all, nil
		}
		all = append(all, p.Content...)
		if p.Last {
			return all, nil
		}
	}
	return nil, fmt.Errorf("%w after %d pages", ErrTooManyPages, maxPages)
}

// PageRequest описывает параметры постраничного запроса с сортировкой.
type PageRequest struct {
	Page    int
	Size    int
	SortBy  string
	SortDir string
}

func (p PageRequest) withDefaults(size int, sortBy, sortDir string) PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = size
	}
	if p.SortBy == "" {
		p.SortBy = sortBy
	}
	if p.SortDir == "" {
		p.SortDir = sortDir
	}
	return p
}

func (p PageRequest) query() url.Values {
	q := pageQuery(p.Page, p.Size)
	if p.SortBy != "" {
		q.Set("sortBy", p.SortBy)
	}
	if p.SortDir != "" {
		q.Set("sortDir", p.SortDir)
	}
	return q
}

func pageQuery(page, size int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	return q
}

// getPage запрашивает страницу и возвращает пустую страницу с last=true, если сервер ответил без содержимого.
func getPage[T any](ctx context.Context, c *Client, path string, query url.Values) (*model.Page[T], error) {
	var p model.Page[T]
	ok, err := c.doJSON(ctx, http.MethodGet, path, query, nil, &p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &model.Page[T]{Last: true, Empty: true}, nil
	}
	return &p, nil
}
