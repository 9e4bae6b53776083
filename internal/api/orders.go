package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mmeshcher/coins-admin/internal/model"
)

// OrdersClient работает с ресурсом /orders.
type OrdersClient struct {
	c *Client
}

// List возвращает страницу заказов. По умолчанию: size=100, sortBy=orderDate, sortDir=desc.
func (o *OrdersClient) List(ctx context.Context, p PageRequest) (*model.Page[model.Order], error) {
	p = p.withDefaults(DrainPageSize, "orderDate", "desc")
	return getPage[model.Order](ctx, o.c, "/orders", p.query())
}

// All выгружает все заказы.
func (o *OrdersClient) All(ctx context.Context) ([]model.Order, error) {
	return Drain[model.Order](ctx, func(ctx context.Context, page, size int) (*model.Page[model.Order], error) {
		return o.List(ctx, PageRequest{Page: page, Size: size})
	})
}

// Get возвращает заказ по идентификатору.
func (o *OrdersClient) Get(ctx context.Context, id int64) (*model.Order, error) {
	return call[model.Order](ctx, o.c, http.MethodGet, fmt.Sprintf("/orders/%d", id), nil, nil)
}

// Create оформляет заказ подарка. Заказчик определяется сервером по учётным данным.
func (o *OrdersClient) Create(ctx context.Context, presentID int64) (*model.Order, error) {
	body := model.CreateOrderRequest{PresentID: presentID}
	return call[model.Order](ctx, o.c, http.MethodPost, "/orders", nil, body)
}

// UpdateStatus меняет статус заказа. Статус передаётся в query-параметре status без изменений;
// допустимость перехода проверяет сервер.
func (o *OrdersClient) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) (*model.Order, error) {
	q := url.Values{"status": {string(status)}}
	return call[model.Order](ctx, o.c, http.MethodPut, fmt.Sprintf("/orders/%d", id), q, nil)
}

// Cancel отменяет заказ через отдельный эндпоинт /orders/{id}/cancel.
func (o *OrdersClient) Cancel(ctx context.Context, id int64) (*model.Order, error) {
	return call[model.Order](ctx, o.c, http.MethodPost, fmt.Sprintf("/orders/%d/cancel", id), nil, nil)
}
