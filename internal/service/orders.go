package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/coins-admin/internal/model"
)

// OrderTab — вкладка списка заказов.
type OrderTab string

const (
	// TabActive — заказанные и подтверждённые заказы.
	TabActive OrderTab = "active"
	// TabCompleted — выданные и отменённые заказы.
	TabCompleted OrderTab = "completed"
)

var statusNames = map[model.OrderStatus]string{
	model.OrderStatusOrdered:   "Заказан",
	model.OrderStatusConfirmed: "Подтвержден",
	model.OrderStatusIssued:    "Выдан",
	model.OrderStatusCancelled: "Отменен",
}

// StatusName возвращает название статуса заказа на русском.
func StatusName(s model.OrderStatus) string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return string(s)
}

// OrderRow — заказ, дополненный названием и фотографией подарка.
type OrderRow struct {
	ID       int64
	GiftID   int64
	GiftName string
	Customer string
	Date     time.Time
	Status   model.OrderStatus
	PhotoID  int64
}

// DateText возвращает дату заказа в формате дд.мм.гггг.
func (r OrderRow) DateText() string {
	if r.Date.IsZero() {
		return ""
	}
	return r.Date.Format("02.01.2006")
}

// StatusText возвращает статус заказа на русском.
func (r OrderRow) StatusText() string {
	return StatusName(r.Status)
}

// BuildOrders сопоставляет заказы с каталогом. Для подарков, которых нет в каталоге,
// подставляется «Подарок #id».
func BuildOrders(orders []model.Order, presents []model.PresentSummary) []OrderRow {
	names := make(map[int64]string, len(presents))
	photos := make(map[int64]int64, len(presents))
	for _, p := range presents {
		names[p.ID] = p.Name
		if len(p.PhotoIDs) > 0 {
			photos[p.ID] = p.PhotoIDs[0]
		}
	}

	rows := make([]OrderRow, 0, len(orders))
	for _, o := range orders {
		r := OrderRow{
			ID:       o.ID,
			GiftID:   o.PresentID,
			GiftName: names[o.PresentID],
			Customer: o.Customer.DisplayName(),
			Status:   o.Status,
			PhotoID:  photos[o.PresentID],
		}
		if r.GiftName == "" {
			r.GiftName = fmt.Sprintf("Подарок #%d", o.PresentID)
		}
		if t, err := model.ParseDate(o.Date); err == nil {
			r.Date = t
		}
		rows = append(rows, r)
	}
	return rows
}

// SelectOrders отбирает заказы вкладки, сортирует от новых к старым и ищет по названию
// подарка или имени покупателя без учёта регистра.
func SelectOrders(rows []OrderRow, tab OrderTab, query string) []OrderRow {
	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]OrderRow, 0, len(rows))
	for _, r := range rows {
		if r.Status.IsActive() != (tab == TabActive) {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(r.GiftName), q) &&
			!strings.Contains(strings.ToLower(r.Customer), q) {
			continue
		}
		out = append(out, r)
	}

	slices.SortStableFunc(out, func(a, b OrderRow) int {
		return b.Date.Compare(a.Date)
	})
	return out
}

// Orders загружает все заказы и каталог и возвращает строки выбранной вкладки.
func (d *Dashboard) Orders(ctx context.Context, tab OrderTab, query string) ([]OrderRow, error) {
	presents, err := d.deps.Presents.All(ctx)
	if err != nil {
		return nil, d.fail(ctx, "load presents", err)
	}
	orders, err := d.deps.Orders.All(ctx)
	if err != nil {
		return nil, d.fail(ctx, "load orders", err)
	}
	return SelectOrders(BuildOrders(orders, presents), tab, query), nil
}

// Order возвращает заказ по идентификатору.
func (d *Dashboard) Order(ctx context.Context, id int64) (*model.Order, error) {
	o, err := d.deps.Orders.Get(ctx, id)
	if err != nil {
		return nil, d.fail(ctx, "get order", err)
	}
	if err := required("get order", o); err != nil {
		return nil, err
	}
	return o, nil
}

// PlaceOrder оформляет заказ подарка от имени текущего пользователя.
func (d *Dashboard) PlaceOrder(ctx context.Context, presentID int64) (*model.Order, error) {
	o, err := d.deps.Orders.Create(ctx, presentID)
	if err != nil {
		return nil, d.fail(ctx, "create order", err)
	}
	return o, nil
}

// ChangeOrderStatus переводит заказ в новый статус. Отмена выполняется отдельным запросом.
// Недопустимый с точки зрения клиента переход только записывается в журнал:
// окончательное решение принимает сервер.
func (d *Dashboard) ChangeOrderStatus(ctx context.Context, id int64, next model.OrderStatus) (*model.Order, error) {
	current, err := d.Order(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(next) {
		d.logger.Warn("unexpected order transition",
			zap.Int64("order", id),
			zap.String("from", string(current.Status)),
			zap.String("to", string(next)))
	}

	var updated *model.Order
	if next == model.OrderStatusCancelled {
		updated, err = d.deps.Orders.Cancel(ctx, id)
	} else {
		updated, err = d.deps.Orders.UpdateStatus(ctx, id, next)
	}
	if err != nil {
		return nil, d.fail(ctx, "change order status", err)
	}
	return updated, nil
}
