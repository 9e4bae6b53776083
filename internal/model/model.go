// Package model содержит DTO REST API программы школьных монет.
package model

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Role описывает роль пользователя.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleTeacher Role = "TEACHER"
	RoleStudent Role = "STUDENT"
)

// User описывает пользователя (ученика, преподавателя или администратора).
type User struct {
	ID          *int64 `json:"id,omitempty"`
	Login       string `json:"login"`
	Password    string `json:"password,omitempty"`
	Role        Role   `json:"role" validate:"omitempty,oneof=ADMIN TEACHER STUDENT"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	MiddleName  string `json:"middle_name,omitempty"`
	FullName    string `json:"full_name,omitempty"`
	Email       string `json:"email,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Coins       *int64 `json:"coins,omitempty"`
}

// DisplayName возвращает имя в формате «Фамилия Имя», если сервер не прислал полное имя.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return strings.TrimSpace(u.LastName + " " + u.FirstName)
}

// UserID возвращает идентификатор пользователя или 0.
func (u User) UserID() int64 {
	if u.ID == nil {
		return 0
	}
	return *u.ID
}

// Group описывает учебную группу.
type Group struct {
	ID        *int64 `json:"id,omitempty"`
	Name      string `json:"group_name"`
	TeacherID *int64 `json:"teacher_id,omitempty"`
	Teacher   *User  `json:"teacher,omitempty"`
	Students  []User `json:"students,omitempty" validate:"dive"`
}

// StudentIDs возвращает идентификаторы участников группы в порядке ответа сервера.
func (g Group) StudentIDs() []int64 {
	ids := make([]int64, 0, len(g.Students))
	for _, s := range g.Students {
		if s.ID != nil {
			ids = append(ids, *s.ID)
		}
	}
	return ids
}

// CreateGroupRequest описывает тело запроса создания группы.
type CreateGroupRequest struct {
	Name      string `json:"group_name"`
	TeacherID int64  `json:"teacher_id"`
}

// Photo описывает фотографию подарка.
type Photo struct {
	ID int64 `json:"id" validate:"required"`
}

// Present описывает подарок каталога в административном представлении.
type Present struct {
	ID         int64   `json:"id" validate:"required"`
	Name       string  `json:"name"`
	PriceCoins int     `json:"priceCoins"`
	Stock      int     `json:"stock"`
	Photos     []Photo `json:"photos" validate:"dive"`
}

// PhotoIDs возвращает идентификаторы фотографий подарка.
func (p Present) PhotoIDs() []int64 {
	ids := make([]int64, 0, len(p.Photos))
	for _, ph := range p.Photos {
		ids = append(ids, ph.ID)
	}
	return ids
}

// PresentSummary описывает подарок в постраничном списке.
type PresentSummary struct {
	ID         int64   `json:"id" validate:"required"`
	Name       string  `json:"name"`
	PriceCoins int     `json:"priceCoins"`
	Stock      int     `json:"stock"`
	PhotoIDs   []int64 `json:"photoIds"`
}

// PresentUpdate описывает частичное обновление подарка.
type PresentUpdate struct {
	Name       *string `json:"name,omitempty"`
	PriceCoins *int    `json:"priceCoins,omitempty"`
	Stock      *int    `json:"stock,omitempty"`
}

// Границы допустимых значений цены и остатка подарка.
const (
	MinPrice = 1
	MaxPrice = 9999
	MinStock = 1
	MaxStock = 999
)

// HistoryUser описывает получателя монет в записи истории.
type HistoryUser struct {
	User
	GroupName string `json:"group_name,omitempty"`
}

// CoinsRecord описывает неизменяемую запись истории начисления монет.
type CoinsRecord struct {
	ID     int64        `json:"id"`
	User   *HistoryUser `json:"user,omitempty"`
	Admin  *User        `json:"admin,omitempty"`
	Coins  int64        `json:"coins"`
	Date   string       `json:"date"`
	Reason string       `json:"reason,omitempty"`
}

// AddCoinsRequest описывает тело запроса изменения баланса.
type AddCoinsRequest struct {
	Coins  int64  `json:"coins"`
	Reason string `json:"reason,omitempty"`
}

// OrderStatus описывает статус заказа подарка.
type OrderStatus string

const (
	OrderStatusOrdered   OrderStatus = "ORDERED"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusIssued    OrderStatus = "ISSUED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// ParseOrderStatus разбирает статус заказа без учёта регистра.
func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case OrderStatusOrdered, OrderStatusConfirmed, OrderStatusIssued, OrderStatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// IsTerminal сообщает, является ли статус конечным.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusIssued || s == OrderStatusCancelled
}

// IsActive сообщает, относится ли заказ к активным (ещё не выданным и не отменённым).
func (s OrderStatus) IsActive() bool {
	return s == OrderStatusOrdered || s == OrderStatusConfirmed
}

// CanTransitionTo проверяет переход по предполагаемому контракту сервера:
// ORDERED → CONFIRMED → ISSUED, отмена возможна только из ORDERED и CONFIRMED.
// Клиент не применяет эту проверку к запросам, решение остаётся за сервером.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusOrdered:
		return next == OrderStatusConfirmed || next == OrderStatusCancelled
	case OrderStatusConfirmed:
		return next == OrderStatusIssued || next == OrderStatusCancelled
	}
	return false
}

// Order описывает заказ подарка.
type Order struct {
	ID        int64       `json:"id" validate:"required"`
	Customer  User        `json:"customer"`
	PresentID int64       `json:"present_id"`
	Status    OrderStatus `json:"status" validate:"required,oneof=ORDERED CONFIRMED ISSUED CANCELLED"`
	Date      string      `json:"date"`
}

// CreateOrderRequest описывает тело запроса создания заказа.
type CreateOrderRequest struct {
	PresentID int64 `json:"presentId"`
}

// TeacherSummary описывает преподавателя в постраничном списке.
type TeacherSummary struct {
	ID       int64  `json:"id" validate:"required"`
	FullName string `json:"fullName"`
	Login    string `json:"login"`
}

// StudentSummary описывает ученика в постраничном списке.
type StudentSummary struct {
	ID        int64   `json:"id" validate:"required"`
	FullName  string  `json:"fullName"`
	Login     string  `json:"login"`
	BirthDate string  `json:"birthDate,omitempty"`
	Coins     FlexInt `json:"coins,omitempty"`
}

// FlexInt принимает целое число как в виде JSON-числа, так и в виде строки.
type FlexInt struct {
	Value int64
	Valid bool
}

// UnmarshalJSON реализует json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = FlexInt{}
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		*f = FlexInt{}
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("parse coins %q: %w", s, err)
	}
	*f = FlexInt{Value: v, Valid: true}
	return nil
}

// MarshalJSON реализует json.Marshaler.
func (f FlexInt) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(f.Value, 10)), nil
}

// Page описывает конверт постраничного ответа сервера.
type Page[T any] struct {
	Content          []T  `json:"content" validate:"dive"`
	TotalPages       int  `json:"totalPages"`
	TotalElements    int  `json:"totalElements"`
	Number           int  `json:"number"`
	Size             int  `json:"size"`
	NumberOfElements int  `json:"numberOfElements"`
	First            bool `json:"first"`
	Last             bool `json:"last"`
	Empty            bool `json:"empty"`
}

// ErrorResponse описывает конверт ошибки сервера.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02.01.2006",
}

// ParseDate разбирает дату в одном из форматов, которые возвращает сервер.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date %q", s)
}

// FormatDate форматирует дату в привычном для интерфейса виде дд.мм.гггг.
func FormatDate(s string) string {
	t, err := ParseDate(s)
	if err != nil {
		return s
	}
	return t.Format("02.01.2006")
}
