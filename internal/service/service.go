// Package service реализует сценарии панели администратора поверх клиента API.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mmeshcher/coins-admin/internal/api"
	"github.com/mmeshcher/coins-admin/internal/model"
	"github.com/mmeshcher/coins-admin/internal/validation"
)

// AdminLogin — логин, под которым панель входит в систему. Пользователь вводит только пароль.
const AdminLogin = "admin"

var (
	// ErrEmptyPassword возвращается при попытке входа без пароля.
	ErrEmptyPassword = errors.New("Введите пароль")
	// ErrWrongPassword возвращается, если сервер отверг учётные данные при входе.
	ErrWrongPassword = errors.New("Неверный пароль")
	// ErrUnauthorized возвращается, если сервер отверг запрос; сессия при этом уже сброшена.
	ErrUnauthorized = errors.New("Требуется повторный вход")
	// ErrEmptyResponse возвращается, если сервер ответил без тела там, где нужны данные.
	ErrEmptyResponse = errors.New("Пустой ответ сервера")
)

// Session описывает хранилище учётных данных, используемое панелью.
type Session interface {
	Login(ctx context.Context, login, password string) error
	Logout(ctx context.Context) error
}

// Users описывает операции с пользователями и монетами.
type Users interface {
	Me(ctx context.Context) (*model.User, error)
	Get(ctx context.Context, id int64) (*model.User, error)
	Create(ctx context.Context, user model.User) (*model.User, error)
	Update(ctx context.Context, id int64, user model.User) (*model.User, error)
	Delete(ctx context.Context, id int64) error
	AddCoins(ctx context.Context, id, coins int64, reason string) (*model.User, error)
	AllHistory(ctx context.Context) ([]model.CoinsRecord, error)
	AllTeachers(ctx context.Context) ([]model.TeacherSummary, error)
	AllStudents(ctx context.Context) ([]model.StudentSummary, error)
}

// Groups описывает операции с группами.
type Groups interface {
	All(ctx context.Context) ([]model.Group, error)
	Get(ctx context.Context, id int64) (*model.Group, error)
	Create(ctx context.Context, req model.CreateGroupRequest) (*model.Group, error)
	Update(ctx context.Context, id int64, group model.Group) (*model.Group, error)
	Delete(ctx context.Context, id int64) error
	SyncStudents(ctx context.Context, groupID int64, current, target []int64) *api.MembershipReport
}

// Presents описывает операции с каталогом подарков.
type Presents interface {
	All(ctx context.Context) ([]model.PresentSummary, error)
	Get(ctx context.Context, id int64) (*model.Present, error)
	Create(ctx context.Context, np api.NewPresent) (*model.Present, error)
	Update(ctx context.Context, id int64, upd model.PresentUpdate) (*model.Present, error)
	Delete(ctx context.Context, id int64) error
	AddPhotos(ctx context.Context, id int64, photos []api.File) (*model.Present, error)
	DeletePhoto(ctx context.Context, id, photoID int64) error
}

// Orders описывает операции с заказами.
type Orders interface {
	All(ctx context.Context) ([]model.Order, error)
	Get(ctx context.Context, id int64) (*model.Order, error)
	Create(ctx context.Context, presentID int64) (*model.Order, error)
	UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) (*model.Order, error)
	Cancel(ctx context.Context, id int64) (*model.Order, error)
}

// Deps — зависимости панели.
type Deps struct {
	Session  Session
	Users    Users
	Groups   Groups
	Presents Presents
	Orders   Orders
}

// Dashboard содержит сценарии панели администратора: вход, выход и подготовку данных для экранов.
type Dashboard struct {
	deps   Deps
	logger *zap.Logger
}

// NewDashboard создаёт панель с указанными зависимостями.
func NewDashboard(deps Deps, logger *zap.Logger) *Dashboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dashboard{deps: deps, logger: logger}
}

// FromClient создаёт панель поверх клиента API и его сессии.
func FromClient(c *api.Client, logger *zap.Logger) *Dashboard {
	return NewDashboard(Deps{
		Session:  c.Session(),
		Users:    c.Users(),
		Groups:   c.Groups(),
		Presents: c.Presents(),
		Orders:   c.Orders(),
	}, logger)
}

// Login сохраняет учётные данные администратора и проверяет их запросом текущего пользователя.
// При любой ошибке учётные данные удаляются.
func (d *Dashboard) Login(ctx context.Context, password string) (*model.User, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}
	if err := d.deps.Session.Login(ctx, AdminLogin, password); err != nil {
		return nil, fmt.Errorf("save credentials: %w", err)
	}

	me, err := d.deps.Users.Me(ctx)
	if err != nil {
		d.logout(ctx)
		if api.IsAuth(err) {
			return nil, ErrWrongPassword
		}
		return nil, fmt.Errorf("verify credentials: %w", err)
	}

	d.logger.Info("logged in", zap.String("login", AdminLogin))
	return me, nil
}

// Logout удаляет сохранённые учётные данные.
func (d *Dashboard) Logout(ctx context.Context) error {
	if err := d.deps.Session.Logout(ctx); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

// Me возвращает текущего пользователя.
func (d *Dashboard) Me(ctx context.Context) (*model.User, error) {
	me, err := d.deps.Users.Me(ctx)
	if err != nil {
		return nil, d.fail(ctx, "get current user", err)
	}
	if err := required("get current user", me); err != nil {
		return nil, err
	}
	return me, nil
}

func (d *Dashboard) logout(ctx context.Context) {
	if err := d.deps.Session.Logout(ctx); err != nil {
		d.logger.Warn("clear credentials failed", zap.Error(err))
	}
}

// fail сбрасывает сессию, если сервер отверг учётные данные, и оборачивает ошибку.
func (d *Dashboard) fail(ctx context.Context, op string, err error) error {
	if api.IsAuth(err) {
		d.logout(ctx)
		return fmt.Errorf("%s: %w: %w", op, ErrUnauthorized, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// required проверяет, что сервер вернул запрошенный объект, а не пустой успешный ответ.
func required[T any](op string, v *T) error {
	if v == nil {
		return fmt.Errorf("%s: %w", op, ErrEmptyResponse)
	}
	return nil
}

// Message возвращает текст ошибки для пользователя.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var formErrs validation.Errors
	var apiErr *api.Error
	var connErr *api.ConnectivityError

	switch {
	case errors.As(err, &formErrs):
		return formErrs.Error()
	case errors.Is(err, ErrEmptyPassword):
		return ErrEmptyPassword.Error()
	case errors.Is(err, ErrWrongPassword):
		return ErrWrongPassword.Error()
	case errors.Is(err, ErrUnauthorized):
		return ErrUnauthorized.Error()
	case errors.Is(err, ErrEmptyResponse):
		return ErrEmptyResponse.Error()
	case errors.As(err, &connErr):
		return fmt.Sprintf("Ошибка подключения к серверу: %s. Проверьте соединение (HTTP/HTTPS)", connErr.Err)
	case api.IsServer(err):
		return "Ошибка сервера"
	case errors.As(err, &apiErr):
		return apiErr.Message
	case api.IsDecode(err):
		return "Некорректный ответ сервера"
	case errors.Is(err, context.DeadlineExceeded):
		return "Превышено время ожидания ответа сервера"
	}
	return "Ошибка загрузки данных"
}
