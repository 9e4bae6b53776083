package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mmeshcher/coins-admin/internal/model"
)

// UsersClient работает с ресурсом /users.
type UsersClient struct {
	c *Client
}

// Me возвращает текущего аутентифицированного пользователя.
func (u *UsersClient) Me(ctx context.Context) (*model.User, error) {
	return call[model.User](ctx, u.c, http.MethodGet, "/users/me", nil, nil)
}

// Get возвращает пользователя по идентификатору.
func (u *UsersClient) Get(ctx context.Context, id int64) (*model.User, error) {
	return call[model.User](ctx, u.c, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, nil)
}

// Create создаёт пользователя.
func (u *UsersClient) Create(ctx context.Context, user model.User) (*model.User, error) {
	return call[model.User](ctx, u.c, http.MethodPost, "/users", nil, user)
}

// Update полностью заменяет данные пользователя.
func (u *UsersClient) Update(ctx context.Context, id int64, user model.User) (*model.User, error) {
	return call[model.User](ctx, u.c, http.MethodPut, fmt.Sprintf("/users/%d", id), nil, user)
}

// Delete удаляет пользователя.
func (u *UsersClient) Delete(ctx context.Context, id int64) error {
	_, err := u.c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil, nil)
	return err
}

// AddCoins изменяет баланс пользователя на coins (может быть отрицательным).
// Сервер создаёт запись истории как побочный эффект.
func (u *UsersClient) AddCoins(ctx context.Context, id, coins int64, reason string) (*model.User, error) {
	body := model.AddCoinsRequest{Coins: coins, Reason: reason}
	return call[model.User](ctx, u.c, http.MethodPut, fmt.Sprintf("/users/%d/coins", id), nil, body)
}

// History возвращает историю начислений пользователя.
func (u *UsersClient) History(ctx context.Context, id int64) ([]model.CoinsRecord, error) {
	return list[model.CoinsRecord](ctx, u.c, fmt.Sprintf("/users/%d/coinsHistory", id), nil)
}

// AllHistory возвращает всю историю начислений, доступную текущему пользователю.
func (u *UsersClient) AllHistory(ctx context.Context) ([]model.CoinsRecord, error) {
	return list[model.CoinsRecord](ctx, u.c, "/users/allCoinsHistory", nil)
}

// Teachers возвращает страницу преподавателей. По умолчанию: size=20, sortBy=secondName, sortDir=asc.
func (u *UsersClient) Teachers(ctx context.Context, p PageRequest) (*model.Page[model.TeacherSummary], error) {
	p = p.withDefaults(20, "secondName", "asc")
	return getPage[model.TeacherSummary](ctx, u.c, "/users/teachers", p.query())
}

// Students возвращает страницу учеников. По умолчанию: size=20, sortBy=secondName, sortDir=asc.
func (u *UsersClient) Students(ctx context.Context, p PageRequest) (*model.Page[model.StudentSummary], error) {
	p = p.withDefaults(20, "secondName", "asc")
	return getPage[model.StudentSummary](ctx, u.c, "/users/students", p.query())
}

// AllTeachers выгружает всех преподавателей.
func (u *UsersClient) AllTeachers(ctx context.Context) ([]model.TeacherSummary, error) {
	return Drain[model.TeacherSummary](ctx, func(ctx context.Context, page, size int) (*model.Page[model.TeacherSummary], error) {
		return u.Teachers(ctx, PageRequest{Page: page, Size: size})
	})
}

// AllStudents выгружает всех учеников.
func (u *UsersClient) AllStudents(ctx context.Context) ([]model.StudentSummary, error) {
	return Drain[model.StudentSummary](ctx, func(ctx context.Context, page, size int) (*model.Page[model.StudentSummary], error) {
		return u.Students(ctx, PageRequest{Page: page, Size: size})
	})
}

// call выполняет JSON-запрос и возвращает nil, если сервер ответил без содержимого.
func call[T any](ctx context.Context, c *Client, method, path string, query url.Values, in any) (*T, error) {
	var out T
	ok, err := c.doJSON(ctx, method, path, query, in, &out)
	if err != nil || !ok {
		return nil, err
	}
	return &out, nil
}

func list[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	var out []T
	if _, err := c.doJSON(ctx, http.MethodGet, path, query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
