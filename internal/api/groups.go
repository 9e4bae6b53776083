package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mmeshcher/coins-admin/internal/model"
)

// GroupsClient работает с ресурсом /groups.
type GroupsClient struct {
	c *Client
}

// List возвращает страницу групп. Размер страницы по умолчанию — 100.
func (g *GroupsClient) List(ctx context.Context, page, size int) (*model.Page[model.Group], error) {
	if size <= 0 {
		size = DrainPageSize
	}
	return getPage[model.Group](ctx, g.c, "/groups", pageQuery(page, size))
}

// All выгружает все группы.
func (g *GroupsClient) All(ctx context.Context) ([]model.Group, error) {
	return Drain[model.Group](ctx, g.List)
}

// Get возвращает группу по идентификатору.
func (g *GroupsClient) Get(ctx context.Context, id int64) (*model.Group, error) {
	return call[model.Group](ctx, g.c, http.MethodGet, fmt.Sprintf("/groups/%d", id), nil, nil)
}

// Create создаёт группу с назначенным преподавателем.
func (g *GroupsClient) Create(ctx context.Context, req model.CreateGroupRequest) (*model.Group, error) {
	return call[model.Group](ctx, g.c, http.MethodPost, "/groups", nil, req)
}

// Update полностью заменяет название и преподавателя группы.
func (g *GroupsClient) Update(ctx context.Context, id int64, group model.Group) (*model.Group, error) {
	return call[model.Group](ctx, g.c, http.MethodPut, fmt.Sprintf("/groups/%d", id), nil, group)
}

// Delete удаляет группу.
func (g *GroupsClient) Delete(ctx context.Context, id int64) error {
	_, err := g.c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/groups/%d", id), nil, nil, nil)
	return err
}

// AddStudent добавляет ученика в группу.
func (g *GroupsClient) AddStudent(ctx context.Context, groupID, studentID int64) (*model.Group, error) {
	return call[model.Group](ctx, g.c, http.MethodPost, studentPath(groupID, studentID), studentQuery(studentID), nil)
}

// RemoveStudent исключает ученика из группы.
func (g *GroupsClient) RemoveStudent(ctx context.Context, groupID, studentID int64) (*model.Group, error) {
	return call[model.Group](ctx, g.c, http.MethodDelete, studentPath(groupID, studentID), studentQuery(studentID), nil)
}

func studentPath(groupID, studentID int64) string {
	return fmt.Sprintf("/groups/%d/students/%d", groupID, studentID)
}

// studentQuery дублирует идентификатор ученика в query: сервер ожидает его в обоих местах.
func studentQuery(studentID int64) url.Values {
	return url.Values{"studentId": {strconv.FormatInt(studentID, 10)}}
}
