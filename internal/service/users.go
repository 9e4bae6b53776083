package service

import (
	"context"

	"github.com/mmeshcher/coins-admin/internal/model"
	"github.com/mmeshcher/coins-admin/internal/validation"
)

// Teachers возвращает всех преподавателей.
func (d *Dashboard) Teachers(ctx context.Context) ([]model.TeacherSummary, error) {
	all, err := d.deps.Users.AllTeachers(ctx)
	if err != nil {
		return nil, d.fail(ctx, "load teachers", err)
	}
	return all, nil
}

// Students возвращает всех учеников.
func (d *Dashboard) Students(ctx context.Context) ([]model.StudentSummary, error) {
	all, err := d.deps.Users.AllStudents(ctx)
	if err != nil {
		return nil, d.fail(ctx, "load students", err)
	}
	return all, nil
}

// User возвращает пользователя по идентификатору.
func (d *Dashboard) User(ctx context.Context, id int64) (*model.User, error) {
	u, err := d.deps.Users.Get(ctx, id)
	if err != nil {
		return nil, d.fail(ctx, "get user", err)
	}
	if err := required("get user", u); err != nil {
		return nil, err
	}
	return u, nil
}

// knownUsers собирает логины преподавателей и учеников для проверки уникальности.
func (d *Dashboard) knownUsers(ctx context.Context) ([]model.User, error) {
	teachers, err := d.deps.Users.AllTeachers(ctx)
	if err != nil {
		return nil, d.fail(ctx, "load teachers", err)
	}
	students, err := d.deps.Users.AllStudents(ctx)
	if err != nil {
		return nil, d.fail(ctx, "load students", err)
	}

	users := make([]model.User, 0, len(teachers)+len(students))
	for _, t := range teachers {
		id := t.ID
		users = append(users, model.User{ID: &id, Login: t.Login})
	}
	for _, s := range students {
		id := s.ID
		users = append(users, model.User{ID: &id, Login: s.Login})
	}
	return users, nil
}

// CreateUser проверяет форму и создаёт пользователя.
func (d *Dashboard) CreateUser(ctx context.Context, u model.User) (*model.User, error) {
	known, err := d.knownUsers(ctx)
	if err != nil {
		return nil, err
	}
	if errs := validation.User(u, known, true); len(errs) > 0 {
		return nil, errs
	}

	created, err := d.deps.Users.Create(ctx, u)
	if err != nil {
		return nil, d.fail(ctx, "create user", err)
	}
	return created, nil
}

// UpdateUser проверяет форму и сохраняет изменения пользователя.
func (d *Dashboard) UpdateUser(ctx context.Context, id int64, u model.User) (*model.User, error) {
	known, err := d.knownUsers(ctx)
	if err != nil {
		return nil, err
	}
	u.ID = &id
	if errs := validation.User(u, known, false); len(errs) > 0 {
		return nil, errs
	}

	updated, err := d.deps.Users.Update(ctx, id, u)
	if err != nil {
		return nil, d.fail(ctx, "update user", err)
	}
	return updated, nil
}

// DeleteUser удаляет пользователя.
func (d *Dashboard) DeleteUser(ctx context.Context, id int64) error {
	if err := d.deps.Users.Delete(ctx, id); err != nil {
		return d.fail(ctx, "delete user", err)
	}
	return nil
}

// AdjustCoins начисляет (coins > 0) или списывает (coins < 0) монеты.
func (d *Dashboard) AdjustCoins(ctx context.Context, userID, coins int64, reason string) (*model.User, error) {
	if errs := validation.Coins(validation.CoinsForm{Coins: coins, Reason: reason}); len(errs) > 0 {
		return nil, errs
	}
	u, err := d.deps.Users.AddCoins(ctx, userID, coins, reason)
	if err != nil {
		return nil, d.fail(ctx, "add coins", err)
	}
	return u, nil
}
