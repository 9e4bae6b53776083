package api

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
)

// MembershipOp описывает вид изменения состава группы.
type MembershipOp string

const (
	OpRemove MembershipOp = "remove"
	OpAdd    MembershipOp = "add"
)

// MembershipOutcome описывает результат одного вызова добавления или исключения ученика.
type MembershipOutcome struct {
	Op        MembershipOp
	StudentID int64
	Err       error
}

// MembershipReport собирает результаты всех вызовов синхронизации состава группы.
// Операции неатомарны: при частичном сбое группа остаётся в смешанном состоянии,
// и отчёт показывает, какие вызовы прошли, а какие нет.
type MembershipReport struct {
	GroupID  int64
	Outcomes []MembershipOutcome
}

// Succeeded возвращает успешные операции.
func (r *MembershipReport) Succeeded() []MembershipOutcome {
	var res []MembershipOutcome
	for _, o := range r.Outcomes {
		if o.Err == nil {
			res = append(res, o)
		}
	}
	return res
}

// Failed возвращает неуспешные операции.
func (r *MembershipReport) Failed() []MembershipOutcome {
	var res []MembershipOutcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			res = append(res, o)
		}
	}
	return res
}

// Err объединяет ошибки всех неуспешных операций или возвращает nil.
func (r *MembershipReport) Err() error {
	var err error
	for _, o := range r.Failed() {
		err = multierr.Append(err, fmt.Errorf("%s student %d: %w", o.Op, o.StudentID, o.Err))
	}
	return err
}

// PlanMembership вычисляет, кого исключить (есть в current, нет в target, в порядке current)
// и кого добавить (есть в target, нет в current, в порядке target).
func PlanMembership(current, target []int64) (remove, add []int64) {
	inCurrent := make(map[int64]struct{}, len(current))
	for _, id := range current {
		inCurrent[id] = struct{}{}
	}
	inTarget := make(map[int64]struct{}, len(target))
	for _, id := range target {
		inTarget[id] = struct{}{}
	}

	for _, id := range current {
		if _, ok := inTarget[id]; !ok {
			remove = append(remove, id)
			inTarget[id] = struct{}{}
		}
	}
	for _, id := range target {
		if _, ok := inCurrent[id]; !ok {
			add = append(add, id)
			inCurrent[id] = struct{}{}
		}
	}
	return remove, add
}

// SyncStudents приводит состав группы к target: сначала все исключения, затем все добавления,
// по одному вызову за раз. Сбой одного вызова не прерывает остальные.
func (g *GroupsClient) SyncStudents(ctx context.Context, groupID int64, current, target []int64) *MembershipReport {
	remove, add := PlanMembership(current, target)
	report := &MembershipReport{GroupID: groupID}

	for _, id := range remove {
		_, err := g.RemoveStudent(ctx, groupID, id)
		report.Outcomes = append(report.Outcomes, MembershipOutcome{Op: OpRemove, StudentID: id, Err: err})
	}
	for _, id := range add {
		_, err := g.AddStudent(ctx, groupID, id)
		report.Outcomes = append(report.Outcomes, MembershipOutcome{Op: OpAdd, StudentID: id, Err: err})
	}

	return report
}
