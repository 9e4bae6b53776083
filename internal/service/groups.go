package service

import (
	"context"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mmeshcher/coins-admin/internal/api"
	"github.com/mmeshcher/coins-admin/internal/model"
	"github.com/mmeshcher/coins-admin/internal/validation"
)

// MinStudentQuery — минимальная длина строки поиска учеников.
const MinStudentQuery = 3

// Participant — ученик группы.
type Participant struct {
	ID       int64
	FullName string
	Login    string
}

// GroupView — группа в том виде, в котором её показывает панель.
type GroupView struct {
	ID           int64
	Name         string
	TeacherID    int64
	Teacher      string
	Participants []Participant
}

// ParticipantIDs возвращает идентификаторы участников.
func (g GroupView) ParticipantIDs() []int64 {
	ids := make([]int64, 0, len(g.Participants))
	for _, p := range g.Participants {
		ids = append(ids, p.ID)
	}
	return ids
}

func fullName(u model.User) string {
	if u.FullName != "" {
		return u.FullName
	}
	return strings.TrimSpace(u.LastName + " " + u.FirstName + " " + u.MiddleName)
}

// BuildGroup преобразует группу сервера. Участники сортируются по ФИО.
func BuildGroup(g model.Group) GroupView {
	v := GroupView{Name: g.Name, Teacher: "Не назначен"}
	if g.ID != nil {
		v.ID = *g.ID
	}
	if g.TeacherID != nil {
		v.TeacherID = *g.TeacherID
	}
	if g.Teacher != nil {
		v.Teacher = fullName(*g.Teacher)
		if v.TeacherID == 0 {
			v.TeacherID = g.Teacher.UserID()
		}
	}
	for _, s := range g.Students {
		v.Participants = append(v.Participants, Participant{ID: s.UserID(), FullName: fullName(s), Login: s.Login})
	}
	SortParticipants(v.Participants)
	return v
}

func startsWithDigit(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsDigit(r)
}

// SortGroups упорядочивает группы по названию: сначала названия, начинающиеся с буквы,
// затем с цифры; внутри — русский алфавитный порядок с числовым сравнением.
func SortGroups(groups []GroupView) {
	c := collate.New(language.Russian, collate.Numeric)
	slices.SortStableFunc(groups, func(a, b GroupView) int {
		ad, bd := startsWithDigit(a.Name), startsWithDigit(b.Name)
		switch {
		case ad && !bd:
			return 1
		case !ad && bd:
			return -1
		}
		return c.CompareString(a.Name, b.Name)
	})
}

// SortParticipants упорядочивает участников по ФИО в русском алфавитном порядке.
func SortParticipants(ps []Participant) {
	c := collate.New(language.Russian)
	slices.SortStableFunc(ps, func(a, b Participant) int {
		return c.CompareString(a.FullName, b.FullName)
	})
}

// SearchStudents ищет учеников по части ФИО без учёта регистра. Запрос короче
// MinStudentQuery символов ничего не находит. Уже выбранные ученики исключаются.
func SearchStudents(students []model.StudentSummary, query string, selected []int64) []model.StudentSummary {
	if utf8.RuneCountInString(query) < MinStudentQuery {
		return nil
	}
	q := strings.ToLower(query)

	var out []model.StudentSummary
	for _, s := range students {
		if slices.Contains(selected, s.ID) {
			continue
		}
		if strings.Contains(strings.ToLower(s.FullName), q) {
			out = append(out, s)
		}
	}
	return out
}

// Groups загружает все группы в порядке отображения.
func (d *Dashboard) Groups(ctx context.Context) ([]GroupView, error) {
	raw, err := d.deps.Groups.All(ctx)
	if err != nil {
		return nil, d.fail(ctx, "load groups", err)
	}
	views := make([]GroupView, 0, len(raw))
	for _, g := range raw {
		views = append(views, BuildGroup(g))
	}
	SortGroups(views)
	return views, nil
}

// Group возвращает группу по идентификатору.
func (d *Dashboard) Group(ctx context.Context, id int64) (*GroupView, error) {
	g, err := d.deps.Groups.Get(ctx, id)
	if err != nil {
		return nil, d.fail(ctx, "get group", err)
	}
	if err := required("get group", g); err != nil {
		return nil, err
	}
	v := BuildGroup(*g)
	return &v, nil
}

// FindStudents загружает всех учеников и ищет среди них по части ФИО.
func (d *Dashboard) FindStudents(ctx context.Context, query string, selected []int64) ([]model.StudentSummary, error) {
	if utf8.RuneCountInString(query) < MinStudentQuery {
		return nil, nil
	}
	all, err := d.deps.Users.AllStudents(ctx)
	if err != nil {
		return nil, d.fail(ctx, "load students", err)
	}
	return SearchStudents(all, query, selected), nil
}

// CreateGroup создаёт группу и добавляет в неё учеников. Ошибки добавления отдельных
// учеников не прерывают операцию и возвращаются в отчёте.
func (d *Dashboard) CreateGroup(ctx context.Context, name string, teacherID int64, studentIDs []int64) (*model.Group, *api.MembershipReport, error) {
	if errs := validation.Group(validation.GroupForm{Name: name, TeacherID: teacherID}); len(errs) > 0 {
		return nil, nil, errs
	}

	g, err := d.deps.Groups.Create(ctx, model.CreateGroupRequest{Name: strings.TrimSpace(name), TeacherID: teacherID})
	if err != nil {
		return nil, nil, d.fail(ctx, "create group", err)
	}
	// без идентификатора состав заполнить нельзя
	if err := required("create group", g); err != nil {
		return nil, nil, err
	}
	if g.ID == nil {
		return g, nil, nil
	}

	report := d.deps.Groups.SyncStudents(ctx, *g.ID, nil, studentIDs)
	d.checkReport(ctx, report)
	return g, report, nil
}

// EditGroup меняет название и преподавателя группы и приводит состав к studentIDs:
// сначала удаляются лишние ученики, затем добавляются новые.
func (d *Dashboard) EditGroup(ctx context.Context, id int64, name string, teacherID int64, studentIDs []int64) (*api.MembershipReport, error) {
	if errs := validation.Group(validation.GroupForm{Name: name, TeacherID: teacherID}); len(errs) > 0 {
		return nil, errs
	}

	current, err := d.deps.Groups.Get(ctx, id)
	if err != nil {
		return nil, d.fail(ctx, "get group", err)
	}
	if err := required("get group", current); err != nil {
		return nil, err
	}

	upd := model.Group{ID: &id, Name: strings.TrimSpace(name), TeacherID: &teacherID}
	if _, err := d.deps.Groups.Update(ctx, id, upd); err != nil {
		return nil, d.fail(ctx, "update group", err)
	}

	report := d.deps.Groups.SyncStudents(ctx, id, current.StudentIDs(), studentIDs)
	d.checkReport(ctx, report)
	return report, nil
}

// RenameGroup меняет только название группы.
func (d *Dashboard) RenameGroup(ctx context.Context, id int64, name string) error {
	current, err := d.Group(ctx, id)
	if err != nil {
		return err
	}
	teacherID := current.TeacherID
	if errs := validation.Group(validation.GroupForm{Name: name, TeacherID: teacherID}); len(errs) > 0 {
		return errs
	}

	upd := model.Group{ID: &id, Name: strings.TrimSpace(name), TeacherID: &teacherID}
	if _, err := d.deps.Groups.Update(ctx, id, upd); err != nil {
		return d.fail(ctx, "update group", err)
	}
	return nil
}

// DeleteGroup удаляет группу.
func (d *Dashboard) DeleteGroup(ctx context.Context, id int64) error {
	if err := d.deps.Groups.Delete(ctx, id); err != nil {
		return d.fail(ctx, "delete group", err)
	}
	return nil
}

// checkReport сбрасывает сессию, если хотя бы одна операция состава отвергнута сервером.
func (d *Dashboard) checkReport(ctx context.Context, report *api.MembershipReport) {
	for _, o := range report.Failed() {
		if api.IsAuth(o.Err) {
			d.logout(ctx)
			return
		}
	}
}
