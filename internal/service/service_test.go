package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mmeshcher/coins-admin/internal/api"
	"github.com/mmeshcher/coins-admin/internal/model"
	"github.com/mmeshcher/coins-admin/internal/session"
	"github.com/mmeshcher/coins-admin/internal/validation"
)

func ptr[T any](v T) *T { return &v }

type stubSession struct {
	login, password string
	loggedIn        bool
	logouts         int
}

func (s *stubSession) Login(_ context.Context, login, password string) error {
	s.login, s.password, s.loggedIn = login, password, true
	return nil
}

func (s *stubSession) Logout(context.Context) error {
	s.loggedIn = false
	s.logouts++
	return nil
}

type stubUsers struct {
	me       *model.User
	meErr    error
	history  []model.CoinsRecord
	teachers []model.TeacherSummary
	students []model.StudentSummary
	err      error

	created   *model.User
	coinsCall []int64
}

func (s *stubUsers) Me(context.Context) (*model.User, error) { return s.me, s.meErr }
func (s *stubUsers) Get(context.Context, int64) (*model.User, error) {
	return s.me, s.err
}
func (s *stubUsers) Create(_ context.Context, u model.User) (*model.User, error) {
	s.created = &u
	return &u, s.err
}
func (s *stubUsers) Update(_ context.Context, _ int64, u model.User) (*model.User, error) {
	return &u, s.err
}
func (s *stubUsers) Delete(context.Context, int64) error { return s.err }
func (s *stubUsers) AddCoins(_ context.Context, id, coins int64, _ string) (*model.User, error) {
	s.coinsCall = append(s.coinsCall, id, coins)
	return &model.User{ID: &id}, s.err
}
func (s *stubUsers) AllHistory(context.Context) ([]model.CoinsRecord, error) {
	return s.history, s.err
}
func (s *stubUsers) AllTeachers(context.Context) ([]model.TeacherSummary, error) {
	return s.teachers, s.err
}
func (s *stubUsers) AllStudents(context.Context) ([]model.StudentSummary, error) {
	return s.students, s.err
}

type stubGroups struct {
	groups  []model.Group
	group   *model.Group
	err     error
	updated *model.Group
	syncs   [][2][]int64
	report  *api.MembershipReport
}

func (s *stubGroups) All(context.Context) ([]model.Group, error) { return s.groups, s.err }
func (s *stubGroups) Get(context.Context, int64) (*model.Group, error) {
	return s.group, s.err
}
func (s *stubGroups) Create(_ context.Context, req model.CreateGroupRequest) (*model.Group, error) {
	return &model.Group{ID: ptr(int64(77)), Name: req.Name, TeacherID: &req.TeacherID}, s.err
}
func (s *stubGroups) Update(_ context.Context, _ int64, g model.Group) (*model.Group, error) {
	s.updated = &g
	return &g, s.err
}
func (s *stubGroups) Delete(context.Context, int64) error { return s.err }
func (s *stubGroups) SyncStudents(_ context.Context, groupID int64, current, target []int64) *api.MembershipReport {
	s.syncs = append(s.syncs, [2][]int64{current, target})
	if s.report != nil {
		return s.report
	}
	return &api.MembershipReport{GroupID: groupID}
}

type stubPresents struct {
	presents []model.PresentSummary
	err      error
	created  *api.NewPresent
	added    int
}

func (s *stubPresents) All(context.Context) ([]model.PresentSummary, error) {
	return s.presents, s.err
}
func (s *stubPresents) Get(_ context.Context, id int64) (*model.Present, error) {
	return &model.Present{ID: id}, s.err
}
func (s *stubPresents) Create(_ context.Context, np api.NewPresent) (*model.Present, error) {
	s.created = &np
	return &model.Present{ID: 1, Name: np.Name}, s.err
}
func (s *stubPresents) Update(_ context.Context, id int64, _ model.PresentUpdate) (*model.Present, error) {
	return &model.Present{ID: id}, s.err
}
func (s *stubPresents) Delete(context.Context, int64) error { return s.err }
func (s *stubPresents) AddPhotos(_ context.Context, id int64, photos []api.File) (*model.Present, error) {
	s.added += len(photos)
	return &model.Present{ID: id}, s.err
}
func (s *stubPresents) DeletePhoto(context.Context, int64, int64) error { return s.err }

type stubOrders struct {
	orders   []model.Order
	order    *model.Order
	err      error
	statuses []model.OrderStatus
	cancels  int
}

func (s *stubOrders) All(context.Context) ([]model.Order, error) { return s.orders, s.err }
func (s *stubOrders) Get(context.Context, int64) (*model.Order, error) {
	return s.order, s.err
}
func (s *stubOrders) Create(_ context.Context, presentID int64) (*model.Order, error) {
	return &model.Order{ID: 1, PresentID: presentID, Status: model.OrderStatusOrdered}, s.err
}
func (s *stubOrders) UpdateStatus(_ context.Context, id int64, st model.OrderStatus) (*model.Order, error) {
	s.statuses = append(s.statuses, st)
	return &model.Order{ID: id, Status: st}, s.err
}
func (s *stubOrders) Cancel(_ context.Context, id int64) (*model.Order, error) {
	s.cancels++
	return &model.Order{ID: id, Status: model.OrderStatusCancelled}, s.err
}

type fixture struct {
	sess     *stubSession
	users    *stubUsers
	groups   *stubGroups
	presents *stubPresents
	orders   *stubOrders
	d        *Dashboard
}

func newFixture() *fixture {
	f := &fixture{
		sess:     &stubSession{},
		users:    &stubUsers{},
		groups:   &stubGroups{},
		presents: &stubPresents{},
		orders:   &stubOrders{},
	}
	f.d = NewDashboard(Deps{
		Session:  f.sess,
		Users:    f.users,
		Groups:   f.groups,
		Presents: f.presents,
		Orders:   f.orders,
	}, nil)
	return f
}

func TestLogin(t *testing.T) {
	t.Run("success keeps credentials", func(t *testing.T) {
		f := newFixture()
		f.users.me = &model.User{Login: "admin", Role: model.RoleAdmin}

		me, err := f.d.Login(context.Background(), "secret")
		require.NoError(t, err)
		assert.Equal(t, "admin", me.Login)
		assert.Equal(t, AdminLogin, f.sess.login)
		assert.Equal(t, "secret", f.sess.password)
		assert.True(t, f.sess.loggedIn)
	})

	t.Run("empty password", func(t *testing.T) {
		f := newFixture()
		_, err := f.d.Login(context.Background(), "")
		assert.ErrorIs(t, err, ErrEmptyPassword)
		assert.False(t, f.sess.loggedIn)
	})

	t.Run("rejected credentials are cleared", func(t *testing.T) {
		f := newFixture()
		f.users.meErr = &api.Error{Status: http.StatusUnauthorized, Message: "HTTP 401: Unauthorized"}

		_, err := f.d.Login(context.Background(), "wrong")
		assert.ErrorIs(t, err, ErrWrongPassword)
		assert.Equal(t, "Неверный пароль", Message(err))
		assert.False(t, f.sess.loggedIn)
	})

	t.Run("connectivity failure clears credentials", func(t *testing.T) {
		f := newFixture()
		f.users.meErr = &api.ConnectivityError{Method: http.MethodGet, URL: "http://x/api/users/me", Err: errors.New("connection refused")}

		_, err := f.d.Login(context.Background(), "secret")
		require.Error(t, err)
		assert.True(t, api.IsConnectivity(err))
		assert.Contains(t, Message(err), "Ошибка подключения к серверу: connection refused")
		assert.False(t, f.sess.loggedIn)
	})
}

func TestAuthErrorLogsOut(t *testing.T) {
	f := newFixture()
	f.sess.loggedIn = true
	f.users.err = &api.Error{Status: http.StatusForbidden, Message: "forbidden"}

	_, err := f.d.History(context.Background(), HistoryFilter{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.True(t, api.IsAuth(err))
	assert.False(t, f.sess.loggedIn)
	assert.Equal(t, 1, f.sess.logouts)
}

func TestNonAuthErrorKeepsSession(t *testing.T) {
	f := newFixture()
	f.sess.loggedIn = true
	f.users.err = &api.Error{Status: http.StatusInternalServerError, Message: "boom"}

	_, err := f.d.History(context.Background(), HistoryFilter{})
	require.Error(t, err)
	assert.True(t, f.sess.loggedIn)
	assert.Equal(t, "Ошибка сервера", Message(err))
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "validation from server", err: &api.Error{Status: 400, Message: "Недостаточно монет"}, want: "Недостаточно монет"},
		{name: "form errors", err: validation.Errors{"name": "Название обязательно"}, want: "name: Название обязательно"},
		{name: "empty response", err: fmt.Errorf("get order: %w", ErrEmptyResponse), want: "Пустой ответ сервера"},
		{name: "decode", err: &api.DecodeError{Status: 200, Err: errors.New("bad json")}, want: "Некорректный ответ сервера"},
		{name: "unknown", err: errors.New("something"), want: "Ошибка загрузки данных"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.err))
		})
	}
}

func TestBuildHistory(t *testing.T) {
	records := []model.CoinsRecord{
		{
			Coins:  10,
			Date:   "2024-03-01T10:00:00",
			Reason: "олимпиада",
			Admin:  &model.User{FirstName: "Анна", LastName: "Петрова"},
			User: &model.HistoryUser{
				User:      model.User{FirstName: "Иван", LastName: "Иванов"},
				GroupName: "5А",
			},
		},
		{Coins: -3, Date: "2024-03-05T09:00:00"},
	}

	got := BuildHistory(records)
	require.Len(t, got, 2)

	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, "Петрова Анна", got[0].Teacher)
	assert.Equal(t, "5А", got[0].Group)
	assert.Equal(t, "Иванов Иван", got[0].Student)
	assert.Equal(t, "01.03.2024", got[0].DateText())

	assert.Equal(t, "Система", got[1].Teacher)
	assert.Equal(t, "Без группы", got[1].Group)
	assert.Equal(t, "Неизвестно", got[1].Student)
	assert.Equal(t, "Не указана", got[1].Reason)
}

func TestFilterHistory(t *testing.T) {
	d := func(s string) time.Time {
		tm, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return tm
	}
	records := []HistoryRecord{
		{ID: 1, Date: d("2024-03-01"), Teacher: "A", Group: "5А", Student: "S1", Coins: 5},
		{ID: 2, Date: d("2024-03-10"), Teacher: "B", Group: "5А", Student: "S2", Coins: 7},
		{ID: 3, Date: d("2024-03-05"), Teacher: "A", Group: "6Б", Student: "S1", Coins: -2},
	}

	all := FilterHistory(records, HistoryFilter{})
	require.Len(t, all, 3)
	assert.Equal(t, []int{2, 3, 1}, []int{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, int64(10), TotalCoins(all))

	ranged := FilterHistory(records, HistoryFilter{From: d("2024-03-05"), To: d("2024-03-10")})
	require.Len(t, ranged, 2)
	assert.Equal(t, 2, ranged[0].ID)
	assert.Equal(t, 3, ranged[1].ID)

	byTeacher := FilterHistory(records, HistoryFilter{Teacher: "A", Group: "5А"})
	require.Len(t, byTeacher, 1)
	assert.Equal(t, 1, byTeacher[0].ID)
}

func TestHistoryView(t *testing.T) {
	f := newFixture()
	f.users.history = []model.CoinsRecord{
		{Coins: 1, Date: "2024-01-01", User: &model.HistoryUser{User: model.User{LastName: "Яковлев", FirstName: "Ян"}}},
		{Coins: 2, Date: "2024-01-02", User: &model.HistoryUser{User: model.User{LastName: "Алексеев", FirstName: "Ал"}}},
		{Coins: 3, Date: "2024-01-03", User: &model.HistoryUser{User: model.User{LastName: "Алексеев", FirstName: "Ал"}}},
	}

	view, err := f.d.History(context.Background(), HistoryFilter{Student: "Алексеев Ал"})
	require.NoError(t, err)
	assert.Len(t, view.Records, 2)
	assert.Equal(t, int64(5), view.Total)
	assert.Equal(t, []string{"Алексеев Ал", "Яковлев Ян"}, view.Students)
	assert.Equal(t, []string{"Система"}, view.Teachers)
	assert.Equal(t, []string{"Без группы"}, view.Groups)
}

func TestOrders(t *testing.T) {
	f := newFixture()
	f.presents.presents = []model.PresentSummary{
		{ID: 1, Name: "Кружка", PhotoIDs: []int64{11, 12}},
		{ID: 2, Name: "Блокнот"},
	}
	f.orders.orders = []model.Order{
		{ID: 1, PresentID: 1, Status: model.OrderStatusOrdered, Date: "2024-02-01T10:00:00", Customer: model.User{FullName: "Иванов Иван"}},
		{ID: 2, PresentID: 2, Status: model.OrderStatusConfirmed, Date: "2024-02-03T10:00:00", Customer: model.User{LastName: "Петров", FirstName: "Пётр"}},
		{ID: 3, PresentID: 9, Status: model.OrderStatusIssued, Date: "2024-02-02T10:00:00", Customer: model.User{FullName: "Сидоров"}},
		{ID: 4, PresentID: 1, Status: model.OrderStatusCancelled, Date: "2024-02-04T10:00:00", Customer: model.User{FullName: "Иванов Иван"}},
	}

	active, err := f.d.Orders(context.Background(), TabActive, "")
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, int64(2), active[0].ID)
	assert.Equal(t, "Петров Пётр", active[0].Customer)
	assert.Equal(t, int64(11), active[1].PhotoID)
	assert.Equal(t, "Заказан", active[1].StatusText())

	completed, err := f.d.Orders(context.Background(), TabCompleted, "")
	require.NoError(t, err)
	require.Len(t, completed, 2)
	assert.Equal(t, int64(4), completed[0].ID)
	assert.Equal(t, "Подарок #9", completed[1].GiftName)

	found, err := f.d.Orders(context.Background(), TabActive, "КРУЖ")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, int64(1), found[0].ID)

	byCustomer := SelectOrders(BuildOrders(f.orders.orders, f.presents.presents), TabCompleted, "иванов")
	require.Len(t, byCustomer, 1)
	assert.Equal(t, int64(4), byCustomer[0].ID)
}

func TestChangeOrderStatus(t *testing.T) {
	t.Run("cancel uses cancel endpoint", func(t *testing.T) {
		f := newFixture()
		f.orders.order = &model.Order{ID: 5, Status: model.OrderStatusOrdered}

		o, err := f.d.ChangeOrderStatus(context.Background(), 5, model.OrderStatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusCancelled, o.Status)
		assert.Equal(t, 1, f.orders.cancels)
		assert.Empty(t, f.orders.statuses)
	})

	t.Run("unexpected transition is still sent", func(t *testing.T) {
		f := newFixture()
		f.orders.order = &model.Order{ID: 5, Status: model.OrderStatusOrdered}

		_, err := f.d.ChangeOrderStatus(context.Background(), 5, model.OrderStatusIssued)
		require.NoError(t, err)
		assert.Equal(t, []model.OrderStatus{model.OrderStatusIssued}, f.orders.statuses)
	})
}

func TestSortGroups(t *testing.T) {
	groups := []GroupView{
		{Name: "10А"}, {Name: "Математика"}, {Name: "2Б"}, {Name: "Английский"}, {Name: "9В"},
	}
	SortGroups(groups)

	var names []string
	for _, g := range groups {
		names = append(names, g.Name)
	}
	assert.Equal(t, []string{"Английский", "Математика", "2Б", "9В", "10А"}, names)
}

func TestBuildGroup(t *testing.T) {
	g := model.Group{
		ID:   ptr(int64(3)),
		Name: "5А",
		Students: []model.User{
			{ID: ptr(int64(2)), LastName: "Яшин", FirstName: "Лев"},
			{ID: ptr(int64(1)), FullName: "Борисов Борис Борисович"},
		},
	}

	v := BuildGroup(g)
	assert.Equal(t, int64(3), v.ID)
	assert.Equal(t, "Не назначен", v.Teacher)
	require.Len(t, v.Participants, 2)
	assert.Equal(t, "Борисов Борис Борисович", v.Participants[0].FullName)
	assert.Equal(t, "Яшин Лев", v.Participants[1].FullName)
	assert.Equal(t, []int64{1, 2}, v.ParticipantIDs())
}

func TestSearchStudents(t *testing.T) {
	students := []model.StudentSummary{
		{ID: 1, FullName: "Иванов Иван"},
		{ID: 2, FullName: "Иваненко Олег"},
		{ID: 3, FullName: "Петров Пётр"},
	}

	assert.Nil(t, SearchStudents(students, "Ив", nil))

	got := SearchStudents(students, "ИВА", []int64{2})
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestCreateGroupSyncsStudents(t *testing.T) {
	f := newFixture()

	g, report, err := f.d.CreateGroup(context.Background(), " 7В ", 4, []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, "7В", g.Name)
	require.NotNil(t, report)
	require.Len(t, f.groups.syncs, 1)
	assert.Nil(t, f.groups.syncs[0][0])
	assert.Equal(t, []int64{1, 2}, f.groups.syncs[0][1])
}

func TestCreateGroupValidation(t *testing.T) {
	f := newFixture()

	_, _, err := f.d.CreateGroup(context.Background(), "", 0, nil)
	var formErrs validation.Errors
	require.ErrorAs(t, err, &formErrs)
	assert.Contains(t, formErrs, "name")
	assert.Contains(t, formErrs, "teacher")
	assert.Empty(t, f.groups.syncs)
}

func TestEditGroupUsesCurrentMembers(t *testing.T) {
	f := newFixture()
	f.groups.group = &model.Group{
		ID:       ptr(int64(3)),
		Name:     "5А",
		Students: []model.User{{ID: ptr(int64(1))}, {ID: ptr(int64(2))}},
	}

	_, err := f.d.EditGroup(context.Background(), 3, "5Б", 8, []int64{2, 3})
	require.NoError(t, err)
	require.NotNil(t, f.groups.updated)
	assert.Equal(t, "5Б", f.groups.updated.Name)
	assert.Equal(t, int64(8), *f.groups.updated.TeacherID)
	require.Len(t, f.groups.syncs, 1)
	assert.Equal(t, []int64{1, 2}, f.groups.syncs[0][0])
	assert.Equal(t, []int64{2, 3}, f.groups.syncs[0][1])
}

func TestMembershipAuthFailureLogsOut(t *testing.T) {
	f := newFixture()
	f.sess.loggedIn = true
	f.groups.report = &api.MembershipReport{Outcomes: []api.MembershipOutcome{
		{Op: api.OpAdd, StudentID: 1, Err: &api.Error{Status: http.StatusUnauthorized}},
	}}

	_, report, err := f.d.CreateGroup(context.Background(), "7В", 4, []int64{1})
	require.NoError(t, err)
	assert.Error(t, report.Err())
	assert.False(t, f.sess.loggedIn)
}

func TestGiftCategories(t *testing.T) {
	presents := []model.PresentSummary{
		{ID: 1, Name: "Кружка"}, {ID: 2, Name: "Блокнот"}, {ID: 3, Name: "Кружка"},
	}

	cats := Categories(presents)
	assert.Equal(t, []string{"Кружка", "Блокнот"}, cats)
	assert.Equal(t, []string{"Блокнот"}, Suggestions(cats, "БЛОК"))
	assert.Len(t, InCategory(presents, "Кружка"), 2)
	assert.Len(t, InCategory(presents, ""), 3)
}

func TestCreateGift(t *testing.T) {
	png := api.File{Name: "a.png", Data: []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}}

	t.Run("valid", func(t *testing.T) {
		f := newFixture()
		_, err := f.d.CreateGift(context.Background(), validation.GiftForm{Name: " Кружка ", PriceCoins: 100, Stock: 5}, []api.File{png})
		require.NoError(t, err)
		require.NotNil(t, f.presents.created)
		assert.Equal(t, "Кружка", f.presents.created.Name)
		assert.Len(t, f.presents.created.Photos, 1)
	})

	t.Run("missing photo", func(t *testing.T) {
		f := newFixture()
		_, err := f.d.CreateGift(context.Background(), validation.GiftForm{Name: "Кружка", PriceCoins: 100, Stock: 5}, nil)
		var formErrs validation.Errors
		require.ErrorAs(t, err, &formErrs)
		assert.Equal(t, "Загрузите хотя бы одно изображение", formErrs["images"])
		assert.Nil(t, f.presents.created)
	})

	t.Run("update adds photos", func(t *testing.T) {
		f := newFixture()
		_, err := f.d.UpdateGift(context.Background(), 4, validation.GiftForm{Name: "Кружка", PriceCoins: 100, Stock: 5}, []api.File{png, png})
		require.NoError(t, err)
		assert.Equal(t, 2, f.presents.added)
	})
}

func TestAdjustCoins(t *testing.T) {
	f := newFixture()

	_, err := f.d.AdjustCoins(context.Background(), 7, 0, "")
	require.Error(t, err)
	assert.Empty(t, f.users.coinsCall)

	_, err = f.d.AdjustCoins(context.Background(), 7, -5, "штраф")
	require.NoError(t, err)
	assert.Equal(t, []int64{7, -5}, f.users.coinsCall)
}

func TestCreateUserChecksLogins(t *testing.T) {
	f := newFixture()
	f.users.students = []model.StudentSummary{{ID: 1, Login: "ivanov"}}

	u := model.User{
		Login:       "ivanov",
		Password:    "pass",
		Role:        model.RoleStudent,
		FirstName:   "Иван",
		LastName:    "Иванов",
		Email:       "i@school.ru",
		DateOfBirth: "2010-01-01",
	}
	_, err := f.d.CreateUser(context.Background(), u)
	var formErrs validation.Errors
	require.ErrorAs(t, err, &formErrs)
	assert.Equal(t, "Логин уже занят", formErrs["login"])
	assert.Nil(t, f.users.created)

	u.Login = "ivanov2"
	_, err = f.d.CreateUser(context.Background(), u)
	require.NoError(t, err)
	require.NotNil(t, f.users.created)
}

// noContentDashboard строит панель над сервером, который на любой запрос отвечает 204.
func noContentDashboard(t *testing.T) *Dashboard {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	sess := session.New(session.NewMemoryStore(), zap.NewNop())
	require.NoError(t, sess.Login(context.Background(), AdminLogin, "secret"))
	return FromClient(api.NewClient(srv.URL, sess), zap.NewNop())
}

func TestEmptyResponses(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		call func(d *Dashboard) error
	}{
		{name: "group", call: func(d *Dashboard) error {
			_, err := d.Group(ctx, 1)
			return err
		}},
		{name: "create group", call: func(d *Dashboard) error {
			_, _, err := d.CreateGroup(ctx, "Математика", 2, []int64{3})
			return err
		}},
		{name: "edit group", call: func(d *Dashboard) error {
			_, err := d.EditGroup(ctx, 1, "Математика", 2, []int64{3})
			return err
		}},
		{name: "rename group", call: func(d *Dashboard) error {
			return d.RenameGroup(ctx, 1, "Физика")
		}},
		{name: "order", call: func(d *Dashboard) error {
			_, err := d.Order(ctx, 1)
			return err
		}},
		{name: "change order status", call: func(d *Dashboard) error {
			_, err := d.ChangeOrderStatus(ctx, 1, model.OrderStatusConfirmed)
			return err
		}},
		{name: "gift", call: func(d *Dashboard) error {
			_, err := d.Gift(ctx, 1)
			return err
		}},
		{name: "user", call: func(d *Dashboard) error {
			_, err := d.User(ctx, 1)
			return err
		}},
		{name: "me", call: func(d *Dashboard) error {
			_, err := d.Me(ctx)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := noContentDashboard(t)
			var err error
			require.NotPanics(t, func() { err = tt.call(d) })
			require.ErrorIs(t, err, ErrEmptyResponse)
			assert.Equal(t, "Пустой ответ сервера", Message(err))
		})
	}
}

func TestEmptyResponsesFromStubs(t *testing.T) {
	f := newFixture()

	_, err := f.d.EditGroup(context.Background(), 1, "Математика", 2, nil)
	require.ErrorIs(t, err, ErrEmptyResponse)
	assert.Nil(t, f.groups.updated, "group must not be updated without current members")
	assert.Empty(t, f.groups.syncs)

	_, err = f.d.ChangeOrderStatus(context.Background(), 1, model.OrderStatusIssued)
	require.ErrorIs(t, err, ErrEmptyResponse)
	assert.Empty(t, f.orders.statuses)
	assert.Zero(t, f.orders.cancels)
}

func TestEmptyMutationResultsAreAccepted(t *testing.T) {
	d := noContentDashboard(t)
	ctx := context.Background()

	assert.NoError(t, d.DeleteGroup(ctx, 1))
	assert.NoError(t, d.DeleteGift(ctx, 1))

	o, err := d.PlaceOrder(ctx, 5)
	require.NoError(t, err)
	assert.Nil(t, o)
}
