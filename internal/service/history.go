package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mmeshcher/coins-admin/internal/model"
)

// HistoryRecord — строка журнала начислений в том виде, в котором её показывает панель.
type HistoryRecord struct {
	ID      int
	Date    time.Time
	Teacher string
	Group   string
	Student string
	Coins   int64
	Reason  string
}

// DateText возвращает дату записи в формате дд.мм.гггг.
func (r HistoryRecord) DateText() string {
	if r.Date.IsZero() {
		return ""
	}
	return r.Date.Format("02.01.2006")
}

// HistoryFilter ограничивает журнал начислений. Пустые поля не ограничивают выборку.
// Границы дат включаются.
type HistoryFilter struct {
	From    time.Time
	To      time.Time
	Teacher string
	Group   string
	Student string
}

// HistoryView — отфильтрованный журнал, сумма монет и значения для фильтров.
type HistoryView struct {
	Records  []HistoryRecord
	Total    int64
	Teachers []string
	Groups   []string
	Students []string
}

// BuildHistory преобразует ответ сервера в строки журнала.
func BuildHistory(records []model.CoinsRecord) []HistoryRecord {
	out := make([]HistoryRecord, 0, len(records))
	for i, h := range records {
		r := HistoryRecord{
			ID:      i + 1,
			Teacher: "Система",
			Group:   "Без группы",
			Student: "Неизвестно",
			Coins:   h.Coins,
			Reason:  h.Reason,
		}
		if t, err := model.ParseDate(h.Date); err == nil {
			r.Date = t
		}
		if h.Admin != nil {
			r.Teacher = shortName(*h.Admin)
		}
		if h.User != nil {
			r.Student = shortName(h.User.User)
			if h.User.GroupName != "" {
				r.Group = h.User.GroupName
			}
		}
		if r.Reason == "" {
			r.Reason = "Не указана"
		}
		out = append(out, r)
	}
	return out
}

func shortName(u model.User) string {
	return strings.TrimSpace(u.LastName + " " + u.FirstName)
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FilterHistory отбирает записи по фильтру и сортирует их от новых к старым.
func FilterHistory(records []HistoryRecord, f HistoryFilter) []HistoryRecord {
	out := make([]HistoryRecord, 0, len(records))
	for _, r := range records {
		if !f.From.IsZero() && day(r.Date).Before(day(f.From)) {
			continue
		}
		if !f.To.IsZero() && day(r.Date).After(day(f.To)) {
			continue
		}
		if f.Teacher != "" && r.Teacher != f.Teacher {
			continue
		}
		if f.Group != "" && r.Group != f.Group {
			continue
		}
		if f.Student != "" && r.Student != f.Student {
			continue
		}
		out = append(out, r)
	}

	slices.SortStableFunc(out, func(a, b HistoryRecord) int {
		return day(b.Date).Compare(day(a.Date))
	})
	return out
}

// TotalCoins суммирует монеты по записям.
func TotalCoins(records []HistoryRecord) int64 {
	var sum int64
	for _, r := range records {
		sum += r.Coins
	}
	return sum
}

// uniqueSorted возвращает различные значения в русском алфавитном порядке.
func uniqueSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	c := collate.New(language.Russian)
	slices.SortFunc(out, c.CompareString)
	return out
}

// History загружает журнал начислений и применяет фильтр.
func (d *Dashboard) History(ctx context.Context, f HistoryFilter) (*HistoryView, error) {
	raw, err := d.deps.Users.AllHistory(ctx)
	if err != nil {
		return nil, d.fail(ctx, "load coins history", err)
	}

	all := BuildHistory(raw)
	view := &HistoryView{Records: FilterHistory(all, f)}
	view.Total = TotalCoins(view.Records)

	teachers := make([]string, 0, len(all))
	groups := make([]string, 0, len(all))
	students := make([]string, 0, len(all))
	for _, r := range all {
		teachers = append(teachers, r.Teacher)
		groups = append(groups, r.Group)
		students = append(students, r.Student)
	}
	view.Teachers = uniqueSorted(teachers)
	view.Groups = uniqueSorted(groups)
	view.Students = uniqueSorted(students)
	return view, nil
}
