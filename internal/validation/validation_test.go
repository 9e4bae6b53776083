package validation

import (
	"strings"
	"testing"

	"github.com/mmeshcher/coins-admin/internal/api"
	"github.com/mmeshcher/coins-admin/internal/model"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestGift(t *testing.T) {
	tests := []struct {
		name  string
		form  GiftForm
		field string
		msg   string
	}{
		{
			name: "valid",
			form: GiftForm{Name: "Кружка", PriceCoins: 150, Stock: 20},
		},
		{
			name:  "blank name",
			form:  GiftForm{Name: "   ", PriceCoins: 150, Stock: 20},
			field: "name",
			msg:   "Название обязательно",
		},
		{
			name:  "price too low",
			form:  GiftForm{Name: "Кружка", PriceCoins: 0, Stock: 20},
			field: "price",
			msg:   "Цена должна быть от 1 до 9999",
		},
		{
			name:  "price too high",
			form:  GiftForm{Name: "Кружка", PriceCoins: 10000, Stock: 20},
			field: "price",
			msg:   "Цена должна быть от 1 до 9999",
		},
		{
			name: "bounds are inclusive",
			form: GiftForm{Name: "Кружка", PriceCoins: 9999, Stock: 999},
		},
		{
			name:  "stock too high",
			form:  GiftForm{Name: "Кружка", PriceCoins: 1, Stock: 1000},
			field: "stock",
			msg:   "Количество должно быть от 1 до 999",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Gift(tt.form)
			if tt.field == "" {
				if err := errs.Err(); err != nil {
					t.Fatalf("Gift(%+v) unexpected error: %v", tt.form, err)
				}
				return
			}
			if got := errs[tt.field]; got != tt.msg {
				t.Fatalf("Gift(%+v)[%s] = %q, want %q", tt.form, tt.field, got, tt.msg)
			}
		})
	}
}

func TestPhotos(t *testing.T) {
	png := api.File{Name: "a.png", Data: pngHeader}
	text := api.File{Name: "a.txt", Data: []byte("hello")}

	tests := []struct {
		name     string
		files    []api.File
		creating bool
		msg      string
	}{
		{name: "create requires photo", creating: true, msg: "Загрузите хотя бы одно изображение"},
		{name: "update without photos", creating: false},
		{name: "png accepted", files: []api.File{png}, creating: true},
		{name: "text rejected", files: []api.File{png, text}, msg: "Разрешены только JPEG, PNG, HEIC, HEIF, WebP"},
		{
			name:  "too many",
			files: []api.File{png, png, png, png, png, png, png, png, png},
			msg:   "Максимум 8 изображений",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Photos(tt.files, tt.creating)["images"]
			if got != tt.msg {
				t.Fatalf("Photos()[images] = %q, want %q", got, tt.msg)
			}
		})
	}
}

func TestGroup(t *testing.T) {
	errs := Group(GroupForm{Name: " ", TeacherID: 0})
	if errs["name"] != "Название группы обязательно" {
		t.Fatalf("unexpected name error: %q", errs["name"])
	}
	if errs["teacher"] != "Выберите преподавателя" {
		t.Fatalf("unexpected teacher error: %q", errs["teacher"])
	}

	if err := Group(GroupForm{Name: "5А", TeacherID: 3}).Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCoins(t *testing.T) {
	if err := Coins(CoinsForm{Coins: -5, Reason: "штраф"}).Err(); err != nil {
		t.Fatalf("negative adjustment must be allowed: %v", err)
	}
	if got := Coins(CoinsForm{Coins: 0})["coins"]; got == "" {
		t.Fatalf("zero adjustment must be rejected")
	}
	if got := Coins(CoinsForm{Coins: 1, Reason: strings.Repeat("я", 256)})["reason"]; got == "" {
		t.Fatalf("long reason must be rejected")
	}
}

func TestUser(t *testing.T) {
	id := func(v int64) *int64 { return &v }

	valid := model.User{
		Login:       "ivanov1",
		Password:    "pass",
		Role:        model.RoleStudent,
		FirstName:   "Иван",
		LastName:    "Иванов",
		Email:       "ivanov@school.ru",
		DateOfBirth: "2010-04-01",
	}
	existing := []model.User{
		{ID: id(1), Login: "petrov", Email: "petrov@school.ru"},
		{ID: id(2), Login: "ivanov1", Email: "ivanov@school.ru"},
	}

	t.Run("valid new user", func(t *testing.T) {
		if err := User(valid, existing[:1], true).Err(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("duplicates", func(t *testing.T) {
		errs := User(valid, existing, true)
		if errs["login"] != "Логин уже занят" || errs["email"] != "Email уже занят" {
			t.Fatalf("unexpected errors: %v", errs)
		}
	})

	t.Run("editing self is not a duplicate", func(t *testing.T) {
		u := valid
		u.ID = id(2)
		u.Password = ""
		if err := User(u, existing, false).Err(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("field formats", func(t *testing.T) {
		u := model.User{
			Login:       "иван",
			Password:    "123",
			FirstName:   "Ivan2",
			MiddleName:  "!",
			Email:       "nope",
			DateOfBirth: "01.04.2010",
		}
		errs := User(u, nil, true)
		want := map[string]string{
			"login":         "Логин может содержать только латинские буквы и цифры",
			"password":      "Пароль должен содержать минимум 4 символа",
			"first_name":    "Имя может содержать только буквы",
			"last_name":     "Фамилия обязательно",
			"middle_name":   "Отчество может содержать только буквы",
			"email":         "Неверный формат email",
			"date_of_birth": "Формат даты: ГГГГ-ММ-ДД",
		}
		for field, msg := range want {
			if errs[field] != msg {
				t.Fatalf("errs[%s] = %q, want %q", field, errs[field], msg)
			}
		}
	})
}

func TestErrorsString(t *testing.T) {
	errs := Errors{"stock": "b", "name": "a"}
	if got := errs.Error(); got != "name: a; stock: b" {
		t.Fatalf("Error() = %q", got)
	}
	if (Errors{}).Err() != nil {
		t.Fatalf("empty Errors must yield nil error")
	}
}
