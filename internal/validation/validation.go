// Package validation содержит проверки форм панели администратора перед отправкой на сервер.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Errors — ошибки формы: имя поля → сообщение для пользователя.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return strings.Join(parts, "; ")
}

// Err возвращает nil, если ошибок нет.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

var lettersRe = regexp.MustCompile(`^[а-яА-ЯёЁa-zA-Z\s]+$`)

var (
	engineOnce sync.Once
	engine     *validator.Validate
)

func validate() *validator.Validate {
	engineOnce.Do(func() {
		engine = validator.New(validator.WithRequiredStructEnabled())
		engine.RegisterTagNameFunc(func(f reflect.StructField) string {
			if name := f.Tag.Get("form"); name != "" {
				return name
			}
			return f.Name
		})
		_ = engine.RegisterValidation("letters", func(fl validator.FieldLevel) bool {
			return lettersRe.MatchString(fl.Field().String())
		})
	})
	return engine
}

func check(form any, except ...string) Errors {
	var err error
	if len(except) > 0 {
		err = validate().StructExcept(form, except...)
	} else {
		err = validate().Struct(form)
	}

	errs := Errors{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errs
	}
	for _, fe := range verrs {
		if _, ok := errs[fe.Field()]; ok {
			continue
		}
		errs[fe.Field()] = message(fe)
	}
	return errs
}

func message(fe validator.FieldError) string {
	if msg, ok := messages[fe.StructNamespace()+"."+fe.Tag()]; ok {
		return msg
	}
	if label, ok := labels[fe.StructNamespace()]; ok {
		switch fe.Tag() {
		case "required":
			return label + " обязательно"
		case "letters":
			return label + " может содержать только буквы"
		}
	}
	return fmt.Sprintf("Некорректное значение поля %s", fe.Field())
}

var labels = map[string]string{
	"UserForm.FirstName":  "Имя",
	"UserForm.LastName":   "Фамилия",
	"UserForm.MiddleName": "Отчество",
}

var messages = map[string]string{
	"GiftForm.Name.required":        "Название обязательно",
	"GiftForm.PriceCoins.min":       priceMessage,
	"GiftForm.PriceCoins.max":       priceMessage,
	"GiftForm.Stock.min":            stockMessage,
	"GiftForm.Stock.max":            stockMessage,
	"GroupForm.Name.required":       "Название группы обязательно",
	"GroupForm.TeacherID.required":  "Выберите преподавателя",
	"CoinsForm.Coins.ne":            "Количество монет не может быть равно нулю",
	"CoinsForm.Reason.max":          "Причина не должна превышать 255 символов",
	"UserForm.Login.required":       "Логин обязателен",
	"UserForm.Login.alphanum":       "Логин может содержать только латинские буквы и цифры",
	"UserForm.Password.required":    "Пароль обязателен",
	"UserForm.Password.min":         "Пароль должен содержать минимум 4 символа",
	"UserForm.Email.required":       "Email обязателен",
	"UserForm.Email.email":          "Неверный формат email",
	"UserForm.DateOfBirth.required": "Дата рождения обязательна",
	"UserForm.DateOfBirth.datetime": "Формат даты: ГГГГ-ММ-ДД",
	"UserForm.Role.oneof":           "Неизвестная роль",
}
