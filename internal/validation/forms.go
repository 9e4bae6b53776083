package validation

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/mmeshcher/coins-admin/internal/api"
	"github.com/mmeshcher/coins-admin/internal/model"
)

// MaxPhotos — наибольшее число фотографий, загружаемых за один раз.
const MaxPhotos = 8

var (
	priceMessage = fmt.Sprintf("Цена должна быть от %d до %d", model.MinPrice, model.MaxPrice)
	stockMessage = fmt.Sprintf("Количество должно быть от %d до %d", model.MinStock, model.MaxStock)
)

var allowedPhotoTypes = []string{"image/jpeg", "image/png", "image/heic", "image/heif", "image/webp"}

// GiftForm — поля формы подарка.
type GiftForm struct {
	Name       string `form:"name" validate:"required"`
	PriceCoins int    `form:"price" validate:"min=1,max=9999"`
	Stock      int    `form:"stock" validate:"min=1,max=999"`
}

// Gift проверяет название, цену и остаток подарка.
func Gift(f GiftForm) Errors {
	f.Name = strings.TrimSpace(f.Name)
	return check(f)
}

// Photos проверяет загружаемые фотографии. При создании подарка нужна хотя бы одна.
func Photos(files []api.File, creating bool) Errors {
	errs := Errors{}
	switch {
	case creating && len(files) == 0:
		errs["images"] = "Загрузите хотя бы одно изображение"
	case len(files) > MaxPhotos:
		errs["images"] = fmt.Sprintf("Максимум %d изображений", MaxPhotos)
	}
	if _, ok := errs["images"]; ok {
		return errs
	}

	for _, f := range files {
		if !isAllowedPhoto(f.Data) {
			errs["images"] = "Разрешены только JPEG, PNG, HEIC, HEIF, WebP"
			break
		}
	}
	return errs
}

func isAllowedPhoto(data []byte) bool {
	mt := mimetype.Detect(data)
	for _, t := range allowedPhotoTypes {
		if mt.Is(t) {
			return true
		}
	}
	return false
}

// GroupForm — поля формы группы.
type GroupForm struct {
	Name      string `form:"name" validate:"required"`
	TeacherID int64  `form:"teacher" validate:"required"`
}

// Group проверяет название группы и выбранного преподавателя.
func Group(f GroupForm) Errors {
	f.Name = strings.TrimSpace(f.Name)
	return check(f)
}

// CoinsForm — начисление или списание монет.
type CoinsForm struct {
	Coins  int64  `form:"coins" validate:"ne=0"`
	Reason string `form:"reason" validate:"max=255"`
}

// Coins проверяет изменение баланса.
func Coins(f CoinsForm) Errors {
	return check(f)
}

// UserForm — поля формы пользователя.
type UserForm struct {
	Login       string     `form:"login" validate:"required,alphanum"`
	Password    string     `form:"password" validate:"required,min=4"`
	Role        model.Role `form:"role" validate:"omitempty,oneof=ADMIN TEACHER STUDENT"`
	FirstName   string     `form:"first_name" validate:"required,letters"`
	LastName    string     `form:"last_name" validate:"required,letters"`
	MiddleName  string     `form:"middle_name" validate:"omitempty,letters"`
	Email       string     `form:"email" validate:"required,email"`
	DateOfBirth string     `form:"date_of_birth" validate:"required,datetime=2006-01-02"`
}

// User проверяет пользователя перед созданием или изменением. Пароль обязателен только
// при создании. Логин и email не должны совпадать с другими пользователями из existing.
func User(u model.User, existing []model.User, creating bool) Errors {
	f := UserForm{
		Login:       u.Login,
		Password:    u.Password,
		Role:        u.Role,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		MiddleName:  u.MiddleName,
		Email:       u.Email,
		DateOfBirth: u.DateOfBirth,
	}

	var errs Errors
	if creating {
		errs = check(f)
	} else {
		errs = check(f, "Password")
	}

	for _, other := range existing {
		if u.ID != nil && other.ID != nil && *u.ID == *other.ID {
			continue
		}
		if _, bad := errs["login"]; !bad && other.Login == u.Login {
			errs["login"] = "Логин уже занят"
		}
		if _, bad := errs["email"]; !bad && u.Email != "" && other.Email == u.Email {
			errs["email"] = "Email уже занят"
		}
	}
	return errs
}
