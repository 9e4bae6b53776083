package service

import (
	"context"
	"strings"

	"github.com/mmeshcher/coins-admin/internal/api"
	"github.com/mmeshcher/coins-admin/internal/model"
	"github.com/mmeshcher/coins-admin/internal/validation"
)

// Categories возвращает различные названия подарков в порядке первого появления.
// Подарки с одинаковым названием считаются одной категорией.
func Categories(presents []model.PresentSummary) []string {
	seen := make(map[string]struct{}, len(presents))
	var out []string
	for _, p := range presents {
		if _, ok := seen[p.Name]; ok {
			continue
		}
		seen[p.Name] = struct{}{}
		out = append(out, p.Name)
	}
	return out
}

// Suggestions возвращает категории, содержащие input без учёта регистра.
func Suggestions(categories []string, input string) []string {
	q := strings.ToLower(input)
	var out []string
	for _, c := range categories {
		if strings.Contains(strings.ToLower(c), q) {
			out = append(out, c)
		}
	}
	return out
}

// InCategory возвращает подарки выбранной категории. Пустая категория означает все подарки.
func InCategory(presents []model.PresentSummary, category string) []model.PresentSummary {
	if category == "" {
		return presents
	}
	var out []model.PresentSummary
	for _, p := range presents {
		if p.Name == category {
			out = append(out, p)
		}
	}
	return out
}

// Gifts загружает весь каталог.
func (d *Dashboard) Gifts(ctx context.Context) ([]model.PresentSummary, error) {
	all, err := d.deps.Presents.All(ctx)
	if err != nil {
		return nil, d.fail(ctx, "load presents", err)
	}
	return all, nil
}

// Gift возвращает подарок по идентификатору.
func (d *Dashboard) Gift(ctx context.Context, id int64) (*model.Present, error) {
	p, err := d.deps.Presents.Get(ctx, id)
	if err != nil {
		return nil, d.fail(ctx, "get present", err)
	}
	if err := required("get present", p); err != nil {
		return nil, err
	}
	return p, nil
}

func checkGift(form validation.GiftForm, photos []api.File, creating bool) error {
	errs := validation.Gift(form)
	for k, v := range validation.Photos(photos, creating) {
		errs[k] = v
	}
	return errs.Err()
}

// CreateGift проверяет форму и создаёт подарок вместе с фотографиями.
func (d *Dashboard) CreateGift(ctx context.Context, form validation.GiftForm, photos []api.File) (*model.Present, error) {
	if err := checkGift(form, photos, true); err != nil {
		return nil, err
	}

	p, err := d.deps.Presents.Create(ctx, api.NewPresent{
		Name:       strings.TrimSpace(form.Name),
		PriceCoins: form.PriceCoins,
		Stock:      form.Stock,
		Photos:     photos,
	})
	if err != nil {
		return nil, d.fail(ctx, "create present", err)
	}
	return p, nil
}

// UpdateGift проверяет форму, обновляет поля подарка и догружает новые фотографии.
func (d *Dashboard) UpdateGift(ctx context.Context, id int64, form validation.GiftForm, photos []api.File) (*model.Present, error) {
	if err := checkGift(form, photos, false); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(form.Name)
	p, err := d.deps.Presents.Update(ctx, id, model.PresentUpdate{
		Name:       &name,
		PriceCoins: &form.PriceCoins,
		Stock:      &form.Stock,
	})
	if err != nil {
		return nil, d.fail(ctx, "update present", err)
	}

	if len(photos) > 0 {
		p, err = d.deps.Presents.AddPhotos(ctx, id, photos)
		if err != nil {
			return nil, d.fail(ctx, "add photos", err)
		}
	}
	return p, nil
}

// AddGiftPhotos догружает фотографии к подарку.
func (d *Dashboard) AddGiftPhotos(ctx context.Context, id int64, photos []api.File) (*model.Present, error) {
	if errs := validation.Photos(photos, true); len(errs) > 0 {
		return nil, errs
	}
	p, err := d.deps.Presents.AddPhotos(ctx, id, photos)
	if err != nil {
		return nil, d.fail(ctx, "add photos", err)
	}
	return p, nil
}

// DeleteGiftPhoto удаляет фотографию подарка.
func (d *Dashboard) DeleteGiftPhoto(ctx context.Context, id, photoID int64) error {
	if err := d.deps.Presents.DeletePhoto(ctx, id, photoID); err != nil {
		return d.fail(ctx, "delete photo", err)
	}
	return nil
}

// DeleteGift удаляет подарок.
func (d *Dashboard) DeleteGift(ctx context.Context, id int64) error {
	if err := d.deps.Presents.Delete(ctx, id); err != nil {
		return d.fail(ctx, "delete present", err)
	}
	return nil
}
