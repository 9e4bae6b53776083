package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/gabriel-vasile/mimetype"
	"github.com/urfave/cli/v2"

	"github.com/mmeshcher/coins-admin/internal/api"
	"github.com/mmeshcher/coins-admin/internal/model"
	"github.com/mmeshcher/coins-admin/internal/photocache"
	"github.com/mmeshcher/coins-admin/internal/service"
	"github.com/mmeshcher/coins-admin/internal/validation"
)

var errNoPhoto = errors.New("Фотография недоступна")

func readPhotos(paths []string) ([]api.File, error) {
	files := make([]api.File, 0, len(paths))
	for _, p := range paths {
		f, err := api.ReadFile(p)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func (a *app) printPresent(p *model.Present) error {
	if a.empty(p == nil) {
		return nil
	}
	return a.show(p, func(w *tabwriter.Writer) {
		row(w, "ID", p.ID)
		row(w, "Название", p.Name)
		row(w, "Цена", p.PriceCoins)
		row(w, "Остаток", p.Stock)
		row(w, "Фотографии", fmt.Sprint(p.PhotoIDs()))
	})
}

func giftForm(c *cli.Context) validation.GiftForm {
	return validation.GiftForm{
		Name:       c.String("name"),
		PriceCoins: c.Int("price"),
		Stock:      c.Int("stock"),
	}
}

func giftFlags(required bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name", Required: required},
		&cli.IntFlag{Name: "price", Required: required, Usage: fmt.Sprintf("цена в монетах, %d–%d", model.MinPrice, model.MaxPrice)},
		&cli.IntFlag{Name: "stock", Required: required, Usage: fmt.Sprintf("остаток, %d–%d", model.MinStock, model.MaxStock)},
		&cli.StringSliceFlag{Name: "photo", Usage: "путь к фотографии, можно повторять"},
	}
}

func (a *app) giftsCommand() *cli.Command {
	return &cli.Command{
		Name:  "gifts",
		Usage: "каталог подарков",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "список подарков",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "category", Usage: "показать только подарки с этим названием"},
				},
				Action: func(c *cli.Context) error {
					all, err := a.dash.Gifts(c.Context)
					if err != nil {
						return err
					}
					gifts := service.InCategory(all, c.String("category"))
					return a.show(gifts, func(w *tabwriter.Writer) {
						row(w, "ID", "Название", "Цена", "Остаток", "Фото")
						for _, g := range gifts {
							row(w, g.ID, g.Name, g.PriceCoins, g.Stock, len(g.PhotoIDs))
						}
					})
				},
			},
			{
				Name:      "show",
				Usage:     "показать подарок",
				ArgsUsage: "ID",
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0, "ID")
					if err != nil {
						return err
					}
					p, err := a.dash.Gift(c.Context, id)
					if err != nil {
						return err
					}
					return a.printPresent(p)
				},
			},
			{
				Name:  "create",
				Usage: "создать подарок",
				Flags: giftFlags(true),
				Action: func(c *cli.Context) error {
					photos, err := readPhotos(c.StringSlice("photo"))
					if err != nil {
						return err
					}
					p, err := a.dash.CreateGift(c.Context, giftForm(c), photos)
					if err != nil {
						return err
					}
					return a.printPresent(p)
				},
			},
			{
				Name:      "update",
				Usage:     "изменить подарок; новые фотографии добавляются к существующим",
				ArgsUsage: "ID",
				Flags:     giftFlags(false),
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0, "ID")
					if err != nil {
						return err
					}
					current, err := a.dash.Gift(c.Context, id)
					if err != nil {
						return err
					}
					form := validation.GiftForm{Name: current.Name, PriceCoins: current.PriceCoins, Stock: current.Stock}
					if c.IsSet("name") {
						form.Name = c.String("name")
					}
					if c.IsSet("price") {
						form.PriceCoins = c.Int("price")
					}
					if c.IsSet("stock") {
						form.Stock = c.Int("stock")
					}

					photos, err := readPhotos(c.StringSlice("photo"))
					if err != nil {
						return err
					}
					p, err := a.dash.UpdateGift(c.Context, id, form, photos)
					if err != nil {
						return err
					}
					return a.printPresent(p)
				},
			},
			{
				Name:      "delete",
				Usage:     "удалить подарок",
				ArgsUsage: "ID",
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0, "ID")
					if err != nil {
						return err
					}
					if err := a.dash.DeleteGift(c.Context, id); err != nil {
						return err
					}
					fmt.Fprintf(stdout, "Подарок %d удалён\n", id)
					return nil
				},
			},
			{
				Name:      "add-photos",
				Usage:     "добавить фотографии",
				ArgsUsage: "ID",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "photo", Required: true, Usage: "путь к фотографии, можно повторять"},
				},
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0, "ID")
					if err != nil {
						return err
					}
					photos, err := readPhotos(c.StringSlice("photo"))
					if err != nil {
						return err
					}
					p, err := a.dash.AddGiftPhotos(c.Context, id, photos)
					if err != nil {
						return err
					}
					return a.printPresent(p)
				},
			},
			{
				Name:      "delete-photo",
				Usage:     "удалить фотографию",
				ArgsUsage: "ID PHOTO_ID",
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0, "ID")
					if err != nil {
						return err
					}
					photoID, err := idArg(c, 1, "PHOTO_ID")
					if err != nil {
						return err
					}
					if err := a.dash.DeleteGiftPhoto(c.Context, id, photoID); err != nil {
						return err
					}
					fmt.Fprintf(stdout, "Фотография %d удалена\n", photoID)
					return nil
				},
			},
			{
				Name:      "photo",
				Usage:     "скачать фотографии подарка; без PHOTO_ID скачиваются все",
				ArgsUsage: "ID [PHOTO_ID]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir", Value: ".", Usage: "каталог для сохранения"},
				},
				Action: a.downloadPhotos,
			},
			{
				Name:  "categories",
				Usage: "названия подарков",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "suggest", Usage: "оставить названия, содержащие строку"},
				},
				Action: func(c *cli.Context) error {
					all, err := a.dash.Gifts(c.Context)
					if err != nil {
						return err
					}
					cats := service.Categories(all)
					if c.IsSet("suggest") {
						cats = service.Suggestions(cats, c.String("suggest"))
					}
					return a.show(cats, func(w *tabwriter.Writer) {
						for _, name := range cats {
							row(w, name)
						}
					})
				},
			},
		},
	}
}

func (a *app) downloadPhotos(c *cli.Context) error {
	id, err := idArg(c, 0, "ID")
	if err != nil {
		return err
	}

	var keys []photocache.Key
	if c.Args().Len() > 1 {
		photoID, err := idArg(c, 1, "PHOTO_ID")
		if err != nil {
			return err
		}
		keys = append(keys, photocache.Key{PresentID: id, PhotoID: photoID})
	} else {
		p, err := a.dash.Gift(c.Context, id)
		if err != nil {
			return err
		}
		for _, photoID := range p.PhotoIDs() {
			keys = append(keys, photocache.Key{PresentID: id, PhotoID: photoID})
		}
	}

	urlFor := a.client.Presents().PhotoURL
	return photocache.Scoped(a.client.HTTPClient(), a.client.Session(), urlFor, a.logger, func(view *photocache.Cache) error {
		view.Prefetch(c.Context, keys)
		for _, key := range keys {
			h, err := view.Get(c.Context, key)
			if err != nil {
				return err
			}
			if h == nil {
				fmt.Fprintf(stdout, "%s: %s\n", key, errNoPhoto)
				continue
			}

			ext := ".bin"
			if m := mimetype.Detect(h.Bytes()); m.Extension() != "" {
				ext = m.Extension()
			}
			name := c.String("dir") + string(os.PathSeparator) +
				strconv.FormatInt(key.PresentID, 10) + "-" + strconv.FormatInt(key.PhotoID, 10) + ext
			if err := os.WriteFile(name, h.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write photo: %w", err)
			}
			fmt.Fprintf(stdout, "%s: %s, %d байт\n", name, h.ContentType(), h.Size())
		}
		return nil
	})
}
