package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/mmeshcher/coins-admin/internal/model"
	"github.com/mmeshcher/coins-admin/internal/report"
	"github.com/mmeshcher/coins-admin/internal/service"
)

func (a *app) printOrder(o *model.Order) error {
	if a.empty(o == nil) {
		return nil
	}
	return a.show(o, func(w *tabwriter.Writer) {
		row(w, "ID", o.ID)
		row(w, "Подарок", o.PresentID)
		row(w, "Заказчик", o.Customer.DisplayName())
		row(w, "Статус", service.StatusName(o.Status))
		row(w, "Дата", model.FormatDate(o.Date))
	})
}

func parseTab(s string) (service.OrderTab, error) {
	switch tab := service.OrderTab(s); tab {
	case service.TabActive, service.TabCompleted:
		return tab, nil
	}
	return "", fmt.Errorf("неизвестная вкладка %q: ожидается active или completed", s)
}

func (a *app) transition(next model.OrderStatus, done string) cli.ActionFunc {
	return func(c *cli.Context) error {
		id, err := idArg(c, 0, "ID")
		if err != nil {
			return err
		}
		o, err := a.dash.ChangeOrderStatus(c.Context, id, next)
		if err != nil {
			return err
		}
		if a.asJSON {
			return a.printOrder(o)
		}
		fmt.Fprintf(stdout, "Заказ %d %s\n", id, done)
		return nil
	}
}

func (a *app) ordersCommand() *cli.Command {
	tabFlag := &cli.StringFlag{Name: "tab", Value: string(service.TabActive), Usage: "active или completed"}
	searchFlag := &cli.StringFlag{Name: "search", Usage: "поиск по названию подарка или заказчику"}

	return &cli.Command{
		Name:  "orders",
		Usage: "заказы подарков",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "список заказов",
				Flags: []cli.Flag{tabFlag, searchFlag},
				Action: func(c *cli.Context) error {
					tab, err := parseTab(c.String("tab"))
					if err != nil {
						return err
					}
					rows, err := a.dash.Orders(c.Context, tab, c.String("search"))
					if err != nil {
						return err
					}
					return a.show(rows, func(w *tabwriter.Writer) {
						row(w, "ID", "Подарок", "Заказчик", "Дата", "Статус")
						for _, r := range rows {
							row(w, r.ID, r.GiftName, r.Customer, r.DateText(), r.StatusText())
						}
					})
				},
			},
			{
				Name:      "show",
				Usage:     "показать заказ",
				ArgsUsage: "ID",
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0, "ID")
					if err != nil {
						return err
					}
					o, err := a.dash.Order(c.Context, id)
					if err != nil {
						return err
					}
					return a.printOrder(o)
				},
			},
			{
				Name:      "create",
				Usage:     "заказать подарок от имени текущего пользователя",
				ArgsUsage: "PRESENT_ID",
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0, "PRESENT_ID")
					if err != nil {
						return err
					}
					o, err := a.dash.PlaceOrder(c.Context, id)
					if err != nil {
						return err
					}
					return a.printOrder(o)
				},
			},
			{
				Name:      "confirm",
				Usage:     "подтвердить заказ",
				ArgsUsage: "ID",
				Action:    a.transition(model.OrderStatusConfirmed, "подтверждён"),
			},
			{
				Name:      "issue",
				Usage:     "отметить заказ выданным",
				ArgsUsage: "ID",
				Action:    a.transition(model.OrderStatusIssued, "выдан"),
			},
			{
				Name:      "cancel",
				Usage:     "отменить заказ",
				ArgsUsage: "ID",
				Action:    a.transition(model.OrderStatusCancelled, "отменён"),
			},
			{
				Name:  "export",
				Usage: "выгрузить заказы в XLSX",
				Flags: []cli.Flag{
					tabFlag,
					searchFlag,
					&cli.StringFlag{Name: "out", Value: "orders.xlsx", Aliases: []string{"o"}},
				},
				Action: func(c *cli.Context) error {
					tab, err := parseTab(c.String("tab"))
					if err != nil {
						return err
					}
					rows, err := a.dash.Orders(c.Context, tab, c.String("search"))
					if err != nil {
						return err
					}
					f, err := report.Orders(rows)
					if err != nil {
						return err
					}
					if err := report.Save(f, c.String("out")); err != nil {
						return err
					}
					fmt.Fprintf(stdout, "Сохранено %d заказов в %s\n", len(rows), c.String("out"))
					return nil
				},
			},
		},
	}
}
