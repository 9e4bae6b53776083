package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/mmeshcher/coins-admin/internal/model"
	"github.com/mmeshcher/coins-admin/internal/report"
	"github.com/mmeshcher/coins-admin/internal/service"
)

func historyFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "from", Usage: "начало периода, ГГГГ-ММ-ДД или ДД.ММ.ГГГГ"},
		&cli.StringFlag{Name: "to", Usage: "конец периода включительно"},
		&cli.StringFlag{Name: "teacher", Usage: "кто начислил"},
		&cli.StringFlag{Name: "group", Usage: "группа"},
		&cli.StringFlag{Name: "student", Usage: "кому начислено"},
	}
}

func historyFilter(c *cli.Context) (service.HistoryFilter, error) {
	f := service.HistoryFilter{
		Teacher: c.String("teacher"),
		Group:   c.String("group"),
		Student: c.String("student"),
	}
	var err error
	if s := c.String("from"); s != "" {
		if f.From, err = model.ParseDate(s); err != nil {
			return f, fmt.Errorf("некорректная дата --from %q", s)
		}
	}
	if s := c.String("to"); s != "" {
		if f.To, err = model.ParseDate(s); err != nil {
			return f, fmt.Errorf("некорректная дата --to %q", s)
		}
	}
	return f, nil
}

func (a *app) historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "журнал начислений монет",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "показать журнал",
				Flags: historyFlags(),
				Action: func(c *cli.Context) error {
					filter, err := historyFilter(c)
					if err != nil {
						return err
					}
					view, err := a.dash.History(c.Context, filter)
					if err != nil {
						return err
					}
					return a.show(view, func(w *tabwriter.Writer) {
						row(w, "Дата", "Начислил", "Группа", "Ученик", "Монеты", "Причина")
						for _, r := range view.Records {
							row(w, r.DateText(), r.Teacher, r.Group, r.Student, r.Coins, r.Reason)
						}
						row(w, "Итого", "", "", "", view.Total, "")
					})
				},
			},
			{
				Name:  "filters",
				Usage: "значения, доступные для фильтров",
				Action: func(c *cli.Context) error {
					view, err := a.dash.History(c.Context, service.HistoryFilter{})
					if err != nil {
						return err
					}
					return a.show(view, func(w *tabwriter.Writer) {
						row(w, "Начислили", fmt.Sprint(view.Teachers))
						row(w, "Группы", fmt.Sprint(view.Groups))
						row(w, "Ученики", fmt.Sprint(view.Students))
					})
				},
			},
			{
				Name:  "export",
				Usage: "выгрузить журнал в XLSX",
				Flags: append(historyFlags(),
					&cli.StringFlag{Name: "out", Value: "history.xlsx", Aliases: []string{"o"}}),
				Action: func(c *cli.Context) error {
					filter, err := historyFilter(c)
					if err != nil {
						return err
					}
					view, err := a.dash.History(c.Context, filter)
					if err != nil {
						return err
					}
					f, err := report.History(view.Records)
					if err != nil {
						return err
					}
					if err := report.Save(f, c.String("out")); err != nil {
						return err
					}
					fmt.Fprintf(stdout, "Сохранено %d записей в %s\n", len(view.Records), c.String("out"))
					return nil
				},
			},
		},
	}
}
