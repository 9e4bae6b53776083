package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/mmeshcher/coins-admin/internal/model"
)

func (a *app) printUser(u *model.User) error {
	if a.empty(u == nil) {
		return nil
	}
	return a.show(u, func(w *tabwriter.Writer) {
		row(w, "ID", u.UserID())
		row(w, "Логин", u.Login)
		row(w, "Роль", u.Role)
		row(w, "ФИО", u.DisplayName())
		row(w, "Email", u.Email)
		row(w, "Дата рождения", model.FormatDate(u.DateOfBirth))
		row(w, "Монеты", coins(u.Coins))
	})
}

func (a *app) usersCommand() *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "пользователи и монеты",
		Subcommands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "показать пользователя",
				ArgsUsage: "ID",
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0, "ID")
					if err != nil {
						return err
					}
					u, err := a.dash.User(c.Context, id)
					if err != nil {
						return err
					}
					return a.printUser(u)
				},
			},
			{
				Name:  "create",
				Usage: "создать пользователя",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "login", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.StringFlag{Name: "role", Value: string(model.RoleStudent), Usage: "ADMIN, TEACHER или STUDENT"},
					&cli.StringFlag{Name: "first-name", Required: true},
					&cli.StringFlag{Name: "last-name", Required: true},
					&cli.StringFlag{Name: "middle-name"},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "birth-date", Required: true, Usage: "ГГГГ-ММ-ДД"},
				},
				Action: func(c *cli.Context) error {
					u, err := a.dash.CreateUser(c.Context, model.User{
						Login:       c.String("login"),
						Password:    c.String("password"),
						Role:        model.Role(c.String("role")),
						FirstName:   c.String("first-name"),
						LastName:    c.String("last-name"),
						MiddleName:  c.String("middle-name"),
						Email:       c.String("email"),
						DateOfBirth: c.String("birth-date"),
					})
					if err != nil {
						return err
					}
					return a.printUser(u)
				},
			},
			{
				Name:      "delete",
				Usage:     "удалить пользователя",
				ArgsUsage: "ID",
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0, "ID")
					if err != nil {
						return err
					}
					if err := a.dash.DeleteUser(c.Context, id); err != nil {
						return err
					}
					fmt.Fprintf(stdout, "Пользователь %d удалён\n", id)
					return nil
				},
			},
			{
				Name:      "coins",
				Usage:     "начислить или списать монеты",
				ArgsUsage: "ID",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "amount", Required: true, Usage: "положительное число начисляет, отрицательное списывает"},
					&cli.StringFlag{Name: "reason"},
				},
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0, "ID")
					if err != nil {
						return err
					}
					u, err := a.dash.AdjustCoins(c.Context, id, c.Int64("amount"), c.String("reason"))
					if err != nil {
						return err
					}
					return a.printUser(u)
				},
			},
			{
				Name:  "teachers",
				Usage: "список преподавателей",
				Action: func(c *cli.Context) error {
					teachers, err := a.dash.Teachers(c.Context)
					if err != nil {
						return err
					}
					return a.show(teachers, func(w *tabwriter.Writer) {
						row(w, "ID", "ФИО", "Логин")
						for _, t := range teachers {
							row(w, t.ID, t.FullName, t.Login)
						}
					})
				},
			},
			{
				Name:  "students",
				Usage: "список учеников",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "search", Usage: "часть ФИО, не короче 3 символов"},
				},
				Action: func(c *cli.Context) error {
					var (
						students []model.StudentSummary
						err      error
					)
					if q := c.String("search"); q != "" {
						students, err = a.dash.FindStudents(c.Context, q, nil)
					} else {
						students, err = a.dash.Students(c.Context)
					}
					if err != nil {
						return err
					}
					return a.show(students, func(w *tabwriter.Writer) {
						row(w, "ID", "ФИО", "Логин", "Монеты")
						for _, s := range students {
							row(w, s.ID, s.FullName, s.Login, s.Coins.Value)
						}
					})
				},
			},
		},
	}
}
