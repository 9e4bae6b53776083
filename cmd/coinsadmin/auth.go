package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
)

func (a *app) loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "войти под учётной записью администратора",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "пароль; без флага читается из stdin",
				EnvVars: []string{"COINS_PASSWORD"},
			},
		},
		Action: func(c *cli.Context) error {
			password := c.String("password")
			if password == "" {
				fmt.Fprint(os.Stderr, "Пароль: ")
				line, err := bufio.NewReader(os.Stdin).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimSpace(line)
			}

			me, err := a.dash.Login(c.Context, password)
			if err != nil {
				return err
			}
			if me == nil {
				fmt.Fprintln(stdout, "Вход выполнен")
				return nil
			}
			fmt.Fprintf(stdout, "Вход выполнен: %s\n", me.DisplayName())
			return nil
		},
	}
}

func (a *app) logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "удалить сохранённые учётные данные",
		Action: func(c *cli.Context) error {
			if err := a.dash.Logout(c.Context); err != nil {
				return err
			}
			fmt.Fprintln(stdout, "Выход выполнен")
			return nil
		},
	}
}

func (a *app) whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "показать текущего пользователя",
		Action: func(c *cli.Context) error {
			me, err := a.dash.Me(c.Context)
			if err != nil {
				return err
			}
			return a.printUser(me)
		},
	}
}
