// Package main — консольная панель администратора программы школьных монет.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/mmeshcher/coins-admin/internal/api"
	"github.com/mmeshcher/coins-admin/internal/config"
	"github.com/mmeshcher/coins-admin/internal/service"
	"github.com/mmeshcher/coins-admin/internal/session"
)

// app хранит зависимости, созданные в Before и общие для всех команд.
type app struct {
	logger *zap.Logger
	store  *session.BoltStore
	client *api.Client
	dash   *service.Dashboard
	asJSON bool
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	a := &app{logger: zap.NewNop()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := a.cli().RunContext(ctx, os.Args)
	if err != nil {
		a.logger.Debug("command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, service.Message(err))
	}
	a.close()
	if err != nil {
		os.Exit(1)
	}
}

func (a *app) cli() *cli.App {
	return &cli.App{
		Name:  "coinsadmin",
		Usage: "панель администратора программы школьных монет",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Value:   config.DefaultAPIURL,
				Usage:   "базовый адрес API",
				EnvVars: []string{"COINS_API_URL"},
			},
			&cli.StringFlag{
				Name:    "session",
				Value:   config.DefaultSessionFile(),
				Usage:   "файл сессии",
				EnvVars: []string{"COINS_SESSION_FILE"},
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Value:   config.DefaultTimeout,
				Usage:   "таймаут запроса",
				EnvVars: []string{"COINS_TIMEOUT"},
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "подробный журнал запросов",
				EnvVars: []string{"COINS_DEBUG"},
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "вывод в формате JSON",
			},
		},
		Before: a.setup,
		Commands: []*cli.Command{
			a.loginCommand(),
			a.logoutCommand(),
			a.whoamiCommand(),
			a.usersCommand(),
			a.groupsCommand(),
			a.giftsCommand(),
			a.ordersCommand(),
			a.historyCommand(),
		},
	}
}

func (a *app) setup(c *cli.Context) error {
	if c.Bool("debug") {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		a.logger = logger
	}
	a.asJSON = c.Bool("json")

	store, err := session.OpenBoltStore(c.String("session"))
	if err != nil {
		return err
	}
	a.store = store

	sess := session.New(store, a.logger)
	a.client = api.NewClient(c.String("api-url"), sess,
		api.WithLogger(a.logger),
		api.WithTimeout(c.Duration("timeout")),
	)
	a.dash = service.FromClient(a.client, a.logger)

	a.logger.Debug("configured", zap.String("api", a.client.BaseURL()), zap.String("session", c.String("session")))
	return nil
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("close session store", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
