package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/mmeshcher/coins-admin/internal/api"
	"github.com/mmeshcher/coins-admin/internal/service"
)

func (a *app) printGroup(g *service.GroupView) error {
	if a.empty(g == nil) {
		return nil
	}
	return a.show(g, func(w *tabwriter.Writer) {
		row(w, "ID", g.ID)
		row(w, "Название", g.Name)
		row(w, "Преподаватель", g.Teacher)
		row(w, "Участники", len(g.Participants))
		for i, p := range g.Participants {
			row(w, fmt.Sprintf("  %d.", i+1), p.FullName, p.Login)
		}
	})
}

func (a *app) printReport(report *api.MembershipReport) error {
	if report == nil || len(report.Outcomes) == 0 {
		return nil
	}
	for _, o := range report.Succeeded() {
		fmt.Fprintf(stdout, "ученик %d %s\n", o.StudentID, doneName(o.Op))
	}
	for _, o := range report.Failed() {
		fmt.Fprintf(stdout, "не удалось %s ученика %d: %s\n", failedName(o.Op), o.StudentID, service.Message(o.Err))
	}
	return report.Err()
}

func doneName(op api.MembershipOp) string {
	if op == api.OpAdd {
		return "добавлен"
	}
	return "исключён"
}

func failedName(op api.MembershipOp) string {
	if op == api.OpAdd {
		return "добавить"
	}
	return "исключить"
}

func (a *app) groupsCommand() *cli.Command {
	return &cli.Command{
		Name:  "groups",
		Usage: "учебные группы",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "список групп",
				Action: func(c *cli.Context) error {
					groups, err := a.dash.Groups(c.Context)
					if err != nil {
						return err
					}
					return a.show(groups, func(w *tabwriter.Writer) {
						row(w, "ID", "Название", "Преподаватель", "Участники")
						for _, g := range groups {
							row(w, g.ID, g.Name, g.Teacher, len(g.Participants))
						}
					})
				},
			},
			{
				Name:      "show",
				Usage:     "состав группы",
				ArgsUsage: "ID",
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0, "ID")
					if err != nil {
						return err
					}
					g, err := a.dash.Group(c.Context, id)
					if err != nil {
						return err
					}
					return a.printGroup(g)
				},
			},
			{
				Name:  "create",
				Usage: "создать группу",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.Int64Flag{Name: "teacher", Required: true, Usage: "ID преподавателя"},
					&cli.Int64SliceFlag{Name: "student", Usage: "ID ученика, можно повторять"},
				},
				Action: func(c *cli.Context) error {
					g, report, err := a.dash.CreateGroup(c.Context, c.String("name"), c.Int64("teacher"), c.Int64Slice("student"))
					if err != nil {
						return err
					}
					fmt.Fprintf(stdout, "Группа %q создана (ID %d)\n", g.Name, derefID(g.ID))
					return a.printReport(report)
				},
			},
			{
				Name:      "rename",
				Usage:     "переименовать группу",
				ArgsUsage: "ID",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
				},
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0, "ID")
					if err != nil {
						return err
					}
					if err := a.dash.RenameGroup(c.Context, id, c.String("name")); err != nil {
						return err
					}
					fmt.Fprintln(stdout, "Группа переименована")
					return nil
				},
			},
			{
				Name:      "delete",
				Usage:     "удалить группу",
				ArgsUsage: "ID",
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0, "ID")
					if err != nil {
						return err
					}
					if err := a.dash.DeleteGroup(c.Context, id); err != nil {
						return err
					}
					fmt.Fprintf(stdout, "Группа %d удалена\n", id)
					return nil
				},
			},
			{
				Name:      "members",
				Usage:     "задать состав группы; без --student группа очищается",
				ArgsUsage: "ID",
				Flags: []cli.Flag{
					&cli.Int64SliceFlag{Name: "student", Usage: "ID ученика, можно повторять"},
					&cli.Int64Flag{Name: "teacher", Usage: "новый преподаватель; по умолчанию текущий"},
					&cli.StringFlag{Name: "name", Usage: "новое название; по умолчанию текущее"},
				},
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0, "ID")
					if err != nil {
						return err
					}
					current, err := a.dash.Group(c.Context, id)
					if err != nil {
						return err
					}

					name, teacher := current.Name, current.TeacherID
					if c.IsSet("name") {
						name = c.String("name")
					}
					if c.IsSet("teacher") {
						teacher = c.Int64("teacher")
					}

					report, err := a.dash.EditGroup(c.Context, id, name, teacher, c.Int64Slice("student"))
					if err != nil {
						return err
					}
					return a.printReport(report)
				},
			},
		},
	}
}

func derefID(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
