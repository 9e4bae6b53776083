package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v2"

	"github.com/mmeshcher/coins-admin/internal/service"
)

var stdout io.Writer = os.Stdout

// show печатает v в JSON либо вызывает table для табличного вывода.
func (a *app) show(v any, table func(w *tabwriter.Writer)) error {
	if a.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	table(tw)
	return tw.Flush()
}

// empty сообщает об успешном ответе без тела. В режиме JSON печатается null.
func (a *app) empty(isNil bool) bool {
	if !isNil {
		return false
	}
	if a.asJSON {
		fmt.Fprintln(stdout, "null")
	} else {
		fmt.Fprintf(stdout, "Выполнено. %s\n", service.Message(service.ErrEmptyResponse))
	}
	return true
}

func row(w io.Writer, cols ...any) {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(w, strings.Join(parts, "\t"))
}

func idArg(c *cli.Context, pos int, name string) (int64, error) {
	s := c.Args().Get(pos)
	if s == "" {
		return 0, fmt.Errorf("не указан аргумент %s", name)
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("некорректный %s %q", name, s)
	}
	return id, nil
}

func coins(v *int64) string {
	if v == nil {
		return "0"
	}
	return strconv.FormatInt(*v, 10)
}
