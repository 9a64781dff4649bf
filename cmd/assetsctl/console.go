package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dootask/assetsctl/internal/api"
	"github.com/dootask/assetsctl/internal/config"
	"github.com/dootask/assetsctl/internal/console"
	"github.com/dootask/assetsctl/internal/settings"
)

// consoleApp bundles the client and interaction helpers every command needs.
type consoleApp struct {
	settings  *settings.Service
	client    *api.Client
	notifier  *console.TerminalNotifier
	confirmer *console.TerminalConfirmer
}

// newConsole resolves settings from the config file and flag/env overrides
// and wires the API client.
func newConsole(c *cli.Context) (*consoleApp, error) {
	file, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	snap := settings.Resolve(file, settings.Snapshot{
		ServerURL: c.String("server"),
		Token:     c.String("token"),
		PageSize:  c.Int("page-size"),
		LogLevel:  c.String("log-level"),
	})

	return &consoleApp{
		settings:  settings.NewService(snap),
		client:    api.New(snap.ServerURL, snap.Token),
		notifier:  &console.TerminalNotifier{Out: os.Stdout},
		confirmer: &console.TerminalConfirmer{In: os.Stdin, Out: os.Stdout},
	}, nil
}

// fromContext retrieves the consoleApp wired by the Before hook.
func fromContext(c *cli.Context) *consoleApp {
	return c.App.Metadata["console"].(*consoleApp)
}

// listFlags are shared by every list command.
func listFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "page", Value: 1, Usage: "Page to fetch"},
		&cli.StringFlag{Name: "sorts", Usage: "Sort keys, comma separated, '-' prefix for descending"},
		&cli.StringFlag{Name: "keyword", Aliases: []string{"k"}, Usage: "Keyword filter applied to the fetched page"},
	}
}

// applyListFlags configures a controller from the shared list flags.
func applyListFlags[T any](c *cli.Context, l *console.ListController[T]) {
	l.SetPage(c.Int("page"))
	l.SetKeyword(c.String("keyword"))
	l.SetSorts(parseSorts(c.String("sorts")))
}

// parseSorts turns "-created_at,name" into sort structs.
func parseSorts(raw string) []api.Sort {
	var sorts []api.Sort
	for _, key := range strings.Split(raw, ",") {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if strings.HasPrefix(key, "-") {
			sorts = append(sorts, api.Sort{Key: key[1:], Desc: true})
		} else {
			sorts = append(sorts, api.Sort{Key: key})
		}
	}
	return sorts
}

// renderTable prints an aligned table to stdout.
func renderTable(out io.Writer, header []string, rows [][]string) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}

// renderFooter prints the server-reported totals under a listing.
func renderFooter[T any](out io.Writer, l *console.ListController[T]) {
	if l.Paginated() {
		p := l.Pagination()
		fmt.Fprintf(out, "total %d, page %d of %d\n", l.Total(), p.CurrentPage, p.TotalPages)
		return
	}
	fmt.Fprintf(out, "total %d\n", l.Total())
}

// argID parses the required positional id argument.
func argID(c *cli.Context) (int64, error) {
	raw := c.Args().First()
	if raw == "" {
		return 0, fmt.Errorf("id argument is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func fmtTimePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return fmtTime(*t)
}

func fmtDatePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}
