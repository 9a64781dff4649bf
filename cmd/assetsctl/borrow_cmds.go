package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dootask/assetsctl/internal/api"
	"github.com/dootask/assetsctl/internal/console"
	"github.com/dootask/assetsctl/internal/domain"
)

func borrowCommand() *cli.Command {
	return &cli.Command{
		Name:  "borrow",
		Usage: "Manage asset borrow records",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List borrow records",
				Flags: append(listFlags(),
					&cli.StringFlag{Name: "status", Usage: "Server-side status filter (borrowed, returned, overdue)"},
				),
				Action: runBorrowList,
			},
			{
				Name:  "create",
				Usage: "Lend an asset out",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "asset", Required: true, Usage: "Asset id"},
					&cli.StringFlag{Name: "borrower", Required: true},
					&cli.StringFlag{Name: "department"},
					&cli.StringFlag{Name: "due", Usage: "Due date, YYYY-MM-DD"},
					&cli.StringFlag{Name: "remark"},
				},
				Action: runBorrowCreate,
			},
			{
				Name:      "return",
				Usage:     "Return a borrowed asset",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "remark"},
				},
				Action: runBorrowReturn,
			},
		},
	}
}

func newBorrowList(app *consoleApp) *console.ListController[domain.BorrowRecord] {
	return console.NewListController(
		app.client.Borrows.List,
		func(b domain.BorrowRecord, kw string) bool {
			kw = strings.ToLower(kw)
			return strings.Contains(strings.ToLower(b.Borrower), kw) ||
				strings.Contains(strings.ToLower(b.AssetName), kw)
		},
		app.settings.Current().PageSize,
	)
}

var borrowHeader = []string{"ID", "ASSET", "BORROWER", "DEPT", "STATUS", "BORROWED", "DUE", "RETURNED"}

func borrowRows(records []domain.BorrowRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for i := range records {
		b := &records[i]
		rows = append(rows, []string{
			fmt.Sprintf("%d", b.ID),
			b.AssetName,
			b.Borrower,
			b.Department,
			b.Status.Label(),
			fmtTime(b.BorrowedAt),
			fmtTimePtr(b.DueAt),
			fmtTimePtr(b.ReturnedAt),
		})
	}
	return rows
}

func runBorrowList(c *cli.Context) error {
	app := fromContext(c)
	list := newBorrowList(app)
	applyListFlags(c, list)
	if status := c.String("status"); status != "" {
		list.SetServerFilter("status", status)
	}

	if err := list.Load(c.Context); err != nil {
		return err
	}
	renderTable(os.Stdout, borrowHeader, borrowRows(list.Visible()))
	renderFooter(os.Stdout, list)
	return nil
}

func runBorrowCreate(c *cli.Context) error {
	app := fromContext(c)
	req := api.CreateBorrowRequest{
		AssetID:    c.Int64("asset"),
		Borrower:   c.String("borrower"),
		Department: c.String("department"),
		Remark:     c.String("remark"),
	}
	if raw := c.String("due"); raw != "" {
		due, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fmt.Errorf("invalid due date %q: %w", raw, err)
		}
		req.DueAt = &due
	}

	record, err := app.client.Borrows.Create(c.Context, req)
	if err != nil {
		app.notifier.Error(err.Error())
		return err
	}
	app.notifier.Success(fmt.Sprintf("%s lent to %s (record %d)", record.AssetName, record.Borrower, record.ID))
	return nil
}

func runBorrowReturn(c *cli.Context) error {
	id, err := argID(c)
	if err != nil {
		return err
	}
	app := fromContext(c)

	record, err := app.client.Borrows.Return(c.Context, id, api.ReturnBorrowRequest{
		Remark: c.String("remark"),
	})
	if err != nil {
		app.notifier.Error(err.Error())
		return err
	}
	app.notifier.Success(fmt.Sprintf("%s returned by %s", record.AssetName, record.Borrower))
	return nil
}
