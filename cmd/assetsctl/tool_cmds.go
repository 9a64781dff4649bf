package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dootask/assetsctl/internal/api"
	"github.com/dootask/assetsctl/internal/console"
	"github.com/dootask/assetsctl/internal/domain"
)

func toolCommand() *cli.Command {
	return &cli.Command{
		Name:  "tool",
		Usage: "Manage MCP tools",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List tools with call statistics",
				Flags: append(listFlags(),
					&cli.StringFlag{Name: "category", Usage: "Server-side category filter"},
				),
				Action: runToolList,
			},
			{
				Name:  "create",
				Usage: "Register a tool",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "category"},
					&cli.StringFlag{Name: "type", Usage: "Transport type, e.g. stdio or http"},
					&cli.StringSliceFlag{Name: "permission", Usage: "Granted permission, repeatable"},
				},
				Action: runToolCreate,
			},
			{
				Name:      "enable",
				Usage:     "Activate a tool",
				ArgsUsage: "<id>",
				Action:    func(c *cli.Context) error { return runToolToggle(c, true) },
			},
			{
				Name:      "disable",
				Usage:     "Deactivate a tool",
				ArgsUsage: "<id>",
				Action:    func(c *cli.Context) error { return runToolToggle(c, false) },
			},
			{
				Name:      "delete",
				Usage:     "Delete a tool after checking agent references",
				ArgsUsage: "<id>",
				Action:    runToolDelete,
			},
		},
	}
}

func newToolList(app *consoleApp) *console.ListController[domain.MCPTool] {
	return console.NewListController(
		app.client.Tools.List,
		func(t domain.MCPTool, kw string) bool {
			kw = strings.ToLower(kw)
			return strings.Contains(strings.ToLower(t.Name), kw) ||
				strings.Contains(strings.ToLower(t.Category), kw)
		},
		app.settings.Current().PageSize,
	)
}

var toolHeader = []string{"ID", "NAME", "CATEGORY", "TYPE", "ACTIVE", "CALLS", "SUCCESS"}

func toolRows(tools []domain.MCPTool) [][]string {
	rows := make([][]string, 0, len(tools))
	for i := range tools {
		t := &tools[i]
		rows = append(rows, []string{
			fmt.Sprintf("%d", t.ID),
			t.Name,
			t.Category,
			t.Type,
			yesNo(t.IsActive),
			fmt.Sprintf("%d", t.Statistics.CallCount),
			fmt.Sprintf("%.1f%%", t.Statistics.SuccessRate),
		})
	}
	return rows
}

func runToolList(c *cli.Context) error {
	app := fromContext(c)
	list := newToolList(app)
	applyListFlags(c, list)
	if category := c.String("category"); category != "" {
		list.SetServerFilter("category", category)
	}

	if err := list.Load(c.Context); err != nil {
		return err
	}
	renderTable(os.Stdout, toolHeader, toolRows(list.Visible()))
	renderFooter(os.Stdout, list)
	return nil
}

func runToolCreate(c *cli.Context) error {
	app := fromContext(c)
	tool, err := app.client.Tools.Create(c.Context, api.CreateToolRequest{
		Name:        c.String("name"),
		Category:    c.String("category"),
		Type:        c.String("type"),
		Permissions: c.StringSlice("permission"),
	})
	if err != nil {
		app.notifier.Error(err.Error())
		return err
	}
	app.notifier.Success(fmt.Sprintf("tool %q created with id %d", tool.Name, tool.ID))
	return nil
}

func runToolToggle(c *cli.Context, active bool) error {
	id, err := argID(c)
	if err != nil {
		return err
	}
	app := fromContext(c)

	list := newToolList(app)
	if err := list.Load(c.Context); err != nil {
		return err
	}

	mutator := console.NewMutator(func(t domain.MCPTool) int64 { return t.ID }, app.notifier)
	err = mutator.Toggle(c.Context, list.Items(), id,
		func(t *domain.MCPTool, v bool) { t.IsActive = v },
		active,
		func(ctx context.Context) (*domain.MCPTool, error) {
			return app.client.Tools.Update(ctx, id, api.UpdateToolRequest{IsActive: &active})
		},
	)
	if err != nil {
		return err
	}

	renderTable(os.Stdout, toolHeader, toolRows(list.Items()))
	app.notifier.Success(fmt.Sprintf("tool %d active=%s", id, yesNo(active)))
	return nil
}

func runToolDelete(c *cli.Context) error {
	id, err := argID(c)
	if err != nil {
		return err
	}
	app := fromContext(c)

	tool, err := app.client.Tools.Get(c.Context, id)
	if err != nil {
		return err
	}

	guard := console.NewReferenceGuard(app.client.Agents.All, app.confirmer, app.notifier)
	outcome, err := guard.Delete(c.Context, domain.ReferenceTool, id,
		fmt.Sprintf("tool %q", tool.Name),
		func(ctx context.Context) error { return app.client.Tools.Delete(ctx, id) },
	)
	if err != nil {
		return err
	}
	if !outcome.Deleted {
		fmt.Println("cancelled")
	}
	return nil
}
