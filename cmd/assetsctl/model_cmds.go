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

func modelCommand() *cli.Command {
	return &cli.Command{
		Name:  "model",
		Usage: "Manage AI model configurations",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List models",
				Flags: append(listFlags(),
					&cli.StringFlag{Name: "provider", Usage: "Server-side provider filter"},
				),
				Action: runModelList,
			},
			{
				Name:  "create",
				Usage: "Add a model configuration",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "provider", Required: true},
					&cli.StringFlag{Name: "name", Required: true, Usage: "Model name, e.g. gpt-4o"},
					&cli.StringFlag{Name: "api-key"},
					&cli.StringFlag{Name: "base-url"},
					&cli.BoolFlag{Name: "enabled", Value: true},
				},
				Action: runModelCreate,
			},
			{
				Name:      "enable",
				Usage:     "Enable a model",
				ArgsUsage: "<id>",
				Action:    func(c *cli.Context) error { return runModelToggle(c, true) },
			},
			{
				Name:      "disable",
				Usage:     "Disable a model",
				ArgsUsage: "<id>",
				Action:    func(c *cli.Context) error { return runModelToggle(c, false) },
			},
			{
				Name:      "set-default",
				Usage:     "Make a model the default; clears the flag on all others",
				ArgsUsage: "<id>",
				Action:    runModelSetDefault,
			},
			{
				Name:      "delete",
				Usage:     "Delete a model after checking agent references",
				ArgsUsage: "<id>",
				Action:    runModelDelete,
			},
		},
	}
}

func newModelList(app *consoleApp) *console.ListController[domain.AIModel] {
	return console.NewListController(
		app.client.Models.List,
		func(m domain.AIModel, kw string) bool {
			return strings.Contains(strings.ToLower(m.DisplayName()), strings.ToLower(kw))
		},
		app.settings.Current().PageSize,
	)
}

var modelHeader = []string{"ID", "MODEL", "ENABLED", "DEFAULT", "CREATED"}

func modelRows(models []domain.AIModel) [][]string {
	rows := make([][]string, 0, len(models))
	for i := range models {
		m := &models[i]
		rows = append(rows, []string{
			fmt.Sprintf("%d", m.ID),
			m.DisplayName(),
			yesNo(m.IsEnabled),
			yesNo(m.IsDefault),
			fmtTime(m.CreatedAt),
		})
	}
	return rows
}

func runModelList(c *cli.Context) error {
	app := fromContext(c)
	list := newModelList(app)
	applyListFlags(c, list)
	if provider := c.String("provider"); provider != "" {
		list.SetServerFilter("provider", provider)
	}

	if err := list.Load(c.Context); err != nil {
		return err
	}
	renderTable(os.Stdout, modelHeader, modelRows(list.Visible()))
	renderFooter(os.Stdout, list)
	return nil
}

func runModelCreate(c *cli.Context) error {
	app := fromContext(c)
	model, err := app.client.Models.Create(c.Context, api.CreateModelRequest{
		Provider:  c.String("provider"),
		ModelName: c.String("name"),
		APIKey:    c.String("api-key"),
		BaseURL:   c.String("base-url"),
		IsEnabled: c.Bool("enabled"),
	})
	if err != nil {
		app.notifier.Error(err.Error())
		return err
	}
	app.notifier.Success(fmt.Sprintf("model %s created with id %d", model.DisplayName(), model.ID))
	return nil
}

func runModelToggle(c *cli.Context, enabled bool) error {
	id, err := argID(c)
	if err != nil {
		return err
	}
	app := fromContext(c)

	list := newModelList(app)
	if err := list.Load(c.Context); err != nil {
		return err
	}

	mutator := console.NewMutator(func(m domain.AIModel) int64 { return m.ID }, app.notifier)
	err = mutator.Toggle(c.Context, list.Items(), id,
		func(m *domain.AIModel, v bool) { m.IsEnabled = v },
		enabled,
		func(ctx context.Context) (*domain.AIModel, error) {
			return app.client.Models.Update(ctx, id, api.UpdateModelRequest{IsEnabled: &enabled})
		},
	)
	if err != nil {
		return err
	}

	renderTable(os.Stdout, modelHeader, modelRows(list.Items()))
	app.notifier.Success(fmt.Sprintf("model %d enabled=%s", id, yesNo(enabled)))
	return nil
}

// runModelSetDefault clears the default flag on every cached model before the
// backend confirms, so the table never shows two defaults.
func runModelSetDefault(c *cli.Context) error {
	id, err := argID(c)
	if err != nil {
		return err
	}
	app := fromContext(c)

	list := newModelList(app)
	if err := list.Load(c.Context); err != nil {
		return err
	}

	isDefault := true
	mutator := console.NewMutator(func(m domain.AIModel) int64 { return m.ID }, app.notifier)
	err = console.SetDefaultModel(c.Context, mutator, list.Items(), id,
		func(ctx context.Context) (*domain.AIModel, error) {
			return app.client.Models.Update(ctx, id, api.UpdateModelRequest{IsDefault: &isDefault})
		},
	)
	if err != nil {
		return err
	}

	renderTable(os.Stdout, modelHeader, modelRows(list.Items()))
	app.notifier.Success(fmt.Sprintf("model %d is now the default", id))
	return nil
}

func runModelDelete(c *cli.Context) error {
	id, err := argID(c)
	if err != nil {
		return err
	}
	app := fromContext(c)

	model, err := app.client.Models.Get(c.Context, id)
	if err != nil {
		return err
	}

	guard := console.NewReferenceGuard(app.client.Agents.All, app.confirmer, app.notifier)
	outcome, err := guard.Delete(c.Context, domain.ReferenceModel, id,
		fmt.Sprintf("model %s", model.DisplayName()),
		func(ctx context.Context) error { return app.client.Models.Delete(ctx, id) },
	)
	if err != nil {
		return err
	}
	if !outcome.Deleted {
		fmt.Println("cancelled")
	}
	return nil
}
