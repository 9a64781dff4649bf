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

func knowledgeBaseCommand() *cli.Command {
	return &cli.Command{
		Name:    "kb",
		Aliases: []string{"knowledge-base"},
		Usage:   "Manage knowledge bases",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List knowledge bases",
				Flags:  listFlags(),
				Action: runKBList,
			},
			{
				Name:  "create",
				Usage: "Create a knowledge base",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "embedding-model"},
				},
				Action: runKBCreate,
			},
			{
				Name:      "enable",
				Usage:     "Activate a knowledge base",
				ArgsUsage: "<id>",
				Action:    func(c *cli.Context) error { return runKBToggle(c, true) },
			},
			{
				Name:      "disable",
				Usage:     "Deactivate a knowledge base",
				ArgsUsage: "<id>",
				Action:    func(c *cli.Context) error { return runKBToggle(c, false) },
			},
			{
				Name:      "delete",
				Usage:     "Delete a knowledge base after checking agent references",
				ArgsUsage: "<id>",
				Action:    runKBDelete,
			},
		},
	}
}

func newKBList(app *consoleApp) *console.ListController[domain.KnowledgeBase] {
	return console.NewListController(
		app.client.KnowledgeBases.List,
		func(kb domain.KnowledgeBase, kw string) bool {
			return strings.Contains(strings.ToLower(kb.Name), strings.ToLower(kw))
		},
		app.settings.Current().PageSize,
	)
}

var kbHeader = []string{"ID", "NAME", "EMBEDDING", "DOCS", "ACTIVE"}

func kbRows(kbs []domain.KnowledgeBase) [][]string {
	rows := make([][]string, 0, len(kbs))
	for i := range kbs {
		kb := &kbs[i]
		rows = append(rows, []string{
			fmt.Sprintf("%d", kb.ID),
			kb.Name,
			kb.EmbeddingModel,
			fmt.Sprintf("%d", kb.DocumentsCount),
			yesNo(kb.IsActive),
		})
	}
	return rows
}

func runKBList(c *cli.Context) error {
	app := fromContext(c)
	list := newKBList(app)
	applyListFlags(c, list)

	if err := list.Load(c.Context); err != nil {
		return err
	}
	renderTable(os.Stdout, kbHeader, kbRows(list.Visible()))
	renderFooter(os.Stdout, list)
	return nil
}

func runKBCreate(c *cli.Context) error {
	app := fromContext(c)
	kb, err := app.client.KnowledgeBases.Create(c.Context, api.CreateKnowledgeBaseRequest{
		Name:           c.String("name"),
		EmbeddingModel: c.String("embedding-model"),
	})
	if err != nil {
		app.notifier.Error(err.Error())
		return err
	}
	app.notifier.Success(fmt.Sprintf("knowledge base %q created with id %d", kb.Name, kb.ID))
	return nil
}

func runKBToggle(c *cli.Context, active bool) error {
	id, err := argID(c)
	if err != nil {
		return err
	}
	app := fromContext(c)

	list := newKBList(app)
	if err := list.Load(c.Context); err != nil {
		return err
	}

	mutator := console.NewMutator(func(kb domain.KnowledgeBase) int64 { return kb.ID }, app.notifier)
	err = mutator.Toggle(c.Context, list.Items(), id,
		func(kb *domain.KnowledgeBase, v bool) { kb.IsActive = v },
		active,
		func(ctx context.Context) (*domain.KnowledgeBase, error) {
			return app.client.KnowledgeBases.Update(ctx, id, api.UpdateKnowledgeBaseRequest{IsActive: &active})
		},
	)
	if err != nil {
		return err
	}

	renderTable(os.Stdout, kbHeader, kbRows(list.Items()))
	app.notifier.Success(fmt.Sprintf("knowledge base %d active=%s", id, yesNo(active)))
	return nil
}

func runKBDelete(c *cli.Context) error {
	id, err := argID(c)
	if err != nil {
		return err
	}
	app := fromContext(c)

	kb, err := app.client.KnowledgeBases.Get(c.Context, id)
	if err != nil {
		return err
	}

	guard := console.NewReferenceGuard(app.client.Agents.All, app.confirmer, app.notifier)
	outcome, err := guard.Delete(c.Context, domain.ReferenceKnowledgeBase, id,
		fmt.Sprintf("knowledge base %q", kb.Name),
		func(ctx context.Context) error { return app.client.KnowledgeBases.Delete(ctx, id) },
	)
	if err != nil {
		return err
	}
	if !outcome.Deleted {
		fmt.Println("cancelled")
	}
	return nil
}
