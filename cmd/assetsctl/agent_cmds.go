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

func agentCommand() *cli.Command {
	return &cli.Command{
		Name:  "agent",
		Usage: "Manage AI agent configurations",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List agents",
				Flags:  listFlags(),
				Action: runAgentList,
			},
			{
				Name:      "get",
				Usage:     "Show one agent",
				ArgsUsage: "<id>",
				Action:    runAgentGet,
			},
			{
				Name:  "create",
				Usage: "Create an agent",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "prompt"},
					&cli.Int64Flag{Name: "model", Usage: "AI model id"},
					&cli.Float64Flag{Name: "temperature", Value: 0.7},
					&cli.Int64SliceFlag{Name: "tool", Usage: "Tool id, repeatable"},
					&cli.Int64SliceFlag{Name: "kb", Usage: "Knowledge base id, repeatable"},
				},
				Action: runAgentCreate,
			},
			{
				Name:      "update",
				Usage:     "Update an agent",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name"},
					&cli.StringFlag{Name: "prompt"},
					&cli.Int64Flag{Name: "model"},
					&cli.Float64Flag{Name: "temperature"},
					&cli.Int64SliceFlag{Name: "tool", Usage: "Tool id, repeatable; replaces the full list"},
					&cli.Int64SliceFlag{Name: "kb", Usage: "Knowledge base id, repeatable; replaces the full list"},
				},
				Action: runAgentUpdate,
			},
			{
				Name:      "enable",
				Usage:     "Activate an agent",
				ArgsUsage: "<id>",
				Action:    func(c *cli.Context) error { return runAgentToggle(c, true) },
			},
			{
				Name:      "disable",
				Usage:     "Deactivate an agent",
				ArgsUsage: "<id>",
				Action:    func(c *cli.Context) error { return runAgentToggle(c, false) },
			},
			{
				Name:      "delete",
				Usage:     "Delete an agent",
				ArgsUsage: "<id>",
				Action:    runAgentDelete,
			},
		},
	}
}

func newAgentList(app *consoleApp) *console.ListController[domain.Agent] {
	return console.NewListController(
		app.client.Agents.List,
		func(a domain.Agent, kw string) bool {
			return strings.Contains(strings.ToLower(a.Name), strings.ToLower(kw))
		},
		app.settings.Current().PageSize,
	)
}

func agentRows(agents []domain.Agent) [][]string {
	rows := make([][]string, 0, len(agents))
	for i := range agents {
		a := &agents[i]
		model := "-"
		if a.AIModelID != nil {
			model = fmt.Sprintf("%d", *a.AIModelID)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", a.ID),
			a.Name,
			model,
			fmt.Sprintf("%.1f", a.Temperature),
			fmt.Sprintf("%d", len(a.Tools)),
			fmt.Sprintf("%d", len(a.KnowledgeBases)),
			yesNo(a.IsActive),
		})
	}
	return rows
}

var agentHeader = []string{"ID", "NAME", "MODEL", "TEMP", "TOOLS", "KBS", "ACTIVE"}

func runAgentList(c *cli.Context) error {
	app := fromContext(c)
	list := newAgentList(app)
	applyListFlags(c, list)

	if err := list.Load(c.Context); err != nil {
		return err
	}
	renderTable(os.Stdout, agentHeader, agentRows(list.Visible()))
	renderFooter(os.Stdout, list)
	return nil
}

func runAgentGet(c *cli.Context) error {
	id, err := argID(c)
	if err != nil {
		return err
	}
	agent, err := fromContext(c).client.Agents.Get(c.Context, id)
	if err != nil {
		return err
	}

	fmt.Printf("ID:              %d\n", agent.ID)
	fmt.Printf("Name:            %s\n", agent.Name)
	fmt.Printf("Prompt:          %s\n", agent.Prompt)
	if agent.AIModelID != nil {
		fmt.Printf("Model:           %d\n", *agent.AIModelID)
	} else {
		fmt.Printf("Model:           -\n")
	}
	fmt.Printf("Temperature:     %.2f\n", agent.Temperature)
	fmt.Printf("Tools:           %v\n", []int64(agent.Tools))
	fmt.Printf("Knowledge bases: %v\n", []int64(agent.KnowledgeBases))
	fmt.Printf("Active:          %s\n", yesNo(agent.IsActive))
	fmt.Printf("Created:         %s\n", fmtTime(agent.CreatedAt))
	return nil
}

func runAgentCreate(c *cli.Context) error {
	app := fromContext(c)
	req := api.CreateAgentRequest{
		Name:           c.String("name"),
		Prompt:         c.String("prompt"),
		Temperature:    c.Float64("temperature"),
		Tools:          c.Int64Slice("tool"),
		KnowledgeBases: c.Int64Slice("kb"),
	}
	if c.IsSet("model") {
		model := c.Int64("model")
		req.AIModelID = &model
	}

	agent, err := app.client.Agents.Create(c.Context, req)
	if err != nil {
		app.notifier.Error(err.Error())
		return err
	}
	app.notifier.Success(fmt.Sprintf("agent %q created with id %d", agent.Name, agent.ID))
	return nil
}

func runAgentUpdate(c *cli.Context) error {
	id, err := argID(c)
	if err != nil {
		return err
	}
	app := fromContext(c)

	var req api.UpdateAgentRequest
	if c.IsSet("name") {
		v := c.String("name")
		req.Name = &v
	}
	if c.IsSet("prompt") {
		v := c.String("prompt")
		req.Prompt = &v
	}
	if c.IsSet("model") {
		v := c.Int64("model")
		req.AIModelID = &v
	}
	if c.IsSet("temperature") {
		v := c.Float64("temperature")
		req.Temperature = &v
	}
	if c.IsSet("tool") {
		req.Tools = c.Int64Slice("tool")
	}
	if c.IsSet("kb") {
		req.KnowledgeBases = c.Int64Slice("kb")
	}

	agent, err := app.client.Agents.Update(c.Context, id, req)
	if err != nil {
		app.notifier.Error(err.Error())
		return err
	}
	app.notifier.Success(fmt.Sprintf("agent %q updated", agent.Name))
	return nil
}

// runAgentToggle flips is_active optimistically against the fetched page and
// rolls back on failure.
func runAgentToggle(c *cli.Context, active bool) error {
	id, err := argID(c)
	if err != nil {
		return err
	}
	app := fromContext(c)

	list := newAgentList(app)
	if err := list.Load(c.Context); err != nil {
		return err
	}

	mutator := console.NewMutator(func(a domain.Agent) int64 { return a.ID }, app.notifier)
	err = mutator.Toggle(c.Context, list.Items(), id,
		func(a *domain.Agent, v bool) { a.IsActive = v },
		active,
		func(ctx context.Context) (*domain.Agent, error) {
			return app.client.Agents.Update(ctx, id, api.UpdateAgentRequest{IsActive: &active})
		},
	)
	if err != nil {
		return err
	}

	renderTable(os.Stdout, agentHeader, agentRows(list.Items()))
	app.notifier.Success(fmt.Sprintf("agent %d active=%s", id, yesNo(active)))
	return nil
}

func runAgentDelete(c *cli.Context) error {
	id, err := argID(c)
	if err != nil {
		return err
	}
	app := fromContext(c)

	agent, err := app.client.Agents.Get(c.Context, id)
	if err != nil {
		return err
	}
	confirmed, err := app.confirmer.Confirm(fmt.Sprintf("Delete agent %q?", agent.Name))
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Println("cancelled")
		return nil
	}

	if err := app.client.Agents.Delete(c.Context, id); err != nil {
		app.notifier.Error(err.Error())
		return err
	}
	app.notifier.Success(fmt.Sprintf("agent %q deleted", agent.Name))
	return nil
}
