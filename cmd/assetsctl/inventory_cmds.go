package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dootask/assetsctl/internal/api"
	"github.com/dootask/assetsctl/internal/console"
	"github.com/dootask/assetsctl/internal/domain"
)

func inventoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "inventory",
		Usage: "Manage stock-taking tasks",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List inventory tasks",
				Flags:  listFlags(),
				Action: runInventoryList,
			},
			{
				Name:  "create",
				Usage: "Create a stock-taking task",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
				},
				Action: runInventoryCreate,
			},
			{
				Name:      "start",
				Usage:     "Start a pending task",
				ArgsUsage: "<id>",
				Action:    runInventoryStart,
			},
			{
				Name:      "complete",
				Usage:     "Complete an in-progress task",
				ArgsUsage: "<id>",
				Action:    runInventoryComplete,
			},
			{
				Name:      "records",
				Usage:     "List the counted records of a task",
				ArgsUsage: "<task-id>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "page", Value: 1},
				},
				Action: runInventoryRecords,
			},
			{
				Name:      "check",
				Usage:     "Submit the counted result for one asset",
				ArgsUsage: "<task-id>",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "asset", Required: true},
					&cli.StringFlag{Name: "result", Value: "normal", Usage: "normal, surplus, deficit or damaged"},
					&cli.StringFlag{Name: "remark"},
				},
				Action: runInventoryCheck,
			},
		},
	}
}

var inventoryHeader = []string{"ID", "NAME", "STATUS", "CHECKED", "STARTED", "COMPLETED"}

func inventoryRows(tasks []domain.InventoryTask) [][]string {
	rows := make([][]string, 0, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		rows = append(rows, []string{
			fmt.Sprintf("%d", t.ID),
			t.Name,
			t.Status.Label(),
			fmt.Sprintf("%d/%d", t.CheckedCount, t.TotalAssets),
			fmtTimePtr(t.StartedAt),
			fmtTimePtr(t.CompletedAt),
		})
	}
	return rows
}

func runInventoryList(c *cli.Context) error {
	app := fromContext(c)
	list := console.NewListController(
		app.client.Inventory.ListTasks,
		func(t domain.InventoryTask, kw string) bool {
			return strings.Contains(strings.ToLower(t.Name), strings.ToLower(kw))
		},
		app.settings.Current().PageSize,
	)
	applyListFlags(c, list)

	if err := list.Load(c.Context); err != nil {
		return err
	}
	renderTable(os.Stdout, inventoryHeader, inventoryRows(list.Visible()))
	renderFooter(os.Stdout, list)
	return nil
}

func runInventoryCreate(c *cli.Context) error {
	app := fromContext(c)
	task, err := app.client.Inventory.CreateTask(c.Context, api.CreateInventoryTaskRequest{
		Name: c.String("name"),
	})
	if err != nil {
		app.notifier.Error(err.Error())
		return err
	}
	app.notifier.Success(fmt.Sprintf("task %q created covering %d assets", task.Name, task.TotalAssets))
	return nil
}

func runInventoryStart(c *cli.Context) error {
	id, err := argID(c)
	if err != nil {
		return err
	}
	app := fromContext(c)

	task, err := app.client.Inventory.StartTask(c.Context, id)
	if err != nil {
		app.notifier.Error(err.Error())
		return err
	}
	app.notifier.Success(fmt.Sprintf("task %q started", task.Name))
	return nil
}

func runInventoryComplete(c *cli.Context) error {
	id, err := argID(c)
	if err != nil {
		return err
	}
	app := fromContext(c)

	task, err := app.client.Inventory.CompleteTask(c.Context, id)
	if err != nil {
		app.notifier.Error(err.Error())
		return err
	}
	app.notifier.Success(fmt.Sprintf("task %q completed, %d/%d checked", task.Name, task.CheckedCount, task.TotalAssets))
	return nil
}

func runInventoryRecords(c *cli.Context) error {
	taskID, err := argID(c)
	if err != nil {
		return err
	}
	app := fromContext(c)

	page, err := app.client.Inventory.ListRecords(c.Context, taskID, api.ListQuery{
		Page:     c.Int("page"),
		PageSize: app.settings.Current().PageSize,
	})
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(page.Items))
	for i := range page.Items {
		r := &page.Items[i]
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.ID),
			r.AssetName,
			r.Result.Label(),
			r.Remark,
			fmtTimePtr(r.CheckedAt),
		})
	}
	renderTable(os.Stdout, []string{"ID", "ASSET", "RESULT", "REMARK", "CHECKED"}, rows)
	fmt.Printf("total %d\n", page.Pagination.TotalItems)
	return nil
}

func runInventoryCheck(c *cli.Context) error {
	taskID, err := argID(c)
	if err != nil {
		return err
	}
	app := fromContext(c)

	result := domain.InventoryResult(c.String("result"))
	if !result.IsValid() {
		return fmt.Errorf("invalid result %q", result)
	}

	record, err := app.client.Inventory.SubmitRecord(c.Context, taskID, api.SubmitInventoryRecordRequest{
		AssetID: c.Int64("asset"),
		Result:  result,
		Remark:  c.String("remark"),
	})
	if err != nil {
		app.notifier.Error(err.Error())
		return err
	}
	app.notifier.Success(fmt.Sprintf("%s counted as %s", record.AssetName, record.Result.Label()))
	return nil
}
