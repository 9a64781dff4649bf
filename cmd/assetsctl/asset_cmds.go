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

func assetCommand() *cli.Command {
	return &cli.Command{
		Name:  "asset",
		Usage: "Manage physical assets",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List assets",
				Flags: append(listFlags(),
					&cli.StringFlag{Name: "status", Usage: "Server-side status filter (available, borrowed, maintenance, scrapped)"},
					&cli.Int64Flag{Name: "category", Usage: "Server-side category filter"},
					&cli.Int64Flag{Name: "department", Usage: "Server-side department filter"},
				),
				Action: runAssetList,
			},
			{
				Name:      "get",
				Usage:     "Show one asset",
				ArgsUsage: "<id>",
				Action:    runAssetGet,
			},
			{
				Name:  "create",
				Usage: "Register an asset",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "no", Usage: "Asset number; generated when omitted"},
					&cli.Int64Flag{Name: "category"},
					&cli.Int64Flag{Name: "department"},
					&cli.StringFlag{Name: "location"},
					&cli.StringFlag{Name: "purchased", Usage: "Purchase date, YYYY-MM-DD"},
					&cli.Float64Flag{Name: "price"},
					&cli.StringFlag{Name: "remark"},
				},
				Action: runAssetCreate,
			},
			{
				Name:      "update",
				Usage:     "Update an asset",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name"},
					&cli.Int64Flag{Name: "category"},
					&cli.Int64Flag{Name: "department"},
					&cli.StringFlag{Name: "status", Usage: "available, borrowed, maintenance or scrapped"},
					&cli.StringFlag{Name: "location"},
					&cli.Float64Flag{Name: "price"},
					&cli.StringFlag{Name: "remark"},
				},
				Action: runAssetUpdate,
			},
			{
				Name:      "delete",
				Usage:     "Delete an asset",
				ArgsUsage: "<id>",
				Action:    runAssetDelete,
			},
		},
	}
}

func newAssetList(app *consoleApp) *console.ListController[domain.Asset] {
	return console.NewListController(
		app.client.Assets.List,
		func(a domain.Asset, kw string) bool {
			kw = strings.ToLower(kw)
			return strings.Contains(strings.ToLower(a.Name), kw) ||
				strings.Contains(strings.ToLower(a.AssetNo), kw) ||
				strings.Contains(strings.ToLower(a.Location), kw)
		},
		app.settings.Current().PageSize,
	)
}

var assetHeader = []string{"ID", "NO", "NAME", "STATUS", "LOCATION", "PRICE", "PURCHASED"}

func assetRows(assets []domain.Asset) [][]string {
	rows := make([][]string, 0, len(assets))
	for i := range assets {
		a := &assets[i]
		rows = append(rows, []string{
			fmt.Sprintf("%d", a.ID),
			a.AssetNo,
			a.Name,
			a.Status.Label(),
			a.Location,
			fmt.Sprintf("%.2f", a.Price),
			fmtDatePtr(a.PurchaseDate),
		})
	}
	return rows
}

func runAssetList(c *cli.Context) error {
	app := fromContext(c)
	list := newAssetList(app)
	applyListFlags(c, list)
	if status := c.String("status"); status != "" {
		list.SetServerFilter("status", status)
	}
	if c.IsSet("category") {
		list.SetServerFilter("category_id", fmt.Sprintf("%d", c.Int64("category")))
	}
	if c.IsSet("department") {
		list.SetServerFilter("department_id", fmt.Sprintf("%d", c.Int64("department")))
	}

	if err := list.Load(c.Context); err != nil {
		return err
	}
	renderTable(os.Stdout, assetHeader, assetRows(list.Visible()))
	renderFooter(os.Stdout, list)
	return nil
}

func runAssetGet(c *cli.Context) error {
	id, err := argID(c)
	if err != nil {
		return err
	}
	a, err := fromContext(c).client.Assets.Get(c.Context, id)
	if err != nil {
		return err
	}

	fmt.Printf("ID:         %d\n", a.ID)
	fmt.Printf("Number:     %s\n", a.AssetNo)
	fmt.Printf("Name:       %s\n", a.Name)
	fmt.Printf("Status:     %s\n", a.Status.Label())
	fmt.Printf("Category:   %d\n", a.CategoryID)
	fmt.Printf("Department: %d\n", a.DepartmentID)
	fmt.Printf("Location:   %s\n", a.Location)
	fmt.Printf("Price:      %.2f\n", a.Price)
	fmt.Printf("Purchased:  %s\n", fmtDatePtr(a.PurchaseDate))
	fmt.Printf("Remark:     %s\n", a.Remark)
	return nil
}

func runAssetCreate(c *cli.Context) error {
	app := fromContext(c)
	req := api.CreateAssetRequest{
		AssetNo:      c.String("no"),
		Name:         c.String("name"),
		CategoryID:   c.Int64("category"),
		DepartmentID: c.Int64("department"),
		Location:     c.String("location"),
		Price:        c.Float64("price"),
		Remark:       c.String("remark"),
	}
	if raw := c.String("purchased"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fmt.Errorf("invalid purchase date %q: %w", raw, err)
		}
		req.PurchaseDate = &date
	}

	asset, err := app.client.Assets.Create(c.Context, req)
	if err != nil {
		app.notifier.Error(err.Error())
		return err
	}
	app.notifier.Success(fmt.Sprintf("asset %q created with number %s", asset.Name, asset.AssetNo))
	return nil
}

func runAssetUpdate(c *cli.Context) error {
	id, err := argID(c)
	if err != nil {
		return err
	}
	app := fromContext(c)

	var req api.UpdateAssetRequest
	if c.IsSet("name") {
		v := c.String("name")
		req.Name = &v
	}
	if c.IsSet("category") {
		v := c.Int64("category")
		req.CategoryID = &v
	}
	if c.IsSet("department") {
		v := c.Int64("department")
		req.DepartmentID = &v
	}
	if c.IsSet("status") {
		status := domain.AssetStatus(c.String("status"))
		if !status.IsValid() {
			return fmt.Errorf("invalid status %q", status)
		}
		req.Status = &status
	}
	if c.IsSet("location") {
		v := c.String("location")
		req.Location = &v
	}
	if c.IsSet("price") {
		v := c.Float64("price")
		req.Price = &v
	}
	if c.IsSet("remark") {
		v := c.String("remark")
		req.Remark = &v
	}

	asset, err := app.client.Assets.Update(c.Context, id, req)
	if err != nil {
		app.notifier.Error(err.Error())
		return err
	}
	app.notifier.Success(fmt.Sprintf("asset %s updated, status %s", asset.AssetNo, asset.Status.Label()))
	return nil
}

func runAssetDelete(c *cli.Context) error {
	id, err := argID(c)
	if err != nil {
		return err
	}
	app := fromContext(c)

	asset, err := app.client.Assets.Get(c.Context, id)
	if err != nil {
		return err
	}
	confirmed, err := app.confirmer.Confirm(fmt.Sprintf("Delete asset %s (%s)?", asset.AssetNo, asset.Name))
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Println("cancelled")
		return nil
	}

	if err := app.client.Assets.Delete(c.Context, id); err != nil {
		app.notifier.Error(err.Error())
		return err
	}
	app.notifier.Success(fmt.Sprintf("asset %s deleted", asset.AssetNo))
	return nil
}
