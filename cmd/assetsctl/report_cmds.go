package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dootask/assetsctl/internal/api"
	"github.com/dootask/assetsctl/internal/domain"
	"github.com/dootask/assetsctl/internal/report"
)

func reportCommand() *cli.Command {
	periodFlags := []cli.Flag{
		&cli.StringFlag{
			Name:  "period",
			Value: string(report.PeriodThisMonth),
			Usage: "Date preset: today, yesterday, this_week, last_week, this_month, last_month, this_year",
		},
		&cli.Int64Flag{Name: "category", Usage: "Limit to one category"},
		&cli.Int64Flag{Name: "department", Usage: "Limit to one department"},
		&cli.StringFlag{Name: "status", Usage: "Limit to one asset status"},
	}

	return &cli.Command{
		Name:  "report",
		Usage: "Asset and borrow reporting",
		Subcommands: []*cli.Command{
			{
				Name:   "summary",
				Usage:  "Asset overview with borrow totals",
				Flags:  periodFlags,
				Action: runReportSummary,
			},
			{
				Name:   "borrow-trend",
				Usage:  "Daily borrow/return series",
				Flags:  periodFlags,
				Action: runReportBorrowTrend,
			},
			{
				Name:   "inventory",
				Usage:  "Stock-taking result breakdown",
				Flags:  periodFlags,
				Action: runReportInventory,
			},
			{
				Name:  "export",
				Usage: "Download the asset report file",
				Flags: append(periodFlags,
					&cli.StringFlag{Name: "format", Value: "csv", Usage: "csv, excel or pdf"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output file; stdout when omitted"},
				),
				Action: runReportExport,
			},
		},
	}
}

// reportQuery resolves the period preset and filter flags into a query.
func reportQuery(c *cli.Context) (api.ReportQuery, error) {
	rng, err := report.Resolve(report.Period(c.String("period")), time.Now())
	if err != nil {
		return api.ReportQuery{}, fmt.Errorf("period %q: %w", c.String("period"), err)
	}
	return api.ReportQuery{
		CategoryID:   c.Int64("category"),
		DepartmentID: c.Int64("department"),
		Status:       c.String("status"),
	}.FromRange(rng), nil
}

func runReportSummary(c *cli.Context) error {
	q, err := reportQuery(c)
	if err != nil {
		return err
	}
	summary, err := fromContext(c).client.Reports.Summary(c.Context, q)
	if err != nil {
		return err
	}

	fmt.Printf("Total assets:    %d\n", summary.TotalAssets)
	fmt.Printf("Total value:     %.2f\n", summary.TotalValue)
	for _, status := range []domain.AssetStatus{
		domain.AssetStatusAvailable,
		domain.AssetStatusBorrowed,
		domain.AssetStatusMaintenance,
		domain.AssetStatusScrapped,
	} {
		count := summary.AssetsByStatus[string(status)]
		fmt.Printf("  %-18s %d (%.1f%%)\n", status.Label()+":", count,
			report.Percent(count, summary.TotalAssets))
	}
	fmt.Printf("Active borrows:  %d\n", summary.ActiveBorrows)
	fmt.Printf("Overdue borrows: %d (%.1f%%)\n", summary.OverdueBorrows, summary.OverdueRate())
	return nil
}

func runReportBorrowTrend(c *cli.Context) error {
	q, err := reportQuery(c)
	if err != nil {
		return err
	}
	trend, err := fromContext(c).client.Reports.BorrowTrend(c.Context, q)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(trend.Points))
	for _, p := range trend.Points {
		rows = append(rows, []string{
			p.Date,
			fmt.Sprintf("%d", p.Borrowed),
			fmt.Sprintf("%d", p.Returned),
		})
	}
	renderTable(os.Stdout, []string{"DATE", "BORROWED", "RETURNED"}, rows)
	return nil
}

func runReportInventory(c *cli.Context) error {
	q, err := reportQuery(c)
	if err != nil {
		return err
	}
	breakdown, err := fromContext(c).client.Reports.InventoryBreakdown(c.Context, q)
	if err != nil {
		return err
	}

	fmt.Printf("Records: %d\n", breakdown.TotalRecords)
	for _, result := range []domain.InventoryResult{
		domain.InventoryResultNormal,
		domain.InventoryResultSurplus,
		domain.InventoryResultDeficit,
		domain.InventoryResultDamaged,
	} {
		fmt.Printf("  %-10s %d (%.1f%%)\n", result.Label()+":",
			breakdown.ByResult[string(result)],
			breakdown.ResultRate(string(result)))
	}
	return nil
}

func runReportExport(c *cli.Context) error {
	q, err := reportQuery(c)
	if err != nil {
		return err
	}
	app := fromContext(c)
	format := api.ExportFormat(c.String("format"))

	out := os.Stdout
	if path := c.String("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	n, err := app.client.Reports.Export(c.Context, format, q, out)
	if err != nil {
		app.notifier.Error(err.Error())
		return err
	}
	if path := c.String("out"); path != "" {
		app.notifier.Success(fmt.Sprintf("exported %d bytes to %s", n, path))
	}
	return nil
}
