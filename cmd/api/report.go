package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/sangkips/phoneshop-pos/internal/application/service"
	"github.com/sangkips/phoneshop-pos/internal/domain/enum"
	"github.com/sangkips/phoneshop-pos/internal/domain/report"
	"github.com/sangkips/phoneshop-pos/pkg/currency"
	"github.com/spf13/cobra"
)

func newReportCmd(envFile *string) *cobra.Command {
	var (
		periodFlag string
		xlsxPath   string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the sales report for today, this week or this month",
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := enum.ParseReportPeriod(periodFlag)
			if err != nil {
				return err
			}

			cfg, db, err := openDB(*envFile, false)
			if err != nil {
				return err
			}
			defer closeDB(db)

			r := newRepos(db)
			reports := service.NewReportService(r.products, r.sales, r.customers, r.losses)

			if xlsxPath != "" {
				f, err := os.Create(xlsxPath)
				if err != nil {
					return err
				}
				if err := reports.ExportXLSX(cmd.Context(), period, f); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", xlsxPath)
				return nil
			}

			rep, err := reports.Build(cmd.Context(), period)
			if err != nil {
				return err
			}
			money, err := currency.New(cfg.Shop.Currency)
			if err != nil {
				return err
			}
			renderReport(cmd.OutOrStdout(), rep, money)
			return nil
		},
	}
	cmd.Flags().StringVarP(&periodFlag, "period", "p", "today", "today, week or month")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write an .xlsx workbook to this path instead of printing")
	return cmd
}

func renderReport(w io.Writer, r *report.Report, money *currency.Formatter) {
	const layout = "2006-01-02 15:04"
	right := []table.ColumnConfig{{Number: 2, Align: text.AlignRight}}

	summary := table.NewWriter()
	summary.SetOutputMirror(w)
	summary.SetStyle(table.StyleLight)
	summary.SetTitle(fmt.Sprintf("Report: %s (%s to %s)", r.Period, r.From.Format(layout), r.To.Format(layout)))
	summary.SetColumnConfigs(right)
	summary.AppendRows([]table.Row{
		{"Sales", r.Sales.Count},
		{"Items sold", r.Sales.ItemsSold},
		{"Revenue", money.Format(r.Sales.Revenue)},
		{"Cost of goods", money.Format(r.Sales.Cost)},
		{"Profit", money.Format(r.Sales.Profit)},
		{"Margin", r.Sales.Margin.StringFixed(1) + "%"},
		{"Loans from sales", money.Format(r.Sales.Loans)},
	})
	summary.AppendSeparator()
	summary.AppendRows([]table.Row{
		{"Products", r.Inventory.ProductCount},
		{"Items in stock", r.Inventory.TotalItems},
		{"Stock buying value", money.Format(r.Inventory.BuyingValue)},
		{"Stock selling value", money.Format(r.Inventory.SellingValue)},
	})
	summary.AppendSeparator()
	summary.AppendRows([]table.Row{
		{"Customers", r.Customers.Count},
		{"Customers with loans", r.Customers.WithLoans},
		{"Outstanding loans", money.Format(r.Customers.TotalOutstanding)},
		{"Losses", r.Losses.Count},
		{"Loss value", money.Format(r.Losses.Total)},
	})
	summary.Render()

	if len(r.TopSellers) > 0 {
		top := table.NewWriter()
		top.SetOutputMirror(w)
		top.SetStyle(table.StyleLight)
		top.SetTitle("Top sellers")
		top.AppendHeader(table.Row{"#", "Product", "Qty", "Revenue"})
		for i, t := range r.TopSellers {
			top.AppendRow(table.Row{i + 1, t.Name, t.Quantity, money.Format(t.Revenue)})
		}
		top.Render()
	}

	if len(r.LowStock) > 0 {
		low := table.NewWriter()
		low.SetOutputMirror(w)
		low.SetStyle(table.StyleLight)
		low.SetTitle("Low stock")
		low.AppendHeader(table.Row{"Product", "Brand", "Pieces", "Alert"})
		for _, p := range r.LowStock {
			low.AppendRow(table.Row{p.Name, p.Brand, p.Pieces, p.LowStockAlert})
		}
		low.Render()
	}
}
