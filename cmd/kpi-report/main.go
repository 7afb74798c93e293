// Command kpi-report runs the KPI pipeline once over the order ledger and
// item catalog and writes the exported series as CSV files, a JSON bundle
// and an XLSX workbook.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"kpicli/internal/catalog"
	"kpicli/internal/exporter"
	"kpicli/internal/ingest"
	"kpicli/internal/kpi"
	"kpicli/pkg/contracts"
)

func main() {
	orderDataPath := flag.String("order_data_path", "order_form.csv", "path to the order ledger CSV file")
	itemCostPath := flag.String("item_cost_path", "item_prices.csv", "path to the item catalog CSV file")
	dateColumn := flag.String("date_column_name", "Pickup Date", "name of the ledger column containing the order date")
	emailColumn := flag.String("email_column_name", "Email Address", "name of the ledger column containing the customer email")
	outputDir := flag.String("out", "reports", "output directory for the generated report files")
	workbook := flag.Bool("xlsx", true, "also write an XLSX workbook with one sheet per KPI")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetVersionString())
		os.Exit(0)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(context.Background(), logger, *orderDataPath, *itemCostPath, *dateColumn, *emailColumn, *outputDir, *workbook); err != nil {
		logger.Error("report generation failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, orderDataPath, itemCostPath, dateColumn, emailColumn, outputDir string, workbook bool) error {
	logger.Info("loading input tables",
		slog.String("order_data_path", orderDataPath),
		slog.String("item_cost_path", itemCostPath))

	entries, err := ingest.ReadCatalogFile(itemCostPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	index, err := catalog.NewIndex(entries)
	if err != nil {
		return fmt.Errorf("build catalog index: %w", err)
	}

	itemNames := make([]string, 0, index.Len())
	for _, item := range index.Items() {
		itemNames = append(itemNames, item.Name)
	}

	orders, err := ingest.ReadOrdersFile(orderDataPath, ingest.LedgerSchema{
		DateColumn:  dateColumn,
		EmailColumn: emailColumn,
	}, itemNames)
	if err != nil {
		return fmt.Errorf("load order ledger: %w", err)
	}

	logger.Info("running KPI pipeline",
		slog.Int("orders", len(orders)),
		slog.Int("catalog_items", index.Len()))

	enriched, err := kpi.EnrichOrders(orders, index)
	if err != nil {
		return fmt.Errorf("enrich orders: %w", err)
	}

	classified := kpi.ClassifyOrders(enriched)

	report, err := kpi.BuildReport(ctx, classified, index.Items())
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}

	bundle := exporter.BuildBundle(report, index.Items())

	if err := exporter.NewCSVWriter(outputDir, logger).WriteBundle(bundle); err != nil {
		return fmt.Errorf("write report files: %w", err)
	}

	if workbook {
		path := filepath.Join(outputDir, "kpi_report.xlsx")
		if err := exporter.NewWorkbookWriter(logger).Write(path, bundle); err != nil {
			return fmt.Errorf("write workbook: %w", err)
		}
	}

	summary, err := kpi.Summarize(classified)
	if err != nil {
		return fmt.Errorf("dataset summary: %w", err)
	}

	logger.Info("dataset customer summary",
		slog.Int("total_unique_customers", summary.UniqueCustomers),
		slog.Int("total_orders", summary.TotalOrders),
		// Average extra orders per customer, not the monthly repeat-order
		// percentage; the two are separate metrics.
		slog.String("repeat_customer_rate", fmt.Sprintf("%.2f%%", summary.RepeatRate*100)),
		slog.String("unique_customer_rate", fmt.Sprintf("%.2f%%", summary.UniqueRate*100)))

	logger.Info("report generation complete", slog.String("output_dir", outputDir))
	return nil
}
