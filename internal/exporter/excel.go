package exporter

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"
)

// WorkbookWriter writes the full series bundle into a single XLSX workbook,
// one sheet per KPI series.
type WorkbookWriter struct {
	logger *slog.Logger
}

// NewWorkbookWriter creates a new workbook writer.
func NewWorkbookWriter(logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{logger: logger}
}

// Write saves the bundle to path. Sheets appear in bundle display order and
// rows keep the series' own ordering.
func (w *WorkbookWriter) Write(path string, bundle *Bundle) error {
	f := excelize.NewFile()
	defer f.Close()

	w.logger.Info("writing KPI workbook",
		slog.String("path", path),
		slog.Int("series_count", len(bundle.Series)))

	for _, series := range bundle.Series {
		if err := w.writeSheet(f, series); err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", series.Name, err)
		}
	}

	// Drop the default sheet and activate the first KPI sheet.
	if len(bundle.Series) > 0 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("failed to remove default sheet: %w", err)
		}
		index, err := f.GetSheetIndex(bundle.Series[0].Name)
		if err != nil {
			return fmt.Errorf("failed to locate first sheet: %w", err)
		}
		f.SetActiveSheet(index)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// writeSheet writes one series to its own sheet, header row first.
func (w *WorkbookWriter) writeSheet(f *excelize.File, series ChartSeries) error {
	if _, err := f.NewSheet(series.Name); err != nil {
		return err
	}

	long := isLongFormat(series)
	header := []interface{}{series.XAxis, series.YAxis}
	if long {
		header = []interface{}{series.XAxis, "Series", series.YAxis}
	}
	if err := setRow(f, series.Name, 1, header); err != nil {
		return err
	}

	for i, point := range series.Points {
		row := []interface{}{point.Label, point.Value}
		if long {
			row = []interface{}{point.Label, point.SubLabel, point.Value}
		}
		if err := setRow(f, series.Name, i+2, row); err != nil {
			return err
		}
	}

	return nil
}

// setRow writes values into the given 1-based row.
func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}
	return nil
}
