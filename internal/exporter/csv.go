package exporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// CSVWriter writes exported series to per-KPI CSV files under a reports
// directory.
type CSVWriter struct {
	dir    string
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer rooted at dir.
func NewCSVWriter(dir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{dir: dir, logger: logger}
}

// WriteBundle writes one CSV file per series plus a JSON copy of the whole
// bundle for the web presentation layer.
func (w *CSVWriter) WriteBundle(bundle *Bundle) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("failed to create reports directory: %w", err)
	}

	for _, series := range bundle.Series {
		if err := w.WriteSeries(series); err != nil {
			return err
		}
	}

	return w.writeBundleJSON(bundle)
}

// WriteSeries writes one series to <dir>/<name>.csv. Long-format series get
// a three-column layout; plain series get two columns. Row order is the
// series' own ordering, untouched.
func (w *CSVWriter) WriteSeries(series ChartSeries) error {
	path := filepath.Join(w.dir, series.Name+".csv")

	w.logger.Info("writing series CSV",
		slog.String("series", series.Name),
		slog.String("path", path),
		slog.Int("points", len(series.Points)))

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create series file: %w", err)
	}

	if err := writeSeriesCSV(file, series); err != nil {
		file.Close()
		return fmt.Errorf("failed to write series %s: %w", series.Name, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close series file: %w", err)
	}
	return nil
}

// writeSeriesCSV writes the series rows to out. The csv.Writer buffers, so
// the flush error is the one that reports a failed underlying write.
func writeSeriesCSV(out io.Writer, series ChartSeries) error {
	writer := csv.NewWriter(out)

	long := isLongFormat(series)
	header := []string{series.XAxis, series.YAxis}
	if long {
		header = []string{series.XAxis, "Series", series.YAxis}
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, point := range series.Points {
		row := []string{point.Label, formatValue(point.Value, series.Unit)}
		if long {
			row = []string{point.Label, point.SubLabel, formatValue(point.Value, series.Unit)}
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// writeBundleJSON writes the whole bundle as one JSON document.
func (w *CSVWriter) writeBundleJSON(bundle *Bundle) error {
	path := filepath.Join(w.dir, "kpi_series.json")

	w.logger.Info("writing series bundle JSON",
		slog.String("path", path),
		slog.Int("series_count", len(bundle.Series)))

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create bundle file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(bundle); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode bundle: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close bundle file: %w", err)
	}
	return nil
}

// isLongFormat reports whether any point carries a sub-label.
func isLongFormat(series ChartSeries) bool {
	for _, p := range series.Points {
		if p.SubLabel != "" {
			return true
		}
	}
	return false
}
