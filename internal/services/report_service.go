// Package services hosts the application services behind the HTTP
// transport.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"kpicli/internal/catalog"
	"kpicli/internal/config"
	"kpicli/internal/exporter"
	"kpicli/internal/infrastructure"
	"kpicli/internal/ingest"
	"kpicli/internal/kpi"
	"kpicli/pkg/contracts/domain"
)

// ReportServiceInterface is what the HTTP layer depends on.
type ReportServiceInterface interface {
	Bundle(ctx context.Context) (*exporter.Bundle, error)
	Series(ctx context.Context, name string) (exporter.ChartSeries, error)
	Summary(ctx context.Context) (domain.CustomerSummary, error)
	Refresh(ctx context.Context) error
}

// ReportService runs the KPI pipeline over the configured input files and
// caches the exported series bundle for the transport layer. The cached
// bundle is replaced wholesale on refresh; readers always see a complete,
// consistent run.
type ReportService struct {
	input   config.InputConfig
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *infrastructure.BusinessMetrics

	mu         sync.RWMutex
	bundle     *exporter.Bundle
	summary    *domain.CustomerSummary
	summaryErr error
}

// NewReportService creates a report service. tracer and metrics may be nil;
// tracing then degrades to no-op spans and metric recording is skipped.
func NewReportService(input config.InputConfig, logger *slog.Logger, tracer trace.Tracer, metrics *infrastructure.BusinessMetrics) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("kpicli")
	}
	return &ReportService{
		input:   input,
		logger:  logger.With(slog.String("component", "report_service")),
		tracer:  tracer,
		metrics: metrics,
	}
}

// Refresh reloads both input tables and recomputes every KPI series.
// Structural input errors (catalog duplicates, missing columns, malformed
// quantities) abort the refresh and leave the previous bundle in place.
// An empty-but-valid dataset refreshes fine; only the dataset customer
// summary is then unavailable.
func (s *ReportService) Refresh(ctx context.Context) error {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "pipeline.refresh")
	defer span.End()

	s.logger.InfoContext(ctx, "refreshing KPI report",
		slog.String("order_data_path", s.input.OrderDataPath),
		slog.String("item_cost_path", s.input.ItemCostPath))

	result, err := s.run(ctx)
	if err != nil {
		if s.metrics != nil {
			s.metrics.PipelineRunErrors.Add(ctx, 1)
		}
		s.logger.ErrorContext(ctx, "pipeline run failed", slog.Any("error", err))
		return err
	}

	s.mu.Lock()
	s.bundle = result.bundle
	s.summary = result.summary
	s.summaryErr = result.summaryErr
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.PipelineRunsTotal.Add(ctx, 1)
		s.metrics.PipelineRunDuration.Record(ctx, time.Since(start).Seconds())
	}
	s.logger.InfoContext(ctx, "KPI report refreshed",
		slog.Int("series_count", len(result.bundle.Series)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// runResult is one complete pipeline run. summaryErr carries the
// NoCustomersError of a customer-less dataset; the series bundle is still
// valid in that case.
type runResult struct {
	bundle     *exporter.Bundle
	summary    *domain.CustomerSummary
	summaryErr error
}

// run executes the pipeline stages: catalog index, order enrichment,
// customer classification, aggregation, series export.
func (s *ReportService) run(ctx context.Context) (*runResult, error) {
	ctx, loadSpan := s.tracer.Start(ctx, "pipeline.load")
	entries, err := ingest.ReadCatalogFile(s.input.ItemCostPath)
	if err != nil {
		loadSpan.End()
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	index, err := catalog.NewIndex(entries)
	if err != nil {
		loadSpan.End()
		return nil, fmt.Errorf("build catalog index: %w", err)
	}

	itemNames := make([]string, 0, index.Len())
	for _, item := range index.Items() {
		itemNames = append(itemNames, item.Name)
	}

	orders, err := ingest.ReadOrdersFile(s.input.OrderDataPath, ingest.LedgerSchema{
		DateColumn:  s.input.DateColumnName,
		EmailColumn: s.input.EmailColumnName,
	}, itemNames)
	loadSpan.End()
	if err != nil {
		return nil, fmt.Errorf("load order ledger: %w", err)
	}
	if s.metrics != nil {
		s.metrics.OrdersProcessedTotal.Add(ctx, int64(len(orders)))
	}

	ctx, computeSpan := s.tracer.Start(ctx, "pipeline.compute",
		trace.WithAttributes(
			attribute.Int("orders", len(orders)),
			attribute.Int("catalog_items", index.Len()),
		))
	defer computeSpan.End()

	enriched, err := kpi.EnrichOrders(orders, index)
	if err != nil {
		return nil, fmt.Errorf("enrich orders: %w", err)
	}

	classified := kpi.ClassifyOrders(enriched)

	report, err := kpi.BuildReport(ctx, classified, index.Items())
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}

	bundle := exporter.BuildBundle(report, index.Items())

	summary, summaryErr := kpi.Summarize(classified)
	if summaryErr != nil {
		return &runResult{bundle: bundle, summaryErr: summaryErr}, nil
	}
	return &runResult{bundle: bundle, summary: &summary}, nil
}

// Bundle returns the cached series bundle, running the pipeline first when
// no run has happened yet.
func (s *ReportService) Bundle(ctx context.Context) (*exporter.Bundle, error) {
	s.mu.RLock()
	bundle := s.bundle
	s.mu.RUnlock()
	if bundle != nil {
		return bundle, nil
	}

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bundle, nil
}

// Series returns one named series from the cached bundle.
func (s *ReportService) Series(ctx context.Context, name string) (exporter.ChartSeries, error) {
	bundle, err := s.Bundle(ctx)
	if err != nil {
		return exporter.ChartSeries{}, err
	}

	series, ok := bundle.Get(name)
	if !ok {
		return exporter.ChartSeries{}, fmt.Errorf("unknown KPI series %q", name)
	}
	return series, nil
}

// Summary returns the dataset-wide customer figures. For a dataset with no
// customers this surfaces the pipeline's NoCustomersError.
func (s *ReportService) Summary(ctx context.Context) (domain.CustomerSummary, error) {
	if _, err := s.Bundle(ctx); err != nil {
		return domain.CustomerSummary{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.summaryErr != nil {
		return domain.CustomerSummary{}, s.summaryErr
	}
	return *s.summary, nil
}
