package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	monitoring "storewatch/internal/monitoring/domain"
	"storewatch/internal/observability/metrics"
	reports "storewatch/internal/reports/domain"
	"storewatch/internal/reports/interfaces"
)

// DefaultStoreLimit caps how many stores one report covers. The source
// dataset holds tens of thousands of stores; full-population processing is
// a deferred goal.
const DefaultStoreLimit = 200

// HoursIndexLoader loads the business-hours index.
type HoursIndexLoader interface {
	LoadIndex(ctx context.Context) (*monitoring.HoursIndex, error)
}

// Clock provides time.
type Clock interface {
	Now() time.Time
}

// Builder drives the availability aggregator over the store population and
// assembles the report artifact.
type Builder struct {
	repo         reports.Repository
	artifacts    reports.ArtifactStore
	observations monitoring.ObservationReader
	timezones    monitoring.StoreTimezoneLister
	hours        HoursIndexLoader
	clock        Clock
	logger       *log.Logger

	storeLimit      int
	defaultTimezone string
}

// BuilderOption configures the builder.
type BuilderOption func(*Builder)

// WithStoreLimit overrides the store cap; 0 removes it.
func WithStoreLimit(limit int) BuilderOption {
	return func(b *Builder) {
		if limit >= 0 {
			b.storeLimit = limit
		}
	}
}

// WithDefaultTimezone overrides the fallback zone for unmapped stores.
func WithDefaultTimezone(zone string) BuilderOption {
	return func(b *Builder) {
		if zone != "" {
			b.defaultTimezone = zone
		}
	}
}

// NewBuilder constructs a report builder.
func NewBuilder(
	repo reports.Repository,
	artifacts reports.ArtifactStore,
	observations monitoring.ObservationReader,
	timezones monitoring.StoreTimezoneLister,
	hours HoursIndexLoader,
	clock Clock,
	logger *log.Logger,
	opts ...BuilderOption,
) (*Builder, error) {
	if repo == nil || artifacts == nil || observations == nil || timezones == nil || hours == nil || clock == nil {
		return nil, errors.New("report builder: nil dependency")
	}
	builder := &Builder{
		repo:            repo,
		artifacts:       artifacts,
		observations:    observations,
		timezones:       timezones,
		hours:           hours,
		clock:           clock,
		logger:          logger,
		storeLimit:      DefaultStoreLimit,
		defaultTimezone: monitoring.DefaultTimezone,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder, nil
}

// Generate computes the full report under the given identifier. The report
// record is created running first, so status polls observe the lifecycle;
// any fault afterwards marks the record failed with its cause. The artifact
// is written before the record flips to complete, so a complete status
// never precedes a durable artifact.
func (b *Builder) Generate(ctx context.Context, reportID string) error {
	started := b.clock.Now()
	err := b.generate(ctx, reportID, started)
	metrics.ObserveReportGenerate(err, b.clock.Now().Sub(started))
	return err
}

func (b *Builder) generate(ctx context.Context, reportID string, started time.Time) error {
	report, err := reports.NewReport(reportID, started)
	if err != nil {
		return err
	}
	if err := b.repo.Create(ctx, report); err != nil {
		return fmt.Errorf("create report record: %w", err)
	}

	rows, err := b.computeRows(ctx)
	if err != nil {
		b.fail(ctx, reportID, err)
		return err
	}

	artifact, err := interfaces.EncodeCSV(rows)
	if err != nil {
		b.fail(ctx, reportID, err)
		return err
	}
	location, err := b.artifacts.Put(reportID, artifact)
	if err != nil {
		b.fail(ctx, reportID, err)
		return fmt.Errorf("persist artifact: %w", err)
	}

	if err := b.repo.MarkComplete(ctx, reportID, location, b.clock.Now()); err != nil {
		return fmt.Errorf("complete report: %w", err)
	}
	metrics.SetReportRows(len(rows))
	if b.logger != nil {
		b.logger.Printf("report %s complete: %d rows", reportID, len(rows))
	}
	return nil
}

func (b *Builder) computeRows(ctx context.Context) ([]reports.Row, error) {
	reference, err := b.observations.LatestTimestamp(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve reference instant: %w", err)
	}

	index, err := b.hours.LoadIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("load business hours: %w", err)
	}
	aggregator, err := monitoring.NewAggregator(index, b.observations)
	if err != nil {
		return nil, err
	}

	stores, err := b.timezones.List(ctx, b.storeLimit)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}

	rows := make([]reports.Row, 0, len(stores))
	for _, store := range stores {
		row, err := b.computeRow(ctx, aggregator, store, reference)
		if err != nil {
			return nil, fmt.Errorf("store %s: %w", store.StoreID, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (b *Builder) computeRow(ctx context.Context, aggregator *monitoring.Aggregator, store monitoring.StoreTimezone, reference time.Time) (reports.Row, error) {
	location := b.resolveLocation(store)
	local := reference.In(location)
	weekday := monitoring.WeekdayMonday0(local)
	clock := monitoring.ClockOf(local)

	row := reports.Row{StoreID: store.StoreID}
	var err error
	if row.Hour, err = aggregator.Window(ctx, store.StoreID, reference, monitoring.WindowHour, weekday, clock); err != nil {
		return reports.Row{}, err
	}
	if row.Day, err = aggregator.Window(ctx, store.StoreID, reference, monitoring.WindowDay, weekday, clock); err != nil {
		return reports.Row{}, err
	}
	if row.Week, err = aggregator.Window(ctx, store.StoreID, reference, monitoring.WindowWeek, weekday, clock); err != nil {
		return reports.Row{}, err
	}
	return row, nil
}

// resolveLocation maps a store to its timezone, falling back to the default
// zone on a missing or unknown identifier rather than failing the row.
func (b *Builder) resolveLocation(store monitoring.StoreTimezone) *time.Location {
	name := store.Timezone
	if name == "" {
		name = b.defaultTimezone
	}
	location, err := time.LoadLocation(name)
	if err == nil {
		return location
	}
	if b.logger != nil {
		b.logger.Printf("store %s: unknown timezone %q, using %s", store.StoreID, name, b.defaultTimezone)
	}
	location, err = time.LoadLocation(b.defaultTimezone)
	if err != nil {
		return time.UTC
	}
	return location
}

func (b *Builder) fail(ctx context.Context, reportID string, cause error) {
	if err := b.repo.MarkFailed(ctx, reportID, cause.Error(), b.clock.Now()); err != nil && b.logger != nil {
		b.logger.Printf("report %s: mark failed error: %v", reportID, err)
	}
}
