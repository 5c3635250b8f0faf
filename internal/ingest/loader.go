package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	monitoring "storewatch/internal/monitoring/domain"
	"storewatch/internal/observability/metrics"
)

// timestampLayouts covers the source feed's timestamp renderings.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999 UTC",
	"2006-01-02 15:04:05 UTC",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// BatchWriter persists ingested rows in bounded chunks.
type BatchWriter interface {
	WriteObservations(ctx context.Context, batch []monitoring.Observation) error
	WriteBusinessHours(ctx context.Context, batch []monitoring.BusinessHours) error
	WriteTimezones(ctx context.Context, batch []monitoring.StoreTimezone) error
}

// Loader bulk-loads the delimited source files into the observation store
// and reference tables.
type Loader struct {
	cfg    Config
	writer BatchWriter
	logger *log.Logger
}

// NewLoader constructs a loader.
func NewLoader(cfg Config, writer BatchWriter, logger *log.Logger) (*Loader, error) {
	if writer == nil {
		return nil, errors.New("ingest: nil writer")
	}
	return &Loader{cfg: cfg, writer: writer, logger: logger}, nil
}

// Run ingests all three source files. Each file is chunked into batches of
// cfg.BatchSize rows so a single transaction stays bounded.
func (l *Loader) Run(ctx context.Context) error {
	started := time.Now()
	err := l.run(ctx)
	metrics.ObserveIngestRun(err, time.Since(started))
	return err
}

func (l *Loader) run(ctx context.Context) error {
	if err := l.loadTimezones(ctx); err != nil {
		return fmt.Errorf("timezones: %w", err)
	}
	if err := l.loadBusinessHours(ctx); err != nil {
		return fmt.Errorf("business hours: %w", err)
	}
	if err := l.loadObservations(ctx); err != nil {
		return fmt.Errorf("observations: %w", err)
	}
	return nil
}

func (l *Loader) loadTimezones(ctx context.Context) error {
	var batch []monitoring.StoreTimezone
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := l.writer.WriteTimezones(ctx, batch); err != nil {
			return err
		}
		metrics.AddIngestRows("timezones", len(batch))
		batch = batch[:0]
		return nil
	}

	err := l.eachRecord(l.cfg.TimezonesFile, func(get fieldGetter) error {
		batch = append(batch, monitoring.StoreTimezone{
			StoreID:  get("store_id"),
			Timezone: get("timezone_str"),
		})
		if len(batch) >= l.cfg.BatchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return err
	}
	return flush()
}

func (l *Loader) loadBusinessHours(ctx context.Context) error {
	var batch []monitoring.BusinessHours
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := l.writer.WriteBusinessHours(ctx, batch); err != nil {
			return err
		}
		metrics.AddIngestRows("business_hours", len(batch))
		batch = batch[:0]
		return nil
	}

	err := l.eachRecord(l.cfg.BusinessHoursFile, func(get fieldGetter) error {
		weekday, err := strconv.Atoi(get("day"))
		if err != nil {
			return fmt.Errorf("bad weekday %q", get("day"))
		}
		start, err := monitoring.ParseClockTime(get("start_time_local"))
		if err != nil {
			return err
		}
		end, err := monitoring.ParseClockTime(get("end_time_local"))
		if err != nil {
			return err
		}
		batch = append(batch, monitoring.BusinessHours{
			StoreID: get("store_id"),
			Weekday: weekday,
			Start:   start,
			End:     end,
		})
		if len(batch) >= l.cfg.BatchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return err
	}
	return flush()
}

func (l *Loader) loadObservations(ctx context.Context) error {
	var (
		batch   []monitoring.Observation
		skipped int
	)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := l.writer.WriteObservations(ctx, batch); err != nil {
			return err
		}
		metrics.AddIngestRows("store_status", len(batch))
		batch = batch[:0]
		return nil
	}

	err := l.eachRecord(l.cfg.ObservationsFile, func(get fieldGetter) error {
		raw := get("timestamp_utc")
		if raw == "" {
			skipped++
			return nil
		}
		timestamp, err := parseTimestamp(raw)
		if err != nil {
			skipped++
			return nil
		}
		status, err := monitoring.ParseStatus(get("status"))
		if err != nil {
			return err
		}
		batch = append(batch, monitoring.Observation{
			StoreID:   get("store_id"),
			Timestamp: timestamp,
			Status:    status,
		})
		if len(batch) >= l.cfg.BatchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return err
	}
	if skipped > 0 && l.logger != nil {
		l.logger.Printf("ingest: skipped %d observation rows with bad timestamps", skipped)
	}
	return flush()
}

type fieldGetter func(column string) string

// eachRecord streams a CSV file, resolving columns by header name.
func (l *Loader) eachRecord(name string, fn func(get fieldGetter) error) error {
	file, err := os.Open(filepath.Join(l.cfg.DataDir, name))
	if err != nil {
		return err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, column := range header {
		columns[column] = i
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		get := func(column string) string {
			index, ok := columns[column]
			if !ok || index >= len(record) {
				return ""
			}
			return record[index]
		}
		if err := fn(get); err != nil {
			return err
		}
	}
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", value)
}
