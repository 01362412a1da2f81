package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"hrtool/internal/amqp"
	"hrtool/internal/cache"
	"hrtool/internal/charts"
	"hrtool/internal/core"
	"hrtool/internal/dataset"
	"hrtool/internal/log"
	"hrtool/internal/metrics"
	"hrtool/internal/tabfile"
)

// ErrUnreadableFile wraps decoding failures of an uploaded file.
var ErrUnreadableFile = errors.New("uploaded file could not be read")

// Publisher announces dataset rewrites. *amqp.Client satisfies it.
type Publisher interface {
	PublishDatasetSaved(ctx context.Context, rows int, reason string) error
}

// UploadResult is what an accepted upload reports back.
type UploadResult struct {
	Table   core.Table
	Format  tabfile.Format
	Missing []string
}

// EmployeeService orchestrates dataset operations across the store, the
// dashboard cache and change notifications.
type EmployeeService struct {
	store      *dataset.Store
	publisher  Publisher
	dashboards cache.Cache[charts.Dashboard]
	log        *log.StructuredLogger
}

// NewEmployeeService wires a service. publisher and dashboards may be nil.
func NewEmployeeService(store *dataset.Store, publisher Publisher, dashboards cache.Cache[charts.Dashboard], logger *log.Logger) *EmployeeService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &EmployeeService{
		store:      store,
		publisher:  publisher,
		dashboards: dashboards,
		log:        log.NewStructuredLogger(logger.WithComponent(log.ComponentEmployee)),
	}
}

// Dataset returns the current normalized table.
func (s *EmployeeService) Dataset(ctx context.Context) (core.Table, error) {
	t, err := s.store.Load(ctx)
	if err != nil {
		return core.Table{}, err
	}
	metrics.DatasetRows.Set(float64(t.Len()))
	return t, nil
}

// Upload decodes r, warns about absent schema columns, then replaces the
// whole dataset with the normalized content.
func (s *EmployeeService) Upload(ctx context.Context, r io.Reader, filename string) (UploadResult, error) {
	format := tabfile.DetectFormat(filename)
	raw, err := tabfile.Read(r, filename)
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: %w", ErrUnreadableFile, err)
	}

	missing := core.MissingColumns(raw.Header)
	table, err := s.store.Save(ctx, raw)
	if err != nil {
		metrics.SaveErrors.Inc()
		return UploadResult{}, fmt.Errorf("save upload: %w", err)
	}

	metrics.Uploads.Inc()
	metrics.MissingColumns.Add(float64(len(missing)))
	s.log.LogUpload(ctx, filename, string(format), table.Len(), missing)
	s.afterSave(ctx, table.Len(), amqp.ReasonUpload)

	return UploadResult{Table: table, Format: format, Missing: missing}, nil
}

// AddEmployee validates the form and appends one record. Validation errors
// are core sentinels and nothing is written.
func (s *EmployeeService) AddEmployee(ctx context.Context, form core.EmployeeForm) (core.Employee, core.Table, error) {
	e, err := core.NewEmployee(form)
	if err != nil {
		return core.Employee{}, core.Table{}, err
	}

	table, err := s.store.Append(ctx, e)
	if err != nil {
		metrics.SaveErrors.Inc()
		return core.Employee{}, core.Table{}, fmt.Errorf("append employee: %w", err)
	}

	metrics.EmployeesAdded.Inc()
	s.log.LogEmployeeAdded(ctx, e.FullName(), e.Department, e.Seniority, table.Len())
	s.afterSave(ctx, table.Len(), amqp.ReasonAppend)

	return e, table, nil
}

// AppendAll appends records in one load/save cycle. Records are stored as
// given.
func (s *EmployeeService) AppendAll(ctx context.Context, employees []core.Employee, reason string) (core.Table, error) {
	current, err := s.store.Load(ctx)
	if err != nil {
		return core.Table{}, err
	}
	for _, e := range employees {
		current = current.Append(e)
	}
	table, err := s.store.Save(ctx, current.Raw())
	if err != nil {
		metrics.SaveErrors.Inc()
		return core.Table{}, fmt.Errorf("append employees: %w", err)
	}
	s.afterSave(ctx, table.Len(), reason)
	return table, nil
}

// Dashboard returns KPIs and charts for the filtered dataset. The dataset is
// always loaded; only the chart computation is cached, keyed by content and
// filter, so writes from other processes are picked up immediately.
func (s *EmployeeService) Dashboard(ctx context.Context, f core.Filter) (charts.Dashboard, error) {
	t, err := s.Dataset(ctx)
	if err != nil {
		return charts.Dashboard{}, err
	}
	if s.dashboards == nil {
		return charts.Build(t, f), nil
	}

	key := t.Persisted().Fingerprint() + "|" + f.Key()
	if d, ok := s.dashboards.Get(key); ok {
		metrics.CacheHit.Inc()
		return d, nil
	}
	metrics.CacheMiss.Inc()

	d := charts.Build(t, f)
	s.dashboards.Set(key, d)
	return d, nil
}

// Export writes the persisted form of the dataset as CSV, xz-compressed CSV
// or XLSX.
func (s *EmployeeService) Export(ctx context.Context, w io.Writer, format tabfile.Format) error {
	t, err := s.Dataset(ctx)
	if err != nil {
		return err
	}
	switch format {
	case tabfile.FormatCSV:
		return tabfile.WriteCSV(w, t.Persisted())
	case tabfile.FormatCSVXZ:
		return tabfile.WriteCSVXZ(w, t.Persisted())
	case tabfile.FormatXLSX:
		return tabfile.WriteXLSX(w, t.Persisted())
	default:
		return fmt.Errorf("%w: %s", tabfile.ErrUnsupported, format)
	}
}

// Ping reports whether the backend is readable.
func (s *EmployeeService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *EmployeeService) afterSave(ctx context.Context, rows int, reason string) {
	metrics.DatasetRows.Set(float64(rows))
	if s.dashboards != nil {
		s.dashboards.Purge()
		metrics.CachePurge.Inc()
	}

	if s.publisher == nil {
		slog.DebugContext(ctx, "No publisher configured, skipping dataset saved message")
		return
	}
	// The save already succeeded; a lost notification is repaired by the
	// worker's periodic resync.
	if err := s.publisher.PublishDatasetSaved(ctx, rows, reason); err != nil {
		metrics.PublishErrors.Inc()
		slog.ErrorContext(ctx, "Failed to publish dataset saved message",
			log.FieldRows, rows, "reason", reason, log.FieldError, err)
		return
	}
	metrics.Published.Inc()
}
