package operations

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/cloudhealth-ps/flexreports-backup/internal/cloudhealth"
	"github.com/cloudhealth-ps/flexreports-backup/internal/config"
	"github.com/cloudhealth-ps/flexreports-backup/internal/logger"
)

var (
	// ErrArchive indicates the backup zip could not be written. Staged
	// report files are left on disk for manual recovery.
	ErrArchive = errors.New("archive creation failed")
	// ErrNotFound indicates a restore target file is missing or not a
	// saved report definition.
	ErrNotFound = errors.New("backup file not found")
)

// API is the narrow CloudHealth surface the operations need. Session
// satisfies it; tests substitute a fake.
type API interface {
	ListDatasets(ctx context.Context) ([]cloudhealth.Dataset, error)
	ListReports(ctx context.Context, dataset cloudhealth.Dataset) ([]cloudhealth.ReportSummary, error)
	FetchDefinition(ctx context.Context, reportID string) (*cloudhealth.ReportDefinition, error)
	CreateReport(ctx context.Context, input cloudhealth.CreateReportInput) (string, error)
}

// Option overrides an Operator default.
type Option func(*Operator)

// Operator drives the backup, restore, and list operations over one
// authenticated API session.
type Operator struct {
	cfg config.Config
	api API
	log logger.Logger
	out io.Writer
	now func() time.Time
}

// WithOutput redirects progress and summary output, which defaults to
// stdout.
func WithOutput(out io.Writer) Option {
	return func(op *Operator) {
		if out != nil {
			op.out = out
		}
	}
}

// WithClock overrides the clock used for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(op *Operator) {
		if now != nil {
			op.now = now
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(log logger.Logger) Option {
	return func(op *Operator) {
		if log != nil {
			op.log = log
		}
	}
}

// NewOperator returns an Operator bound to one API session.
func NewOperator(cfg config.Config, api API, opts ...Option) *Operator {
	op := &Operator{
		cfg: cfg,
		api: api,
		log: logger.Global(),
		out: os.Stdout,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(op)
	}
	return op
}

// collectReports enumerates every dataset and flattens the report
// summaries into one ordered list. Datasets with no reports are skipped
// without a query; a dataset that fails to enumerate is logged and
// skipped, and the run continues. The returned count is the number of
// datasets discovered, including skipped ones.
func (op *Operator) collectReports(ctx context.Context) ([]cloudhealth.ReportSummary, int, error) {
	datasets, err := op.api.ListDatasets(ctx)
	if err != nil {
		return nil, 0, err
	}

	var reports []cloudhealth.ReportSummary
	for _, dataset := range datasets {
		if dataset.ReportCount == 0 {
			op.log.Debug("skipping dataset with no reports", "dataset", dataset.Name)
			continue
		}
		list, err := op.api.ListReports(ctx, dataset)
		if err != nil {
			op.log.Warn("skipping dataset",
				"dataset", dataset.Name,
				"error", err.Error(),
			)
			continue
		}
		reports = append(reports, list...)
	}
	return reports, len(datasets), nil
}
