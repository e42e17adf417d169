package operations

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cloudhealth-ps/flexreports-backup/internal/cloudhealth"
)

// ListFilename is the default CSV output file of the list operation.
const ListFilename = "backup-list.csv"

// ListReports enumerates every report across all datasets and returns
// the summaries sorted by name, case-insensitively. The sort is stable
// so ties keep their discovery order, making repeated runs against an
// unchanged remote byte-identical.
func (op *Operator) ListReports(ctx context.Context) ([]cloudhealth.ReportSummary, error) {
	reports, _, err := op.collectReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect reports: %w", err)
	}

	sort.SliceStable(reports, func(i, j int) bool {
		return strings.ToLower(reports[i].Name) < strings.ToLower(reports[j].Name)
	})
	return reports, nil
}

// WriteCSV writes the report summaries as header-less CSV rows with
// columns name, id, createdBy, dataset_name.
func WriteCSV(w io.Writer, reports []cloudhealth.ReportSummary) error {
	cw := csv.NewWriter(w)
	for _, report := range reports {
		row := []string{report.Name, report.ID, report.CreatedBy, report.DatasetName}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write CSV row for %q: %w", report.Name, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush CSV: %w", err)
	}
	return nil
}

// WriteCSVFile writes the report summaries to the given path, creating
// the parent directory when it does not exist yet.
func WriteCSVFile(path string, reports []cloudhealth.ReportSummary) error {
	if err := EnsureDirectoryExist(filepath.Dir(path)); err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}

	if err := WriteCSV(out, reports); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %q: %w", path, err)
	}
	return nil
}
