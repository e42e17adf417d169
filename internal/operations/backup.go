package operations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cloudhealth-ps/flexreports-backup/internal/cloudhealth"
)

// ReportFailure records one report that could not be downloaded.
type ReportFailure struct {
	Report cloudhealth.ReportSummary
	Reason string
}

// RunSummary is the outcome of one backup run. Collected preserves
// enumeration order; Failures preserves attempt order.
type RunSummary struct {
	Timestamp    string
	Datasets     int
	Collected    []cloudhealth.ReportSummary
	Succeeded    int
	Failures     []ReportFailure
	ArchivePath  string
	ManifestPath string
}

// Backup runs the full pipeline: enumerate datasets and reports,
// download each definition, stage it to a temp file, then archive the
// staged files and clean up. Per-report failures are recorded and the
// run continues; a nil error with an empty Collected list means there
// was nothing to back up.
func (op *Operator) Backup(ctx context.Context) (*RunSummary, error) {
	summary := &RunSummary{Timestamp: op.now().Format(op.cfg.Backup.TimestampFormat)}

	fmt.Fprintln(op.out, "Fetching datasets...")
	reports, datasetCount, err := op.collectReports(ctx)
	if err != nil {
		return summary, fmt.Errorf("collect reports: %w", err)
	}
	summary.Datasets = datasetCount
	summary.Collected = reports

	if len(reports) == 0 {
		fmt.Fprintln(op.out, "No FlexReports found to backup.")
		return summary, nil
	}

	if err := EnsureDirectoryExist(op.cfg.Backup.OutputDirectory); err != nil {
		return summary, err
	}

	fmt.Fprintf(op.out, "Found %d FlexReport(s). Starting download...\n", len(reports))

	tempFiles, stagedByID := op.stageReports(ctx, reports, summary)

	if len(tempFiles) == 0 {
		fmt.Fprintln(op.out, "All reports failed to download; no archive created.")
		return summary, fmt.Errorf("all %d reports failed to download", len(reports))
	}

	archivePath := filepath.Join(
		op.cfg.Backup.OutputDirectory,
		fmt.Sprintf("%s_%s.zip", op.cfg.Backup.ArchivePrefix, summary.Timestamp),
	)

	fmt.Fprintln(op.out, "Creating backup archive...")
	if err := CreateArchive(archivePath, tempFiles); err != nil {
		op.log.Error("archive creation failed",
			"archive", archivePath,
			"staged_files", len(tempFiles),
			"error", err.Error(),
		)
		return summary, fmt.Errorf("staged files kept in %s: %w", op.cfg.Backup.OutputDirectory, err)
	}
	summary.ArchivePath = archivePath

	if path, err := op.writeManifest(summary, stagedByID); err != nil {
		op.log.Warn("manifest write failed", "error", err.Error())
	} else {
		summary.ManifestPath = path
	}

	// Archive is confirmed on disk; only now do the temp files go away.
	op.cleanupTempFiles(tempFiles)

	op.printSummary(summary)
	return summary, nil
}

// stageReports downloads each report in order and writes the verbatim
// definition payload to a temp file. Failures are recorded on the
// summary and skipped; no retry is attempted. The returned map keys
// staged entry names by report id. Distinct reports whose names
// sanitize to the same string get a numeric suffix so no staged file
// or archive entry is ever overwritten.
func (op *Operator) stageReports(
	ctx context.Context,
	reports []cloudhealth.ReportSummary,
	summary *RunSummary,
) ([]string, map[string]string) {
	var tempFiles []string
	stagedByID := make(map[string]string, len(reports))
	nameCounts := make(map[string]int, len(reports))
	total := len(reports)

	for i, report := range reports {
		def, err := op.api.FetchDefinition(ctx, report.ID)
		if err != nil {
			summary.Failures = append(summary.Failures, ReportFailure{Report: report, Reason: err.Error()})
			fmt.Fprintf(op.out, "[%d/%d] Failed: %s (%s)\n", i+1, total, report.Name, err)
			continue
		}

		base := SanitizeName(report.Name)
		nameCounts[base]++
		if n := nameCounts[base]; n > 1 {
			op.log.Warn("report name collides after sanitizing",
				"report", report.Name,
				"suffix", n,
			)
			base = fmt.Sprintf("%s_%d", base, n)
		}
		entry := fmt.Sprintf("%s_%s.json", base, summary.Timestamp)
		path := filepath.Join(op.cfg.Backup.OutputDirectory, entry)

		if err := os.WriteFile(path, def.Raw, 0o644); err != nil {
			summary.Failures = append(summary.Failures, ReportFailure{Report: report, Reason: err.Error()})
			fmt.Fprintf(op.out, "[%d/%d] Failed: %s (%s)\n", i+1, total, report.Name, err)
			continue
		}

		tempFiles = append(tempFiles, path)
		stagedByID[report.ID] = entry
		summary.Succeeded++
		fmt.Fprintf(op.out, "[%d/%d] Downloaded: %s\n", i+1, total, report.Name)
	}
	return tempFiles, stagedByID
}

// cleanupTempFiles removes staged report files. Errors are logged and
// do not stop cleanup of the remaining files.
func (op *Operator) cleanupTempFiles(files []string) {
	for _, file := range files {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			op.log.Warn("could not delete temporary file",
				"file", file,
				"error", err.Error(),
			)
		}
	}
}

func (op *Operator) printSummary(summary *RunSummary) {
	fmt.Fprintln(op.out, "==================================================")
	fmt.Fprintln(op.out, "Backup completed successfully!")
	fmt.Fprintf(op.out, "Total datasets processed: %d\n", summary.Datasets)
	fmt.Fprintf(op.out, "Total reports backed up: %d\n", summary.Succeeded)
	fmt.Fprintf(op.out, "Total reports failed: %d\n", len(summary.Failures))
	for _, failure := range summary.Failures {
		fmt.Fprintf(op.out, "  - %s: %s\n", failure.Report.Name, failure.Reason)
	}
	fmt.Fprintf(op.out, "Archive file: %s\n", summary.ArchivePath)
	fmt.Fprintln(op.out, "==================================================")
}
