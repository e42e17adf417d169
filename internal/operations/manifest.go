package operations

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ReportRecord is the manifest entry for one report attempt.
type ReportRecord struct {
	Name    string `json:"name"`
	ID      string `json:"id"`
	Dataset string `json:"dataset"`
	File    string `json:"file,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Manifest describes one backup run. It is written next to the archive
// after the archive is confirmed on disk.
type Manifest struct {
	RunAt     time.Time      `json:"run_at"`
	Archive   string         `json:"archive"`
	Datasets  int            `json:"datasets"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Reports   []ReportRecord `json:"reports"`
}

// Load reads a manifest file.
func (m *Manifest) Load(filePath string) error {
	jsonFile, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("couldn't open manifest file %q: %w", filePath, err)
	}
	defer jsonFile.Close()

	decoder := json.NewDecoder(jsonFile)
	if err := decoder.Decode(m); err != nil {
		return fmt.Errorf("decode manifest JSON: %w", err)
	}
	return nil
}

// Write stores the manifest at the given path.
func (m *Manifest) Write(filePath string) error {
	jsonFile, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("create manifest file %q: %w", filePath, err)
	}
	defer jsonFile.Close()

	encoder := json.NewEncoder(jsonFile)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(m); err != nil {
		return fmt.Errorf("encode manifest JSON: %w", err)
	}
	return nil
}

// writeManifest builds the run manifest from the summary and the
// staged entry names keyed by report id, and writes it beside the
// archive.
func (op *Operator) writeManifest(summary *RunSummary, stagedByID map[string]string) (string, error) {
	manifest := Manifest{
		RunAt:     op.now(),
		Archive:   summary.ArchivePath,
		Datasets:  summary.Datasets,
		Succeeded: summary.Succeeded,
		Failed:    len(summary.Failures),
	}

	for _, report := range summary.Collected {
		record := ReportRecord{
			Name:    report.Name,
			ID:      report.ID,
			Dataset: report.DatasetName,
		}
		if entry, ok := stagedByID[report.ID]; ok {
			record.File = entry
			record.Success = true
		}
		manifest.Reports = append(manifest.Reports, record)
	}
	for i := range manifest.Reports {
		if manifest.Reports[i].Success {
			continue
		}
		for _, failure := range summary.Failures {
			if failure.Report.ID == manifest.Reports[i].ID {
				manifest.Reports[i].Error = failure.Reason
				break
			}
		}
	}

	path := fmt.Sprintf("%s.manifest.json", trimExt(summary.ArchivePath))
	if err := manifest.Write(path); err != nil {
		return "", err
	}
	return path, nil
}

func trimExt(path string) string {
	return path[:len(path)-len(filepath.Ext(path))]
}
