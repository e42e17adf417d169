package operations

import (
	"context"
	"fmt"

	"github.com/cloudhealth-ps/flexreports-backup/internal/cloudhealth"
)

// fakeAPI is an in-memory API implementation for orchestration tests.
type fakeAPI struct {
	datasets    []cloudhealth.Dataset
	datasetsErr error

	reports    map[string][]cloudhealth.ReportSummary
	reportsErr map[string]error

	definitions map[string]*cloudhealth.ReportDefinition
	fetchErr    map[string]error

	createdID  string
	createErr  error
	lastCreate *cloudhealth.CreateReportInput

	listReportsCalls int
	fetchCalls       int
}

func (f *fakeAPI) ListDatasets(ctx context.Context) ([]cloudhealth.Dataset, error) {
	if f.datasetsErr != nil {
		return nil, f.datasetsErr
	}
	return f.datasets, nil
}

func (f *fakeAPI) ListReports(ctx context.Context, dataset cloudhealth.Dataset) ([]cloudhealth.ReportSummary, error) {
	f.listReportsCalls++
	if err := f.reportsErr[dataset.Name]; err != nil {
		return nil, err
	}
	return f.reports[dataset.Name], nil
}

func (f *fakeAPI) FetchDefinition(ctx context.Context, reportID string) (*cloudhealth.ReportDefinition, error) {
	f.fetchCalls++
	if err := f.fetchErr[reportID]; err != nil {
		return nil, err
	}
	def, ok := f.definitions[reportID]
	if !ok {
		return nil, fmt.Errorf("no definition for %q", reportID)
	}
	return def, nil
}

func (f *fakeAPI) CreateReport(ctx context.Context, input cloudhealth.CreateReportInput) (string, error) {
	f.lastCreate = &input
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.createdID, nil
}

// summaryReport builds a ReportSummary for a fake dataset.
func summaryReport(id, name, createdBy, datasetName string) cloudhealth.ReportSummary {
	return cloudhealth.ReportSummary{
		ID:          id,
		Name:        name,
		CreatedBy:   createdBy,
		DatasetID:   "ds-" + datasetName,
		DatasetName: datasetName,
	}
}

// rawDefinition builds the verbatim payload stored for one report, the
// same shape the live endpoint returns.
func rawDefinition(id, name string) *cloudhealth.ReportDefinition {
	raw := fmt.Sprintf(
		`{"data":{"node":{"id":%q,"name":%q,"createdBy":"tester","query":{"sqlStatement":"SELECT 1","dataset":"usage","dataGranularity":"daily","timeRange":{"last":30}}}}}`,
		id, name,
	)
	return &cloudhealth.ReportDefinition{
		ID:   id,
		Name: name,
		Raw:  []byte(raw),
	}
}
