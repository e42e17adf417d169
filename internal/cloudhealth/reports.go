package cloudhealth

import (
	"context"
	"encoding/json"
	"fmt"
)

// ListDatasets returns every dataset visible to the session, with its
// report count, in server order. Failure here is fatal for a run: a
// partial dataset list is not usable.
func (s *Session) ListDatasets(ctx context.Context) ([]Dataset, error) {
	resp, err := s.execute(ctx, datasetsQuery, nil, s.timeout)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}

	var payload struct {
		DataSources []Dataset `json:"dataSources"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode datasets response: %v", ErrAPI, err)
	}
	return payload.DataSources, nil
}

// ListReports returns the lightweight report summaries of one dataset,
// in server order, each tagged with the dataset it came from.
func (s *Session) ListReports(ctx context.Context, dataset Dataset) ([]ReportSummary, error) {
	resp, err := s.execute(ctx, reportsQuery, map[string]any{"dataset": dataset.Name}, s.timeout)
	if err != nil {
		return nil, fmt.Errorf("list reports for dataset %q: %w", dataset.Name, err)
	}

	var payload struct {
		FlexReports []ReportSummary `json:"flexReports"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode reports response for dataset %q: %v", ErrAPI, dataset.Name, err)
	}

	reports := payload.FlexReports
	for i := range reports {
		reports[i].DatasetID = dataset.ID
		reports[i].DatasetName = dataset.Name
	}
	return reports, nil
}

// FetchDefinition downloads the full definition of one report. Raw holds
// the verbatim response body; that is what backups write to disk.
func (s *Session) FetchDefinition(ctx context.Context, reportID string) (*ReportDefinition, error) {
	resp, err := s.execute(ctx, reportQuery, map[string]any{"id": reportID}, s.fetchTimeout)
	if err != nil {
		return nil, fmt.Errorf("fetch report %q: %w", reportID, err)
	}

	var payload struct {
		Node ReportDefinition `json:"node"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode report %q: %v", ErrAPI, reportID, err)
	}

	def := payload.Node
	def.Raw = resp.Raw
	return &def, nil
}

// CreateReport replays a saved definition as a new FlexReport and
// returns the new report id.
func (s *Session) CreateReport(ctx context.Context, input CreateReportInput) (string, error) {
	resp, err := s.execute(ctx, createReportMutation, map[string]any{"input": input}, s.timeout)
	if err != nil {
		return "", fmt.Errorf("create report %q: %w", input.Name, err)
	}

	var payload struct {
		CreateFlexReport struct {
			ID string `json:"id"`
		} `json:"createFlexReport"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return "", fmt.Errorf("%w: decode create response: %v", ErrAPI, err)
	}
	if payload.CreateFlexReport.ID == "" {
		return "", fmt.Errorf("%w: no report id in create response", ErrAPI)
	}
	return payload.CreateFlexReport.ID, nil
}
