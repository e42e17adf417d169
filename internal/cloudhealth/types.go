package cloudhealth

import "encoding/json"

// Dataset is one FlexReport dataset scope, fetched fresh each run.
type Dataset struct {
	ID          string `json:"id"`
	Name        string `json:"datasetName"`
	ReportCount int    `json:"reportCount"`
}

// ReportSummary is the lightweight listing entry for one FlexReport,
// tagged with the dataset it was discovered under.
type ReportSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CreatedBy   string `json:"createdBy"`
	DatasetID   string `json:"-"`
	DatasetName string `json:"-"`
}

// TimeRange is the report query window. Pointer fields distinguish
// absent from zero; saved backups may omit any of them.
type TimeRange struct {
	Last           *int   `json:"last,omitempty"`
	From           string `json:"from,omitempty"`
	To             string `json:"to,omitempty"`
	ExcludeCurrent *bool  `json:"excludeCurrent,omitempty"`
}

// ReportQuery is the SQL-backed query block of a FlexReport definition.
type ReportQuery struct {
	SQLStatement           string    `json:"sqlStatement"`
	Dataset                string    `json:"dataset"`
	DataGranularity        string    `json:"dataGranularity"`
	NeedBackLinkingForTags *bool     `json:"needBackLinkingForTags,omitempty"`
	Limit                  *int      `json:"limit,omitempty"`
	TimeRange              TimeRange `json:"timeRange"`
}

// Notification is the report's scheduled-delivery block.
type Notification struct {
	Frequency  string   `json:"frequency,omitempty"`
	Recipients []string `json:"recipients,omitempty"`
}

// ReportDefinition is the full definition of one FlexReport. Raw holds
// the verbatim response body; backups write Raw to disk unmodified so a
// restore replays exactly what the server returned.
type ReportDefinition struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	CreatedBy    string        `json:"createdBy"`
	Query        ReportQuery   `json:"query"`
	Notification *Notification `json:"notification,omitempty"`

	Raw []byte `json:"-"`
}

// CreateReportInput carries the fields of the createFlexReport mutation.
type CreateReportInput struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	SQLStatement    string `json:"sqlStatement"`
	Dataset         string `json:"dataset,omitempty"`
	DataGranularity string `json:"dataGranularity,omitempty"`
	Limit           *int   `json:"limit,omitempty"`
	TimeRangeLast   *int   `json:"timeRangeLast,omitempty"`
}

// savedDefinition mirrors the on-disk shape of a backed-up report:
// the verbatim GraphQL response of the definition query.
type savedDefinition struct {
	Data struct {
		Node ReportDefinition `json:"node"`
	} `json:"data"`
}

// ParseDefinition decodes a backed-up report file body into a
// ReportDefinition, preserving the raw bytes.
func ParseDefinition(raw []byte) (*ReportDefinition, error) {
	var saved savedDefinition
	if err := json.Unmarshal(raw, &saved); err != nil {
		return nil, err
	}
	def := saved.Data.Node
	def.Raw = raw
	return &def, nil
}
