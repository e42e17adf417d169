package operations

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cloudhealth-ps/flexreports-backup/internal/cloudhealth"
)

func listFixture() *fakeAPI {
	return &fakeAPI{
		datasets: []cloudhealth.Dataset{
			{ID: "ds-a", Name: "aws-usage", ReportCount: 3},
			{ID: "ds-b", Name: "azure-usage", ReportCount: 1},
		},
		reports: map[string][]cloudhealth.ReportSummary{
			"aws-usage": {
				summaryReport("r1", "zeta report", "alice", "aws-usage"),
				summaryReport("r2", "Alpha Report", "bob", "aws-usage"),
				summaryReport("r3", "alpha report", "carol", "aws-usage"),
			},
			"azure-usage": {
				summaryReport("r4", "Beta Report", "dave", "azure-usage"),
			},
		},
	}
}

func TestListReports_SortedCaseInsensitiveStable(t *testing.T) {
	op, _ := newTestOperator(t, listFixture(), t.TempDir())

	reports, err := op.ListReports(context.Background())
	if err != nil {
		t.Fatalf("ListReports returned error: %v", err)
	}

	wantOrder := []string{"r2", "r3", "r4", "r1"}
	if len(reports) != len(wantOrder) {
		t.Fatalf("got %d reports, want %d", len(reports), len(wantOrder))
	}
	for i, id := range wantOrder {
		if reports[i].ID != id {
			t.Errorf("position %d = %s (%q), want %s", i, reports[i].ID, reports[i].Name, id)
		}
	}
}

func TestListReports_CSVIdempotent(t *testing.T) {
	render := func() []byte {
		op, _ := newTestOperator(t, listFixture(), t.TempDir())
		reports, err := op.ListReports(context.Background())
		if err != nil {
			t.Fatalf("ListReports returned error: %v", err)
		}
		var buf bytes.Buffer
		if err := WriteCSV(&buf, reports); err != nil {
			t.Fatalf("WriteCSV returned error: %v", err)
		}
		return buf.Bytes()
	}

	first := render()
	second := render()
	if !bytes.Equal(first, second) {
		t.Errorf("CSV output differs between identical runs:\n%s\n---\n%s", first, second)
	}

	want := "Alpha Report,r2,bob,aws-usage\n" +
		"alpha report,r3,carol,aws-usage\n" +
		"Beta Report,r4,dave,azure-usage\n" +
		"zeta report,r1,alice,aws-usage\n"
	if string(first) != want {
		t.Errorf("CSV content:\n%s\nwant:\n%s", first, want)
	}
}

func TestWriteCSVFile_CreatesMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "out", ListFilename)

	err := WriteCSVFile(path, []cloudhealth.ReportSummary{
		summaryReport("r1", "Spend", "alice", "aws-usage"),
	})
	if err != nil {
		t.Fatalf("WriteCSVFile returned error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %q: %v", path, err)
	}
	if string(got) != "Spend,r1,alice,aws-usage\n" {
		t.Errorf("CSV = %q", got)
	}
}

func TestWriteCSV_NoHeader(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []cloudhealth.ReportSummary{
		summaryReport("r1", "Spend", "alice", "aws-usage"),
	})
	if err != nil {
		t.Fatalf("WriteCSV returned error: %v", err)
	}
	if got := buf.String(); got != "Spend,r1,alice,aws-usage\n" {
		t.Errorf("CSV = %q", got)
	}
}
