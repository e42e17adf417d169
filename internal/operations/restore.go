package operations

import (
	"context"
	"fmt"
	"os"

	"github.com/cloudhealth-ps/flexreports-backup/internal/cloudhealth"
)

// RestoredSuffix is appended to the report name on restore so the new
// report never collides with the original.
const RestoredSuffix = " RESTORED FROM BACKUP"

// Restore reads one previously saved report definition and replays it
// as a create mutation. The name, dataset, SQL, granularity, limit, and
// the relative time range (timeRange.last) survive the round trip;
// absolute from/to bounds, the exclude-current flag, and notification
// settings are dropped. The original name becomes the description of
// the new report. Returns the new report id.
func (op *Operator) Restore(ctx context.Context, filePath string) (string, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	def, err := cloudhealth.ParseDefinition(raw)
	if err != nil {
		return "", fmt.Errorf("%w: parse %q: %v", ErrNotFound, filePath, err)
	}
	if def.Name == "" {
		return "", fmt.Errorf("%w: %q is not a saved report definition", ErrNotFound, filePath)
	}

	input := cloudhealth.CreateReportInput{
		Name:            def.Name + RestoredSuffix,
		Description:     def.Name,
		SQLStatement:    def.Query.SQLStatement,
		Dataset:         def.Query.Dataset,
		DataGranularity: def.Query.DataGranularity,
		Limit:           def.Query.Limit,
		TimeRangeLast:   def.Query.TimeRange.Last,
	}

	op.log.Info("restoring report",
		"name", def.Name,
		"source", filePath,
	)

	newID, err := op.api.CreateReport(ctx, input)
	if err != nil {
		return "", err
	}

	fmt.Fprintf(op.out, "Restored %q as new report %s\n", def.Name, newID)
	return newID, nil
}
