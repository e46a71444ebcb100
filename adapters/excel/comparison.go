package excel

import (
	"bytes"
	"sort"

	"github.com/xuri/excelize/v2"

	"neurosym/domain/experiment"
)

// ComparisonWriter renders a batch of experiment records as a workbook with
// one row per run and one column per metric, the spreadsheet equivalent of
// the tracker's CompareRuns view.
type ComparisonWriter struct{}

// NewComparisonWriter creates a comparison writer
func NewComparisonWriter() *ComparisonWriter {
	return &ComparisonWriter{}
}

// Write renders the records into xlsx bytes
func (w *ComparisonWriter) Write(records []*experiment.Record) ([]byte, error) {
	f := excelize.NewFile()

	sheet := "Sheet1"
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
		f.SetActiveSheet(idx)
	}

	metricNames := collectMetricNames(records)
	headers := append([]string{"run_id", "status"}, metricNames...)

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for r, record := range records {
		rowIdx := r + 2
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx)
		if err := f.SetCellValue(sheet, cell, record.RunID.String()); err != nil {
			return nil, err
		}
		cell, _ = excelize.CoordinatesToCellName(2, rowIdx)
		if err := f.SetCellValue(sheet, cell, string(record.Status)); err != nil {
			return nil, err
		}
		for c, name := range metricNames {
			if value, ok := record.Metrics[name]; ok {
				cell, _ := excelize.CoordinatesToCellName(c+3, rowIdx)
				if err := f.SetCellValue(sheet, cell, value); err != nil {
					return nil, err
				}
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// collectMetricNames unions the metric keys of all records, sorted so the
// column order is stable across exports.
func collectMetricNames(records []*experiment.Record) []string {
	seen := make(map[string]bool)
	for _, r := range records {
		for name := range r.Metrics {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
