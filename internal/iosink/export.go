package iosink

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/stylemetrics/internal/contract"
	"github.com/huangsam/stylemetrics/internal/parquet"
)

// ExportRuns writes every stored run and metric value to two Parquet files
// named after outputFile. Progress lines go to w.
func ExportRuns(store contract.RunStore, outputFile string, w io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("run sink is disabled. Set --sink-backend to export runs")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get sink status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no runs found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total metric values: %d\n", status.TotalValues)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	values, err := store.GetAllMetricValues()
	if err != nil {
		return fmt.Errorf("failed to retrieve metric values: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(runs), runsFile)

	valuesFile := outputFile + ".metric_values.parquet"
	if err := parquet.WriteMetricValuesParquet(parquet.ConvertMetricValueRecords(values), valuesFile); err != nil {
		return fmt.Errorf("failed to write metric values: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d metric values to: %s\n", len(values), valuesFile)
	return nil
}
