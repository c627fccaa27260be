package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/stylemetrics/internal/contract"
	"github.com/huangsam/stylemetrics/schema"
	"go.yaml.in/yaml/v3"

	"github.com/olekukonko/tablewriter"
)

// WriteRuleResults lists the registered rules. This is a static display
// that needs no project.
func WriteRuleResults(rules []schema.RuleInfo, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rules)
		}, "Wrote JSON")
	case schema.YAMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			if err := enc.Encode(rules); err != nil {
				return fmt.Errorf("failed to encode YAML: %w", err)
			}
			return enc.Close()
		}, "Wrote YAML")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRulesCSV(w, rules)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return errors.New("parquet output is not supported for rules")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRulesTable(w, rules)
		}, "Wrote table")
	}
}

func writeRulesCSV(w io.Writer, rules []schema.RuleInfo) error {
	return writeCSVWithHeader(w, []string{"kind", "id", "mode", "patterns", "description"}, func(cw *csv.Writer) error {
		for _, r := range rules {
			if err := cw.Write([]string{r.Kind, r.ID, r.Mode, strings.Join(r.Patterns, "|"), r.Description}); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

func writeRulesTable(w io.Writer, rules []schema.RuleInfo) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Kind", "ID", "Mode", "Patterns", "Description"})

	data := make([][]string, 0, len(rules))
	for _, r := range rules {
		data = append(data, []string{r.Kind, r.ID, r.Mode, strings.Join(r.Patterns, "\n"), r.Description})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d rules registered\n", len(rules))
	return err
}
