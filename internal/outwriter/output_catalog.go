package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gradekit/gradekit/internal/contract"
	"github.com/gradekit/gradekit/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteCatalogDefinitions outputs the milestone catalog, dispatching based on
// the output format configured.
func WriteCatalogDefinitions(defs []schema.MilestoneDefinition, categories []schema.Category, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, catalogRenderModel(defs, categories))
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"id", "desc", "weight", "files", "criteria_count"}
			return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
				for _, d := range defs {
					rec := []string{
						strconv.Itoa(d.ID),
						d.Desc,
						strconv.Itoa(d.Weight),
						strings.Join(d.Files, "|"),
						strconv.Itoa(len(d.Criteria)),
					}
					if err := csvWriter.Write(rec); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCatalogTable(defs, categories, cfg, w)
		}, "Wrote table")
	}
}

// catalogRenderModel shapes the catalog for JSON output.
func catalogRenderModel(defs []schema.MilestoneDefinition, categories []schema.Category) map[string]any {
	type jsonMilestone struct {
		ID       int      `json:"id"`
		Desc     string   `json:"desc"`
		Weight   int      `json:"weight"`
		Files    []string `json:"files,omitempty"`
		Criteria []string `json:"criteria,omitempty"`
	}
	milestones := make([]jsonMilestone, len(defs))
	total := 0
	for i, d := range defs {
		milestones[i] = jsonMilestone{ID: d.ID, Desc: d.Desc, Weight: d.Weight, Files: d.Files, Criteria: d.Criteria}
		total += d.Weight
	}
	return map[string]any{
		"milestones":   milestones,
		"categories":   categories,
		"total_weight": total,
	}
}

// writeCatalogTable generates and writes the human-readable catalog table.
func writeCatalogTable(defs []schema.MilestoneDefinition, categories []schema.Category, cfg *contract.Config, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"ID", "Milestone", "Weight", "Files"})

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	descWidth := getMaxTableDescWidth(cfg)
	total := 0
	var data [][]string
	for _, d := range defs {
		total += d.Weight
		data = append(data, []string{
			strconv.Itoa(d.ID),
			contract.TruncateText(d.Desc, descWidth),
			strconv.Itoa(d.Weight),
			contract.TruncateText(strings.Join(d.Files, ", "), descWidth),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "%d milestones, total weight %d\n", len(defs), total); err != nil {
		return err
	}
	for _, c := range categories {
		ids := make([]string, len(c.IDs))
		for i, id := range c.IDs {
			ids[i] = strconv.Itoa(id)
		}
		if _, err := fmt.Fprintf(writer, "  %-32s milestones %s\n", c.Name, strings.Join(ids, ", ")); err != nil {
			return err
		}
	}
	return nil
}
