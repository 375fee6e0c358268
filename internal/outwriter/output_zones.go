package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/hrzones/internal/contract"
	"github.com/huangsam/hrzones/schema"
	"github.com/olekukonko/tablewriter"
)

// PrintZoneDefinitions displays the zone table. It needs no remote access.
func PrintZoneDefinitions(cfg *contract.Config) error {
	model := schema.BuildZonesRenderModel()

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, model)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeZonesCSV(w, model)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return printZonesText(w, model, cfg.UseColors)
		}, "Wrote text")
	}
}

func writeZonesCSV(w io.Writer, model schema.ZonesRenderModel) error {
	return writeCSVWithHeader(w, []string{"zone", "range", "description"}, func(cw *csv.Writer) error {
		for _, z := range model.Zones {
			if err := cw.Write([]string{z.Zone, z.Range, z.Description}); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

func printZonesText(w io.Writer, model schema.ZonesRenderModel, useColors bool) error {
	if _, err := fmt.Fprintf(w, "❤️  %s\n%s\n\n", model.Title, model.Description); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Zone", "Range (bpm)", "Description"})
	var data [][]string
	for _, z := range model.Zones {
		label := z.Zone
		if useColors {
			label = contract.GetColorLabel(z.Zone)
		}
		data = append(data, []string{label, z.Range, z.Description})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	gap := model.Gap
	if useColors {
		gap = contract.GapColor.Sprint(gap)
	}
	_, err := fmt.Fprintf(w, "\n%s\n", gap)
	return err
}
