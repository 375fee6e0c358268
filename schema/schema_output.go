package schema

// ZoneDefinition is one row of the zone table shown by `hrzones zones`.
type ZoneDefinition struct {
	Zone        string `json:"zone"`
	Range       string `json:"range"`
	Description string `json:"description"`
}

// ZonesRenderModel contains everything needed to display the zone table.
type ZonesRenderModel struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Zones       []ZoneDefinition `json:"zones"`
	Gap         string           `json:"gap"`
}

// BuildZonesRenderModel assembles the zone table from ZoneBoundaries.
func BuildZonesRenderModel() ZonesRenderModel {
	defs := make([]ZoneDefinition, 0, ZoneCount)
	for _, b := range ZoneBoundaries {
		defs = append(defs, ZoneDefinition{
			Zone:        b.Zone.String(),
			Range:       b.Range(),
			Description: b.Description,
		})
	}
	return ZonesRenderModel{
		Title:       "Heart Rate Zones",
		Description: "Every heart-rate sample is classified into one of these bands (bpm).",
		Zones:       defs,
		Gap:         "Samples from 172 up to and including 179 bpm belong to no zone and are dropped.",
	}
}
