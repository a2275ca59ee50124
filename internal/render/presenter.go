package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"armsatlas/internal/geo"
	"armsatlas/internal/model"
)

// Color scale per activity mode: sequential blue/red/magenta, diverging
// red-blue for the signed net balance.
var colorScales = map[model.ActivityMode]string{
	model.ActivitySupplied: "Blues",
	model.ActivityReceived: "Reds",
	model.ActivityNet:      "RdBu",
	model.ActivityTotal:    "Magenta",
}

// Build assembles the renderable map description for one query. focusCode is
// the map code of the focus region when one is set; it selects the boundary
// geometry for the highlight overlay.
func Build(rows []model.AggregateRow, q model.Query, world *geo.World, focusCode string) (*Spec, error) {
	choropleth := Choropleth{
		Locations:     make([]string, len(rows)),
		FeatureIDKey:  "properties.iso_a3",
		Z:             make([]float64, len(rows)),
		Text:          make([]string, len(rows)),
		CustomData:    make([][]float64, len(rows)),
		HoverTemplate: hoverTemplate(q),
		Projection:    "equirectangular",
	}

	maxAbs := 0.0
	for i, row := range rows {
		choropleth.Locations[i] = row.Code
		choropleth.Z[i] = row.LogValue
		choropleth.Text[i] = row.Region
		if q.Activity.Composite() {
			choropleth.CustomData[i] = []float64{row.Value, row.Supplied, row.Received}
		} else {
			choropleth.CustomData[i] = []float64{row.Value}
		}
		if abs := math.Abs(row.Value); abs > maxAbs {
			maxAbs = abs
		}
	}

	tickVals, tickText, err := ColorbarTicks(maxAbs, q.Activity == model.ActivityNet)
	if err != nil {
		return nil, err
	}

	spec := &Spec{
		Title:      Title(q),
		ColorScale: colorScales[q.Activity],
		Choropleth: choropleth,
		Colorbar: Colorbar{
			Title:     q.Unit,
			TickVals:  tickVals,
			TickText:  tickText,
			Len:       0.8,
			Thickness: 10,
		},
		Layout:   defaultLayout(),
		Geometry: world.FeatureCollection(),
	}
	if q.Activity == model.ActivityNet {
		midpoint := 0.0
		spec.ColorMidpoint = &midpoint
	}
	if q.Focus != "" && focusCode != "" {
		spec.Overlays = focusOverlays(world, focusCode, q.Focus)
	}
	return spec, nil
}

// Title builds the fixed-order map title:
// [region] - [year] - [activity phrase] - [category].
func Title(q model.Query) string {
	parts := make([]string, 0, 4)
	if q.Focus != "" {
		parts = append(parts, q.Focus)
	}
	if q.Year != 0 {
		parts = append(parts, strconv.Itoa(q.Year))
	}
	parts = append(parts, activityPhrase(q))
	if q.Category != "" && q.Category != model.AllCategories {
		parts = append(parts, q.Category)
	}
	return strings.Join(parts, " - ")
}

func activityPhrase(q model.Query) string {
	focused := q.Focus != ""
	switch q.Activity {
	case model.ActivitySupplied:
		if focused {
			return "Weapons Supplied"
		}
		return "Weapons Supplied to other regions"
	case model.ActivityReceived:
		if focused {
			return "Weapons Received"
		}
		return "Weapons Received from other regions"
	case model.ActivityNet:
		return "Net Balance (Received - Supplied)"
	default:
		return "Total Activity (Supplied + Received)"
	}
}

// hoverTemplate binds the per-row auxiliary values. Single modes show the
// region name and raw quantity; composite modes add the supplied and
// received totals with focus-specific direction labels.
func hoverTemplate(q model.Query) string {
	if !q.Activity.Composite() {
		return fmt.Sprintf("<b>%%{text}</b><br>%s: %%{customdata[0]:.2f}<extra></extra>", q.Unit)
	}
	suppliedLabel := "Supplied"
	receivedLabel := "Received"
	if q.Focus != "" {
		suppliedLabel = "Supplied by " + q.Focus
		receivedLabel = "Received from other regions"
	}
	return fmt.Sprintf(
		"<b>%%{text}</b><br>%s: %%{customdata[0]:.2f}<br>%s: %%{customdata[1]:.2f}<br>%s: %%{customdata[2]:.2f}<extra></extra>",
		q.Unit, suppliedLabel, receivedLabel,
	)
}

// focusOverlays emits one highlighted outline trace per simple polygon of
// the focus region's boundary. Pure presentation: no aggregation effect.
func focusOverlays(world *geo.World, code, label string) []Outline {
	region, ok := world.ByCode(code)
	if !ok {
		return nil
	}
	rings := geo.Outlines(region.Geometry)
	overlays := make([]Outline, 0, len(rings))
	for _, ring := range rings {
		overlays = append(overlays, Outline{
			Lon:       ring[0],
			Lat:       ring[1],
			Mode:      "lines",
			Fill:      "toself",
			LineColor: "green",
			LineWidth: 2,
			Text:      label,
			HoverInfo: "text",
		})
	}
	return overlays
}
