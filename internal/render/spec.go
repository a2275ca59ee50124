// Package render assembles a renderer-ready map description from aggregated
// trade rows: title, color encoding, hover text, colorbar ticks, geometry
// join, and focus overlays.
package render

import "github.com/paulmach/orb/geojson"

// Spec is the complete renderable map description for one query. It carries
// no behavior; a plotting frontend consumes it as-is.
type Spec struct {
	Title         string                     `json:"title"`
	ColorScale    string                     `json:"color_scale"`
	ColorMidpoint *float64                   `json:"color_midpoint,omitempty"`
	Choropleth    Choropleth                 `json:"choropleth"`
	Colorbar      Colorbar                   `json:"colorbar"`
	Layout        Layout                     `json:"layout"`
	Overlays      []Outline                  `json:"overlays,omitempty"`
	Geometry      *geojson.FeatureCollection `json:"geometry"`
}

// Choropleth is the per-region color trace. Rows are parallel arrays joined
// to the geometry by ISO A3 code.
type Choropleth struct {
	Locations     []string    `json:"locations"`
	FeatureIDKey  string      `json:"featureidkey"`
	Z             []float64   `json:"z"`
	Text          []string    `json:"text"`
	CustomData    [][]float64 `json:"customdata"`
	HoverTemplate string      `json:"hovertemplate"`
	Projection    string      `json:"projection"`
}

// Colorbar describes the legend with human-readable raw-value tick labels
// positioned on the signed-log axis.
type Colorbar struct {
	Title     string    `json:"title"`
	TickVals  []float64 `json:"tickvals"`
	TickText  []string  `json:"ticktext"`
	Len       float64   `json:"len"`
	Thickness int       `json:"thickness"`
}

// Layout carries the fixed figure framing.
type Layout struct {
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	LandColor     string  `json:"land_color"`
	CountryColor  string  `json:"country_color"`
	CountryWidth  float64 `json:"country_width"`
	ShowLand      bool    `json:"show_land"`
	ShowCountries bool    `json:"show_countries"`
	FitBounds     string  `json:"fit_bounds"`
}

// Outline is one highlighted boundary trace: the exterior ring of a simple
// polygon. Multi-part regions emit one outline per part.
type Outline struct {
	Lon       []float64 `json:"lon"`
	Lat       []float64 `json:"lat"`
	Mode      string    `json:"mode"`
	Fill      string    `json:"fill"`
	LineColor string    `json:"line_color"`
	LineWidth float64   `json:"line_width"`
	Text      string    `json:"text"`
	HoverInfo string    `json:"hoverinfo"`
}

func defaultLayout() Layout {
	return Layout{
		Width:         1000,
		Height:        500,
		LandColor:     "lightgray",
		CountryColor:  "gray",
		CountryWidth:  0.5,
		ShowLand:      true,
		ShowCountries: true,
		FitBounds:     "locations",
	}
}
