// Package geo provides the renderable world: per-region boundary geometry
// keyed by ISO A3 code, and the fuzzy name-to-code resolver built on top of
// the same directory.
package geo

import (
	"fmt"
	"os"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"armsatlas/internal/model"
)

// Region is one renderable map region.
type Region struct {
	Code      string
	Name      string
	Continent string
	Geometry  orb.Geometry
}

// World is the boundary dataset: the full set of renderable regions.
// Immutable after construction; safe for concurrent reads.
type World struct {
	regions []Region
	byCode  map[string]int
}

// Load reads a world boundary dataset from a GeoJSON file.
func Load(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("geo: read world data: %w", err)
	}
	return Parse(data)
}

// Parse builds a World from GeoJSON bytes. Each feature must carry iso_a3
// and name properties; Antarctica is dropped from the renderable set.
func Parse(data []byte) (*World, error) {
	collection, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("geo: decode world data: %w", err)
	}

	world := &World{byCode: make(map[string]int, len(collection.Features))}
	for _, feature := range collection.Features {
		region := Region{
			Code:      property(feature, "iso_a3"),
			Name:      property(feature, "name"),
			Continent: property(feature, "continent"),
			Geometry:  feature.Geometry,
		}
		if region.Name == "Antarctica" {
			continue
		}
		if region.Code == "" || region.Name == "" {
			return nil, fmt.Errorf("geo: feature without iso_a3/name properties")
		}
		if _, exists := world.byCode[region.Code]; exists {
			return nil, fmt.Errorf("geo: duplicate region code %s", region.Code)
		}
		world.regions = append(world.regions, region)
		world.byCode[region.Code] = len(world.regions) - 1
	}
	if len(world.regions) == 0 {
		return nil, fmt.Errorf("geo: world data has no renderable regions")
	}

	sort.Slice(world.regions, func(i, j int) bool {
		return world.regions[i].Code < world.regions[j].Code
	})
	for i, region := range world.regions {
		world.byCode[region.Code] = i
	}
	return world, nil
}

// NewWorld builds a World directly from regions. Antarctica is excluded.
func NewWorld(regions []Region) *World {
	world := &World{byCode: make(map[string]int, len(regions))}
	for _, region := range regions {
		if region.Name == "Antarctica" {
			continue
		}
		world.regions = append(world.regions, region)
	}
	sort.Slice(world.regions, func(i, j int) bool {
		return world.regions[i].Code < world.regions[j].Code
	})
	for i, region := range world.regions {
		world.byCode[region.Code] = i
	}
	return world
}

// Regions returns every renderable region, sorted by code. The slice is
// shared; callers must not modify it.
func (w *World) Regions() []Region { return w.regions }

// ByCode looks up a region by its ISO A3 code.
func (w *World) ByCode(code string) (Region, bool) {
	i, ok := w.byCode[code]
	if !ok {
		return Region{}, false
	}
	return w.regions[i], true
}

// Len returns the number of renderable regions.
func (w *World) Len() int { return len(w.regions) }

// FeatureCollection encodes the renderable regions as a GeoJSON feature
// collection for the map join. Feature IDs and the iso_a3 property carry the
// join key.
func (w *World) FeatureCollection() *geojson.FeatureCollection {
	collection := geojson.NewFeatureCollection()
	for _, region := range w.regions {
		feature := geojson.NewFeature(region.Geometry)
		feature.ID = region.Code
		feature.Properties = geojson.Properties{
			"iso_a3": region.Code,
			"name":   region.Name,
		}
		collection.Append(feature)
	}
	return collection
}

// Outlines returns one lon/lat exterior ring per simple polygon of a
// region's geometry. Multi-part geometries yield one ring per part.
func Outlines(geometry orb.Geometry) [][2][]float64 {
	switch shape := geometry.(type) {
	case orb.Polygon:
		return [][2][]float64{ringCoords(shape)}
	case orb.MultiPolygon:
		rings := make([][2][]float64, 0, len(shape))
		for _, polygon := range shape {
			rings = append(rings, ringCoords(polygon))
		}
		return rings
	default:
		return nil
	}
}

func ringCoords(polygon orb.Polygon) [2][]float64 {
	var lon, lat []float64
	if len(polygon) > 0 {
		exterior := polygon[0]
		lon = make([]float64, len(exterior))
		lat = make([]float64, len(exterior))
		for i, point := range exterior {
			lon[i] = point.Lon()
			lat[i] = point.Lat()
		}
	}
	return [2][]float64{lon, lat}
}

func property(feature *geojson.Feature, key string) string {
	value, _ := feature.Properties[key].(string)
	return value
}

// CanonicalName returns the boundary dataset's display name for a code,
// falling back to the given name when the code is unknown. Country and
// former-country rows prefer the canonical spelling because registers and
// boundary data rarely agree on names.
func (w *World) CanonicalName(code, fallback string, regionType model.RegionType) string {
	if regionType != model.RegionCountry && regionType != model.RegionFormerCountry {
		return fallback
	}
	if region, ok := w.ByCode(code); ok {
		return region.Name
	}
	return fallback
}
