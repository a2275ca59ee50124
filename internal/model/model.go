package model

import "time"

// RegionType classifies a trade partner. It is assigned once per distinct
// partner name at enrichment time and never changes afterwards.
type RegionType string

const (
	RegionCountry       RegionType = "Country"
	RegionFormerCountry RegionType = "Former Country"
	RegionOrganisation  RegionType = "Organisation"
	RegionRebelGroup    RegionType = "Rebel Group"
	RegionUnknown       RegionType = "Unknown"

	// RegionAll is the filter value admitting every region type. As a filter,
	// RegionCountry also admits RegionFormerCountry.
	RegionAll RegionType = "All regions"
)

// ActivityMode selects the directional metric shown on the map.
type ActivityMode string

const (
	ActivitySupplied ActivityMode = "Supplied"
	ActivityReceived ActivityMode = "Received"
	ActivityNet      ActivityMode = "Net Balance"
	ActivityTotal    ActivityMode = "Total Activity"
)

// Composite reports whether the mode derives its value from both trade
// directions (outer join of supplied and received totals).
func (m ActivityMode) Composite() bool {
	return m == ActivityNet || m == ActivityTotal
}

// TradeRecord is one row of the trade register. The four enrichment fields
// are empty until the record passes through the enricher.
type TradeRecord struct {
	ID            string
	Supplier      string
	Recipient     string
	OrderYear     int
	Category      string
	Quantities    map[string]float64
	SupplierType  RegionType
	RecipientType RegionType
	SupplierCode  string
	RecipientCode string
	IngestedAt    time.Time
}

// Quantity returns the value of the named unit column, zero if absent.
func (r TradeRecord) Quantity(unit string) float64 {
	return r.Quantities[unit]
}

// Query describes one rendering request. Immutable once built.
type Query struct {
	Activity ActivityMode
	// Year filters on the order year; 0 keeps all years.
	Year int
	// Category filters on the armament category; "All" keeps all categories.
	Category string
	// RegionTypes restricts the mapped identities; RegionAll keeps everything.
	RegionTypes RegionType
	// Unit names the quantity column to sum.
	Unit string
	// Focus centres the query on a single region, aggregating over its
	// counterparts. Empty means the global view.
	Focus string
}

// AllCategories is the category filter value keeping every armament category.
const AllCategories = "All"

// AggregateRow is one renderable region after aggregation. Supplied and
// Received are populated for composite activity modes only.
type AggregateRow struct {
	Region   string
	Code     string
	Type     RegionType
	Value    float64
	Supplied float64
	Received float64
	LogValue float64
}
