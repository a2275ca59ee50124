// Package aggregate turns the enriched trade register into a per-region
// numeric surface ready for map rendering.
package aggregate

import (
	"errors"
	"sort"

	"armsatlas/internal/geo"
	"armsatlas/internal/model"
	"armsatlas/internal/register"
)

// ErrEmptyResult reports that the query filters eliminated every row. The
// message is surfaced to the caller verbatim; no partial map is produced.
var ErrEmptyResult = errors.New("No data for selected filters")

// identity is the grouping key: one trade partner as it appears in the
// enriched register.
type identity struct {
	name string
	code string
	typ  model.RegionType
}

type totals struct {
	value    float64
	supplied float64
	received float64
}

// side selects which end of a trade row an identity is taken from.
type side int

const (
	bySupplier side = iota
	byRecipient
)

// metricSpec parametrizes the grouping: single modes sum one side, composite
// modes outer-join supplied and received totals per identity.
type metricSpec struct {
	composite bool
	groupBy   side
}

// specFor keys the grouping on activity mode and focus. With a focus region
// the single modes group by the counterpart side: a focused "Supplied" map
// colors the recipients of the focus region.
func specFor(q model.Query) metricSpec {
	switch q.Activity {
	case model.ActivitySupplied:
		if q.Focus != "" {
			return metricSpec{groupBy: byRecipient}
		}
		return metricSpec{groupBy: bySupplier}
	case model.ActivityReceived:
		if q.Focus != "" {
			return metricSpec{groupBy: bySupplier}
		}
		return metricSpec{groupBy: byRecipient}
	default:
		return metricSpec{composite: true}
	}
}

// Aggregate filters the register by the query, sums the unit quantity per
// identity, and left-joins the result against the renderable world so every
// region appears exactly once (zero-filled where inactive). The returned
// rows are owned by the caller and sorted by map code.
func Aggregate(reg *register.Register, world *geo.World, q model.Query) ([]model.AggregateRow, error) {
	records := filterRecords(reg.Records, q)
	if len(records) == 0 {
		return nil, ErrEmptyResult
	}

	spec := specFor(q)
	groups := make(map[identity]*totals)
	for _, record := range records {
		quantity := record.Quantity(q.Unit)
		if spec.composite {
			grow(groups, identityOf(record, bySupplier)).supplied += quantity
			grow(groups, identityOf(record, byRecipient)).received += quantity
		} else {
			grow(groups, identityOf(record, spec.groupBy)).value += quantity
		}
	}

	// Net balance is always the row region's net position: positive means
	// the region received more than it supplied.
	if spec.composite {
		for _, t := range groups {
			if q.Activity == model.ActivityNet {
				t.value = t.received - t.supplied
			} else {
				t.value = t.supplied + t.received
			}
		}
	}

	identities := make([]identity, 0, len(groups))
	for id := range groups {
		// A region is never its own trading partner in the display.
		if q.Focus != "" && id.name == q.Focus {
			continue
		}
		if !typeAdmitted(q.RegionTypes, id.typ) {
			continue
		}
		identities = append(identities, id)
	}
	if len(identities) == 0 {
		return nil, ErrEmptyResult
	}
	sort.Slice(identities, func(i, j int) bool {
		if identities[i].code != identities[j].code {
			return identities[i].code < identities[j].code
		}
		return identities[i].name < identities[j].name
	})

	return joinWorld(identities, groups, world, q), nil
}

func joinWorld(identities []identity, groups map[identity]*totals, world *geo.World, q model.Query) []model.AggregateRow {
	rows := make([]model.AggregateRow, world.Len())
	index := make(map[string]int, world.Len())
	for i, region := range world.Regions() {
		rows[i] = model.AggregateRow{Region: region.Name, Code: region.Code}
		index[region.Code] = i
	}

	for _, id := range identities {
		i, ok := index[id.code]
		if !ok {
			// No renderable boundary for this entity; it stays in the
			// numeric register but cannot be drawn.
			continue
		}
		row := &rows[i]
		t := groups[id]
		row.Value += t.value
		row.Supplied += t.supplied
		row.Received += t.received
		// Countries and former countries take the boundary dataset's
		// canonical spelling; organisations and rebel groups keep their own
		// name. When entities share a host code the country claim wins.
		if row.Type == "" || (!countryLike(row.Type) && countryLike(id.typ)) {
			row.Type = id.typ
			row.Region = world.CanonicalName(id.code, id.name, id.typ)
		}
	}

	for i := range rows {
		rows[i].LogValue = SignedLog(rows[i].Value)
	}
	return rows
}

func filterRecords(records []model.TradeRecord, q model.Query) []model.TradeRecord {
	kept := make([]model.TradeRecord, 0, len(records))
	for _, record := range records {
		if q.Year != 0 && record.OrderYear != q.Year {
			continue
		}
		if q.Category != model.AllCategories && q.Category != "" && record.Category != q.Category {
			continue
		}
		if q.Focus != "" && !focusParticipates(record, q) {
			continue
		}
		kept = append(kept, record)
	}
	return kept
}

// focusParticipates keeps only rows where the focus region takes the role the
// activity mode requires. For focused "Supplied" the counterpart is also
// restricted to the chosen region type when one is selected.
func focusParticipates(record model.TradeRecord, q model.Query) bool {
	switch q.Activity {
	case model.ActivitySupplied:
		if record.Supplier != q.Focus {
			return false
		}
		return typeAdmitted(q.RegionTypes, record.RecipientType)
	case model.ActivityReceived:
		return record.Recipient == q.Focus
	default:
		return record.Supplier == q.Focus || record.Recipient == q.Focus
	}
}

func typeAdmitted(filter, regionType model.RegionType) bool {
	switch filter {
	case model.RegionAll, "":
		return true
	case model.RegionCountry:
		return countryLike(regionType)
	default:
		return regionType == filter
	}
}

func countryLike(regionType model.RegionType) bool {
	return regionType == model.RegionCountry || regionType == model.RegionFormerCountry
}

func identityOf(record model.TradeRecord, s side) identity {
	if s == bySupplier {
		return identity{name: record.Supplier, code: record.SupplierCode, typ: record.SupplierType}
	}
	return identity{name: record.Recipient, code: record.RecipientCode, typ: record.RecipientType}
}

func grow(groups map[identity]*totals, id identity) *totals {
	t, ok := groups[id]
	if !ok {
		t = &totals{}
		groups[id] = t
	}
	return t
}
