package register

import (
	"sort"

	"go.uber.org/zap"

	"armsatlas/internal/model"
)

// CodeResolver turns a free-text country name into an ISO A3 code. It is the
// only external collaborator of the enricher and is never consulted after
// enrichment.
type CodeResolver interface {
	Resolve(name string) (string, error)
}

// Register is the enriched trade register: the process-wide, read-only input
// shared by every query. Build it once and never mutate it.
type Register struct {
	Records []model.TradeRecord

	units      []string
	categories []string
	years      []int
	codes      map[string]string
	types      map[string]model.RegionType
	unresolved []string
}

// Units lists the quantity columns present in the register.
func (r *Register) Units() []string { return r.units }

// Categories lists the distinct armament categories, sorted.
func (r *Register) Categories() []string { return r.categories }

// Years lists the distinct order years, ascending.
func (r *Register) Years() []int { return r.years }

// HasUnit reports whether the named quantity column exists.
func (r *Register) HasUnit(unit string) bool {
	for _, u := range r.units {
		if u == unit {
			return true
		}
	}
	return false
}

// CodeOf returns the map code of an enriched partner display name.
func (r *Register) CodeOf(name string) (string, bool) {
	code, ok := r.codes[name]
	if !ok || code == "" {
		return "", false
	}
	return code, true
}

// TypeOf returns the region type of an enriched partner display name.
func (r *Register) TypeOf(name string) (model.RegionType, bool) {
	regionType, ok := r.types[name]
	return regionType, ok
}

// Unresolved lists raw partner names that could not be assigned a map code.
// They remain in the register but are absent from rendered maps.
func (r *Register) Unresolved() []string { return r.unresolved }

// Enricher tags every trade partner with a region type and a map-join code.
type Enricher struct {
	resolver CodeResolver
	tables   Tables
	log      *zap.Logger
}

// NewEnricher builds an enricher over the given resolver and lookup tables.
// A nil logger disables logging.
func NewEnricher(resolver CodeResolver, tables Tables, log *zap.Logger) *Enricher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Enricher{resolver: resolver, tables: tables, log: log}
}

// Enrich classifies every distinct partner name, assigns map codes, and
// strips the trailing markers from display names. The input slice is not
// mutated; the returned register owns fresh record values.
func (e *Enricher) Enrich(records []model.TradeRecord) *Register {
	names := distinctNames(records)

	types := make(map[string]model.RegionType, len(names))
	codes := make(map[string]string, len(names))
	unresolved := make([]string, 0)
	for _, name := range names {
		regionType := e.tables.Classify(name)
		types[name] = regionType
		code, ok := e.tables.CodeFor(name, regionType, e.resolver)
		if !ok && regionType != model.RegionUnknown {
			unresolved = append(unresolved, name)
			e.log.Warn("no map code for trade partner",
				zap.String("name", name),
				zap.String("region_type", string(regionType)),
			)
		}
		codes[name] = code
	}

	enriched := &Register{
		Records:    make([]model.TradeRecord, len(records)),
		codes:      make(map[string]string, len(names)),
		types:      make(map[string]model.RegionType, len(names)),
		unresolved: unresolved,
	}
	for i, record := range records {
		record.SupplierType = types[record.Supplier]
		record.RecipientType = types[record.Recipient]
		record.SupplierCode = codes[record.Supplier]
		record.RecipientCode = codes[record.Recipient]
		record.Supplier = StripMarkers(record.Supplier)
		record.Recipient = StripMarkers(record.Recipient)
		enriched.Records[i] = record
	}
	for _, name := range names {
		display := StripMarkers(name)
		enriched.codes[display] = codes[name]
		enriched.types[display] = types[name]
	}
	enriched.index()

	e.log.Info("register enriched",
		zap.Int("records", len(enriched.Records)),
		zap.Int("partners", len(names)),
		zap.Int("unresolved", len(unresolved)),
	)
	return enriched
}

// NewRegister wraps already-enriched records, rebuilding the lookup indexes.
// Used when reloading a persisted register.
func NewRegister(records []model.TradeRecord) *Register {
	reg := &Register{
		Records: records,
		codes:   make(map[string]string),
		types:   make(map[string]model.RegionType),
	}
	for _, record := range records {
		reg.codes[record.Supplier] = record.SupplierCode
		reg.codes[record.Recipient] = record.RecipientCode
		reg.types[record.Supplier] = record.SupplierType
		reg.types[record.Recipient] = record.RecipientType
	}
	reg.index()
	return reg
}

func (r *Register) index() {
	unitSet := map[string]struct{}{}
	categorySet := map[string]struct{}{}
	yearSet := map[int]struct{}{}
	for _, record := range r.Records {
		for unit := range record.Quantities {
			unitSet[unit] = struct{}{}
		}
		categorySet[record.Category] = struct{}{}
		if record.OrderYear != 0 {
			yearSet[record.OrderYear] = struct{}{}
		}
	}
	r.units = sortedKeys(unitSet)
	r.categories = sortedKeys(categorySet)
	r.years = make([]int, 0, len(yearSet))
	for year := range yearSet {
		r.years = append(r.years, year)
	}
	sort.Ints(r.years)
}

func distinctNames(records []model.TradeRecord) []string {
	set := map[string]struct{}{}
	for _, record := range records {
		set[record.Supplier] = struct{}{}
		set[record.Recipient] = struct{}{}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
