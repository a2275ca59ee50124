package register

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"armsatlas/internal/model"
)

// stubResolver resolves from a fixed name→code table.
type stubResolver struct {
	codes map[string]string
}

func (r stubResolver) Resolve(name string) (string, error) {
	if code, ok := r.codes[name]; ok {
		return code, nil
	}
	return "", assert.AnError
}

func TestClassify(t *testing.T) {
	tables := DefaultTables()
	cases := map[string]model.RegionType{
		"Russia":                  model.RegionCountry,
		"India":                   model.RegionCountry,
		"Soviet Union":            model.RegionFormerCountry,
		"Yugoslavia":              model.RegionFormerCountry,
		"Czechoslovakia":          model.RegionFormerCountry,
		"NATO**":                  model.RegionOrganisation,
		"United Nations**":        model.RegionOrganisation,
		"PIJ (Israel/Palestine)*": model.RegionRebelGroup,
		"Hezbollah (Lebanon)*":    model.RegionRebelGroup,
		"unknown supplier(s)":     model.RegionUnknown,
		"unknown rebel group*":    model.RegionUnknown,
	}
	for name, want := range cases {
		assert.Equalf(t, want, tables.Classify(name), "classify %q", name)
	}
}

func TestClassifyIsTotalAndPure(t *testing.T) {
	tables := DefaultTables()
	names := []string{"Russia", "Soviet Union", "NATO**", "Rebels (Syria)*", "unknown recipient(s)", ""}
	valid := map[model.RegionType]bool{
		model.RegionCountry:       true,
		model.RegionFormerCountry: true,
		model.RegionOrganisation:  true,
		model.RegionRebelGroup:    true,
		model.RegionUnknown:       true,
	}
	for _, name := range names {
		first := tables.Classify(name)
		assert.Truef(t, valid[first], "classify %q must yield a region type", name)
		assert.Equal(t, first, tables.Classify(name), "classification must be deterministic")
	}
}

func TestCodeForFormerCountries(t *testing.T) {
	tables := DefaultTables()
	want := map[string]string{
		"Soviet Union":       "RUS",
		"Yugoslavia":         "SRB",
		"Czechoslovakia":     "CZE",
		"East Germany (GDR)": "DEU",
		"Biafra":             "NGA",
	}
	for name, code := range want {
		got, ok := tables.CodeFor(name, model.RegionFormerCountry, nil)
		require.Truef(t, ok, "former country %q", name)
		assert.Equal(t, code, got)
	}
}

func TestCodeForOrganisationHost(t *testing.T) {
	tables := DefaultTables()
	code, ok := tables.CodeFor("NATO**", model.RegionOrganisation, nil)
	require.True(t, ok)
	assert.Equal(t, "BEL", code)

	code, ok = tables.CodeFor("United Nations**", model.RegionOrganisation, nil)
	require.True(t, ok)
	assert.Equal(t, "USA", code)
}

func TestCodeForCountryOverridesBeatResolver(t *testing.T) {
	tables := DefaultTables()
	resolver := stubResolver{codes: map[string]string{"UAE": "WRONG"}}

	code, ok := tables.CodeFor("UAE", model.RegionCountry, resolver)
	require.True(t, ok)
	assert.Equal(t, "ARE", code)
}

func TestCodeForCountryFallsBackToResolver(t *testing.T) {
	tables := DefaultTables()
	resolver := stubResolver{codes: map[string]string{"France": "FRA"}}

	code, ok := tables.CodeFor("France", model.RegionCountry, resolver)
	require.True(t, ok)
	assert.Equal(t, "FRA", code)

	_, ok = tables.CodeFor("Atlantis", model.RegionCountry, resolver)
	assert.False(t, ok)
}

func TestCodeForRebelGroupParenthesized(t *testing.T) {
	tables := DefaultTables()
	resolver := stubResolver{codes: map[string]string{"Lebanon": "LBN"}}

	code, ok := tables.CodeFor("Hezbollah (Lebanon)*", model.RegionRebelGroup, resolver)
	require.True(t, ok)
	assert.Equal(t, "LBN", code)
}

func TestCodeForRebelGroupFirstTokenFallback(t *testing.T) {
	tables := DefaultTables()
	resolver := stubResolver{codes: map[string]string{"Syria": "SYR"}}

	code, ok := tables.CodeFor("Syria rebels*", model.RegionRebelGroup, resolver)
	require.True(t, ok)
	assert.Equal(t, "SYR", code)
}

func TestCodeForRebelGroupOverride(t *testing.T) {
	tables := DefaultTables()
	// No resolver needed: the override table fixes the known failures.
	code, ok := tables.CodeFor("PIJ (Israel/Palestine)*", model.RegionRebelGroup, nil)
	require.True(t, ok)
	assert.Equal(t, "PSE", code)
}

func TestCodeForUnknownHasNoCode(t *testing.T) {
	tables := DefaultTables()
	_, ok := tables.CodeFor("unknown supplier(s)", model.RegionUnknown, nil)
	assert.False(t, ok)
}

func TestStripMarkers(t *testing.T) {
	assert.Equal(t, "NATO", StripMarkers("NATO**"))
	assert.Equal(t, "Hezbollah (Lebanon)", StripMarkers("Hezbollah (Lebanon)*"))
	assert.Equal(t, "Russia", StripMarkers("Russia"))
}

func TestTablesMerge(t *testing.T) {
	merged := DefaultTables().Merge(Tables{
		CountryOverrides: map[string]string{"Kosovo": "XKX", "UAE": "UAE"},
	})
	assert.Equal(t, "XKX", merged.CountryOverrides["Kosovo"])
	assert.Equal(t, "UAE", merged.CountryOverrides["UAE"], "extension entries replace defaults")
	assert.Equal(t, "ARE", DefaultTables().CountryOverrides["UAE"], "defaults stay untouched")
}
