package register

import "maps"

// Tables holds the fixed lookup data driving classification and map-code
// assignment. The entries are data, not logic: they can be extended through
// configuration without touching the transform functions.
type Tables struct {
	// FormerCountries maps each historical state to the ISO A3 code of its
	// present-day successor (or closest approximate territory).
	FormerCountries map[string]string
	// Organisations maps each organisation to the code of a representative
	// host country, usually its headquarters. This only anchors the entity on
	// the map; it is not a claim about territory.
	Organisations map[string]string
	// CountryOverrides corrects names the fuzzy resolver mishandles.
	CountryOverrides map[string]string
	// RebelOverrides corrects rebel-group names whose country cannot be
	// extracted from the name itself.
	RebelOverrides map[string]string
}

// DefaultTables returns the built-in lookup data for the SIPRI register.
func DefaultTables() Tables {
	return Tables{
		FormerCountries: map[string]string{
			"Biafra":             "NGA",
			"Czechoslovakia":     "CZE",
			"East Germany (GDR)": "DEU",
			"North Yemen":        "YEM",
			"Northern Cyprus":    "CYP",
			"South Vietnam":      "VNM",
			"South Yemen":        "YEM",
			"Soviet Union":       "RUS",
			"Yugoslavia":         "SRB",
		},
		Organisations: map[string]string{
			"African Union":            "ETH",
			"European Union":           "BEL",
			"NATO":                     "BEL",
			"OSCE":                     "AUT",
			"Regional Security System": "BRB",
			"United Nations":           "USA",
		},
		CountryOverrides: map[string]string{
			"Bosnia-Herzegovina":                "BIH",
			"DR Congo":                          "COD",
			"Libya GNC":                         "LBY",
			"UAE":                               "ARE",
			"Yemen Arab Republic (North Yemen)": "YEM",
		},
		RebelOverrides: map[string]string{
			"PIJ (Israel/Palestine)": "PSE",
			"PRC (Israel/Palestine)": "PSE",
		},
	}
}

// Merge overlays extension entries onto the receiver and returns the result.
// Existing keys are replaced, the receiver is left untouched.
func (t Tables) Merge(extra Tables) Tables {
	merged := Tables{
		FormerCountries:  maps.Clone(t.FormerCountries),
		Organisations:    maps.Clone(t.Organisations),
		CountryOverrides: maps.Clone(t.CountryOverrides),
		RebelOverrides:   maps.Clone(t.RebelOverrides),
	}
	if merged.FormerCountries == nil {
		merged.FormerCountries = map[string]string{}
	}
	if merged.Organisations == nil {
		merged.Organisations = map[string]string{}
	}
	if merged.CountryOverrides == nil {
		merged.CountryOverrides = map[string]string{}
	}
	if merged.RebelOverrides == nil {
		merged.RebelOverrides = map[string]string{}
	}
	maps.Copy(merged.FormerCountries, extra.FormerCountries)
	maps.Copy(merged.Organisations, extra.Organisations)
	maps.Copy(merged.CountryOverrides, extra.CountryOverrides)
	maps.Copy(merged.RebelOverrides, extra.RebelOverrides)
	return merged
}
