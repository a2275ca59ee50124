package register

import (
	"regexp"
	"strings"

	"armsatlas/internal/model"
)

var parenthesized = regexp.MustCompile(`\((.*?)\)`)

// Classify determines the region type of a raw partner name. The trailing
// marker convention of the register is the signal: "**" marks organisations,
// a single "*" marks rebel groups. The function is total and pure; every name
// maps to exactly one region type.
func (t Tables) Classify(name string) model.RegionType {
	switch {
	case strings.Contains(strings.ToLower(name), "unknown"):
		return model.RegionUnknown
	case strings.HasSuffix(name, "**"):
		return model.RegionOrganisation
	case strings.HasSuffix(name, "*"):
		return model.RegionRebelGroup
	default:
		if _, ok := t.FormerCountries[name]; ok {
			return model.RegionFormerCountry
		}
		return model.RegionCountry
	}
}

// CodeFor assigns the map-join code for a classified partner name. The
// second return is false when no mapping exists; such entities stay in the
// register but cannot be drawn.
func (t Tables) CodeFor(name string, regionType model.RegionType, resolver CodeResolver) (string, bool) {
	switch regionType {
	case model.RegionCountry:
		if code, ok := t.CountryOverrides[name]; ok {
			return code, true
		}
		return resolve(resolver, name)
	case model.RegionFormerCountry:
		code, ok := t.FormerCountries[name]
		return code, ok
	case model.RegionOrganisation:
		code, ok := t.Organisations[StripMarkers(name)]
		return code, ok
	case model.RegionRebelGroup:
		return t.rebelGroupCode(name, resolver)
	default:
		return "", false
	}
}

// rebelGroupCode extracts a candidate country from the group name: the
// parenthesized text when present, the first whitespace-delimited token
// otherwise. Known failures are fixed by the override table.
func (t Tables) rebelGroupCode(name string, resolver CodeResolver) (string, bool) {
	if code, ok := t.RebelOverrides[StripMarkers(name)]; ok {
		return code, true
	}
	if match := parenthesized.FindStringSubmatch(name); match != nil {
		if code, ok := resolve(resolver, match[1]); ok {
			return code, true
		}
	}
	token, _, _ := strings.Cut(StripMarkers(name), " ")
	return resolve(resolver, token)
}

func resolve(resolver CodeResolver, name string) (string, bool) {
	if resolver == nil {
		return "", false
	}
	code, err := resolver.Resolve(name)
	if err != nil {
		return "", false
	}
	return code, true
}

// StripMarkers removes the trailing classification markers from a display
// name. Classification must run before stripping.
func StripMarkers(name string) string {
	return strings.TrimRight(name, "*")
}
