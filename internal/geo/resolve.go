package geo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ErrUnresolved reports a name the resolver could not match to any region.
// Non-fatal: callers keep the entity without a map code.
var ErrUnresolved = errors.New("geo: name does not match any region")

// Resolver matches free-text country names against the world's directory of
// canonical names. Exact and alias matches win; otherwise the best fuzzy
// rank is taken. Used during enrichment only.
type Resolver struct {
	world   *World
	names   []string
	byName  map[string]string
	aliases map[string]string
}

// Common register spellings that differ from the boundary dataset's
// canonical names by more than fuzzy matching can bridge.
var defaultAliases = map[string]string{
	"cote d'ivoire":  "CIV",
	"ivory coast":    "CIV",
	"cape verde":     "CPV",
	"czech republic": "CZE",
	"south korea":    "KOR",
	"north korea":    "PRK",
	"palestine":      "PSE",
	"swaziland":      "SWZ",
	"burma":          "MMR",
	"macedonia":      "MKD",
}

// NewResolver builds a resolver over the world's region directory.
func NewResolver(world *World) *Resolver {
	resolver := &Resolver{
		world:   world,
		names:   make([]string, 0, world.Len()),
		byName:  make(map[string]string, world.Len()),
		aliases: defaultAliases,
	}
	for _, region := range world.Regions() {
		resolver.names = append(resolver.names, region.Name)
		resolver.byName[strings.ToLower(region.Name)] = region.Code
	}
	return resolver
}

// Resolve returns the ISO A3 code best matching the given name, or
// ErrUnresolved when nothing matches.
func (r *Resolver) Resolve(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty name", ErrUnresolved)
	}
	lower := strings.ToLower(trimmed)

	if code, ok := r.byName[lower]; ok {
		return code, nil
	}
	if code, ok := r.aliases[lower]; ok {
		return code, nil
	}
	// A bare ISO code resolves to itself when renderable.
	if len(trimmed) == 3 {
		upper := strings.ToUpper(trimmed)
		if _, ok := r.world.ByCode(upper); ok {
			return upper, nil
		}
	}

	matches := fuzzy.RankFindFold(trimmed, r.names)
	if len(matches) == 0 {
		// The register name may be longer than the canonical one
		// ("United States of America" vs "United States"): retry with the
		// candidates used as patterns inside the queried name.
		return r.resolveContained(trimmed)
	}
	best := matches[0]
	for _, match := range matches[1:] {
		if match.Distance < best.Distance {
			best = match
		}
	}
	return r.byName[strings.ToLower(best.Target)], nil
}

func (r *Resolver) resolveContained(name string) (string, error) {
	best := ""
	for _, canonical := range r.names {
		if len(fuzzy.FindFold(canonical, []string{name})) > 0 && len(canonical) > len(best) {
			best = canonical
		}
	}
	if best == "" {
		return "", fmt.Errorf("%w: %q", ErrUnresolved, name)
	}
	return r.byName[strings.ToLower(best)], nil
}
