// Package recipes maps named recipes to ordered lists of catalog item ids.
// The table is fixed at build time; it is a voice shortcut ("add the
// ingredients for a basic sandwich"), not a user-editable store.
package recipes

import (
	"sort"
	"strings"
)

// table maps lowercase recipe names to catalog item ids.
// Ids may reference items that have since been retired from the catalog;
// callers skip unresolvable ids rather than failing the whole expansion.
var table = map[string][]string{
	"peanut butter sandwich": {"bread_ww", "peanut_butter"},
	"pasta for two":          {"pasta_500g", "pasta_sauce"},
	"basic sandwich":         {"bread_ww", "eggs_12", "peanut_butter"},
}

// Expand returns the ordered item ids for a recipe name, case-insensitive.
// The second return is false for an unknown recipe.
func Expand(name string) ([]string, bool) {
	ids, ok := table[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, false
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out, true
}

// Names returns all known recipe names, sorted, for "did you mean" prompts.
func Names() []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
