package mutation

import (
	"sort"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"

	"scenebridge/internal/config"
	"scenebridge/internal/property"
	"scenebridge/internal/scene"
)

const maxSuggestions = 5

// similarNames returns candidates within a small edit distance of target,
// closest first. Comparison is on case-folded names.
func similarNames(target string, candidates []string) []string {
	fold := cases.Fold()
	want := fold.String(target)
	limit := len([]rune(want)) / 3
	if limit < 2 {
		limit = 2
	}

	type scored struct {
		name string
		dist int
	}
	var matches []scored
	for _, name := range candidates {
		d := levenshtein.ComputeDistance(want, fold.String(name))
		if d <= limit {
			matches = append(matches, scored{name, d})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].dist != matches[j].dist {
			return matches[i].dist < matches[j].dist
		}
		return matches[i].name < matches[j].name
	})

	out := make([]string, 0, len(matches))
	for i, m := range matches {
		if i == maxSuggestions {
			break
		}
		out = append(out, m.name)
	}
	return out
}

// suggestComponents lists component types that likely own prop: components
// on the same node that actually carry it, then types the hints associate
// with it. The component that was asked for is never suggested.
func suggestComponents(hints *config.Hints, comps []scene.ComponentSnapshot, requested, prop string) []string {
	var out []string
	add := func(typ string) {
		if scene.SameType(typ, requested) {
			return
		}
		for _, existing := range out {
			if scene.SameType(existing, typ) {
				return
			}
		}
		out = append(out, typ)
	}

	for _, comp := range comps {
		if property.Analyze(comp, prop).Exists {
			add(comp.Type)
		}
	}
	for _, typ := range hints.ComponentsFor(prop) {
		add(typ)
	}
	return out
}
