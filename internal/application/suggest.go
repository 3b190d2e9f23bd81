package application

import (
	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"

	"github.com/ahrav/go-tipstat/internal/domain"
)

// suggestColumns fills err.Suggestions with the header column closest to
// each missing field's aliases, compared case-insensitively. Columns
// further than maxDistance edits away are not suggested.
func suggestColumns(err *domain.SchemaError, mapping domain.FieldMapping, maxDistance int) {
	if maxDistance < 0 || len(err.Available) == 0 {
		return
	}

	fold := cases.Fold()
	for _, field := range err.Missing {
		best, bestDist := "", maxDistance+1
		for _, alias := range mapping[field] {
			a := fold.String(alias)
			for _, col := range err.Available {
				if d := levenshtein.ComputeDistance(a, fold.String(col)); d < bestDist {
					best, bestDist = col, d
				}
			}
		}
		if best == "" {
			continue
		}
		if err.Suggestions == nil {
			err.Suggestions = make(map[string]string, len(err.Missing))
		}
		err.Suggestions[field] = best
	}
}
