package setlist

import "github.com/fabiofranco85/escala/internal/models"

// Relabel returns a copy of a setlist carrying a new label. An empty
// label removes the existing one. Date, moments and event type are
// preserved; the source is not mutated. Callers adding or renaming
// labels should normalize them with models.NormalizeLabel first.
func Relabel(source models.Setlist, newLabel string) models.Setlist {
	out := source.Clone()
	out.Label = newLabel
	return out
}
