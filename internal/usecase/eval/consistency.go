package eval

import "strings"

// Consistency counts paraphrase and perturbation pairs across a run.
type Consistency struct {
	InvariancePairs      int
	InvarianceConsistent int
	PerturbationPairs    int
	PerturbationDiverged int
}

// InvarianceRate is the share of variant pairs whose normalized responses match.
func (c Consistency) InvarianceRate() float64 {
	return ratio(c.InvarianceConsistent, c.InvariancePairs)
}

// PerturbationRate is the share of perturbation pairs whose normalized responses differ.
func (c Consistency) PerturbationRate() float64 {
	return ratio(c.PerturbationDiverged, c.PerturbationPairs)
}

// AggregateConsistency pairs each variant with its parent and each perturbed
// case with the cases it perturbs. Links to unknown ids are skipped.
func AggregateConsistency(results []Result) Consistency {
	byID := make(map[string]*Result, len(results))
	for i := range results {
		byID[results[i].Case.ID] = &results[i]
	}

	var c Consistency
	for i := range results {
		r := &results[i]
		norm := NormalizeResponse(r.Response)

		if parentID := r.Case.VariantOf; parentID != "" {
			if parent, ok := byID[parentID]; ok {
				c.InvariancePairs++
				if norm == NormalizeResponse(parent.Response) {
					c.InvarianceConsistent++
				}
			}
		}

		for _, parentID := range r.Case.Perturbs {
			parent, ok := byID[parentID]
			if !ok {
				continue
			}
			c.PerturbationPairs++
			if norm != NormalizeResponse(parent.Response) {
				c.PerturbationDiverged++
			}
		}
	}
	return c
}

// NormalizeResponse trims, lower-cases and collapses whitespace runs to one space.
func NormalizeResponse(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
