package quiz

import "math/rand/v2"

// ShuffleOptions returns a copy of q with its options permuted uniformly at
// random and CorrectIndex remapped to the new position of the originally
// correct option. Paired option images move with their options so the two
// slices stay index-aligned. The input is never mutated.
//
// Questions with fewer than two options are returned as an unchanged copy.
func ShuffleOptions(q Question, r *rand.Rand) ExamQuestion {
	out := q
	out.Options = append([]string(nil), q.Options...)
	if q.OptionImages != nil {
		out.OptionImages = append([]string(nil), q.OptionImages...)
	}
	if len(out.Options) < 2 {
		return out
	}

	// Fisher–Yates over the index array, then project.
	idx := make([]int, len(out.Options))
	for i := range idx {
		idx[i] = i
	}
	for i := len(idx) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		idx[i], idx[j] = idx[j], idx[i]
	}

	for pos, orig := range idx {
		out.Options[pos] = q.Options[orig]
		if out.OptionImages != nil {
			out.OptionImages[pos] = q.OptionImages[orig]
		}
		if orig == q.CorrectIndex {
			out.CorrectIndex = pos
		}
	}
	return out
}
