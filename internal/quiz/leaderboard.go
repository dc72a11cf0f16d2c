package quiz

import "sort"

// LeaderboardEntry is one ranked student on a unit's leaderboard.
type LeaderboardEntry struct {
	StudentName string `json:"student_name"`
	Score       int    `json:"score"`
	Attempts    int    `json:"attempts"`
	SubmittedAt int64  `json:"submitted_at"` // when the retained best was submitted
}

// Leaderboard folds a unit's attempt stream into one entry per student,
// keeping each student's highest score, and orders entries by score
// descending. When two attempts share a student's maximum, the earliest one
// is retained; students tied on score rank by that retained timestamp, then
// by name, so the output is deterministic for any input order.
//
// Read-only and recomputed on every view; stored data is never touched.
func Leaderboard(results []AttemptResult) []LeaderboardEntry {
	best := map[string]LeaderboardEntry{}
	for _, r := range results {
		cur, seen := best[r.StudentName]
		if !seen {
			best[r.StudentName] = LeaderboardEntry{
				StudentName: r.StudentName,
				Score:       r.Score,
				Attempts:    1,
				SubmittedAt: r.SubmittedAt,
			}
			continue
		}
		cur.Attempts++
		if r.Score > cur.Score || (r.Score == cur.Score && r.SubmittedAt < cur.SubmittedAt) {
			cur.Score = r.Score
			cur.SubmittedAt = r.SubmittedAt
		}
		best[r.StudentName] = cur
	}

	out := make([]LeaderboardEntry, 0, len(best))
	for _, e := range best {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].SubmittedAt != out[j].SubmittedAt {
			return out[i].SubmittedAt < out[j].SubmittedAt
		}
		return out[i].StudentName < out[j].StudentName
	})
	return out
}

// GroupByUnit buckets attempts by unit label for the results navigation
// view, preserving each bucket's input order. Keys come back sorted.
func GroupByUnit(results []AttemptResult) (map[string][]AttemptResult, []string) {
	grouped := map[string][]AttemptResult{}
	for _, r := range results {
		unit := r.Unit
		if unit == "" {
			unit = "未分類"
		}
		grouped[unit] = append(grouped[unit], r)
	}
	keys := make([]string, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return grouped, keys
}
