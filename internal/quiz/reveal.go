package quiz

// Reveal decides whether correct answers and rationale are visible for a
// given score. The rule is evaluated against the threshold in force at view
// time, for fresh results and historical records alike: lowering the
// threshold retroactively unlocks old attempts' answer keys, raising it can
// hide previously visible ones.
func Reveal(score int, settings GlobalSettings) bool {
	return score >= settings.RevealThreshold
}

// RedactResult returns a copy of res safe to show when the reveal policy
// denies access: correct indexes and rationale text are stripped while the
// question content, options and the student's own answers remain.
func RedactResult(res AttemptResult) AttemptResult {
	out := res
	out.Mistakes = make([]Mistake, len(res.Mistakes))
	for i, m := range res.Mistakes {
		m.CorrectIndex = Unanswered
		m.Rationale = ""
		out.Mistakes[i] = m
	}
	return out
}
