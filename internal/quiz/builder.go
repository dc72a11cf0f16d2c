package quiz

import (
	"math/rand/v2"
	"sort"
)

// Scope narrows an exam to one volume+unit pair, or the whole subject.
type Scope struct {
	All    bool   `json:"all"`
	Volume string `json:"volume,omitempty"`
	Unit   string `json:"unit,omitempty"`
}

// Label is the unit label attempts are filed under: the volume|unit pair,
// or "<subject>總測驗" for a whole-subject exam.
func (s Scope) Label(subject string) string {
	if s.All {
		return subject + "總測驗"
	}
	return s.Volume + " | " + s.Unit
}

// Filter returns the bank questions matching subject and scope, in bank order.
func Filter(bank []Question, subject string, scope Scope) []Question {
	var out []Question
	for _, q := range bank {
		if q.Subject != subject {
			continue
		}
		if !scope.All && (q.Volume != scope.Volume || q.Unit != scope.Unit) {
			continue
		}
		out = append(out, q)
	}
	return out
}

// Units lists the distinct "volume | unit" scopes available for a subject,
// sorted, for the setup screen.
func Units(bank []Question, subject string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, q := range bank {
		if q.Subject != subject {
			continue
		}
		key := q.Volume + " | " + q.Unit
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

// BuildInstance assembles a concrete exam: it filters the bank, draws a
// uniform sample of count questions without replacement, and shuffles the
// options of each sampled question independently. Presentation order is the
// sampled order.
//
// count is clamped to the filtered size; a count below 1 means "all".
// Returns ErrNoQuestions when nothing matches the filter.
func BuildInstance(bank []Question, subject string, scope Scope, count int, r *rand.Rand) ([]ExamQuestion, error) {
	matching := Filter(bank, subject, scope)
	if len(matching) == 0 {
		return nil, ErrNoQuestions
	}
	if count < 1 || count > len(matching) {
		count = len(matching)
	}

	// Sample without replacement: shuffle-then-slice over the index permutation.
	picks := r.Perm(len(matching))[:count]

	instance := make([]ExamQuestion, 0, count)
	for _, ix := range picks {
		instance = append(instance, ShuffleOptions(matching[ix], r))
	}
	return instance, nil
}

// BuildRetry assembles the "retry mistakes only" instance: exactly the
// missed questions from the previous instance, each independently
// re-shuffled. Returns ErrNoQuestions when nothing was missed.
func BuildRetry(instance []ExamQuestion, answers *AnswerSheet, r *rand.Rand) ([]ExamQuestion, error) {
	var retry []ExamQuestion
	for _, q := range instance {
		if answers.Chosen(q.ID) != q.CorrectIndex {
			retry = append(retry, ShuffleOptions(q, r))
		}
	}
	if len(retry) == 0 {
		return nil, ErrNoQuestions
	}
	return retry, nil
}
