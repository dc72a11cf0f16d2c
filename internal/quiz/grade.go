package quiz

import "math"

// GradeOutcome is the scoring result for one submitted instance.
type GradeOutcome struct {
	Score          int
	TotalQuestions int
	CorrectCount   int
	Mistakes       []Mistake
}

// Grade scores a completed instance against the answer sheet. A question is
// correct iff the recorded answer equals its (post-shuffle) correct index;
// an unanswered question is never correct. Every incorrect question yields a
// Mistake snapshot with the options exactly as presented.
//
// Grading is pure: the same (instance, sheet) pair always yields the same
// outcome. Returns ErrIncomplete when the sheet is not complete.
func Grade(instance []ExamQuestion, answers *AnswerSheet) (GradeOutcome, error) {
	if !answers.Complete() {
		return GradeOutcome{}, ErrIncomplete
	}
	out := GradeOutcome{TotalQuestions: len(instance)}
	for _, q := range instance {
		chosen := answers.Chosen(q.ID)
		if chosen == q.CorrectIndex {
			out.CorrectCount++
			continue
		}
		out.Mistakes = append(out.Mistakes, Mistake{
			QuestionID:         q.ID,
			Content:            q.Content,
			Options:            q.Options,
			OptionImages:       q.OptionImages,
			CorrectIndex:       q.CorrectIndex,
			StudentAnswerIndex: chosen,
			ImageURL:           q.ImageURL,
			Rationale:          q.Rationale,
		})
	}
	out.Score = Percentage(out.CorrectCount, out.TotalQuestions)
	return out, nil
}

// Percentage converts a correct count into the 0–100 score, rounding the
// floating quotient half-up.
func Percentage(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}
