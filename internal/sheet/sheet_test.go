package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloud-quiz/quizmaster/internal/quiz"
)

func TestGenerate(t *testing.T) {
	res := quiz.AttemptResult{
		ID: "r1", StudentName: "Ming", Unit: "Unit 1", Score: 60,
		Mistakes: []quiz.Mistake{
			{
				Content: "2+2=?", Options: []string{"3", "4", "5", "6"},
				CorrectIndex: 1, StudentAnswerIndex: 0, Rationale: "basic addition",
			},
			{
				Content: "3+3=?", Options: []string{"5", "6", "7", "8"},
				CorrectIndex: 1, StudentAnswerIndex: quiz.Unanswered,
			},
		},
	}

	buf, err := Generate(res, Options{})
	require.NoError(t, err)
	require.NotEmpty(t, buf)
	assert.Equal(t, "%PDF", string(buf[:4]))
}

func TestGenerateRejectsEmptySheet(t *testing.T) {
	_, err := Generate(quiz.AttemptResult{ID: "r1", Score: 100}, Options{})
	assert.Error(t, err)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "A", label(0))
	assert.Equal(t, "D", label(3))
	assert.Equal(t, "?", label(4))
	assert.Equal(t, "?", label(quiz.Unanswered))
}
