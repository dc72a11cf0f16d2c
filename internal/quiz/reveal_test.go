package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReveal(t *testing.T) {
	gs := GlobalSettings{RevealThreshold: 60}

	assert.False(t, Reveal(0, gs))
	assert.False(t, Reveal(59, gs))
	assert.True(t, Reveal(60, gs)) // meeting the threshold is enough
	assert.True(t, Reveal(100, gs))

	// Threshold 0 reveals everything, 100 only perfect scores.
	assert.True(t, Reveal(0, GlobalSettings{RevealThreshold: 0}))
	assert.False(t, Reveal(99, GlobalSettings{RevealThreshold: 100}))
	assert.True(t, Reveal(100, GlobalSettings{RevealThreshold: 100}))
}

func TestRedactResult(t *testing.T) {
	res := AttemptResult{
		ID:          "r1",
		StudentName: "小明",
		Score:       40,
		Mistakes: []Mistake{
			{QuestionID: "a", Content: "A?", Options: []string{"1", "2", "3", "4"},
				CorrectIndex: 2, StudentAnswerIndex: 0, Rationale: "because"},
		},
	}

	got := RedactResult(res)

	require.Len(t, got.Mistakes, 1)
	assert.Equal(t, Unanswered, got.Mistakes[0].CorrectIndex)
	assert.Empty(t, got.Mistakes[0].Rationale)
	// The student still sees what they answered.
	assert.Equal(t, 0, got.Mistakes[0].StudentAnswerIndex)
	assert.Equal(t, "A?", got.Mistakes[0].Content)

	// Source untouched.
	assert.Equal(t, 2, res.Mistakes[0].CorrectIndex)
	assert.Equal(t, "because", res.Mistakes[0].Rationale)
}
