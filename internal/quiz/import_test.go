package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBank(t *testing.T) {
	text := "2+2=?|3|4|5|6|2||\n" +
		"\n" +
		"首都是?|台北|台中|台南|高雄|1|cap.png|位於北部\n" +
		"太短|a|b|2\n" +
		"答案壞掉|a|b|c|d|9\n" +
		"不是數字|a|b|c|d|x"

	qs, errs := ParseBank(text, "數學", "第一冊", "整數")

	require.Len(t, qs, 2)

	assert.Equal(t, "2+2=?", qs[0].Question.Content)
	assert.Equal(t, []string{"3", "4", "5", "6"}, qs[0].Question.Options)
	assert.Equal(t, 1, qs[0].Question.CorrectIndex)
	assert.Empty(t, qs[0].Question.ImageURL)
	assert.Empty(t, qs[0].Question.Rationale)
	assert.Equal(t, "數學", qs[0].Question.Subject)
	assert.Equal(t, "第一冊", qs[0].Question.Volume)
	assert.Equal(t, "整數", qs[0].Question.Unit)
	assert.Equal(t, 1, qs[0].Line)

	assert.Equal(t, "cap.png", qs[1].Question.ImageURL)
	assert.Equal(t, "位於北部", qs[1].Question.Rationale)
	assert.Equal(t, 0, qs[1].Question.CorrectIndex)
	// Source line, not position among the survivors: the blank line 2 still
	// counts.
	assert.Equal(t, 3, qs[1].Line)

	require.Len(t, errs, 3)
	assert.Equal(t, 4, errs[0].Line)
	assert.Contains(t, errs[0].Reason, "6 fields")
	assert.Equal(t, 5, errs[1].Line)
	assert.Contains(t, errs[1].Reason, "out of range")
	assert.Equal(t, 6, errs[2].Line)
	assert.Contains(t, errs[2].Reason, "not a number")
}

func TestParseBankEmptyInput(t *testing.T) {
	qs, errs := ParseBank("\n\n  \n", "數學", "第一冊", "整數")
	assert.Empty(t, qs)
	assert.Empty(t, errs)
}

func TestExportBankRoundTrip(t *testing.T) {
	bank := []Question{
		{
			Content: "2+2=?", Options: []string{"3", "4", "5", "6"},
			CorrectIndex: 1,
		},
		{
			Content: "首都是?", Options: []string{"台北", "台中", "台南", "高雄"},
			CorrectIndex: 0, ImageURL: "cap.png", Rationale: "位於北部",
		},
	}

	text := ExportBank(bank)
	got, errs := ParseBank(text, "地理", "第二冊", "台灣")
	require.Empty(t, errs)
	require.Len(t, got, 2)

	for i := range bank {
		assert.Equal(t, bank[i].Content, got[i].Question.Content)
		assert.Equal(t, bank[i].Options, got[i].Question.Options)
		assert.Equal(t, bank[i].CorrectIndex, got[i].Question.CorrectIndex)
		assert.Equal(t, bank[i].ImageURL, got[i].Question.ImageURL)
		assert.Equal(t, bank[i].Rationale, got[i].Question.Rationale)
	}
}

func TestQuestionValidate(t *testing.T) {
	ok := Question{
		Unit: "整數", Content: "2+2=?",
		Options: []string{"3", "4", "5", "6"}, CorrectIndex: 1,
	}
	require.NoError(t, ok.Validate())

	tests := []struct {
		name   string
		mutate func(*Question)
	}{
		{"no content", func(q *Question) { q.Content = "" }},
		{"no unit", func(q *Question) { q.Unit = "" }},
		{"three options", func(q *Question) { q.Options = q.Options[:3] }},
		{"blank option", func(q *Question) { q.Options[2] = "" }},
		{"index too high", func(q *Question) { q.CorrectIndex = 4 }},
		{"index negative", func(q *Question) { q.CorrectIndex = -1 }},
		{"misaligned images", func(q *Question) { q.OptionImages = []string{"x.png"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := ok
			q.Options = append([]string(nil), ok.Options...)
			tt.mutate(&q)
			assert.Error(t, q.Validate())
		})
	}
}
