package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardKeepsBestPerStudent(t *testing.T) {
	results := []AttemptResult{
		{StudentName: "小明", Score: 60, SubmittedAt: 100},
		{StudentName: "小明", Score: 90, SubmittedAt: 200},
		{StudentName: "小華", Score: 80, SubmittedAt: 150},
		{StudentName: "小明", Score: 70, SubmittedAt: 300},
	}

	board := Leaderboard(results)
	require.Len(t, board, 2)

	assert.Equal(t, "小明", board[0].StudentName)
	assert.Equal(t, 90, board[0].Score)
	assert.Equal(t, 3, board[0].Attempts)
	assert.EqualValues(t, 200, board[0].SubmittedAt)

	assert.Equal(t, "小華", board[1].StudentName)
	assert.Equal(t, 80, board[1].Score)
}

func TestLeaderboardTieKeepsEarliestAttempt(t *testing.T) {
	results := []AttemptResult{
		{StudentName: "小明", Score: 90, SubmittedAt: 500},
		{StudentName: "小明", Score: 90, SubmittedAt: 100},
	}

	board := Leaderboard(results)
	require.Len(t, board, 1)
	assert.EqualValues(t, 100, board[0].SubmittedAt)
}

func TestLeaderboardOrdering(t *testing.T) {
	results := []AttemptResult{
		{StudentName: "乙", Score: 80, SubmittedAt: 300},
		{StudentName: "甲", Score: 80, SubmittedAt: 300},
		{StudentName: "丙", Score: 80, SubmittedAt: 100},
		{StudentName: "丁", Score: 95, SubmittedAt: 999},
	}

	board := Leaderboard(results)
	require.Len(t, board, 4)

	// Highest score first, then earlier submission, then name.
	assert.Equal(t, "丁", board[0].StudentName)
	assert.Equal(t, "丙", board[1].StudentName)
	assert.Equal(t, "乙", board[2].StudentName)
	assert.Equal(t, "甲", board[3].StudentName)
}

func TestLeaderboardEmpty(t *testing.T) {
	assert.Empty(t, Leaderboard(nil))
}

func TestGroupByUnit(t *testing.T) {
	results := []AttemptResult{
		{ID: "1", Unit: "第一冊 | 分數"},
		{ID: "2", Unit: ""},
		{ID: "3", Unit: "第一冊 | 分數"},
	}

	grouped, keys := GroupByUnit(results)
	assert.Equal(t, []string{"未分類", "第一冊 | 分數"}, keys)
	require.Len(t, grouped["第一冊 | 分數"], 2)
	assert.Equal(t, "1", grouped["第一冊 | 分數"][0].ID)
	require.Len(t, grouped["未分類"], 1)
}
