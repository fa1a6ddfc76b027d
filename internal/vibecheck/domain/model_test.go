package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_ClampsScores(t *testing.T) {
	e := Evaluation{
		Summary:   "  solid idea ",
		Strengths: []string{"fast", " ", ""},
		Scores:    Scores{Market: 12, Execution: -3, Innovation: 7.26, Monetization: math.NaN(), Overall: 8},
	}
	require.NoError(t, e.Normalize())

	assert.Equal(t, "solid idea", e.Summary)
	assert.Equal(t, Scores{Market: 10, Execution: 0, Innovation: 7.3, Monetization: 0, Overall: 8}, e.Scores)
	assert.Equal(t, []string{"fast"}, e.Strengths)
	assert.NotNil(t, e.Risks, "lists serialize as [] not null")
}

func TestNormalize_FillsOverall(t *testing.T) {
	e := Evaluation{Summary: "x", Scores: Scores{Market: 8, Execution: 6, Innovation: 7, Monetization: 5}}
	require.NoError(t, e.Normalize())
	assert.Equal(t, 6.5, e.Scores.Overall)
}

func TestNormalize_EmptySummary(t *testing.T) {
	e := Evaluation{Summary: " "}
	assert.ErrorIs(t, e.Normalize(), ErrEvaluationFailed)
}
