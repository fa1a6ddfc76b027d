package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctrl-alt-vibe/vibe-backend/internal/vibecheck/domain"
)

func TestRender(t *testing.T) {
	site := "https://vibe.dev"
	idea := strings.Repeat("A marketplace for vibe coded side projects with café reviews. ", 40)
	vc := &domain.VibeCheck{
		ID:              uuid.MustParse("0b7c6a52-1f7e-4a39-9b0e-6f1a2c3d4e5f"),
		WebsiteURL:      &site,
		IdeaDescription: &idea,
		Model:           "gpt-4o-mini",
		CreatedAt:       time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC),
		Evaluation: domain.Evaluation{
			Summary:         "Promising niche.",
			MarketFit:       "Indie makers want distribution.",
			Strengths:       []string{"Community", "Low cost"},
			Risks:           []string{strings.Repeat("Long risk text that needs wrapping. ", 20)},
			Recommendations: []string{"Ship weekly"},
			Scores:          domain.Scores{Market: 7, Execution: 6, Innovation: 8, Monetization: 5, Overall: 6.5},
		},
	}

	out, err := Render(vc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Greater(t, len(out), 1000)
}

func TestRender_MinimalEvaluation(t *testing.T) {
	vc := &domain.VibeCheck{ID: uuid.New(), Evaluation: domain.Evaluation{Summary: "ok"}}
	out, err := Render(vc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestFilename(t *testing.T) {
	vc := &domain.VibeCheck{ID: uuid.MustParse("0b7c6a52-1f7e-4a39-9b0e-6f1a2c3d4e5f")}
	assert.Equal(t, "vibe-check-0b7c6a52.pdf", Filename(vc))
}
