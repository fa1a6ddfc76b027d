package domain

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MinIdeaLength = 20
	MaxIdeaLength = 5000
	MaxScore      = 10.0
)

type Scores struct {
	Market       float64 `json:"market"`
	Execution    float64 `json:"execution"`
	Innovation   float64 `json:"innovation"`
	Monetization float64 `json:"monetization"`
	Overall      float64 `json:"overall"`
}

// Evaluation is the model's verdict, stored as JSONB.
type Evaluation struct {
	Summary         string   `json:"summary"`
	MarketFit       string   `json:"market_fit"`
	TargetAudience  string   `json:"target_audience"`
	Competitors     []string `json:"competitors"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Risks           []string `json:"risks"`
	Recommendations []string `json:"recommendations"`
	Scores          Scores   `json:"scores"`
}

// Normalize clamps every score into [0, 10] at one decimal, fills a missing
// overall with the mean of the others and drops blank list entries.
func (e *Evaluation) Normalize() error {
	e.Summary = strings.TrimSpace(e.Summary)
	if e.Summary == "" {
		return ErrEvaluationFailed
	}
	e.MarketFit = strings.TrimSpace(e.MarketFit)
	e.TargetAudience = strings.TrimSpace(e.TargetAudience)

	s := &e.Scores
	for _, v := range []*float64{&s.Market, &s.Execution, &s.Innovation, &s.Monetization, &s.Overall} {
		*v = clamp(*v)
	}
	if s.Overall == 0 {
		s.Overall = clamp((s.Market + s.Execution + s.Innovation + s.Monetization) / 4)
	}

	e.Competitors = compact(e.Competitors)
	e.Strengths = compact(e.Strengths)
	e.Weaknesses = compact(e.Weaknesses)
	e.Risks = compact(e.Risks)
	e.Recommendations = compact(e.Recommendations)
	return nil
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > MaxScore {
		return MaxScore
	}
	return math.Round(v*10) / 10
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

type VibeCheck struct {
	ID              uuid.UUID  `json:"id"`
	UserID          *int64     `json:"user_id"`
	WebsiteURL      *string    `json:"website_url"`
	IdeaDescription *string    `json:"idea_description"`
	InputHash       string     `json:"-"`
	Evaluation      Evaluation `json:"evaluation"`
	Model           string     `json:"model"`
	Cached          bool       `json:"cached"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Input is what the caller submits; at least one field must be set.
type Input struct {
	WebsiteURL      string
	IdeaDescription string
}
