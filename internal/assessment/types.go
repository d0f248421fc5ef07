package assessment

import (
	"context"
	"iter"

	"github.com/NexHire-2025/interview-service/internal/models"
)

// Generator is the raw generative-model capability the orchestrator wraps.
// Implementations return free text; nothing above this interface assumes the
// model emits bare JSON.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, prompt string, temperature float32) (string, error)

	// Stream yields text chunks as the model produces them. The sequence is
	// finite and non-restartable; an error element terminates it.
	Stream(ctx context.Context, systemPrompt, prompt string, temperature float32) iter.Seq2[string, error]
}

// JobContext carries the job-side inputs every model call needs.
type JobContext struct {
	Title            string
	Description      string
	RequirementNotes string
	CustomQuestions  []string
	Plan             models.PlanTier
}

// Turn is one question/answer exchange of the transcript.
type Turn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// TurnRating is the per-turn verdict. Scores are 0-100.
type TurnRating struct {
	TechnicalScore     int    `json:"technical_score"`
	CommunicationScore int    `json:"communication_score"`
	OverfitScore       int    `json:"overfit_score"`
	AIFlagged          bool   `json:"ai_flagged"`
	Feedback           string `json:"feedback"`
}

// NeutralRating is the fixed substitute used when rating cannot be obtained.
func NeutralRating() TurnRating {
	return TurnRating{
		TechnicalScore:     50,
		CommunicationScore: 50,
		OverfitScore:       0,
		AIFlagged:          false,
		Feedback:           "Automatic rating was unavailable for this answer; neutral defaults applied.",
	}
}

// EvaluationResult is the final fitness verdict for a full interview.
type EvaluationResult struct {
	OverallScore   float64                       `json:"overall_score"`
	IsFit          bool                          `json:"is_fit"`
	Reasoning      string                        `json:"reasoning"`
	BehavioralNote string                        `json:"behavioral_note"`
	Metrics        map[string]models.MetricScore `json:"metrics"`
}

var baseMetrics = []string{"technical_depth", "communication", "problem_solving", "role_fit"}
var deepMetrics = []string{"consistency", "growth_potential"}

// metricNames returns the sub-metrics requested for a plan; higher tiers get
// the extended behavioral set.
func metricNames(plan models.PlanTier) []string {
	if plan.DeepRating() {
		return append(append([]string{}, baseMetrics...), deepMetrics...)
	}
	return baseMetrics
}

// ManualReviewFallback is returned when the model cannot evaluate the
// interview; completion must never be blocked by model unavailability.
func ManualReviewFallback(plan models.PlanTier) EvaluationResult {
	metrics := make(map[string]models.MetricScore, len(metricNames(plan)))
	for _, name := range metricNames(plan) {
		metrics[name] = models.MetricScore{Score: 0, Critique: "Not assessed"}
	}
	return EvaluationResult{
		OverallScore:   0,
		IsFit:          false,
		Reasoning:      "Automated evaluation was unavailable; manual review required.",
		BehavioralNote: "",
		Metrics:        metrics,
	}
}
