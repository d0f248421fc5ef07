package assessment

import (
	"context"
	"errors"
	"io"
	"iter"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NexHire-2025/interview-service/internal/models"
)

// stubGenerator replays canned responses. An entry in errs at the same index
// takes precedence over the response.
type stubGenerator struct {
	responses []string
	errs      []error
	calls     int

	chunks    []string
	streamErr error
}

func (s *stubGenerator) Generate(ctx context.Context, systemPrompt, prompt string, temperature float32) (string, error) {
	idx := s.calls
	s.calls++
	if idx < len(s.errs) && s.errs[idx] != nil {
		return "", s.errs[idx]
	}
	if idx < len(s.responses) {
		return s.responses[idx], nil
	}
	return "", errors.New("stub exhausted")
}

func (s *stubGenerator) Stream(ctx context.Context, systemPrompt, prompt string, temperature float32) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, chunk := range s.chunks {
			if !yield(chunk, nil) {
				return
			}
		}
		if s.streamErr != nil {
			yield("", s.streamErr)
		}
	}
}

func newTestOrchestrator(gen Generator) (*Orchestrator, *[]time.Duration) {
	o := NewOrchestrator(gen, slog.New(slog.DiscardHandler))
	var slept []time.Duration
	o.sleep = func(d time.Duration) { slept = append(slept, d) }
	return o, &slept
}

func proJob() JobContext {
	return JobContext{
		Title:       "Backend Engineer",
		Description: "Build services.",
		Plan:        models.PlanPro,
	}
}

func TestGenerateQuestions(t *testing.T) {
	t.Run("returns exactly the plan's question count", func(t *testing.T) {
		gen := &stubGenerator{responses: []string{`["q1","q2","q3","q4","q5","q6","q7","q8","q9","q10"]`}}
		o, _ := newTestOrchestrator(gen)

		questions, err := o.GenerateQuestions(context.Background(), proJob(), "resume")

		require.NoError(t, err)
		assert.Len(t, questions, 8)
		assert.Equal(t, "q1", questions[0])
	})

	t.Run("pads a short model response", func(t *testing.T) {
		gen := &stubGenerator{responses: []string{`["q1","q2"]`}}
		o, _ := newTestOrchestrator(gen)

		questions, err := o.GenerateQuestions(context.Background(), proJob(), "")

		require.NoError(t, err)
		assert.Len(t, questions, 8)
		assert.Equal(t, "q1", questions[0])
		assert.Equal(t, fallbackQuestions[0], questions[2])
	})

	t.Run("falls back to custom questions first on persistent failure", func(t *testing.T) {
		gen := &stubGenerator{errs: []error{
			errors.New("model unavailable"),
			errors.New("model unavailable"),
			errors.New("model unavailable"),
		}}
		o, _ := newTestOrchestrator(gen)

		job := proJob()
		job.CustomQuestions = []string{"custom A", "custom B"}
		questions, err := o.GenerateQuestions(context.Background(), job, "")

		require.NoError(t, err)
		require.Len(t, questions, 7)
		assert.Equal(t, "custom A", questions[0])
		assert.Equal(t, "custom B", questions[1])
		assert.Equal(t, fallbackQuestions, questions[2:])
	})

	t.Run("fallback is truncated to the plan count", func(t *testing.T) {
		gen := &stubGenerator{errs: []error{
			errors.New("model unavailable"),
			errors.New("model unavailable"),
			errors.New("model unavailable"),
		}}
		o, _ := newTestOrchestrator(gen)

		job := JobContext{Title: "Intern", Plan: models.PlanFree}
		job.CustomQuestions = []string{"c1", "c2", "c3"}
		questions, err := o.GenerateQuestions(context.Background(), job, "")

		require.NoError(t, err)
		assert.Equal(t, []string{"c1", "c2", "c3", fallbackQuestions[0], fallbackQuestions[1]}, questions)
	})

	t.Run("credential failure aborts without retrying", func(t *testing.T) {
		gen := &stubGenerator{errs: []error{errors.New("401 unauthenticated: bad api key")}}
		o, _ := newTestOrchestrator(gen)

		_, err := o.GenerateQuestions(context.Background(), proJob(), "")

		assert.True(t, IsAuthError(err))
		assert.Equal(t, 1, gen.calls)
	})
}

func TestGenerateJSONRetry(t *testing.T) {
	t.Run("rate limits back off exponentially", func(t *testing.T) {
		gen := &stubGenerator{
			errs:      []error{errors.New("429 rate limit exceeded"), errors.New("429 rate limit exceeded"), nil},
			responses: []string{"", "", `["q1"]`},
		}
		o, slept := newTestOrchestrator(gen)

		var out []string
		err := o.generateJSON(context.Background(), "sys", "prompt", 0.5, &out)

		require.NoError(t, err)
		assert.Equal(t, 3, gen.calls)
		assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, *slept)
	})

	t.Run("unparseable output burns an attempt without sleeping", func(t *testing.T) {
		gen := &stubGenerator{responses: []string{"I refuse to emit JSON", `{"score": 12}`}}
		o, slept := newTestOrchestrator(gen)

		var out map[string]int
		err := o.generateJSON(context.Background(), "sys", "prompt", 0.5, &out)

		require.NoError(t, err)
		assert.Equal(t, 12, out["score"])
		assert.Empty(t, *slept)
	})

	t.Run("exhausted attempts surface the last error", func(t *testing.T) {
		gen := &stubGenerator{responses: []string{"nope", "still nope", "never"}}
		o, _ := newTestOrchestrator(gen)

		var out map[string]int
		err := o.generateJSON(context.Background(), "sys", "prompt", 0.5, &out)

		var parseErr *ParseError
		assert.ErrorAs(t, err, &parseErr)
		assert.Equal(t, 3, gen.calls)
	})
}

func TestRateTurn(t *testing.T) {
	t.Run("parses and clamps the rating", func(t *testing.T) {
		gen := &stubGenerator{responses: []string{
			`{"technical_score": 120, "communication_score": -5, "overfit_score": 30, "ai_flagged": true, "feedback": "solid"}`,
		}}
		o, _ := newTestOrchestrator(gen)

		rating := o.RateTurn(context.Background(), "q", "a")

		assert.Equal(t, 100, rating.TechnicalScore)
		assert.Equal(t, 0, rating.CommunicationScore)
		assert.Equal(t, 30, rating.OverfitScore)
		assert.True(t, rating.AIFlagged)
	})

	t.Run("degrades to the neutral rating", func(t *testing.T) {
		gen := &stubGenerator{errs: []error{
			errors.New("boom"), errors.New("boom"), errors.New("boom"),
		}}
		o, _ := newTestOrchestrator(gen)

		rating := o.RateTurn(context.Background(), "q", "a")

		assert.Equal(t, NeutralRating(), rating)
	})
}

func TestEvaluateInterview(t *testing.T) {
	turns := []Turn{{Question: "q1", Answer: "a1"}}
	ratings := []TurnRating{{TechnicalScore: 70, CommunicationScore: 60}}

	t.Run("parses the verdict", func(t *testing.T) {
		gen := &stubGenerator{responses: []string{
			`{"overall_score": 74.5, "is_fit": true, "reasoning": "good", "behavioral_note": "calm", "metrics": {"technical_depth": {"score": 70, "critique": "ok"}}}`,
		}}
		o, _ := newTestOrchestrator(gen)

		result := o.EvaluateInterview(context.Background(), proJob(), turns, ratings)

		assert.Equal(t, 74.5, result.OverallScore)
		assert.True(t, result.IsFit)
		assert.Equal(t, 70, result.Metrics["technical_depth"].Score)
	})

	t.Run("degrades to a manual-review verdict", func(t *testing.T) {
		gen := &stubGenerator{errs: []error{
			errors.New("boom"), errors.New("boom"), errors.New("boom"),
		}}
		o, _ := newTestOrchestrator(gen)

		result := o.EvaluateInterview(context.Background(), proJob(), turns, ratings)

		assert.Zero(t, result.OverallScore)
		assert.False(t, result.IsFit)
		assert.Contains(t, result.Reasoning, "manual review")
		assert.Len(t, result.Metrics, 6)
		assert.Contains(t, result.Metrics, "growth_potential")
	})

	t.Run("free plan fallback carries only the base metrics", func(t *testing.T) {
		result := ManualReviewFallback(models.PlanFree)
		assert.Len(t, result.Metrics, 4)
		assert.NotContains(t, result.Metrics, "growth_potential")
	})
}

func TestStreamTurn(t *testing.T) {
	t.Run("delivers chunks then EOF", func(t *testing.T) {
		gen := &stubGenerator{chunks: []string{"Nice ", "answer. ", "Next question?"}}
		o, _ := newTestOrchestrator(gen)

		stream := o.StreamTurn(context.Background(), proJob(), nil, "my answer")
		defer stream.Close()

		var got string
		for {
			chunk, err := stream.Recv()
			if err == io.EOF {
				break
			}
			got += chunk
		}
		assert.Equal(t, "Nice answer. Next question?", got)
	})

	t.Run("mid-stream failure yields one fallback chunk", func(t *testing.T) {
		gen := &stubGenerator{chunks: []string{"Nice "}, streamErr: errors.New("connection reset")}
		o, _ := newTestOrchestrator(gen)

		stream := o.StreamTurn(context.Background(), proJob(), nil, "my answer")
		defer stream.Close()

		first, err := stream.Recv()
		require.NoError(t, err)
		assert.Equal(t, "Nice ", first)

		second, err := stream.Recv()
		require.NoError(t, err)
		assert.Equal(t, TurnFallback, second)

		_, err = stream.Recv()
		assert.Equal(t, io.EOF, err)
	})

	t.Run("immediate failure still yields the fallback", func(t *testing.T) {
		gen := &stubGenerator{streamErr: errors.New("unavailable")}
		o, _ := newTestOrchestrator(gen)

		stream := o.StreamTurn(context.Background(), proJob(), nil, "my answer")
		defer stream.Close()

		chunk, err := stream.Recv()
		require.NoError(t, err)
		assert.Equal(t, TurnFallback, chunk)

		_, err = stream.Recv()
		assert.Equal(t, io.EOF, err)
	})
}
