package assessment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

const maxAttempts = 3

// Orchestrator wraps a Generator with retries, JSON recovery, and fixed
// fallbacks so its callers always get a usable result. Only credential
// failures surface as errors.
type Orchestrator struct {
	gen    Generator
	logger *slog.Logger
	sleep  func(time.Duration)
}

func NewOrchestrator(gen Generator, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		gen:    gen,
		logger: logger,
		sleep:  time.Sleep,
	}
}

// generateJSON runs one completion with up to maxAttempts tries and decodes
// the recovered JSON into out. Auth failures abort immediately; rate limits
// back off exponentially before the next try; unparseable output just burns
// an attempt.
func (o *Orchestrator) generateJSON(ctx context.Context, systemPrompt, prompt string, temperature float32, out any) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		raw, err := o.gen.Generate(ctx, systemPrompt, prompt, temperature)
		if err != nil {
			if isAuthError(err) {
				return fmt.Errorf("%w: %v", ErrAuth, err)
			}
			lastErr = err
			if isRateLimitError(err) && attempt < maxAttempts {
				o.sleep(time.Duration(1<<attempt) * time.Second)
			}
			continue
		}

		span, ok := extractJSON(raw)
		if !ok {
			lastErr = &ParseError{Raw: raw}
			continue
		}
		if err := json.Unmarshal([]byte(span), out); err != nil {
			lastErr = &ParseError{Raw: span, Err: err}
			continue
		}
		return nil
	}
	return lastErr
}

// GenerateQuestions prepares the question list for a session. On model
// failure it degrades to the job's custom questions followed by a fixed
// generic list, so a session can always start.
func (o *Orchestrator) GenerateQuestions(ctx context.Context, job JobContext, resume string) ([]string, error) {
	count := job.Plan.QuestionCount()

	var questions []string
	err := o.generateJSON(ctx, questionSystemPrompt, buildQuestionPrompt(job, resume, count), 0.7, &questions)
	if err != nil {
		if IsAuthError(err) {
			return nil, err
		}
		o.logger.Warn("Question generation failed, falling back to canned questions", "error", err)
		return fallbackQuestionList(job.CustomQuestions, count), nil
	}

	if len(questions) > count {
		questions = questions[:count]
	}
	for i := 0; len(questions) < count; i++ {
		questions = append(questions, fallbackQuestions[i%len(fallbackQuestions)])
	}
	return questions, nil
}

var fallbackQuestions = []string{
	"Tell me about a technically challenging project you worked on recently and your role in it.",
	"Describe a time you disagreed with a teammate about a technical decision. How was it resolved?",
	"How do you approach debugging an issue you have never seen before?",
	"What part of your current or most recent role would you most like to improve, and why?",
	"Where do you want to grow technically over the next two years?",
}

func fallbackQuestionList(custom []string, count int) []string {
	out := make([]string, 0, len(custom)+len(fallbackQuestions))
	out = append(out, custom...)
	out = append(out, fallbackQuestions...)
	if len(out) > count {
		out = out[:count]
	}
	return out
}

// StreamTurn streams the acknowledgment and next question for the latest
// answer. The returned stream never fails; see TurnStream.
func (o *Orchestrator) StreamTurn(ctx context.Context, job JobContext, history []Turn, latestAnswer string) *TurnStream {
	return newTurnStream(o.gen.Stream(ctx, turnSystemPrompt, buildTurnPrompt(job, history, latestAnswer), 0.7))
}

// RateTurn scores one answer. Failures degrade to NeutralRating so a turn is
// always recorded with some rating.
func (o *Orchestrator) RateTurn(ctx context.Context, question, answer string) TurnRating {
	var r TurnRating
	if err := o.generateJSON(ctx, ratingSystemPrompt, buildRatingPrompt(question, answer), 0.2, &r); err != nil {
		o.logger.Warn("Turn rating failed, applying neutral defaults", "error", err)
		return NeutralRating()
	}
	r.TechnicalScore = clampScore(r.TechnicalScore)
	r.CommunicationScore = clampScore(r.CommunicationScore)
	r.OverfitScore = clampScore(r.OverfitScore)
	return r
}

// EvaluateInterview produces the final verdict over the whole transcript.
// Failures degrade to ManualReviewFallback; completion is never blocked on
// the model.
func (o *Orchestrator) EvaluateInterview(ctx context.Context, job JobContext, turns []Turn, ratings []TurnRating) EvaluationResult {
	names := metricNames(job.Plan)

	var result EvaluationResult
	err := o.generateJSON(ctx, evaluationSystemPrompt, buildEvaluationPrompt(job, turns, ratings, names), 0.3, &result)
	if err != nil {
		o.logger.Warn("Final evaluation failed, marking for manual review", "error", err)
		return ManualReviewFallback(job.Plan)
	}

	if result.OverallScore < 0 {
		result.OverallScore = 0
	}
	if result.OverallScore > 100 {
		result.OverallScore = 100
	}
	if result.Metrics == nil {
		result.Metrics = ManualReviewFallback(job.Plan).Metrics
	}
	return result
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
