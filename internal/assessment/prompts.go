package assessment

import (
	"fmt"
	"strings"
)

const questionSystemPrompt = `You are a senior technical interviewer preparing questions for a job interview.
Respond with a JSON array of question strings only. No markdown, no commentary.`

const turnSystemPrompt = `You are conducting a live technical interview. Given the transcript so far and the
candidate's latest answer, reply with a short acknowledgment of the answer followed by the next question.
Keep it conversational and under four sentences. Plain text only.`

const ratingSystemPrompt = `You are scoring a single interview answer. Respond with a JSON object only:
{"technical_score": 0-100, "communication_score": 0-100, "overfit_score": 0-100, "ai_flagged": bool, "feedback": "one sentence"}
overfit_score measures how rehearsed or memorized the answer sounds. ai_flagged is true when the answer
reads as generated by an AI assistant rather than spoken by the candidate.`

const evaluationSystemPrompt = `You are delivering the final verdict on a completed technical interview.
Respond with a JSON object only:
{"overall_score": 0-100, "is_fit": bool, "reasoning": "...", "behavioral_note": "...", "metrics": {"<name>": {"score": 0-100, "critique": "..."}}}`

func buildQuestionPrompt(job JobContext, resume string, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Prepare exactly %d interview questions for the following role.\n\n", count)
	fmt.Fprintf(&b, "Role: %s\n", job.Title)
	fmt.Fprintf(&b, "Description: %s\n", job.Description)
	if job.RequirementNotes != "" {
		fmt.Fprintf(&b, "Hiring manager notes: %s\n", job.RequirementNotes)
	}
	if len(job.CustomQuestions) > 0 {
		b.WriteString("\nThe company requires these questions to be included, verbatim and first:\n")
		for _, q := range job.CustomQuestions {
			fmt.Fprintf(&b, "- %s\n", q)
		}
	}
	if resume != "" {
		fmt.Fprintf(&b, "\nCandidate resume:\n%s\n", resume)
	}
	b.WriteString("\nReturn a JSON array of question strings, company questions first.")
	return b.String()
}

func buildTurnPrompt(job JobContext, history []Turn, latestAnswer string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Role under interview: %s\n\n", job.Title)
	b.WriteString("Transcript so far:\n")
	for _, t := range history {
		fmt.Fprintf(&b, "Interviewer: %s\nCandidate: %s\n", t.Question, t.Answer)
	}
	fmt.Fprintf(&b, "\nCandidate's latest answer: %s\n", latestAnswer)
	b.WriteString("\nAcknowledge the answer briefly and ask the next question.")
	return b.String()
}

func buildRatingPrompt(question, answer string) string {
	return fmt.Sprintf("Question:\n%s\n\nCandidate's answer:\n%s\n\nScore this answer.", question, answer)
}

func buildEvaluationPrompt(job JobContext, turns []Turn, ratings []TurnRating, metrics []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Role: %s\n", job.Title)
	fmt.Fprintf(&b, "Description: %s\n", job.Description)
	if job.RequirementNotes != "" {
		fmt.Fprintf(&b, "Hiring manager notes: %s\n", job.RequirementNotes)
	}
	b.WriteString("\nFull transcript with per-answer scores:\n")
	for i, t := range turns {
		fmt.Fprintf(&b, "\nQ%d: %s\nA%d: %s\n", i+1, t.Question, i+1, t.Answer)
		if i < len(ratings) {
			r := ratings[i]
			fmt.Fprintf(&b, "Scores: technical=%d communication=%d overfit=%d ai_flagged=%t\n",
				r.TechnicalScore, r.CommunicationScore, r.OverfitScore, r.AIFlagged)
		}
	}
	fmt.Fprintf(&b, "\nProvide a metric entry for each of: %s.\n", strings.Join(metrics, ", "))
	b.WriteString("Deliver the final verdict as JSON.")
	return b.String()
}
