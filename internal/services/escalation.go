package services

import "github.com/NexHire-2025/interview-service/internal/models"

// DefaultWarningBudget is how many high-severity incidents are tolerated
// before a session is flagged for company review.
const DefaultWarningBudget = 3

// Directive tells the session engine what a proctoring incident demands.
type Directive string

const (
	DirectiveLogOnly      Directive = "LOG_ONLY"
	DirectiveWarnAndPause Directive = "WARN_AND_PAUSE"
	DirectiveFlagAndPause Directive = "FLAG_AND_PAUSE"
)

// Escalation is the policy outcome for a single incident.
type Escalation struct {
	Directive    Directive `json:"directive"`
	WarningCount int       `json:"warning_count"`
}

// DecideEscalation applies the warning-budget policy. Only high-severity
// incidents count; warnings 1 through budget pause with a warning, anything
// past the budget flags the session. warningCount is the count before this
// incident.
func DecideEscalation(severity models.ProctoringSeverity, warningCount, budget int) Escalation {
	if budget <= 0 {
		budget = DefaultWarningBudget
	}
	if severity != models.SeverityHigh {
		return Escalation{Directive: DirectiveLogOnly, WarningCount: warningCount}
	}

	warningCount++
	if warningCount > budget {
		return Escalation{Directive: DirectiveFlagAndPause, WarningCount: warningCount}
	}
	return Escalation{Directive: DirectiveWarnAndPause, WarningCount: warningCount}
}
