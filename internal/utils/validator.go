package utils

import (
	"reflect"
	"strings"

	"github.com/NexHire-2025/interview-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground struct validation with this service's custom
// tag validators.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New()
	registerCustomValidators(validate)
	return &Validator{validate: validate}
}

func (v *Validator) Validate(s interface{}) error {
	return v.validate.Struct(s)
}

func validateProctoringSeverity(fl validator.FieldLevel) bool {
	switch models.ProctoringSeverity(fl.Field().String()) {
	case models.SeverityLow, models.SeverityMedium, models.SeverityHigh:
		return true
	}
	return false
}

func validateProctoringEvent(fl validator.FieldLevel) bool {
	validTypes := []models.ProctoringEventType{
		models.EventTabSwitch,
		models.EventWindowBlur,
		models.EventFullscreenExit,
		models.EventMultipleFaces,
		models.EventNoFace,
		models.EventTextInput,
		models.EventAIDetection,
	}
	value := fl.Field().String()
	for _, t := range validTypes {
		if string(t) == value {
			return true
		}
	}
	return false
}

func validateCandidateStatus(fl validator.FieldLevel) bool {
	validStatuses := []models.CandidateStatus{
		models.CandidatePending,
		models.CandidateInvited,
		models.CandidateReview,
		models.CandidateCompleted,
		models.CandidateExpired,
		models.CandidateRejected,
		models.CandidateConsidered,
		models.CandidateShortlisted,
	}
	value := fl.Field().String()
	for _, s := range validStatuses {
		if string(s) == value {
			return true
		}
	}
	return false
}

func validatePlanTier(fl validator.FieldLevel) bool {
	switch models.PlanTier(fl.Field().String()) {
	case models.PlanFree, models.PlanPro, models.PlanEnterprise:
		return true
	}
	return false
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("proctoring_severity", validateProctoringSeverity)
	validate.RegisterValidation("proctoring_event", validateProctoringEvent)
	validate.RegisterValidation("candidate_status", validateCandidateStatus)
	validate.RegisterValidation("plan_tier", validatePlanTier)

	// Report json field names in validation errors.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
