package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/NexHire-2025/interview-service/internal/models"
	"github.com/NexHire-2025/interview-service/internal/services"
	"github.com/NexHire-2025/interview-service/internal/utils"
)

// InterviewHandler serves the candidate-facing surface. Every route is keyed
// by the candidate's access token; there is no separate candidate login.
type InterviewHandler struct {
	sessions   *services.SessionService
	candidates *services.CandidateService
	validator  *utils.Validator
}

func NewInterviewHandler(sessions *services.SessionService, candidates *services.CandidateService, validator *utils.Validator) *InterviewHandler {
	return &InterviewHandler{
		sessions:   sessions,
		candidates: candidates,
		validator:  validator,
	}
}

// GetStatus handles GET /api/v1/interviews/:token
func (h *InterviewHandler) GetStatus(c *gin.Context) {
	status, err := h.sessions.GetStatus(c.Request.Context(), c.Param("token"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: status})
}

// AcceptInvitation handles POST /api/v1/interviews/:token/accept
func (h *InterviewHandler) AcceptInvitation(c *gin.Context) {
	candidate, err := h.candidates.AcceptInvitation(c.Request.Context(), c.Param("token"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "invitation accepted", Data: candidate})
}

type completeProfileRequest struct {
	ResumeText string `json:"resume_text" validate:"required,min=1,max=50000"`
}

// CompleteProfile handles POST /api/v1/interviews/:token/profile
func (h *InterviewHandler) CompleteProfile(c *gin.Context) {
	var req completeProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if err := h.validator.Validate(req); err != nil {
		handleServiceError(c, err)
		return
	}

	candidate, err := h.candidates.CompleteProfile(c.Request.Context(), c.Param("token"), req.ResumeText)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "profile completed", Data: candidate})
}

// Start handles POST /api/v1/interviews/:token/start
func (h *InterviewHandler) Start(c *gin.Context) {
	result, err := h.sessions.Start(c.Request.Context(), c.Param("token"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	status := http.StatusCreated
	if result.Resumed {
		status = http.StatusOK
	}
	c.JSON(status, SuccessResponse{Data: result})
}

type submitTurnRequest struct {
	Answer string `json:"answer" validate:"required,min=1,max=20000"`
}

// SubmitTurn handles POST /api/v1/interviews/:token/turns
func (h *InterviewHandler) SubmitTurn(c *gin.Context) {
	var req submitTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if err := h.validator.Validate(req); err != nil {
		handleServiceError(c, err)
		return
	}

	result, err := h.sessions.SubmitTurn(c.Request.Context(), c.Param("token"), req.Answer)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: result})
}

// StreamTurn handles POST /api/v1/interviews/:token/turns/stream, delivering
// the acknowledgment and next question as server-sent events. The final
// event carries the turn result.
func (h *InterviewHandler) StreamTurn(c *gin.Context) {
	var req submitTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if err := h.validator.Validate(req); err != nil {
		handleServiceError(c, err)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	sink := &sseSink{c: c}
	result, err := h.sessions.StreamTurnTo(c.Request.Context(), c.Param("token"), req.Answer, sink)
	if err != nil {
		if sink.sent {
			// Headers are gone; all we can do is signal the error in-stream.
			c.SSEvent("error", gin.H{"error": err.Error()})
			c.Writer.Flush()
			return
		}
		handleServiceError(c, err)
		return
	}

	c.SSEvent("done", result)
	c.Writer.Flush()
}

type sseSink struct {
	c    *gin.Context
	sent bool
}

func (s *sseSink) SendChunk(chunk string) error {
	select {
	case <-s.c.Request.Context().Done():
		return s.c.Request.Context().Err()
	default:
	}

	s.c.SSEvent("chunk", chunk)
	s.c.Writer.Flush()
	s.sent = true
	return nil
}

type proctoringRequest struct {
	Type     models.ProctoringEventType `json:"type" validate:"required,proctoring_event"`
	Severity models.ProctoringSeverity  `json:"severity" validate:"required,proctoring_severity"`
	Data     datatypes.JSON             `json:"data"`
}

// RecordProctoringEvent handles POST /api/v1/interviews/:token/proctoring-events
func (h *InterviewHandler) RecordProctoringEvent(c *gin.Context) {
	var req proctoringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if err := h.validator.Validate(req); err != nil {
		handleServiceError(c, err)
		return
	}

	result, err := h.sessions.RecordProctoringEvent(c.Request.Context(), c.Param("token"), req.Type, req.Severity, req.Data)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: result})
}

// Complete handles POST /api/v1/interviews/:token/complete
func (h *InterviewHandler) Complete(c *gin.Context) {
	session, err := h.sessions.Complete(c.Request.Context(), c.Param("token"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "interview completed", Data: session})
}

// GetEvaluation handles GET /api/v1/interviews/:token/evaluation
func (h *InterviewHandler) GetEvaluation(c *gin.Context) {
	evaluation, err := h.sessions.CandidateEvaluation(c.Request.Context(), c.Param("token"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: evaluation})
}

// AcknowledgeWarning handles POST /api/v1/interviews/:token/acknowledge-warning
func (h *InterviewHandler) AcknowledgeWarning(c *gin.Context) {
	session, err := h.sessions.AcknowledgeWarning(c.Request.Context(), c.Param("token"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{
		Message: fmt.Sprintf("interview resumed, %d warning(s) on record", session.WarningCount),
		Data:    session,
	})
}
