package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NexHire-2025/interview-service/internal/models"
	"github.com/NexHire-2025/interview-service/internal/repositories"
	"github.com/NexHire-2025/interview-service/internal/services"
	"github.com/NexHire-2025/interview-service/internal/utils"
)

// CompanyHandler serves the company-facing surface: job setup, invitations,
// session oversight, and verdict retrieval.
type CompanyHandler struct {
	jobs       *services.JobService
	candidates *services.CandidateService
	sessions   *services.SessionService
	validator  *utils.Validator
}

func NewCompanyHandler(jobs *services.JobService, candidates *services.CandidateService, sessions *services.SessionService, validator *utils.Validator) *CompanyHandler {
	return &CompanyHandler{
		jobs:       jobs,
		candidates: candidates,
		sessions:   sessions,
		validator:  validator,
	}
}

// CreateJob handles POST /api/v1/jobs
func (h *CompanyHandler) CreateJob(c *gin.Context) {
	company, ok := companyID(c)
	if !ok {
		return
	}

	var req services.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if err := h.validator.Validate(req); err != nil {
		handleServiceError(c, err)
		return
	}

	job, err := h.jobs.Create(c.Request.Context(), company, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, SuccessResponse{Message: "job created", Data: job})
}

// GetJob handles GET /api/v1/jobs/:id
func (h *CompanyHandler) GetJob(c *gin.Context) {
	company, ok := companyID(c)
	if !ok {
		return
	}
	jobID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	job, err := h.jobs.Get(c.Request.Context(), company, jobID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: job})
}

// InviteCandidate handles POST /api/v1/jobs/:id/candidates
func (h *CompanyHandler) InviteCandidate(c *gin.Context) {
	company, ok := companyID(c)
	if !ok {
		return
	}
	jobID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req services.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if err := h.validator.Validate(req); err != nil {
		handleServiceError(c, err)
		return
	}

	candidate, err := h.candidates.Invite(c.Request.Context(), company, jobID, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, SuccessResponse{Message: "candidate invited", Data: candidate})
}

// ListCandidates handles GET /api/v1/jobs/:id/candidates
func (h *CompanyHandler) ListCandidates(c *gin.Context) {
	company, ok := companyID(c)
	if !ok {
		return
	}
	jobID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	filters := repositories.CandidateFilters{
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if status := c.Query("status"); status != "" {
		s := models.CandidateStatus(status)
		filters.Status = &s
	}

	candidates, total, err := h.candidates.List(c.Request.Context(), company, jobID, filters)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, PaginatedResponse{Data: candidates, Total: total})
}

// ListSessions handles GET /api/v1/jobs/:id/sessions
func (h *CompanyHandler) ListSessions(c *gin.Context) {
	company, ok := companyID(c)
	if !ok {
		return
	}
	jobID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	filters := repositories.SessionFilters{
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if status := c.Query("status"); status != "" {
		s := models.SessionStatus(status)
		filters.Status = &s
	}
	if flagged := c.Query("flagged"); flagged != "" {
		f := flagged == "true"
		filters.Flagged = &f
	}

	sessions, total, err := h.sessions.ListSessions(c.Request.Context(), company, jobID, filters)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, PaginatedResponse{Data: sessions, Total: total})
}

// ResumeSession handles POST /api/v1/sessions/:id/resume
func (h *CompanyHandler) ResumeSession(c *gin.Context) {
	company, ok := companyID(c)
	if !ok {
		return
	}
	sessionID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	session, err := h.sessions.CompanyResume(c.Request.Context(), company, sessionID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "session resumed", Data: session})
}

// GetEvaluation handles GET /api/v1/sessions/:id/evaluation
func (h *CompanyHandler) GetEvaluation(c *gin.Context) {
	company, ok := companyID(c)
	if !ok {
		return
	}
	sessionID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	evaluation, err := h.sessions.GetEvaluation(c.Request.Context(), company, sessionID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: evaluation})
}

type decideRequest struct {
	Status models.CandidateStatus `json:"status" validate:"required,candidate_status"`
}

// DecideCandidate handles POST /api/v1/candidates/:id/decision
func (h *CompanyHandler) DecideCandidate(c *gin.Context) {
	company, ok := companyID(c)
	if !ok {
		return
	}
	candidateID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req decideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if err := h.validator.Validate(req); err != nil {
		handleServiceError(c, err)
		return
	}

	candidate, err := h.candidates.Decide(c.Request.Context(), company, candidateID, req.Status)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "decision recorded", Data: candidate})
}

// ReInterviewCandidate handles POST /api/v1/candidates/:id/re-interview
func (h *CompanyHandler) ReInterviewCandidate(c *gin.Context) {
	company, ok := companyID(c)
	if !ok {
		return
	}
	candidateID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	candidate, err := h.candidates.ReInterview(c.Request.Context(), company, candidateID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "candidate scheduled for re-interview", Data: candidate})
}
