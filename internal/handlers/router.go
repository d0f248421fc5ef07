package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NexHire-2025/interview-service/internal/utils"
)

// SetupRouter wires all HTTP routes. Candidate routes authenticate by access
// token in the path; company routes rely on the gateway-set identity header.
func SetupRouter(
	interviews *InterviewHandler,
	company *CompanyHandler,
	reports *ReportHandler,
	logger *slog.Logger,
	environment string,
) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.RequestLogger(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	interview := v1.Group("/interviews/:token")
	{
		interview.GET("", interviews.GetStatus)
		interview.POST("/accept", interviews.AcceptInvitation)
		interview.POST("/profile", interviews.CompleteProfile)
		interview.POST("/start", interviews.Start)
		interview.POST("/turns", interviews.SubmitTurn)
		interview.POST("/turns/stream", interviews.StreamTurn)
		interview.POST("/proctoring-events", interviews.RecordProctoringEvent)
		interview.POST("/acknowledge-warning", interviews.AcknowledgeWarning)
		interview.POST("/complete", interviews.Complete)
		interview.GET("/evaluation", interviews.GetEvaluation)
	}

	jobs := v1.Group("/jobs")
	{
		jobs.POST("", company.CreateJob)
		jobs.GET("/:id", company.GetJob)
		jobs.POST("/:id/candidates", company.InviteCandidate)
		jobs.GET("/:id/candidates", company.ListCandidates)
		jobs.GET("/:id/sessions", company.ListSessions)
		jobs.GET("/:id/report.xlsx", reports.DownloadJobReport)
	}

	sessions := v1.Group("/sessions")
	{
		sessions.POST("/:id/resume", company.ResumeSession)
		sessions.GET("/:id/evaluation", company.GetEvaluation)
	}

	candidates := v1.Group("/candidates")
	{
		candidates.POST("/:id/decision", company.DecideCandidate)
		candidates.POST("/:id/re-interview", company.ReInterviewCandidate)
	}

	return router
}
