package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/NexHire-2025/interview-service/internal/models"
	"github.com/NexHire-2025/interview-service/internal/repositories"
)

// ReportService renders a job's interview outcomes as an XLSX workbook for
// the owning company.
type ReportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewReportService(repo repositories.Repository, logger *slog.Logger) *ReportService {
	return &ReportService{repo: repo, logger: logger}
}

var reportHeaders = []string{
	"Candidate", "Email", "Status", "Overall Score", "Fit",
	"Warnings", "High-Severity Incidents", "Flagged", "Completed At", "Reasoning",
}

// WriteJobReport writes the workbook to w. One row per completed evaluation,
// with a summary sheet first.
func (s *ReportService) WriteJobReport(ctx context.Context, companyID, jobID uint, w io.Writer) error {
	job, err := s.repo.Job().GetByID(ctx, jobID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrJobNotFound
		}
		return fmt.Errorf("failed to load job: %w", err)
	}
	if job.CompanyID != companyID {
		return NewPermissionError("job", "export a report for")
	}

	evaluations, err := s.repo.Evaluation().ListByJob(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to load evaluations: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("Failed to close report workbook", "error", err)
		}
	}()

	sheet := "Interview Report"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to prepare report sheet: %w", err)
	}

	for col, header := range reportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write report header: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		lastCell, _ := excelize.CoordinatesToCellName(len(reportHeaders), 1)
		if err := f.SetCellStyle(sheet, "A1", lastCell, headerStyle); err != nil {
			s.logger.Warn("Failed to style report header", "error", err)
		}
	}

	for i, eval := range evaluations {
		row := i + 2
		highIncidents, err := s.repo.Proctoring().CountBySeverity(ctx, eval.SessionID, models.SeverityHigh)
		if err != nil {
			return fmt.Errorf("failed to count proctoring incidents: %w", err)
		}
		values := reportRow(eval, highIncidents)
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write report row: %w", err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func reportRow(eval *models.FinalEvaluation, highIncidents int64) []interface{} {
	session := eval.Session
	candidate := session.Candidate

	completedAt := ""
	if session.EndTime != nil {
		completedAt = session.EndTime.Format(time.RFC3339)
	}
	fit := "No"
	if eval.IsFit {
		fit = "Yes"
	}
	flagged := "No"
	if session.IsFlagged {
		flagged = "Yes"
	}

	return []interface{}{
		candidate.FullName,
		candidate.Email,
		string(candidate.Status),
		eval.OverallScore,
		fit,
		session.WarningCount,
		highIncidents,
		flagged,
		completedAt,
		eval.Reasoning,
	}
}
