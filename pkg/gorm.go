package pkg

import (
	"fmt"

	"github.com/NexHire-2025/interview-service/internal/config"
	"github.com/NexHire-2025/interview-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	var logLevel logger.LogLevel
	if cfg.Environment == "production" {
		logLevel = logger.Error
	} else {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Job{},
		&models.Candidate{},
		&models.InterviewSession{},
		&models.InterviewResponse{},
		&models.ProctoringLog{},
		&models.FinalEvaluation{},
	); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// AutoMigrate cannot express a partial index; this one backs the
	// "at most one non-completed session per candidate and job" invariant
	// and the session repository's create-if-absent semantics.
	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_interview_sessions_active
		 ON interview_sessions (candidate_id, job_id)
		 WHERE status NOT IN ('Completed', 'Failed') AND deleted_at IS NULL`,
	).Error; err != nil {
		return nil, fmt.Errorf("failed to create active-session index: %w", err)
	}

	return db, nil
}
