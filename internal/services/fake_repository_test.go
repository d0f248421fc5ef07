package services

import (
	"context"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/NexHire-2025/interview-service/internal/models"
	"github.com/NexHire-2025/interview-service/internal/repositories"
)

// fakeRepository is an in-memory repositories.Repository for service tests.
type fakeRepository struct {
	mu          sync.Mutex
	candidates  map[uint]*models.Candidate
	jobs        map[uint]*models.Job
	sessions    map[uint]*models.InterviewSession
	responses   []*models.InterviewResponse
	proctoring  []*models.ProctoringLog
	evaluations map[uint]*models.FinalEvaluation
	nextID      uint
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		candidates:  make(map[uint]*models.Candidate),
		jobs:        make(map[uint]*models.Job),
		sessions:    make(map[uint]*models.InterviewSession),
		evaluations: make(map[uint]*models.FinalEvaluation),
	}
}

func (f *fakeRepository) id() uint {
	f.nextID++
	return f.nextID
}

func (f *fakeRepository) Candidate() repositories.CandidateRepository { return &fakeCandidates{f} }
func (f *fakeRepository) Job() repositories.JobRepository             { return &fakeJobs{f} }
func (f *fakeRepository) Session() repositories.SessionRepository     { return &fakeSessions{f} }
func (f *fakeRepository) Response() repositories.ResponseRepository   { return &fakeResponses{f} }
func (f *fakeRepository) Proctoring() repositories.ProctoringRepository {
	return &fakeProctoring{f}
}
func (f *fakeRepository) Evaluation() repositories.EvaluationRepository { return &fakeEvaluations{f} }

func (f *fakeRepository) Transaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(f)
}

type fakeCandidates struct{ f *fakeRepository }

func (r *fakeCandidates) Create(ctx context.Context, candidate *models.Candidate) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	candidate.ID = r.f.id()
	r.f.candidates[candidate.ID] = candidate
	return nil
}

func (r *fakeCandidates) GetByID(ctx context.Context, id uint) (*models.Candidate, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	candidate, ok := r.f.candidates[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.withJob(candidate), nil
}

func (r *fakeCandidates) GetByAccessToken(ctx context.Context, token string) (*models.Candidate, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, candidate := range r.f.candidates {
		if candidate.AccessToken == token {
			return r.withJob(candidate), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCandidates) GetByJobAndEmail(ctx context.Context, jobID uint, email string) (*models.Candidate, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, candidate := range r.f.candidates {
		if candidate.JobID == jobID && strings.EqualFold(candidate.Email, email) {
			return r.withJob(candidate), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCandidates) Update(ctx context.Context, candidate *models.Candidate) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.candidates[candidate.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *candidate
	stored.Job = models.Job{}
	r.f.candidates[candidate.ID] = &stored
	return nil
}

func (r *fakeCandidates) ListByJob(ctx context.Context, jobID uint, filters repositories.CandidateFilters) ([]*models.Candidate, int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*models.Candidate
	for _, candidate := range r.f.candidates {
		if candidate.JobID == jobID {
			out = append(out, r.withJob(candidate))
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeCandidates) withJob(candidate *models.Candidate) *models.Candidate {
	copied := *candidate
	if job, ok := r.f.jobs[candidate.JobID]; ok {
		copied.Job = *job
	}
	return &copied
}

type fakeJobs struct{ f *fakeRepository }

func (r *fakeJobs) Create(ctx context.Context, job *models.Job) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	job.ID = r.f.id()
	r.f.jobs[job.ID] = job
	return nil
}

func (r *fakeJobs) GetByID(ctx context.Context, id uint) (*models.Job, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	job, ok := r.f.jobs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *job
	return &copied, nil
}

func (r *fakeJobs) Update(ctx context.Context, job *models.Job) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.jobs[job.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *job
	r.f.jobs[job.ID] = &copied
	return nil
}

type fakeSessions struct{ f *fakeRepository }

func (r *fakeSessions) CreateIfAbsent(ctx context.Context, session *models.InterviewSession) (bool, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, existing := range r.f.sessions {
		if existing.CandidateID == session.CandidateID && existing.JobID == session.JobID && existing.IsActive() {
			return false, nil
		}
	}
	session.ID = r.f.id()
	copied := *session
	r.f.sessions[session.ID] = &copied
	return true, nil
}

func (r *fakeSessions) GetByID(ctx context.Context, id uint) (*models.InterviewSession, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	session, ok := r.f.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *session
	return &copied, nil
}

func (r *fakeSessions) GetByIDWithDetails(ctx context.Context, id uint) (*models.InterviewSession, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	session, ok := r.f.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *session
	if candidate, ok := r.f.candidates[session.CandidateID]; ok {
		copied.Candidate = *candidate
	}
	if job, ok := r.f.jobs[session.JobID]; ok {
		copied.Job = *job
	}
	return &copied, nil
}

func (r *fakeSessions) GetActiveByCandidateAndJob(ctx context.Context, candidateID, jobID uint) (*models.InterviewSession, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, session := range r.f.sessions {
		if session.CandidateID == candidateID && session.JobID == jobID && session.IsActive() {
			copied := *session
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSessions) GetLatestByCandidateAndJob(ctx context.Context, candidateID, jobID uint) (*models.InterviewSession, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var latest *models.InterviewSession
	for _, session := range r.f.sessions {
		if session.CandidateID != candidateID || session.JobID != jobID {
			continue
		}
		if latest == nil || session.ID > latest.ID {
			latest = session
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *latest
	return &copied, nil
}

func (r *fakeSessions) Update(ctx context.Context, session *models.InterviewSession) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.sessions[session.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *session
	copied.Candidate = models.Candidate{}
	copied.Job = models.Job{}
	r.f.sessions[session.ID] = &copied
	return nil
}

func (r *fakeSessions) ListByJob(ctx context.Context, jobID uint, filters repositories.SessionFilters) ([]*models.InterviewSession, int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*models.InterviewSession
	for _, session := range r.f.sessions {
		if session.JobID == jobID {
			copied := *session
			out = append(out, &copied)
		}
	}
	return out, int64(len(out)), nil
}

type fakeResponses struct{ f *fakeRepository }

func (r *fakeResponses) Create(ctx context.Context, response *models.InterviewResponse) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	response.ID = r.f.id()
	copied := *response
	r.f.responses = append(r.f.responses, &copied)
	return nil
}

func (r *fakeResponses) ListBySession(ctx context.Context, sessionID uint) ([]*models.InterviewResponse, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*models.InterviewResponse
	for _, response := range r.f.responses {
		if response.SessionID == sessionID {
			copied := *response
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeProctoring struct{ f *fakeRepository }

func (r *fakeProctoring) Create(ctx context.Context, log *models.ProctoringLog) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	log.ID = r.f.id()
	copied := *log
	r.f.proctoring = append(r.f.proctoring, &copied)
	return nil
}

func (r *fakeProctoring) ListBySession(ctx context.Context, sessionID uint) ([]*models.ProctoringLog, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*models.ProctoringLog
	for _, log := range r.f.proctoring {
		if log.SessionID == sessionID {
			copied := *log
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeProctoring) CountBySeverity(ctx context.Context, sessionID uint, severity models.ProctoringSeverity) (int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var count int64
	for _, log := range r.f.proctoring {
		if log.SessionID == sessionID && log.Severity == severity {
			count++
		}
	}
	return count, nil
}

type fakeEvaluations struct{ f *fakeRepository }

func (r *fakeEvaluations) Upsert(ctx context.Context, evaluation *models.FinalEvaluation) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if existing, ok := r.f.evaluations[evaluation.SessionID]; ok {
		evaluation.ID = existing.ID
	} else {
		evaluation.ID = r.f.id()
	}
	copied := *evaluation
	r.f.evaluations[evaluation.SessionID] = &copied
	return nil
}

func (r *fakeEvaluations) GetBySessionID(ctx context.Context, sessionID uint) (*models.FinalEvaluation, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	evaluation, ok := r.f.evaluations[sessionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *evaluation
	return &copied, nil
}

func (r *fakeEvaluations) ListByJob(ctx context.Context, jobID uint) ([]*models.FinalEvaluation, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*models.FinalEvaluation
	for sessionID, evaluation := range r.f.evaluations {
		session, ok := r.f.sessions[sessionID]
		if !ok || session.JobID != jobID {
			continue
		}
		copied := *evaluation
		copied.Session = *session
		if candidate, ok := r.f.candidates[session.CandidateID]; ok {
			copied.Session.Candidate = *candidate
		}
		out = append(out, &copied)
	}
	return out, nil
}
