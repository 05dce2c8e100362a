package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/unmdp-fi/campus-records-api/internal/models"
	appErrors "github.com/unmdp-fi/campus-records-api/pkg/errors"
)

type enrollmentRepository interface {
	GetByID(ctx context.Context, id string) (*models.EnrollmentDetail, error)
	ListAll(ctx context.Context) ([]models.EnrollmentDetail, error)
	ListPage(ctx context.Context, limit, offset int) ([]models.EnrollmentDetail, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.StudentSubject, error)
	CountAll(ctx context.Context) (int, error)
	Create(ctx context.Context, enrollment *models.Enrollment) (int64, error)
	Update(ctx context.Context, enrollment *models.Enrollment) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}

// EnrollmentRequest carries assign/update payloads. Approved stays a
// pointer: absent, approved, or not approved.
type EnrollmentRequest struct {
	ID        string `json:"id"`
	StudentID string `json:"student_id"`
	SubjectID string `json:"subject_id"`
	Approved  *bool  `json:"approved"`
}

// EnrollmentService is pass-through CRUD. Its check table is empty on
// purpose: referenced ids are trusted at write time and duplicate
// (student_id, subject_id) pairs are not rejected, matching the source
// system.
type EnrollmentService struct {
	repo      enrollmentRepository
	snapshots snapshotStore
	logger    *zap.Logger
}

// NewEnrollmentService constructs the enrollment service.
func NewEnrollmentService(repo enrollmentRepository, snapshots snapshotStore, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, snapshots: snapshots, logger: logger}
}

// Get returns one enrollment with joined names, or nil when absent.
func (s *EnrollmentService) Get(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	detail, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to load enrollment")
	}
	return detail, nil
}

// ListAll returns every enrollment, serving the advisory snapshot when
// fresh.
func (s *EnrollmentService) ListAll(ctx context.Context) ([]models.EnrollmentDetail, error) {
	if s.snapshots != nil {
		var cached []models.EnrollmentDetail
		if err := s.snapshots.Get(ctx, snapshotEnrollments, &cached); err == nil {
			return cached, nil
		}
	}
	details, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to list enrollments")
	}
	s.storeSnapshot(ctx, details)
	return details, nil
}

// ListPage returns one page of enrollments plus the unfiltered total.
func (s *EnrollmentService) ListPage(ctx context.Context, page, limit int) ([]models.EnrollmentDetail, int, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit
	details, err := s.repo.ListPage(ctx, limit, offset)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to list enrollments")
	}
	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to count enrollments")
	}
	return details, total, nil
}

// ListByStudent returns the subjects a student is enrolled in.
func (s *EnrollmentService) ListByStudent(ctx context.Context, studentID string) ([]models.StudentSubject, error) {
	subjects, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to list subjects by student")
	}
	return subjects, nil
}

// Assign creates an enrollment row.
func (s *EnrollmentService) Assign(ctx context.Context, req EnrollmentRequest) (*models.Enrollment, error) {
	enrollment := &models.Enrollment{
		StudentID: req.StudentID,
		SubjectID: req.SubjectID,
		Approved:  req.Approved,
	}
	inserted, err := s.repo.Create(ctx, enrollment)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "could not assign the subject")
	}
	if inserted == 0 {
		return nil, appErrors.Clone(appErrors.ErrPersistence, "could not assign the subject")
	}
	s.refreshAfterMutation(ctx)
	return enrollment, nil
}

// Update rewrites an enrollment row.
func (s *EnrollmentService) Update(ctx context.Context, req EnrollmentRequest) error {
	enrollment := &models.Enrollment{
		ID:        req.ID,
		StudentID: req.StudentID,
		SubjectID: req.SubjectID,
		Approved:  req.Approved,
	}
	affected, err := s.repo.Update(ctx, enrollment)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "could not update the enrollment")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrPersistence, "could not update the enrollment")
	}
	s.refreshAfterMutation(ctx)
	return nil
}

// Remove deletes an enrollment row.
func (s *EnrollmentService) Remove(ctx context.Context, id string) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "could not remove the enrollment")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrPersistence, "could not remove the enrollment")
	}
	s.refreshAfterMutation(ctx)
	return nil
}

func (s *EnrollmentService) storeSnapshot(ctx context.Context, details []models.EnrollmentDetail) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Set(ctx, snapshotEnrollments, details); err != nil {
		s.logger.Warn("enrollment snapshot refresh failed", zap.Error(err))
	}
}

func (s *EnrollmentService) refreshAfterMutation(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	details, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Warn("enrollment snapshot reload failed", zap.Error(err))
		s.snapshots.Invalidate(ctx, snapshotEnrollments)
		return
	}
	s.storeSnapshot(ctx, details)
}
