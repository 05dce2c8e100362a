package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/unmdp-fi/campus-records-api/internal/models"
	appErrors "github.com/unmdp-fi/campus-records-api/pkg/errors"
)

type subjectRepository interface {
	GetByID(ctx context.Context, id string) (*models.Subject, error)
	ExistsByName(ctx context.Context, name string, excludeID string) (bool, error)
	ListAll(ctx context.Context) ([]models.Subject, error)
	ListPage(ctx context.Context, limit, offset int) ([]models.Subject, error)
	CountAll(ctx context.Context) (int, error)
	Create(ctx context.Context, subject *models.Subject) (int64, error)
	Update(ctx context.Context, subject *models.Subject) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type subjectEnrollmentCounter interface {
	CountBySubject(ctx context.Context, subjectID string) (int, error)
}

// CreateSubjectRequest carries the create payload. The server runs no
// blank-name check; the browser form does, and that gap is preserved.
type CreateSubjectRequest struct {
	Name string `json:"name"`
}

// UpdateSubjectRequest carries the update payload.
type UpdateSubjectRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type subjectMutation struct {
	id     string
	create *CreateSubjectRequest
}

type subjectCheck struct {
	name string
	run  func(ctx context.Context, m *subjectMutation) error
}

// SubjectService guards subject mutations and orchestrates the repository.
type SubjectService struct {
	repo        subjectRepository
	enrollments subjectEnrollmentCounter
	snapshots   snapshotStore
	logger      *zap.Logger
	checks      map[mutationOp][]subjectCheck
}

// NewSubjectService constructs the subject service and its check table.
func NewSubjectService(repo subjectRepository, enrollments subjectEnrollmentCounter, snapshots snapshotStore, logger *zap.Logger) *SubjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SubjectService{repo: repo, enrollments: enrollments, snapshots: snapshots, logger: logger}

	// Update is pass-through: the legacy contract re-checks name
	// uniqueness on create only. The empty opUpdate entry keeps that gap
	// explicit.
	s.checks = map[mutationOp][]subjectCheck{
		opCreate: {
			{name: "name_unique", run: s.checkNameUnique},
		},
		opUpdate: {},
		opDelete: {
			{name: "id_present", run: s.checkIDPresent},
			{name: "no_enrollments", run: s.checkNoEnrollments},
		},
	}
	return s
}

func (s *SubjectService) runChecks(ctx context.Context, op mutationOp, m *subjectMutation) error {
	for _, check := range s.checks[op] {
		if err := check.run(ctx, m); err != nil {
			s.logger.Debug("subject mutation rejected",
				zap.String("op", string(op)), zap.String("check", check.name))
			return err
		}
	}
	return nil
}

func (s *SubjectService) checkNameUnique(ctx context.Context, m *subjectMutation) error {
	exists, err := s.repo.ExistsByName(ctx, strings.TrimSpace(m.create.Name), "")
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to check subject name")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrDuplicateKey, "a subject with that name already exists")
	}
	return nil
}

func (s *SubjectService) checkIDPresent(ctx context.Context, m *subjectMutation) error {
	if strings.TrimSpace(m.id) == "" {
		return appErrors.Clone(appErrors.ErrInvalidInput, "subject id not provided")
	}
	return nil
}

func (s *SubjectService) checkNoEnrollments(ctx context.Context, m *subjectMutation) error {
	count, err := s.enrollments.CountBySubject(ctx, m.id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to check subject assignments")
	}
	if count > 0 {
		conflict := appErrors.Clone(appErrors.ErrDependencyConflict, "cannot delete subject")
		return appErrors.WithDetails(conflict, map[string]interface{}{
			"message": fmt.Sprintf("subject has %d active assignment(s), remove them first", count),
			"type":    "assignment_conflict",
			"count":   count,
		})
	}
	return nil
}

// Get returns a subject by id, or nil when no record exists.
func (s *SubjectService) Get(ctx context.Context, id string) (*models.Subject, error) {
	subject, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to load subject")
	}
	return subject, nil
}

// ListAll returns every subject, serving the advisory snapshot when fresh.
func (s *SubjectService) ListAll(ctx context.Context) ([]models.Subject, error) {
	if s.snapshots != nil {
		var cached []models.Subject
		if err := s.snapshots.Get(ctx, snapshotSubjects, &cached); err == nil {
			return cached, nil
		}
	}
	subjects, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to list subjects")
	}
	s.storeSnapshot(ctx, subjects)
	return subjects, nil
}

// ListPage returns one page of subjects plus the unfiltered total.
func (s *SubjectService) ListPage(ctx context.Context, page, limit int) ([]models.Subject, int, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit
	subjects, err := s.repo.ListPage(ctx, limit, offset)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to list subjects")
	}
	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to count subjects")
	}
	return subjects, total, nil
}

// Create adds a new subject after the duplicate-name check passes.
func (s *SubjectService) Create(ctx context.Context, req CreateSubjectRequest) (*models.Subject, error) {
	if err := s.runChecks(ctx, opCreate, &subjectMutation{create: &req}); err != nil {
		return nil, err
	}
	subject := &models.Subject{Name: strings.TrimSpace(req.Name)}
	inserted, err := s.repo.Create(ctx, subject)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "could not create the subject")
	}
	if inserted == 0 {
		return nil, appErrors.Clone(appErrors.ErrPersistence, "could not create the subject")
	}
	s.refreshAfterMutation(ctx)
	return subject, nil
}

// Update modifies a subject. No re-validation runs on this path.
func (s *SubjectService) Update(ctx context.Context, req UpdateSubjectRequest) error {
	if err := s.runChecks(ctx, opUpdate, &subjectMutation{id: req.ID}); err != nil {
		return err
	}
	subject := &models.Subject{ID: req.ID, Name: req.Name}
	affected, err := s.repo.Update(ctx, subject)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "could not update the subject")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrPersistence, "could not update the subject")
	}
	s.refreshAfterMutation(ctx)
	return nil
}

// Delete removes a subject once the guards pass. Unlike the student path,
// zero affected rows on the delete itself reports not-found.
func (s *SubjectService) Delete(ctx context.Context, id string) error {
	if err := s.runChecks(ctx, opDelete, &subjectMutation{id: id}); err != nil {
		return err
	}
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "could not delete the subject")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "could not delete: subject not found")
	}
	s.refreshAfterMutation(ctx)
	return nil
}

func (s *SubjectService) storeSnapshot(ctx context.Context, subjects []models.Subject) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Set(ctx, snapshotSubjects, subjects); err != nil {
		s.logger.Warn("subject snapshot refresh failed", zap.Error(err))
	}
}

func (s *SubjectService) refreshAfterMutation(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	subjects, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Warn("subject snapshot reload failed", zap.Error(err))
		s.snapshots.Invalidate(ctx, snapshotSubjects)
	} else {
		s.storeSnapshot(ctx, subjects)
	}
	s.snapshots.Invalidate(ctx, snapshotEnrollments)
}
