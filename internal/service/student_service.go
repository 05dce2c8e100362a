package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/unmdp-fi/campus-records-api/internal/models"
	appErrors "github.com/unmdp-fi/campus-records-api/pkg/errors"
)

type studentRepository interface {
	GetByID(ctx context.Context, id string) (*models.Student, error)
	ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error)
	ListAll(ctx context.Context) ([]models.Student, error)
	ListPage(ctx context.Context, limit, offset int) ([]models.Student, error)
	CountAll(ctx context.Context) (int, error)
	Create(ctx context.Context, student *models.Student) (int64, error)
	Update(ctx context.Context, student *models.Student) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type studentEnrollmentCounter interface {
	CountByStudent(ctx context.Context, studentID string) (int, error)
}

// CreateStudentRequest carries the create payload. Pointer fields let the
// presence check tell a missing key from a zero value.
type CreateStudentRequest struct {
	Fullname *string `json:"fullname" validate:"required"`
	Email    *string `json:"email" validate:"required"`
	Age      *int    `json:"age" validate:"required"`
}

// UpdateStudentRequest carries the update payload. Update runs no presence
// checks; a missing or unknown id surfaces as zero affected rows.
type UpdateStudentRequest struct {
	ID       string `json:"id"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Age      int    `json:"age"`
}

type studentMutation struct {
	id     string
	create *CreateStudentRequest
	update *UpdateStudentRequest
}

type studentCheck struct {
	name string
	run  func(ctx context.Context, m *studentMutation) error
}

// StudentService guards student mutations and orchestrates the repository.
type StudentService struct {
	repo        studentRepository
	enrollments studentEnrollmentCounter
	snapshots   snapshotStore
	validator   *validator.Validate
	logger      *zap.Logger
	checks      map[mutationOp][]studentCheck
}

// NewStudentService constructs the student service and its check table.
func NewStudentService(repo studentRepository, enrollments studentEnrollmentCounter, snapshots snapshotStore, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &StudentService{repo: repo, enrollments: enrollments, snapshots: snapshots, validator: validate, logger: logger}

	// Update deliberately skips the presence checks create runs; the
	// legacy contract validates student payloads on create only.
	s.checks = map[mutationOp][]studentCheck{
		opCreate: {
			{name: "required_fields", run: s.checkRequiredFields},
			{name: "email_unique", run: s.checkEmailUnique},
		},
		opUpdate: {
			{name: "email_unique", run: s.checkEmailUnique},
		},
		opDelete: {
			{name: "no_enrollments", run: s.checkNoEnrollments},
		},
	}
	return s
}

func (s *StudentService) runChecks(ctx context.Context, op mutationOp, m *studentMutation) error {
	for _, check := range s.checks[op] {
		if err := check.run(ctx, m); err != nil {
			s.logger.Debug("student mutation rejected",
				zap.String("op", string(op)), zap.String("check", check.name))
			return err
		}
	}
	return nil
}

func (s *StudentService) checkRequiredFields(ctx context.Context, m *studentMutation) error {
	if err := s.validator.Struct(m.create); err != nil {
		return appErrors.Clone(appErrors.ErrInvalidInput, "incomplete or invalid data: fullname, email and age are required")
	}
	if strings.TrimSpace(*m.create.Fullname) == "" {
		return appErrors.Clone(appErrors.ErrInvalidInput, "incomplete or invalid data: fullname, email and age are required")
	}
	return nil
}

// checkEmailUnique compares case-insensitively against current state. Two
// concurrent creates can both pass this check before either commits; that
// check-then-insert race is accepted, the storage layer's unique index is
// the only backstop.
func (s *StudentService) checkEmailUnique(ctx context.Context, m *studentMutation) error {
	email := ""
	excludeID := ""
	switch {
	case m.create != nil:
		email = strings.TrimSpace(*m.create.Email)
	case m.update != nil:
		email = strings.TrimSpace(m.update.Email)
		excludeID = m.update.ID
	}
	exists, err := s.repo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to check student email")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrDuplicateKey, "a student with that email already exists")
	}
	return nil
}

func (s *StudentService) checkNoEnrollments(ctx context.Context, m *studentMutation) error {
	count, err := s.enrollments.CountByStudent(ctx, m.id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to check student enrollments")
	}
	if count > 0 {
		conflict := appErrors.Clone(appErrors.ErrDependencyConflict, "cannot delete student")
		return appErrors.WithDetails(conflict, map[string]interface{}{
			"message": fmt.Sprintf("student has %d enrollment(s), remove them first", count),
			"count":   count,
		})
	}
	return nil
}

// Get returns a student by id, or nil when no record exists.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to load student")
	}
	return student, nil
}

// ListAll returns every student, serving the advisory snapshot when fresh.
func (s *StudentService) ListAll(ctx context.Context) ([]models.Student, error) {
	if s.snapshots != nil {
		var cached []models.Student
		if err := s.snapshots.Get(ctx, snapshotStudents, &cached); err == nil {
			return cached, nil
		}
	}
	students, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to list students")
	}
	s.storeSnapshot(ctx, students)
	return students, nil
}

// ListPage returns one page of students plus the unfiltered total.
func (s *StudentService) ListPage(ctx context.Context, page, limit int) ([]models.Student, int, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit
	students, err := s.repo.ListPage(ctx, limit, offset)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to list students")
	}
	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to count students")
	}
	return students, total, nil
}

// Create registers a new student after the create checks pass.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.runChecks(ctx, opCreate, &studentMutation{create: &req}); err != nil {
		return nil, err
	}
	student := &models.Student{
		Fullname: strings.TrimSpace(*req.Fullname),
		Email:    strings.TrimSpace(*req.Email),
		Age:      *req.Age,
	}
	inserted, err := s.repo.Create(ctx, student)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "could not add the student")
	}
	if inserted == 0 {
		return nil, appErrors.Clone(appErrors.ErrPersistence, "could not add the student")
	}
	s.refreshAfterMutation(ctx)
	return student, nil
}

// Update modifies a student after the update checks pass.
func (s *StudentService) Update(ctx context.Context, req UpdateStudentRequest) error {
	if err := s.runChecks(ctx, opUpdate, &studentMutation{id: req.ID, update: &req}); err != nil {
		return err
	}
	student := &models.Student{
		ID:       req.ID,
		Fullname: req.Fullname,
		Email:    strings.TrimSpace(req.Email),
		Age:      req.Age,
	}
	affected, err := s.repo.Update(ctx, student)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "could not update the student")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrPersistence, "could not update the student")
	}
	s.refreshAfterMutation(ctx)
	return nil
}

// Delete removes a student once the dependency guard passes.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := s.runChecks(ctx, opDelete, &studentMutation{id: id}); err != nil {
		return err
	}
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "could not delete the student")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrPersistence, "could not delete the student")
	}
	s.refreshAfterMutation(ctx)
	return nil
}

func (s *StudentService) storeSnapshot(ctx context.Context, students []models.Student) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Set(ctx, snapshotStudents, students); err != nil {
		s.logger.Warn("student snapshot refresh failed", zap.Error(err))
	}
}

// refreshAfterMutation synchronously rebuilds the student snapshot and drops
// the enrollment one (joined names may have changed). Best effort only.
func (s *StudentService) refreshAfterMutation(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	students, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Warn("student snapshot reload failed", zap.Error(err))
		s.snapshots.Invalidate(ctx, snapshotStudents)
	} else {
		s.storeSnapshot(ctx, students)
	}
	s.snapshots.Invalidate(ctx, snapshotEnrollments)
}
