package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/unmdp-fi/campus-records-api/internal/models"
)

// EnrollmentRepository handles persistence of student-subject enrollments.
// List reads join in the display names; mutations touch only the
// enrollments table.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

const enrollmentDetailColumns = `e.id, e.student_id, e.subject_id, e.approved,
        s.fullname AS student_fullname, sub.name AS subject_name
        FROM enrollments e
        JOIN students s ON s.id = e.student_id
        JOIN subjects sub ON sub.id = e.subject_id`

// GetByID fetches one enrollment with joined names. sql.ErrNoRows passes
// through.
func (r *EnrollmentRepository) GetByID(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	query := `SELECT ` + enrollmentDetailColumns + ` WHERE e.id = $1`
	var detail models.EnrollmentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListAll returns every enrollment with joined names.
func (r *EnrollmentRepository) ListAll(ctx context.Context) ([]models.EnrollmentDetail, error) {
	query := `SELECT ` + enrollmentDetailColumns + ` ORDER BY e.id`
	details := []models.EnrollmentDetail{}
	if err := r.db.SelectContext(ctx, &details, query); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return details, nil
}

// ListPage returns one page of enrollments with joined names.
func (r *EnrollmentRepository) ListPage(ctx context.Context, limit, offset int) ([]models.EnrollmentDetail, error) {
	query := `SELECT ` + enrollmentDetailColumns + ` ORDER BY e.id LIMIT $1 OFFSET $2`
	details := []models.EnrollmentDetail{}
	if err := r.db.SelectContext(ctx, &details, query, limit, offset); err != nil {
		return nil, fmt.Errorf("list enrollments page: %w", err)
	}
	return details, nil
}

// ListByStudent returns the subjects one student is enrolled in.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID string) ([]models.StudentSubject, error) {
	const query = `SELECT e.subject_id, sub.name, e.approved
        FROM enrollments e
        JOIN subjects sub ON sub.id = e.subject_id
        WHERE e.student_id = $1`
	subjects := []models.StudentSubject{}
	if err := r.db.SelectContext(ctx, &subjects, query, studentID); err != nil {
		return nil, fmt.Errorf("list subjects by student: %w", err)
	}
	return subjects, nil
}

// CountAll returns the unfiltered enrollment count.
func (r *EnrollmentRepository) CountAll(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM enrollments`); err != nil {
		return 0, fmt.Errorf("count enrollments: %w", err)
	}
	return total, nil
}

// CountByStudent returns how many enrollment rows reference the student.
func (r *EnrollmentRepository) CountByStudent(ctx context.Context, studentID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM enrollments WHERE student_id = $1`, studentID); err != nil {
		return 0, fmt.Errorf("count enrollments by student: %w", err)
	}
	return count, nil
}

// CountBySubject returns how many enrollment rows reference the subject.
func (r *EnrollmentRepository) CountBySubject(ctx context.Context, subjectID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM enrollments WHERE subject_id = $1`, subjectID); err != nil {
		return 0, fmt.Errorf("count enrollments by subject: %w", err)
	}
	return count, nil
}

// Create inserts a new enrollment and reports the inserted row count.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) (int64, error) {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	const query = `INSERT INTO enrollments (id, student_id, subject_id, approved)
        VALUES (:id, :student_id, :subject_id, :approved)`
	res, err := r.db.NamedExecContext(ctx, query, enrollment)
	if err != nil {
		return 0, fmt.Errorf("create enrollment: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("create enrollment rows: %w", err)
	}
	return inserted, nil
}

// Update modifies an enrollment and reports the affected row count.
func (r *EnrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) (int64, error) {
	const query = `UPDATE enrollments SET student_id = :student_id, subject_id = :subject_id, approved = :approved WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, enrollment)
	if err != nil {
		return 0, fmt.Errorf("update enrollment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update enrollment rows: %w", err)
	}
	return affected, nil
}

// Delete removes an enrollment and reports the affected row count.
func (r *EnrollmentRepository) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete enrollment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete enrollment rows: %w", err)
	}
	return affected, nil
}
