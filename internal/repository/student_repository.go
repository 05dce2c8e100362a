package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/unmdp-fi/campus-records-api/internal/models"
)

// StudentRepository manages persistence for student records. Every method
// issues exactly one statement; callers classify zero affected rows.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// GetByID fetches a student by id. sql.ErrNoRows is passed through.
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT id, fullname, email, age, created_at, updated_at FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// ExistsByEmail checks case-insensitive email uniqueness, optionally
// excluding the record being updated.
func (r *StudentRepository) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM students WHERE LOWER(email) = LOWER($1)"
	args := []interface{}{email}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check student email: %w", err)
	}
	return true, nil
}

// ListAll returns every student.
func (r *StudentRepository) ListAll(ctx context.Context) ([]models.Student, error) {
	const query = `SELECT id, fullname, email, age, created_at, updated_at FROM students ORDER BY created_at`
	students := []models.Student{}
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// ListPage returns one page of students.
func (r *StudentRepository) ListPage(ctx context.Context, limit, offset int) ([]models.Student, error) {
	const query = `SELECT id, fullname, email, age, created_at, updated_at FROM students ORDER BY created_at LIMIT $1 OFFSET $2`
	students := []models.Student{}
	if err := r.db.SelectContext(ctx, &students, query, limit, offset); err != nil {
		return nil, fmt.Errorf("list students page: %w", err)
	}
	return students, nil
}

// CountAll returns the unfiltered student count.
func (r *StudentRepository) CountAll(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM students`); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return total, nil
}

// Create inserts a new student and reports the inserted row count.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) (int64, error) {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, fullname, email, age, created_at, updated_at)
        VALUES (:id, :fullname, :email, :age, :created_at, :updated_at)`
	res, err := r.db.NamedExecContext(ctx, query, student)
	if err != nil {
		return 0, fmt.Errorf("create student: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("create student rows: %w", err)
	}
	return inserted, nil
}

// Update modifies an existing student and reports the affected row count.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) (int64, error) {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET fullname = :fullname, email = :email, age = :age, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, student)
	if err != nil {
		return 0, fmt.Errorf("update student: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update student rows: %w", err)
	}
	return affected, nil
}

// Delete removes a student and reports the affected row count.
func (r *StudentRepository) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete student: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete student rows: %w", err)
	}
	return affected, nil
}
