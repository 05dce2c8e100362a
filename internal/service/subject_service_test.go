package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unmdp-fi/campus-records-api/internal/models"
	appErrors "github.com/unmdp-fi/campus-records-api/pkg/errors"
)

type mockSubjectRepo struct {
	subjects  map[string]models.Subject
	nameOwner map[string]string
	listTotal int
}

func (m *mockSubjectRepo) GetByID(ctx context.Context, id string) (*models.Subject, error) {
	if s, ok := m.subjects[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSubjectRepo) ExistsByName(ctx context.Context, name string, excludeID string) (bool, error) {
	if id, ok := m.nameOwner[strings.ToLower(name)]; ok {
		if excludeID == "" || id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockSubjectRepo) ListAll(ctx context.Context) ([]models.Subject, error) {
	subjects := make([]models.Subject, 0, len(m.subjects))
	for _, s := range m.subjects {
		subjects = append(subjects, s)
	}
	return subjects, nil
}

func (m *mockSubjectRepo) ListPage(ctx context.Context, limit, offset int) ([]models.Subject, error) {
	return []models.Subject{}, nil
}

func (m *mockSubjectRepo) CountAll(ctx context.Context) (int, error) {
	return m.listTotal, nil
}

func (m *mockSubjectRepo) Create(ctx context.Context, subject *models.Subject) (int64, error) {
	if m.subjects == nil {
		m.subjects = make(map[string]models.Subject)
	}
	if subject.ID == "" {
		subject.ID = "generated"
	}
	m.subjects[subject.ID] = *subject
	return 1, nil
}

func (m *mockSubjectRepo) Update(ctx context.Context, subject *models.Subject) (int64, error) {
	if _, ok := m.subjects[subject.ID]; !ok {
		return 0, nil
	}
	m.subjects[subject.ID] = *subject
	return 1, nil
}

func (m *mockSubjectRepo) Delete(ctx context.Context, id string) (int64, error) {
	if _, ok := m.subjects[id]; !ok {
		return 0, nil
	}
	delete(m.subjects, id)
	return 1, nil
}

func TestSubjectServiceCreate(t *testing.T) {
	repo := &mockSubjectRepo{}
	svc := NewSubjectService(repo, &mockEnrollmentCounter{}, nil, nil)

	subject, err := svc.Create(context.Background(), CreateSubjectRequest{Name: " Algebra "})
	require.NoError(t, err)
	assert.Equal(t, "Algebra", subject.Name)
	assert.NotEmpty(t, subject.ID)
}

func TestSubjectServiceCreateDuplicateName(t *testing.T) {
	repo := &mockSubjectRepo{nameOwner: map[string]string{"algebra": "sub1"}}
	svc := NewSubjectService(repo, &mockEnrollmentCounter{}, nil, nil)

	_, err := svc.Create(context.Background(), CreateSubjectRequest{Name: "ALGEBRA"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrDuplicateKey.Code, appErr.Code)
	assert.Equal(t, 409, appErr.Status)
}

func TestSubjectServiceUpdateSkipsNameCheck(t *testing.T) {
	// Renaming onto an existing name goes through: uniqueness is enforced
	// on create only.
	repo := &mockSubjectRepo{
		subjects:  map[string]models.Subject{"sub2": {ID: "sub2", Name: "Physics"}},
		nameOwner: map[string]string{"algebra": "sub1"},
	}
	svc := NewSubjectService(repo, &mockEnrollmentCounter{}, nil, nil)

	err := svc.Update(context.Background(), UpdateSubjectRequest{ID: "sub2", Name: "Algebra"})
	require.NoError(t, err)
	assert.Equal(t, "Algebra", repo.subjects["sub2"].Name)
}

func TestSubjectServiceDeleteRequiresID(t *testing.T) {
	svc := NewSubjectService(&mockSubjectRepo{}, &mockEnrollmentCounter{}, nil, nil)

	err := svc.Delete(context.Background(), "  ")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidInput.Code, appErr.Code)
	assert.Equal(t, 400, appErr.Status)
}

func TestSubjectServiceDeleteBlockedByAssignments(t *testing.T) {
	repo := &mockSubjectRepo{subjects: map[string]models.Subject{"sub1": {ID: "sub1", Name: "Algebra"}}}
	counter := &mockEnrollmentCounter{bySubject: map[string]int{"sub1": 2}}
	svc := NewSubjectService(repo, counter, nil, nil)

	err := svc.Delete(context.Background(), "sub1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrDependencyConflict.Code, appErr.Code)
	assert.Equal(t, "assignment_conflict", appErr.Details["type"])
	assert.Equal(t, 2, appErr.Details["count"])
	assert.Contains(t, repo.subjects, "sub1")
}

func TestSubjectServiceDeleteMissingReportsNotFound(t *testing.T) {
	svc := NewSubjectService(&mockSubjectRepo{}, &mockEnrollmentCounter{}, nil, nil)

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, 404, appErr.Status)
}

func TestSubjectServiceDelete(t *testing.T) {
	repo := &mockSubjectRepo{subjects: map[string]models.Subject{"sub1": {ID: "sub1"}}}
	svc := NewSubjectService(repo, &mockEnrollmentCounter{}, nil, nil)

	err := svc.Delete(context.Background(), "sub1")
	require.NoError(t, err)
	assert.Empty(t, repo.subjects)
}
