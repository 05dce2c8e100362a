package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unmdp-fi/campus-records-api/internal/models"
	appErrors "github.com/unmdp-fi/campus-records-api/pkg/errors"
)

type mockEnrollmentRepo struct {
	enrollments map[string]models.EnrollmentDetail
	byStudent   map[string][]models.StudentSubject
	listTotal   int
	listCalls   int
}

func (m *mockEnrollmentRepo) GetByID(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	if d, ok := m.enrollments[id]; ok {
		return &d, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnrollmentRepo) ListAll(ctx context.Context) ([]models.EnrollmentDetail, error) {
	m.listCalls++
	details := make([]models.EnrollmentDetail, 0, len(m.enrollments))
	for _, d := range m.enrollments {
		details = append(details, d)
	}
	return details, nil
}

func (m *mockEnrollmentRepo) ListPage(ctx context.Context, limit, offset int) ([]models.EnrollmentDetail, error) {
	return []models.EnrollmentDetail{}, nil
}

func (m *mockEnrollmentRepo) ListByStudent(ctx context.Context, studentID string) ([]models.StudentSubject, error) {
	return m.byStudent[studentID], nil
}

func (m *mockEnrollmentRepo) CountAll(ctx context.Context) (int, error) {
	return m.listTotal, nil
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) (int64, error) {
	if m.enrollments == nil {
		m.enrollments = make(map[string]models.EnrollmentDetail)
	}
	if enrollment.ID == "" {
		enrollment.ID = "generated"
	}
	m.enrollments[enrollment.ID] = models.EnrollmentDetail{Enrollment: *enrollment}
	return 1, nil
}

func (m *mockEnrollmentRepo) Update(ctx context.Context, enrollment *models.Enrollment) (int64, error) {
	if _, ok := m.enrollments[enrollment.ID]; !ok {
		return 0, nil
	}
	m.enrollments[enrollment.ID] = models.EnrollmentDetail{Enrollment: *enrollment}
	return 1, nil
}

func (m *mockEnrollmentRepo) Delete(ctx context.Context, id string) (int64, error) {
	if _, ok := m.enrollments[id]; !ok {
		return 0, nil
	}
	delete(m.enrollments, id)
	return 1, nil
}

// mockSnapshotStore keeps JSON-encoded entries like the real store does.
type mockSnapshotStore struct {
	entries     map[string][]byte
	invalidated []string
}

func (m *mockSnapshotStore) Get(ctx context.Context, entity string, dest interface{}) error {
	raw, ok := m.entries[entity]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockSnapshotStore) Set(ctx context.Context, entity string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if m.entries == nil {
		m.entries = make(map[string][]byte)
	}
	m.entries[entity] = raw
	return nil
}

func (m *mockSnapshotStore) Invalidate(ctx context.Context, entity string) {
	delete(m.entries, entity)
	m.invalidated = append(m.invalidated, entity)
}

func TestEnrollmentServiceAssign(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := NewEnrollmentService(repo, nil, nil)

	approved := false
	enrollment, err := svc.Assign(context.Background(), EnrollmentRequest{StudentID: "s1", SubjectID: "sub1", Approved: &approved})
	require.NoError(t, err)
	assert.NotEmpty(t, enrollment.ID)
	assert.Contains(t, repo.enrollments, enrollment.ID)
}

func TestEnrollmentServiceAssignAllowsDuplicatePair(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := NewEnrollmentService(repo, nil, nil)

	first, err := svc.Assign(context.Background(), EnrollmentRequest{ID: "e1", StudentID: "s1", SubjectID: "sub1"})
	require.NoError(t, err)
	second, err := svc.Assign(context.Background(), EnrollmentRequest{ID: "e2", StudentID: "s1", SubjectID: "sub1"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, repo.enrollments, 2)
}

func TestEnrollmentServiceGetMissingReturnsNil(t *testing.T) {
	svc := NewEnrollmentService(&mockEnrollmentRepo{}, nil, nil)

	detail, err := svc.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, detail)
}

func TestEnrollmentServiceRemoveUnknownID(t *testing.T) {
	svc := NewEnrollmentService(&mockEnrollmentRepo{}, nil, nil)

	err := svc.Remove(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrPersistence.Code, appErr.Code)
	assert.Equal(t, 500, appErr.Status)
}

func TestEnrollmentServiceListByStudent(t *testing.T) {
	repo := &mockEnrollmentRepo{byStudent: map[string][]models.StudentSubject{
		"s1": {{SubjectID: "sub1", Name: "Algebra"}},
	}}
	svc := NewEnrollmentService(repo, nil, nil)

	subjects, err := svc.ListByStudent(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Equal(t, "Algebra", subjects[0].Name)
}

func TestEnrollmentServiceListAllServesSnapshot(t *testing.T) {
	repo := &mockEnrollmentRepo{enrollments: map[string]models.EnrollmentDetail{
		"e1": {Enrollment: models.Enrollment{ID: "e1", StudentID: "s1", SubjectID: "sub1"}, StudentFullname: "Ada", SubjectName: "Algebra"},
	}}
	snapshots := &mockSnapshotStore{}
	svc := NewEnrollmentService(repo, snapshots, nil)

	first, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Equal(t, 1, repo.listCalls)

	second, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.listCalls, "second read should hit the snapshot")
}

func TestEnrollmentServiceMutationRefreshesSnapshot(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	snapshots := &mockSnapshotStore{entries: map[string][]byte{"enrollments": []byte(`[]`)}}
	svc := NewEnrollmentService(repo, snapshots, nil)

	_, err := svc.Assign(context.Background(), EnrollmentRequest{StudentID: "s1", SubjectID: "sub1"})
	require.NoError(t, err)

	var cached []models.EnrollmentDetail
	require.NoError(t, snapshots.Get(context.Background(), "enrollments", &cached))
	assert.Len(t, cached, 1)
}
