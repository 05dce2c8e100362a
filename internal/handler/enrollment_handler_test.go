package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unmdp-fi/campus-records-api/internal/models"
	"github.com/unmdp-fi/campus-records-api/internal/service"
)

type enrollmentServiceMock struct {
	getResp       *models.EnrollmentDetail
	listResp      []models.EnrollmentDetail
	pageResp      []models.EnrollmentDetail
	pageTotal     int
	byStudentResp []models.StudentSubject
	byStudentID   string
	assigned      *models.Enrollment
	removedID     string
}

func (m *enrollmentServiceMock) Get(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	return m.getResp, nil
}

func (m *enrollmentServiceMock) ListAll(ctx context.Context) ([]models.EnrollmentDetail, error) {
	return m.listResp, nil
}

func (m *enrollmentServiceMock) ListPage(ctx context.Context, page, limit int) ([]models.EnrollmentDetail, int, error) {
	return m.pageResp, m.pageTotal, nil
}

func (m *enrollmentServiceMock) ListByStudent(ctx context.Context, studentID string) ([]models.StudentSubject, error) {
	m.byStudentID = studentID
	return m.byStudentResp, nil
}

func (m *enrollmentServiceMock) Assign(ctx context.Context, req service.EnrollmentRequest) (*models.Enrollment, error) {
	return m.assigned, nil
}

func (m *enrollmentServiceMock) Update(ctx context.Context, req service.EnrollmentRequest) error {
	return nil
}

func (m *enrollmentServiceMock) Remove(ctx context.Context, id string) error {
	m.removedID = id
	return nil
}

func TestEnrollmentHandlerGetByStudent(t *testing.T) {
	mock := &enrollmentServiceMock{byStudentResp: []models.StudentSubject{{SubjectID: "sub1", Name: "Algebra"}}}
	h := NewEnrollmentHandler(mock)
	c, w := newTestContext(t, http.MethodGet, "/enrollments?student_id=s1", nil)

	h.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "s1", mock.byStudentID)
	var subjects []models.StudentSubject
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &subjects))
	require.Len(t, subjects, 1)
	assert.Equal(t, "Algebra", subjects[0].Name)
}

func TestEnrollmentHandlerIDWinsOverStudentID(t *testing.T) {
	mock := &enrollmentServiceMock{getResp: &models.EnrollmentDetail{
		Enrollment: models.Enrollment{ID: "e1", StudentID: "s1", SubjectID: "sub1"},
	}}
	h := NewEnrollmentHandler(mock)
	c, w := newTestContext(t, http.MethodGet, "/enrollments?id=e1&student_id=s1", nil)

	h.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, mock.byStudentID)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "e1", body["id"])
}

func TestEnrollmentHandlerGetPaginatedKey(t *testing.T) {
	mock := &enrollmentServiceMock{pageResp: []models.EnrollmentDetail{}, pageTotal: 0}
	h := NewEnrollmentHandler(mock)
	c, w := newTestContext(t, http.MethodGet, "/enrollments?page=1&limit=10", nil)

	h.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "enrollments")
	assert.Contains(t, body, "total")
}

func TestEnrollmentHandlerCreate(t *testing.T) {
	mock := &enrollmentServiceMock{assigned: &models.Enrollment{ID: "e1"}}
	h := NewEnrollmentHandler(mock)
	c, w := newTestContext(t, http.MethodPost, "/enrollments", gin.H{"student_id": "s1", "subject_id": "sub1"})

	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "subject assigned successfully", body["message"])
	assert.Equal(t, "e1", body["id"])
}

func TestEnrollmentHandlerDelete(t *testing.T) {
	mock := &enrollmentServiceMock{}
	h := NewEnrollmentHandler(mock)
	c, w := newTestContext(t, http.MethodDelete, "/enrollments", gin.H{"id": "e1"})

	h.Delete(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "e1", mock.removedID)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "enrollment removed successfully", body["message"])
}
