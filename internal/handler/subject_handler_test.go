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
	appErrors "github.com/unmdp-fi/campus-records-api/pkg/errors"
)

type subjectServiceMock struct {
	getResp   *models.Subject
	listResp  []models.Subject
	pageResp  []models.Subject
	pageTotal int
	created   *models.Subject
	createErr error
	deleteErr error
}

func (m *subjectServiceMock) Get(ctx context.Context, id string) (*models.Subject, error) {
	return m.getResp, nil
}

func (m *subjectServiceMock) ListAll(ctx context.Context) ([]models.Subject, error) {
	return m.listResp, nil
}

func (m *subjectServiceMock) ListPage(ctx context.Context, page, limit int) ([]models.Subject, int, error) {
	return m.pageResp, m.pageTotal, nil
}

func (m *subjectServiceMock) Create(ctx context.Context, req service.CreateSubjectRequest) (*models.Subject, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.created, nil
}

func (m *subjectServiceMock) Update(ctx context.Context, req service.UpdateSubjectRequest) error {
	return nil
}

func (m *subjectServiceMock) Delete(ctx context.Context, id string) error {
	return m.deleteErr
}

func TestSubjectHandlerGetPaginatedKey(t *testing.T) {
	mock := &subjectServiceMock{pageResp: []models.Subject{{ID: "sub1", Name: "Algebra"}}, pageTotal: 4}
	h := NewSubjectHandler(mock)
	c, w := newTestContext(t, http.MethodGet, "/subjects?page=1&limit=10", nil)

	h.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "subjects")
	assert.Equal(t, "4", string(body["total"]))
}

func TestSubjectHandlerCreateDuplicate(t *testing.T) {
	mock := &subjectServiceMock{createErr: appErrors.Clone(appErrors.ErrDuplicateKey, "a subject with that name already exists")}
	h := NewSubjectHandler(mock)
	c, w := newTestContext(t, http.MethodPost, "/subjects", gin.H{"name": "Algebra"})

	h.Create(c)
	require.Equal(t, http.StatusConflict, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "a subject with that name already exists", body["error"])
}

func TestSubjectHandlerDeleteConflictCarriesType(t *testing.T) {
	conflict := appErrors.WithDetails(
		appErrors.Clone(appErrors.ErrDependencyConflict, "cannot delete subject"),
		map[string]interface{}{"message": "subject has 2 active assignment(s), remove them first", "type": "assignment_conflict", "count": 2},
	)
	mock := &subjectServiceMock{deleteErr: conflict}
	h := NewSubjectHandler(mock)
	c, w := newTestContext(t, http.MethodDelete, "/subjects", gin.H{"id": "sub1"})

	h.Delete(c)
	require.Equal(t, http.StatusConflict, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "assignment_conflict", body["type"])
	assert.EqualValues(t, 2, body["count"])
}

func TestSubjectHandlerDeleteMissing(t *testing.T) {
	mock := &subjectServiceMock{deleteErr: appErrors.Clone(appErrors.ErrNotFound, "could not delete: subject not found")}
	h := NewSubjectHandler(mock)
	c, w := newTestContext(t, http.MethodDelete, "/subjects", gin.H{"id": "missing"})

	h.Delete(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}
