package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unmdp-fi/campus-records-api/internal/models"
	appErrors "github.com/unmdp-fi/campus-records-api/pkg/errors"
)

func newExportService() *ExportService {
	students := &mockStudentRepo{students: map[string]models.Student{
		"s1": {ID: "s1", Fullname: "Ada Lovelace", Email: "ada@example.com", Age: 21},
	}}
	subjects := &mockSubjectRepo{subjects: map[string]models.Subject{
		"sub1": {ID: "sub1", Name: "Algebra"},
	}}
	enrollments := &mockEnrollmentRepo{enrollments: map[string]models.EnrollmentDetail{
		"e1": {Enrollment: models.Enrollment{ID: "e1", StudentID: "s1", SubjectID: "sub1"}, StudentFullname: "Ada Lovelace", SubjectName: "Algebra"},
	}}
	return NewExportService(students, subjects, enrollments, nil)
}

func TestExportServiceRenderStudentsCSV(t *testing.T) {
	svc := newExportService()

	payload, contentType, err := svc.Render(context.Background(), "students", FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.Contains(t, string(payload), "ID,Fullname,Email,Age")
	assert.Contains(t, string(payload), "ada@example.com")
}

func TestExportServiceRenderEnrollmentsPDF(t *testing.T) {
	svc := newExportService()

	payload, contentType, err := svc.Render(context.Background(), "enrollments", FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, len(payload) > 0)
	assert.Equal(t, "%PDF", string(payload[:4]))
}

func TestExportServiceUnknownFormat(t *testing.T) {
	svc := newExportService()

	_, _, err := svc.Render(context.Background(), "subjects", "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidInput.Code, appErrors.FromError(err).Code)
}

func TestExportServiceUnknownEntity(t *testing.T) {
	svc := newExportService()

	_, _, err := svc.Render(context.Background(), "teachers", FormatCSV)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidInput.Code, appErrors.FromError(err).Code)
}
