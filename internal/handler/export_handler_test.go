package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unmdp-fi/campus-records-api/pkg/errors"
)

type exportServiceMock struct {
	payload     []byte
	contentType string
	err         error
	entity      string
	format      string
}

func (m *exportServiceMock) Render(ctx context.Context, entity, format string) ([]byte, string, error) {
	m.entity, m.format = entity, format
	if m.err != nil {
		return nil, "", m.err
	}
	return m.payload, m.contentType, nil
}

func TestExportHandlerDownloadDefaultsToCSV(t *testing.T) {
	mock := &exportServiceMock{payload: []byte("ID,Name\n"), contentType: "text/csv"}
	h := NewExportHandler(mock)
	c, w := newTestContext(t, http.MethodGet, "/subjects/export", nil)

	h.Download("subjects")(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "subjects", mock.entity)
	assert.Equal(t, "csv", mock.format)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "subjects.csv")
}

func TestExportHandlerDownloadPDF(t *testing.T) {
	mock := &exportServiceMock{payload: []byte("%PDF-1.3"), contentType: "application/pdf"}
	h := NewExportHandler(mock)
	c, w := newTestContext(t, http.MethodGet, "/students/export?format=pdf", nil)

	h.Download("students")(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pdf", mock.format)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
}

func TestExportHandlerUnknownFormat(t *testing.T) {
	mock := &exportServiceMock{err: appErrors.Clone(appErrors.ErrInvalidInput, `unsupported export format "xlsx"`)}
	h := NewExportHandler(mock)
	c, w := newTestContext(t, http.MethodGet, "/students/export?format=xlsx", nil)

	h.Download("students")(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
