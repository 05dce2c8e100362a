package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/unmdp-fi/campus-records-api/internal/models"
	appErrors "github.com/unmdp-fi/campus-records-api/pkg/errors"
	"github.com/unmdp-fi/campus-records-api/pkg/export"
)

type exportStudentSource interface {
	ListAll(ctx context.Context) ([]models.Student, error)
}

type exportSubjectSource interface {
	ListAll(ctx context.Context) ([]models.Subject, error)
}

type exportEnrollmentSource interface {
	ListAll(ctx context.Context) ([]models.EnrollmentDetail, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// Export formats and content types.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// ExportService renders full-roster downloads for each entity.
type ExportService struct {
	students    exportStudentSource
	subjects    exportSubjectSource
	enrollments exportEnrollmentSource
	csv         csvRenderer
	pdf         pdfRenderer
	logger      *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(students exportStudentSource, subjects exportSubjectSource, enrollments exportEnrollmentSource, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		students:    students,
		subjects:    subjects,
		enrollments: enrollments,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		logger:      logger,
	}
}

// Render builds the dataset for an entity and renders it in the requested
// format, returning the payload and its content type.
func (s *ExportService) Render(ctx context.Context, entity, format string) ([]byte, string, error) {
	dataset, title, err := s.buildDataset(ctx, entity)
	if err != nil {
		return nil, "", err
	}

	switch format {
	case FormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to render csv export")
		}
		return payload, "text/csv", nil
	case FormatPDF:
		payload, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to render pdf export")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("unsupported export format %q", format))
	}
}

func (s *ExportService) buildDataset(ctx context.Context, entity string) (export.Dataset, string, error) {
	switch entity {
	case snapshotStudents:
		students, err := s.students.ListAll(ctx)
		if err != nil {
			return export.Dataset{}, "", err
		}
		dataset := export.Dataset{Headers: []string{"ID", "Fullname", "Email", "Age"}}
		for _, st := range students {
			dataset.Rows = append(dataset.Rows, []string{st.ID, st.Fullname, st.Email, fmt.Sprintf("%d", st.Age)})
		}
		return dataset, "Students", nil
	case snapshotSubjects:
		subjects, err := s.subjects.ListAll(ctx)
		if err != nil {
			return export.Dataset{}, "", err
		}
		dataset := export.Dataset{Headers: []string{"ID", "Name"}}
		for _, sub := range subjects {
			dataset.Rows = append(dataset.Rows, []string{sub.ID, sub.Name})
		}
		return dataset, "Subjects", nil
	case snapshotEnrollments:
		details, err := s.enrollments.ListAll(ctx)
		if err != nil {
			return export.Dataset{}, "", err
		}
		dataset := export.Dataset{Headers: []string{"ID", "Student", "Subject", "Approved"}}
		for _, d := range details {
			approved := ""
			if d.Approved != nil {
				approved = fmt.Sprintf("%t", *d.Approved)
			}
			dataset.Rows = append(dataset.Rows, []string{d.ID, d.StudentFullname, d.SubjectName, approved})
		}
		return dataset, "Enrollments", nil
	default:
		return export.Dataset{}, "", appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("unknown export entity %q", entity))
	}
}
