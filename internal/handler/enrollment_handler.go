package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unmdp-fi/campus-records-api/internal/models"
	"github.com/unmdp-fi/campus-records-api/internal/service"
	appErrors "github.com/unmdp-fi/campus-records-api/pkg/errors"
	"github.com/unmdp-fi/campus-records-api/pkg/response"
)

type enrollmentService interface {
	Get(ctx context.Context, id string) (*models.EnrollmentDetail, error)
	ListAll(ctx context.Context) ([]models.EnrollmentDetail, error)
	ListPage(ctx context.Context, page, limit int) ([]models.EnrollmentDetail, int, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.StudentSubject, error)
	Assign(ctx context.Context, req service.EnrollmentRequest) (*models.Enrollment, error)
	Update(ctx context.Context, req service.EnrollmentRequest) error
	Remove(ctx context.Context, id string) error
}

// EnrollmentHandler exposes the enrollment resource. Reads additionally
// support ?student_id= for a student's subject listing.
type EnrollmentHandler struct {
	enrollments enrollmentService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments enrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// Get godoc
// @Summary Read enrollments: by id, by student, paginated, or full list
// @Tags Enrollments
// @Produce json
// @Param id query string false "Enrollment ID"
// @Param student_id query string false "Student ID"
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size"
// @Success 200
// @Router /enrollments [get]
func (h *EnrollmentHandler) Get(c *gin.Context) {
	req := resolveReadIntent(c.Request.URL.Query())
	switch req.intent {
	case intentByID:
		detail, err := h.enrollments.Get(c.Request.Context(), req.id)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Record(c, detail)
	case intentByStudent:
		subjects, err := h.enrollments.ListByStudent(c.Request.Context(), req.studentID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.List(c, subjects)
	case intentPaginated:
		details, total, err := h.enrollments.ListPage(c.Request.Context(), req.page, req.limit)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Page(c, "enrollments", details, total)
	default:
		details, err := h.enrollments.ListAll(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.List(c, details)
	}
}

// Create godoc
// @Summary Assign subject to student
// @Tags Enrollments
// @Accept json
// @Produce json
// @Success 201
// @Router /enrollments [post]
func (h *EnrollmentHandler) Create(c *gin.Context) {
	var req service.EnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	enrollment, err := h.enrollments.Assign(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "subject assigned successfully", enrollment.ID)
}

// Update godoc
// @Summary Update enrollment
// @Tags Enrollments
// @Accept json
// @Produce json
// @Success 200
// @Router /enrollments [put]
func (h *EnrollmentHandler) Update(c *gin.Context) {
	var req service.EnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.enrollments.Update(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "enrollment updated successfully")
}

// Delete godoc
// @Summary Remove enrollment
// @Tags Enrollments
// @Accept json
// @Produce json
// @Success 200
// @Router /enrollments [delete]
func (h *EnrollmentHandler) Delete(c *gin.Context) {
	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.enrollments.Remove(c.Request.Context(), req.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "enrollment removed successfully")
}
