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

type studentService interface {
	Get(ctx context.Context, id string) (*models.Student, error)
	ListAll(ctx context.Context) ([]models.Student, error)
	ListPage(ctx context.Context, page, limit int) ([]models.Student, int, error)
	Create(ctx context.Context, req service.CreateStudentRequest) (*models.Student, error)
	Update(ctx context.Context, req service.UpdateStudentRequest) error
	Delete(ctx context.Context, id string) error
}

// StudentHandler exposes the student resource on a single URL with
// query-shape read dispatch and body-carried ids on writes.
type StudentHandler struct {
	students studentService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// Get godoc
// @Summary Read students: by id, paginated, or full list
// @Tags Students
// @Produce json
// @Param id query string false "Student ID"
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size"
// @Success 200
// @Router /students [get]
func (h *StudentHandler) Get(c *gin.Context) {
	req := resolveReadIntent(c.Request.URL.Query())
	switch req.intent {
	case intentByID:
		student, err := h.students.Get(c.Request.Context(), req.id)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Record(c, student)
	case intentPaginated:
		students, total, err := h.students.ListPage(c.Request.Context(), req.page, req.limit)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Page(c, "students", students, total)
	default:
		students, err := h.students.ListAll(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.List(c, students)
	}
}

// Create godoc
// @Summary Create student
// @Tags Students
// @Accept json
// @Produce json
// @Success 201
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.students.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "student added successfully", student.ID)
}

// Update godoc
// @Summary Update student
// @Tags Students
// @Accept json
// @Produce json
// @Success 200
// @Router /students [put]
func (h *StudentHandler) Update(c *gin.Context) {
	var req service.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.students.Update(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "student updated successfully")
}

// Delete godoc
// @Summary Delete student
// @Tags Students
// @Accept json
// @Produce json
// @Success 200
// @Router /students [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.students.Delete(c.Request.Context(), req.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "student deleted successfully")
}
