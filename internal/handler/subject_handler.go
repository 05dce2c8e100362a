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

type subjectService interface {
	Get(ctx context.Context, id string) (*models.Subject, error)
	ListAll(ctx context.Context) ([]models.Subject, error)
	ListPage(ctx context.Context, page, limit int) ([]models.Subject, int, error)
	Create(ctx context.Context, req service.CreateSubjectRequest) (*models.Subject, error)
	Update(ctx context.Context, req service.UpdateSubjectRequest) error
	Delete(ctx context.Context, id string) error
}

// SubjectHandler exposes the subject resource.
type SubjectHandler struct {
	subjects subjectService
}

// NewSubjectHandler constructs SubjectHandler.
func NewSubjectHandler(subjects subjectService) *SubjectHandler {
	return &SubjectHandler{subjects: subjects}
}

// Get godoc
// @Summary Read subjects: by id, paginated, or full list
// @Tags Subjects
// @Produce json
// @Param id query string false "Subject ID"
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size"
// @Success 200
// @Router /subjects [get]
func (h *SubjectHandler) Get(c *gin.Context) {
	req := resolveReadIntent(c.Request.URL.Query())
	switch req.intent {
	case intentByID:
		subject, err := h.subjects.Get(c.Request.Context(), req.id)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Record(c, subject)
	case intentPaginated:
		subjects, total, err := h.subjects.ListPage(c.Request.Context(), req.page, req.limit)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Page(c, "subjects", subjects, total)
	default:
		subjects, err := h.subjects.ListAll(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.List(c, subjects)
	}
}

// Create godoc
// @Summary Create subject
// @Tags Subjects
// @Accept json
// @Produce json
// @Success 201
// @Router /subjects [post]
func (h *SubjectHandler) Create(c *gin.Context) {
	var req service.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	subject, err := h.subjects.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "subject created successfully", subject.ID)
}

// Update godoc
// @Summary Update subject
// @Tags Subjects
// @Accept json
// @Produce json
// @Success 200
// @Router /subjects [put]
func (h *SubjectHandler) Update(c *gin.Context) {
	var req service.UpdateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.subjects.Update(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "subject updated successfully")
}

// Delete godoc
// @Summary Delete subject
// @Tags Subjects
// @Accept json
// @Produce json
// @Success 200
// @Router /subjects [delete]
func (h *SubjectHandler) Delete(c *gin.Context) {
	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.subjects.Delete(c.Request.Context(), req.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "subject deleted successfully")
}
