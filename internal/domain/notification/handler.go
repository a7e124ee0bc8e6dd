package notification

import (
	"errors"
	"net/http"

	"nerdsociety/internal/pkg/applog"
	"nerdsociety/internal/pkg/response"
	"nerdsociety/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListTemplates(c *gin.Context) {
	items, err := h.service.ListTemplates(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) GetTemplate(c *gin.Context) {
	view, err := h.service.GetTemplate(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

func (h *Handler) SaveTemplate(c *gin.Context) {
	var req SaveTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Fields(err))
		return
	}

	view, err := h.service.SaveTemplate(c.Request.Context(), c.Param("name"), c.GetInt64("user_id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

func (h *Handler) ResetTemplate(c *gin.Context) {
	view, err := h.service.ResetTemplate(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

func (h *Handler) PreviewTemplate(c *gin.Context) {
	var req PreviewRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationError(c, validator.Fields(err))
			return
		}
	}

	preview, err := h.service.PreviewTemplate(c.Request.Context(), c.Param("name"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, preview)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnknownTemplate):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Unknown email template")
	case errors.Is(err, ErrEmptyTemplate):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		applog.FromContext(c.Request.Context()).WithError(err).Error("email template request failed")
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
