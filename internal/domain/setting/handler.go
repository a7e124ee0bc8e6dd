package setting

import (
	"errors"
	"net/http"

	"nerdsociety/internal/pkg/applog"
	"nerdsociety/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type updateSettingsRequest struct {
	Values map[string]string `json:"values" binding:"required,min=1"`
}

func (h *Handler) List(c *gin.Context) {
	items, err := h.service.All(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) Update(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "values must be a non-empty object")
		return
	}

	if err := h.service.SetMany(c.Request.Context(), req.Values); err != nil {
		writeError(c, err)
		return
	}

	items, err := h.service.All(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("key")); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": c.Param("key")})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidKey):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Setting keys look like section.name")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Setting not found")
	default:
		applog.FromContext(c.Request.Context()).WithError(err).Error("settings request failed")
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
