package staff

import (
	"errors"
	"net/http"
	"strconv"

	"nerdsociety/internal/domain/auth"
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

func (h *Handler) ListStaff(c *gin.Context) {
	page, pageSize := pageParams(c)
	var active *bool
	if v := c.Query("active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			response.ValidationError(c, map[string]string{"active": "bool"})
			return
		}
		active = &b
	}

	items, total, err := h.service.ListStaff(c.Request.Context(), c.Query("q"), active, page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Paginated(c, items, total, page, pageSize)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Fields(err))
		return
	}
	m, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, m)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Fields(err))
		return
	}
	m, err := h.service.Update(c.Request.Context(), c.GetInt64("user_id"), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, m)
}

func (h *Handler) Deactivate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	m, err := h.service.Deactivate(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, m)
}

func (h *Handler) ListCustomers(c *gin.Context) {
	page, pageSize := pageParams(c)
	items, total, err := h.service.ListCustomers(c.Request.Context(), c.Query("q"), page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Paginated(c, items, total, page, pageSize)
}

func (h *Handler) GetCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	customer, err := h.service.GetCustomer(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, customer)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid ID")
		return 0, false
	}
	return id, true
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return normalizePage(page, pageSize)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		response.Error(c, http.StatusConflict, "EMAIL_IN_USE", "Email already registered")
	case errors.Is(err, ErrSelfLockout):
		response.Error(c, http.StatusUnprocessableEntity, "SELF_LOCKOUT", err.Error())
	case errors.Is(err, ErrNotStaffRole), errors.Is(err, ErrNotStaffMember), errors.Is(err, auth.ErrWeakPassword):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		applog.FromContext(c.Request.Context()).WithError(err).Error("staff request failed")
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
