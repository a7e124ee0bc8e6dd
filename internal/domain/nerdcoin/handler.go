package nerdcoin

import (
	"errors"
	"net/http"
	"strconv"

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

type adjustRequest struct {
	Type        TransactionType `json:"type" binding:"required,oneof=BONUS ADJUSTMENT"`
	Amount      int64           `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"max=255"`
}

type redeemRequest struct {
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Description string `json:"description" binding:"max=255"`
}

func (h *Handler) GetMine(c *gin.Context) {
	h.writeSummary(c, c.GetInt64("user_id"))
}

func (h *Handler) GetForUser(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	h.writeSummary(c, userID)
}

func (h *Handler) writeSummary(c *gin.Context, userID int64) {
	ctx := c.Request.Context()

	summary, err := h.service.Summary(ctx, userID)
	if err != nil {
		writeError(c, err)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	txns, total, err := h.service.ListTransactions(ctx, userID, limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"summary":      summary,
		"transactions": txns,
		"total":        total,
	})
}

func (h *Handler) Adjust(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Fields(err))
		return
	}

	txn, err := h.service.Adjust(c.Request.Context(), userID, req.Type, req.Amount, req.Description, c.GetInt64("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, txn)
}

func (h *Handler) Redeem(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	var req redeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Fields(err))
		return
	}

	txn, err := h.service.Redeem(c.Request.Context(), userID, req.Amount, req.Description, c.GetInt64("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, txn)
}

func (h *Handler) Reconcile(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	rec, err := h.service.Reconcile(c.Request.Context(), userID, c.Query("fix") == "true")
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rec)
}

func parseUserID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return 0, false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
	case errors.Is(err, ErrInsufficientFunds):
		response.Error(c, http.StatusConflict, "INSUFFICIENT_BALANCE", err.Error())
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrInvalidType), errors.Is(err, ErrNegativeBalance):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		applog.FromContext(c.Request.Context()).WithError(err).Error("nerd coin request failed")
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
