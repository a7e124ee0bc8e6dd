package booking

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"nerdsociety/internal/domain/auth"
	"nerdsociety/internal/domain/catalog"
	"nerdsociety/internal/domain/payment"
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

/* ---------- PUBLIC ---------- */

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Fields(err))
		return
	}

	var userID *int64
	if id := c.GetInt64("user_id"); id > 0 {
		userID = &id
	}

	b, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

func (h *Handler) GetByCode(c *gin.Context) {
	b, err := h.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) SelectPaymentMethod(c *gin.Context) {
	var req SelectPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Fields(err))
		return
	}

	res, err := h.service.SelectPaymentMethod(c.Request.Context(), c.Param("code"), req.Method)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) ReportPayment(c *gin.Context) {
	b, err := h.service.ReportPayment(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) CancelByCustomer(c *gin.Context) {
	var req CancelRequest
	if !bindOptional(c, &req) {
		return
	}

	b, err := h.service.CancelByCustomer(c.Request.Context(), c.Param("code"), req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) RescheduleByCustomer(c *gin.Context) {
	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Fields(err))
		return
	}

	b, err := h.service.RescheduleByCustomer(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) Availability(c *gin.Context) {
	roomID, ok := parseID(c)
	if !ok {
		return
	}

	a, err := h.service.Availability(c.Request.Context(), roomID, c.Query("date"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, a)
}

/* ---------- CUSTOMER ---------- */

func (h *Handler) MyBookings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePage(page, pageSize)

	items, total, err := h.service.MyBookings(c.Request.Context(), c.GetInt64("user_id"), page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Paginated(c, items, total, page, pageSize)
}

/* ---------- STAFF ---------- */

func (h *Handler) List(c *gin.Context) {
	f := ListFilter{
		Status:               Status(c.Query("status")),
		Date:                 c.Query("date"),
		Search:               c.Query("q"),
		AwaitingConfirmation: c.Query("awaiting_confirmation") == "true",
	}
	f.LocationID, _ = strconv.ParseInt(c.Query("location_id"), 10, 64)
	f.RoomID, _ = strconv.ParseInt(c.Query("room_id"), 10, 64)
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	f.Page, f.PageSize = normalizePage(f.Page, f.PageSize)

	items, total, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Paginated(c, items, total, f.Page, f.PageSize)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) Stats(c *gin.Context) {
	locationID, _ := strconv.ParseInt(c.Query("location_id"), 10, 64)
	st, err := h.service.Stats(c.Request.Context(), c.Query("date"), locationID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, st)
}

func (h *Handler) ConfirmPayment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Fields(err))
		return
	}

	b, err := h.service.ConfirmPayment(c.Request.Context(), id, c.GetInt64("user_id"), req.Method)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) CheckIn(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req CheckInRequest
	if !bindOptional(c, &req) {
		return
	}

	res, err := h.service.CheckIn(c.Request.Context(), id, c.GetInt64("user_id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) PreviewCheckout(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	summary, err := h.service.PreviewCheckout(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}

func (h *Handler) CheckOut(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if !bindOptional(c, &req) {
		return
	}

	b, summary, err := h.service.CheckOut(c.Request.Context(), id, c.GetInt64("user_id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b, "summary": summary})
}

func (h *Handler) CancelByStaff(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req CancelRequest
	if !bindOptional(c, &req) {
		return
	}

	b, err := h.service.CancelByStaff(c.Request.Context(), id, c.GetInt64("user_id"), req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) MarkNoShow(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	b, err := h.service.MarkNoShow(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) RescheduleByStaff(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Fields(err))
		return
	}

	b, err := h.service.RescheduleByStaff(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) SendReminder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	b, err := h.service.SendReminder(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

// bindOptional binds a JSON body the client may leave out.
func bindOptional(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		response.ValidationError(c, validator.Fields(err))
		return false
	}
	return true
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid ID")
		return 0, false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, catalog.ErrLocationNotFound), errors.Is(err, catalog.ErrRoomNotFound),
		errors.Is(err, catalog.ErrComboNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrSlotTaken):
		response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", err.Error())
	case errors.Is(err, ErrInvalidStatusTransition):
		response.Error(c, http.StatusConflict, "INVALID_STATUS_TRANSITION", err.Error())
	case errors.Is(err, ErrDepositSettled), errors.Is(err, payment.ErrAlreadyCompleted):
		response.Error(c, http.StatusConflict, "DEPOSIT_ALREADY_SETTLED", err.Error())
	case errors.Is(err, ErrCancellationWindow):
		response.Error(c, http.StatusUnprocessableEntity, "CANCELLATION_WINDOW_CLOSED", err.Error())
	case errors.Is(err, ErrRescheduleWindow):
		response.Error(c, http.StatusUnprocessableEntity, "RESCHEDULE_WINDOW_CLOSED", err.Error())
	case errors.Is(err, ErrNoShowTooEarly):
		response.Error(c, http.StatusUnprocessableEntity, "NOT_STARTED", err.Error())
	case errors.Is(err, ErrPaymentNotSelected):
		response.Error(c, http.StatusUnprocessableEntity, "PAYMENT_METHOD_NOT_SELECTED", err.Error())
	case errors.Is(err, payment.ErrMethodDisabled):
		response.Error(c, http.StatusUnprocessableEntity, "PAYMENT_METHOD_DISABLED", err.Error())
	case errors.Is(err, payment.ErrBankNotConfigured):
		response.Error(c, http.StatusServiceUnavailable, "BANK_NOT_CONFIGURED", err.Error())
	case errors.Is(err, catalog.ErrInactive), errors.Is(err, catalog.ErrRoomNotInLocation),
		errors.Is(err, catalog.ErrComboRoomMismatch), errors.Is(err, catalog.ErrDurationNotCovered),
		errors.Is(err, ErrOutsideOpeningHours), errors.Is(err, ErrTooManyGuests),
		errors.Is(err, ErrStartInPast):
		response.Error(c, http.StatusUnprocessableEntity, "BOOKING_RULE_VIOLATION", err.Error())
	case errors.Is(err, ErrInvalidSlot), errors.Is(err, ErrInvalidFilter), errors.Is(err, ErrMissingContact),
		errors.Is(err, ErrInvalidDepositMethod), errors.Is(err, ErrInvalidActualEnd),
		errors.Is(err, payment.ErrInvalidMethod), errors.Is(err, catalog.ErrInvalidClock):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, auth.ErrAccountDisabled):
		response.Error(c, http.StatusForbidden, "ACCOUNT_DISABLED", "Account is disabled")
	default:
		applog.FromContext(c.Request.Context()).WithError(err).Error("booking request failed")
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
