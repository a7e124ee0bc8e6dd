package catalog

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

/* ---------- PUBLIC ---------- */

func (h *Handler) ListLocations(c *gin.Context) {
	items, err := h.service.ListLocations(c.Request.Context(), true)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) GetLocation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	l, err := h.service.GetLocation(c.Request.Context(), id, true)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, l)
}

func (h *Handler) ListRooms(c *gin.Context) {
	f, ok := roomFilter(c)
	if !ok {
		return
	}
	f.ActiveOnly = true

	items, err := h.service.ListRooms(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) GetRoom(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	room, err := h.service.GetRoom(c.Request.Context(), id, true)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, room)
}

func (h *Handler) ListCombos(c *gin.Context) {
	items, err := h.service.ListCombos(c.Request.Context(), ComboFilter{
		RoomType:   RoomType(c.Query("room_type")),
		ActiveOnly: true,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

/* ---------- ADMIN ---------- */

func (h *Handler) AdminListLocations(c *gin.Context) {
	items, err := h.service.ListLocations(c.Request.Context(), false)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) CreateLocation(c *gin.Context) {
	var req CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Fields(err))
		return
	}
	l, err := h.service.CreateLocation(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, l)
}

func (h *Handler) UpdateLocation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Fields(err))
		return
	}
	l, err := h.service.UpdateLocation(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, l)
}

func (h *Handler) DeleteLocation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	res, err := h.service.DeleteLocation(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) AdminListRooms(c *gin.Context) {
	f, ok := roomFilter(c)
	if !ok {
		return
	}
	items, err := h.service.ListRooms(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Fields(err))
		return
	}
	room, err := h.service.CreateRoom(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, room)
}

func (h *Handler) UpdateRoom(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Fields(err))
		return
	}
	room, err := h.service.UpdateRoom(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, room)
}

func (h *Handler) DeleteRoom(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	res, err := h.service.DeleteRoom(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) AdminListCombos(c *gin.Context) {
	items, err := h.service.ListCombos(c.Request.Context(), ComboFilter{RoomType: RoomType(c.Query("room_type"))})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) CreateCombo(c *gin.Context) {
	var req CreateComboRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Fields(err))
		return
	}
	combo, err := h.service.CreateCombo(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, combo)
}

func (h *Handler) UpdateCombo(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateComboRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Fields(err))
		return
	}
	combo, err := h.service.UpdateCombo(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, combo)
}

func (h *Handler) DeleteCombo(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	res, err := h.service.DeleteCombo(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid ID")
		return 0, false
	}
	return id, true
}

func roomFilter(c *gin.Context) (RoomFilter, bool) {
	f := RoomFilter{Type: RoomType(c.Query("type"))}
	if v := c.Query("location_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "location_id must be a number")
			return f, false
		}
		f.LocationID = id
	}
	return f, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrLocationNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Location not found")
	case errors.Is(err, ErrRoomNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Room not found")
	case errors.Is(err, ErrComboNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Combo not found")
	case errors.Is(err, ErrInvalidClock), errors.Is(err, ErrInvalidHours),
		errors.Is(err, ErrInvalidRoomType), errors.Is(err, ErrInvalidPriceType),
		errors.Is(err, ErrInvalidPrice):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		applog.FromContext(c.Request.Context()).WithError(err).Error("catalog request failed")
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
