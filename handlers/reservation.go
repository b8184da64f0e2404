package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"parkhive/services/reservation"
	"parkhive/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// availabilityCache is the slice of redis backing the short-lived
// availability response cache. Satisfied by *redis.Client.
type availabilityCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Keys(ctx context.Context, pattern string) *redis.StringSliceCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// ReservationHandler exposes the reservation engine over HTTP.
type ReservationHandler struct {
	Service reservation.ReservationService
	Cache   availabilityCache
	Logger  *zap.Logger
}

// NewReservationHandler creates a ReservationHandler.
func NewReservationHandler(svc reservation.ReservationService, cache availabilityCache, logger *zap.Logger) *ReservationHandler {
	return &ReservationHandler{Service: svc, Cache: cache, Logger: logger}
}

type schedulePayload struct {
	Slot      int    `json:"slot" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	Date      string `json:"date" binding:"required"`
}

// Reserve handles POST /api/parking/reserve.
func (h *ReservationHandler) Reserve(c *gin.Context) {
	var input schedulePayload
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	email := c.GetString("userEmail")
	res, err := h.Service.Reserve(input.Slot, input.StartTime, input.EndTime, input.Date, email)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	h.invalidateAvailability()
	c.JSON(http.StatusCreated, res)
}

// Update handles PUT /api/parking/reservation.
func (h *ReservationHandler) Update(c *gin.Context) {
	var input struct {
		ID string `json:"id" binding:"required"`
		schedulePayload
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	email := c.GetString("userEmail")
	res, err := h.Service.Update(input.ID, email, input.Slot, input.StartTime, input.EndTime, input.Date)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	h.invalidateAvailability()
	c.JSON(http.StatusOK, res)
}

// Cancel handles DELETE /api/parking/reservation.
func (h *ReservationHandler) Cancel(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "missing reservation id")
		return
	}

	email := c.GetString("userEmail")
	if err := h.Service.Cancel(id, email); err != nil {
		h.respondServiceError(c, err)
		return
	}

	h.invalidateAvailability()
	c.Status(http.StatusNoContent)
}

// AdminDelete handles DELETE /api/parking/admin/reservation/:id.
func (h *ReservationHandler) AdminDelete(c *gin.Context) {
	id := c.Param("id")
	if err := h.Service.AdminDelete(id); err != nil {
		h.respondServiceError(c, err)
		return
	}

	h.invalidateAvailability()
	c.Status(http.StatusNoContent)
}

// Verify handles POST /api/parking/verify. A failed match is an expected
// outcome and reported with 200, not an error status.
func (h *ReservationHandler) Verify(c *gin.Context) {
	var input schedulePayload
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	res, found, err := h.Service.Verify(input.Slot, input.StartTime, input.EndTime, input.Date)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusOK, gin.H{"verified": false, "message": "Reservation was not successful, Please try again"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"verified": true, "reservation": res})
}

// GetStatus handles GET /api/parking/status.
func (h *ReservationHandler) GetStatus(c *gin.Context) {
	var input struct {
		Slot      int    `form:"slot" binding:"required"`
		StartTime string `form:"startTime" binding:"required"`
		EndTime   string `form:"endTime" binding:"required"`
		Date      string `form:"date" binding:"required"`
	}
	if err := c.ShouldBindQuery(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	res, err := h.Service.GetStatus(input.Slot, input.StartTime, input.EndTime, input.Date)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// GetUserReservations handles GET /api/parking/user/reservations.
func (h *ReservationHandler) GetUserReservations(c *gin.Context) {
	email := c.GetString("userEmail")
	reservations, err := h.Service.GetAllForUser(email)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservations)
}

// GetAllReservations handles GET /api/parking/admin/reservations.
func (h *ReservationHandler) GetAllReservations(c *gin.Context) {
	reservations, err := h.Service.GetAll()
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservations)
}

// AvailableSlots handles GET /api/parking/available.
func (h *ReservationHandler) AvailableSlots(c *gin.Context) {
	startTime := c.Query("startTime")
	endTime := c.Query("endTime")
	date := c.Query("date")
	if startTime == "" || endTime == "" || date == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "startTime, endTime and date are required")
		return
	}

	// Availability is read often around popular windows; serve a short-lived
	// cached copy when one exists. Mutations drop these entries, so a cache
	// hit never reports a slot freed or taken by an earlier request.
	ctx := context.Background()
	cacheKey := fmt.Sprintf("available:%s:%s:%s", date, startTime, endTime)
	if h.Cache != nil {
		if cached, err := h.Cache.Get(ctx, cacheKey).Result(); err == nil {
			var slots []int
			if err := json.Unmarshal([]byte(cached), &slots); err == nil {
				c.JSON(http.StatusOK, gin.H{"availableSlots": slots})
				return
			}
		}
	}

	slots, err := h.Service.AvailableSlots(startTime, endTime, date)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	if h.Cache != nil {
		if data, err := json.Marshal(slots); err == nil {
			h.Cache.Set(ctx, cacheKey, data, 5*time.Second)
		}
	}

	c.JSON(http.StatusOK, gin.H{"availableSlots": slots})
}

// invalidateAvailability drops all cached availability responses after a
// mutation. The keyspace is at most a handful of short-lived entries, so a
// full sweep is cheaper than tracking which dates a mutation touched.
func (h *ReservationHandler) invalidateAvailability() {
	if h.Cache == nil {
		return
	}
	ctx := context.Background()
	keys, err := h.Cache.Keys(ctx, "available:*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	h.Cache.Del(ctx, keys...)
}

// respondServiceError maps a typed engine failure to an HTTP response.
func (h *ReservationHandler) respondServiceError(c *gin.Context, err error) {
	switch {
	case reservation.HasCode(err, reservation.CodeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case reservation.HasCode(err, reservation.CodeSlotConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case reservation.HasCode(err, reservation.CodeInvalidSchedule),
		reservation.HasCode(err, reservation.CodeInvalidSlot),
		reservation.HasCode(err, reservation.CodeInvalidSchedulingWindow):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.Logger.Error("Reservation request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
