package http

import (
	"context"
	"net/http"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fit/internal/core/services"
	"github.com/gin-gonic/gin"
)

type TrackerHandler struct {
	svc *services.TrackerService
}

func NewTrackerHandler(svc *services.TrackerService) *TrackerHandler {
	return &TrackerHandler{svc: svc}
}

type assignRequest struct {
	ActivityID string `json:"activity_id" binding:"required"`
}

type statsRequest struct {
	Duration *float64 `json:"duration"`
	Distance *float64 `json:"distance"`
	Calories *float64 `json:"calories"`
}

func (r statsRequest) toDomain() domain.LogStats {
	return domain.LogStats{Duration: r.Duration, Distance: r.Distance, Calories: r.Calories}
}

type completionResponse struct {
	Date       string `json:"date"`
	InstanceID string `json:"instance_id"`
	Complete   bool   `json:"complete"`
}

func (h *TrackerHandler) RegisterRoutes(router *gin.RouterGroup) {
	schedule := router.Group("/schedule")
	{
		schedule.POST("/:date", h.Assign)
		schedule.DELETE("/:date/:instanceId", h.Unassign)
	}

	progress := router.Group("/progress/:date/:instanceId")
	{
		progress.POST("/exercises/:name/toggle", h.ToggleExercise)
		progress.POST("/toggle", h.ToggleInstance)
		progress.POST("/quick-complete", h.QuickComplete)
		progress.PUT("/stats", h.SaveStats)
	}

	router.GET("/days/:date", h.Day)
	router.GET("/calendar", h.Calendar)
}

// Assign godoc
// @Summary      Schedule an activity on a date
// @Tags         schedule
// @Accept       json
// @Produce      json
// @Param        date  path      string         true  "YYYY-MM-DD"
// @Param        body  body      assignRequest  true  "Activity"
// @Success      201   {object}  domain.ScheduledInstance
// @Failure      400,404
// @Security     BearerAuth
// @Router       /schedule/{date} [post]
func (h *TrackerHandler) Assign(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inst, err := h.svc.Assign(c.Request.Context(), userID, c.Param("date"), req.ActivityID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inst)
}

// Unassign godoc
// @Summary      Remove a scheduled instance with its progress and log
// @Tags         schedule
// @Param        date        path  string  true  "YYYY-MM-DD"
// @Param        instanceId  path  string  true  "Instance ID"
// @Success      204
// @Failure      404
// @Security     BearerAuth
// @Router       /schedule/{date}/{instanceId} [delete]
func (h *TrackerHandler) Unassign(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.svc.Unassign(c.Request.Context(), userID, c.Param("date"), c.Param("instanceId")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleExercise godoc
// @Summary      Check or uncheck one exercise of an instance
// @Description  Stats in the optional body are stored when the toggle completes the instance.
// @Tags         progress
// @Accept       json
// @Produce      json
// @Param        date        path      string        true   "YYYY-MM-DD"
// @Param        instanceId  path      string        true   "Instance ID"
// @Param        name        path      string        true   "Exercise name"
// @Param        body        body      statsRequest  false  "Stats"
// @Success      200         {object}  completionResponse
// @Failure      400,404
// @Security     BearerAuth
// @Router       /progress/{date}/{instanceId}/exercises/{name}/toggle [post]
func (h *TrackerHandler) ToggleExercise(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req statsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	date, instanceID := c.Param("date"), c.Param("instanceId")
	complete, err := h.svc.ToggleExercise(c.Request.Context(), services.ToggleExerciseInput{
		UserID:     userID,
		Date:       date,
		InstanceID: instanceID,
		Exercise:   c.Param("name"),
		Stats:      req.toDomain(),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, completionResponse{Date: date, InstanceID: instanceID, Complete: complete})
}

// ToggleInstance godoc
// @Summary      Check or uncheck every exercise of an instance at once
// @Tags         progress
// @Produce      json
// @Param        date        path      string  true  "YYYY-MM-DD"
// @Param        instanceId  path      string  true  "Instance ID"
// @Success      200         {object}  completionResponse
// @Failure      400,404
// @Security     BearerAuth
// @Router       /progress/{date}/{instanceId}/toggle [post]
func (h *TrackerHandler) ToggleInstance(c *gin.Context) {
	h.completion(c, h.svc.ToggleInstance)
}

// QuickComplete godoc
// @Summary      Toggle an instance that has no exercises
// @Tags         progress
// @Produce      json
// @Param        date        path      string  true  "YYYY-MM-DD"
// @Param        instanceId  path      string  true  "Instance ID"
// @Success      200         {object}  completionResponse
// @Failure      400,404
// @Security     BearerAuth
// @Router       /progress/{date}/{instanceId}/quick-complete [post]
func (h *TrackerHandler) QuickComplete(c *gin.Context) {
	h.completion(c, h.svc.QuickComplete)
}

func (h *TrackerHandler) completion(c *gin.Context, toggle func(ctx context.Context, userID, date, instanceID string) (bool, error)) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	date, instanceID := c.Param("date"), c.Param("instanceId")
	complete, err := toggle(c.Request.Context(), userID, date, instanceID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, completionResponse{Date: date, InstanceID: instanceID, Complete: complete})
}

// SaveStats godoc
// @Summary      Record duration, distance and calories of a completed instance
// @Tags         progress
// @Accept       json
// @Produce      json
// @Param        date        path      string        true  "YYYY-MM-DD"
// @Param        instanceId  path      string        true  "Instance ID"
// @Param        body        body      statsRequest  true  "Stats"
// @Success      200         {object}  domain.LogEntry
// @Failure      400,404,409
// @Security     BearerAuth
// @Router       /progress/{date}/{instanceId}/stats [put]
func (h *TrackerHandler) SaveStats(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req statsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.svc.SaveStats(c.Request.Context(), userID, c.Param("date"), c.Param("instanceId"), req.toDomain())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Day godoc
// @Summary      Scheduled instances of one date with their progress
// @Tags         calendar
// @Produce      json
// @Param        date  path      string  true  "YYYY-MM-DD"
// @Success      200   {object}  domain.DayView
// @Failure      400
// @Security     BearerAuth
// @Router       /days/{date} [get]
func (h *TrackerHandler) Day(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	view, err := h.svc.Day(c.Request.Context(), userID, c.Param("date"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Calendar godoc
// @Summary      Month or week grid of day summaries
// @Tags         calendar
// @Produce      json
// @Param        view  query     string  false  "month (default) or week"
// @Param        date  query     string  false  "Anchor date, defaults to today"
// @Success      200   {array}   domain.DayView
// @Failure      400
// @Security     BearerAuth
// @Router       /calendar [get]
func (h *TrackerHandler) Calendar(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	days, err := h.svc.Calendar(c.Request.Context(), userID, c.Query("view"), c.Query("date"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, days)
}
