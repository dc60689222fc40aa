package http

import (
	"net/http"

	"github.com/comitanigiacomo/kanso-fit/internal/core/services"
	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	svc       *services.ActivityService
	exercises *services.ExerciseService
}

func NewActivityHandler(svc *services.ActivityService, exercises *services.ExerciseService) *ActivityHandler {
	return &ActivityHandler{
		svc:       svc,
		exercises: exercises,
	}
}

type createActivityRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Category    string   `json:"category"`
	ExerciseIDs []string `json:"exercise_ids"`
}

type updateActivityRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Category    string   `json:"category"`
	ExerciseIDs []string `json:"exercise_ids"`
	Version     int      `json:"version"`
}

type createExerciseRequest struct {
	Name     string `json:"name" binding:"required"`
	Details  string `json:"details" binding:"required"`
	Category string `json:"category" binding:"required"`
}

func (h *ActivityHandler) RegisterRoutes(router *gin.RouterGroup) {
	activities := router.Group("/activities")
	{
		activities.POST("", h.Create)
		activities.GET("", h.List)
		activities.PUT("/:id", h.Update)
		activities.DELETE("/:id", h.Delete)
	}

	exercises := router.Group("/exercises")
	{
		exercises.GET("", h.ListExercises)
		exercises.POST("", h.CreateExercise)
	}
}

// Create godoc
// @Summary      Add an activity to the user's collection
// @Tags         activities
// @Accept       json
// @Produce      json
// @Param        body  body      createActivityRequest  true  "Activity"
// @Success      201   {object}  domain.Activity
// @Failure      400
// @Security     BearerAuth
// @Router       /activities [post]
func (h *ActivityHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req createActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	activity, err := h.svc.Create(c.Request.Context(), services.CreateActivityInput{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Category:    req.Category,
		ExerciseIDs: req.ExerciseIDs,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, activity)
}

// List godoc
// @Summary      List the user's activities
// @Tags         activities
// @Produce      json
// @Success      200  {array}  domain.Activity
// @Security     BearerAuth
// @Router       /activities [get]
func (h *ActivityHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	list, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// Update godoc
// @Summary      Edit an activity
// @Description  Empty fields keep their value. Omitting exercise_ids keeps the exercises.
// @Tags         activities
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "Activity ID"
// @Param        body  body      updateActivityRequest  true  "Changes"
// @Success      200   {object}  domain.Activity
// @Failure      400,404,409
// @Security     BearerAuth
// @Router       /activities/{id} [put]
func (h *ActivityHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req updateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	activity, err := h.svc.Update(c.Request.Context(), services.UpdateActivityInput{
		ID:          c.Param("id"),
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Category:    req.Category,
		ExerciseIDs: req.ExerciseIDs,
		Version:     req.Version,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, activity)
}

// Delete godoc
// @Summary      Delete an activity and every scheduled instance of it
// @Tags         activities
// @Param        id  path  string  true  "Activity ID"
// @Success      204
// @Failure      404
// @Security     BearerAuth
// @Router       /activities/{id} [delete]
func (h *ActivityHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListExercises godoc
// @Summary      List the master exercise library plus the user's own exercises
// @Tags         exercises
// @Produce      json
// @Success      200  {array}  domain.Exercise
// @Security     BearerAuth
// @Router       /exercises [get]
func (h *ActivityHandler) ListExercises(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	list, err := h.exercises.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// CreateExercise godoc
// @Summary      Add a custom exercise
// @Tags         exercises
// @Accept       json
// @Produce      json
// @Param        body  body      createExerciseRequest  true  "Exercise"
// @Success      201   {object}  domain.Exercise
// @Failure      400,409
// @Security     BearerAuth
// @Router       /exercises [post]
func (h *ActivityHandler) CreateExercise(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req createExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exercise, err := h.exercises.Create(c.Request.Context(), services.CreateExerciseInput{
		UserID:   userID,
		Name:     req.Name,
		Details:  req.Details,
		Category: req.Category,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exercise)
}
