package http

import (
	"net/http"

	"github.com/comitanigiacomo/kanso-fit/internal/core/services"
	"github.com/gin-gonic/gin"
)

type HabitHandler struct {
	svc *services.HabitService
}

func NewHabitHandler(svc *services.HabitService) *HabitHandler {
	return &HabitHandler{
		svc: svc,
	}
}

type createHabitRequest struct {
	Name string `json:"name" binding:"required"`
}

type habitToggleResponse struct {
	HabitID string `json:"habit_id"`
	Date    string `json:"date"`
	Done    bool   `json:"done"`
}

func (h *HabitHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits")
	{
		habits.POST("", h.Create)
		habits.GET("", h.List)
		habits.GET("/week", h.Week)
		habits.DELETE("/:id", h.Delete)
		habits.POST("/:id/toggle/:date", h.Toggle)
	}
}

// Create godoc
// @Summary      Add a daily habit
// @Tags         habits
// @Accept       json
// @Produce      json
// @Param        body  body      createHabitRequest  true  "Habit"
// @Success      201   {object}  domain.Habit
// @Failure      400
// @Security     BearerAuth
// @Router       /habits [post]
func (h *HabitHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	habit, err := h.svc.Create(c.Request.Context(), userID, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, habit)
}

// List godoc
// @Summary      List the user's habits
// @Tags         habits
// @Produce      json
// @Success      200  {array}  domain.Habit
// @Security     BearerAuth
// @Router       /habits [get]
func (h *HabitHandler) List(c *gin.Context) {
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

// Week godoc
// @Summary      Habit checkmarks for the week containing date
// @Tags         habits
// @Produce      json
// @Param        date  query     string  false  "Anchor date, defaults to today"
// @Success      200   {object}  domain.HabitWeek
// @Failure      400
// @Security     BearerAuth
// @Router       /habits/week [get]
func (h *HabitHandler) Week(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	week, err := h.svc.Week(c.Request.Context(), userID, c.Query("date"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, week)
}

// Toggle godoc
// @Summary      Flip a habit's checkmark for a date
// @Tags         habits
// @Produce      json
// @Param        id    path      string  true  "Habit ID"
// @Param        date  path      string  true  "YYYY-MM-DD"
// @Success      200   {object}  habitToggleResponse
// @Failure      400,404
// @Security     BearerAuth
// @Router       /habits/{id}/toggle/{date} [post]
func (h *HabitHandler) Toggle(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	habitID, date := c.Param("id"), c.Param("date")
	done, err := h.svc.Toggle(c.Request.Context(), userID, habitID, date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, habitToggleResponse{HabitID: habitID, Date: date, Done: done})
}

// Delete godoc
// @Summary      Remove a habit
// @Tags         habits
// @Param        id  path  string  true  "Habit ID"
// @Success      204
// @Failure      404
// @Security     BearerAuth
// @Router       /habits/{id} [delete]
func (h *HabitHandler) Delete(c *gin.Context) {
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
