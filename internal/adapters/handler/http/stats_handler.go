package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fit/internal/core/services"
)

type StatsHandler struct {
	svc *services.StatsService
}

func NewStatsHandler(svc *services.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard", h.Dashboard)
	r.GET("/stats", h.Period)
}

// Dashboard godoc
// @Summary      Today's plan, weekly goal and streak
// @Tags         stats
// @Produce      json
// @Success      200  {object}  domain.Dashboard
// @Security     BearerAuth
// @Router       /dashboard [get]
func (h *StatsHandler) Dashboard(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	dash, err := h.svc.Dashboard(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

// Period godoc
// @Summary      Totals and category breakdown of completed instances
// @Tags         stats
// @Produce      json
// @Param        range  query     string  false  "week (default), month or custom"
// @Param        start  query     string  false  "YYYY-MM-DD, custom range only"
// @Param        end    query     string  false  "YYYY-MM-DD, custom range only"
// @Success      200    {object}  domain.PeriodStats
// @Failure      400
// @Security     BearerAuth
// @Router       /stats [get]
func (h *StatsHandler) Period(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	start, err := optionalDate(c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start format, expected YYYY-MM-DD"})
		return
	}
	end, err := optionalDate(c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end format, expected YYYY-MM-DD"})
		return
	}

	stats, err := h.svc.Period(c.Request.Context(), services.PeriodInput{
		UserID: userID,
		Range:  domain.StatsRange(c.Query("range")),
		Start:  start,
		End:    end,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func optionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := domain.ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
