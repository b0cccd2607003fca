package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/circle-leader-engine/internal/core/services"
)

type ScorecardHandler struct {
	svc *services.ScorecardService
}

func NewScorecardHandler(svc *services.ScorecardService) *ScorecardHandler {
	return &ScorecardHandler{svc: svc}
}

type recordScorecardRequest struct {
	ScoredDate string `json:"scored_date"`
	Reach      *int   `json:"reach"`
	Connect    *int   `json:"connect"`
	Disciple   *int   `json:"disciple"`
	Develop    *int   `json:"develop"`
	Notes      string `json:"notes"`
}

func (h *ScorecardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/leaders/:id/scorecards", h.Record)
	router.GET("/leaders/:id/scorecards", h.List)
	router.GET("/leaders/:id/trends", h.Trends)
}

// Record godoc
// @Summary  Record a scorecard rating (1-5 per dimension)
// @Tags     scorecards
// @Accept   json
// @Produce  json
// @Param    X-User-ID header string                 true "Forwarded user"
// @Param    id        path   string                 true "Leader ID"
// @Param    rating    body   recordScorecardRequest true "Scores; scored_date defaults to today"
// @Success  201 {object} domain.ScorecardRating
// @Failure  400 {object} errorResponse
// @Router   /leaders/{id}/scorecards [post]
func (h *ScorecardHandler) Record(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req recordScorecardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	scoredDate, err := parseOptionalDate(req.ScoredDate)
	if err != nil {
		handleError(c, err)
		return
	}

	rating, err := h.svc.Record(c.Request.Context(), services.RecordScorecardInput{
		LeaderID:   c.Param("id"),
		UserID:     userID,
		ScoredDate: scoredDate,
		Reach:      req.Reach,
		Connect:    req.Connect,
		Disciple:   req.Disciple,
		Develop:    req.Develop,
		Notes:      req.Notes,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rating)
}

func (h *ScorecardHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	ratings, err := h.svc.ListByLeader(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, ratings)
}

// Trends godoc
// @Summary  Weekly trend report per dimension
// @Tags     scorecards
// @Produce  json
// @Param    X-User-ID       header string true  "Forwarded user"
// @Param    id              path   string true  "Leader ID"
// @Param    max_weeks       query  int    false "Keep only the most recent N weeks"
// @Param    include_current query  bool   false "Include the week still in progress"
// @Success  200 {object} domain.WeeklyTrends
// @Router   /leaders/{id}/trends [get]
func (h *ScorecardHandler) Trends(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	maxWeeks := 0
	if raw := c.Query("max_weeks"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			badRequest(c, "max_weeks must be a non-negative integer")
			return
		}
		maxWeeks = n
	}
	includeCurrent, _ := strconv.ParseBool(c.Query("include_current"))

	trends, err := h.svc.Trends(c.Request.Context(), services.TrendsInput{
		LeaderID:           c.Param("id"),
		UserID:             userID,
		MaxWeeks:           maxWeeks,
		IncludeCurrentWeek: includeCurrent,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, trends)
}
