package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/circle-leader-engine/internal/core/domain"
	"github.com/comitanigiacomo/circle-leader-engine/internal/core/services"
)

type LeaderHandler struct {
	svc *services.LeaderService
}

func NewLeaderHandler(svc *services.LeaderService) *LeaderHandler {
	return &LeaderHandler{svc: svc}
}

type createLeaderRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Campus      string `json:"campus"`
	CircleType  string `json:"circle_type"`
	MeetingDay  string `json:"meeting_day"`
	MeetingTime string `json:"meeting_time"`
	Frequency   string `json:"frequency"`
	Status      string `json:"status"`
}

type updateLeaderRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Campus      string `json:"campus"`
	CircleType  string `json:"circle_type"`
	MeetingDay  string `json:"meeting_day"`
	MeetingTime string `json:"meeting_time"`
	Frequency   string `json:"frequency"`
	Version     int    `json:"version"`
}

type changeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type dateRequest struct {
	Date string `json:"date"`
}

func (h *LeaderHandler) RegisterRoutes(router *gin.RouterGroup) {
	leaders := router.Group("/leaders")
	{
		leaders.POST("", h.Create)
		leaders.GET("", h.List)
		leaders.GET("/:id", h.Get)
		leaders.PUT("/:id", h.Update)
		leaders.DELETE("/:id", h.Delete)
		leaders.POST("/:id/status", h.ChangeStatus)
		leaders.PUT("/:id/follow-up", h.SetFollowUp)
		leaders.DELETE("/:id/follow-up", h.ClearFollowUp)
		leaders.POST("/:id/attendance", h.RecordAttendance)
	}
	router.GET("/follow-ups", h.FollowUpsDue)
}

// Create godoc
// @Summary  Add a circle leader
// @Tags     leaders
// @Accept   json
// @Produce  json
// @Param    X-User-ID header string              true "Forwarded user"
// @Param    leader    body   createLeaderRequest true "Leader"
// @Success  201 {object} domain.CircleLeader
// @Failure  400 {object} errorResponse
// @Router   /leaders [post]
func (h *LeaderHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req createLeaderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	leader, err := h.svc.Create(c.Request.Context(), services.CreateLeaderInput{
		OwnerID:     userID,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Campus:      req.Campus,
		CircleType:  req.CircleType,
		MeetingDay:  req.MeetingDay,
		MeetingTime: req.MeetingTime,
		Frequency:   req.Frequency,
		Status:      req.Status,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, leader)
}

// List godoc
// @Summary  List circle leaders
// @Tags     leaders
// @Produce  json
// @Param    X-User-ID header string true  "Forwarded user"
// @Param    campus    query  string false "Campus (case-insensitive)"
// @Param    status    query  string false "Status"
// @Param    q         query  string false "Name or email search"
// @Param    follow_up query  bool   false "Only leaders flagged for follow-up"
// @Success  200 {array} domain.CircleLeader
// @Router   /leaders [get]
func (h *LeaderHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	followUp, _ := strconv.ParseBool(c.Query("follow_up"))
	filter := domain.LeaderFilter{
		Campus:       c.Query("campus"),
		Status:       domain.LeaderStatus(c.Query("status")),
		Search:       c.Query("q"),
		FollowUpOnly: followUp,
	}

	leaders, err := h.svc.List(c.Request.Context(), userID, filter)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, leaders)
}

func (h *LeaderHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	leader, err := h.svc.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, leader)
}

// Update godoc
// @Summary  Update leader details
// @Tags     leaders
// @Accept   json
// @Produce  json
// @Param    X-User-ID header string              true "Forwarded user"
// @Param    id        path   string              true "Leader ID"
// @Param    leader    body   updateLeaderRequest true "Changed fields"
// @Success  200 {object} domain.CircleLeader
// @Failure  409 {object} errorResponse
// @Router   /leaders/{id} [put]
func (h *LeaderHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req updateLeaderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	leader, err := h.svc.Update(c.Request.Context(), services.UpdateLeaderInput{
		ID:          c.Param("id"),
		OwnerID:     userID,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Campus:      req.Campus,
		CircleType:  req.CircleType,
		MeetingDay:  req.MeetingDay,
		MeetingTime: req.MeetingTime,
		Frequency:   req.Frequency,
		Version:     req.Version,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, leader)
}

func (h *LeaderHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ChangeStatus godoc
// @Summary  Move a leader to another status
// @Tags     leaders
// @Accept   json
// @Produce  json
// @Param    X-User-ID header string              true "Forwarded user"
// @Param    id        path   string              true "Leader ID"
// @Param    status    body   changeStatusRequest true "New status"
// @Success  200 {object} domain.CircleLeader
// @Failure  409 {object} errorResponse "Status unchanged"
// @Router   /leaders/{id}/status [post]
func (h *LeaderHandler) ChangeStatus(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	leader, err := h.svc.ChangeStatus(c.Request.Context(), c.Param("id"), userID, domain.LeaderStatus(req.Status))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, leader)
}

func (h *LeaderHandler) SetFollowUp(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		handleError(c, err)
		return
	}

	leader, err := h.svc.SetFollowUp(c.Request.Context(), c.Param("id"), userID, date)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, leader)
}

func (h *LeaderHandler) ClearFollowUp(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	leader, err := h.svc.ClearFollowUp(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, leader)
}

// RecordAttendance accepts an optional date; without one today is recorded.
func (h *LeaderHandler) RecordAttendance(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
	}
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		handleError(c, err)
		return
	}

	leader, err := h.svc.RecordAttendance(c.Request.Context(), c.Param("id"), userID, date)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, leader)
}

// FollowUpsDue godoc
// @Summary  Leaders whose follow-up is due today or earlier
// @Tags     leaders
// @Produce  json
// @Param    X-User-ID header string true "Forwarded user"
// @Success  200 {array} domain.CircleLeader
// @Router   /follow-ups [get]
func (h *LeaderHandler) FollowUpsDue(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	leaders, err := h.svc.FollowUpsDue(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, leaders)
}
