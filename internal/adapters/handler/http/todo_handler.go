package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/circle-leader-engine/internal/core/domain"
	"github.com/comitanigiacomo/circle-leader-engine/internal/core/services"
)

type TodoHandler struct {
	svc *services.TodoService
}

func NewTodoHandler(svc *services.TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

type createTodoRequest struct {
	Text           string  `json:"text" binding:"required"`
	LeaderID       *string `json:"leader_id"`
	DueDate        string  `json:"due_date"`
	RepeatRule     string  `json:"repeat_rule"`
	RepeatInterval int     `json:"repeat_interval"`
	RepeatUntil    string  `json:"repeat_until"`
}

type createTodoResponse struct {
	Todo        *domain.Todo `json:"todo"`
	Occurrences int          `json:"occurrences"`
	RepeatLabel string       `json:"repeat_label,omitempty"`
}

type previewResponse struct {
	Dates       []string `json:"dates"`
	RepeatLabel string   `json:"repeat_label"`
}

func (h *TodoHandler) RegisterRoutes(router *gin.RouterGroup) {
	todos := router.Group("/todos")
	{
		todos.POST("", h.Create)
		todos.GET("", h.List)
		todos.GET("/due", h.Due)
		todos.GET("/preview", h.Preview)
		todos.POST("/:id/complete", h.Complete)
		todos.POST("/:id/reopen", h.Reopen)
		todos.DELETE("/:id", h.Delete)
	}
}

func optionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create godoc
// @Summary  Create a to-do, optionally recurring
// @Description A repeat_rule turns the to-do into a series; its occurrences up to
// @Description repeat_until (default one year) are created with it.
// @Tags     todos
// @Accept   json
// @Produce  json
// @Param    X-User-ID header string            true "Forwarded user"
// @Param    todo      body   createTodoRequest true "To-do"
// @Success  201 {object} createTodoResponse
// @Failure  400 {object} errorResponse
// @Router   /todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req createTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	due, err := optionalDate(req.DueDate)
	if err != nil {
		handleError(c, err)
		return
	}
	until, err := optionalDate(req.RepeatUntil)
	if err != nil {
		handleError(c, err)
		return
	}

	created, err := h.svc.Create(c.Request.Context(), services.CreateTodoInput{
		UserID:         userID,
		Text:           req.Text,
		LeaderID:       req.LeaderID,
		DueDate:        due,
		RepeatRule:     req.RepeatRule,
		RepeatInterval: req.RepeatInterval,
		RepeatUntil:    until,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, createTodoResponse{
		Todo:        created[0],
		Occurrences: len(created) - 1,
		RepeatLabel: created[0].RepeatLabel(),
	})
}

func (h *TodoHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	includeCompleted, _ := strconv.ParseBool(c.Query("include_completed"))
	todos, err := h.svc.List(c.Request.Context(), userID, includeCompleted)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, todos)
}

// Due godoc
// @Summary  Overdue and due-today to-dos
// @Tags     todos
// @Produce  json
// @Param    X-User-ID header string true "Forwarded user"
// @Success  200 {object} services.DueTodos
// @Router   /todos/due [get]
func (h *TodoHandler) Due(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	due, err := h.svc.Due(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, due)
}

// Preview godoc
// @Summary  Preview the due dates a repeat rule would generate
// @Tags     todos
// @Produce  json
// @Param    start    query string true  "First due date (YYYY-MM-DD)"
// @Param    rule     query string true  "daily, weekly, monthly or yearly"
// @Param    interval query int    false "Repeat every N units (default 1)"
// @Param    until    query string true  "Horizon, inclusive (YYYY-MM-DD)"
// @Success  200 {object} previewResponse
// @Router   /todos/preview [get]
func (h *TodoHandler) Preview(c *gin.Context) {
	interval := 1
	if raw := c.Query("interval"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "interval must be an integer")
			return
		}
		interval = n
	}

	dates, label, err := h.svc.PreviewDueDates(c.Query("start"), c.Query("rule"), interval, c.Query("until"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, previewResponse{Dates: dates, RepeatLabel: label})
}

func (h *TodoHandler) Complete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	todo, err := h.svc.Complete(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

func (h *TodoHandler) Reopen(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	todo, err := h.svc.Reopen(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// Delete godoc
// @Summary  Delete a to-do
// @Tags     todos
// @Param    X-User-ID header string true  "Forwarded user"
// @Param    id        path   string true  "To-do ID"
// @Param    series    query  bool   false "Also delete the open occurrences that follow"
// @Success  200 {object} map[string]int
// @Router   /todos/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	series, _ := strconv.ParseBool(c.Query("series"))
	deleted, err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID, series)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
