package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/circle-leader-engine/internal/core/services"
)

type NoteHandler struct {
	svc *services.NoteService
}

func NewNoteHandler(svc *services.NoteService) *NoteHandler {
	return &NoteHandler{svc: svc}
}

type addNoteRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *NoteHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/leaders/:id/notes", h.Add)
	router.GET("/leaders/:id/notes", h.List)
	router.DELETE("/notes/:id", h.Delete)
}

// Add godoc
// @Summary  Add a note to a leader's timeline
// @Tags     notes
// @Accept   json
// @Produce  json
// @Param    X-User-ID header string         true "Forwarded user"
// @Param    id        path   string         true "Leader ID"
// @Param    note      body   addNoteRequest true "Note"
// @Success  201 {object} domain.Note
// @Router   /leaders/{id}/notes [post]
func (h *NoteHandler) Add(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req addNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	note, err := h.svc.Add(c.Request.Context(), c.Param("id"), userID, req.Content)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

func (h *NoteHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	notes, err := h.svc.ListByLeader(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

func (h *NoteHandler) Delete(c *gin.Context) {
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
