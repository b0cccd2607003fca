package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/circle-leader-engine/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/circle-leader-engine/internal/core/domain"
)

// DigestRunner queues today's digest for every recipient.
type DigestRunner interface {
	RunOnce(ctx context.Context) (int, error)
}

// LinkCompleter completes the to-do referenced by a signed digest link.
type LinkCompleter interface {
	CompleteFromLink(ctx context.Context, token string) (*domain.Todo, error)
}

type DigestHandler struct {
	runner     DigestRunner
	completer  LinkCompleter
	secretHash string
}

func NewDigestHandler(runner DigestRunner, completer LinkCompleter, cronSecretHash string) *DigestHandler {
	return &DigestHandler{
		runner:     runner,
		completer:  completer,
		secretHash: cronSecretHash,
	}
}

// RegisterRoutes mounts the digest endpoints. They are reached by the cron
// caller and by mail clients, so they never sit behind UserIdentity.
func (h *DigestHandler) RegisterRoutes(router *gin.RouterGroup) {
	digest := router.Group("/digest")
	{
		digest.POST("/run", middleware.CronSecret(h.secretHash), h.Run)
		digest.GET("/complete", h.Complete)
	}
}

// Run godoc
// @Summary  Queue today's digest for every opted-in user
// @Tags     digest
// @Produce  json
// @Param    X-Cron-Secret header string true "Shared cron secret"
// @Success  202 {object} map[string]int
// @Failure  401 {object} errorResponse
// @Router   /digest/run [post]
func (h *DigestHandler) Run(c *gin.Context) {
	queued, err := h.runner.RunOnce(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"queued": queued})
}

// Complete godoc
// @Summary  Mark a to-do done from a digest email link
// @Tags     digest
// @Produce  json
// @Param    token query string true "Signed action token"
// @Success  200 {object} domain.Todo
// @Failure  401 {object} errorResponse
// @Router   /digest/complete [get]
func (h *DigestHandler) Complete(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: domain.ErrInvalidLinkToken.Error()})
		return
	}

	todo, err := h.completer.CompleteFromLink(c.Request.Context(), token)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}
