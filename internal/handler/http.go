package handler

import (
	"mime"
	"net/http"
	"strconv"

	"director-server/internal/export"
	"director-server/internal/models"
	"director-server/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DirectorHandler serves the session API.
type DirectorHandler struct {
	registry       *session.Registry
	allowedOrigins []string
	logger         *zap.Logger
}

// NewDirectorHandler creates a handler. allowedOrigins restricts websocket
// upgrades; an empty list accepts any origin.
func NewDirectorHandler(registry *session.Registry, allowedOrigins []string, logger *zap.Logger) *DirectorHandler {
	return &DirectorHandler{
		registry:       registry,
		allowedOrigins: allowedOrigins,
		logger:         logger.Named("DirectorHandler"),
	}
}

// RegisterRoutes registers the session routes on the router.
func (h *DirectorHandler) RegisterRoutes(router *gin.Engine) {
	sessions := router.Group("/sessions")
	{
		sessions.POST("", h.createSession)
		sessions.GET("/:id", h.getSession)
		sessions.DELETE("/:id", h.deleteSession)
		sessions.POST("/:id/submit", h.submit)
		sessions.POST("/:id/reset", h.reset)
		sessions.GET("/:id/export", h.exportScript)
		sessions.GET("/:id/cuts/:sequence", h.getCutDetails)
		sessions.GET("/:id/ws", h.serveSessionWS)
	}
}

func (h *DirectorHandler) createSession(c *gin.Context) {
	m := h.registry.Create()
	c.JSON(http.StatusCreated, toSessionDTO(m.Snapshot()))
}

func (h *DirectorHandler) getSession(c *gin.Context) {
	m, err := h.registry.Get(c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionDTO(m.Snapshot()))
}

func (h *DirectorHandler) deleteSession(c *gin.Context) {
	if err := h.registry.Delete(c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DirectorHandler) submit(c *gin.Context) {
	m, err := h.registry.Get(c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid submit request", zap.String("session_id", m.ID()), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Code: ErrCodeBadRequest, Message: "Invalid request body: " + err.Error()})
		return
	}

	requestID, err := m.Submit(req.Idea, req.CharacterName)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, SubmitResponse{
		SessionID: m.ID(),
		RequestID: requestID,
		Status:    session.StatusLoading,
	})
}

func (h *DirectorHandler) reset(c *gin.Context) {
	m, err := h.registry.Get(c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionDTO(m.Reset()))
}

func (h *DirectorHandler) exportScript(c *gin.Context) {
	resp, err := h.result(c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": export.FileName(resp.Title)}))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(export.Script(resp)))
}

func (h *DirectorHandler) getCutDetails(c *gin.Context) {
	sequence, err := strconv.Atoi(c.Param("sequence"))
	if err != nil || sequence < 1 {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Code: ErrCodeBadRequest, Message: "Cut sequence must be a positive integer"})
		return
	}

	resp, err := h.result(c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	cut, ok := resp.CutBySequence(sequence)
	if !ok {
		h.handleServiceError(c, models.ErrCutNotFound)
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(export.CutDetails(cut)))
}

// result returns the response held by a successful session.
func (h *DirectorHandler) result(id string) (*models.DirectorResponse, error) {
	m, err := h.registry.Get(id)
	if err != nil {
		return nil, err
	}
	s := m.Snapshot()
	if s.Status != session.StatusSuccess || s.Response == nil {
		return nil, models.ErrNoResult
	}
	return s.Response, nil
}
