package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lalith-99/huddle/internal/middleware"
	"github.com/lalith-99/huddle/internal/service"
)

type StandupHandler struct {
	svc    *service.Service
	logger *zap.Logger
}

func NewStandupHandler(svc *service.Service, logger *zap.Logger) *StandupHandler {
	return &StandupHandler{svc: svc, logger: logger}
}

type standupStartRequest struct {
	ChannelID int64 `json:"channel_id" binding:"required"`
	Length    int64 `json:"length"`
}

// Start handles POST /v1/standup/start
func (h *StandupHandler) Start(c *gin.Context) {
	var req standupStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	finish, err := h.svc.StandupStart(middleware.GetToken(c), req.ChannelID, req.Length)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"time_finish": finish})
}

// Active handles GET /v1/standup/active?channel_id=N
func (h *StandupHandler) Active(c *gin.Context) {
	status, err := h.svc.StandupActive(middleware.GetToken(c), queryInt64(c, "channel_id"))
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

type standupSendRequest struct {
	ChannelID int64  `json:"channel_id" binding:"required"`
	Message   string `json:"message"`
}

// Send handles POST /v1/standup/send
func (h *StandupHandler) Send(c *gin.Context) {
	var req standupSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.StandupSend(middleware.GetToken(c), req.ChannelID, req.Message); err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}
