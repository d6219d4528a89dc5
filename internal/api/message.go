package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lalith-99/huddle/internal/middleware"
	"github.com/lalith-99/huddle/internal/service"
)

type MessageHandler struct {
	svc    *service.Service
	logger *zap.Logger
}

func NewMessageHandler(svc *service.Service, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{svc: svc, logger: logger}
}

type messageSendRequest struct {
	ChannelID int64  `json:"channel_id" binding:"required"`
	Message   string `json:"message"`
}

// Send handles POST /v1/message/send
func (h *MessageHandler) Send(c *gin.Context) {
	var req messageSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.svc.MessageSend(middleware.GetToken(c), req.ChannelID, req.Message)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message_id": id})
}

type messageSendDMRequest struct {
	DMID    int64  `json:"dm_id" binding:"required"`
	Message string `json:"message"`
}

// SendDM handles POST /v1/message/senddm
func (h *MessageHandler) SendDM(c *gin.Context) {
	var req messageSendDMRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.svc.MessageSendDM(middleware.GetToken(c), req.DMID, req.Message)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message_id": id})
}

type messageEditRequest struct {
	MessageID int64  `json:"message_id" binding:"required"`
	Message   string `json:"message"`
}

// Edit handles PUT /v1/message/edit
func (h *MessageHandler) Edit(c *gin.Context) {
	var req messageEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.MessageEdit(middleware.GetToken(c), req.MessageID, req.Message); err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Remove handles DELETE /v1/message/remove?message_id=N
func (h *MessageHandler) Remove(c *gin.Context) {
	if err := h.svc.MessageRemove(middleware.GetToken(c), queryInt64(c, "message_id")); err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

type messageShareRequest struct {
	OgMessageID int64  `json:"og_message_id" binding:"required"`
	Message     string `json:"message"`
	ChannelID   int64  `json:"channel_id"`
	DMID        int64  `json:"dm_id"`
}

// Share handles POST /v1/message/share
func (h *MessageHandler) Share(c *gin.Context) {
	var req messageShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.svc.MessageShare(middleware.GetToken(c), req.OgMessageID, req.Message, req.ChannelID, req.DMID)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shared_message_id": id})
}

type messageTargetRequest struct {
	MessageID int64 `json:"message_id" binding:"required"`
}

// Pin handles POST /v1/message/pin
func (h *MessageHandler) Pin(c *gin.Context) {
	var req messageTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.MessagePin(middleware.GetToken(c), req.MessageID); err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Unpin handles POST /v1/message/unpin
func (h *MessageHandler) Unpin(c *gin.Context) {
	var req messageTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.MessageUnpin(middleware.GetToken(c), req.MessageID); err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

type messageReactRequest struct {
	MessageID int64 `json:"message_id" binding:"required"`
	ReactID   int64 `json:"react_id" binding:"required"`
}

// React handles POST /v1/message/react
func (h *MessageHandler) React(c *gin.Context) {
	var req messageReactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.MessageReact(middleware.GetToken(c), req.MessageID, req.ReactID); err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Unreact handles POST /v1/message/unreact
func (h *MessageHandler) Unreact(c *gin.Context) {
	var req messageReactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.MessageUnreact(middleware.GetToken(c), req.MessageID, req.ReactID); err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

type messageSendLaterRequest struct {
	ChannelID int64  `json:"channel_id" binding:"required"`
	Message   string `json:"message"`
	TimeSent  int64  `json:"time_sent" binding:"required"`
}

// SendLater handles POST /v1/message/sendlater
func (h *MessageHandler) SendLater(c *gin.Context) {
	var req messageSendLaterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.svc.MessageSendLater(middleware.GetToken(c), req.ChannelID, req.Message, req.TimeSent)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message_id": id})
}

type messageSendLaterDMRequest struct {
	DMID     int64  `json:"dm_id" binding:"required"`
	Message  string `json:"message"`
	TimeSent int64  `json:"time_sent" binding:"required"`
}

// SendLaterDM handles POST /v1/message/sendlaterdm
func (h *MessageHandler) SendLaterDM(c *gin.Context) {
	var req messageSendLaterDMRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.svc.MessageSendLaterDM(middleware.GetToken(c), req.DMID, req.Message, req.TimeSent)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message_id": id})
}
