package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lalith-99/huddle/internal/middleware"
	"github.com/lalith-99/huddle/internal/service"
)

type ChannelHandler struct {
	svc    *service.Service
	logger *zap.Logger
}

func NewChannelHandler(svc *service.Service, logger *zap.Logger) *ChannelHandler {
	return &ChannelHandler{svc: svc, logger: logger}
}

// queryInt64 parses a required int64 query parameter; -1 on failure.
func queryInt64(c *gin.Context, key string) int64 {
	v, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil {
		return -1
	}
	return v
}

type channelsCreateRequest struct {
	Name     string `json:"name"`
	IsPublic *bool  `json:"is_public" binding:"required"`
}

// Create handles POST /v1/channels/create
func (h *ChannelHandler) Create(c *gin.Context) {
	var req channelsCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.svc.ChannelsCreate(middleware.GetToken(c), req.Name, *req.IsPublic)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"channel_id": id})
}

// List handles GET /v1/channels/list
func (h *ChannelHandler) List(c *gin.Context) {
	channels, err := h.svc.ChannelsList(middleware.GetToken(c))
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"channels": channels})
}

// ListAll handles GET /v1/channels/listall
func (h *ChannelHandler) ListAll(c *gin.Context) {
	channels, err := h.svc.ChannelsListAll(middleware.GetToken(c))
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"channels": channels})
}

// Details handles GET /v1/channel/details?channel_id=N
func (h *ChannelHandler) Details(c *gin.Context) {
	details, err := h.svc.ChannelDetails(middleware.GetToken(c), queryInt64(c, "channel_id"))
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// Messages handles GET /v1/channel/messages?channel_id=N&start=M
func (h *ChannelHandler) Messages(c *gin.Context) {
	start, err := strconv.Atoi(c.DefaultQuery("start", "0"))
	if err != nil || start < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'start' parameter"})
		return
	}
	page, err := h.svc.ChannelMessages(middleware.GetToken(c), queryInt64(c, "channel_id"), start)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

type channelTargetRequest struct {
	ChannelID int64 `json:"channel_id" binding:"required"`
}

// Join handles POST /v1/channel/join
func (h *ChannelHandler) Join(c *gin.Context) {
	var req channelTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.ChannelJoin(middleware.GetToken(c), req.ChannelID); err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Leave handles POST /v1/channel/leave
func (h *ChannelHandler) Leave(c *gin.Context) {
	var req channelTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.ChannelLeave(middleware.GetToken(c), req.ChannelID); err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

type channelUserRequest struct {
	ChannelID int64 `json:"channel_id" binding:"required"`
	UserID    int64 `json:"u_id" binding:"required"`
}

// Invite handles POST /v1/channel/invite
func (h *ChannelHandler) Invite(c *gin.Context) {
	var req channelUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.ChannelInvite(middleware.GetToken(c), req.ChannelID, req.UserID); err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// AddOwner handles POST /v1/channel/addowner
func (h *ChannelHandler) AddOwner(c *gin.Context) {
	var req channelUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.ChannelAddOwner(middleware.GetToken(c), req.ChannelID, req.UserID); err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// RemoveOwner handles POST /v1/channel/removeowner
func (h *ChannelHandler) RemoveOwner(c *gin.Context) {
	var req channelUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.ChannelRemoveOwner(middleware.GetToken(c), req.ChannelID, req.UserID); err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}
