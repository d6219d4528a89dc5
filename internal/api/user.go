package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lalith-99/huddle/internal/middleware"
	"github.com/lalith-99/huddle/internal/service"
)

type UserHandler struct {
	svc    *service.Service
	logger *zap.Logger
}

func NewUserHandler(svc *service.Service, logger *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, logger: logger}
}

// Profile handles GET /v1/user/profile?u_id=N
func (h *UserHandler) Profile(c *gin.Context) {
	profile, err := h.svc.UserProfile(middleware.GetToken(c), queryInt64(c, "u_id"))
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": profile})
}

type setNameRequest struct {
	NameFirst string `json:"name_first"`
	NameLast  string `json:"name_last"`
}

// SetName handles PUT /v1/user/profile/setname
func (h *UserHandler) SetName(c *gin.Context) {
	var req setNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.UserSetName(middleware.GetToken(c), req.NameFirst, req.NameLast); err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

type setEmailRequest struct {
	Email string `json:"email"`
}

// SetEmail handles PUT /v1/user/profile/setemail
func (h *UserHandler) SetEmail(c *gin.Context) {
	var req setEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.UserSetEmail(middleware.GetToken(c), req.Email); err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

type setHandleRequest struct {
	HandleStr string `json:"handle_str"`
}

// SetHandle handles PUT /v1/user/profile/sethandle
func (h *UserHandler) SetHandle(c *gin.Context) {
	var req setHandleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.UserSetHandle(middleware.GetToken(c), req.HandleStr); err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// All handles GET /v1/users/all
func (h *UserHandler) All(c *gin.Context) {
	users, err := h.svc.UsersAll(middleware.GetToken(c))
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// Stats handles GET /v1/user/stats
func (h *UserHandler) Stats(c *gin.Context) {
	stats, err := h.svc.UserStats(middleware.GetToken(c))
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_stats": stats})
}

// SystemStats handles GET /v1/users/stats
func (h *UserHandler) SystemStats(c *gin.Context) {
	stats, err := h.svc.UsersStats(middleware.GetToken(c))
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workspace_stats": stats})
}

// Notifications handles GET /v1/notifications
func (h *UserHandler) Notifications(c *gin.Context) {
	notifications, err := h.svc.Notifications(middleware.GetToken(c))
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// Search handles GET /v1/search?query_str=...
func (h *UserHandler) Search(c *gin.Context) {
	messages, err := h.svc.Search(middleware.GetToken(c), c.Query("query_str"))
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
