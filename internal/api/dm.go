package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lalith-99/huddle/internal/middleware"
	"github.com/lalith-99/huddle/internal/service"
)

type DMHandler struct {
	svc    *service.Service
	logger *zap.Logger
}

func NewDMHandler(svc *service.Service, logger *zap.Logger) *DMHandler {
	return &DMHandler{svc: svc, logger: logger}
}

type dmCreateRequest struct {
	UserIDs []int64 `json:"u_ids"`
}

// Create handles POST /v1/dm/create
func (h *DMHandler) Create(c *gin.Context) {
	var req dmCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.svc.DMCreate(middleware.GetToken(c), req.UserIDs)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// List handles GET /v1/dm/list
func (h *DMHandler) List(c *gin.Context) {
	dms, err := h.svc.DMList(middleware.GetToken(c))
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dms": dms})
}

// Details handles GET /v1/dm/details?dm_id=N
func (h *DMHandler) Details(c *gin.Context) {
	details, err := h.svc.DMDetails(middleware.GetToken(c), queryInt64(c, "dm_id"))
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// Messages handles GET /v1/dm/messages?dm_id=N&start=M
func (h *DMHandler) Messages(c *gin.Context) {
	start, err := strconv.Atoi(c.DefaultQuery("start", "0"))
	if err != nil || start < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'start' parameter"})
		return
	}
	page, err := h.svc.DMMessages(middleware.GetToken(c), queryInt64(c, "dm_id"), start)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

type dmUserRequest struct {
	DMID   int64 `json:"dm_id" binding:"required"`
	UserID int64 `json:"u_id" binding:"required"`
}

// Invite handles POST /v1/dm/invite
func (h *DMHandler) Invite(c *gin.Context) {
	var req dmUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.DMInvite(middleware.GetToken(c), req.DMID, req.UserID); err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

type dmTargetRequest struct {
	DMID int64 `json:"dm_id" binding:"required"`
}

// Leave handles POST /v1/dm/leave
func (h *DMHandler) Leave(c *gin.Context) {
	var req dmTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.DMLeave(middleware.GetToken(c), req.DMID); err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Remove handles DELETE /v1/dm/remove?dm_id=N
func (h *DMHandler) Remove(c *gin.Context) {
	if err := h.svc.DMRemove(middleware.GetToken(c), queryInt64(c, "dm_id")); err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}
