package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lalith-99/huddle/internal/middleware"
	"github.com/lalith-99/huddle/internal/models"
	"github.com/lalith-99/huddle/internal/service"
)

type AdminHandler struct {
	svc    *service.Service
	logger *zap.Logger
}

func NewAdminHandler(svc *service.Service, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, logger: logger}
}

type changePermissionRequest struct {
	UserID       int64 `json:"u_id" binding:"required"`
	PermissionID int64 `json:"permission_id" binding:"required"`
}

// ChangePermission handles POST /v1/admin/userpermission/change
func (h *AdminHandler) ChangePermission(c *gin.Context) {
	var req changePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.svc.AdminChangePermission(middleware.GetToken(c), req.UserID, models.Permission(req.PermissionID))
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// RemoveUser handles DELETE /v1/admin/user/remove?u_id=N
func (h *AdminHandler) RemoveUser(c *gin.Context) {
	if err := h.svc.AdminRemoveUser(middleware.GetToken(c), queryInt64(c, "u_id")); err != nil {
		respondErr(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}
