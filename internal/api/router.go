package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lalith-99/huddle/internal/middleware"
	"github.com/lalith-99/huddle/internal/service"
	"github.com/lalith-99/huddle/internal/ws"
)

// RegisterRoutes wires every endpoint onto the engine. Register, login and
// the password-reset pair are public; everything else goes through the
// bearer-token middleware. The websocket feed authenticates via a token
// query parameter since browsers cannot set headers on websocket upgrades.
func RegisterRoutes(r *gin.Engine, svc *service.Service, hub *ws.Hub, logger *zap.Logger) {
	authH := NewAuthHandler(svc, logger)
	channelH := NewChannelHandler(svc, logger)
	dmH := NewDMHandler(svc, logger)
	messageH := NewMessageHandler(svc, logger)
	userH := NewUserHandler(svc, logger)
	adminH := NewAdminHandler(svc, logger)
	standupH := NewStandupHandler(svc, logger)

	r.GET("/v1/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/v1/auth/register", authH.Register)
	r.POST("/v1/auth/login", authH.Login)
	r.POST("/v1/auth/passwordreset/request", authH.PasswordResetRequest)
	r.POST("/v1/auth/passwordreset/reset", authH.PasswordReset)

	r.DELETE("/v1/clear", func(c *gin.Context) {
		svc.Clear()
		c.JSON(http.StatusOK, gin.H{})
	})

	r.GET("/v1/ws", func(c *gin.Context) {
		userID, err := svc.Authenticate(c.Query("token"))
		if err != nil {
			respondErr(c, logger, err)
			return
		}
		if err := ws.ServeWS(hub, c.Writer, c.Request, userID); err != nil {
			logger.Error("websocket upgrade failed", zap.Error(err))
		}
	})

	v1 := r.Group("/v1")
	v1.Use(middleware.TokenMiddleware())

	v1.POST("/auth/logout", authH.Logout)

	v1.POST("/channels/create", channelH.Create)
	v1.GET("/channels/list", channelH.List)
	v1.GET("/channels/listall", channelH.ListAll)
	v1.GET("/channel/details", channelH.Details)
	v1.GET("/channel/messages", channelH.Messages)
	v1.POST("/channel/join", channelH.Join)
	v1.POST("/channel/leave", channelH.Leave)
	v1.POST("/channel/invite", channelH.Invite)
	v1.POST("/channel/addowner", channelH.AddOwner)
	v1.POST("/channel/removeowner", channelH.RemoveOwner)

	v1.POST("/dm/create", dmH.Create)
	v1.GET("/dm/list", dmH.List)
	v1.GET("/dm/details", dmH.Details)
	v1.GET("/dm/messages", dmH.Messages)
	v1.POST("/dm/invite", dmH.Invite)
	v1.POST("/dm/leave", dmH.Leave)
	v1.DELETE("/dm/remove", dmH.Remove)

	v1.POST("/message/send", messageH.Send)
	v1.POST("/message/senddm", messageH.SendDM)
	v1.PUT("/message/edit", messageH.Edit)
	v1.DELETE("/message/remove", messageH.Remove)
	v1.POST("/message/share", messageH.Share)
	v1.POST("/message/pin", messageH.Pin)
	v1.POST("/message/unpin", messageH.Unpin)
	v1.POST("/message/react", messageH.React)
	v1.POST("/message/unreact", messageH.Unreact)
	v1.POST("/message/sendlater", messageH.SendLater)
	v1.POST("/message/sendlaterdm", messageH.SendLaterDM)

	v1.POST("/standup/start", standupH.Start)
	v1.GET("/standup/active", standupH.Active)
	v1.POST("/standup/send", standupH.Send)

	v1.GET("/user/profile", userH.Profile)
	v1.PUT("/user/profile/setname", userH.SetName)
	v1.PUT("/user/profile/setemail", userH.SetEmail)
	v1.PUT("/user/profile/sethandle", userH.SetHandle)
	v1.GET("/users/all", userH.All)
	v1.GET("/user/stats", userH.Stats)
	v1.GET("/users/stats", userH.SystemStats)
	v1.GET("/notifications", userH.Notifications)
	v1.GET("/search", userH.Search)

	v1.POST("/admin/userpermission/change", adminH.ChangePermission)
	v1.DELETE("/admin/user/remove", adminH.RemoveUser)
}
