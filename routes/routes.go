package routes

import (
	"github.com/anujdhillxn/zenvia/controllers"
	"github.com/anujdhillxn/zenvia/middlewares"
	"github.com/anujdhillxn/zenvia/services"

	"github.com/gin-gonic/gin"
)

func SetupRouter(ps *services.PushService, rt *services.RealtimeHub) *gin.Engine {
	r := gin.Default()

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
	}

	// Protected user routes
	user := r.Group("/user")
	user.Use(middlewares.AuthMiddleware())
	{
		user.GET("/me", controllers.GetProfile)
	}

	duo := r.Group("/duo")
	duo.Use(middlewares.AuthMiddleware())
	{
		duo.GET("", controllers.GetDuo)
		duo.POST("/join", controllers.JoinDuo)
		duo.POST("/invite", controllers.InviteToDuo)
		duo.DELETE("", controllers.LeaveDuo)
	}

	rules := r.Group("/rules")
	rules.Use(middlewares.AuthMiddleware())
	{
		rules.GET("", controllers.ListRules)
		rules.POST("", controllers.CreateRule)
		rules.PUT("", controllers.UpdateRule)
		rules.DELETE("", controllers.DeleteRule)
		rules.POST("/approve", controllers.ApproveModificationRequest)
		rules.DELETE("/modification-request", controllers.WithdrawModificationRequest)
	}

	scores := r.Group("/scores")
	scores.Use(middlewares.AuthMiddleware())
	{
		scores.GET("", controllers.GetScores)
		scores.POST("", controllers.UpsertScores)
	}

	devices := r.Group("/devices")
	devices.Use(middlewares.AuthMiddleware())
	{
		dc := controllers.NewDeviceController(ps)
		devices.POST("/register", dc.Register)
		devices.POST("/notifications/toggle", controllers.ToggleNotifications)
	}

	ws := r.Group("/ws")
	ws.Use(middlewares.AuthMiddleware())
	{
		rc := controllers.NewRealtimeController(rt)
		ws.GET("/events", rc.EventsWS)
	}

	return r
}
