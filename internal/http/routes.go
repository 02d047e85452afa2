package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/kalpasnet/kotoba/internal/ws"
)

// SetupRoutes configures all application routes and middleware.
func SetupRoutes(router *gin.Engine, env *Env, corsOrigin string) {
	router.Use(gin.Recovery())
	router.Use(RequestLogger(env.Log))
	router.Use(SecurityHeadersMiddleware())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{corsOrigin},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	router.GET("/api", env.GetBoard)
	router.POST("/api", env.Submit)
	router.POST("/topic", env.SetTopic)

	// Debug surfaces for operators.
	router.GET("/id", env.GetAdmins)
	router.GET("/roles", env.GetRoles)
	router.GET("/health", env.Health)

	router.GET("/ws", func(c *gin.Context) {
		ws.ServeWs(env.Hub, c.Writer, c.Request)
	})

	// Static frontend; must come after the API routes.
	router.StaticFile("/", "./public/index.html")
}
