package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(roomController *RoomController, signalController *SignalController) *gin.Engine {
	router := gin.Default()

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowHeaders = []string{
		"Authorization",
		"Content-Type",
		"Origin",
		"Accept",
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	router.Use(cors.New(config))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	if roomController != nil {
		rooms := api.Group("/rooms")
		rooms.POST("/create", roomController.CreateRoom)
		rooms.GET("/:roomID", roomController.GetRoom)
		rooms.GET("/link/:link", roomController.GetRoomByLink)
		rooms.GET("/:roomID/participants", roomController.ListParticipants)

		api.GET("/webrtc/config", roomController.WebRTCConfig)
	}

	if signalController != nil {
		api.GET("/signal/ws", signalController.Serve)
	}

	return router
}
