package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hotelac/internal/logger"
	"hotelac/internal/scheduler"
)

// NewRouter builds the gin engine for sched: a logging middleware, CORS
// for the standalone server, and exactly the routes spec.md §6.2
// describes.
func NewRouter(sched *scheduler.Scheduler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()
		logger.Info("[%s] %s %s %v", c.Request.Method, path, c.ClientIP(), time.Since(start))
	})

	h := NewHandler(sched)

	rooms := router.Group("/rooms")
	{
		rooms.GET("", h.AllStatus)
		rooms.GET("/:id", h.Status)
		rooms.GET("/:id/queue-position", h.QueuePosition)
		rooms.GET("/:id/bill", h.Bill)
		rooms.POST("/:id/power-on", h.PowerOn)
		rooms.POST("/:id/power-off", h.PowerOff)
		rooms.POST("/:id/speed", h.ChangeSpeed)
		rooms.POST("/:id/temperature", h.ChangeTemperature)
	}
	router.GET("/summary", h.Summary)

	return router
}
