package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourname/sleeplog/internal/auth"
)

// NewRouter wires every route. provider may be nil to leave the API open.
func NewRouter(app App, provider auth.Provider) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestIDMiddleware(), AccessLogMiddleware(app.Logger()))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/")
	if provider != nil {
		api.Use(auth.AuthMiddleware(provider))
	}

	api.POST("/sessions/start", PostSessionStart(app))
	api.GET("/sessions/pending", GetPendingStart(app))
	api.POST("/sessions/complete", PostSessionComplete(app))
	api.GET("/sessions", GetSessions(app))
	api.DELETE("/sessions/:id", DeleteSession(app))

	api.POST("/sleepiness", PostSleepiness(app))
	api.GET("/sleepiness", GetSleepiness(app))
	api.DELETE("/sleepiness/:id", DeleteSleepiness(app))

	api.GET("/history", GetHistory(app))
	api.GET("/streak", GetStreak(app))
	api.GET("/summary", GetSummary(app))
	api.GET("/recommendations", GetSleepRecommendations(app))

	api.POST("/reminders", PostReminder(app))
	api.GET("/reminders", GetReminders(app))
	api.PUT("/reminders/:id", PutReminder(app))
	api.DELETE("/reminders/:id", DeleteReminder(app))

	return r
}
