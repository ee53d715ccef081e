package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourname/sleeplog/internal/service"
)

func PostSleepiness(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body service.SleepinessRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if err := service.ValidateRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Validation failed")
			return
		}
		when := body.LoggedAt
		if when.IsZero() {
			when = time.Now()
		}

		records := app.Records()
		sample := records.LogSleepiness(c.Request.Context(), *body.Value, when)
		HandleCreated(c, app.Logger(), newSleepinessView(sample, records.Location()), nil)
	}
}

func GetSleepiness(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		records := app.Records()
		samples := records.Sleepiness()
		views := make([]sleepinessView, 0, len(samples))
		for _, s := range samples {
			views = append(views, newSleepinessView(s, records.Location()))
		}
		HandleSuccess(c, app.Logger(), views, nil)
	}
}

func DeleteSleepiness(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if !app.Records().DeleteSleepiness(c.Request.Context(), id) {
			HandleError(c, app.Logger(), nil, http.StatusNotFound, "Sleepiness entry not found")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"deleted": id}, nil)
	}
}
