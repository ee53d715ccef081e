package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourname/sleeplog/internal/service"
)

func bindReminder(c *gin.Context, app App) (time.Duration, bool) {
	var body service.ReminderRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
		return 0, false
	}
	if err := service.ValidateRequest(&body); err != nil {
		HandleError(c, app.Logger(), err, http.StatusBadRequest, "Validation failed")
		return 0, false
	}
	return time.Duration(body.Minutes) * time.Minute, true
}

func PostReminder(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		after, ok := bindReminder(c, app)
		if !ok {
			return
		}
		r, ok := app.Reminders().Schedule(c.Request.Context(), after)
		if !ok {
			HandleError(c, app.Logger(), nil, http.StatusUnprocessableEntity, "Could not schedule a reminder: notifications are not allowed")
			return
		}
		HandleCreated(c, app.Logger(), r, nil)
	}
}

func GetReminders(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleSuccess(c, app.Logger(), app.Reminders().Pending(), nil)
	}
}

func PutReminder(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		after, ok := bindReminder(c, app)
		if !ok {
			return
		}
		r, ok := app.Reminders().Reschedule(c.Request.Context(), c.Param("id"), after)
		if !ok {
			HandleError(c, app.Logger(), nil, http.StatusNotFound, "Reminder not found")
			return
		}
		HandleSuccess(c, app.Logger(), r, nil)
	}
}

func DeleteReminder(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if !app.Reminders().Cancel(id) {
			HandleError(c, app.Logger(), nil, http.StatusNotFound, "Reminder not found")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"cancelled": id}, nil)
	}
}
