package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourname/sleeplog/internal/service"
)

func PostSessionStart(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body service.BeginSessionRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if err := service.ValidateRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Validation failed")
			return
		}

		app.Records().BeginSession(c.Request.Context(), body.Start)
		HandleSuccess(c, app.Logger(), gin.H{"pending_start": body.Start}, nil)
	}
}

func GetPendingStart(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		start, ok := app.Records().PendingStart()
		if !ok {
			HandleSuccess(c, app.Logger(), gin.H{"pending_start": nil}, nil)
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"pending_start": start}, nil)
	}
}

func PostSessionComplete(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body service.CompleteSessionRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if err := service.ValidateRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Validation failed")
			return
		}

		records := app.Records()
		sess, err := records.Complete(c.Request.Context(), body.End)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusUnprocessableEntity, "Cannot complete session")
			return
		}

		HandleCreated(c, app.Logger(), newSessionView(sess, records.Location()), map[string]any{"streak": records.Streak()})
	}
}

func GetSessions(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		records := app.Records()
		sessions := records.Sessions()
		views := make([]sessionView, 0, len(sessions))
		for _, s := range sessions {
			views = append(views, newSessionView(s, records.Location()))
		}
		HandleSuccess(c, app.Logger(), views, map[string]any{"streak": records.Streak()})
	}
}

func DeleteSession(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if !app.Records().DeleteSession(c.Request.Context(), id) {
			HandleError(c, app.Logger(), nil, http.StatusNotFound, "Session not found")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"deleted": id}, map[string]any{"streak": app.Records().Streak()})
	}
}

func GetHistory(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		records := app.Records()
		all := records.All()
		views := make([]historyView, 0, len(all))
		for _, r := range all {
			views = append(views, newHistoryView(r, records.Location()))
		}
		HandleSuccess(c, app.Logger(), views, nil)
	}
}

func GetStreak(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleSuccess(c, app.Logger(), gin.H{"streak": app.Records().Streak()}, nil)
	}
}

func GetSummary(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleSuccess(c, app.Logger(), app.Records().Summary(), nil)
	}
}

func GetSleepRecommendations(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec := app.Advisor().Recommend(c.Request.Context(), app.Records().Summary())
		meta := map[string]any{
			"recommendation": rec.Recommendation,
			"reason":         rec.Reason,
			"action":         rec.Action,
			"source":         rec.Source,
		}
		HandleSuccess(c, app.Logger(), nil, meta)
	}
}
