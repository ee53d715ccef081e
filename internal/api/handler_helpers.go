package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourname/sleeplog/internal"
	"github.com/yourname/sleeplog/internal/response"
)

// HandleError logs and writes an error envelope. err may be nil when msg
// alone explains the failure.
func HandleError(c *gin.Context, logger internal.Logger, err error, status int, msg string) {
	requestID := c.GetString("request_id")
	if err != nil {
		logger.Errorf("[request_id=%s] %s: %v", requestID, msg, err)
		msg = msg + ": " + err.Error()
	} else {
		logger.Warnf("[request_id=%s] %s", requestID, msg)
	}
	var resp response.APIResponse
	switch status {
	case http.StatusBadRequest:
		resp = response.BadRequest(msg)
	case http.StatusNotFound:
		resp = response.NotFound(msg)
	case http.StatusUnprocessableEntity:
		resp = response.Unprocessable(msg)
	case http.StatusInternalServerError:
		resp = response.InternalError(msg)
	default:
		resp = response.NewAppError(status, msg)
	}
	c.JSON(status, resp)
}

func HandleSuccess(c *gin.Context, logger internal.Logger, data interface{}, meta map[string]any) {
	respond(c, logger, http.StatusOK, data, meta)
}

func HandleCreated(c *gin.Context, logger internal.Logger, data interface{}, meta map[string]any) {
	respond(c, logger, http.StatusCreated, data, meta)
}

func respond(c *gin.Context, logger internal.Logger, status int, data interface{}, meta map[string]any) {
	requestID := c.GetString("request_id")
	logger.Debugf("[request_id=%s] %s %s -> %d", requestID, c.Request.Method, c.FullPath(), status)
	c.JSON(status, response.Success(data, meta))
}
