package service

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type BeginSessionRequest struct {
	Start time.Time `json:"start" validate:"required"`
}

type CompleteSessionRequest struct {
	End time.Time `json:"end" validate:"required"`
}

// SleepinessRequest leaves Value unbounded; the scale is advisory. LoggedAt
// defaults to now when omitted.
type SleepinessRequest struct {
	Value    *int      `json:"value" validate:"required"`
	LoggedAt time.Time `json:"logged_at"`
}

type ReminderRequest struct {
	Minutes int `json:"minutes" validate:"required,gte=1,lte=10080"`
}

func ValidateRequest(req interface{}) error {
	return validate.Struct(req)
}
