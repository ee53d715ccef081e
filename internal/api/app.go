package api

import (
	"github.com/yourname/sleeplog/internal"
	"github.com/yourname/sleeplog/internal/reminder"
	"github.com/yourname/sleeplog/internal/service"
)

type App interface {
	Logger() internal.Logger
	Records() *service.Store
	Reminders() *reminder.Scheduler
	Advisor() *service.Advisor
}

// Deps is the process-wide App: one of each collaborator, created at startup.
type Deps struct {
	Log       internal.Logger
	Store     *service.Store
	Scheduler *reminder.Scheduler
	Advice    *service.Advisor
}

func (d *Deps) Logger() internal.Logger        { return d.Log }
func (d *Deps) Records() *service.Store        { return d.Store }
func (d *Deps) Reminders() *reminder.Scheduler { return d.Scheduler }
func (d *Deps) Advisor() *service.Advisor      { return d.Advice }

var _ App = (*Deps)(nil)
