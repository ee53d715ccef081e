package reminder

import (
	"context"
	"time"

	"github.com/yourname/sleeplog/internal"
)

type Notification struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Body  string    `json:"body"`
	At    time.Time `json:"at"`
}

// Notifier is the platform that shows notifications to the user. All calls
// may fail; the scheduler treats any failure as "not delivered".
type Notifier interface {
	CheckPermission(ctx context.Context) (bool, error)
	RequestPermission(ctx context.Context) (bool, error)
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the log. It is always permitted.
type LogNotifier struct {
	logger internal.Logger
}

func NewLogNotifier(logger internal.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) CheckPermission(ctx context.Context) (bool, error)   { return true, nil }
func (l *LogNotifier) RequestPermission(ctx context.Context) (bool, error) { return true, nil }

func (l *LogNotifier) Notify(ctx context.Context, n Notification) error {
	l.logger.Infof("reminder %s: %s: %s", n.ID, n.Title, n.Body)
	return nil
}

var _ Notifier = (*LogNotifier)(nil)
