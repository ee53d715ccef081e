package reminder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/yourname/sleeplog/internal"
)

// TelegramNotifier delivers reminders as messages to one chat. Permission
// means the bot can see the chat.
type TelegramNotifier struct {
	bot    *gotgbot.Bot
	chatID int64
	logger internal.Logger
}

func NewTelegramNotifier(token string, chatID int64, logger internal.Logger) (*TelegramNotifier, error) {
	return newTelegramNotifier(token, chatID, gotgbot.DefaultAPIURL, logger)
}

func newTelegramNotifier(token string, chatID int64, apiURL string, logger internal.Logger) (*TelegramNotifier, error) {
	bot, err := gotgbot.NewBot(token, &gotgbot.BotOpts{
		BotClient: &gotgbot.BaseBotClient{
			Client: http.Client{},
			DefaultRequestOpts: &gotgbot.RequestOpts{
				Timeout: 10 * time.Second,
				APIURL:  apiURL,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("telegram: create bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID, logger: logger}, nil
}

func (t *TelegramNotifier) CheckPermission(ctx context.Context) (bool, error) {
	if t.chatID == 0 {
		return false, nil
	}
	if _, err := t.bot.GetChat(t.chatID, nil); err != nil {
		t.logger.Warnf("telegram: chat %d not reachable: %v", t.chatID, err)
		return false, err
	}
	return true, nil
}

// RequestPermission cannot prompt anyone on Telegram; the user has to start
// the bot themselves. It re-checks instead.
func (t *TelegramNotifier) RequestPermission(ctx context.Context) (bool, error) {
	return t.CheckPermission(ctx)
}

func (t *TelegramNotifier) Notify(ctx context.Context, n Notification) error {
	if t.chatID == 0 {
		return errors.New("telegram: no chat configured")
	}
	if _, err := t.bot.SendMessage(t.chatID, n.Title+"\n"+n.Body, nil); err != nil {
		return fmt.Errorf("telegram: send: %w", err)
	}
	return nil
}

var _ Notifier = (*TelegramNotifier)(nil)
