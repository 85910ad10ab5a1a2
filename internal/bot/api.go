package bot

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sendTimeout bounds every API call; it must exceed the long polling timeout.
const sendTimeout = 90 * time.Second

// NewAPI authorises the bot token and routes the library's own logging into slog.
func NewAPI(token string, debug bool) (*tgbotapi.BotAPI, error) {
	if err := tgbotapi.SetLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelDebug)); err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: sendTimeout}
	api, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	api.Debug = debug
	slog.Info("authorised on telegram", "account", api.Self.UserName)
	return api, nil
}
