package notifier

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"safeguard/internal/config"
)

// TelegramSender pushes alert notifications to the configured parent chat.
type TelegramSender struct {
	api    *tgbotapi.BotAPI
	chatID int64
	log    *logrus.Logger
}

// NewTelegramSender creates a Telegram-backed sender. Returns nil when
// notifications are disabled or no bot token is configured; callers fall
// back to the log sender.
func NewTelegramSender(cfg *config.Config, log *logrus.Logger) (*TelegramSender, error) {
	if !cfg.Notifications.Enabled || cfg.Notifications.TelegramBotToken == "" {
		log.Info("Telegram notifications are disabled (notifications.enabled=false or token is empty)")
		return nil, nil
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Notifications.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot API: %w", err)
	}

	log.Infof("Telegram bot authorized as %s", botAPI.Self.UserName)

	return &TelegramSender{
		api:    botAPI,
		chatID: cfg.Notifications.TelegramChatID,
		log:    log,
	}, nil
}

func (s *TelegramSender) Send(n Notification) error {
	text := fmt.Sprintf("[%s] %s\n\nChild: %s\nSuggested action: %s",
		strings.ToUpper(n.Severity), n.Title, n.ChildName, n.SuggestedAction)

	msg := tgbotapi.NewMessage(s.chatID, text)
	if _, err := s.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send Telegram notification: %w", err)
	}
	return nil
}

// LogSender writes notifications to the log. Used when no Telegram bot
// is configured.
type LogSender struct {
	log *logrus.Logger
}

func NewLogSender(log *logrus.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(n Notification) error {
	s.log.Infof("[ALERT NOTIFICATION] %s: %s (child=%s, action=%s)",
		strings.ToUpper(n.Severity), n.Title, n.ChildName, n.SuggestedAction)
	return nil
}
