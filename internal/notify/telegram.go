package notify

import (
	"encoding/json"
	"fmt"

	"playeasy/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// TelegramSender is the subset of the bot API the notifier needs.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier pushes booking lifecycle events to an operations chat.
// It subscribes to the event bus; delivery errors are logged and dropped.
type TelegramNotifier struct {
	bot    TelegramSender
	chatID int64
	logger *zerolog.Logger
}

func NewTelegramNotifier(bot TelegramSender, chatID int64, logger *zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, chatID: chatID, logger: logger}
}

// NewTelegramBot dials the bot API with the given token.
func NewTelegramBot(token string) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return bot, nil
}

// Subscribe attaches the notifier to booking events on the bus.
func (t *TelegramNotifier) Subscribe(bus *events.EventBus) {
	bus.Subscribe(events.EventBookingCreated, t.handle("New booking"))
	bus.Subscribe(events.EventBookingCancelled, t.handle("Booking cancelled"))
}

func (t *TelegramNotifier) handle(headline string) events.EventHandler {
	return func(event *events.Event) error {
		var payload events.BookingEventPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			t.logger.Error().Err(err).Str("event_type", event.Type).Msg("decode event payload")
			return err
		}

		text := fmt.Sprintf("%s\n%s on %s\n%s, $%.2f",
			headline, payload.CourtName, payload.Date.Format("Mon, Jan 2 2006"),
			payload.Time, payload.TotalAmount)

		msg := tgbotapi.NewMessage(t.chatID, text)
		if _, err := t.bot.Send(msg); err != nil {
			t.logger.Error().Err(err).Str("event_type", event.Type).Msg("telegram send failed")
			return err
		}
		return nil
	}
}
