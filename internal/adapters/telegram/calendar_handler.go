package telegram

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"hermes/internal/domain/calendar"
	"hermes/pkg/logger"
)

// CalendarService is the slice of the calendar service the handler needs
type CalendarService interface {
	GetCalendar(ctx context.Context, req calendar.Request) []calendar.Event
	FormatCalendar(events []calendar.Event, groupByCurrency bool) string
}

// CalendarHandler routes /calendar commands to the calendar service
type CalendarHandler struct {
	bot     *Bot
	service CalendarService
	log     *logger.Logger
}

// NewCalendarHandler creates a new calendar command handler
func NewCalendarHandler(bot *Bot, service CalendarService, log *logger.Logger) *CalendarHandler {
	return &CalendarHandler{
		bot:     bot,
		service: service,
		log:     log.With("component", "calendar_handler"),
	}
}

// Register wires the handler into the bot's update loop
func (h *CalendarHandler) Register() {
	h.bot.SetMessageHandler(h.HandleUpdate)
}

// HandleUpdate processes an incoming Telegram update
func (h *CalendarHandler) HandleUpdate(update tgbotapi.Update) {
	if update.Message == nil || !update.Message.IsCommand() {
		return
	}

	switch update.Message.Command() {
	case "calendar":
		h.handleCalendar(update.Message)
	case "start", "help":
		h.handleHelp(update.Message)
	}
}

func (h *CalendarHandler) handleCalendar(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	req, grouped := parseCalendarArgs(msg.CommandArguments())

	h.log.Infow("Handling /calendar command",
		"chat_id", msg.Chat.ID,
		"currency", req.Currency,
		"min_impact", req.MinImpact,
		"mode", req.Mode,
	)

	events := h.service.GetCalendar(ctx, req)
	text := h.service.FormatCalendar(events, grouped)

	if err := h.bot.SendMessageWithContext(ctx, msg.Chat.ID, text); err != nil {
		h.log.Errorw("Failed to send calendar", "chat_id", msg.Chat.ID, "error", err)
	}
}

func (h *CalendarHandler) handleHelp(msg *tgbotapi.Message) {
	const help = `📅 Economic Calendar Bot

/calendar - today's events for all major currencies
/calendar USD - events for one currency only
/calendar high - high-impact events only
/calendar USD high grouped - combine filters, group by currency

Currencies: USD EUR GBP JPY CHF AUD NZD CAD
Impact levels: low, medium, high`

	if err := h.bot.SendMessage(msg.Chat.ID, help); err != nil {
		h.log.Errorw("Failed to send help", "chat_id", msg.Chat.ID, "error", err)
	}
}

// parseCalendarArgs turns free-form command arguments into a calendar
// request. Unrecognized words are ignored rather than rejected.
func parseCalendarArgs(args string) (calendar.Request, bool) {
	req := calendar.Request{
		MinImpact: calendar.ImpactLow,
		Mode:      calendar.FilterHighlight,
	}
	grouped := false

	for _, word := range strings.Fields(args) {
		switch strings.ToLower(word) {
		case "low":
			req.MinImpact = calendar.ImpactLow
		case "medium", "med":
			req.MinImpact = calendar.ImpactMedium
		case "high":
			req.MinImpact = calendar.ImpactHigh
		case "grouped", "group":
			grouped = true
		case "strict", "only":
			req.Mode = calendar.FilterStrict
		default:
			cur := calendar.Currency(strings.ToUpper(word))
			if cur.IsMajor() {
				req.Currency = cur
				req.Mode = calendar.FilterStrict
			}
		}
	}

	return req, grouped
}
