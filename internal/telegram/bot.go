package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"expensebot/internal/labels"
	"expensebot/internal/report"
	"expensebot/internal/session"
	"expensebot/internal/store"
	"expensebot/internal/summary"
)

// Plugin selects which bot variant this process runs.
type Plugin string

const (
	// PluginOM is the flat-menu expense tracker.
	PluginOM Plugin = "om"
	// PluginLipok is the hierarchical category/subcategory/source/price bot.
	PluginLipok Plugin = "lipok"
)

const summaryFileName = "summary.pdf"

type Bot struct {
	api      *tgbotapi.BotAPI
	s        sender
	plugin   Plugin
	table    *labels.Table
	store    *store.TelegramStore
	machine  *session.Machine
	renderer *report.Renderer
	lang     string
}

func New(
	botToken string,
	plugin Plugin,
	table *labels.Table,
	ts *store.TelegramStore,
	machine *session.Machine,
	renderer *report.Renderer,
	lang string,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:      api,
		s:        botAPISender{api: api},
		plugin:   plugin,
		table:    table,
		store:    ts,
		machine:  machine,
		renderer: renderer,
		lang:     lang,
	}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message != nil {
			b.handleMessage(ctx, update.UpdateID, update.Message)
			continue
		}
		if update.CallbackQuery != nil && b.plugin == PluginLipok {
			b.handleCallback(ctx, update.UpdateID, update.CallbackQuery)
			continue
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, updateID int, msg *tgbotapi.Message) {
	log.Printf("incoming message from %d (@%s): %q", msg.From.ID, msg.From.UserName, msg.Text)
	switch b.plugin {
	case PluginOM:
		b.handleFlatMessage(ctx, updateID, msg)
	case PluginLipok:
		b.handleHierarchicalMessage(ctx, updateID, msg)
	}
}

// GenerateReport runs the read-aggregate-render pipeline for one user. It is
// the sole report entry point, shared by the summary button, the /summary
// command, the ops server and the daily scheduler.
func (b *Bot) GenerateReport(ctx context.Context, userID int64) ([]byte, error) {
	s, err := b.summarize(ctx, userID)
	if err != nil {
		return nil, err
	}
	return b.renderer.Render(s)
}

func (b *Bot) summarize(ctx context.Context, userID int64) (*summary.Summary, error) {
	switch b.plugin {
	case PluginLipok:
		mds, err := b.store.MetadataForPathPrefix(ctx, session.UserPrefix(userID))
		if err != nil {
			return nil, fmt.Errorf("load metadata: %w", err)
		}
		return summary.FromMetadata(mds, b.lang)
	default:
		recs, err := b.store.UpdatesForUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("load updates: %w", err)
		}
		return summary.FromEvents(recs, b.table)
	}
}

// SendSummaryTo generates and delivers a summary document to the given user.
// Used by the daily scheduler.
func (b *Bot) SendSummaryTo(ctx context.Context, userID int64) error {
	data, err := b.GenerateReport(ctx, userID)
	if err != nil {
		return err
	}
	doc := tgbotapi.NewDocument(userID, tgbotapi.FileBytes{Name: summaryFileName, Bytes: data})
	if _, err := b.s.Send(doc); err != nil {
		return fmt.Errorf("send summary document: %w", err)
	}
	return nil
}

func (b *Bot) sendSummary(ctx context.Context, chatID, userID int64) {
	data, err := b.GenerateReport(ctx, userID)
	switch {
	case errors.Is(err, summary.ErrEmptyData):
		b.sendText(chatID, "You have nothing to summarize yet.")
		return
	case errors.Is(err, store.ErrUnavailable):
		b.sendText(chatID, "Storage is unavailable right now, please try again later.")
		return
	case err != nil:
		log.Printf("failed to generate summary for %d: %v", userID, err)
		b.sendText(chatID, "Sorry, something went wrong.")
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: summaryFileName, Bytes: data})
	if _, err := b.s.Send(doc); err != nil {
		log.Printf("failed to send summary document: %v", err)
	}
}

func (b *Bot) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}

// eventFrom reduces a framework message to the fields the core reads.
func eventFrom(updateID int, msg *tgbotapi.Message) session.Event {
	ev := session.Event{
		UpdateID:  updateID,
		MessageID: msg.MessageID,
		ChatID:    msg.Chat.ID,
		Token:     msg.Text,
		Timestamp: msg.Time(),
	}
	fillFrom(&ev, msg.From)
	return ev
}

func eventFromCallback(updateID int, cb *tgbotapi.CallbackQuery) session.Event {
	ev := session.Event{
		UpdateID: updateID,
		Token:    cb.Data,
		// Button presses carry no message date of their own.
		Timestamp: time.Now(),
	}
	if cb.Message != nil {
		ev.MessageID = cb.Message.MessageID
		ev.ChatID = cb.Message.Chat.ID
	}
	fillFrom(&ev, cb.From)
	return ev
}

func fillFrom(ev *session.Event, from *tgbotapi.User) {
	if from == nil {
		return
	}
	ev.UserID = from.ID
	ev.UserName = displayName(from)
	ev.UserUsername = from.UserName
	ev.UserLanguageCode = from.LanguageCode
}

func displayName(from *tgbotapi.User) string {
	if from.FirstName != "" {
		return from.FirstName
	}
	return from.UserName
}

func recordFrom(ev session.Event) store.EventRecord {
	return store.EventRecord{
		UpdateID:         ev.UpdateID,
		MessageID:        ev.MessageID,
		ChatID:           ev.ChatID,
		UserID:           ev.UserID,
		UserName:         ev.UserName,
		UserUsername:     ev.UserUsername,
		UserLanguageCode: ev.UserLanguageCode,
		Text:             ev.Token,
		Timestamp:        ev.Timestamp,
	}
}
