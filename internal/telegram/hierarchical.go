package telegram

import (
	"context"
	"errors"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"expensebot/internal/session"
	"expensebot/internal/store"
)

// handleHierarchicalMessage drives the lipok variant's text side: /start and
// /summary commands plus the force-reply custom price entry. All menu
// progression happens through callback queries.
func (b *Bot) handleHierarchicalMessage(ctx context.Context, updateID int, msg *tgbotapi.Message) {
	switch {
	case msg.IsCommand() && msg.Command() == "start",
		len(msg.NewChatMembers) > 0:
		ev := eventFrom(updateID, msg)
		ev.Token = session.StartToken
		b.advance(ctx, msg.Chat.ID, ev)

	case msg.IsCommand() && msg.Command() == "summary":
		b.sendSummary(ctx, msg.Chat.ID, msg.From.ID)

	default:
		// Free text only matters while a custom price is pending.
		if state, ok := b.machine.StateOf(msg.From.ID); !ok || state != session.AwaitingCustomPriceText {
			return
		}
		b.advance(ctx, msg.Chat.ID, eventFrom(updateID, msg))
	}
}

func (b *Bot) handleCallback(ctx context.Context, updateID int, cb *tgbotapi.CallbackQuery) {
	log.Printf("button pressed by %d: %q", cb.From.ID, cb.Data)
	if _, err := b.s.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Printf("failed to answer callback: %v", err)
	}
	ev := eventFromCallback(updateID, cb)
	b.advance(ctx, ev.ChatID, ev)
}

// advance feeds one event to the state machine and transmits its reply.
func (b *Bot) advance(ctx context.Context, chatID int64, ev session.Event) {
	reply, err := b.machine.Advance(ctx, ev)
	switch {
	case errors.Is(err, session.ErrInvalidTransition):
		log.Printf("invalid token %q from %d, re-prompting", ev.Token, ev.UserID)
	case errors.Is(err, session.ErrMalformedCustomInput):
		log.Printf("malformed custom price %q from %d, re-prompting", ev.Token, ev.UserID)
	case errors.Is(err, store.ErrUnavailable):
		b.sendText(chatID, "Storage is unavailable right now, please try again later.")
		return
	case err != nil:
		log.Printf("failed to advance session for %d: %v", ev.UserID, err)
		b.sendText(chatID, "Sorry, something went wrong.")
		return
	}
	b.sendReply(chatID, reply)
}

func (b *Bot) sendReply(chatID int64, r session.Reply) {
	for _, c := range r.Confirmations {
		b.sendText(chatID, c)
	}
	out := tgbotapi.NewMessage(chatID, r.Prompt)
	if len(r.Buttons) > 0 {
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(r.Buttons))
		for _, row := range r.Buttons {
			btns := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
			for _, btn := range row {
				btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(btn.Label, btn.Token))
			}
			rows = append(rows, btns)
		}
		out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	} else if r.ForceReply {
		out.ReplyMarkup = tgbotapi.ForceReply{ForceReply: true, Selective: true}
	}
	if _, err := b.s.Send(out); err != nil {
		log.Printf("failed to send reply: %v", err)
	}
}
