package telegram

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"expensebot/internal/labels"
)

// handleFlatMessage drives the flat-menu (om) variant: one reply keyboard,
// every message recorded verbatim, the summary button triggering the report
// pipeline. The durable write happens before any reply so a failed send can
// be retried without losing the event.
func (b *Bot) handleFlatMessage(ctx context.Context, updateID int, msg *tgbotapi.Message) {
	ev := eventFrom(updateID, msg)
	if err := b.store.InsertUpdate(ctx, recordFrom(ev)); err != nil {
		log.Printf("failed to record update %d: %v", updateID, err)
		b.sendText(msg.Chat.ID, "Storage is unavailable right now, please try again later.")
		return
	}

	switch {
	case msg.IsCommand() && msg.Command() == "start",
		len(msg.NewChatMembers) > 0:
		b.sendStartMenu(msg.Chat.ID)

	case msg.Text == b.table.Get(labels.KeyPicture):
		b.sendText(msg.Chat.ID, "Upload a picture by pressing 📎")

	case msg.Text == b.table.Get(labels.KeySummary):
		log.Printf("generating summary for user %s with id %d", ev.UserName, ev.UserID)
		b.sendSummary(ctx, msg.Chat.ID, ev.UserID)

	case len(msg.Photo) > 0:
		b.sendText(msg.Chat.ID, "Your summary will be updated if the photo is a receipt.")
	}
}

func (b *Bot) sendStartMenu(chatID int64) {
	layout := b.table.Keyboard()
	rows := make([][]tgbotapi.KeyboardButton, 0, len(layout))
	for _, row := range layout {
		btns := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			btns = append(btns, tgbotapi.NewKeyboardButton(label))
		}
		rows = append(rows, btns)
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true

	out := tgbotapi.NewMessage(chatID, b.table.StartMessage)
	out.ReplyMarkup = kb
	if _, err := b.s.Send(out); err != nil {
		log.Printf("failed to send start menu: %v", err)
	}
}
