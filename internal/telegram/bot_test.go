package telegram

import (
	"bytes"
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensebot/internal/labels"
	"expensebot/internal/report"
	"expensebot/internal/session"
	"expensebot/internal/store"
)

type fakeSender struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	sendErr  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.sendErr
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

// messages returns the text of every sent MessageConfig, in order.
func (f *fakeSender) messages() []string {
	var out []string
	for _, c := range f.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, msg.Text)
		}
	}
	return out
}

func (f *fakeSender) lastDocument() (tgbotapi.DocumentConfig, bool) {
	for i := len(f.sent) - 1; i >= 0; i-- {
		if doc, ok := f.sent[i].(tgbotapi.DocumentConfig); ok {
			return doc, true
		}
	}
	return tgbotapi.DocumentConfig{}, false
}

type botFixture struct {
	bot    *Bot
	sender *fakeSender
	mem    *store.MemoryManager
	nextID int
}

func newBotFixture(t *testing.T, plugin Plugin) *botFixture {
	t.Helper()
	mem := store.NewMemoryManager()
	ts, err := store.NewTelegramStore(context.Background(), mem)
	require.NoError(t, err)

	s := &fakeSender{}
	return &botFixture{
		bot: &Bot{
			s:        s,
			plugin:   plugin,
			table:    labels.Finance,
			store:    ts,
			machine:  session.NewMachine(ts, "en"),
			renderer: &report.Renderer{},
			lang:     "en",
		},
		sender: s,
		mem:    mem,
	}
}

func (f *botFixture) message(userID int64, text string) *tgbotapi.Message {
	f.nextID++
	msg := &tgbotapi.Message{
		MessageID: f.nextID,
		From: &tgbotapi.User{
			ID:           userID,
			FirstName:    "Test",
			UserName:     "testuser",
			LanguageCode: "en",
		},
		Chat: &tgbotapi.Chat{ID: userID},
		Text: text,
		Date: int(time.Now().Unix()),
	}
	if len(text) > 0 && text[0] == '/' {
		msg.Entities = []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: len(text)},
		}
	}
	return msg
}

func (f *botFixture) callback(userID int64, data string) *tgbotapi.CallbackQuery {
	f.nextID++
	return &tgbotapi.CallbackQuery{
		ID:   "cb",
		From: &tgbotapi.User{ID: userID, FirstName: "Test", UserName: "testuser"},
		Data: data,
		Message: &tgbotapi.Message{
			MessageID: f.nextID,
			Chat:      &tgbotapi.Chat{ID: userID},
			Date:      int(time.Now().Unix()),
		},
	}
}

func TestFlatStartSendsKeyboardMenu(t *testing.T) {
	f := newBotFixture(t, PluginOM)
	ctx := context.Background()

	f.bot.handleFlatMessage(ctx, 1, f.message(10, "/start"))

	assert.Equal(t, 1, f.mem.Count("updates"))
	require.Len(t, f.sender.sent, 1)
	msg, ok := f.sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, labels.Finance.StartMessage, msg.Text)
	kb, ok := msg.ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	require.True(t, ok)
	assert.True(t, kb.ResizeKeyboard)
	assert.Len(t, kb.Keyboard, 5)
	assert.Equal(t, labels.Finance.Get("c1"), kb.Keyboard[0][0].Text)
}

func TestFlatRecordsEveryMessage(t *testing.T) {
	f := newBotFixture(t, PluginOM)
	ctx := context.Background()

	f.bot.handleFlatMessage(ctx, 1, f.message(10, labels.Finance.Get("c1")))
	f.bot.handleFlatMessage(ctx, 2, f.message(10, "20"))

	assert.Equal(t, 2, f.mem.Count("updates"))
	// Plain category and amount messages get no reply.
	assert.Empty(t, f.sender.sent)
}

func TestFlatSummaryDeliversDocument(t *testing.T) {
	f := newBotFixture(t, PluginOM)
	ctx := context.Background()

	for i, text := range []string{
		"/start",
		labels.Finance.Get("c1"),
		labels.Finance.Get(labels.KeyCost),
		"20",
		labels.Finance.Get(labels.KeySummary),
	} {
		f.bot.handleFlatMessage(ctx, i+1, f.message(10, text))
	}

	assert.Equal(t, 5, f.mem.Count("updates"))
	doc, ok := f.sender.lastDocument()
	require.True(t, ok, "summary press should send a document")
	fb, ok := doc.File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.Equal(t, "summary.pdf", fb.Name)
	assert.True(t, bytes.HasPrefix(fb.Bytes, []byte("%PDF")))
}

func TestFlatStorageFailureRepliesAndDrops(t *testing.T) {
	f := newBotFixture(t, PluginOM)
	f.mem.FailNext(&store.FatalError{Err: assert.AnError})

	f.bot.handleFlatMessage(context.Background(), 1, f.message(10, "20"))

	assert.Equal(t, 0, f.mem.Count("updates"))
	msgs := f.sender.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "Storage is unavailable")
}

func TestFlatPictureHint(t *testing.T) {
	f := newBotFixture(t, PluginOM)

	f.bot.handleFlatMessage(context.Background(), 1, f.message(10, labels.Finance.Get(labels.KeyPicture)))

	msgs := f.sender.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "📎")
}

func TestHierarchicalCallbackFlow(t *testing.T) {
	f := newBotFixture(t, PluginLipok)
	ctx := context.Background()

	f.bot.handleHierarchicalMessage(ctx, 1, f.message(20, "/start"))
	f.bot.handleCallback(ctx, 2, f.callback(20, labels.Food))
	f.bot.handleCallback(ctx, 3, f.callback(20, labels.Rice))
	f.bot.handleCallback(ctx, 4, f.callback(20, labels.WithinVillage))
	f.bot.handleCallback(ctx, 5, f.callback(20, labels.Price0To50))

	// Every step was persisted before the reply went out.
	assert.Equal(t, 5, f.mem.Count("updates"))
	assert.Equal(t, 5, f.mem.Count("metadata"))
	// Every callback press was answered.
	assert.Len(t, f.sender.requests, 4)

	mds, err := f.bot.store.MetadataForPathPrefix(ctx, session.UserPrefix(20))
	require.NoError(t, err)
	require.Len(t, mds, 5)
	assert.Equal(t, "20:/start:food:rice:within:0-50", mds[4].SelectionPath)

	msgs := f.sender.messages()
	require.NotEmpty(t, msgs)
	assert.Equal(t, "Choose a category:", msgs[0])
	assert.Contains(t, msgs, "Price selected: 0-50")
	// The session closed and the main menu came back.
	assert.Equal(t, "Choose a category:", msgs[len(msgs)-1])
}

func TestHierarchicalCustomPriceViaForceReply(t *testing.T) {
	f := newBotFixture(t, PluginLipok)
	ctx := context.Background()

	f.bot.handleHierarchicalMessage(ctx, 1, f.message(20, "/start"))
	f.bot.handleCallback(ctx, 2, f.callback(20, labels.Fuel))
	f.bot.handleCallback(ctx, 3, f.callback(20, labels.Diesel))
	f.bot.handleCallback(ctx, 4, f.callback(20, labels.OutsideVillage))
	f.bot.handleCallback(ctx, 5, f.callback(20, labels.PriceCustom))

	state, ok := f.bot.machine.StateOf(20)
	require.True(t, ok)
	assert.Equal(t, session.AwaitingCustomPriceText, state)

	// Malformed free text re-prompts without persisting.
	f.bot.handleHierarchicalMessage(ctx, 6, f.message(20, "ten rupees"))
	assert.Equal(t, 5, f.mem.Count("metadata"))

	f.bot.handleHierarchicalMessage(ctx, 7, f.message(20, "250"))
	assert.Equal(t, 6, f.mem.Count("metadata"))

	mds, err := f.bot.store.MetadataForPathPrefix(ctx, session.UserPrefix(20))
	require.NoError(t, err)
	assert.Equal(t, "20:/start:fuel:diesel:outside:custom:250", mds[len(mds)-1].SelectionPath)

	msgs := f.sender.messages()
	assert.Contains(t, msgs, "Enter your price:")
	assert.Contains(t, msgs, "Please enter a valid integer price.")
	assert.Contains(t, msgs, "Custom price entered: 250")
}

func TestHierarchicalFreeTextIgnoredWithoutSession(t *testing.T) {
	f := newBotFixture(t, PluginLipok)

	f.bot.handleHierarchicalMessage(context.Background(), 1, f.message(20, "hello"))

	assert.Empty(t, f.sender.sent)
	assert.Equal(t, 0, f.mem.Count("updates"))
}

func TestHierarchicalEmptySummary(t *testing.T) {
	f := newBotFixture(t, PluginLipok)

	f.bot.handleHierarchicalMessage(context.Background(), 1, f.message(20, "/summary"))

	msgs := f.sender.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "You have nothing to summarize yet.", msgs[0])
}

func TestHierarchicalSummaryAfterTransactions(t *testing.T) {
	f := newBotFixture(t, PluginLipok)
	ctx := context.Background()

	f.bot.handleHierarchicalMessage(ctx, 1, f.message(20, "/start"))
	f.bot.handleCallback(ctx, 2, f.callback(20, labels.Food))
	f.bot.handleCallback(ctx, 3, f.callback(20, labels.Rice))
	f.bot.handleCallback(ctx, 4, f.callback(20, labels.WithinVillage))
	f.bot.handleCallback(ctx, 5, f.callback(20, labels.Price50To100))

	f.bot.handleHierarchicalMessage(ctx, 6, f.message(20, "/summary"))

	doc, ok := f.sender.lastDocument()
	require.True(t, ok, "summary command should send a document")
	fb, ok := doc.File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.True(t, bytes.HasPrefix(fb.Bytes, []byte("%PDF")))
}

func TestSendSummaryTo(t *testing.T) {
	f := newBotFixture(t, PluginOM)
	ctx := context.Background()

	f.bot.handleFlatMessage(ctx, 1, f.message(10, labels.Finance.Get("c1")))
	f.bot.handleFlatMessage(ctx, 2, f.message(10, "40"))

	require.NoError(t, f.bot.SendSummaryTo(ctx, 10))
	_, ok := f.sender.lastDocument()
	assert.True(t, ok)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Anna", displayName(&tgbotapi.User{FirstName: "Anna", UserName: "anna42"}))
	assert.Equal(t, "anna42", displayName(&tgbotapi.User{UserName: "anna42"}))
}
