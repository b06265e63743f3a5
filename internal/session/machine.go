package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"expensebot/internal/labels"
	"expensebot/internal/store"
)

// State names the menu a user is expected to answer next.
type State int

const (
	AwaitingCategory State = iota
	AwaitingSubcategory
	AwaitingSource
	AwaitingPrice
	AwaitingCustomPriceText
)

func (s State) String() string {
	switch s {
	case AwaitingCategory:
		return "awaiting_category"
	case AwaitingSubcategory:
		return "awaiting_subcategory"
	case AwaitingSource:
		return "awaiting_source"
	case AwaitingPrice:
		return "awaiting_price"
	case AwaitingCustomPriceText:
		return "awaiting_custom_price"
	}
	return "unknown"
}

// ErrInvalidTransition reports a token that is not valid for the current
// state. The accompanying Reply re-prompts the same menu; state and path are
// untouched and nothing is persisted.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrMalformedCustomInput reports non-numeric custom price text. The user is
// re-prompted indefinitely; state is untouched.
var ErrMalformedCustomInput = errors.New("malformed custom price")

// Event is one inbound transport event, reduced to the fields the core reads.
type Event struct {
	UpdateID         int
	MessageID        int
	ChatID           int64
	UserID           int64
	UserName         string
	UserUsername     string
	UserLanguageCode string
	// Token is the button token or free text of the event.
	Token     string
	Timestamp time.Time
}

// Button is one inline keyboard button: the token it submits and its display
// label.
type Button struct {
	Token string
	Label string
}

// Reply is what the transport should send back: optional confirmation lines,
// then a prompt with either an inline keyboard or a force-reply text field.
type Reply struct {
	Confirmations []string
	Prompt        string
	Buttons       [][]Button
	ForceReply    bool
}

type userSession struct {
	state       State
	path        Path
	category    string
	subcategory string
}

// Machine is the selection-path state machine. One Machine serves every user;
// sessions are tracked per user id in memory and do not survive a restart
// (the next token simply opens a fresh path).
type Machine struct {
	store *store.TelegramStore
	lang  string

	mu       sync.Mutex
	sessions map[int64]*userSession
}

func NewMachine(ts *store.TelegramStore, lang string) *Machine {
	return &Machine{
		store:    ts,
		lang:     lang,
		sessions: make(map[int64]*userSession),
	}
}

// Advance processes one event: validates the token against the current
// state, persists the event and its path metadata, then applies the
// transition and returns the next menu.
//
// The durable write happens before the reply is handed back, so a failed
// outbound send can be retried by the user without losing the transaction.
// A fatal store error aborts the transition: state and path stay unchanged
// and no menu is advanced.
func (m *Machine) Advance(ctx context.Context, ev Event) (Reply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ev.Token == StartToken {
		return m.restart(ctx, ev)
	}

	s, ok := m.sessions[ev.UserID]
	if !ok {
		// State lost (e.g. process restart). Treat the token as answering
		// the category menu of a fresh path.
		s = &userSession{state: AwaitingCategory, path: NewPath(ev.UserID)}
		m.sessions[ev.UserID] = s
	}

	switch s.state {
	case AwaitingCategory:
		return m.onCategory(ctx, ev, s)
	case AwaitingSubcategory:
		return m.onSubcategory(ctx, ev, s)
	case AwaitingSource:
		return m.onSource(ctx, ev, s)
	case AwaitingPrice:
		return m.onPrice(ctx, ev, s)
	case AwaitingCustomPriceText:
		return m.onCustomPrice(ctx, ev, s)
	}
	return Reply{}, fmt.Errorf("unreachable state %v", s.state)
}

// StateOf returns the current state for a user. Used by the transport layer
// to route free text and by tests.
func (m *Machine) StateOf(userID int64) (State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		return AwaitingCategory, false
	}
	return s.state, true
}

// PathOf returns the active path for a user, if any. Test seam.
func (m *Machine) PathOf(userID int64) (Path, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		return "", false
	}
	return s.path, true
}

func (m *Machine) restart(ctx context.Context, ev Event) (Reply, error) {
	next := &userSession{state: AwaitingCategory, path: NewPath(ev.UserID)}
	if err := m.persist(ctx, ev, next.path); err != nil {
		return Reply{}, err
	}
	m.sessions[ev.UserID] = next
	return m.categoryMenu(), nil
}

func (m *Machine) onCategory(ctx context.Context, ev Event, s *userSession) (Reply, error) {
	if !labels.IsCategoryToken(ev.Token) {
		r := m.categoryMenu()
		return r, ErrInvalidTransition
	}
	next := s.path.Append(ev.Token)
	if err := m.persist(ctx, ev, next); err != nil {
		return Reply{}, err
	}
	s.path = next
	s.category = ev.Token
	s.state = AwaitingSubcategory
	return m.subcategoryMenu(s.category), nil
}

func (m *Machine) onSubcategory(ctx context.Context, ev Event, s *userSession) (Reply, error) {
	if !labels.IsSubcategoryOf(s.category, ev.Token) {
		r := m.subcategoryMenu(s.category)
		return r, ErrInvalidTransition
	}
	next := s.path.Append(ev.Token)
	if err := m.persist(ctx, ev, next); err != nil {
		return Reply{}, err
	}
	s.path = next
	s.subcategory = ev.Token
	s.state = AwaitingSource
	return m.sourceMenu(s.category, s.subcategory), nil
}

func (m *Machine) onSource(ctx context.Context, ev Event, s *userSession) (Reply, error) {
	if !labels.IsSource(ev.Token) {
		r := m.sourceMenu(s.category, s.subcategory)
		return r, ErrInvalidTransition
	}
	next := s.path.Append(ev.Token)
	if err := m.persist(ctx, ev, next); err != nil {
		return Reply{}, err
	}
	s.path = next
	s.state = AwaitingPrice
	return m.priceMenu(s.category, s.subcategory, ev.Token), nil
}

func (m *Machine) onPrice(ctx context.Context, ev Event, s *userSession) (Reply, error) {
	switch {
	case ev.Token == labels.PriceCustom:
		// The custom marker joins the path now; the price itself arrives as
		// free text in the next event.
		next := s.path.Append(labels.PriceCustom)
		if err := m.persist(ctx, ev, next); err != nil {
			return Reply{}, err
		}
		s.path = next
		s.state = AwaitingCustomPriceText
		return Reply{Prompt: "Enter your price:", ForceReply: true}, nil

	case labels.IsPriceBucket(ev.Token):
		closed := s.path.Append(ev.Token)
		if err := m.persist(ctx, ev, closed); err != nil {
			return Reply{}, err
		}
		m.reset(ev.UserID)
		r := m.categoryMenu()
		r.Confirmations = []string{fmt.Sprintf("Price selected: %s", ev.Token)}
		return r, nil

	default:
		// Not a bucket, not the custom sentinel: same menu again.
		tokens := s.path.Tokens()
		r := m.priceMenu(s.category, s.subcategory, tokens[len(tokens)-1])
		return r, ErrInvalidTransition
	}
}

func (m *Machine) onCustomPrice(ctx context.Context, ev Event, s *userSession) (Reply, error) {
	price := strings.TrimSpace(ev.Token)
	if !isDigits(price) {
		return Reply{
			Prompt:     "Please enter a valid integer price.",
			ForceReply: true,
		}, ErrMalformedCustomInput
	}
	closed := s.path.Append(price)
	if err := m.persist(ctx, ev, closed); err != nil {
		return Reply{}, err
	}
	m.reset(ev.UserID)
	r := m.categoryMenu()
	r.Confirmations = []string{
		fmt.Sprintf("Custom price entered: %s", price),
		"Thank you! returning to main menu..",
	}
	return r, nil
}

// persist writes the event and its path metadata. The caller holds the lock;
// session state must not be mutated until this returns nil.
func (m *Machine) persist(ctx context.Context, ev Event, path Path) error {
	rec := store.EventRecord{
		UpdateID:         ev.UpdateID,
		MessageID:        ev.MessageID,
		ChatID:           ev.ChatID,
		UserID:           ev.UserID,
		UserName:         ev.UserName,
		UserUsername:     ev.UserUsername,
		UserLanguageCode: ev.UserLanguageCode,
		Text:             ev.Token,
		Timestamp:        ev.Timestamp,
		SelectionPath:    string(path),
	}
	if err := m.store.InsertUpdate(ctx, rec); err != nil {
		return fmt.Errorf("record update: %w", err)
	}
	md := store.Metadata{
		UpdateID:         ev.UpdateID,
		SelectionPath:    string(path),
		Timestamp:        ev.Timestamp,
		UserID:           ev.UserID,
		UserName:         ev.UserName,
		UserUsername:     ev.UserUsername,
		UserLanguageCode: ev.UserLanguageCode,
	}
	if err := m.store.InsertMetadata(ctx, md); err != nil {
		return fmt.Errorf("record metadata: %w", err)
	}
	return nil
}

func (m *Machine) reset(userID int64) {
	log.Printf("session closed for user %d, opening a fresh path", userID)
	m.sessions[userID] = &userSession{state: AwaitingCategory, path: NewPath(userID)}
}

func (m *Machine) categoryMenu() Reply {
	rows := make([][]Button, 0, len(labels.Categories))
	for _, c := range labels.Categories {
		rows = append(rows, []Button{{Token: c, Label: labels.ButtonText(c, m.lang)}})
	}
	return Reply{Prompt: "Choose a category:", Buttons: rows}
}

func (m *Machine) subcategoryMenu(category string) Reply {
	rows := make([][]Button, 0, len(labels.Subcategories[category]))
	for _, sub := range labels.Subcategories[category] {
		rows = append(rows, []Button{{Token: sub, Label: labels.ButtonText(sub, m.lang)}})
	}
	return Reply{
		Prompt:  fmt.Sprintf("Choose a subcategory under %s:", title(category)),
		Buttons: rows,
	}
}

func (m *Machine) sourceMenu(category, subcategory string) Reply {
	rows := make([][]Button, 0, len(labels.Sources))
	for _, src := range labels.Sources {
		rows = append(rows, []Button{{Token: src, Label: labels.ButtonText(src, m.lang)}})
	}
	return Reply{
		Prompt:  fmt.Sprintf("Where was this %s produced?", subcategory),
		Buttons: rows,
	}
}

func (m *Machine) priceMenu(category, subcategory, source string) Reply {
	bucketRow := make([]Button, 0, len(labels.PriceBuckets))
	for _, p := range labels.PriceBuckets {
		bucketRow = append(bucketRow, Button{Token: p, Label: labels.ButtonText(p, m.lang)})
	}
	return Reply{
		Prompt: fmt.Sprintf("You selected: %s > %s > %s.\n\nPlease select a price:",
			title(category), title(subcategory), title(source)),
		Buttons: [][]Button{
			bucketRow,
			{{Token: labels.PriceCustom, Label: labels.ButtonText(labels.PriceCustom, m.lang)}},
		},
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
