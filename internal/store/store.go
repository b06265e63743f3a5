// Package store handles all persistence for the chatbot suite.
//
// Manager abstracts the document database (Mongo, SQLite or in-memory);
// TelegramStore knows the shape of the telegram records and which collections
// they live in. Retry policy for transient write failures lives next to the
// Manager implementations because it is backend dependent: each backend
// decides which of its errors are worth retrying.
package store

import (
	"context"
	"strings"
)

// Filter is the simple predicate language the chatbot needs: exact field
// matches plus a selection-path prefix. A zero Filter matches everything.
type Filter struct {
	// Eq matches documents whose named field equals the given value.
	Eq map[string]any
	// PathPrefix, when non-empty, matches documents whose selection_path
	// field starts with this prefix.
	PathPrefix string
}

// Manager is the document-database port. Implementations must be safe for
// concurrent use. Find decodes matching documents into out, which must be a
// pointer to a slice of the record type.
type Manager interface {
	Insert(ctx context.Context, doc any, collection string) error
	Find(ctx context.Context, f Filter, limit int64, collection string, out any) error
	SyncIndices(ctx context.Context, collection string, fields []string) error
}

// DBName derives the namespaced database name for a bot. Running several bots
// against one server keeps their data apart. Names are always lower case.
func DBName(botName string) string {
	return strings.ToLower(botName + "_telegram_bot")
}
