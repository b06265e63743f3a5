package store

import "time"

// EventRecord is one raw transport event, reduced to the fields the core
// reads. The transport adapter builds it from the framework update; nothing
// downstream touches the framework types.
type EventRecord struct {
	UpdateID         int       `bson:"update_id" json:"update_id"`
	MessageID        int       `bson:"message_id" json:"message_id"`
	ChatID           int64     `bson:"chat_id" json:"chat_id"`
	UserID           int64     `bson:"user_id" json:"user_id"`
	UserName         string    `bson:"user_name" json:"user_name"`
	UserUsername     string    `bson:"user_username" json:"user_username"`
	UserLanguageCode string    `bson:"user_language_code" json:"user_language_code"`
	Text             string    `bson:"text" json:"text"`
	Timestamp        time.Time `bson:"timestamp" json:"timestamp"`
	// SelectionPath is set when the event belongs to an active hierarchical
	// menu session.
	SelectionPath string `bson:"selection_path,omitempty" json:"selection_path,omitempty"`
}

// Metadata links one event to the selection path that was active when it was
// received. Shape matches the documents in the metadata collection:
//
//	{
//	    update_id: 308371405,
//	    selection_path: '7196436554:/start:food:wheat:outside:custom:10',
//	    timestamp: ISODate('2025-01-16T15:18:04.490Z'),
//	    user_id: 7196436554,
//	    user_name: 'redpig',
//	    user_username: '',
//	    user_language_code: 'en'
//	}
type Metadata struct {
	UpdateID         int       `bson:"update_id" json:"update_id"`
	SelectionPath    string    `bson:"selection_path" json:"selection_path"`
	Timestamp        time.Time `bson:"timestamp" json:"timestamp"`
	UserID           int64     `bson:"user_id" json:"user_id"`
	UserName         string    `bson:"user_name" json:"user_name"`
	UserUsername     string    `bson:"user_username" json:"user_username"`
	UserLanguageCode string    `bson:"user_language_code" json:"user_language_code"`
}
