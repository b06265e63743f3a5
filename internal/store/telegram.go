package store

import (
	"context"
	"fmt"
)

const (
	updatesCollection  = "updates"
	metadataCollection = "metadata"
)

var indexFields = []string{"user_id"}

// TelegramStore stores and retrieves the chatbot's records. It is constructed
// once at startup and handed to the state machine and the report pipeline.
type TelegramStore struct {
	mgr Manager
}

// NewTelegramStore wires a TelegramStore over the given Manager and syncs the
// collection indices. Index sync happens here, once, not in the hot path.
func NewTelegramStore(ctx context.Context, mgr Manager) (*TelegramStore, error) {
	s := &TelegramStore{mgr: mgr}
	for _, c := range []string{updatesCollection, metadataCollection} {
		if err := mgr.SyncIndices(ctx, c, indexFields); err != nil {
			return nil, fmt.Errorf("sync indices: %w", err)
		}
	}
	return s, nil
}

// InsertUpdate durably records one raw transport event.
func (s *TelegramStore) InsertUpdate(ctx context.Context, rec EventRecord) error {
	return s.mgr.Insert(ctx, rec, updatesCollection)
}

// UpdatesForUser returns every recorded event for one user.
func (s *TelegramStore) UpdatesForUser(ctx context.Context, userID int64) ([]EventRecord, error) {
	var out []EventRecord
	err := s.mgr.Find(ctx, Filter{Eq: map[string]any{"user_id": userID}}, 0, updatesCollection, &out)
	return out, err
}

// InsertMetadata durably records one selection-path metadata document.
func (s *TelegramStore) InsertMetadata(ctx context.Context, md Metadata) error {
	return s.mgr.Insert(ctx, md, metadataCollection)
}

// MetadataForPathPrefix returns metadata whose selection path starts with the
// given prefix. Passing "<user_id>:" scopes the result to one user.
func (s *TelegramStore) MetadataForPathPrefix(ctx context.Context, prefix string) ([]Metadata, error) {
	var out []Metadata
	err := s.mgr.Find(ctx, Filter{PathPrefix: prefix}, 0, metadataCollection, &out)
	return out, err
}

// UpdatesByMetadata resolves metadata matching the path prefix back to the
// raw events they were recorded alongside.
func (s *TelegramStore) UpdatesByMetadata(ctx context.Context, prefix string) ([]EventRecord, error) {
	mds, err := s.MetadataForPathPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}
	var out []EventRecord
	for _, md := range mds {
		var recs []EventRecord
		err := s.mgr.Find(ctx, Filter{Eq: map[string]any{"update_id": md.UpdateID}}, 0, updatesCollection, &recs)
		if err != nil {
			return nil, err
		}
		out = append(out, recs...)
	}
	return out, nil
}
