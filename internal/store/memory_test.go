package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryInsertAndFind(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryManager()

	recs := []EventRecord{
		{UpdateID: 1, UserID: 7, Text: "/start", Timestamp: time.Unix(100, 0).UTC()},
		{UpdateID: 2, UserID: 7, Text: "20", Timestamp: time.Unix(200, 0).UTC()},
		{UpdateID: 3, UserID: 8, Text: "99", Timestamp: time.Unix(300, 0).UTC()},
	}
	for _, r := range recs {
		if err := m.Insert(ctx, r, "updates"); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	var got []EventRecord
	if err := m.Find(ctx, Filter{Eq: map[string]any{"user_id": int64(7)}}, 0, "updates", &got); err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records for user 7, got %d", len(got))
	}
	if got[0].Text != "/start" || got[1].Text != "20" {
		t.Fatalf("records out of insertion order: %+v", got)
	}

	// limit applies after filtering
	got = nil
	if err := m.Find(ctx, Filter{Eq: map[string]any{"user_id": int64(7)}}, 1, "updates", &got); err != nil {
		t.Fatalf("find with limit: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
}

func TestMemoryPathPrefix(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryManager()

	paths := []string{
		"7:/start",
		"7:/start:food:wheat:outside:custom:10",
		"8:/start:fuel:petrol:within:50-100",
	}
	for i, p := range paths {
		md := Metadata{UpdateID: i, SelectionPath: p, UserID: int64(7 + i/2), Timestamp: time.Unix(int64(i), 0).UTC()}
		if err := m.Insert(ctx, md, "metadata"); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	var got []Metadata
	if err := m.Find(ctx, Filter{PathPrefix: "7:"}, 0, "metadata", &got); err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 paths for user 7, got %d", len(got))
	}
}

func TestFatalErrorNotRetried(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryManager()
	m.FailNext(&FatalError{Err: errors.New("bad payload")})

	start := time.Now()
	err := m.Insert(ctx, EventRecord{UpdateID: 1}, "updates")
	if err == nil {
		t.Fatalf("expected insert to fail")
	}
	var fe *FatalError
	if !errors.As(err, &fe) {
		t.Fatalf("expected fatal error, got %v", err)
	}
	if errors.Is(err, ErrUnavailable) {
		t.Fatalf("fatal errors must not be reported as unavailable")
	}
	// No backoff sleeps on the fatal path.
	if time.Since(start) > time.Second {
		t.Fatalf("fatal error appears to have been retried")
	}
	if m.Count("updates") != 0 {
		t.Fatalf("failed insert still stored a document")
	}
}

func TestTransientErrorRetried(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryManager()
	m.FailNext(&TransientError{Err: errors.New("timeout")})

	// The first attempt fails transiently, the retry succeeds.
	if err := m.Insert(ctx, EventRecord{UpdateID: 1}, "updates"); err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if m.Count("updates") != 1 {
		t.Fatalf("expected exactly one stored document, got %d", m.Count("updates"))
	}
}

func TestIsTransient(t *testing.T) {
	if !IsTransient(&TransientError{Err: errors.New("x")}) {
		t.Fatalf("transient error not classified")
	}
	if IsTransient(&FatalError{Err: errors.New("x")}) {
		t.Fatalf("fatal error classified as transient")
	}
}
