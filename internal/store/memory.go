package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryManager is an in-process Manager used by tests and the ops tooling.
// It plays the role a fake database does in the production backends' own test
// suites: same interface, no server.
type MemoryManager struct {
	mu          sync.RWMutex
	collections map[string][]memDoc
	failures    []error
}

type memDoc struct {
	id     string
	raw    string
	fields map[string]any
}

func NewMemoryManager() *MemoryManager {
	return &MemoryManager{collections: make(map[string][]memDoc)}
}

// FailNext queues an error to be returned by the next operation, before any
// retry wrapping. Tests use it to exercise the transient/fatal paths.
func (m *MemoryManager) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, err)
}

func (m *MemoryManager) takeFailure() error {
	if len(m.failures) == 0 {
		return nil
	}
	err := m.failures[0]
	m.failures = m.failures[1:]
	return err
}

func (m *MemoryManager) Insert(ctx context.Context, doc any, collection string) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return &FatalError{Err: fmt.Errorf("marshal document: %w", err)}
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return &FatalError{Err: fmt.Errorf("probe document: %w", err)}
	}
	return withRetry(ctx, func() error {
		m.mu.Lock()
		defer m.mu.Unlock()
		if err := m.takeFailure(); err != nil {
			return err
		}
		m.collections[collection] = append(m.collections[collection], memDoc{
			id:     uuid.NewString(),
			raw:    string(raw),
			fields: fields,
		})
		return nil
	})
}

func (m *MemoryManager) Find(ctx context.Context, f Filter, limit int64, collection string, out any) error {
	var docs []string
	err := withRetry(ctx, func() error {
		m.mu.RLock()
		defer m.mu.RUnlock()
		if err := m.takeFailure(); err != nil {
			return err
		}
		docs = docs[:0]
		for _, d := range m.collections[collection] {
			if !matches(d, f) {
				continue
			}
			docs = append(docs, d.raw)
			if limit > 0 && int64(len(docs)) == limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return decodeDocs(docs, out)
}

func (m *MemoryManager) SyncIndices(ctx context.Context, collection string, fields []string) error {
	// Nothing to index in memory; accept the call so wiring stays identical.
	return nil
}

// Count reports how many documents a collection holds. Test helper.
func (m *MemoryManager) Count(collection string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.collections[collection])
}

func matches(d memDoc, f Filter) bool {
	for k, want := range f.Eq {
		got, ok := d.fields[k]
		// JSON numbers decode as float64; compare textually so int64 ids
		// still match.
		if !ok || fmt.Sprint(got) != fmt.Sprint(want) {
			return false
		}
	}
	if f.PathPrefix != "" {
		p, _ := d.fields["selection_path"].(string)
		if !strings.HasPrefix(p, f.PathPrefix) {
			return false
		}
	}
	return true
}
