package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/shortcutter/pkg/domain"
	"github.com/aretw0/shortcutter/pkg/schema"
)

// Store implements ports.MacroStore in memory.
// Records are kept encoded, the way a durable store would keep them.
// Safe for concurrent use.
type Store struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string][]byte),
	}
}

// NewFromMacros creates a store pre-filled with macros.
// This handles serialization automatically, improving DX for tests.
func NewFromMacros(macros ...domain.Macro) (*Store, error) {
	s := NewStore()
	for _, m := range macros {
		if err := s.Save(context.Background(), m); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// PutRaw stores an encoded record as-is, without validation.
func (s *Store) PutRaw(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = append([]byte(nil), data...)
}

// Save persists the macro in memory.
func (s *Store) Save(ctx context.Context, macro domain.Macro) error {
	if macro.Name == "" {
		return fmt.Errorf("macro missing name")
	}
	data, err := schema.Marshal(macro)
	if err != nil {
		return fmt.Errorf("failed to marshal macro %s: %w", macro.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[macro.Name] = data
	return nil
}

// Load retrieves the macro from memory.
func (s *Store) Load(ctx context.Context, name string) (domain.Macro, error) {
	s.mu.RLock()
	data, ok := s.data[name]
	s.mu.RUnlock()
	if !ok {
		return domain.Macro{}, domain.ErrMacroNotFound
	}
	return schema.Unmarshal(data)
}

// Delete removes the macro.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List decodes every record, skipping the ones that fail.
func (s *Store) List(ctx context.Context) (domain.Catalog, error) {
	s.mu.RLock()
	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	snapshot := make(map[string][]byte, len(s.data))
	for k, v := range s.data {
		snapshot[k] = v
	}
	s.mu.RUnlock()

	sort.Strings(names)
	var catalog domain.Catalog
	for _, name := range names {
		m, err := schema.Unmarshal(snapshot[name])
		if err != nil {
			catalog.Skipped = append(catalog.Skipped, domain.RecordError{Record: name, Err: err})
			continue
		}
		catalog.Macros = append(catalog.Macros, m)
	}
	return catalog, nil
}
