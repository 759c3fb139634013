package redis

import (
	"context"
	"errors"
	"fmt"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/shortcutter/pkg/domain"
	"github.com/aretw0/shortcutter/pkg/schema"
)

// DefaultPrefix namespaces every key the adapter writes.
const DefaultPrefix = "shortcutter:"

// Store implements ports.MacroStore using Redis.
// Records are JSON strings under <prefix>macro:<name>; a sorted set with
// equal scores indexes the names so they list in lexical order.
type Store struct {
	client *backend.Client
	prefix string
}

type Option func(*Store)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Client exposes the underlying client, e.g. to share it with a Locker.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(name string) string {
	return s.prefix + "macro:" + name
}

func (s *Store) indexKey() string {
	return s.prefix + "macros"
}

// Save persists the macro and indexes its name.
func (s *Store) Save(ctx context.Context, macro domain.Macro) error {
	if macro.Name == "" {
		return fmt.Errorf("macro name cannot be empty")
	}
	data, err := schema.Marshal(macro)
	if err != nil {
		return fmt.Errorf("failed to marshal macro: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(macro.Name), data, 0)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: 0, Member: macro.Name})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves a macro by name.
func (s *Store) Load(ctx context.Context, name string) (domain.Macro, error) {
	val, err := s.client.Get(ctx, s.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return domain.Macro{}, domain.ErrMacroNotFound
		}
		return domain.Macro{}, fmt.Errorf("failed to get from redis: %w", err)
	}
	return schema.Unmarshal(val)
}

// Delete removes the macro and its index entry.
func (s *Store) Delete(ctx context.Context, name string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(name))
	pipe.ZRem(ctx, s.indexKey(), name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// List returns every indexed macro, skipping records that fail to decode.
// Index entries whose record vanished are ignored.
func (s *Store) List(ctx context.Context) (domain.Catalog, error) {
	var catalog domain.Catalog

	names, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return catalog, fmt.Errorf("failed to list macros: %w", err)
	}
	if len(names) == 0 {
		return catalog, nil
	}

	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = s.key(name)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return catalog, fmt.Errorf("failed to fetch macros: %w", err)
	}

	for i, val := range vals {
		raw, ok := val.(string)
		if !ok {
			continue
		}
		m, err := schema.Unmarshal([]byte(raw))
		if err != nil {
			catalog.Skipped = append(catalog.Skipped, domain.RecordError{Record: names[i], Err: err})
			continue
		}
		catalog.Macros = append(catalog.Macros, m)
	}
	return catalog, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
