package store

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/i474232898/weather-dashboard/internal/favorites"
)

// ValkeyStore persists keys in a Valkey-compatible database under a prefix.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore connects to addr.
func NewValkeyStore(addr, prefix string) (*ValkeyStore, error) {
	client, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{addr}})
	if err != nil {
		return nil, fmt.Errorf("connect valkey %s: %w", addr, err)
	}
	return NewValkeyStoreWithClient(client, prefix), nil
}

// NewValkeyStoreWithClient wraps an existing client.
func NewValkeyStoreWithClient(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "weather"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) Get(ctx context.Context, key string) (string, bool, error) {
	cmd := s.client.B().Get().Key(s.key(key)).Build()
	value, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (s *ValkeyStore) Set(ctx context.Context, key, value string) error {
	cmd := s.client.B().Set().Key(s.key(key)).Value(value).Build()
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) Close() error {
	s.client.Close()
	return nil
}

func (s *ValkeyStore) key(k string) string {
	return fmt.Sprintf("%s:%s", s.prefix, k)
}

var _ favorites.Backend = (*ValkeyStore)(nil)
