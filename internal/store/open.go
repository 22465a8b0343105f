package store

import (
	"context"
	"fmt"
	"io"
)

// Backend kinds accepted by Open.
const (
	KindMemory   = "memory"
	KindValkey   = "valkey"
	KindPostgres = "postgres"
)

// Options selects and configures a backend.
type Options struct {
	Kind         string `yaml:"kind"`
	ValkeyAddr   string `yaml:"valkeyAddr"`
	ValkeyPrefix string `yaml:"valkeyPrefix"`
	PostgresDSN  string `yaml:"postgresDsn"`
}

// KV is a favorites backend that owns a connection.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	io.Closer
}

// Open builds the backend named by opts.Kind. An empty kind selects memory.
func Open(ctx context.Context, opts Options) (KV, error) {
	switch opts.Kind {
	case "", KindMemory:
		return NewMemoryStore(), nil
	case KindValkey:
		if opts.ValkeyAddr == "" {
			return nil, fmt.Errorf("valkey backend requires an address")
		}
		return NewValkeyStore(opts.ValkeyAddr, opts.ValkeyPrefix)
	case KindPostgres:
		if opts.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres backend requires a DSN")
		}
		return NewPostgresStore(ctx, opts.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Kind)
	}
}
