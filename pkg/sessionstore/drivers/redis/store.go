// Package redis stores the session record in Redis so a session can follow
// an operator across hosts.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/aussiebroadwan/shiftboard/pkg/sessionstore"
)

type Store struct {
	client *goredis.Client
	key    string
	ttl    time.Duration
}

var _ sessionstore.Store = (*Store)(nil)

// Options configures a Store.
type Options struct {
	// Key defaults to sessionstore.DefaultKey.
	Key string

	// TTL bounds how long a saved record lives. Zero keeps it until cleared.
	TTL time.Duration
}

// New wraps an existing client. The Store owns the client and closes it.
func New(client *goredis.Client, opts Options) *Store {
	if opts.Key == "" {
		opts.Key = sessionstore.DefaultKey
	}
	return &Store{client: client, key: opts.Key, ttl: opts.TTL}
}

// Dial connects to addr and verifies the connection with PING.
func Dial(ctx context.Context, addr string, opts Options) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", addr, err)
	}
	return New(client, opts), nil
}

func (s *Store) Load(ctx context.Context) (sessionstore.Record, error) {
	payload, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return sessionstore.Record{}, sessionstore.ErrNotFound
	}
	if err != nil {
		return sessionstore.Record{}, fmt.Errorf("redis: get session: %w", err)
	}
	return sessionstore.Decode(payload)
}

func (s *Store) Save(ctx context.Context, r sessionstore.Record) error {
	payload, err := sessionstore.Encode(r)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set session: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis: delete session: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return s.client.Close() }
