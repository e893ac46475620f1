package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

const (
	DEFAULT_CACHE_TTL     = 1 * time.Hour
	DEFAULT_CACHE_TIMEOUT = 5 * time.Second
)

type KeyType interface {
	string | uuid.UUID
}

// CacheBuilder assembles a single valkey command step by step; the first error
// recorded by a With* call is returned by the terminal operation.
type CacheBuilder struct {
	cache      valkey.Client
	key        string
	value      string
	member     string
	ttl        time.Duration
	ctx        context.Context
	ctxTimeout time.Duration
	err        error
}

func NewCacheBuilder[K KeyType](cache valkey.Client, key K) *CacheBuilder {
	cb := &CacheBuilder{
		cache:      cache,
		ttl:        DEFAULT_CACHE_TTL,
		ctxTimeout: DEFAULT_CACHE_TIMEOUT,
		ctx:        context.Background(),
	}

	switch k := any(key).(type) {
	case string:
		cb.key = k
	case uuid.UUID:
		cb.key = k.String()
	}

	if cache == nil {
		cb.err = fmt.Errorf("cache client is nil")
	}

	return cb
}

func (cb *CacheBuilder) WithStruct(value any) *CacheBuilder {
	bytes, err := json.Marshal(value)
	if err != nil {
		cb.err = fmt.Errorf("failed to marshal value to json: %w", err)
		return cb
	}

	cb.value = string(bytes)
	return cb
}

func (cb *CacheBuilder) WithHash(hash string) *CacheBuilder {
	if hash != "" {
		cb.key = fmt.Sprintf("%s:%s", hash, cb.key)
	}
	return cb
}

func (cb *CacheBuilder) WithTTL(ttl time.Duration) *CacheBuilder {
	cb.ttl = ttl
	return cb
}

func (cb *CacheBuilder) WithContext(ctx context.Context) *CacheBuilder {
	cb.ctx = ctx
	return cb
}

func (cb *CacheBuilder) WithTimeout(timeout time.Duration) *CacheBuilder {
	cb.ctxTimeout = timeout
	return cb
}

func (cb *CacheBuilder) WithMember(member string) *CacheBuilder {
	cb.member = member
	return cb
}

func (cb *CacheBuilder) Key() string {
	return cb.key
}

func (cb *CacheBuilder) Set() error {
	if cb.err != nil {
		return cb.err
	}
	if cb.key == "" {
		return fmt.Errorf("key is required")
	}
	if cb.value == "" {
		return fmt.Errorf("value is required")
	}

	ctx, cancel := cb.createTimeoutContext()
	defer cancel()

	return cb.cache.Do(ctx, cb.cache.B().Set().Key(cb.key).Value(cb.value).Ex(cb.ttl).Build()).
		Error()
}

// Get decodes the cached JSON into result and reports whether the key existed.
func (cb *CacheBuilder) Get(result any) (bool, error) {
	if cb.err != nil {
		return false, cb.err
	}
	if cb.key == "" {
		return false, fmt.Errorf("key is required")
	}

	ctx, cancel := cb.createTimeoutContext()
	defer cancel()

	data, err := cb.cache.Do(ctx, cb.cache.B().Get().Key(cb.key).Build()).ToString()
	if err != nil {
		if isKeyNotFoundError(err) {
			return false, nil
		}
		return false, err
	}

	if data == "" {
		return false, nil
	}

	if err := json.Unmarshal([]byte(data), result); err != nil {
		return false, err
	}

	return true, nil
}

func (cb *CacheBuilder) Delete() error {
	if cb.err != nil {
		return cb.err
	}

	ctx, cancel := cb.createTimeoutContext()
	defer cancel()

	return cb.cache.Do(ctx, cb.cache.B().Del().Key(cb.key).Build()).Error()
}

// AddSetMember adds member to the set at key and refreshes the set expiry.
func (cb *CacheBuilder) AddSetMember() error {
	if cb.err != nil {
		return cb.err
	}
	if cb.member == "" {
		return fmt.Errorf("member is required")
	}

	ctx, cancel := cb.createTimeoutContext()
	defer cancel()

	results := cb.cache.DoMulti(ctx,
		cb.cache.B().Sadd().Key(cb.key).Member(cb.member).Build(),
		cb.cache.B().Expire().Key(cb.key).Seconds(int64(cb.ttl.Seconds())).Build(),
	)
	for _, result := range results {
		if err := result.Error(); err != nil {
			return err
		}
	}
	return nil
}

func (cb *CacheBuilder) GetSetMembers() ([]string, error) {
	if cb.err != nil {
		return nil, cb.err
	}

	ctx, cancel := cb.createTimeoutContext()
	defer cancel()

	return cb.cache.Do(ctx, cb.cache.B().Smembers().Key(cb.key).Build()).AsStrSlice()
}

// DeleteSetWithMembers removes the set at key together with every key it lists.
func (cb *CacheBuilder) DeleteSetWithMembers() error {
	members, err := cb.GetSetMembers()
	if err != nil && !isKeyNotFoundError(err) {
		return err
	}

	ctx, cancel := cb.createTimeoutContext()
	defer cancel()

	keys := append(members, cb.key)
	return cb.cache.Do(ctx, cb.cache.B().Del().Key(keys...).Build()).Error()
}

func (cb *CacheBuilder) createTimeoutContext() (context.Context, context.CancelFunc) {
	if deadline, ok := cb.ctx.Deadline(); ok {
		if time.Until(deadline) < cb.ctxTimeout {
			return context.WithCancel(cb.ctx)
		}
	}
	return context.WithTimeout(cb.ctx, cb.ctxTimeout)
}

func isKeyNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	return valkey.IsValkeyNil(err) || strings.Contains(err.Error(), "key not found")
}
