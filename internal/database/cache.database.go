package database

import (
	"context"
	"fmt"
	"time"

	"hostelhub/config"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/valkey-io/valkey-go"
)

type CacheClient valkey.Client

// Valkey database index per cache category
const (
	// GENERAL_CACHE_INDEX (DB 0) - anything without a dedicated index
	GENERAL_CACHE_INDEX = iota

	// USER_CACHE_INDEX (DB 1) - user records resolved by the auth middleware
	USER_CACHE_INDEX

	// REQUESTS_CACHE_INDEX (DB 2) - requester and provider service request lists
	REQUESTS_CACHE_INDEX

	// EVENTS_CACHE_INDEX (DB 3) - pub/sub for service request events
	EVENTS_CACHE_INDEX
)

type Cache struct {
	General  CacheClient
	User     CacheClient
	Requests CacheClient
	Events   CacheClient
}

func (c Cache) clients() []struct {
	client CacheClient
	name   string
} {
	return []struct {
		client CacheClient
		name   string
	}{
		{c.General, "General"},
		{c.User, "User"},
		{c.Requests, "Requests"},
		{c.Events, "Events"},
	}
}

func (c Cache) Close() {
	for _, cache := range c.clients() {
		if cache.client != nil {
			cache.client.Close()
		}
	}
}

func newCacheClient(address string, port int, index int) (CacheClient, error) {
	return valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
		SelectDB:    index,
	})
}

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")
	log.Info("initializing cache database")

	address := config.DatabaseCacheAddress
	port := config.DatabaseCachePort
	if address == "" || port == 0 {
		return log.Errorf("failed to initialize cache database", "address or port is empty")
	}

	var cacheDB Cache
	var err error

	if cacheDB.General, err = newCacheClient(address, port, GENERAL_CACHE_INDEX); err != nil {
		return log.Err("failed to create general valkey client", err)
	}
	if cacheDB.User, err = newCacheClient(address, port, USER_CACHE_INDEX); err != nil {
		return log.Err("failed to create user valkey client", err)
	}
	if cacheDB.Requests, err = newCacheClient(address, port, REQUESTS_CACHE_INDEX); err != nil {
		return log.Err("failed to create requests valkey client", err)
	}
	if cacheDB.Events, err = newCacheClient(address, port, EVENTS_CACHE_INDEX); err != nil {
		return log.Err("failed to create events valkey client", err)
	}

	s.Cache = cacheDB

	if config.DatabaseCacheReset != -1 {
		go clearCacheDB(config.DatabaseCacheReset, cacheDB)
	}

	return nil
}

func (s *DB) FlushAllCaches() error {
	log := s.log.Function("FlushAllCaches")
	log.Info("Flushing all cache databases")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, cache := range s.Cache.clients() {
		if cache.client == nil {
			continue
		}
		if err := cache.client.Do(ctx, cache.client.B().Flushdb().Build()).Error(); err != nil {
			return log.Err("Failed to flush cache database", err, "cache", cache.name)
		}
		log.Info("Successfully flushed cache database", "cache", cache.name)
	}

	return nil
}

func clearCacheDB(index int, cacheDB Cache) {
	log := logger.New("database").Function("clearCacheDB")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clients := cacheDB.clients()
	if index < 0 || index >= len(clients) || clients[index].client == nil {
		log.Warn("Invalid cache database index", "index", index)
		return
	}

	client := clients[index].client
	if err := client.Do(ctx, client.B().Flushdb().Build()).Error(); err != nil {
		log.Er("Failed to clear cache database", err, "index", index, "dbName", clients[index].name)
		return
	}

	log.Info("Successfully cleared cache database", "index", index, "dbName", clients[index].name)
}
