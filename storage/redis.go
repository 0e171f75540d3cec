package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/parlex-ai/parlex/core"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps definitions and model artifacts in Redis, letting several
// service instances share one tenant's state. Intent and entity definitions
// are JSON hashes; model artifacts are raw byte values indexed by a per-bot
// set of artifact names.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis using a URL ("redis://host:port/db") and
// verifies the connection.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// Close releases the underlying client.
func (s *RedisStore) Close() error { return s.client.Close() }

// Bot returns the tenant-scoped Storage handle for the given bot.
func (s *RedisStore) Bot(botID string) core.Storage {
	return &redisBotStore{client: s.client, botID: botID}
}

// Provider returns a core.StorageProvider backed by this store.
func (s *RedisStore) Provider() core.StorageProvider {
	return func(botID string) (core.Storage, error) {
		return s.Bot(botID), nil
	}
}

type redisBotStore struct {
	client *redis.Client
	botID  string
}

var _ core.Storage = (*redisBotStore)(nil)

func (s *redisBotStore) intentsKey() string  { return fmt.Sprintf("nlu:%s:intents", s.botID) }
func (s *redisBotStore) entitiesKey() string { return fmt.Sprintf("nlu:%s:entities", s.botID) }
func (s *redisBotStore) modelsKey() string   { return fmt.Sprintf("nlu:%s:models", s.botID) }
func (s *redisBotStore) modelKey(name string) string {
	return fmt.Sprintf("nlu:%s:model:%s", s.botID, name)
}

func (s *redisBotStore) Intents(ctx context.Context) ([]core.IntentDefinition, error) {
	values, err := s.client.HVals(ctx, s.intentsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load intents: %w", err)
	}
	out := make([]core.IntentDefinition, 0, len(values))
	for _, v := range values {
		var in core.IntentDefinition
		if err := json.Unmarshal([]byte(v), &in); err != nil {
			return nil, fmt.Errorf("failed to decode intent: %w", err)
		}
		out = append(out, in)
	}
	return out, nil
}

func (s *redisBotStore) Intent(ctx context.Context, name string) (core.IntentDefinition, error) {
	v, err := s.client.HGet(ctx, s.intentsKey(), name).Result()
	if err == redis.Nil {
		return core.IntentDefinition{}, ErrNotFound
	}
	if err != nil {
		return core.IntentDefinition{}, fmt.Errorf("failed to load intent: %w", err)
	}
	var in core.IntentDefinition
	if err := json.Unmarshal([]byte(v), &in); err != nil {
		return core.IntentDefinition{}, fmt.Errorf("failed to decode intent: %w", err)
	}
	return in, nil
}

func (s *redisBotStore) CustomEntities(ctx context.Context) ([]core.EntityDefinition, error) {
	values, err := s.client.HVals(ctx, s.entitiesKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load custom entities: %w", err)
	}
	out := make([]core.EntityDefinition, 0, len(values))
	for _, v := range values {
		var def core.EntityDefinition
		if err := json.Unmarshal([]byte(v), &def); err != nil {
			return nil, fmt.Errorf("failed to decode custom entity: %w", err)
		}
		out = append(out, def)
	}
	return out, nil
}

func (s *redisBotStore) ModelExists(ctx context.Context, fingerprint string) (bool, error) {
	names, err := s.client.SMembers(ctx, s.modelsKey()).Result()
	if err != nil {
		return false, fmt.Errorf("failed to list models: %w", err)
	}
	for _, name := range names {
		if matchesFingerprint(name, fingerprint) {
			return true, nil
		}
	}
	return false, nil
}

func (s *redisBotStore) ModelBuffer(ctx context.Context, fingerprint string) ([]byte, error) {
	names, err := s.client.SMembers(ctx, s.modelsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	var best string
	for _, name := range names {
		if matchesFingerprint(name, fingerprint) && (best == "" || newer(name, best)) {
			best = name
		}
	}
	if best == "" {
		return nil, ErrNotFound
	}
	data, err := s.client.Get(ctx, s.modelKey(best)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}
	return data, nil
}

func (s *redisBotStore) PersistModel(ctx context.Context, data []byte, name string) error {
	if err := s.client.Set(ctx, s.modelKey(name), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to persist model: %w", err)
	}
	if err := s.client.SAdd(ctx, s.modelsKey(), name).Err(); err != nil {
		return fmt.Errorf("failed to index model: %w", err)
	}
	return nil
}

func (s *redisBotStore) SaveIntent(ctx context.Context, intent core.IntentDefinition) error {
	payload, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("failed to encode intent: %w", err)
	}
	if err := s.client.HSet(ctx, s.intentsKey(), intent.Name, string(payload)).Err(); err != nil {
		return fmt.Errorf("failed to save intent: %w", err)
	}
	return nil
}

func (s *redisBotStore) DeleteIntent(ctx context.Context, name string) error {
	n, err := s.client.HDel(ctx, s.intentsKey(), name).Result()
	if err != nil {
		return fmt.Errorf("failed to delete intent: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *redisBotStore) SaveCustomEntity(ctx context.Context, def core.EntityDefinition) error {
	payload, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to encode custom entity: %w", err)
	}
	if err := s.client.HSet(ctx, s.entitiesKey(), def.Name, string(payload)).Err(); err != nil {
		return fmt.Errorf("failed to save custom entity: %w", err)
	}
	return nil
}
