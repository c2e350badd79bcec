package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/pixelcanvas/internal/model"
	"github.com/mcoot/pixelcanvas/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	keys   keys
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = DefaultConfig().KeyPrefix
	}
	return &Storage{
		client: client,
		keys:   keys{prefix: prefix},
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Actor operations

func (s *Storage) SaveActors(ctx context.Context, actors []model.Actor) error {
	if len(actors) == 0 {
		return nil
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	for _, a := range actors {
		data, err := json.Marshal(a)
		if err != nil {
			return err
		}
		pipe.Set(ctx, s.keys.actor(a.ID), data, 0)
		pipe.SAdd(ctx, s.keys.actorIndex(), string(a.ID))
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) ListActors(ctx context.Context) ([]model.Actor, error) {
	ids, err := s.client.SMembers(ctx, s.keys.actorIndex()).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.Actor{}, nil
	}

	actorKeys := make([]string, len(ids))
	for i, id := range ids {
		actorKeys[i] = s.keys.actor(model.ActorID(id))
	}

	values, err := s.client.MGet(ctx, actorKeys...).Result()
	if err != nil {
		return nil, err
	}

	actors := make([]model.Actor, 0, len(values))
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			// Index entry without a record
			return nil, fmt.Errorf("%w: actor %s missing from redis", model.ErrInternalInconsistency, ids[i])
		}
		var a model.Actor
		if err := json.Unmarshal([]byte(str), &a); err != nil {
			return nil, err
		}
		actors = append(actors, a)
	}

	sort.Slice(actors, func(i, j int) bool {
		return actors[i].ID < actors[j].ID
	})
	return actors, nil
}

// History operations

func (s *Storage) AppendHistory(ctx context.Context, records []model.HistoryRecord) error {
	if len(records) == 0 {
		return nil
	}

	pipe := s.client.TxPipeline()
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		seq := strconv.FormatInt(r.Seq, 10)
		// HSETNX and ZADD are both no-ops for an already stored seq
		pipe.HSetNX(ctx, s.keys.historyRecords(), seq, data)
		pipe.ZAdd(ctx, s.keys.historyOrder(), redis.Z{Score: float64(r.Seq), Member: seq})
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) ListHistory(ctx context.Context, afterSeq int64, limit int) ([]model.HistoryRecord, error) {
	by := &redis.ZRangeBy{
		Min: "(" + strconv.FormatInt(afterSeq, 10),
		Max: "+inf",
	}
	if limit > 0 {
		by.Count = int64(limit)
	}

	seqs, err := s.client.ZRangeByScore(ctx, s.keys.historyOrder(), by).Result()
	if err != nil {
		return nil, err
	}
	if len(seqs) == 0 {
		return []model.HistoryRecord{}, nil
	}

	values, err := s.client.HMGet(ctx, s.keys.historyRecords(), seqs...).Result()
	if err != nil {
		return nil, err
	}

	records := make([]model.HistoryRecord, 0, len(values))
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: history seq %s missing from redis", model.ErrInternalInconsistency, seqs[i])
		}
		var r model.HistoryRecord
		if err := json.Unmarshal([]byte(str), &r); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}
