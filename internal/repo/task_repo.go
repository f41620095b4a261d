package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	dom "github.com/cyberpompier/lumina/internal/domain"
	"github.com/cyberpompier/lumina/internal/storage"
)

const (
	// DefaultKey is the canonical entry the whole task list lives under.
	DefaultKey = "lumina_v2_core"
)

// DefaultLegacyKeys are entries written by earlier releases, newest first.
var DefaultLegacyKeys = []string{"lumina_tasks_v2", "lumina_tasks"}

// TaskRepo loads and saves the task list as a whole.
type TaskRepo interface {
	Load(ctx context.Context) (dom.Collection, error)
	Save(ctx context.Context, c dom.Collection) error
}

// KVTaskRepo serializes the collection as JSON into a single KV entry.
type KVTaskRepo struct {
	kv         storage.KV
	key        string
	legacyKeys []string
	log        *slog.Logger
}

// NewKVTaskRepo returns a repo reading and writing key. legacyKeys are only
// read, and only while key is absent.
func NewKVTaskRepo(kv storage.KV, key string, legacyKeys []string, log *slog.Logger) *KVTaskRepo {
	if key == "" {
		key = DefaultKey
	}
	if log == nil {
		log = slog.Default()
	}
	return &KVTaskRepo{kv: kv, key: key, legacyKeys: legacyKeys, log: log.With("component", "task_repo")}
}

// Key returns the canonical storage key.
func (r *KVTaskRepo) Key() string { return r.key }

// Load returns the stored collection. A missing or empty entry gives an empty
// collection, and so does a malformed one: corrupt data is discarded.
func (r *KVTaskRepo) Load(ctx context.Context) (dom.Collection, error) {
	raw, ok, err := r.kv.Get(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", r.key, err)
	}
	if ok && raw != "" {
		c, err := decode(raw)
		if err != nil {
			r.log.Warn("discarding malformed task list", "key", r.key, "error", err)
			return dom.Collection{}, nil
		}
		return c, nil
	}
	return r.migrate(ctx)
}

// migrate copies the first readable legacy entry to the canonical key.
func (r *KVTaskRepo) migrate(ctx context.Context) (dom.Collection, error) {
	for _, key := range r.legacyKeys {
		if key == r.key {
			continue
		}
		raw, ok, err := r.kv.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("load legacy %s: %w", key, err)
		}
		if !ok || raw == "" {
			continue
		}
		c, err := decode(raw)
		if err != nil {
			r.log.Warn("skipping malformed legacy task list", "key", key, "error", err)
			continue
		}
		if err := r.Save(ctx, c); err != nil {
			return nil, fmt.Errorf("migrate %s: %w", key, err)
		}
		r.log.Info("migrated task list", "from", key, "to", r.key, "tasks", len(c))
		return c, nil
	}
	return dom.Collection{}, nil
}

// Save overwrites the canonical entry with the whole collection.
func (r *KVTaskRepo) Save(ctx context.Context, c dom.Collection) error {
	if c == nil {
		c = dom.Collection{}
	}
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := r.kv.Set(ctx, r.key, string(b)); err != nil {
		return fmt.Errorf("save %s: %w", r.key, err)
	}
	return nil
}

func decode(raw string) (dom.Collection, error) {
	var c dom.Collection
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, err
	}
	if c == nil {
		// "null" is valid JSON but not a list.
		return dom.Collection{}, nil
	}
	return dom.Dedupe(c), nil
}
