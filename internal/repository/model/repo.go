// Package model persists named recommender models in Redis/Valkey.
package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/contentrec/internal/db"
	"github.com/kailas-cloud/contentrec/internal/domain"
	dommodel "github.com/kailas-cloud/contentrec/internal/domain/model"
)

// store is the consumer interface for models (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
}

// Repo implements usecase/registry.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates a model repository. Keys are namespaced under prefix.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// Save writes the model blob and then its catalogue hash.
func (r *Repo) Save(ctx context.Context, info dommodel.Info, m dommodel.Model) error {
	blob, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal model %s: %w", info.Name, err)
	}
	if err := r.store.Set(ctx, r.dataKey(info.Name), blob); err != nil {
		return fmt.Errorf("set model %s: %w", info.Name, err)
	}
	if err := r.store.HSet(ctx, r.metaKey(info.Name), infoToHash(info)); err != nil {
		return fmt.Errorf("hset model %s: %w", info.Name, err)
	}
	return nil
}

// Load reads a model blob.
func (r *Repo) Load(ctx context.Context, name string) (dommodel.Model, error) {
	blob, err := r.store.Get(ctx, r.dataKey(name))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return dommodel.Model{}, domain.ErrModelNotFound
		}
		return dommodel.Model{}, fmt.Errorf("get model %s: %w", name, err)
	}
	var m dommodel.Model
	if err := json.Unmarshal(blob, &m); err != nil {
		return dommodel.Model{}, fmt.Errorf("unmarshal model %s: %w", name, err)
	}
	return m, nil
}

// Info reads the catalogue entry of a model.
func (r *Repo) Info(ctx context.Context, name string) (dommodel.Info, error) {
	m, err := r.store.HGetAll(ctx, r.metaKey(name))
	if err != nil {
		return dommodel.Info{}, fmt.Errorf("hgetall model %s: %w", name, err)
	}
	if len(m) == 0 {
		return dommodel.Info{}, domain.ErrModelNotFound
	}
	return infoFromHash(m)
}

// Delete removes a model. Returns ErrModelNotFound if it was never saved.
func (r *Repo) Delete(ctx context.Context, name string) error {
	exists, err := r.store.Exists(ctx, r.dataKey(name))
	if err != nil {
		return fmt.Errorf("check model %s: %w", name, err)
	}
	if !exists {
		return domain.ErrModelNotFound
	}
	if err := r.store.Del(ctx, r.dataKey(name), r.metaKey(name)); err != nil {
		return fmt.Errorf("del model %s: %w", name, err)
	}
	return nil
}

// List returns the catalogue entries of every stored model sorted by name.
func (r *Repo) List(ctx context.Context) ([]dommodel.Info, error) {
	keys, err := r.store.Scan(ctx, r.metaKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan models: %w", err)
	}
	if len(keys) == 0 {
		return []dommodel.Info{}, nil
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi models: %w", err)
	}

	infos := make([]dommodel.Info, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		info, err := infoFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse model %s: %w", keys[i], err)
		}
		if info.Name == "" {
			info.Name = r.nameFromMetaKey(keys[i])
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Key patterns: {prefix}model:{name} holds the JSON export,
// {prefix}model:{name}:meta the catalogue hash.

func (r *Repo) dataKey(name string) string {
	return fmt.Sprintf("%smodel:%s", r.prefix, name)
}

func (r *Repo) metaKey(name string) string {
	return fmt.Sprintf("%smodel:%s:meta", r.prefix, name)
}

func (r *Repo) nameFromMetaKey(key string) string {
	key = strings.TrimPrefix(key, r.prefix+"model:")
	return strings.TrimSuffix(key, ":meta")
}
