package model

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/contentrec/internal/db"
	"github.com/kailas-cloud/contentrec/internal/domain"
	dommodel "github.com/kailas-cloud/contentrec/internal/domain/model"
	"github.com/kailas-cloud/contentrec/internal/domain/options"
	"github.com/kailas-cloud/contentrec/internal/domain/similar"
)

func testModel() dommodel.Model {
	opts := options.Default()
	opts.MinScore = 0.2
	return dommodel.Model{
		Options: &opts,
		Data: similar.Table{
			"1": {{ID: "2", Score: 0.5}},
			"2": {{ID: "1", Score: 0.5}},
		},
	}
}

// --- Save ---

func TestSave_WritesBlobThenMeta(t *testing.T) {
	repo, ms := newTestRepo(t)
	var order []string

	ms.setFn = func(_ context.Context, key string, value []byte) error {
		order = append(order, key)
		if key != "contentrec:model:news" {
			t.Errorf("unexpected data key: %s", key)
		}
		var m dommodel.Model
		if err := json.Unmarshal(value, &m); err != nil {
			t.Fatalf("blob is not a model: %v", err)
		}
		if len(m.Data["1"]) != 1 || m.Options.MinScore != 0.2 {
			t.Errorf("unexpected blob: %s", value)
		}
		return nil
	}
	ms.hsetFn = func(_ context.Context, key string, fields map[string]string) error {
		order = append(order, key)
		if key != "contentrec:model:news:meta" {
			t.Errorf("unexpected meta key: %s", key)
		}
		if fields["run_id"] != "run-1" || fields["documents"] != "2" {
			t.Errorf("unexpected meta: %v", fields)
		}
		return nil
	}

	info := dommodel.Describe("news", testModel())
	info.RunID = "run-1"
	if err := repo.Save(context.Background(), info, testModel()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 || order[0] != "contentrec:model:news" {
		t.Errorf("write order = %v", order)
	}
}

func TestSave_SetError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.setFn = func(context.Context, string, []byte) error { return errors.New("connection lost") }
	ms.hsetFn = func(context.Context, string, map[string]string) error {
		t.Error("meta must not be written after a failed blob write")
		return nil
	}
	if err := repo.Save(context.Background(), dommodel.Info{Name: "x"}, testModel()); err == nil {
		t.Fatal("expected error")
	}
}

// --- Load ---

func TestLoad_RoundTrip(t *testing.T) {
	repo, ms := newTestRepo(t)
	blob, err := json.Marshal(testModel())
	if err != nil {
		t.Fatal(err)
	}
	ms.getFn = func(_ context.Context, key string) ([]byte, error) {
		if key != "contentrec:model:news" {
			t.Errorf("unexpected key: %s", key)
		}
		return blob, nil
	}

	m, err := repo.Load(context.Background(), "news")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Options == nil || m.Options.MinScore != 0.2 {
		t.Errorf("options = %+v", m.Options)
	}
	if m.Data["2"][0].ID != "1" {
		t.Errorf("data = %v", m.Data)
	}
}

func TestLoad_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)
	_, err := repo.Load(context.Background(), "missing")
	if !errors.Is(err, domain.ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound, got %v", err)
	}
}

func TestLoad_Corrupt(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.getFn = func(context.Context, string) ([]byte, error) { return []byte("{"), nil }
	_, err := repo.Load(context.Background(), "bad")
	if err == nil || errors.Is(err, domain.ErrModelNotFound) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestLoad_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.getFn = func(context.Context, string) ([]byte, error) {
		return nil, &db.Error{Op: db.OpGet, Err: errors.New("timeout")}
	}
	_, err := repo.Load(context.Background(), "x")
	var dbErr *db.Error
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected wrapped db.Error, got %v", err)
	}
}

// --- Info ---

func TestInfo_Found(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hgetAllFn = func(context.Context, string) (map[string]string, error) {
		return map[string]string{
			"name": "news", "language": "en", "mode": "single", "run_id": "r",
			"documents": "9", "entries": "40", "updated_at": "1700000000000",
		}, nil
	}
	info, err := repo.Info(context.Background(), "news")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Documents != 9 || info.Entries != 40 || info.Mode != "single" {
		t.Errorf("info = %+v", info)
	}
	if !info.UpdatedAt.Equal(time.UnixMilli(1700000000000)) {
		t.Errorf("UpdatedAt = %v", info.UpdatedAt)
	}
}

func TestInfo_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)
	if _, err := repo.Info(context.Background(), "x"); !errors.Is(err, domain.ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound, got %v", err)
	}
}

func TestInfo_Invalid(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hgetAllFn = func(context.Context, string) (map[string]string, error) {
		return map[string]string{"name": "x", "documents": "many"}, nil
	}
	if _, err := repo.Info(context.Background(), "x"); err == nil {
		t.Fatal("expected error")
	}
}

// --- Delete ---

func TestDelete_RemovesBothKeys(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.existsFn = func(context.Context, string) (bool, error) { return true, nil }
	var deleted []string
	ms.delFn = func(_ context.Context, keys ...string) error {
		deleted = keys
		return nil
	}
	if err := repo.Delete(context.Background(), "news"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deleted) != 2 || deleted[0] != "contentrec:model:news" || deleted[1] != "contentrec:model:news:meta" {
		t.Errorf("deleted = %v", deleted)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.delFn = func(context.Context, ...string) error {
		t.Error("del must not run for a missing model")
		return nil
	}
	if err := repo.Delete(context.Background(), "x"); !errors.Is(err, domain.ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound, got %v", err)
	}
}

// --- List ---

func TestList_SortedByName(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.scanFn = func(_ context.Context, pattern string) ([]string, error) {
		if pattern != "contentrec:model:*:meta" {
			t.Errorf("unexpected pattern: %s", pattern)
		}
		return []string{"contentrec:model:b:meta", "contentrec:model:gone:meta", "contentrec:model:a:meta"}, nil
	}
	ms.hgetAllMultiFn = func(_ context.Context, keys []string) ([]map[string]string, error) {
		return []map[string]string{
			{"name": "b", "documents": "2"},
			{},
			{"documents": "1"},
		}, nil
	}

	infos, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 models, got %d", len(infos))
	}
	if infos[0].Name != "a" || infos[1].Name != "b" {
		t.Errorf("names = %s, %s", infos[0].Name, infos[1].Name)
	}
}

func TestList_Empty(t *testing.T) {
	repo, _ := newTestRepo(t)
	infos, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if infos == nil || len(infos) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", infos)
	}
}
