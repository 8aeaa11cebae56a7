package checkpoint

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Resonance/internal/domain"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return store
}

func testJob() *domain.Job {
	now := time.Now().Truncate(time.Second)
	return &domain.Job{
		ID:       uuid.New(),
		CaseName: "bracket",
		Handle: domain.JobHandle{
			ProjectID:    "p1",
			SimulationID: "s1",
			RunID:        "r1",
		},
		GeometryID: "g1",
		MeshID:     "m1",
		Stage:      "start_run",
		Status:     domain.StatusRunning,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestStore_SaveGet(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	job := testJob()

	if err := store.Save(ctx, job); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Get(ctx, job.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got.CaseName != job.CaseName {
		t.Errorf("CaseName = %q, want %q", got.CaseName, job.CaseName)
	}
	if got.Handle != job.Handle {
		t.Errorf("Handle = %+v, want %+v", got.Handle, job.Handle)
	}
	if got.Status != domain.StatusRunning {
		t.Errorf("Status = %s", got.Status)
	}
	if got.Stage != "start_run" {
		t.Errorf("Stage = %q", got.Stage)
	}
}

func TestStore_SaveUpdates(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	job := testJob()

	if err := store.Save(ctx, job); err != nil {
		t.Fatalf("save: %v", err)
	}

	job.MarkStatus(domain.StatusFinished)
	job.MarkStage("fetch_results")
	if err := store.Save(ctx, job); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := store.Get(ctx, job.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.StatusFinished || got.Stage != "fetch_results" {
		t.Errorf("update not persisted: status=%s stage=%s", got.Status, got.Stage)
	}

	jobs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(jobs) != 1 {
		t.Errorf("save must upsert, got %d records", len(jobs))
	}
}

func TestStore_GetMissing(t *testing.T) {
	store := testStore(t)

	_, err := store.Get(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Latest(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	older := testJob()
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := testJob()
	newer.ID = uuid.New()
	newer.CaseName = "newer"

	if err := store.Save(ctx, older); err != nil {
		t.Fatalf("save older: %v", err)
	}
	if err := store.Save(ctx, newer); err != nil {
		t.Fatalf("save newer: %v", err)
	}

	got, err := store.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if got.CaseName != "newer" {
		t.Errorf("Latest returned %q", got.CaseName)
	}
}

func TestStore_Delete(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	job := testJob()

	if err := store.Save(ctx, job); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Delete(ctx, job.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, job.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, job.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}
