package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Resonance/internal/casefile"
	"github.com/shaiso/Resonance/internal/checkpoint"
	"github.com/shaiso/Resonance/internal/domain"
	"github.com/shaiso/Resonance/internal/simapi"
)

// fakePlatform — in-memory имитация REST API платформы.
//
// Статусы решателя выдаются из заданной последовательности; после её
// исчерпания повторяется последний.
type fakePlatform struct {
	t      *testing.T
	server *httptest.Server

	runStatuses []string

	mu             sync.Mutex
	counts         map[string]int
	runIdx         int
	uploaded       []byte
	attachedMeshID string
}

func newFakePlatform(t *testing.T, runStatuses []string) *fakePlatform {
	t.Helper()
	p := &fakePlatform{
		t:           t,
		runStatuses: runStatuses,
		counts:      make(map[string]int),
	}
	p.server = httptest.NewServer(p)
	t.Cleanup(p.server.Close)
	return p
}

func (p *fakePlatform) count(key string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counts[key]
}

func (p *fakePlatform) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	p.counts[r.Method+" "+r.URL.Path]++
	p.mu.Unlock()

	writeJSON := func(v any) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(v); err != nil {
			p.t.Errorf("encode response: %v", err)
		}
	}

	path := r.URL.Path
	switch {
	case r.Method == http.MethodPost && path == "/projects":
		writeJSON(map[string]string{"projectId": "proj-1"})

	case r.Method == http.MethodPost && path == "/storage":
		writeJSON(map[string]string{"storageId": "st-1", "url": p.server.URL + "/upload/st-1"})

	case r.Method == http.MethodPut && path == "/upload/st-1":
		data, err := io.ReadAll(r.Body)
		if err != nil {
			p.t.Errorf("read upload body: %v", err)
		}
		p.mu.Lock()
		p.uploaded = data
		p.mu.Unlock()

	case r.Method == http.MethodPost && path == "/projects/proj-1/geometryimports":
		writeJSON(map[string]string{"geometryImportId": "gi-1", "status": "QUEUED"})

	case r.Method == http.MethodGet && path == "/projects/proj-1/geometryimports/gi-1":
		writeJSON(map[string]string{"geometryImportId": "gi-1", "status": "FINISHED", "geometryId": "geo-1"})

	case r.Method == http.MethodGet && path == "/projects/proj-1/geometries/geo-1/regions":
		writeJSON(map[string]any{"embedded": []map[string]string{{"name": "solid_body"}}})

	case r.Method == http.MethodPost && path == "/projects/proj-1/simulations":
		writeJSON(map[string]string{"simulationId": "sim-1"})

	case r.Method == http.MethodPut && path == "/projects/proj-1/simulations/sim-1":
		var spec simapi.SimulationSpec
		if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
			p.t.Errorf("decode simulation update: %v", err)
		}
		p.mu.Lock()
		p.attachedMeshID = spec.MeshID
		p.mu.Unlock()

	case r.Method == http.MethodPost && path == "/projects/proj-1/meshoperations":
		writeJSON(map[string]string{"meshOperationId": "mo-1"})

	case r.Method == http.MethodPost && path == "/projects/proj-1/meshoperations/mo-1/start":
		if got := r.URL.Query().Get("simulationId"); got != "sim-1" {
			p.t.Errorf("mesh start simulationId = %q, want sim-1", got)
		}

	case r.Method == http.MethodGet && path == "/projects/proj-1/meshoperations/mo-1":
		writeJSON(map[string]string{"meshOperationId": "mo-1", "status": "FINISHED", "meshId": "mesh-1"})

	case r.Method == http.MethodPost && path == "/projects/proj-1/simulations/sim-1/runs":
		writeJSON(map[string]string{"runId": "run-1"})

	case r.Method == http.MethodPost && path == "/projects/proj-1/simulations/sim-1/runs/run-1/start":
		// ok

	case r.Method == http.MethodGet && path == "/projects/proj-1/simulations/sim-1/runs/run-1":
		p.mu.Lock()
		idx := p.runIdx
		if idx >= len(p.runStatuses) {
			idx = len(p.runStatuses) - 1
		} else {
			p.runIdx++
		}
		status := p.runStatuses[idx]
		p.mu.Unlock()
		writeJSON(map[string]any{"runId": "run-1", "status": status, "progress": 0.5})

	case r.Method == http.MethodGet && path == "/projects/proj-1/simulations/sim-1/runs/run-1/results":
		writeJSON(map[string]any{"embedded": []map[string]string{
			{"category": "SOLUTION", "name": "solution fields", "downloadUrl": p.server.URL + "/download/sol-1"},
		}})

	default:
		http.NotFound(w, r)
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestOrchestrator(t *testing.T, p *fakePlatform, store *checkpoint.Store) *Orchestrator {
	t.Helper()
	return New(Config{
		Client:       simapi.NewClient(p.server.URL, "test-key", testLogger()),
		Store:        store,
		PollInterval: 2 * time.Millisecond,
		PollTimeout:  5 * time.Second,
		Logger:       testLogger(),
	})
}

// testCase собирает валидный кейс с реально существующим файлом геометрии.
func testCase(t *testing.T, dir string) *casefile.Case {
	t.Helper()

	geomPath := filepath.Join(dir, "bracket.step")
	if err := os.WriteFile(geomPath, []byte("ISO-10303-21;"), 0o644); err != nil {
		t.Fatalf("write geometry fixture: %v", err)
	}

	return &casefile.Case{
		Name:     "bracket",
		Geometry: casefile.GeometryBlock{Path: geomPath},
		Material: casefile.MaterialBlock{Name: "Steel", YoungsModulus: 2.0e11, PoissonsRatio: 0.3, Density: 7850},
		Supports: []casefile.SupportBlock{{Name: "mounting holes", Faces: []string{"B1_TE42", "B1_TE70"}}},
		Load:     casefile.LoadBlock{Name: "tip load", FZ: -1000, Faces: []string{"B1_TE150"}},
		Sweep:    casefile.SweepBlock{StartHz: 10, EndHz: 1000, Steps: 50},
	}
}

func TestRunFullPipeline(t *testing.T) {
	p := newFakePlatform(t, []string{"QUEUED", "RUNNING", "FINISHED"})

	store, err := checkpoint.Open(filepath.Join(t.TempDir(), "jobs.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	o := newTestOrchestrator(t, p, store)
	results, err := o.Run(context.Background(), testCase(t, t.TempDir()))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(results.Items) != 1 || results.Items[0].Name != "solution fields" {
		t.Errorf("unexpected result items: %+v", results.Items)
	}
	if results.RunID != "run-1" {
		t.Errorf("RunID = %q, want run-1", results.RunID)
	}

	if got := p.uploaded; string(got) != "ISO-10303-21;" {
		t.Errorf("uploaded blob = %q, want geometry file contents", got)
	}
	if p.attachedMeshID != "mesh-1" {
		t.Errorf("attached mesh = %q, want mesh-1", p.attachedMeshID)
	}

	job, err := store.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if job.Stage != StageAwaitRun {
		t.Errorf("checkpointed stage = %q, want %q", job.Stage, StageAwaitRun)
	}
	if job.Status != domain.StatusFinished {
		t.Errorf("checkpointed status = %s, want FINISHED", job.Status)
	}
	if job.Handle.IsZero() {
		t.Errorf("checkpointed handle is zero: %+v", job.Handle)
	}
}

func TestRunSolverFailed(t *testing.T) {
	p := newFakePlatform(t, []string{"QUEUED", "RUNNING", "FAILED"})

	o := newTestOrchestrator(t, p, nil)
	_, err := o.Run(context.Background(), testCase(t, t.TempDir()))
	if !errors.Is(err, ErrJobFailed) {
		t.Fatalf("Run error = %v, want ErrJobFailed", err)
	}
}

func TestRunSolverCanceled(t *testing.T) {
	p := newFakePlatform(t, []string{"RUNNING", "CANCELED"})

	o := newTestOrchestrator(t, p, nil)
	_, err := o.Run(context.Background(), testCase(t, t.TempDir()))
	if !errors.Is(err, ErrJobCanceled) {
		t.Fatalf("Run error = %v, want ErrJobCanceled", err)
	}
}

func TestRunMissingGeometryFile(t *testing.T) {
	p := newFakePlatform(t, []string{"FINISHED"})

	c := testCase(t, t.TempDir())
	c.Geometry.Path = filepath.Join(t.TempDir(), "no-such-file.step")

	o := newTestOrchestrator(t, p, nil)
	_, err := o.Run(context.Background(), c)
	if !errors.Is(err, casefile.ErrConfiguration) {
		t.Fatalf("Run error = %v, want ErrConfiguration", err)
	}

	// Конвейер остановился до создания симуляции.
	if n := p.count("POST /projects/proj-1/simulations"); n != 0 {
		t.Errorf("simulation was created %d times after geometry failure", n)
	}
}

// Submit запускает решатель и возвращает управление, не опрашивая статус.
func TestSubmitReturnsWithoutWaiting(t *testing.T) {
	p := newFakePlatform(t, []string{"QUEUED"})

	o := newTestOrchestrator(t, p, nil)
	job, err := o.Submit(context.Background(), testCase(t, t.TempDir()))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if job.Handle.IsZero() {
		t.Errorf("submitted job has no handle: %+v", job.Handle)
	}
	if job.Stage != StageStartRun {
		t.Errorf("stage = %q, want %q", job.Stage, StageStartRun)
	}
	if job.Status != domain.StatusQueued {
		t.Errorf("status = %s, want QUEUED", job.Status)
	}

	if n := p.count("POST /projects/proj-1/simulations/sim-1/runs/run-1/start"); n != 1 {
		t.Errorf("solver started %d times, want 1", n)
	}
	if n := p.count("GET /projects/proj-1/simulations/sim-1/runs/run-1"); n != 0 {
		t.Errorf("status was polled %d times after submit", n)
	}
}

// Resume после start_run не трогает стадии подготовки:
// только опрос статуса и результаты.
func TestResumeFromStartRun(t *testing.T) {
	p := newFakePlatform(t, []string{"RUNNING", "FINISHED"})

	job := &domain.Job{
		ID:       uuid.New(),
		CaseName: "bracket",
		Handle:   domain.JobHandle{ProjectID: "proj-1", SimulationID: "sim-1", RunID: "run-1"},
		Stage:    StageStartRun,
		Status:   domain.StatusQueued,
	}

	o := newTestOrchestrator(t, p, nil)
	results, err := o.Resume(context.Background(), job, nil)
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if results.RunID != "run-1" {
		t.Errorf("RunID = %q, want run-1", results.RunID)
	}

	for _, key := range []string{
		"POST /projects",
		"POST /projects/proj-1/simulations/sim-1/runs",
		"POST /projects/proj-1/simulations/sim-1/runs/run-1/start",
	} {
		if n := p.count(key); n != 0 {
			t.Errorf("%s was called %d times during resume", key, n)
		}
	}
}

func TestResumeBeforeStartRunRequiresCase(t *testing.T) {
	p := newFakePlatform(t, nil)

	job := &domain.Job{
		ID:     uuid.New(),
		Handle: domain.JobHandle{ProjectID: "proj-1", SimulationID: "sim-1"},
		Stage:  StageMesh,
	}

	o := newTestOrchestrator(t, p, nil)
	_, err := o.Resume(context.Background(), job, nil)
	if !errors.Is(err, ErrSpecRequired) {
		t.Fatalf("Resume error = %v, want ErrSpecRequired", err)
	}
}

func TestResumeUnknownStage(t *testing.T) {
	p := newFakePlatform(t, nil)

	job := &domain.Job{ID: uuid.New(), Stage: "compile_shaders"}

	o := newTestOrchestrator(t, p, nil)
	_, err := o.Resume(context.Background(), job, nil)
	if !errors.Is(err, ErrUnknownStage) {
		t.Fatalf("Resume error = %v, want ErrUnknownStage", err)
	}
}

func TestFetchResultsGuards(t *testing.T) {
	p := newFakePlatform(t, nil)
	o := newTestOrchestrator(t, p, nil)

	handle := domain.JobHandle{ProjectID: "proj-1", SimulationID: "sim-1", RunID: "run-1"}

	tests := []struct {
		name    string
		job     *domain.Job
		wantErr error
	}{
		{"running job", &domain.Job{Handle: handle, Status: domain.StatusRunning}, ErrNotReady},
		{"queued job", &domain.Job{Handle: handle, Status: domain.StatusQueued}, ErrNotReady},
		{"failed job", &domain.Job{Handle: handle, Status: domain.StatusFailed, Error: "diverged"}, ErrJobFailed},
		{"canceled job", &domain.Job{Handle: handle, Status: domain.StatusCanceled}, ErrJobCanceled},
		{"unsubmitted job", &domain.Job{Status: domain.StatusFinished}, simapi.ErrInvalidHandle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := o.FetchResults(context.Background(), tt.job)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("FetchResults error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFetchResultsFinished(t *testing.T) {
	p := newFakePlatform(t, nil)
	o := newTestOrchestrator(t, p, nil)

	job := &domain.Job{
		Handle: domain.JobHandle{ProjectID: "proj-1", SimulationID: "sim-1", RunID: "run-1"},
		Status: domain.StatusFinished,
	}

	results, err := o.FetchResults(context.Background(), job)
	if err != nil {
		t.Fatalf("FetchResults: %v", err)
	}
	if results.WorkbenchURL == "" {
		t.Error("expected a workbench URL in results")
	}
}
