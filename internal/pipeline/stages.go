package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shaiso/Resonance/internal/casefile"
	"github.com/shaiso/Resonance/internal/domain"
	"github.com/shaiso/Resonance/internal/poll"
	"github.com/shaiso/Resonance/internal/simapi"
	"github.com/shaiso/Resonance/internal/telemetry"
)

// Имена стадий конвейера. Порядок фиксирован; имя последней завершённой
// стадии пишется в чекпоинт.
const (
	StageCreateProject    = "create_project"
	StageImportGeometry   = "import_geometry"
	StageCreateSimulation = "create_simulation"
	StageMesh             = "mesh"
	StageStartRun         = "start_run"
	StageAwaitRun         = "await_run"
)

// Имя тела по умолчанию, если платформа не вернула регионы геометрии.
const defaultBodyName = "region1"

type stage struct {
	name string
	fn   func(o *Orchestrator, ctx context.Context, job *domain.Job, spec *domain.JobSpecification) error
}

var stages = []stage{
	{StageCreateProject, (*Orchestrator).createProject},
	{StageImportGeometry, (*Orchestrator).importGeometry},
	{StageCreateSimulation, (*Orchestrator).createSimulation},
	{StageMesh, (*Orchestrator).mesh},
	{StageStartRun, (*Orchestrator).startRun},
	{StageAwaitRun, (*Orchestrator).awaitRun},
}

// stageIndex возвращает позицию стадии в конвейере.
func stageIndex(name string) (int, error) {
	if name == "" {
		return -1, nil
	}
	for i, st := range stages {
		if st.name == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStage, name)
}

// mustStageIndex — stageIndex для констант из этого файла.
func mustStageIndex(name string) int {
	i, err := stageIndex(name)
	if err != nil {
		panic(err)
	}
	return i
}

// createProject создаёт проект на платформе.
func (o *Orchestrator) createProject(ctx context.Context, job *domain.Job, spec *domain.JobSpecification) error {
	projectID, err := o.client.CreateProject(ctx, spec.Name, "Harmonic response analysis")
	if err != nil {
		return err
	}
	job.Handle.ProjectID = projectID
	return nil
}

// importGeometry загружает файл геометрии как blob и ждёт импорта.
func (o *Orchestrator) importGeometry(ctx context.Context, job *domain.Job, spec *domain.JobSpecification) error {
	data, err := os.ReadFile(spec.Geometry.Path)
	if err != nil {
		return fmt.Errorf("%w: read geometry file: %v", casefile.ErrConfiguration, err)
	}

	storage, err := o.client.CreateStorage(ctx)
	if err != nil {
		return err
	}
	if err := o.client.UploadBlob(ctx, storage.URL, data); err != nil {
		return err
	}

	imp, err := o.client.ImportGeometry(ctx, job.Handle.ProjectID, simapi.GeometryImportRequest{
		Name:      spec.Name,
		StorageID: storage.StorageID,
		Format:    spec.Geometry.Format,
		InputUnit: spec.Geometry.Unit,
		Options:   simapi.GeometryImportOptions{Improve: true},
	})
	if err != nil {
		return err
	}

	waiter := o.prepWaiter(ctx, "import_geometry")
	var last *simapi.GeometryImport
	status, err := waiter.Wait(ctx, func(ctx context.Context) (domain.JobStatus, error) {
		cur, err := o.client.GetGeometryImport(ctx, job.Handle.ProjectID, imp.GeometryImportID)
		if err != nil {
			return "", err
		}
		last = cur
		return domain.ParseStatus(cur.Status)
	})
	if err != nil {
		return err
	}

	if status != domain.StatusFinished {
		return fmt.Errorf("%w: geometry import %s: %s", ErrJobFailed, status, last.FailureReason)
	}

	job.GeometryID = last.GeometryID
	return nil
}

// createSimulation создаёт симуляцию из спецификации.
func (o *Orchestrator) createSimulation(ctx context.Context, job *domain.Job, spec *domain.JobSpecification) error {
	bodyName, err := o.bodyName(ctx, job)
	if err != nil {
		return err
	}

	simulationID, err := o.client.CreateSimulation(ctx, job.Handle.ProjectID,
		simapi.NewSimulationSpec(spec, job.GeometryID, bodyName))
	if err != nil {
		return err
	}

	job.Handle.SimulationID = simulationID
	return nil
}

// mesh строит сетку и привязывает её к симуляции.
func (o *Orchestrator) mesh(ctx context.Context, job *domain.Job, spec *domain.JobSpecification) error {
	created, err := o.client.CreateMeshOperation(ctx, job.Handle.ProjectID,
		simapi.NewMeshOperation(spec, job.GeometryID))
	if err != nil {
		return err
	}

	if err := o.client.StartMeshOperation(ctx, job.Handle.ProjectID, created.MeshOperationID, job.Handle.SimulationID); err != nil {
		return err
	}

	waiter := o.prepWaiter(ctx, "mesh")
	var last *simapi.MeshOperation
	status, err := waiter.Wait(ctx, func(ctx context.Context) (domain.JobStatus, error) {
		cur, err := o.client.GetMeshOperation(ctx, job.Handle.ProjectID, created.MeshOperationID)
		if err != nil {
			return "", err
		}
		last = cur
		return domain.ParseStatus(cur.Status)
	})
	if err != nil {
		return err
	}

	if status != domain.StatusFinished {
		return fmt.Errorf("%w: meshing %s: %s", ErrJobFailed, status, last.FailureReason)
	}
	job.MeshID = last.MeshID

	// Привязываем сетку: платформа принимает полную спецификацию.
	bodyName, err := o.bodyName(ctx, job)
	if err != nil {
		return err
	}
	simSpec := simapi.NewSimulationSpec(spec, job.GeometryID, bodyName)
	simSpec.SimulationID = job.Handle.SimulationID
	simSpec.MeshID = job.MeshID

	return o.client.UpdateSimulation(ctx, job.Handle.ProjectID, job.Handle.SimulationID, simSpec)
}

// startRun создаёт и запускает решатель.
//
// Хэндл чекпоинтится до start: падение между create и start
// не оставляет неотслеживаемую задачу.
func (o *Orchestrator) startRun(ctx context.Context, job *domain.Job, spec *domain.JobSpecification) error {
	runID, err := o.client.CreateRun(ctx, job.Handle.ProjectID, job.Handle.SimulationID, "Run 1")
	if err != nil {
		return err
	}
	job.Handle.RunID = runID
	o.saveCheckpoint(ctx, job)

	if err := o.client.StartRun(ctx, job.Handle); err != nil {
		return err
	}

	o.noteTransition(ctx, job, "", domain.StatusQueued)
	return nil
}

// awaitRun ждёт терминального статуса решателя.
// Как именно завершилась задача, решает FetchResults.
func (o *Orchestrator) awaitRun(ctx context.Context, job *domain.Job, spec *domain.JobSpecification) error {
	_, err := o.AwaitCompletion(ctx, job)
	return err
}

// bodyName возвращает имя тела геометрии для назначения материала.
func (o *Orchestrator) bodyName(ctx context.Context, job *domain.Job) (string, error) {
	regions, err := o.client.ListGeometryRegions(ctx, job.Handle.ProjectID, job.GeometryID)
	if err != nil {
		return "", err
	}
	if len(regions) == 0 {
		return defaultBodyName, nil
	}
	return regions[0], nil
}

// prepWaiter — waiter для подготовительных операций (импорт, сетка).
func (o *Orchestrator) prepWaiter(ctx context.Context, stage string) *poll.Waiter {
	return &poll.Waiter{
		Interval:  minDuration(o.pollInterval, prepPollInterval),
		Timeout:   minDuration(o.pollTimeout, prepPollTimeout),
		Stage:     stage,
		Retryable: isTransport,
		Logger:    telemetry.FromContext(ctx),
	}
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
