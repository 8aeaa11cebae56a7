package simapi

import "github.com/shaiso/Resonance/internal/domain"

// --- Projects / Storage / Geometry ---

// Project — проект на платформе.
type Project struct {
	ProjectID         string `json:"projectId,omitempty"`
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	MeasurementSystem string `json:"measurementSystem"`
}

// Storage — временное хранилище для загрузки бинарного blob.
type Storage struct {
	StorageID string `json:"storageId"`
	URL       string `json:"url"`
}

// GeometryImportRequest — запрос на импорт загруженной геометрии.
type GeometryImportRequest struct {
	Name      string                `json:"name"`
	StorageID string                `json:"storageId"`
	Format    string                `json:"format"`
	InputUnit string                `json:"inputUnit"`
	Options   GeometryImportOptions `json:"options"`
}

// GeometryImportOptions — опции импорта.
type GeometryImportOptions struct {
	FacetSplit bool `json:"facetSplit"`
	Sewing     bool `json:"sewing"`
	Improve    bool `json:"improve"`
}

// GeometryImport — состояние операции импорта геометрии.
type GeometryImport struct {
	GeometryImportID string `json:"geometryImportId"`
	Status           string `json:"status"`
	GeometryID       string `json:"geometryId,omitempty"`
	FailureReason    string `json:"failureReason,omitempty"`
}

// GeometryRegion — именованный регион (тело) импортированной геометрии.
type GeometryRegion struct {
	Name string `json:"name"`
}

// --- Simulation spec ---

// SimulationSpec — спецификация симуляции в формате платформы.
type SimulationSpec struct {
	SimulationID string        `json:"simulationId,omitempty"`
	Name         string        `json:"name"`
	GeometryID   string        `json:"geometryId"`
	MeshID       string        `json:"meshId,omitempty"`
	Model        HarmonicModel `json:"model"`
}

// HarmonicModel — модель гармонического анализа.
type HarmonicModel struct {
	Type               string              `json:"type"`
	Materials          []MaterialSpec      `json:"materials"`
	BoundaryConditions []BoundaryCondition `json:"boundaryConditions"`
	Numerics           Numerics            `json:"numerics"`
	SimulationControl  SimulationControl   `json:"simulationControl"`
}

// MaterialSpec — линейно-упругий материал с привязкой к телу.
type MaterialSpec struct {
	Name                 string               `json:"name"`
	YoungsModulus        DimensionalValue     `json:"youngsModulus"`
	PoissonsRatio        float64              `json:"poissonsRatio"`
	Density              DimensionalValue     `json:"density"`
	TopologicalReference TopologicalReference `json:"topologicalReference"`
}

// BoundaryCondition — закрепление или нагрузка на наборе граней.
type BoundaryCondition struct {
	Type                 string               `json:"type"`
	Name                 string               `json:"name"`
	Force                *ForceVector         `json:"force,omitempty"`
	TopologicalReference TopologicalReference `json:"topologicalReference"`
}

// Типы граничных условий платформы.
const (
	BCFixedSupport = "FIXED_SUPPORT"
	BCForceLoad    = "FORCE_LOAD"
)

// ForceVector — вектор силы с единицей измерения.
type ForceVector struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
	Unit string  `json:"unit"`
}

// TopologicalReference — ссылки на топологические сущности геометрии.
type TopologicalReference struct {
	Entities []string `json:"entities"`
}

// DimensionalValue — число с единицей измерения.
type DimensionalValue struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Numerics — настройки решателя.
type Numerics struct {
	SolutionMethod string `json:"solutionMethod"`
	Solver         string `json:"solver"`
	Modes          int    `json:"modes"`
}

// SimulationControl — управление расчётом.
type SimulationControl struct {
	ExcitationFrequencies FrequencyRange   `json:"excitationFrequencies"`
	NumProcessors         int              `json:"numProcessors"`
	MaxRunTime            DimensionalValue `json:"maxRunTime"`
}

// FrequencyRange — частотная развёртка.
type FrequencyRange struct {
	StartFrequency DimensionalValue `json:"startFrequency"`
	EndFrequency   DimensionalValue `json:"endFrequency"`
	Steps          int              `json:"steps"`
}

// NewSimulationSpec собирает спецификацию платформы из JobSpecification.
//
// bodyName — имя тела геометрии для назначения материала (первый регион
// импортированной геометрии).
func NewSimulationSpec(spec *domain.JobSpecification, geometryID, bodyName string) SimulationSpec {
	bcs := make([]BoundaryCondition, 0, len(spec.FixedSupports)+1)
	for _, s := range spec.FixedSupports {
		bcs = append(bcs, BoundaryCondition{
			Type:                 BCFixedSupport,
			Name:                 s.Name,
			TopologicalReference: TopologicalReference{Entities: s.Faces},
		})
	}
	bcs = append(bcs, BoundaryCondition{
		Type: BCForceLoad,
		Name: spec.Load.Name,
		Force: &ForceVector{
			X:    spec.Load.FX,
			Y:    spec.Load.FY,
			Z:    spec.Load.FZ,
			Unit: "N",
		},
		TopologicalReference: TopologicalReference{Entities: spec.Load.Faces},
	})

	return SimulationSpec{
		Name:       spec.Name,
		GeometryID: geometryID,
		Model: HarmonicModel{
			Type: "HARMONIC_ANALYSIS",
			Materials: []MaterialSpec{
				{
					Name:                 spec.Material.Name,
					YoungsModulus:        DimensionalValue{Value: spec.Material.YoungsModulus, Unit: "Pa"},
					PoissonsRatio:        spec.Material.PoissonsRatio,
					Density:              DimensionalValue{Value: spec.Material.Density, Unit: "kg/m³"},
					TopologicalReference: TopologicalReference{Entities: []string{bodyName}},
				},
			},
			BoundaryConditions: bcs,
			Numerics: Numerics{
				SolutionMethod: "MODAL_BASED",
				Solver:         "MUMPS",
				Modes:          spec.Solver.Modes,
			},
			SimulationControl: SimulationControl{
				ExcitationFrequencies: FrequencyRange{
					StartFrequency: DimensionalValue{Value: spec.Solver.StartFrequency, Unit: "Hz"},
					EndFrequency:   DimensionalValue{Value: spec.Solver.EndFrequency, Unit: "Hz"},
					Steps:          spec.Solver.Steps,
				},
				NumProcessors: -1,
				MaxRunTime:    DimensionalValue{Value: spec.Solver.MaxRunTimeSec, Unit: "s"},
			},
		},
	}
}

// --- Mesh ---

// MeshOperation — операция построения сетки.
type MeshOperation struct {
	MeshOperationID string    `json:"meshOperationId,omitempty"`
	Name            string    `json:"name"`
	GeometryID      string    `json:"geometryId"`
	Model           MeshModel `json:"model"`
	Status          string    `json:"status,omitempty"`
	MeshID          string    `json:"meshId,omitempty"`
	FailureReason   string    `json:"failureReason,omitempty"`
}

// MeshModel — автоматическая объёмная сетка.
type MeshModel struct {
	Type   string     `json:"type"`
	Sizing MeshSizing `json:"sizing"`
}

// MeshSizing — автоматический подбор размера элементов.
type MeshSizing struct {
	Type     string `json:"type"`
	Fineness int    `json:"fineness"`
}

// NewMeshOperation собирает операцию меширования из JobSpecification.
func NewMeshOperation(spec *domain.JobSpecification, geometryID string) MeshOperation {
	return MeshOperation{
		Name:       "Mesh",
		GeometryID: geometryID,
		Model: MeshModel{
			Type: "SIMMETRIX_MESHING_SOLID",
			Sizing: MeshSizing{
				Type:     "AUTOMATIC_V9",
				Fineness: spec.Mesh.Fineness,
			},
		},
	}
}

// --- Runs / Results ---

// SimulationRun — запуск решателя.
type SimulationRun struct {
	RunID         string  `json:"runId,omitempty"`
	Name          string  `json:"name"`
	Status        string  `json:"status,omitempty"`
	Progress      float64 `json:"progress,omitempty"`
	FailureReason string  `json:"failureReason,omitempty"`
}

// resultsResponse — ответ платформы на запрос результатов.
type resultsResponse struct {
	Embedded []resultEntry `json:"embedded"`
}

type resultEntry struct {
	Kind        string `json:"category"`
	Name        string `json:"name"`
	DownloadURL string `json:"downloadUrl,omitempty"`
}

// errorResponse — тело ошибки платформы.
type errorResponse struct {
	Message string `json:"message"`
}
