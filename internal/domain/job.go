package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobHandle — непрозрачный идентификатор задачи на платформе.
//
// Выдаётся платформой при успешном submit и используется для всех
// последующих запросов статуса и результатов. До submit хэндл пуст
// и любой запрос с ним — ошибка ErrInvalidHandle.
type JobHandle struct {
	// ProjectID — идентификатор проекта на платформе.
	ProjectID string `json:"project_id"`

	// SimulationID — идентификатор симуляции внутри проекта.
	SimulationID string `json:"simulation_id"`

	// RunID — идентификатор запуска решателя.
	RunID string `json:"run_id"`
}

// IsZero возвращает true, если хэндл ещё не выдан платформой.
func (h JobHandle) IsZero() bool {
	return h.ProjectID == "" || h.SimulationID == "" || h.RunID == ""
}

// Job — локальная запись о задаче.
//
// Job создаётся при запуске пайплайна и чекпоинтится после каждой
// стадии (internal/checkpoint). Падение процесса посреди polling
// не теряет уже запущенную удалённую задачу: resume восстанавливает
// хэндл из чекпоинта и продолжает отслеживание.
type Job struct {
	// ID — локальный идентификатор задачи.
	ID uuid.UUID `json:"id"`

	// CaseName — имя кейса из case-файла.
	CaseName string `json:"case_name"`

	// Handle — хэндл задачи на платформе.
	// Частично заполняется по мере прохождения стадий.
	Handle JobHandle `json:"handle"`

	// GeometryID — идентификатор импортированной геометрии.
	GeometryID string `json:"geometry_id,omitempty"`

	// MeshID — идентификатор построенной сетки.
	MeshID string `json:"mesh_id,omitempty"`

	// Stage — последняя успешно завершённая стадия пайплайна.
	Stage string `json:"stage"`

	// Status — последний наблюдавшийся статус задачи.
	Status JobStatus `json:"status"`

	// Error — текст ошибки, если задача завершилась FAILED.
	Error string `json:"error,omitempty"`

	// CreatedAt — время создания записи.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt — время последнего чекпоинта.
	UpdatedAt time.Time `json:"updated_at"`
}

// IsFinished возвращает true, если задача в терминальном статусе.
func (j *Job) IsFinished() bool {
	return j.Status.IsTerminal()
}

// MarkStage фиксирует завершение стадии.
func (j *Job) MarkStage(stage string) {
	j.Stage = stage
	j.UpdatedAt = time.Now()
}

// MarkStatus фиксирует наблюдавшийся статус.
func (j *Job) MarkStatus(status JobStatus) {
	j.Status = status
	j.UpdatedAt = time.Now()
}
